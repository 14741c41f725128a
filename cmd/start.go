package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"aggregate-persistence/core/loader"
	"aggregate-persistence/core/logger"
	"aggregate-persistence/core/middleware/auth"
	"aggregate-persistence/core/middleware/rayid"
	"aggregate-persistence/feature/order"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "aggregate-persistence/docs/swagger"
)

// @title Aggregate Persistence API
// @version 1.0
// @description Loads and saves order aggregates under optimistic locking.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := bootstrap(context.Background(), false)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer rt.Close()
		logg := rt.log
		zap.ReplaceGlobals(logg)

		app, err := newServer(rt)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(rt.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// newServer builds the fiber app with middleware, API docs and features.
func newServer(rt *runtime) (*fiber.App, error) {
	logg := rt.log
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           rt.cfg.Server.ReadTimeout(),
		WriteTimeout:          rt.cfg.Server.WriteTimeout(),
	})

	mgr := loader.NewManager(logg)
	mgr.Register(order.NewFeature(rt.db, rt.cfg.Persistence, rt.sink, logg))

	// RayID must be first to trace everything.
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Docs stay public.
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}

func init() {
	RootCmd.AddCommand(startCmd)
}
