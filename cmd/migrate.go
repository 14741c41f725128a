package cmd

import (
	"aggregate-persistence/feature/order"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verifyOnly bool

// migrateCmd creates the aggregate tables and checks them against the models.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the aggregate tables",
	Long: `Runs GORM auto migration for the order tables, then verifies that every
mapped column exists in the live schema. Use --verify to only check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer rt.Close()

		if !verifyOnly {
			if err := order.Migrate(rt.db); err != nil {
				return err
			}
			rt.log.Info("Migrated order tables")
		}

		gw, err := order.NewGateway(rt.db, rt.cfg.Persistence, rt.sink, rt.log)
		if err != nil {
			return err
		}
		if err := gw.Verify(cmd.Context()); err != nil {
			return err
		}
		rt.log.Info("Schema verified", zap.String("driver", rt.cfg.Database.Driver))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&verifyOnly, "verify", false, "only verify the schema")
	RootCmd.AddCommand(migrateCmd)
}
