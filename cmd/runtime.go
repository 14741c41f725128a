package cmd

import (
	"context"
	"fmt"

	"aggregate-persistence/core/config"
	"aggregate-persistence/core/database"
	"aggregate-persistence/core/journal"
	"aggregate-persistence/core/logger"
	"aggregate-persistence/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime is what every command needs once configuration is loaded.
type runtime struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	sink   journal.Sink
	object *journal.ObjectSink
}

func (r *runtime) Close() {
	if r.db != nil {
		if sqlDB, err := r.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = r.log.Sync()
}

// bootstrap loads configuration and builds the logger. With needDB the
// database must be reachable; otherwise a failed connection is only logged.
func bootstrap(ctx context.Context, needDB bool) (*runtime, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	rt := &runtime{cfg: cfg, log: logg}

	if conn, err := database.Connect(cfg.Database); err != nil {
		if needDB {
			return nil, err
		}
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		rt.db = conn
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	}

	var client storage.Client
	if cfg.Journal.Sink == journal.SinkObject {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
	}
	rt.sink, err = journal.NewSink(cfg.Journal, logg, client, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}
	if objects, ok := rt.sink.(*journal.ObjectSink); ok {
		rt.object = objects
	}
	return rt, nil
}
