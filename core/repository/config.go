package repository

import "aggregate-persistence/core/copier"

// Config holds configuration for the persistence layer.
type Config struct {
	// BatchSize caps the number of rows per batch insert.
	BatchSize int `mapstructure:"batch_size" default:"1024"`
	// Copier names the snapshot strategy (json, clone, copystructure).
	Copier string `mapstructure:"copier" default:"json"`
}

// EffectiveBatchSize returns BatchSize, or DefaultBatchSize when unset.
func (c Config) EffectiveBatchSize() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

// NewCopier returns the configured snapshot strategy.
func (c Config) NewCopier() (copier.DeepCopier, error) {
	return copier.New(c.Copier)
}
