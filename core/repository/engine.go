package repository

import (
	"context"

	"aggregate-persistence/core/entity"
	"aggregate-persistence/core/optlock"
)

// DefaultBatchSize is the batch insert limit used when none is configured.
const DefaultBatchSize = 1024

// Engine is the storage port the persistence layer dispatches to.
// Implementations execute the operations; they never decide what to write.
type Engine[K comparable, T entity.Identifiable[K]] interface {
	// Insert persists one item and populates its generated id.
	Insert(ctx context.Context, item T) (bool, error)
	// InsertBatch persists items in one round trip and populates their ids.
	// It fails with batch_limit_exceeded when len(items) > BatchSize().
	InsertBatch(ctx context.Context, items []T) (bool, error)
	// Update applies a conditional update. Zero matched rows is false, not an error.
	Update(ctx context.Context, req optlock.Request[K, T]) (bool, error)
	// DeleteBatch removes items by id. An empty input reports true.
	DeleteBatch(ctx context.Context, items []T) (bool, error)
	// BatchSize is the largest accepted batch insert.
	BatchSize() int
}
