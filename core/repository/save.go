package repository

import (
	"context"

	"aggregate-persistence/core/aggregate"
	"aggregate-persistence/core/entity"
	"aggregate-persistence/core/errs"
)

// Outcome tells what a save did.
type Outcome string

const (
	// OutcomeCreated means the root and its children were inserted.
	OutcomeCreated Outcome = "created"
	// OutcomeUnchanged means nothing differed from the snapshot; storage was not touched.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeUpdated means the delta was written.
	OutcomeUpdated Outcome = "updated"
)

// Result is returned by a successful save.
type Result[K comparable] struct {
	ID      K       `json:"id"`
	Outcome Outcome `json:"outcome"`
}

// Operations are the aggregate specific writes a save dispatches to.
type Operations[R any] struct {
	// Create inserts a new root and its children, writing ids back.
	Create func(ctx context.Context, root R) error
	// Update writes the delta between root and snapshot. It reports whether at
	// least one of the root update or the child mutations affected storage.
	Update func(ctx context.Context, root, snapshot R) (bool, error)
}

// Save persists agg: new roots are created, unchanged ones are left alone,
// changed ones are updated. An update that affected nothing is reported as an
// optimistic lock conflict. A saved aggregate is sealed.
func Save[K comparable, R entity.Identifiable[K]](ctx context.Context, agg *aggregate.Aggregate[K, R], ops Operations[R]) (Result[K], error) {
	const op = "repository.Save"
	var zero Result[K]
	if agg == nil {
		return zero, errs.New(errs.CodeNullArgument, op, "aggregate is nil")
	}
	if ops.Create == nil || ops.Update == nil {
		return zero, errs.New(errs.CodeNullArgument, op, "create and update operations are required")
	}
	if agg.Sealed() {
		return zero, errs.New(errs.CodeInvalidState, op, "aggregate was already saved")
	}

	if agg.IsNew() {
		if err := ops.Create(ctx, agg.Root()); err != nil {
			return zero, err
		}
		agg.Seal()
		return Result[K]{ID: agg.ID(), Outcome: OutcomeCreated}, nil
	}

	changed, err := agg.IsChanged()
	if err != nil {
		return zero, err
	}
	if !changed {
		agg.Seal()
		return Result[K]{ID: agg.ID(), Outcome: OutcomeUnchanged}, nil
	}

	ok, err := ops.Update(ctx, agg.Root(), agg.Snapshot())
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, errs.Newf(errs.CodeOptimisticLock, op, "%T %v was modified or removed concurrently", agg.Root(), agg.ID())
	}
	agg.Seal()
	return Result[K]{ID: agg.ID(), Outcome: OutcomeUpdated}, nil
}
