package repository

import (
	"context"
	"fmt"

	"aggregate-persistence/core/diff"
	"aggregate-persistence/core/entity"
	"aggregate-persistence/core/errs"
	"aggregate-persistence/core/optlock"
	"aggregate-persistence/core/reconcile"

	"go.uber.org/zap"
)

// Table binds a domain type D to the persistence type P stored by an engine.
// Every write projects D to P, diffs projected values, dispatches to the
// engine, then copies the generated id and version back onto D.
type Table[K comparable, D entity.Identifiable[K], P entity.Identifiable[K]] struct {
	name    string
	engine  Engine[K, P]
	project func(D) P
	isNew   func(D) bool
	logger  *zap.Logger
}

// TableOption customizes a Table.
type TableOption[D any] func(*tableOptions[D])

type tableOptions[D any] struct {
	isNew func(D) bool
}

// WithIsNew overrides identity-based detection of new child items.
func WithIsNew[D any](fn func(D) bool) TableOption[D] {
	return func(o *tableOptions[D]) {
		o.isNew = fn
	}
}

// NewTable creates a table named name (used in logs and errors).
func NewTable[K comparable, D entity.Identifiable[K], P entity.Identifiable[K]](
	name string,
	engine Engine[K, P],
	project func(D) P,
	logger *zap.Logger,
	opts ...TableOption[D],
) (*Table[K, D, P], error) {
	if entity.IsNil(engine) || project == nil {
		return nil, errs.Newf(errs.CodeNullArgument, "repository.NewTable", "%s: engine and projection are required", name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var o tableOptions[D]
	for _, fn := range opts {
		fn(&o)
	}
	return &Table[K, D, P]{
		name:    name,
		engine:  engine,
		project: project,
		isNew:   o.isNew,
		logger:  logger.With(zap.String("table", name)),
	}, nil
}

// Name returns the table name.
func (t *Table[K, D, P]) Name() string { return t.name }

// Insert persists d and writes its generated id and initial version back.
func (t *Table[K, D, P]) Insert(ctx context.Context, d D) error {
	op := t.name + ".Insert"
	if entity.IsNil(d) {
		return errs.New(errs.CodeNullArgument, op, "item is nil")
	}
	p := t.project(d)
	optlock.Initialize(p)

	ok, err := t.engine.Insert(ctx, p)
	if err != nil {
		return errs.FromStorage(op, err)
	}
	if !ok {
		return errs.New(errs.CodeStorage, op, "insert affected no row")
	}
	writeBack[K](d, p)
	t.logger.Debug("Inserted", zap.Any("id", p.GetID()))
	return nil
}

// InsertAll persists items in batches no larger than the engine limit.
func (t *Table[K, D, P]) InsertAll(ctx context.Context, items []D) error {
	op := t.name + ".InsertAll"
	if len(items) == 0 {
		return nil
	}
	projected := make([]P, len(items))
	for i, d := range items {
		if entity.IsNil(d) {
			return errs.Newf(errs.CodeNullArgument, op, "item %d is nil", i)
		}
		projected[i] = t.project(d)
		optlock.Initialize(projected[i])
	}

	size := t.engine.BatchSize()
	if size <= 0 {
		size = DefaultBatchSize
	}
	for start := 0; start < len(projected); start += size {
		end := min(start+size, len(projected))
		ok, err := t.engine.InsertBatch(ctx, projected[start:end])
		if err != nil {
			return errs.FromStorage(op, err)
		}
		if !ok {
			return errs.Newf(errs.CodeStorage, op, "batch %d-%d affected no row", start, end)
		}
	}
	for i, d := range items {
		writeBack[K](d, projected[i])
	}
	t.logger.Debug("Inserted batch", zap.Int("count", len(items)))
	return nil
}

// DeleteAll removes items by id. An empty input reports true.
func (t *Table[K, D, P]) DeleteAll(ctx context.Context, items []D) (bool, error) {
	if len(items) == 0 {
		return true, nil
	}
	projected := make([]P, len(items))
	for i, d := range items {
		projected[i] = t.project(d)
	}
	ok, err := t.engine.DeleteBatch(ctx, projected)
	if err != nil {
		return false, errs.FromStorage(t.name+".DeleteAll", err)
	}
	return ok, nil
}

// SafeUpdate writes the attributes of current that differ from loaded,
// guarded by the version loaded. It reports false on a guard miss.
func (t *Table[K, D, P]) SafeUpdate(ctx context.Context, current, loaded D) (bool, error) {
	res, err := t.update(ctx, current, loaded)
	if err != nil {
		return false, err
	}
	return res != updateConflict, nil
}

type updateResult int

const (
	updateNoop updateResult = iota
	updateApplied
	updateConflict
)

func (t *Table[K, D, P]) update(ctx context.Context, current, loaded D) (updateResult, error) {
	op := t.name + ".SafeUpdate"
	if entity.IsNil(current) || entity.IsNil(loaded) {
		return updateNoop, errs.New(errs.CodeNullArgument, op, "current and loaded are required")
	}
	pNew, pOld := t.project(current), t.project(loaded)
	if pNew.GetID() != pOld.GetID() {
		return updateNoop, errs.Newf(errs.CodeInvalidState, op, "id changed from %v to %v", pOld.GetID(), pNew.GetID())
	}
	fields, err := diff.FindChangedFields(pNew, pOld, diff.NamingField)
	if err != nil {
		return updateNoop, err
	}
	expected, versioned := entity.VersionOf(pOld)
	if fields.Without(optlock.VersionField).Empty() && (!versioned || expected <= 0) {
		return updateNoop, nil
	}

	ok, err := optlock.Update[K, P](ctx, t.engine, pNew, fields, expected)
	if err != nil {
		return updateNoop, errs.FromStorage(op, err)
	}
	if !ok {
		t.logger.Warn("Conditional update matched no row",
			zap.Any("id", pNew.GetID()),
			zap.Int64("expected_version", expected),
		)
		return updateConflict, nil
	}
	writeBack[K](current, pNew)
	t.logger.Debug("Updated",
		zap.Any("id", pNew.GetID()),
		zap.Strings("fields", fields.Names()),
	)
	return updateApplied, nil
}

// ListOutcome counts what a collection update did to storage.
type ListOutcome struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Conflicts int `json:"conflicts"`
}

// Affected reports whether storage was touched.
func (o ListOutcome) Affected() bool {
	return o.Inserted+o.Updated+o.Deleted > 0
}

func (o ListOutcome) String() string {
	return fmt.Sprintf("inserted=%d updated=%d deleted=%d conflicts=%d", o.Inserted, o.Updated, o.Deleted, o.Conflicts)
}

// ListUpdate reconciles the current collection against the loaded one:
// new items are batch inserted with ids written back, matched items are
// updated only when their projection differs, and missing items are deleted.
func (t *Table[K, D, P]) ListUpdate(ctx context.Context, current, loaded []D) (ListOutcome, error) {
	var out ListOutcome
	var opts []reconcile.Option[D]
	if t.isNew != nil {
		opts = append(opts, reconcile.WithIsNew(t.isNew))
	}
	plan, err := reconcile.Reconcile[K](current, loaded, opts...)
	if err != nil {
		return out, err
	}
	t.logger.Debug("Reconciled collection",
		zap.Int("added", len(plan.Added)),
		zap.Int("changed", len(plan.Changed)),
		zap.Int("removed", len(plan.Removed)),
	)

	if err := t.InsertAll(ctx, plan.Added); err != nil {
		return out, err
	}
	out.Inserted = len(plan.Added)

	for _, c := range plan.Changed {
		res, err := t.update(ctx, c.New, c.Old)
		if err != nil {
			return out, err
		}
		switch res {
		case updateApplied:
			out.Updated++
		case updateConflict:
			out.Conflicts++
		}
	}

	if len(plan.Removed) > 0 {
		ok, err := t.DeleteAll(ctx, plan.Removed)
		if err != nil {
			return out, err
		}
		if ok {
			out.Deleted = len(plan.Removed)
		}
	}
	return out, nil
}

// writeBack copies the generated id and the version from p onto d.
func writeBack[K comparable, D entity.Identifiable[K], P entity.Identifiable[K]](d D, p P) {
	if any(d) == any(p) {
		return
	}
	d.SetID(p.GetID())
	if v, ok := entity.VersionOf(p); ok {
		if dv, ok := any(d).(entity.Versioned); ok {
			dv.SetVersion(v)
		}
	}
}
