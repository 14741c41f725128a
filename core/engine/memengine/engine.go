package memengine

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"aggregate-persistence/core/copier"
	"aggregate-persistence/core/entity"
	"aggregate-persistence/core/errs"
	"aggregate-persistence/core/optlock"
	"aggregate-persistence/core/repository"
)

// Kind names a recorded operation.
type Kind string

const (
	KindInsert      Kind = "insert"
	KindInsertBatch Kind = "insert_batch"
	KindUpdate      Kind = "update"
	KindDeleteBatch Kind = "delete_batch"
)

// Op is one recorded engine call.
type Op[K comparable] struct {
	Kind    Kind
	IDs     []K
	Fields  []string
	Version int64
	Applied bool
}

// Engine keeps deep copies of items in memory. It honours the same contract as
// the SQL engine and records every call, which makes it suited to tests and
// to dry runs.
type Engine[K comparable, T entity.Identifiable[K]] struct {
	mu        sync.RWMutex
	rows      map[K]T
	next      func() K
	batchSize int
	copier    copier.DeepCopier
	ops       []Op[K]
}

// Option customizes an Engine.
type Option func(*settings)

type settings struct {
	batchSize int
	copier    copier.DeepCopier
}

// WithBatchSize overrides the batch insert limit.
func WithBatchSize(n int) Option {
	return func(s *settings) { s.batchSize = n }
}

// WithCopier overrides how stored rows are copied.
func WithCopier(c copier.DeepCopier) Option {
	return func(s *settings) { s.copier = c }
}

// New returns an empty engine generating ids with next.
func New[K comparable, T entity.Identifiable[K]](next func() K, opts ...Option) *Engine[K, T] {
	s := settings{batchSize: repository.DefaultBatchSize, copier: copier.Clone{}}
	for _, fn := range opts {
		fn(&s)
	}
	return &Engine[K, T]{
		rows:      make(map[K]T),
		next:      next,
		batchSize: s.batchSize,
		copier:    s.copier,
	}
}

// Sequence returns an id generator counting up from 1.
func Sequence() func() int64 {
	var n atomic.Int64
	return func() int64 { return n.Add(1) }
}

// BatchSize implements repository.Engine.
func (e *Engine[K, T]) BatchSize() int { return e.batchSize }

// Insert implements repository.Engine.
func (e *Engine[K, T]) Insert(ctx context.Context, item T) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store(item); err != nil {
		return false, err
	}
	e.ops = append(e.ops, Op[K]{Kind: KindInsert, IDs: []K{item.GetID()}, Applied: true})
	return true, nil
}

// InsertBatch implements repository.Engine.
func (e *Engine[K, T]) InsertBatch(ctx context.Context, items []T) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(items) > e.batchSize {
		return false, errs.Newf(errs.CodeBatchLimit, "memengine.InsertBatch", "%d items exceed the limit of %d", len(items), e.batchSize)
	}
	if len(items) == 0 {
		return true, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]K, 0, len(items))
	for _, item := range items {
		if err := e.store(item); err != nil {
			return false, err
		}
		ids = append(ids, item.GetID())
	}
	e.ops = append(e.ops, Op[K]{Kind: KindInsertBatch, IDs: ids, Applied: true})
	return true, nil
}

func (e *Engine[K, T]) store(item T) error {
	if entity.IsNil(item) {
		return errs.New(errs.CodeNullArgument, "memengine.Insert", "item is nil")
	}
	if !entity.HasID[K](item) {
		item.SetID(e.next())
	}
	id := item.GetID()
	if _, exists := e.rows[id]; exists {
		return errs.Newf(errs.CodeDuplicateID, "memengine.Insert", "id %v already stored", id)
	}
	cp, err := copier.Copy(e.copier, item)
	if err != nil {
		return err
	}
	e.rows[id] = cp
	return nil
}

// Update implements repository.Engine.
func (e *Engine[K, T]) Update(ctx context.Context, req optlock.Request[K, T]) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	op := Op[K]{Kind: KindUpdate, IDs: []K{req.Guard.ID}, Fields: req.Fields.Names(), Version: req.Guard.Version}
	stored, ok := e.rows[req.Guard.ID]
	if ok && req.Guard.Guarded() {
		v, _ := entity.VersionOf(stored)
		ok = v == req.Guard.Version
	}
	if !ok {
		e.ops = append(e.ops, op)
		return false, nil
	}

	src := reflect.Indirect(reflect.ValueOf(req.Entity))
	dst := reflect.ValueOf(stored)
	if dst.Kind() != reflect.Pointer {
		return false, errs.Newf(errs.CodeFieldAccess, "memengine.Update", "%T is not addressable", stored)
	}
	dst = dst.Elem()
	for _, name := range op.Fields {
		from, to := src.FieldByName(name), dst.FieldByName(name)
		if !from.IsValid() || !to.IsValid() || !to.CanSet() {
			return false, errs.Newf(errs.CodeFieldAccess, "memengine.Update", "%T has no settable field %s", stored, name)
		}
		to.Set(from)
	}
	if req.Guard.Guarded() {
		if v, ok := any(stored).(entity.Versioned); ok {
			v.SetVersion(req.Guard.Next())
		}
	}
	op.Applied = true
	e.ops = append(e.ops, op)
	return true, nil
}

// DeleteBatch implements repository.Engine. It reports true when at least
// one row was removed or when items is empty.
func (e *Engine[K, T]) DeleteBatch(ctx context.Context, items []T) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(items) == 0 {
		return true, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]K, 0, len(items))
	removed := 0
	for _, item := range items {
		id := item.GetID()
		ids = append(ids, id)
		if _, ok := e.rows[id]; ok {
			delete(e.rows, id)
			removed++
		}
	}
	e.ops = append(e.ops, Op[K]{Kind: KindDeleteBatch, IDs: ids, Applied: removed > 0})
	return removed > 0, nil
}

// Seed stores items as if loaded from an earlier session. Ids must be set.
func (e *Engine[K, T]) Seed(items ...T) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, item := range items {
		if !entity.HasID[K](item) {
			return errs.New(errs.CodeNullArgument, "memengine.Seed", "seeded items need an id")
		}
		cp, err := copier.Copy(e.copier, item)
		if err != nil {
			return err
		}
		e.rows[item.GetID()] = cp
	}
	return nil
}

// Get returns a copy of the stored row.
func (e *Engine[K, T]) Get(id K) (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var zero T
	row, ok := e.rows[id]
	if !ok {
		return zero, false
	}
	cp, err := copier.Copy(e.copier, row)
	if err != nil {
		return zero, false
	}
	return cp, true
}

// All returns copies of the stored rows accepted by keep, sorted by less when given.
func (e *Engine[K, T]) All(keep func(T) bool, less func(a, b K) bool) []T {
	e.mu.RLock()
	ids := make([]K, 0, len(e.rows))
	for id, row := range e.rows {
		if keep == nil || keep(row) {
			ids = append(ids, id)
		}
	}
	e.mu.RUnlock()
	if less != nil {
		sort.Slice(ids, func(i, j int) bool { return less(ids[i], ids[j]) })
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if row, ok := e.Get(id); ok {
			out = append(out, row)
		}
	}
	return out
}

// Len returns the number of stored rows.
func (e *Engine[K, T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.rows)
}

// Ops returns the recorded calls.
func (e *Engine[K, T]) Ops() []Op[K] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Op[K](nil), e.ops...)
}

// ResetOps clears the recorded calls.
func (e *Engine[K, T]) ResetOps() {
	e.mu.Lock()
	e.ops = nil
	e.mu.Unlock()
}
