package aggregate

import (
	"aggregate-persistence/core/copier"
	"aggregate-persistence/core/diff"
	"aggregate-persistence/core/entity"
	"aggregate-persistence/core/errs"
)

// Aggregate wraps a root entity together with the snapshot taken when it was
// constructed. The snapshot is never handed out for mutation and never shares
// memory with the root.
type Aggregate[K comparable, R entity.Identifiable[K]] struct {
	root     R
	snapshot R
	sealed   bool
}

type options struct {
	copier copier.DeepCopier
}

// Option customizes construction.
type Option func(*options)

// WithCopier selects the strategy used to capture the snapshot.
func WithCopier(c copier.DeepCopier) Option {
	return func(o *options) {
		o.copier = c
	}
}

// New wraps root and captures its snapshot. Use it for freshly created roots
// and for roots just loaded from storage.
func New[K comparable, R entity.Identifiable[K]](root R, opts ...Option) (*Aggregate[K, R], error) {
	const op = "aggregate.New"
	if entity.IsNil(root) {
		return nil, errs.New(errs.CodeNullArgument, op, "root is nil")
	}
	o := options{copier: copier.JSON{}}
	for _, fn := range opts {
		fn(&o)
	}
	if o.copier == nil {
		return nil, errs.New(errs.CodeNullArgument, op, "copier is nil")
	}

	snapshot, err := copier.Copy(o.copier, root)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidState, op, err)
	}
	return &Aggregate[K, R]{root: root, snapshot: snapshot}, nil
}

// Rehydrate wraps root with a snapshot the caller already holds, for example
// one reloaded separately from storage. The snapshot must be a distinct value.
func Rehydrate[K comparable, R entity.Identifiable[K]](root, snapshot R) (*Aggregate[K, R], error) {
	const op = "aggregate.Rehydrate"
	if entity.IsNil(root) || entity.IsNil(snapshot) {
		return nil, errs.New(errs.CodeNullArgument, op, "root and snapshot are required")
	}
	if any(root) == any(snapshot) {
		return nil, errs.New(errs.CodeInvalidArgument, op, "snapshot must not be the root itself")
	}
	return &Aggregate[K, R]{root: root, snapshot: snapshot}, nil
}

// Root returns the live root. Callers mutate it directly.
func (a *Aggregate[K, R]) Root() R { return a.root }

// Snapshot returns the state captured at construction. It must be treated as read only.
func (a *Aggregate[K, R]) Snapshot() R { return a.snapshot }

// ID returns the root identity.
func (a *Aggregate[K, R]) ID() K { return a.root.GetID() }

// IsNew reports whether the root has no identity yet.
func (a *Aggregate[K, R]) IsNew() bool {
	return !entity.HasID[K](a.root)
}

// IsChanged reports whether any attribute of the root, owned collections
// included, differs from the snapshot. A new root is never changed.
func (a *Aggregate[K, R]) IsChanged() (bool, error) {
	if a.IsNew() {
		return false, nil
	}
	return diff.Changed(a.root, a.snapshot)
}

// ChangedFields returns the root attributes that differ from the snapshot.
func (a *Aggregate[K, R]) ChangedFields(naming diff.Naming) (diff.FieldSet, error) {
	return diff.FindChangedFields(a.root, a.snapshot, naming)
}

// Seal marks the aggregate as persisted. A sealed aggregate cannot be saved again.
func (a *Aggregate[K, R]) Seal() { a.sealed = true }

// Sealed reports whether the aggregate has been saved.
func (a *Aggregate[K, R]) Sealed() bool { return a.sealed }
