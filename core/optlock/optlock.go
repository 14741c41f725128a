package optlock

import (
	"context"

	"aggregate-persistence/core/diff"
	"aggregate-persistence/core/entity"
	"aggregate-persistence/core/errs"
)

// VersionField is the attribute holding the lock token.
const VersionField = "Version"

// Guard is the identity plus the guard fields an update is conditioned on.
type Guard[K comparable] struct {
	ID      K
	Version int64
}

// Guarded reports whether the update is conditioned on a version.
func (g Guard[K]) Guarded() bool { return g.Version > 0 }

// Next returns the version a successful update moves to.
func (g Guard[K]) Next() int64 {
	if !g.Guarded() {
		return 0
	}
	return g.Version + 1
}

// Request is a conditional update: write Fields of Entity where the stored
// row matches Guard.
type Request[K comparable, T any] struct {
	Entity T
	Fields diff.FieldSet
	Guard  Guard[K]
}

// Updater applies a conditional update. It reports false, not an error, when
// no row matched the guard.
type Updater[K comparable, T any] interface {
	Update(ctx context.Context, req Request[K, T]) (bool, error)
}

// Initialize assigns the initial version to e when it has none.
// Entities that are not versioned are left untouched.
func Initialize(e any) {
	v, ok := e.(entity.Versioned)
	if !ok || entity.IsNil(e) {
		return
	}
	if v.GetVersion() <= 0 {
		v.SetVersion(entity.InitialVersion)
	}
}

// GuardFor builds the guard of e for the expected stored version.
func GuardFor[K comparable, T entity.Identifiable[K]](e T, expected int64) (Guard[K], error) {
	const op = "optlock.GuardFor"
	if entity.IsNil(e) {
		return Guard[K]{}, errs.New(errs.CodeNullArgument, op, "entity is nil")
	}
	if !entity.HasID[K](e) {
		return Guard[K]{}, errs.Newf(errs.CodeNullArgument, op, "%T has no id", e)
	}
	if expected < 0 {
		return Guard[K]{}, errs.New(errs.CodeInvalidArgument, op, "expected version must be >= 0")
	}
	return Guard[K]{ID: e.GetID(), Version: expected}, nil
}

// Update issues the conditional update of fields on e, guarded by expected.
//
// On success the version of e moves to expected+1. On a guard miss or an
// error the version of e is left at expected. A versioned entity with no
// changed field still issues the update so the version is bumped. Entities
// without a stored version are updated unconditionally.
// There is no retry: a false result means another writer won or the row is gone.
func Update[K comparable, T entity.Identifiable[K]](ctx context.Context, u Updater[K, T], e T, fields diff.FieldSet, expected int64) (bool, error) {
	guard, err := GuardFor[K](e, expected)
	if err != nil {
		return false, err
	}
	versioned, ok := any(e).(entity.Versioned)
	locked := ok && guard.Guarded()
	fields = fields.Without(VersionField)
	if fields.Empty() && !locked {
		return true, nil
	}

	if locked {
		versioned.SetVersion(guard.Next())
	}
	applied, err := u.Update(ctx, Request[K, T]{Entity: e, Fields: fields, Guard: guard})
	if err != nil || !applied {
		if locked {
			versioned.SetVersion(expected)
		}
		return false, err
	}
	return true, nil
}
