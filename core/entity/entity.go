package entity

import "reflect"

// InitialVersion is assigned to a versioned entity on its first insert.
const InitialVersion int64 = 1

// Identifiable is implemented by every persisted entity.
// The zero value of K means the entity has no identity yet.
type Identifiable[K comparable] interface {
	GetID() K
	SetID(id K)
}

// Versioned is implemented by entities guarded by optimistic locking.
// A version of zero means absent.
type Versioned interface {
	GetVersion() int64
	SetVersion(v int64)
}

// HasID reports whether e carries a non-zero identity.
func HasID[K comparable](e Identifiable[K]) bool {
	var zero K
	return !IsNil(e) && e.GetID() != zero
}

// VersionOf returns the version of e, or zero if e is not versioned.
func VersionOf(e any) (int64, bool) {
	v, ok := e.(Versioned)
	if !ok || IsNil(e) {
		return 0, false
	}
	return v.GetVersion(), true
}

// IsNil reports whether v is nil or a typed nil pointer, map, slice or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
