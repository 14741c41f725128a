package reconcile

import "aggregate-persistence/core/diff"

// Change pairs the stored and the current version of one child entity.
type Change[T any] struct {
	// Old is the item as loaded.
	Old T
	// New is the item as currently held by the aggregate.
	New T
	// Fields names the attributes that differ. Never empty.
	Fields diff.FieldSet
}

// Plan partitions a child collection by what storage has to do with it.
type Plan[T any] struct {
	// Added holds items to insert, in input order.
	Added []T
	// Changed holds matched items whose attributes differ.
	Changed []Change[T]
	// Removed holds stored items absent from the current collection.
	Removed []T
}

// Summary provides counts of a plan.
type Summary struct {
	// Added counts items to insert.
	Added int `json:"added"`
	// Changed counts items to update.
	Changed int `json:"changed"`
	// Removed counts items to delete.
	Removed int `json:"removed"`
}

// Total returns the number of planned operations.
func (s Summary) Total() int {
	return s.Added + s.Changed + s.Removed
}

// Summary returns the counts of p.
func (p *Plan[T]) Summary() Summary {
	return Summary{
		Added:   len(p.Added),
		Changed: len(p.Changed),
		Removed: len(p.Removed),
	}
}

// Empty reports whether the collection needs no storage operation.
func (p *Plan[T]) Empty() bool {
	return p.Summary().Total() == 0
}

type options[T any] struct {
	isNew  func(T) bool
	naming diff.Naming
}

// Option customizes reconciliation.
type Option[T any] func(*options[T])

// WithIsNew replaces identity-based detection of new items with a predicate.
// When set, the predicate alone decides whether an item is inserted.
func WithIsNew[T any](fn func(T) bool) Option[T] {
	return func(o *options[T]) {
		o.isNew = fn
	}
}

// WithNaming selects the naming of changed fields. Defaults to diff.NamingField.
func WithNaming[T any](n diff.Naming) Option[T] {
	return func(o *options[T]) {
		o.naming = n
	}
}

func buildOptions[T any](opts []Option[T]) options[T] {
	o := options[T]{naming: diff.NamingField}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
