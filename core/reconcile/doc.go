// Package reconcile partitions an owned child collection into the items to
// insert, update and delete, by comparing the current collection with the one
// loaded from storage.
//
// Matching is by identity only: two items with the same non-zero id are the
// same logical entity regardless of content. Items without an id are always
// new. The three partitions are disjoint.
//
// # Example
//
// Loaded {A, B, C} and current {A, B', D} where B' differs from B:
//
//	plan, err := reconcile.Reconcile[int64](current, loaded)
//	// plan.Added   == [D]
//	// plan.Changed == [{Old: B, New: B', Fields: [...]}]
//	// plan.Removed == [C]
//
// A collection holding the same id twice is rejected with a duplicate_identity error.
package reconcile
