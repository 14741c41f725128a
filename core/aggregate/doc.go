// Package aggregate tracks changes of a root entity between load and save.
//
// An Aggregate holds the live root and a deep, independent snapshot captured
// once at construction. Comparing the two tells the persistence layer whether
// the aggregate is new, unchanged, or changed, and which attributes moved.
//
// # Lifecycle
//
//	agg, err := aggregate.New[int64](order) // loaded or freshly built
//	order.Status = "PAID"                     // mutate the root
//	changed, err := agg.IsChanged()          // true once loaded; new roots report false
//
// Saving an aggregate seals it; build a new one from the saved root to continue.
package aggregate
