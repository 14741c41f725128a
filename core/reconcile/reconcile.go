package reconcile

import (
	"aggregate-persistence/core/diff"
	"aggregate-persistence/core/entity"
	"aggregate-persistence/core/errs"
)

// Reconcile partitions the current collection against the loaded one.
//
// An item is added when its id is zero or unknown to oldItems (or when the
// WithIsNew predicate says so). An item is changed when its id matches a loaded
// item and at least one attribute differs. A loaded item is removed when its id
// is absent from newItems. Items are matched by identity only.
func Reconcile[K comparable, T entity.Identifiable[K]](newItems, oldItems []T, opts ...Option[T]) (*Plan[T], error) {
	o := buildOptions(opts)

	newIndex, err := Index[K](newItems)
	if err != nil {
		return nil, err
	}
	oldIndex, err := Index[K](oldItems)
	if err != nil {
		return nil, err
	}

	added, remaining := split(newItems, oldIndex, o.isNew)
	changed, err := changes(remaining, oldIndex, o.naming)
	if err != nil {
		return nil, err
	}

	return &Plan[T]{
		Added:   added,
		Changed: changed,
		Removed: removed(oldItems, newIndex),
	}, nil
}

// FindNew returns the items of newItems that must be inserted.
func FindNew[K comparable, T entity.Identifiable[K]](newItems, oldItems []T, opts ...Option[T]) ([]T, error) {
	added, _, err := SplitNew[K](newItems, oldItems, opts...)
	return added, err
}

// SplitNew separates newItems into the items to insert and the remaining
// items that may match a loaded item.
func SplitNew[K comparable, T entity.Identifiable[K]](newItems, oldItems []T, opts ...Option[T]) (added, remaining []T, err error) {
	o := buildOptions(opts)
	if _, err := Index[K](newItems); err != nil {
		return nil, nil, err
	}
	oldIndex, err := Index[K](oldItems)
	if err != nil {
		return nil, nil, err
	}
	added, remaining = split(newItems, oldIndex, o.isNew)
	return added, remaining, nil
}

// FindRemoved returns the loaded items whose id is absent from newItems.
// Loaded items without an id cannot be addressed and are never reported.
func FindRemoved[K comparable, T entity.Identifiable[K]](newItems, oldItems []T) ([]T, error) {
	newIndex, err := Index[K](newItems)
	if err != nil {
		return nil, err
	}
	if _, err := Index[K](oldItems); err != nil {
		return nil, err
	}
	return removed(oldItems, newIndex), nil
}

// FindChanged returns the matched pairs whose attributes differ.
func FindChanged[K comparable, T entity.Identifiable[K]](newItems, oldItems []T, opts ...Option[T]) ([]Change[T], error) {
	o := buildOptions(opts)
	if _, err := Index[K](newItems); err != nil {
		return nil, err
	}
	oldIndex, err := Index[K](oldItems)
	if err != nil {
		return nil, err
	}
	_, remaining := split(newItems, oldIndex, o.isNew)
	return changes(remaining, oldIndex, o.naming)
}

// Index maps items by id. Items without an id are skipped.
// A nil item or an id held twice is an error.
func Index[K comparable, T entity.Identifiable[K]](items []T) (map[K]T, error) {
	const op = "reconcile.Index"
	var zero K
	index := make(map[K]T, len(items))
	for i, item := range items {
		if entity.IsNil(item) {
			return nil, errs.Newf(errs.CodeNullArgument, op, "item %d is nil", i)
		}
		id := item.GetID()
		if id == zero {
			continue
		}
		if _, dup := index[id]; dup {
			return nil, errs.Newf(errs.CodeDuplicateID, op, "id %v appears more than once", id)
		}
		index[id] = item
	}
	return index, nil
}

func split[K comparable, T entity.Identifiable[K]](items []T, oldIndex map[K]T, isNew func(T) bool) (added, remaining []T) {
	var zero K
	for _, item := range items {
		var fresh bool
		if isNew != nil {
			fresh = isNew(item)
		} else {
			id := item.GetID()
			_, known := oldIndex[id]
			fresh = id == zero || !known
		}
		if fresh {
			added = append(added, item)
		} else {
			remaining = append(remaining, item)
		}
	}
	return added, remaining
}

func changes[K comparable, T entity.Identifiable[K]](remaining []T, oldIndex map[K]T, naming diff.Naming) ([]Change[T], error) {
	var out []Change[T]
	for _, item := range remaining {
		prev, ok := oldIndex[item.GetID()]
		if !ok {
			continue
		}
		fields, err := diff.FindChangedFields(item, prev, naming)
		if err != nil {
			return nil, err
		}
		if fields.Empty() {
			continue
		}
		out = append(out, Change[T]{Old: prev, New: item, Fields: fields})
	}
	return out, nil
}

func removed[K comparable, T entity.Identifiable[K]](oldItems []T, newIndex map[K]T) []T {
	var zero K
	var out []T
	for _, item := range oldItems {
		id := item.GetID()
		if id == zero {
			continue
		}
		if _, ok := newIndex[id]; !ok {
			out = append(out, item)
		}
	}
	return out
}
