package reconcile_test

import (
	"testing"

	"aggregate-persistence/core/diff"
	"aggregate-persistence/core/errs"
	"aggregate-persistence/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     int64
	Name   string
	Amount int
}

func (i *item) GetID() int64   { return i.ID }
func (i *item) SetID(id int64) { i.ID = id }

func ids(items []*item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestReconcile_AddChangeRemove(t *testing.T) {
	oldItems := []*item{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}
	newItems := []*item{{ID: 1, Name: "A"}, {ID: 2, Name: "B2"}, {ID: 4, Name: "D"}}

	plan, err := reconcile.Reconcile[int64](newItems, oldItems)
	require.NoError(t, err)

	assert.Equal(t, []int64{4}, ids(plan.Added))
	assert.Equal(t, []int64{3}, ids(plan.Removed))
	require.Len(t, plan.Changed, 1)
	assert.Equal(t, int64(2), plan.Changed[0].New.ID)
	assert.Same(t, oldItems[1], plan.Changed[0].Old)
	assert.Equal(t, []string{"Name"}, plan.Changed[0].Fields.Names())
	assert.Equal(t, reconcile.Summary{Added: 1, Changed: 1, Removed: 1}, plan.Summary())
}

func TestReconcile_NoOp(t *testing.T) {
	oldItems := []*item{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	newItems := []*item{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}

	plan, err := reconcile.Reconcile[int64](newItems, oldItems)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestReconcile_NullIDAlwaysNew(t *testing.T) {
	oldItems := []*item{{ID: 1, Name: "A"}}
	newItems := []*item{{ID: 1, Name: "A"}, {Name: "X"}, {Name: "Y"}}

	plan, err := reconcile.Reconcile[int64](newItems, oldItems)
	require.NoError(t, err)
	assert.Len(t, plan.Added, 2)
	assert.Empty(t, plan.Changed)
	assert.Empty(t, plan.Removed)
}

func TestReconcile_Symmetry(t *testing.T) {
	a := []*item{{ID: 1}, {ID: 2}, {ID: 3}}
	b := []*item{{ID: 2}, {ID: 3}, {ID: 5}}

	removed, err := reconcile.FindRemoved[int64](b, a)
	require.NoError(t, err)
	added, err := reconcile.FindNew[int64](a, b)
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, ids(removed))
	assert.Equal(t, ids(removed), ids(added))
}

func TestReconcile_EmptyCollections(t *testing.T) {
	plan, err := reconcile.Reconcile[int64]([]*item{}, []*item{{ID: 1}, {ID: 2}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(plan.Removed))

	plan, err = reconcile.Reconcile[int64]([]*item{{Name: "n"}}, nil)
	require.NoError(t, err)
	assert.Len(t, plan.Added, 1)
}

func TestReconcile_RemovedIgnoresOldWithoutID(t *testing.T) {
	removed, err := reconcile.FindRemoved[int64]([]*item{}, []*item{{Name: "ghost"}, {ID: 9}})
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, ids(removed))
}

func TestReconcile_DuplicateIDs(t *testing.T) {
	_, err := reconcile.Reconcile[int64]([]*item{{ID: 1}, {ID: 1}}, nil)
	assert.True(t, errs.IsCode(err, errs.CodeDuplicateID))

	_, err = reconcile.FindRemoved[int64](nil, []*item{{ID: 7}, {ID: 7}})
	assert.True(t, errs.IsCode(err, errs.CodeDuplicateID))

	// several id-less items are not duplicates
	_, err = reconcile.Reconcile[int64]([]*item{{}, {}}, nil)
	assert.NoError(t, err)
}

func TestReconcile_NilItem(t *testing.T) {
	_, err := reconcile.Reconcile[int64]([]*item{nil}, nil)
	assert.True(t, errs.IsCode(err, errs.CodeNullArgument))
}

func TestReconcile_Predicate(t *testing.T) {
	oldItems := []*item{{ID: 1, Amount: 1}}
	// client-assigned id, flagged new by the predicate
	newItems := []*item{{ID: 1, Amount: 2}, {ID: 50, Name: "preassigned"}}

	isNew := func(i *item) bool { return i.Name == "preassigned" }
	plan, err := reconcile.Reconcile[int64](newItems, oldItems, reconcile.WithIsNew(isNew))
	require.NoError(t, err)
	assert.Equal(t, []int64{50}, ids(plan.Added))
	require.Len(t, plan.Changed, 1)
	assert.Empty(t, plan.Removed)
}

func TestReconcile_UnknownIDIsNew(t *testing.T) {
	added, remaining, err := reconcile.SplitNew[int64]([]*item{{ID: 1}, {ID: 8}}, []*item{{ID: 1}})
	require.NoError(t, err)
	assert.Equal(t, []int64{8}, ids(added))
	assert.Equal(t, []int64{1}, ids(remaining))
}

func TestFindChanged_ColumnNaming(t *testing.T) {
	changed, err := reconcile.FindChanged[int64](
		[]*item{{ID: 1, Amount: 3}},
		[]*item{{ID: 1, Amount: 2}},
		reconcile.WithNaming[*item](diff.NamingColumn),
	)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, []string{"amount"}, changed[0].Fields.Names())
}
