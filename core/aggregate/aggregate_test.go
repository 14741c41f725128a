package aggregate_test

import (
	"testing"

	"aggregate-persistence/core/aggregate"
	"aggregate-persistence/core/copier"
	"aggregate-persistence/core/diff"
	"aggregate-persistence/core/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type child struct {
	ID    int64
	Price int64
}

type root struct {
	ID       int64
	Version  int64
	Amount   int64
	Children []*child
}

func (r *root) GetID() int64   { return r.ID }
func (r *root) SetID(id int64) { r.ID = id }

func TestNew_SnapshotIndependence(t *testing.T) {
	for _, name := range []string{copier.NameJSON, copier.NameClone, copier.NameCopyStructure} {
		t.Run(name, func(t *testing.T) {
			c, err := copier.New(name)
			require.NoError(t, err)

			r := &root{ID: 1, Amount: 100, Children: []*child{{ID: 10, Price: 1}}}
			agg, err := aggregate.New[int64](r, aggregate.WithCopier(c))
			require.NoError(t, err)

			r.Amount = 150
			r.Children[0].Price = 9
			r.Children = append(r.Children, &child{Price: 2})

			snap := agg.Snapshot()
			assert.Equal(t, int64(100), snap.Amount)
			assert.Equal(t, int64(1), snap.Children[0].Price)
			assert.Len(t, snap.Children, 1)
			assert.Same(t, r, agg.Root())
		})
	}
}

func TestAggregate_IsNew(t *testing.T) {
	fresh, err := aggregate.New[int64](&root{Amount: 1})
	require.NoError(t, err)
	assert.True(t, fresh.IsNew())

	loaded, err := aggregate.New[int64](&root{ID: 5})
	require.NoError(t, err)
	assert.False(t, loaded.IsNew())
	assert.Equal(t, int64(5), loaded.ID())
}

func TestAggregate_IsChanged(t *testing.T) {
	r := &root{ID: 1, Amount: 100, Children: []*child{{ID: 10, Price: 1}}}
	agg, err := aggregate.New[int64](r)
	require.NoError(t, err)

	changed, err := agg.IsChanged()
	require.NoError(t, err)
	assert.False(t, changed)

	r.Children[0].Price = 2
	changed, err = agg.IsChanged()
	require.NoError(t, err)
	assert.True(t, changed)

	fields, err := agg.ChangedFields(diff.NamingColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"children"}, fields.Names())
}

func TestAggregate_NewRootIsNeverChanged(t *testing.T) {
	r := &root{Amount: 1}
	agg, err := aggregate.New[int64](r)
	require.NoError(t, err)

	r.Amount = 2
	assert.True(t, agg.IsNew())
	changed, err := agg.IsChanged()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestNew_NilRoot(t *testing.T) {
	var missing *root
	_, err := aggregate.New[int64](missing)
	assert.True(t, errs.IsCode(err, errs.CodeNullArgument))
}

func TestRehydrate(t *testing.T) {
	r := &root{ID: 1, Amount: 5}
	_, err := aggregate.Rehydrate[int64](r, r)
	assert.True(t, errs.IsCode(err, errs.CodeInvalidArgument))

	agg, err := aggregate.Rehydrate[int64](r, &root{ID: 1, Amount: 4})
	require.NoError(t, err)
	changed, err := agg.IsChanged()
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestSeal(t *testing.T) {
	agg, err := aggregate.New[int64](&root{ID: 1})
	require.NoError(t, err)
	assert.False(t, agg.Sealed())
	agg.Seal()
	assert.True(t, agg.Sealed())
}
