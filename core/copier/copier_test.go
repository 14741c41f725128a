package copier_test

import (
	"testing"
	"time"

	"aggregate-persistence/core/copier"
	"aggregate-persistence/core/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ID    int64
	Price int64
}

type basket struct {
	ID      int64
	Owner   *string
	Lines   []*line
	Labels  map[string]string
	Created time.Time
}

func sample() *basket {
	owner := "alice"
	return &basket{
		ID:      1,
		Owner:   &owner,
		Lines:   []*line{{ID: 10, Price: 5}, {ID: 11, Price: 7}},
		Labels:  map[string]string{"k": "v"},
		Created: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestCopiers_Independent(t *testing.T) {
	for _, name := range []string{copier.NameJSON, copier.NameClone, copier.NameCopyStructure} {
		t.Run(name, func(t *testing.T) {
			c, err := copier.New(name)
			require.NoError(t, err)

			src := sample()
			dst, err := copier.Copy(c, src)
			require.NoError(t, err)

			assert.NotSame(t, src, dst)
			assert.NotSame(t, src.Lines[0], dst.Lines[0])
			assert.NotSame(t, src.Owner, dst.Owner)
			assert.Equal(t, src.Lines, dst.Lines)
			assert.True(t, src.Created.Equal(dst.Created))

			src.Lines[0].Price = 99
			*src.Owner = "bob"
			src.Labels["k"] = "changed"
			src.Lines = append(src.Lines, &line{ID: 12})

			assert.Equal(t, int64(5), dst.Lines[0].Price)
			assert.Equal(t, "alice", *dst.Owner)
			assert.Equal(t, "v", dst.Labels["k"])
			assert.Len(t, dst.Lines, 2)
		})
	}
}

func TestJSON_ValueCopy(t *testing.T) {
	src := line{ID: 3, Price: 4}
	dst, err := copier.Copy[line](copier.JSON{}, src)
	require.NoError(t, err)
	assert.Equal(t, src, dst)
}

type session struct {
	ID    int64
	Token string `json:"-"`
}

func TestJSON_DropsHiddenFields(t *testing.T) {
	src := &session{ID: 1, Token: "secret"}

	viaJSON, err := copier.Copy(copier.JSON{}, src)
	require.NoError(t, err)
	assert.Empty(t, viaJSON.Token)

	viaClone, err := copier.Copy(copier.Clone{}, src)
	require.NoError(t, err)
	assert.Equal(t, "secret", viaClone.Token)
}

func TestCopiers_NilSource(t *testing.T) {
	var missing *basket
	for _, c := range []copier.DeepCopier{copier.JSON{}, copier.Clone{}, copier.Structure{}} {
		_, err := c.Copy(missing)
		assert.True(t, errs.IsCode(err, errs.CodeNullArgument))
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := copier.New("gob")
	assert.True(t, errs.IsCode(err, errs.CodeInvalidArgument))

	c, err := copier.New("")
	require.NoError(t, err)
	assert.IsType(t, copier.JSON{}, c)
}
