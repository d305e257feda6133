package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ctgraph/internal/transform"
)

func TestPutRead_Vector(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.Put(ctx, "coordinateTransformations/s0", transform.Parameters{Data: []float64{4, 4, 4}})
	require.NoError(t, err)

	p, err := s.Read(ctx, "coordinateTransformations/s0")
	require.NoError(t, err)
	assert.Nil(t, p.Shape)
	assert.Equal(t, []float64{4, 4, 4}, p.Data)
}

func TestPutRead_Matrix(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	want := transform.Parameters{Shape: []int{2, 3}, Data: []float64{1, 0, 0.5, 0, 1, -2.25}}
	require.NoError(t, s.Put(ctx, "/affine/a0/", want))

	got, err := s.Read(ctx, "affine/a0")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPut_Overwrites(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "p", transform.Parameters{Data: []float64{1}}))
	require.NoError(t, s.Put(ctx, "p", transform.Parameters{Data: []float64{2, 3}}))

	p, err := s.Read(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, p.Data)
}

func TestPut_ShapeMismatch(t *testing.T) {
	s := createTestStore(t)

	err := s.Put(context.Background(), "p", transform.Parameters{Shape: []int{2, 2}, Data: []float64{1, 2, 3}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestPut_EmptyPath(t *testing.T) {
	s := createTestStore(t)

	err := s.Put(context.Background(), "//", transform.Parameters{Data: []float64{1}})
	assert.Error(t, err)
}

func TestRead_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Read(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_PrefixAndOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"b/2", "a/1", "b/1", "c"} {
		require.NoError(t, s.Put(ctx, p, transform.Parameters{Data: []float64{1}}))
	}

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "b/1", "b/2", "c"}, all)

	bs, err := s.List(ctx, "b/")
	require.NoError(t, err)
	assert.Equal(t, []string{"b/1", "b/2"}, bs)

	none, err := s.List(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "p", transform.Parameters{Data: []float64{1}}))
	require.NoError(t, s.Delete(ctx, "p"))

	_, err := s.Read(ctx, "p")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "p"), ErrNotFound)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Put(ctx, "s", transform.Parameters{Data: []float64{2, 2}}))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	p, err := s2.Read(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2}, p.Data)
}

func TestStore_FeedsMaterializer(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "s0", transform.Parameters{Data: []float64{0.5, 2}}))

	m := transform.Materializer{Source: s}
	a, err := m.Materialize(ctx, transform.Parametrized{
		Header: transform.Header{Name: "p", Input: transform.Named("raw"), Output: transform.Named("phys")},
		Base:   transform.KindScale,
		Path:   "s0",
	})
	require.NoError(t, err)

	pt, err := a.Apply([]float64{4, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 8}, pt)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Put("/a/b", transform.Parameters{Data: []float64{1, 2}}))

	p, err := m.Read(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, p.Data)

	_, err = m.Read(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, m.Put("bad", transform.Parameters{Shape: []int{3}, Data: []float64{1}}), ErrShapeMismatch)
}
