package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ctgraph/internal/affine"
	"github.com/roach88/ctgraph/internal/space"
	"github.com/roach88/ctgraph/internal/store"
	"github.com/roach88/ctgraph/internal/transform"
)

func diagonal(t *testing.T, m *affine.Affine) []float64 {
	t.Helper()
	require.Equal(t, 3, m.InDim())
	require.Equal(t, 3, m.OutDim())
	return []float64{m.At(0, 0), m.At(1, 1), m.At(2, 2)}
}

func translation(m *affine.Affine) []float64 {
	out := make([]float64, m.OutDim())
	for i := range out {
		out[i] = m.At(i, m.InDim())
	}
	return out
}

func TestPath_SameSpaceIsIdentity(t *testing.T) {
	g := Build([]space.CoordinateSystem{xyz("raw", ""), space.New("point")}, nil)

	for _, name := range []string{"raw", "point"} {
		t.Run(name, func(t *testing.T) {
			p, ok := g.Path(name, name)
			require.True(t, ok)
			assert.Equal(t, 0, p.Len())
			assert.Empty(t, p.Transforms())
			assert.Equal(t, name, p.Start().Name)
			assert.Equal(t, name, p.End().Name)

			total, err := p.TotalTransform(context.Background(), nil)
			require.NoError(t, err)
			require.Equal(t, 1, total.Len())
			assert.Equal(t, 3, total.Steps()[0].InDim())
			assert.True(t, total.Steps()[0].IsIdentity(affine.DefaultTolerance))

			m, err := p.TotalAffine3D(context.Background(), nil)
			require.NoError(t, err)
			assert.True(t, m.IsIdentity(affine.DefaultTolerance))
		})
	}
}

func TestPath_ZeroEdgeUsesStartDimension(t *testing.T) {
	g := Build([]space.CoordinateSystem{space.FromLabels("yx", "y", "x")}, nil)

	p, ok := g.Path("yx", "yx")
	require.True(t, ok)
	total, err := p.TotalTransform(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total.Steps()[0].InDim())
}

func TestPath_RawMicronScenario(t *testing.T) {
	g := Build(
		[]space.CoordinateSystem{xyz("raw", ""), xyz("micron", "micrometer")},
		[]transform.Transform{transform.Scale{Header: header("s2m", "raw", "micron"), Factors: []float64{4, 4, 4}}},
	)
	ctx := context.Background()

	fwd, ok := g.Path("raw", "micron")
	require.True(t, ok)
	require.Equal(t, 1, fwd.Len())
	assert.Equal(t, "s2m", transform.Name(fwd.Transforms()[0]))
	m, err := fwd.TotalAffine3D(ctx, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{4, 4, 4}, diagonal(t, m), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, translation(m), 1e-12)

	back, ok := g.Path("micron", "raw")
	require.True(t, ok)
	require.Equal(t, 1, back.Len())
	assert.Equal(t, "inv-s2m", transform.Name(back.Transforms()[0]))
	inv, err := back.TotalAffine3D(ctx, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25}, diagonal(t, inv), 1e-12)
}

func TestPath_InverseRoundTripIsIdentity(t *testing.T) {
	g := Build(
		[]space.CoordinateSystem{space.FromLabels("a", "x", "y"), space.FromLabels("b", "x", "y")},
		[]transform.Transform{transform.Affine{
			Header: header("rot", "a", "b"),
			Rows:   [][]float64{{0, -2, 5}, {3, 0, -1}},
		}},
	)
	ctx := context.Background()

	fwd, ok := g.Path("a", "b")
	require.True(t, ok)
	back, ok := g.Path("b", "a")
	require.True(t, ok)

	f, err := fwd.TotalTransform(ctx, nil)
	require.NoError(t, err)
	b, err := back.TotalTransform(ctx, nil)
	require.NoError(t, err)

	round, err := f.Then(b).Compose()
	require.NoError(t, err)
	assert.True(t, round.IsIdentity(1e-9), "round trip:\n%s", round)

	pt, err := f.Then(b).Apply([]float64{7, -3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{7, -3}, pt, 1e-9)
}

func TestPath_TotalAffine3DEmbedsLowerDimensions(t *testing.T) {
	g := Build(
		[]space.CoordinateSystem{space.FromLabels("a", "x", "y"), space.FromLabels("b", "x", "y")},
		[]transform.Transform{transform.Scale{Header: header("s", "a", "b"), Factors: []float64{2, 3}}},
	)

	p, ok := g.Path("a", "b")
	require.True(t, ok)
	m, err := p.TotalAffine3D(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{
		{2, 0, 0, 0},
		{0, 3, 0, 0},
		{0, 0, 1, 0},
	}, m.Rows())
}

func TestPath_UnknownOrUnreachable(t *testing.T) {
	g := Build([]space.CoordinateSystem{xyz("a", ""), xyz("b", "")}, nil)

	_, ok := g.Path("a", "nope")
	assert.False(t, ok)
	_, ok = g.Path("nope", "a")
	assert.False(t, ok)
	_, ok = g.Path("a", "b")
	assert.False(t, ok)
	assert.Nil(t, g.AllPaths("nope"))
}

func cycle(t *testing.T, addInverse bool) *Graph {
	t.Helper()
	g := New()
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, g.AddSpace(xyz(n, "")))
	}
	for _, tr := range []transform.Transform{
		transform.Translation{Header: header("ab", "A", "B"), Offsets: []float64{1, 0, 0}},
		transform.Translation{Header: header("bc", "B", "C"), Offsets: []float64{0, 1, 0}},
		transform.Translation{Header: header("ca", "C", "A"), Offsets: []float64{0, 0, 1}},
	} {
		require.NoError(t, g.AddTransform(tr, addInverse))
	}
	return g
}

func pathStrings(paths []*Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}

func TestAllPaths_CycleTerminates(t *testing.T) {
	g := cycle(t, false)

	assert.Equal(t, []string{
		"A -[ab]-> B",
		"A -[ab]-> B -[bc]-> C",
	}, pathStrings(g.AllPaths("A")))
}

func TestAllPaths_CycleWithInversesIsDepthFirst(t *testing.T) {
	g := cycle(t, true)

	assert.Equal(t, []string{
		"A -[ab]-> B",
		"A -[ab]-> B -[bc]-> C",
		"A -[inv-ca]-> C",
		"A -[inv-ca]-> C -[inv-bc]-> B",
	}, pathStrings(g.AllPaths("A")))

	p, ok := g.Path("A", "C")
	require.True(t, ok)
	assert.Equal(t, "A -[ab]-> B -[bc]-> C", p.String(), "first match, not shortest")
	assert.True(t, p.HasSpace("B"))
	assert.True(t, p.HasSpace("A"))
	assert.False(t, p.HasSpace("nope"))
}

func TestPathFromAxes_SynthesizesDefaultSpace(t *testing.T) {
	g := New()

	p, ok := g.PathFromAxes([]string{"x", "y"}, []string{"x", "y"})
	require.True(t, ok)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, "x,y", p.Start().Name)

	total, err := p.TotalTransform(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total.Steps()[0].InDim())
	assert.True(t, total.Steps()[0].IsIdentity(affine.DefaultTolerance))

	_, ok = g.Node("x,y")
	assert.True(t, ok)
}

func TestPathFromAxes_NamesAndAxisLists(t *testing.T) {
	g := Build(
		[]space.CoordinateSystem{xyz("raw", ""), xyz("micron", "micrometer")},
		[]transform.Transform{transform.Scale{Header: header("s2m", "raw", "micron"), Factors: []float64{4, 4, 4}}},
	)

	p, ok := g.PathFromAxes([]string{"raw"}, []string{"micron"})
	require.True(t, ok)
	assert.Equal(t, 1, p.Len())

	p, ok = g.PathFromAxes([]string{"x", "y", "z"}, []string{"micron"})
	require.True(t, ok)
	assert.Equal(t, "raw", p.Start().Name, "first system with matching labels")

	_, ok = g.PathFromAxes([]string{"q"}, []string{"raw"})
	assert.False(t, ok)
}

func TestPath_ParametrizedNeedsSource(t *testing.T) {
	g := Build(
		[]space.CoordinateSystem{xyz("raw", ""), xyz("micron", "micrometer")},
		[]transform.Transform{transform.Parametrized{
			Header: header("p", "raw", "micron"),
			Base:   transform.KindScale,
			Path:   "coordinateTransformations/0/scale",
		}},
	)
	ctx := context.Background()

	p, ok := g.Path("micron", "raw")
	require.True(t, ok)

	_, err := p.TotalAffine3D(ctx, nil)
	assert.ErrorIs(t, err, transform.ErrNotFetched)

	src := store.NewMemory()
	require.NoError(t, src.Put("coordinateTransformations/0/scale", transform.Parameters{Data: []float64{2, 4, 8}}))

	m, err := p.TotalAffine3D(ctx, src)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.25, 0.125}, diagonal(t, m), 1e-12)
}
