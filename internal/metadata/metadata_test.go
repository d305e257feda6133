package metadata

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ctgraph/internal/space"
	"github.com/roach88/ctgraph/internal/transform"
)

func loadCode(t *testing.T, err error) string {
	t.Helper()
	var le *LoadError
	require.True(t, errors.As(err, &le), "want *LoadError, got %T: %v", err, err)
	return le.Code
}

func TestLoad_Scene(t *testing.T) {
	res, errs := Load(filepath.Join("testdata", "scene.yaml"), LoadModeCollectAll)
	require.Empty(t, errs)

	require.Len(t, res.Spaces, 3)
	assert.Equal(t, "raw", res.Spaces[0].Name)
	assert.Equal(t, []string{"x", "y", "z"}, res.Spaces[1].Labels())
	a, ok := res.Spaces[1].Axis("y")
	require.True(t, ok)
	assert.Equal(t, space.NewAxis("y", space.TypeSpace, "micrometer"), a)

	require.Len(t, res.Transforms, 2)
	assert.Equal(t, transform.Scale{
		Header:  transform.Header{Name: "s2m", Input: transform.Named("raw"), Output: transform.Named("micron")},
		Factors: []float64{4, 4, 4},
	}, res.Transforms[0])

	seq, ok := res.Transforms[1].(transform.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Children, 2)
	assert.Equal(t, transform.KindTranslation, seq.Children[0].Kind())
	assert.Equal(t, transform.Identity{}, seq.Children[1])
}

func TestLoad_FormatsAgree(t *testing.T) {
	want, errs := Load(filepath.Join("testdata", "scene.yaml"), LoadModeFailFast)
	require.Empty(t, errs)

	for _, name := range []string{"scene.json", "scene.cue"} {
		t.Run(name, func(t *testing.T) {
			got, errs := Load(filepath.Join("testdata", name), LoadModeFailFast)
			require.Empty(t, errs)
			assert.Equal(t, want.Document, got.Document)
			assert.Equal(t, want.Spaces, got.Spaces)
			assert.Equal(t, want.Transforms, got.Transforms)
		})
	}
}

func TestLoad_PathBecomesParametrized(t *testing.T) {
	res, errs := Load(filepath.Join("testdata", "stage.yaml"), LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, res.Transforms, 2)

	assert.Equal(t, transform.Parametrized{
		Header: transform.Header{Name: "r2s", Input: transform.Named("raw"), Output: transform.Named("stage")},
		Base:   transform.KindAffine,
		Path:   "calibration/r2s",
	}, res.Transforms[0])

	p, ok := res.Transforms[1].(transform.Parametrized)
	require.True(t, ok)
	assert.Equal(t, transform.KindTranslation, p.Base)
}

func TestLoad_NotFound(t *testing.T) {
	_, errs := Load(filepath.Join("testdata", "missing.yaml"), LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeNotFound, loadCode(t, errs[0]))
}

func TestLoad_CollectAllVersusFailFast(t *testing.T) {
	path := filepath.Join("testdata", "broken.yaml")

	res, errs := Load(path, LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeInvalidSystem, loadCode(t, errs[0]))
	assert.Empty(t, res.Spaces)

	res, errs = Load(path, LoadModeCollectAll)
	require.Len(t, errs, 2)
	assert.Equal(t, ErrCodeInvalidSystem, loadCode(t, errs[0]))
	assert.Equal(t, ErrCodeUnknownType, loadCode(t, errs[1]))
	assert.Len(t, res.Spaces, 1)
	assert.Len(t, res.Transforms, 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		code     string
	}{
		{"unsupported extension", "meta.txt", "{}", ErrCodeLoadFailed},
		{"empty yaml", "meta.yaml", "", ErrCodeLoadFailed},
		{"unknown yaml field", "meta.yaml", "coordinateSystem: []\n", ErrCodeLoadFailed},
		{"bad json", "meta.json", `{"coordinateSystems": [`, ErrCodeLoadFailed},
		{"cue syntax", "meta.cue", "coordinateSystems: [", ErrCodeLoadFailed},
		{"cue unknown type", "meta.cue", `coordinateTransformations: [{type: "rotate"}]`, ErrCodeBuildFailed},
		{"cue unknown field", "meta.cue", `extra: 1`, ErrCodeBuildFailed},
		{"cue not concrete", "meta.cue", `coordinateSystems: [{name: string, axes: []}]`, ErrCodeBuildFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.filename, []byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, tt.code, loadCode(t, err))
		})
	}
}

func TestConvert_ByDimension(t *testing.T) {
	doc, err := Parse("stack.yaml", []byte(`
coordinateSystems:
  - name: in
    axes: [{name: x}, {name: y}, {name: z}]
  - name: out
    axes: [{name: x}, {name: y}, {name: z}]
coordinateTransformations:
  - type: byDimension
    name: stack
    input: in
    output: out
    transformations:
      - type: scale
        scale: [2, 3]
        inputAxes: [x, y]
        outputAxes: [x, y]
      - type: translation
        translation: [5]
        inputAxes: [z]
        outputAxes: [z]
`))
	require.NoError(t, err)

	res, errs := doc.Convert(LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, res.Transforms, 1)

	bd, ok := res.Transforms[0].(transform.ByDimension)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, bd.InputAxes)
	assert.Equal(t, []string{"x", "y", "z"}, bd.OutputAxes)
	require.Len(t, bd.Parts, 2)
	assert.Equal(t, []string{"z"}, bd.Parts[1].OutputAxes)

	m, err := transform.Materialize(bd)
	require.NoError(t, err)
	pt, err := m.Apply([]float64{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 6}, pt)
}

func TestConvert_ByDimensionPartNeedsAxes(t *testing.T) {
	doc := &Document{CoordinateTransformations: []Transform{{
		Type: TypeByDimension,
		Name: "stack",
		Transformations: []Transform{{Type: TypeScale, Scale: []float64{2}}},
	}}}

	_, errs := doc.Convert(LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeInvalidPart, loadCode(t, errs[0]))
}

func TestConvert_IdentityTakesInputDimension(t *testing.T) {
	doc := &Document{
		CoordinateSystems: []CoordinateSystem{{Name: "yx", Axes: []Axis{{Name: "y"}, {Name: "x"}}}},
		CoordinateTransformations: []Transform{
			{Type: TypeIdentity, Name: "named", Input: "yx", Output: "yx"},
			{Type: TypeIdentity, Name: "axes", InputAxes: []string{"t"}, OutputAxes: []string{"t"}},
			{Type: TypeIdentity, Name: "open", Input: "elsewhere", Output: "yx"},
		},
	}

	res, errs := doc.Convert(LoadModeFailFast)
	require.Empty(t, errs)
	assert.Equal(t, 2, res.Transforms[0].(transform.Identity).Dims)
	assert.Equal(t, 1, res.Transforms[1].(transform.Identity).Dims)
	assert.Equal(t, 0, res.Transforms[2].(transform.Identity).Dims)
	assert.Equal(t, transform.AxesRef("t"), res.Transforms[1].Info().Input)
}

func TestConvert_AxisLabelsAreNormalized(t *testing.T) {
	doc := &Document{CoordinateSystems: []CoordinateSystem{{
		Name: "spectral",
		Axes: []Axis{{Name: "λé", Type: "channel"}},
	}}}

	res, errs := doc.Convert(LoadModeFailFast)
	require.Empty(t, errs)
	assert.True(t, res.Spaces[0].HasAxis("λé"))
}
