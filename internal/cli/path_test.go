package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "path", "testdata/scene.yaml", "raw", "world")
	require.NoError(t, err)
	assertGolden(t, "path_raw_world_json", out)
}

func TestPath_Text(t *testing.T) {
	out, _, err := execute(t, "path", "testdata/scene.yaml", "raw", "world")
	require.NoError(t, err)
	assertGolden(t, "path_raw_world_text", out)
}

func TestPath_Inverse(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "path", "testdata/scene.yaml", "micron", "raw")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   PathResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"inv-s2m"}, resp.Data.Transforms)
	require.Len(t, resp.Data.Matrix, 3)
	assert.InDelta(t, 0.25, resp.Data.Matrix[0][0], 1e-12)
	assert.InDelta(t, 0.25, resp.Data.Matrix[2][2], 1e-12)
}

func TestPath_SameSystem(t *testing.T) {
	out, _, err := execute(t, "path", "testdata/scene.yaml", "world", "world")
	require.NoError(t, err)
	assert.Equal(t, "world\n[1 0 0 0]\n[0 1 0 0]\n[0 0 1 0]\n", out)
}

func TestPath_Axes(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "path", "--axes", "testdata/scene.yaml", "x,y,z", "micron")
	require.NoError(t, err)

	var resp struct {
		Data PathResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "raw", resp.Data.From, "first system with matching labels")
	assert.Equal(t, "micron", resp.Data.To)
	assert.Equal(t, []string{"s2m"}, resp.Data.Transforms)
}

func TestPath_UnknownSystem(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "path", "testdata/scene.yaml", "raw", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assertGolden(t, "path_unknown_space_json", out)
}

func TestPath_NoPathListsUnbound(t *testing.T) {
	out, stderr, err := execute(t, "--format", "json", "path", "testdata/islands.yaml", "a", "b")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, `"code":"E203"`)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNoPath, resp.Error.Code)
	assert.Equal(t, "no path from a to b", resp.Error.Message)

	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"a2ghost", "inv-a2ghost"}, details["unbound"])
}

func TestPath_MissingFile(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "path", "testdata/missing.yaml", "a", "b")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `"code":"E005"`)
}

func TestPath_ParametrizedNeedsStore(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "path", "testdata/stage.yaml", "raw", "slide")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, `"code":"E302"`)
}

func TestPath_ParametrizedFromStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "params.db")

	_, _, err := execute(t, "params", "set", "--shape", "2,3", db, "calibration/r2s", "2", "0", "1", "0", "2", "-1")
	require.NoError(t, err)
	_, _, err = execute(t, "params", "set", db, "calibration/s2l", "10", "20")
	require.NoError(t, err)

	out, _, err := execute(t, "--format", "json", "path", "--params", db, "testdata/stage.yaml", "raw", "slide")
	require.NoError(t, err)
	assertGolden(t, "path_stage_params_json", out)
}

func TestPath_Affine3D(t *testing.T) {
	db := filepath.Join(t.TempDir(), "params.db")
	_, _, err := execute(t, "params", "set", db, "calibration/s2l", "10", "20")
	require.NoError(t, err)

	out, _, err := execute(t, "--format", "json", "path", "--affine3d", "--params", db, "testdata/stage.yaml", "stage", "slide")
	require.NoError(t, err)

	var resp struct {
		Data PathResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, [][]float64{
		{1, 0, 0, 10},
		{0, 1, 0, 20},
		{0, 0, 1, 0},
	}, resp.Data.Matrix)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"x", "y"}, splitList(" x, y ,"))
	assert.Empty(t, splitList(""))
}
