package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpaces_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "spaces", "testdata/scene.yaml")
	require.NoError(t, err)
	assertGolden(t, "spaces_scene_json", out)
}

func TestSpaces_Text(t *testing.T) {
	out, _, err := execute(t, "spaces", "testdata/scene.yaml")
	require.NoError(t, err)
	assertGolden(t, "spaces_scene_text", out)
}
