package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

func assertGolden(t *testing.T, name, actual string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(actual))
}
