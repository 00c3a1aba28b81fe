package betseq

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maraf10/BET-seq/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(input, out string) config.Config {
	return config.Config{
		Input:      input,
		Out:        out,
		RT:         config.DefaultRT,
		DummyFacet: config.DefaultDummyFacet,
		Width:      2,
		Height:     2,
		Bins:       10,
	}
}

func Test_Analyze(t *testing.T) {
	t.Run("table in, charts out", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "charts")
		c := testConfig(writeSyntheticCSV(t), out)

		require.NoError(t, Analyze(c))

		for _, f := range chartFiles {
			_, err := os.Stat(filepath.Join(out, f))
			assert.NoError(t, err, f)
		}
	})

	t.Run("missing table aborts the run", func(t *testing.T) {
		c := testConfig(filepath.Join(t.TempDir(), "nope.csv"), t.TempDir())
		assert.ErrorIs(t, Analyze(c), ErrDataUnavailable)
	})

	t.Run("no input configured", func(t *testing.T) {
		c := testConfig("", t.TempDir())
		assert.ErrorIs(t, Analyze(c), ErrDataUnavailable)
	})
}

func Test_WriteSummary(t *testing.T) {
	c := testConfig(writeSyntheticCSV(t), "")

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, c))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	// header plus one row per (total_species, ddG_range, depth, rep) group
	require.Len(t, lines, 1+8)
	assert.Contains(t, lines[0], "frac_obs")
	assert.Contains(t, lines[0], "r.squared")

	// deterministic order: the shallow depth of the narrow range first
	assert.Contains(t, lines[1], "100")
	for _, line := range lines[1:] {
		assert.Equal(t, 8, len(strings.Fields(line)), line)
	}
}
