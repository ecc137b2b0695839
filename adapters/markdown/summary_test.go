package markdown

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playercorr/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_ContainsStatistics(t *testing.T) {
	doc := Document(testkit.FixtureSummary())

	assert.Contains(t, doc, "2 of 4 records kept (level > 90, APM > 0)")
	assert.Contains(t, doc, "| Percent of kills / APM | 2 | 1.000 | 1.000e+00 | 1.000e-02 | -0.40 |")
	assert.Contains(t, doc, "| Level | 1.00 | -1.00 | -1.00 |")
	assert.Contains(t, doc, "| kills |")
	assert.Contains(t, doc, "generated 2024-07-01T09:00:00Z")
}

func TestRenderHTML_ProducesTables(t *testing.T) {
	out := string(RenderHTML(testkit.FixtureSummary()))

	assert.True(t, strings.Contains(out, "<html"), "complete page expected")
	assert.Equal(t, 3, strings.Count(out, "<table>"))
	assert.Contains(t, out, "Correlation matrix")
}

func TestHTMLExporter_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.html")
	require.NoError(t, NewHTMLExporter().Export(path, testkit.FixtureSummary()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Percent of kills / player ascension level")
}

func TestHTMLExporter_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "summary.html")
	require.Error(t, NewHTMLExporter().Export(path, testkit.FixtureSummary()))
	assert.NoFileExists(t, path)

	ok := filepath.Join(dir, "summary.html")
	require.NoError(t, NewHTMLExporter().Export(ok, testkit.FixtureSummary()))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file left behind")
}
