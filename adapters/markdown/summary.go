package markdown

import (
	"fmt"
	"io"
	"strings"

	"playercorr/domain/stats"
	"playercorr/internal/fileutil"
	"playercorr/internal/report"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// HTMLExporter renders a run summary as a standalone HTML page
type HTMLExporter struct{}

// NewHTMLExporter creates an HTML summary exporter
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// Export writes the rendered page to path
func (e *HTMLExporter) Export(path string, summary *stats.Summary) error {
	page := RenderHTML(summary)
	if err := fileutil.WriteFile(path, func(w io.Writer) error {
		_, err := w.Write(page)
		return err
	}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderHTML converts the Markdown summary to a complete HTML document
func RenderHTML(summary *stats.Summary) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(Document(summary)))
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Player correlation summary",
	})
	return markdown.Render(doc, renderer)
}

// Document builds the Markdown source of the summary
func Document(summary *stats.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", report.ReportTitle)
	fmt.Fprintf(&b, "Run `%s`: %d of %d records kept (level > %g, APM > %g).\n\n",
		summary.RunID, len(summary.Filtered), summary.TotalRecords,
		summary.Criteria.MinLevel, summary.Criteria.MinAPM)
	fmt.Fprintf(&b, "Input fingerprint `%s`, generated %s.\n\n", summary.DatasetHash.Short(), summary.GeneratedAt)

	b.WriteString("## Pairs\n\n")
	b.WriteString("| Pair | n | Correlation | p-value | Slope | Intercept |\n")
	b.WriteString("|------|---|-------------|---------|-------|-----------|\n")
	for _, pr := range summary.Pairs {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
			pr.Pair.Title, pr.Result.N,
			report.FormatCoefficient(pr.Result.Coefficient),
			report.FormatPValue(pr.Result.PValue),
			report.FormatSlope(pr.Result.Slope),
			report.FormatIntercept(pr.Result.Intercept))
	}

	if len(summary.Columns) > 0 {
		b.WriteString("\n## Variables\n\n")
		b.WriteString("| Variable | Min | Max | Mean | Std dev |\n")
		b.WriteString("|----------|-----|-----|------|---------|\n")
		for _, c := range summary.Columns {
			fmt.Fprintf(&b, "| %s | %.4g | %.4g | %.4g | %.4g |\n", c.Variable, c.Min, c.Max, c.Mean, c.StdDev)
		}
	}

	m := summary.Matrix
	if m.Values != nil {
		b.WriteString("\n## Correlation matrix\n\n")
		b.WriteString("| |")
		for _, l := range m.Labels {
			fmt.Fprintf(&b, " %s |", l)
		}
		b.WriteString("\n|---|")
		for range m.Labels {
			b.WriteString("---|")
		}
		b.WriteString("\n")
		for i, l := range m.Labels {
			fmt.Fprintf(&b, "| %s |", l)
			for j := range m.Labels {
				fmt.Fprintf(&b, " %s |", report.FormatCell(m.At(i, j)))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
