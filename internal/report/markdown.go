package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/cleverdevil/pseudonym/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the results in Markdown format.
func (w *MarkdownWriter) Write(results []Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Pseudonym Resolution Report")
	md.PlainText("")

	w.writeSummary(md, results)
	for i := range results {
		w.writeResult(md, &results[i])
	}
	w.writePlatformChart(md, results)

	return len(md.String()), md.Build()
}

// writeSummary writes the overall resolution summary.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, results []Result) {
	resolved := 0
	for _, r := range results {
		if r.Record != nil {
			resolved++
		}
	}

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URLs Resolved", strconv.Itoa(resolved) + " / " + strconv.Itoa(len(results))},
			{"Generated", time.Now().Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	if resolved < len(results) {
		md.Warningf("%d URL(s) could not be resolved.", len(results)-resolved)
	} else {
		md.Tip("All URLs resolved.")
	}
	md.PlainText("")
}

// writeResult writes one identity section with its pseudonym table.
func (w *MarkdownWriter) writeResult(md *markdown.Markdown, result *Result) {
	md.H2(result.URL)
	md.PlainText("")

	if result.Record == nil {
		md.Cautionf("Resolution failed: %s", result.Error)
		md.PlainText("")
		return
	}

	rec := result.Record
	name := "(none)"
	if rec.Name != nil {
		name = *rec.Name
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Name", name},
			{"Fetched", model.TimeFromEpochSeconds(rec.Timestamp).Format("2006-01-02 15:04:05 MST")},
			{"Pseudonyms", strconv.Itoa(len(rec.Pseudonyms))},
		},
	})
	md.PlainText("")

	if len(rec.Pseudonyms) == 0 {
		md.Note("No pseudonyms found on this page.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(rec.Pseudonyms))
	for _, p := range rec.Pseudonyms {
		rows = append(rows, []string{p.Target, p.Username, "`" + p.URL + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Platform", "Username", "Profile URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePlatformChart writes a mermaid pie chart of the platform
// distribution across all resolved identities.
func (w *MarkdownWriter) writePlatformChart(md *markdown.Markdown, results []Result) {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range results {
		if r.Record == nil {
			continue
		}
		for _, p := range r.Record.Pseudonyms {
			if counts[p.Target] == 0 {
				order = append(order, p.Target)
			}
			counts[p.Target]++
		}
	}
	if len(order) == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Platform Distribution"),
		piechart.WithShowData(true),
	)
	for _, platform := range order {
		chart.LabelAndIntValue(platform, uint64(counts[platform]))
	}

	md.H2("Platforms")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
