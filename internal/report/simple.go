package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cleverdevil/pseudonym/internal/model"
)

// SimpleWriter outputs human-readable text results.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the results in human-readable format.
func (w *SimpleWriter) Write(results []Result) (int, error) {
	var sb strings.Builder

	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		w.writeResult(&sb, &r)
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeResult(sb *strings.Builder, result *Result) {
	fmt.Fprintf(sb, "%s\n", result.URL)
	fmt.Fprintf(sb, "%s\n", strings.Repeat("-", len(result.URL)))

	if result.Record == nil {
		fmt.Fprintf(sb, "  resolution failed: %s\n", result.Error)
		return
	}

	rec := result.Record
	if rec.Name != nil {
		fmt.Fprintf(sb, "  name: %s\n", *rec.Name)
	}
	if len(rec.Nicknames) > 0 {
		fmt.Fprintf(sb, "  nicknames: %s\n", strings.Join(rec.Nicknames, ", "))
	}
	if w.verbose {
		fetched := model.TimeFromEpochSeconds(rec.Timestamp)
		fmt.Fprintf(sb, "  fetched: %s\n", fetched.Format("2006-01-02 15:04:05 MST"))
	}

	if len(rec.Pseudonyms) == 0 {
		fmt.Fprintf(sb, "  no pseudonyms found\n")
		return
	}
	for _, p := range rec.Pseudonyms {
		if w.verbose {
			fmt.Fprintf(sb, "  %-12s @%s (%s)\n", p.Target, p.Username, p.URL)
		} else {
			fmt.Fprintf(sb, "  %-12s @%s\n", p.Target, p.Username)
		}
	}
}
