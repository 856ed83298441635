package output

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "ChatSift: %d lines, %d parsed, %d failed, %d blank\n",
		report.Summary.TotalLines,
		report.Summary.ParsedLines,
		report.Summary.FailedLines,
		report.Summary.BlankLines)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	// Header
	fmt.Fprintln(w, "=== ChatSift Parse Report ===")
	fmt.Fprintln(w)

	if len(report.Metadata.Sources) > 0 {
		fmt.Fprintf(w, "Sources: %s\n", strings.Join(report.Metadata.Sources, ", "))
	}

	if len(report.Participants) > 0 {
		fmt.Fprintf(w, "Participants: %s\n", strings.Join(report.Participants, ", "))
	}
	if !report.FirstEvent.IsZero() {
		fmt.Fprintf(w, "Date range: %s - %s\n",
			report.FirstEvent.Format("2006-01-02 15:04:05"),
			report.LastEvent.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Lines:    %d total, %d parsed, %d failed, %d blank\n",
		report.Summary.TotalLines,
		report.Summary.ParsedLines,
		report.Summary.FailedLines,
		report.Summary.BlankLines)
	fmt.Fprintf(w, "Messages: %d with media, %d system\n",
		report.Summary.MediaMessages,
		report.Summary.SystemMessages)
	fmt.Fprintln(w)

	if len(report.Diagnostics) > 0 {
		fmt.Fprintf(w, "Unparsed lines: %d\n", len(report.Diagnostics))
		if f.opts.Verbose {
			for _, d := range report.Diagnostics {
				fmt.Fprintf(w, "  - line %d [%s]: %s\n", d.LineNumber, d.Reason, d.RawLine)
			}
		} else {
			fmt.Fprintln(w, "  (run with --verbose to list them)")
		}
		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d events, %d unparsed lines\n",
		report.Summary.ParsedLines,
		report.Summary.FailedLines)

	return nil
}
