package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatsift/pkg/archive"
	"github.com/ccollicutt/chatsift/pkg/media"
	"github.com/ccollicutt/chatsift/pkg/transcript"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <transcript-or-archive>",
		Short: "Diagnose common export problems",
		Long: `Diagnose common problems with a chat export.

This command checks a transcript or archive for common problems:
- File existence and accessibility
- Archive integrity and transcript presence
- Line format recognition against the known message formats
- Media references without a matching archive entry

Example:
  chatsift diagnose export.zip
  chatsift diagnose -v chat.txt  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(path string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Check file existence
	result := checkFileExists(path)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(results, opts)
		return nil
	}

	// 2. For archives, check extractability first
	var text string
	var export *archive.Export
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		var archResults []DiagnosticResult
		export, archResults = checkArchive(path, opts)
		results = append(results, archResults...)
		if export == nil || export.TranscriptName == "" {
			printDiagnostics(results, opts)
			return nil
		}
		text = export.TranscriptText
	} else {
		content, err := os.ReadFile(path) // #nosec G304 -- user-provided transcript path
		if err != nil {
			results = append(results, DiagnosticResult{
				Check:    "Transcript Read",
				Status:   "error",
				Message:  fmt.Sprintf("Cannot read file: %v", err),
				Suggests: []string{"Check file permissions"},
			})
			printDiagnostics(results, opts)
			return nil
		}
		text = string(content)
	}

	// 3. Parse the transcript and check line recognition
	parseResults, parsed := checkTranscript(text, opts)
	results = append(results, parseResults...)

	// 4. Cross-check media references against archive contents
	if export != nil && parsed != nil {
		results = append(results, checkMediaReferences(parsed, export)...)
	}

	printDiagnostics(results, opts)
	return nil
}

func checkFileExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Export File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("File not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "File is empty"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkArchive(path string, opts *DiagnoseOptions) (*archive.Export, []DiagnosticResult) {
	results := []DiagnosticResult{}
	result := DiagnosticResult{
		Check: "Archive Integrity",
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided archive path
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read archive: %v", err)
		return nil, append(results, result)
	}

	export, err := archive.Extract(data)
	if err != nil {
		result.Status = "error"
		switch {
		case errors.Is(err, archive.ErrCorruptArchive):
			result.Message = "Archive is corrupt or not a zip file"
			result.Suggests = []string{
				"Re-export the chat from the source application",
				"Check the file was not truncated during transfer",
			}
		case errors.Is(err, archive.ErrDecompressionUnavailable):
			result.Message = "Archive uses an unsupported compression method"
			result.Suggests = []string{
				"Re-pack the archive with standard deflate compression",
			}
		default:
			result.Message = fmt.Sprintf("Extraction failed: %v", err)
		}
		return nil, append(results, result)
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Extracted %d media entr(ies)", len(export.Media))
	results = append(results, result)

	// Transcript presence
	tsResult := DiagnosticResult{
		Check: "Transcript Presence",
	}
	if export.TranscriptName == "" {
		tsResult.Status = "error"
		tsResult.Message = "Archive contains no .txt transcript"
		tsResult.Suggests = []string{
			"Export the chat with 'include media' so the transcript is bundled",
		}
	} else {
		tsResult.Status = "ok"
		tsResult.Message = fmt.Sprintf("Found: %s (%d bytes)", export.TranscriptName, len(export.TranscriptText))
	}
	results = append(results, tsResult)

	// Media kind breakdown
	if len(export.Media) > 0 {
		kindCounts := make(map[media.Kind]int)
		for name := range export.Media {
			kindCounts[media.Classify(name)]++
		}
		details := make([]string, 0, len(kindCounts))
		for kind, count := range kindCounts {
			details = append(details, fmt.Sprintf("%s: %d", kind, count))
		}
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Media Inventory",
				Status:  "ok",
				Message: fmt.Sprintf("%d media file(s)", len(export.Media)),
				Details: details,
			})
		}
	}

	return export, results
}

func checkTranscript(text string, opts *DiagnoseOptions) ([]DiagnosticResult, *transcript.Result) {
	results := []DiagnosticResult{}

	parser := transcript.NewParser()
	parsed := parser.Parse(text)

	result := DiagnosticResult{
		Check: "Line Recognition",
	}

	nonBlank := parsed.Counters.Total - parsed.Counters.Blank
	switch {
	case nonBlank == 0:
		result.Status = "warning"
		result.Message = "Transcript has no non-blank lines"
	case parsed.Counters.Parsed == 0:
		result.Status = "error"
		result.Message = "No lines match any known message format"
		result.Suggests = []string{
			"Check the export is a plain-text chat transcript",
			"Supported formats: [DD/MM/YYYY, HH:MM:SS] Sender: text, DD/MM/YYYY, HH:MM - Sender: text, and dash-separated system lines",
		}
	case parsed.Counters.Failed > 0:
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d of %d line(s) failed to parse", parsed.Counters.Failed, nonBlank)
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("All %d non-blank line(s) parsed", nonBlank)
	}

	// Per-format breakdown of structural matches
	if breakdown := transcript.FormatBreakdown(text); len(breakdown) > 0 {
		for _, name := range []string{transcript.FormatBracketed, transcript.FormatDashed, transcript.FormatSystem} {
			if n := breakdown[name]; n > 0 {
				result.Details = append(result.Details, fmt.Sprintf("format %s: %d line(s)", name, n))
			}
		}
	}

	// Sample failing lines with their reasons
	if len(parsed.Diagnostics) > 0 {
		limit := 3
		if opts.Verbose {
			limit = 10
		}
		for i, d := range parsed.Diagnostics {
			if i >= limit {
				result.Details = append(result.Details,
					fmt.Sprintf("... and %d more", len(parsed.Diagnostics)-limit))
				break
			}
			result.Details = append(result.Details,
				fmt.Sprintf("line %d [%s]: %s", d.LineNumber, d.Reason, truncate(d.RawLine, 80)))
		}
	}

	results = append(results, result)

	// Invalid dates get their own hint since the line shape was recognized
	invalidDates := 0
	for _, d := range parsed.Diagnostics {
		if d.Reason == transcript.ReasonInvalidDate {
			invalidDates++
		}
	}
	if invalidDates > 0 {
		results = append(results, DiagnosticResult{
			Check:   "Date Validity",
			Status:  "warning",
			Message: fmt.Sprintf("%d line(s) matched a format but carried an invalid date", invalidDates),
			Suggests: []string{
				"Dates are read day-first (DD/MM/YYYY)",
				"Check for out-of-range day, month, or time components",
			},
		})
	}

	return results, parsed
}

func checkMediaReferences(parsed *transcript.Result, export *archive.Export) []DiagnosticResult {
	result := DiagnosticResult{
		Check: "Media References",
	}

	referenced := make(map[string]struct{})
	for _, event := range parsed.Events {
		if event.Media != nil && event.Media.Filename != "" {
			referenced[event.Media.Filename] = struct{}{}
		}
	}

	if len(referenced) == 0 {
		result.Status = "ok"
		result.Message = "Transcript references no media files by name"
		return []DiagnosticResult{result}
	}

	var missing []string
	for name := range referenced {
		if _, ok := export.Media[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) == 0 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("All %d referenced file(s) present in archive", len(referenced))
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d of %d referenced file(s) missing from archive", len(missing), len(referenced))
		result.Details = missing
		result.Suggests = []string{
			"The export may have been created without media",
			"Lookups for these files will count toward the missing-media alert",
		}
	}

	return []DiagnosticResult{result}
}

func printDiagnostics(results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Println("=== ChatSift Export Diagnostics ===")
	fmt.Println()

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Printf("[%s] %s\n", icon, r.Check)
		fmt.Printf("    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Printf("      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Printf("      Hint: %s\n", s)
		}

		fmt.Println()
	}

	// Summary
	fmt.Println("---")
	fmt.Printf("Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Println("\nFix the errors above before parsing.")
	} else if warnCount > 0 {
		fmt.Println("\nExport is usable but has warnings.")
	} else {
		fmt.Println("\nExport looks good!")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
