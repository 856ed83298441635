package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatsift/pkg/archive"
	"github.com/ccollicutt/chatsift/pkg/config"
	"github.com/ccollicutt/chatsift/pkg/output"
	"github.com/ccollicutt/chatsift/pkg/transcript"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Output     string
	ConfigPath string
	Verbose    bool
	Quiet      bool
	Debug      bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <transcript-or-archive>...",
		Short: "Parse chat transcripts into structured events",
		Long: `Parse exported chat transcripts into structured events.

Accepts plain .txt transcripts, .zip archives containing a transcript,
and glob patterns matching either. Multiple inputs are merged into a
single chronological event stream.

Lines that fail to parse never abort the run. They are collected as
diagnostics and reported alongside everything that could be recovered.

Exit codes:
  0 - All lines parsed
  1 - Some lines failed to parse
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show per-line diagnostics, not just counts")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := newLogger(opts.Debug)

	cfg, err := config.Load(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Expand input globs
	files, err := transcript.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding inputs: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matched patterns: %v", args)
	}

	parser := transcript.NewParser(
		transcript.WithOmittedPhrases(cfg.Media.OmittedPhrases...),
	)

	// Parse each input independently, then merge by timestamp.
	results := make([]*transcript.Result, 0, len(files))
	for _, file := range files {
		text, err := readTranscript(file)
		if err != nil {
			return err
		}

		result := parser.Parse(text)
		log.WithFields(logrus.Fields{
			"file":   file,
			"parsed": result.Counters.Parsed,
			"failed": result.Counters.Failed,
		}).Debug("parsed transcript")

		results = append(results, result)
	}

	combined := combineResults(results)

	// Create report
	report := output.NewReport(combined, files)

	// Create formatter
	formatter, err := createFormatter(formatForOptions(cfg, opts))
	if err != nil {
		return err
	}

	// Output report
	if err := formatter.Format(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Set exit code based on results
	if combined.HasFailures() {
		ExitCode = 1
	}

	return nil
}

// readTranscript returns transcript text from a plain file or a zip archive.
func readTranscript(file string) (string, error) {
	data, err := os.ReadFile(file) // #nosec G304 -- user-provided transcript paths
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}

	if strings.EqualFold(filepath.Ext(file), ".zip") {
		export, err := archive.Extract(data)
		if err != nil {
			return "", fmt.Errorf("extracting %s: %w", file, err)
		}
		if export.TranscriptName == "" {
			return "", fmt.Errorf("archive %s contains no transcript", file)
		}
		return export.TranscriptText, nil
	}

	return string(data), nil
}

// combineResults merges per-file results into one. Events are ordered by
// timestamp across files and the counters are summed, preserving the
// parsed+failed+blank=total invariant.
func combineResults(results []*transcript.Result) *transcript.Result {
	if len(results) == 1 {
		return results[0]
	}

	combined := &transcript.Result{
		Events:      transcript.MergeByTime(results...),
		Diagnostics: make([]transcript.Diagnostic, 0),
	}
	for _, r := range results {
		combined.Diagnostics = append(combined.Diagnostics, r.Diagnostics...)
		combined.Counters.Total += r.Counters.Total
		combined.Counters.Parsed += r.Counters.Parsed
		combined.Counters.Failed += r.Counters.Failed
		combined.Counters.Blank += r.Counters.Blank
		combined.Counters.Media += r.Counters.Media
		combined.Counters.System += r.Counters.System
	}
	return combined
}

// formatForOptions resolves the output format, flag over config default.
func formatForOptions(cfg *config.Config, opts *ParseOptions) *formatterOptions {
	format := opts.Output
	if format == "" {
		format = cfg.Output.Format
	}
	return &formatterOptions{
		Format:  format,
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}
}

type formatterOptions struct {
	Format  string
	Verbose bool
	Quiet   bool
}

func createFormatter(opts *formatterOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Format {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Format)
	}
}

// newLogger builds the command logger. Debug output goes to stderr so it
// never mixes with report output on stdout.
func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}
