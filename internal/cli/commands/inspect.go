package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatsift/pkg/config"
	"github.com/ccollicutt/chatsift/pkg/media"
	"github.com/ccollicutt/chatsift/pkg/session"
	"github.com/ccollicutt/chatsift/pkg/transcript"
)

// InspectOptions holds command-line options for the inspect command.
type InspectOptions struct {
	Resolve    []string
	ConfigPath string
	Verbose    bool
	Debug      bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <archive.zip>",
		Short: "Inspect a chat archive's transcript and media",
		Long: `Load a chat archive and report its contents.

Shows the transcript parse summary, the media inventory grouped by kind,
media referenced in the transcript but absent from the archive, and the
memory footprint of holding the archive loaded.

Use --resolve to materialize display handles for specific media files and
print their URIs. Each resolved handle counts against the cache capacity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Resolve, "resolve", nil, "Resolve display handle(s) for media file(s) (can be repeated)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "List every media entry, not just kind totals")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	return cmd
}

func runInspect(cmd *cobra.Command, archivePath string, opts *InspectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := newLogger(opts.Debug)

	cfg, err := config.Load(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	data, err := os.ReadFile(archivePath) // #nosec G304 -- user-provided archive path
	if err != nil {
		return fmt.Errorf("reading %s: %w", archivePath, err)
	}

	sess, err := session.New(cfg,
		session.WithLogger(log),
		session.WithAlertFunc(func(missingCount int) {
			fmt.Fprintf(os.Stderr, "Warning: %d distinct media files were requested but missing from the archive\n", missingCount)
		}),
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	loaded, err := sess.LoadArchive(ctx, data)
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}

	fmt.Println("=== ChatSift Archive Inspection ===")
	fmt.Println()
	fmt.Printf("Archive: %s (%s)\n", archivePath, humanize.Bytes(uint64(len(data))))
	fmt.Println()

	// Transcript summary
	if loaded.TranscriptFound {
		result, err := sess.Parse()
		if err != nil {
			return fmt.Errorf("parsing transcript: %w", err)
		}

		fmt.Printf("Transcript: %s\n", loaded.TranscriptName)
		fmt.Printf("  Lines:        %s total, %s parsed, %s failed\n",
			humanize.Comma(int64(result.Counters.Total)),
			humanize.Comma(int64(result.Counters.Parsed)),
			humanize.Comma(int64(result.Counters.Failed)))

		if participants := transcript.Participants(result.Events); len(participants) > 0 {
			fmt.Printf("  Participants: %s\n", strings.Join(participants, ", "))
		}
		if start, end := transcript.DateRange(result.Events); !start.IsZero() {
			fmt.Printf("  Range:        %s to %s\n",
				start.Format("2006-01-02 15:04:05"),
				end.Format("2006-01-02 15:04:05"))
		}

		printMissingReferences(result, loaded)
	} else {
		fmt.Println("Transcript: none found in archive")
	}
	fmt.Println()

	printMediaInventory(loaded, opts)

	// Resolve requested handles last so the cache stats reflect them.
	if len(opts.Resolve) > 0 {
		fmt.Println()
		printResolvedHandles(sess, opts.Resolve)
	}

	fmt.Println()
	stats := sess.CacheStats()
	fmt.Printf("Memory estimate: %s\n", humanize.Bytes(uint64(sess.MemoryEstimate())))
	fmt.Printf("Cache: %d/%d handles (%.1f%% utilization), %d missing lookup(s)\n",
		stats.Size, stats.Capacity, stats.UtilizationPercent, stats.MissingCount)

	return nil
}

// printMediaInventory lists media grouped by classified kind.
func printMediaInventory(loaded *session.LoadResult, opts *InspectOptions) {
	if loaded.MediaCount == 0 {
		fmt.Println("Media: none")
		return
	}

	fmt.Printf("Media: %d entries\n", loaded.MediaCount)

	kinds := make(map[string][]string)
	for _, name := range loaded.MediaNames {
		kind := string(media.Classify(name))
		kinds[kind] = append(kinds[kind], name)
	}

	kindNames := make([]string, 0, len(kinds))
	for kind := range kinds {
		kindNames = append(kindNames, kind)
	}
	sort.Strings(kindNames)

	for _, kind := range kindNames {
		names := kinds[kind]
		fmt.Printf("  %-10s %d file(s)\n", kind, len(names))
		if opts.Verbose {
			for _, name := range names {
				fmt.Printf("    - %s\n", name)
			}
		}
	}
}

// printMissingReferences cross-checks transcript media references against
// the archive contents.
func printMissingReferences(result *transcript.Result, loaded *session.LoadResult) {
	present := make(map[string]struct{}, len(loaded.MediaNames))
	for _, name := range loaded.MediaNames {
		present[name] = struct{}{}
	}

	seen := make(map[string]struct{})
	var missing []string
	for _, event := range result.Events {
		if event.Media == nil || event.Media.Filename == "" {
			continue
		}
		name := event.Media.Filename
		if _, ok := present[name]; ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		missing = append(missing, name)
	}

	if len(missing) == 0 {
		return
	}

	sort.Strings(missing)
	fmt.Printf("  Referenced but missing from archive: %d file(s)\n", len(missing))
	for _, name := range missing {
		fmt.Printf("    - %s\n", name)
	}
}

// printResolvedHandles materializes display handles for the requested files.
func printResolvedHandles(sess *session.Session, names []string) {
	fmt.Println("Resolved handles:")
	for _, name := range names {
		handle, err := sess.ResolveMedia(name)
		if err != nil {
			fmt.Printf("  %s: error: %v\n", name, err)
			continue
		}
		if handle == nil {
			fmt.Printf("  %s: missing from archive\n", name)
			continue
		}
		fmt.Printf("  %s: %s (%s, %s)\n",
			name, handle.URI(), handle.ContentType(),
			humanize.Bytes(uint64(len(handle.Bytes()))))
	}
}
