// Package cli provides the command-line interface for ChatSift.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatsift/internal/cli/commands"
	"github.com/ccollicutt/chatsift/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	// Check if the first argument might be a plugin command
	if len(os.Args) > 1 {
		potentialCommand := os.Args[1]
		// Skip flags (start with -)
		if len(potentialCommand) > 0 && potentialCommand[0] != '-' {
			// Check if it's a known built-in command
			if !isBuiltinCommand(rootCmd, potentialCommand) {
				// Try to find and execute a plugin
				if pluginPath, err := plugins.FindPlugin(potentialCommand); err == nil {
					// Plugin found - execute it with remaining args
					return plugins.Execute(pluginPath, os.Args[2:])
				}
				// Plugin not found - will fall through to Cobra which will show error
			}
		}
	}

	if err := rootCmd.Execute(); err != nil {
		// Check if this was an unknown command that could be a plugin
		if len(os.Args) > 1 {
			potentialCommand := os.Args[1]
			if len(potentialCommand) > 0 && potentialCommand[0] != '-' {
				if !isBuiltinCommand(rootCmd, potentialCommand) {
					// Show helpful plugin error message
					_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(potentialCommand))
					return 2
				}
			}
		}
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	// Also check for special commands like help and completion
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chatsift",
		Short: "Parse and inspect exported chat archives",
		Long: `ChatSift ingests exported chat transcripts and their zip archives.

It handles:
  - Multi-format transcript parsing (bracketed, dashed, and system lines)
  - Archive extraction with media classification
  - Bounded media caching with missing-file accounting

Point it at a transcript export, and ChatSift reports who said what, when,
and which media the conversation references.

PLUGINS:
  ChatSift supports plugins for extended functionality. Plugins are standalone
  binaries named chatsift-<command> that are automatically discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the chatsift binary
    2. ~/.chatsift/plugins/
    3. Anywhere in PATH

  Available plugins:
    viewer    Interactive transcript viewer with media preview`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
