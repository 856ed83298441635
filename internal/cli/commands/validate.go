package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatsift/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a ChatSift configuration file without parsing anything.

Checks:
  - YAML syntax
  - Cache capacity and alert threshold bounds
  - Omitted-phrase entries
  - Output format`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Report what we found
	fmt.Printf("\nConfiguration valid!\n")
	fmt.Printf("  Cache capacity:          %d handle(s)\n", cfg.Cache.Capacity)
	fmt.Printf("  Missing alert threshold: %d lookup(s)\n", cfg.Cache.MissingAlertThreshold)
	fmt.Printf("  Output format:           %s\n", cfg.Output.Format)

	if len(cfg.Media.OmittedPhrases) > 0 {
		fmt.Printf("\nExtra omitted-media phrases:\n")
		for _, phrase := range cfg.Media.OmittedPhrases {
			fmt.Printf("  - %s\n", phrase)
		}
	}

	return nil
}
