package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/anime-shed/palette-inspector-go/internal/logger"
)

// globalOptions are the persistent flags shared by every subcommand
type globalOptions struct {
	logLevel string
	workers  int
}

// NewRootCommand builds the palette command tree
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "palette",
		Short:        "Extract design color palettes from images",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// stdout carries palettes and JSON
			logger.SetOutput(cmd.ErrOrStderr())
			logger.UseJSON(false)
			logger.SetLevel(opts.logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().IntVar(&opts.workers, "workers", 0, "extraction workers, 0 uses every CPU")

	cmd.AddCommand(
		newExtractCommand(opts),
		newWatchCommand(opts),
		newHistoryCommand(),
	)
	return cmd
}

// Execute runs the command tree until ctx is cancelled
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
