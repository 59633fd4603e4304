package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anime-shed/palette-inspector-go/internal/logger"
	"github.com/anime-shed/palette-inspector-go/internal/palette"
	"github.com/anime-shed/palette-inspector-go/internal/repository"
	"github.com/anime-shed/palette-inspector-go/pkg/models"
)

type extractOptions struct {
	colors  int
	json    bool
	preview bool
	save    bool
	dbPath  string
}

func newExtractCommand(global *globalOptions) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Print the palette of one or more images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, global, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.colors, "colors", "n", palette.DefaultColorCount, "number of colors to extract (3-12)")
	flags.BoolVar(&opts.json, "json", false, "print the JSON response instead of swatches")
	flags.BoolVar(&opts.preview, "preview", false, "use a smaller sample and coarser bins")
	flags.BoolVar(&opts.save, "save", false, "record results in palette history")
	flags.StringVar(&opts.dbPath, "db", "", "history database path (default under the XDG data dir)")
	return cmd
}

func runExtract(cmd *cobra.Command, global *globalOptions, opts *extractOptions, files []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	ex := newExtractor(global.workers, opts.colors, opts.preview)
	defer ex.Close()

	var store repository.PaletteStore = repository.NopStore{}
	if opts.save {
		s, err := openHistory(opts.dbPath)
		if err != nil {
			return fmt.Errorf("open palette history: %w", err)
		}
		defer s.Close()
		store = s
	}

	var bar *progressbar.ProgressBar
	if len(files) > 1 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("extracting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]*models.PaletteResponse, 0, len(files))
	var failed []string
	for _, file := range files {
		resp, err := ex.extractFile(ctx, file)
		if bar != nil {
			bar.Add(1)
		}
		if err != nil {
			logger.WithError(err).WithField("file", file).Debug("Extraction failed")
			failed = append(failed, fmt.Sprintf("%s: %v", file, err))
			continue
		}
		if err := store.Save(ctx, resp); err != nil {
			return fmt.Errorf("save palette for %s: %w", file, err)
		}
		results = append(results, resp)
	}
	if bar != nil {
		bar.Finish()
	}

	for _, msg := range failed {
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
	}

	if opts.json {
		var v interface{} = results
		if len(files) == 1 && len(results) == 1 {
			v = results[0]
		}
		if err := writeJSON(out, v); err != nil {
			return err
		}
	} else {
		width := terminalWidth(out)
		for i, resp := range results {
			if i > 0 {
				fmt.Fprintln(out)
			}
			renderPalette(out, resp, width)
		}
	}

	if opts.save && len(results) > 0 {
		logger.WithFields(logrus.Fields{"saved": len(results)}).Info("Palettes saved to history")
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d images failed", len(failed), len(files))
	}
	return nil
}
