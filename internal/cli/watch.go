package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anime-shed/palette-inspector-go/internal/logger"
	"github.com/anime-shed/palette-inspector-go/internal/palette"
	"github.com/anime-shed/palette-inspector-go/internal/repository"
	"github.com/anime-shed/palette-inspector-go/internal/storage"
	"github.com/anime-shed/palette-inspector-go/pkg/validation"
)

type watchOptions struct {
	colors  int
	preview bool
	json    bool
	settle  time.Duration
}

func newWatchCommand(global *globalOptions) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Print the palette of every image written to a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, global, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.colors, "colors", "n", palette.DefaultColorCount, "number of colors to extract (3-12)")
	flags.BoolVar(&opts.preview, "preview", false, "use a smaller sample and coarser bins")
	flags.BoolVar(&opts.json, "json", false, "print JSON instead of swatches")
	flags.DurationVar(&opts.settle, "settle", 300*time.Millisecond, "quiet period after the last write before a file is read")
	return cmd
}

func runWatch(cmd *cobra.Command, global *globalOptions, opts *watchOptions, dir string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fetcher, err := storage.NewLocalImageFetcher(dir, maxImageFileSize)
	if err != nil {
		return err
	}
	images := repository.NewImageRepository(fetcher, validation.NewPathValidator())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ex := newExtractor(global.workers, opts.colors, opts.preview)
	defer ex.Close()

	// Debounced callbacks fire on timer goroutines; extraction stays on this one.
	ready := make(chan string)
	debounced := make(map[string]func(func()))
	width := terminalWidth(out)

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s\n", dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(event.Name)
			if !validation.IsImagePath(name) {
				continue
			}
			schedule, ok := debounced[name]
			if !ok {
				schedule = debounce.New(opts.settle)
				debounced[name] = schedule
			}
			schedule(func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("File watcher error")

		case name := <-ready:
			decoded, err := images.FetchImage(ctx, name)
			if err != nil {
				logger.WithError(err).WithFields(logrus.Fields{"file": name}).Warn("Failed to read image")
				continue
			}
			resp, err := ex.extract(ctx, decoded, name)
			if err != nil {
				logger.WithError(err).WithFields(logrus.Fields{"file": name}).Warn("Failed to extract palette")
				continue
			}
			if opts.json {
				if err := writeJSON(out, resp); err != nil {
					return err
				}
				continue
			}
			renderPalette(out, resp, width)
		}
	}
}
