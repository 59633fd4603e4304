package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anime-shed/palette-inspector-go/pkg/models"
)

func newHistoryCommand() *cobra.Command {
	var (
		limit  int
		dbPath string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List palettes saved with extract --save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			store, err := openHistory(dbPath)
			if err != nil {
				return fmt.Errorf("open palette history: %w", err)
			}
			defer store.Close()

			items, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				if items == nil {
					items = []models.PaletteSummary{}
				}
				return writeJSON(cmd.OutOrStdout(), models.HistoryResponse{Items: items, Count: len(items)})
			}
			renderHistory(cmd.OutOrStdout(), items)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of palettes to list")
	cmd.Flags().StringVar(&dbPath, "db", "", "history database path (default under the XDG data dir)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
