package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newFavCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Favorites management",
		Long: `Toggle and list favorite assets.

Favorites persist across sessions and power the --favorites filter in
'list' and 'watch'.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <asset>",
		Short: "Toggle an asset's favorite status",
		Long:  "Add the asset to favorites if absent, remove it if present.",
		Example: `  coinwatch fav toggle bitcoin
  coinwatch fav toggle dogecoin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			assetID := strings.ToLower(args[0])

			registry, err := app.loadFavorites(ctx)
			if err != nil {
				output.Error("Favorites unavailable: %v", err)
				return err
			}

			nowFavorite, err := registry.Toggle(ctx, assetID)
			if err != nil {
				output.Error("Failed to save favorites: %v", err)
				return err
			}

			if nowFavorite {
				output.Success("★ %s added to favorites", assetID)
			} else {
				output.Info("☆ %s removed from favorites", assetID)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorites in insertion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			registry, err := app.loadFavorites(ctx)
			if err != nil {
				output.Error("Favorites unavailable: %v", err)
				return err
			}

			ids := registry.List()
			if output.IsJSON() {
				return output.JSON(ids)
			}

			if len(ids) == 0 {
				output.Dim("No favorites yet. Add one with 'coinwatch fav toggle <asset>'.")
				return nil
			}

			for i, id := range ids {
				output.Printf("%2d. %s\n", i+1, id)
			}
			return nil
		},
	})

	return cmd
}
