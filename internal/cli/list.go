package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"coinwatch/internal/models"
	"coinwatch/internal/view"
)

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets by market cap",
		Long: `Fetch the latest market snapshot and render a filtered asset list.

When the endpoint is unreachable the last cached snapshot is shown instead,
marked as stale.`,
		Example: `  coinwatch list
  coinwatch list --search eth
  coinwatch list --favorites --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			search, _ := cmd.Flags().GetString("search")
			favoritesOnly, _ := cmd.Flags().GetBool("favorites")
			limit, _ := cmd.Flags().GetInt("limit")

			snapshot, stale, err := app.fetchSnapshot(ctx)
			if err != nil {
				output.Error("Failed to fetch market data: %v", err)
				return err
			}

			var favs view.FavoriteChecker
			if reg, ferr := app.loadFavorites(ctx); ferr == nil {
				favs = reg
			} else if favoritesOnly {
				output.Error("Favorites unavailable: %v", ferr)
				return ferr
			}

			state := view.NewFilterStateWith(app.Config.Display.DefaultVisible, app.Config.Display.PageStep)
			state.Search = search
			state.FavoritesOnly = favoritesOnly
			if limit > 0 {
				state.VisibleCount = limit
			}

			vm := view.Apply(snapshot, favs, state)

			if output.IsJSON() {
				return output.JSON(vm.Records)
			}

			renderList(output, vm, snapshot, favs, stale)
			return nil
		},
	}

	cmd.Flags().StringP("search", "s", "", "filter by name or symbol (case-insensitive)")
	cmd.Flags().BoolP("favorites", "f", false, "show favorites only")
	cmd.Flags().IntP("limit", "n", 0, "number of assets to show")
	return cmd
}

func renderList(output *Output, vm view.ViewModel, snapshot *models.Snapshot, favs view.FavoriteChecker, stale bool) {
	if stale {
		output.Warning("⚠ offline: showing cached data from %s", snapshot.FetchedAt.Format(time.RFC822))
	}

	if len(vm.Records) == 0 {
		output.Dim("No assets match the current filters.")
		return
	}

	table := NewTable(output, "", "Name", "Symbol", "Price", "24h", "High", "Low", "Mkt Cap", "Volume")
	for _, rec := range vm.Records {
		star := " "
		if favs != nil && favs.Contains(rec.ID) {
			star = output.ColoredString(ColorYellow, "★")
		}
		table.AddRow(
			star,
			rec.Name,
			strings.ToUpper(rec.Symbol),
			FormatUSD(rec.CurrentPrice),
			output.FormatChange(rec.ChangePercent24h),
			FormatUSD(rec.High24h),
			FormatUSD(rec.Low24h),
			FormatCompact(rec.MarketCap),
			FormatCompact(rec.Volume24h),
		)
	}
	table.Render()

	output.Println()
	if vm.HasMore {
		output.Dim("Showing %d of %d matching assets (use --limit to see more)", len(vm.Records), vm.Matched)
	} else {
		output.Dim("Showing %d of %d matching assets", len(vm.Records), vm.Matched)
	}
	output.Dim("Last updated: %s", snapshot.FetchedAt.Format("15:04:05"))
}
