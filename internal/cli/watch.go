package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"coinwatch/internal/alerts"
	"coinwatch/internal/logging"
	"coinwatch/internal/models"
	"coinwatch/internal/poller"
	"coinwatch/internal/view"
)

func newWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard with periodic refresh",
		Long: `Start the live dashboard. The asset list refreshes every poll interval
(default 1m) and armed alerts are evaluated against every fresh snapshot.

Alerts are session-scoped: arm them with repeatable --alert flags using
the form <asset>:<above|below>:<price>. A fired alert is removed and will
not fire again. Press Ctrl-C to quit.`,
		Example: `  coinwatch watch
  coinwatch watch --favorites --limit 12
  coinwatch watch --alert bitcoin:above:100000 --alert ethereum:below:2000
  coinwatch watch --search sol --interval 30s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			search, _ := cmd.Flags().GetString("search")
			favoritesOnly, _ := cmd.Flags().GetBool("favorites")
			limit, _ := cmd.Flags().GetInt("limit")
			interval, _ := cmd.Flags().GetDuration("interval")
			alertSpecs, _ := cmd.Flags().GetStringArray("alert")
			expand, _ := cmd.Flags().GetString("expand")

			if interval <= 0 {
				interval = app.Config.Market.PollInterval
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			notifier := app.newNotifier(output)

			for _, spec := range alertSpecs {
				assetID, direction, threshold, err := parseAlertSpec(spec)
				if err != nil {
					output.Error("Invalid alert %q: %v", spec, err)
					return err
				}
				if _, err := app.Alerts.Add(assetID, threshold, direction); err != nil {
					output.Error("Invalid alert %q: %v", spec, err)
					return err
				}
			}

			var favs view.FavoriteChecker
			if reg, err := app.loadFavorites(ctx); err == nil {
				favs = reg
			} else if favoritesOnly {
				output.Error("Favorites unavailable: %v", err)
				return err
			}

			state := view.NewFilterStateWith(app.Config.Display.DefaultVisible, app.Config.Display.PageStep)
			state.Search = search
			state.FavoritesOnly = favoritesOnly
			if limit > 0 {
				state.VisibleCount = limit
			}

			var selection view.Selection
			if expand != "" {
				selection.Select(expand)
			}

			render := func(snapshot *models.Snapshot) {
				clearScreen(output)
				output.Bold("coinwatch — live (refresh %s, %d alert(s) armed)", interval, app.Alerts.Len())
				output.Println()
				vm := view.Apply(snapshot, favs, state)
				renderList(output, vm, snapshot, favs, app.Snapshots.IsStale())
				if id, ok := selection.Expanded(); ok {
					if rec, found := findAsset(snapshot, id); found {
						output.Println()
						renderAssetCard(app, output, rec)
					}
				}
				output.Println()
				output.Dim("Ctrl-C to quit")
			}

			// Seed the dashboard from the offline cache while the first
			// fetch is in flight.
			if app.Store != nil {
				if cached, err := app.Store.LoadSnapshot(ctx); err == nil {
					app.Snapshots.InstallCached(cached)
					render(cached)
				}
			}

			fetch := func(ctx context.Context) (*models.Snapshot, error) {
				snapshot, err := app.Client.FetchSnapshot(ctx)
				if err != nil {
					return nil, err
				}
				if app.Store != nil {
					if cerr := app.Store.SaveSnapshot(ctx, snapshot); cerr != nil {
						app.Logger.Debug().Err(cerr).Msg("Failed to cache snapshot")
					}
				}
				return snapshot, nil
			}

			controller := poller.New(interval, fetch, app.Snapshots, app.Logger)
			controller.SetOnSnapshot(func(snapshot *models.Snapshot) {
				fired := alerts.Evaluate(snapshot, app.Alerts)
				render(snapshot)
				for _, f := range fired {
					logging.LogAlertFired(app.Logger, f.Alert.ID, f.Alert.AssetID,
						string(f.Alert.Direction), f.Alert.Threshold, f.Price)
					notifier.SendAlert(ctx, f)
				}
			})
			controller.SetOnError(func(err error) {
				notifier.SendFetchError(ctx, err)
			})

			controller.Start(ctx)

			<-ctx.Done()
			controller.Stop()

			// Let any in-flight fetch complete and apply, per the
			// last-write-wins contract.
			select {
			case <-controller.Done():
			case <-time.After(2 * time.Second):
			}

			output.Println()
			output.Info("Stopped.")
			return nil
		},
	}

	cmd.Flags().StringP("search", "s", "", "filter by name or symbol (case-insensitive)")
	cmd.Flags().BoolP("favorites", "f", false, "show favorites only")
	cmd.Flags().IntP("limit", "n", 0, "number of assets to show")
	cmd.Flags().DurationP("interval", "i", 0, "poll interval (default from config)")
	cmd.Flags().StringArrayP("alert", "a", nil, "arm a session alert: <asset>:<above|below>:<price> (repeatable)")
	cmd.Flags().StringP("expand", "e", "", "keep one asset card expanded")
	return cmd
}

func clearScreen(output *Output) {
	if output.colorEnabled {
		output.Printf("\033[H\033[2J")
	}
}
