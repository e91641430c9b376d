// Package cli provides the command-line interface for the dashboard.
package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"coinwatch/internal/alerts"
	"coinwatch/internal/config"
	apperrors "coinwatch/internal/errors"
	"coinwatch/internal/favorites"
	"coinwatch/internal/logging"
	"coinwatch/internal/market"
	"coinwatch/internal/models"
	"coinwatch/internal/notify"
	"coinwatch/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Store     store.DataStore
	Client    *market.Client
	Snapshots *market.SnapshotStore
	Alerts    *alerts.Registry
}

// NewRootCmd creates the root command for the CLI. configDir selects the
// state directory; empty means the default under ~/.config/coinwatch.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger, configDir string) *cobra.Command {
	app := &App{
		Config:    cfg,
		Logger:    logger,
		Client:    market.NewClient(clientConfig(cfg), logger),
		Snapshots: market.NewSnapshotStore(),
		Alerts:    alerts.NewRegistry(),
	}

	dataStore, err := store.NewSQLiteStore(config.DefaultDBPath(configDir))
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open local state database, favorites and offline cache unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "coinwatch",
		Short: "coinwatch - a terminal cryptocurrency market dashboard",
		Long: `coinwatch is a terminal dashboard for cryptocurrency market data.

It polls a public markets endpoint, renders a filterable asset list with
7-day sparkline charts, and manages a persisted favorites list and
session price alerts.

Use 'coinwatch help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/coinwatch)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newListCmd(app))
	rootCmd.AddCommand(newShowCmd(app))
	rootCmd.AddCommand(newWatchCmd(app))
	rootCmd.AddCommand(newFavCmd(app))
	rootCmd.AddCommand(newAlertCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func clientConfig(cfg *config.Config) market.ClientConfig {
	cc := market.DefaultClientConfig()
	cc.BaseURL = cfg.Market.BaseURL
	cc.Currency = cfg.Market.Currency
	cc.PerPage = cfg.Market.PerPage
	cc.HTTPTimeout = cfg.Market.HTTPTimeout
	return cc
}

// newNotifier builds the notifier used by long-running commands: the
// terminal channel plus whatever the config enables.
func (app *App) newNotifier(output *Output) notify.Notifier {
	mn := notify.NewMultiNotifier(&app.Config.Notifications)
	mn.AddChannel(notify.NewTerminalChannel(output.writer))
	return mn
}

// loadFavorites loads the persisted favorites registry.
func (app *App) loadFavorites(ctx context.Context) (*favorites.Registry, error) {
	if app.Store == nil {
		return nil, apperrors.ErrStoreClosed
	}
	return favorites.Load(ctx, app.Store, app.Logger)
}

// fetchSnapshot fetches a fresh snapshot, falling back to the offline cache
// when the fetch fails. The second return value reports whether the result
// is stale cached data. A fresh snapshot is cached best-effort.
func (app *App) fetchSnapshot(ctx context.Context) (*models.Snapshot, bool, error) {
	snapshot, err := app.Client.FetchSnapshot(ctx)
	if err == nil {
		app.Snapshots.Install(snapshot)
		if app.Store != nil {
			if cerr := app.Store.SaveSnapshot(ctx, snapshot); cerr != nil {
				app.Logger.Debug().Err(cerr).Msg("Failed to cache snapshot")
			}
		}
		return snapshot, false, nil
	}

	if app.Store != nil {
		cached, cerr := app.Store.LoadSnapshot(ctx)
		if cerr == nil {
			app.Logger.Warn().Err(err).Msg("Fetch failed, serving cached snapshot")
			app.Snapshots.InstallCached(cached)
			return cached, true, nil
		}
	}

	return nil, false, err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
				return
			}
			output.Printf("coinwatch %s\n", Version)
		},
	}
}
