package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "coinwatch/internal/errors"
	"coinwatch/internal/models"
)

func newShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <asset>",
		Short: "Show an expanded asset card with a 7-day chart",
		Long: `Show the full detail card for one asset: price, 24h range, market cap,
volume, and a 7-day sparkline chart.

The asset may be given by its ID ("bitcoin") or symbol ("btc").`,
		Example: `  coinwatch show bitcoin
  coinwatch show eth`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			snapshot, stale, err := app.fetchSnapshot(ctx)
			if err != nil {
				output.Error("Failed to fetch market data: %v", err)
				return err
			}

			rec, ok := findAsset(snapshot, args[0])
			if !ok {
				output.Error("Asset %q not found in the current snapshot", args[0])
				return apperrors.ErrAssetNotFound
			}

			if output.IsJSON() {
				return output.JSON(rec)
			}

			if stale {
				output.Warning("⚠ offline: showing cached data from %s", snapshot.FetchedAt.Format(time.RFC822))
			}
			renderAssetCard(app, output, rec)
			return nil
		},
	}
	return cmd
}

// findAsset locates a record by asset ID first, then by symbol.
func findAsset(snapshot *models.Snapshot, key string) (models.AssetRecord, bool) {
	if rec, ok := snapshot.Find(strings.ToLower(key)); ok {
		return rec, true
	}
	lowered := strings.ToLower(key)
	for _, rec := range snapshot.Records {
		if strings.ToLower(rec.Symbol) == lowered {
			return rec, true
		}
	}
	return models.AssetRecord{}, false
}

func renderAssetCard(app *App, output *Output, rec models.AssetRecord) {
	output.Bold("%s (%s)", rec.Name, strings.ToUpper(rec.Symbol))
	output.Println()

	output.Printf("  Price      %s  %s\n", FormatUSD(rec.CurrentPrice), output.FormatChange(rec.ChangePercent24h))
	output.Printf("  24h Range  %s – %s\n", FormatUSD(rec.Low24h), FormatUSD(rec.High24h))
	output.Printf("  Mkt Cap    %s\n", FormatCompact(rec.MarketCap))
	output.Printf("  Volume     %s\n", FormatCompact(rec.Volume24h))

	if rec.Sparkline7d != nil && len(rec.Sparkline7d.Price) > 0 {
		output.Println()
		output.Dim("  7-day trend")
		line := ColoredSparkline(rec.Sparkline7d.Price, app.Config.Display.SparklineWidth, output.colorEnabled)
		output.Printf("  %s\n", line)
	}

	if alerts := app.Alerts.ListFor(rec.ID); len(alerts) > 0 {
		output.Println()
		output.Dim("  Active alerts")
		for _, a := range alerts {
			output.Printf("  • %s %s %s\n", a.ID[:8], a.Direction, FormatUSD(a.Threshold))
		}
	}
}
