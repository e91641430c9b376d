package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"coinwatch/internal/alerts"
	apperrors "coinwatch/internal/errors"
	"coinwatch/internal/models"
)

func newAlertCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Price alert tools",
		Long: `Evaluate price alerts against a fresh snapshot.

Alerts are session-scoped and fire at most once. For a long-running
dashboard with recurring evaluation, arm alerts on 'coinwatch watch'
instead; 'alert check' does a single evaluation pass, which suits
scripting and cron.`,
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate alert specs against a fresh snapshot once",
		Example: `  coinwatch alert check --alert bitcoin:above:40000
  coinwatch alert check -a ethereum:below:2000 -a solana:above:300 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			specs, _ := cmd.Flags().GetStringArray("alert")
			if len(specs) == 0 {
				output.Error("No alerts given. Use --alert <asset>:<above|below>:<price>.")
				return fmt.Errorf("no alerts given")
			}

			registry := alerts.NewRegistry()
			for _, spec := range specs {
				assetID, direction, threshold, err := parseAlertSpec(spec)
				if err != nil {
					output.Error("Invalid alert %q: %v", spec, err)
					return err
				}
				if _, err := registry.Add(assetID, threshold, direction); err != nil {
					output.Error("Invalid alert %q: %v", spec, err)
					return err
				}
			}

			// Alerts are only ever evaluated against a live fetch. The
			// offline cache backs list/show rendering, never alert
			// correctness, so a failed fetch fails the check outright.
			snapshot, err := app.Client.FetchSnapshot(ctx)
			if err != nil {
				output.Error("Failed to fetch market data: %v", err)
				return err
			}
			app.Snapshots.Install(snapshot)

			fired := alerts.Evaluate(snapshot, registry)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"fired":     fired,
					"remaining": registry.List(),
				})
			}

			if len(fired) == 0 {
				output.Dim("No alerts fired.")
			}
			for _, f := range fired {
				output.Success("⚑ %s (%s) %s %s — current %s",
					f.AssetName, strings.ToUpper(f.Symbol), f.Alert.Direction,
					FormatUSD(f.Alert.Threshold), FormatUSD(f.Price))
			}
			for _, a := range registry.List() {
				rec, ok := snapshot.Find(a.AssetID)
				if !ok {
					output.Dim("… %s %s %s (asset missing from snapshot)", a.AssetID, a.Direction, FormatUSD(a.Threshold))
					continue
				}
				output.Printf("  %s %s %s — current %s\n",
					a.AssetID, a.Direction, FormatUSD(a.Threshold), FormatUSD(rec.CurrentPrice))
			}
			return nil
		},
	}
	checkCmd.Flags().StringArrayP("alert", "a", nil, "alert spec: <asset>:<above|below>:<price> (repeatable)")
	cmd.AddCommand(checkCmd)

	return cmd
}

// parseAlertSpec parses "<asset>:<above|below>:<price>".
func parseAlertSpec(spec string) (string, models.Direction, float64, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return "", "", 0, apperrors.NewValidationError("alert", spec, "expected <asset>:<above|below>:<price>")
	}

	assetID := strings.ToLower(strings.TrimSpace(parts[0]))
	direction, ok := models.ParseDirection(strings.ToLower(strings.TrimSpace(parts[1])))
	if !ok {
		return "", "", 0, apperrors.NewValidationError("direction", parts[1], "must be above or below")
	}

	threshold, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return "", "", 0, apperrors.NewValidationError("threshold", parts[2], "must be a number")
	}

	return assetID, direction, threshold, nil
}
