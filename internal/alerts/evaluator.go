package alerts

import (
	"time"

	"coinwatch/internal/models"
)

// Evaluate checks every registered alert against the snapshot and returns
// the alerts that fired, in registry (creation) order.
//
// An alert whose asset is absent from the snapshot is left untouched: an
// asset temporarily missing from the feed is not a failure. Satisfied alerts
// use strict inequality both ways (equality never fires), are removed from
// the registry (fire-once), and each produces exactly one event. Evaluation
// has no memory of past snapshots: an alert created after its threshold was
// already crossed fires on the next pass, not immediately.
func Evaluate(snapshot *models.Snapshot, registry *Registry) []models.FiredAlert {
	if snapshot == nil || registry == nil {
		return nil
	}

	var fired []models.FiredAlert
	now := time.Now()

	for _, alert := range registry.List() {
		record, ok := snapshot.Find(alert.AssetID)
		if !ok {
			continue
		}
		if !satisfied(alert, record.CurrentPrice) {
			continue
		}

		registry.Remove(alert.ID)
		fired = append(fired, models.FiredAlert{
			Alert:     alert,
			AssetName: record.Name,
			Symbol:    record.Symbol,
			Price:     record.CurrentPrice,
			FiredAt:   now,
		})
	}

	return fired
}

func satisfied(alert models.Alert, price float64) bool {
	switch alert.Direction {
	case models.DirectionAbove:
		return price > alert.Threshold
	case models.DirectionBelow:
		return price < alert.Threshold
	}
	return false
}
