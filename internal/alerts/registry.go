// Package alerts provides the price alert registry and evaluator.
package alerts

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "coinwatch/internal/errors"
	"coinwatch/internal/models"
)

// Registry holds the active price alerts for the lifetime of the process.
// Alerts are not persisted; a fired alert is gone for good.
type Registry struct {
	mu     sync.RWMutex
	alerts []models.Alert // creation order
}

// NewRegistry creates an empty alert registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add validates and registers a new alert. The registry is not mutated when
// validation fails. Multiple alerts may target the same asset.
func (r *Registry) Add(assetID string, threshold float64, direction models.Direction) (models.Alert, error) {
	if assetID == "" {
		return models.Alert{}, apperrors.NewValidationError("assetId", assetID, "must not be empty")
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return models.Alert{}, apperrors.NewValidationError("threshold", threshold, "must be a number")
	}
	if threshold <= 0 {
		return models.Alert{}, apperrors.NewValidationError("threshold", threshold, "must be positive")
	}
	if direction != models.DirectionAbove && direction != models.DirectionBelow {
		return models.Alert{}, apperrors.NewValidationError("direction", string(direction), "must be above or below")
	}

	alert := models.Alert{
		ID:        uuid.NewString(),
		AssetID:   assetID,
		Threshold: threshold,
		Direction: direction,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return alert, nil
}

// Remove deletes an alert by ID. Removing an unknown ID is a no-op.
func (r *Registry) Remove(alertID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == alertID {
			r.alerts = append(r.alerts[:i], r.alerts[i+1:]...)
			return
		}
	}
}

// ListFor returns all alerts targeting the given asset, in creation order.
func (r *Registry) ListFor(assetID string) []models.Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Alert
	for _, a := range r.alerts {
		if a.AssetID == assetID {
			out = append(out, a)
		}
	}
	return out
}

// List returns all alerts in creation order.
func (r *Registry) List() []models.Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Alert, len(r.alerts))
	copy(out, r.alerts)
	return out
}

// Len returns the number of active alerts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.alerts)
}
