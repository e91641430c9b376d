// Package notify provides user-visible notification delivery.
package notify

import (
	"context"
	"sync"
	"time"

	"coinwatch/internal/config"
	"coinwatch/internal/models"
)

// Notifier defines the interface for sending notifications. Delivery is
// fire-and-forget: best-effort display, no delivery guarantee.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	SendAlert(ctx context.Context, fired models.FiredAlert) error
	SendFetchError(ctx context.Context, err error) error
	SendInfo(ctx context.Context, title, message string) error
}

// Channel defines the interface for a notification channel.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notification represents a notification message.
type Notification struct {
	Type      Type
	Title     string
	Message   string
	Data      map[string]interface{}
	Timestamp time.Time
}

// Type represents the type of notification.
type Type string

const (
	TypeAlert Type = "alert"
	TypeError Type = "error"
	TypeInfo  Type = "info"
)

// Level represents the notification level filter.
type Level string

const (
	LevelAll        Level = "all"
	LevelAlertsOnly Level = "alerts_only"
	LevelErrorsOnly Level = "errors_only"
)

// MultiNotifier sends notifications to multiple channels.
type MultiNotifier struct {
	channels []Channel
	level    Level
	mu       sync.RWMutex
}

// NewMultiNotifier creates a MultiNotifier from configuration. The terminal
// channel is added by the caller; config only controls optional channels.
func NewMultiNotifier(cfg *config.NotificationConfig) *MultiNotifier {
	mn := &MultiNotifier{
		channels: make([]Channel, 0),
		level:    Level(cfg.Level),
	}

	if mn.level == "" {
		mn.level = LevelAll
	}

	if cfg.Webhook.Enabled {
		mn.channels = append(mn.channels, NewWebhookChannel(cfg.Webhook))
	}

	return mn
}

// AddChannel adds a notification channel.
func (mn *MultiNotifier) AddChannel(ch Channel) {
	mn.mu.Lock()
	defer mn.mu.Unlock()
	mn.channels = append(mn.channels, ch)
}

// shouldSend checks if a notification passes the level filter.
func (mn *MultiNotifier) shouldSend(t Type) bool {
	switch mn.level {
	case LevelAlertsOnly:
		return t == TypeAlert
	case LevelErrorsOnly:
		return t == TypeError
	default:
		return true
	}
}

// Send sends a notification to all enabled channels. Channel failures are
// swallowed; the last error is returned for logging only.
func (mn *MultiNotifier) Send(ctx context.Context, n Notification) error {
	if !mn.shouldSend(n.Type) {
		return nil
	}

	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	mn.mu.RLock()
	channels := mn.channels
	mn.mu.RUnlock()

	var lastErr error
	for _, ch := range channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, n); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// SendAlert sends a fired-alert notification.
func (mn *MultiNotifier) SendAlert(ctx context.Context, fired models.FiredAlert) error {
	return mn.Send(ctx, Notification{
		Type:    TypeAlert,
		Title:   "Price alert",
		Message: FormatFiredAlert(fired),
		Data: map[string]interface{}{
			"alert_id":  fired.Alert.ID,
			"asset_id":  fired.Alert.AssetID,
			"direction": string(fired.Alert.Direction),
			"threshold": fired.Alert.Threshold,
			"price":     fired.Price,
		},
		Timestamp: fired.FiredAt,
	})
}

// SendFetchError sends a fetch-failure notification.
func (mn *MultiNotifier) SendFetchError(ctx context.Context, err error) error {
	return mn.Send(ctx, Notification{
		Type:    TypeError,
		Title:   "Fetch failed",
		Message: "Could not refresh market data; showing last known prices. " + err.Error(),
	})
}

// SendInfo sends an informational notification.
func (mn *MultiNotifier) SendInfo(ctx context.Context, title, message string) error {
	return mn.Send(ctx, Notification{
		Type:    TypeInfo,
		Title:   title,
		Message: message,
	})
}
