package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"coinwatch/internal/models"
)

// TerminalChannel prints notifications to a terminal writer.
type TerminalChannel struct {
	writer  io.Writer
	mu      sync.Mutex
	enabled bool
}

// NewTerminalChannel creates a terminal notification channel.
func NewTerminalChannel(w io.Writer) *TerminalChannel {
	return &TerminalChannel{
		writer:  w,
		enabled: true,
	}
}

// Name returns the channel name.
func (t *TerminalChannel) Name() string {
	return "terminal"
}

// IsEnabled reports whether the channel is enabled.
func (t *TerminalChannel) IsEnabled() bool {
	return t.enabled
}

// SetEnabled enables or disables the channel.
func (t *TerminalChannel) SetEnabled(enabled bool) {
	t.enabled = enabled
}

// Send prints the notification. Alert and error notifications ring the
// terminal bell so they are noticed in a long-running watch session.
func (t *TerminalChannel) Send(_ context.Context, n Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var tag string
	switch n.Type {
	case TypeAlert:
		tag = color.New(color.FgYellow, color.Bold).Sprint("⚑ ALERT")
	case TypeError:
		tag = color.New(color.FgRed, color.Bold).Sprint("✗ ERROR")
	default:
		tag = color.New(color.FgCyan).Sprint("ℹ INFO")
	}

	bell := ""
	if n.Type == TypeAlert || n.Type == TypeError {
		bell = "\a"
	}

	_, err := fmt.Fprintf(t.writer, "%s%s  %s  %s\n",
		bell, n.Timestamp.Format("15:04:05"), tag, n.Message)
	return err
}

// FormatFiredAlert renders a fired alert as a single human-readable line.
func FormatFiredAlert(fired models.FiredAlert) string {
	return fmt.Sprintf("%s (%s) is %s %s — current price %s",
		fired.AssetName,
		strings.ToUpper(fired.Symbol),
		fired.Alert.Direction,
		formatPrice(fired.Alert.Threshold),
		formatPrice(fired.Price),
	)
}

func formatPrice(v float64) string {
	if v >= 1 {
		return fmt.Sprintf("$%.2f", v)
	}
	return fmt.Sprintf("$%.6f", v)
}
