package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# coinwatch Configuration

[market]
# Base URL of the market data API
base_url = "https://api.coingecko.com/api/v3"
# Fiat currency for prices
currency = "usd"
# Number of assets to fetch per poll (max 250)
per_page = 250
# Poll interval for watch mode
poll_interval = "1m"
# HTTP timeout for a single request
http_timeout = "15s"

[display]
# Number of assets visible before "show more"
default_visible = 2
# How many assets each "show more" adds
page_step = 10
# Enable colored output
color_enabled = true
# Width of the 7-day sparkline in characters
sparkline_width = 48

[notifications]
# Enable notifications
enabled = true
# Notification level: all, alerts_only, errors_only
level = "all"

[notifications.webhook]
# POST fired alerts to a webhook (e.g. Slack/Discord)
enabled = false
url = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
# Also write logs to a rotating file under the config dir
file = true
`

// writeTemplateConfig writes the default config template to the config dir.
// Existing files are never overwritten.
func writeTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
