package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Simple Stocks Configuration

[exchange]
# Lookback used to derive the ticker price from recent trades
window = "15m"

[simulation]
# Random seed for demo trades; 0 seeds from the clock
seed = 0
# Number of trades generated per stock
min_trades = 6
max_trades = 12
# Trade age range in minutes before now
min_age = 1
max_age = 45
# Maximum relative deviation of a trade price from the current price
price_variation = 0.5
# Shares per trade
min_quantity = 20
max_quantity = 120

[logging]
# debug, info, warn, error
level = "info"
# Write a rotated log file in addition to the console
file = false

[ui]
color_enabled = true
time_format = "15:04:05"

# Stocks to register. When none are listed the GBCE sample data is used.
# Prices, par values and dividends are in pennies.
#
# [[stocks]]
# symbol = "TEA"
# initial_price = 120
# kind = "COMMON"
# par_value = 100
# last_dividend = 0
#
# [[stocks]]
# symbol = "GIN"
# initial_price = 190
# kind = "PREFERRED"
# par_value = 100
# last_dividend = 8
# fixed_dividend = 0.02
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
