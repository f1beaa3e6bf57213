// Package config provides configuration management for the exchange CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"simple-stocks/internal/errors"
	"simple-stocks/internal/logging"
	"simple-stocks/internal/models"
	"simple-stocks/internal/simulate"
)

// Config holds all application configuration.
type Config struct {
	Exchange   ExchangeConfig           `mapstructure:"exchange"`
	Simulation SimulationConfig         `mapstructure:"simulation"`
	Logging    LoggingConfig            `mapstructure:"logging"`
	UI         UIConfig                 `mapstructure:"ui"`
	Stocks     []models.StockDefinition `mapstructure:"stocks"`
}

// ExchangeConfig holds engine configuration.
type ExchangeConfig struct {
	Window time.Duration `mapstructure:"window"`
}

// SimulationConfig holds random trade generation settings.
type SimulationConfig struct {
	Seed            int64 `mapstructure:"seed"` // 0 means seed from the clock
	simulate.Params `mapstructure:",squash"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// UIConfig holds output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	TimeFormat   string `mapstructure:"time_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/simple-stocks"
	}
	return filepath.Join(home, ".config", "simple-stocks")
}

// Default returns the configuration used when no file overrides it.
// Stocks is left empty; callers fall back to the GBCE sample data.
func Default() *Config {
	logCfg := logging.DefaultLogConfig()
	return &Config{
		Exchange: ExchangeConfig{Window: 15 * time.Minute},
		Simulation: SimulationConfig{
			Params: simulate.DefaultParams(),
		},
		Logging: LoggingConfig{
			Level:    logCfg.Level,
			File:     logCfg.File,
			FilePath: logCfg.FilePath,
		},
		UI: UIConfig{
			ColorEnabled: true,
			TimeFormat:   "15:04:05",
		},
	}
}

// Load loads configuration from config.toml in configDir. If configDir is
// empty the default directory is used. A missing file is replaced by the
// commented template and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := newViper(configDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func newViper(configDir string) *viper.Viper {
	def := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("exchange.window", def.Exchange.Window)
	v.SetDefault("simulation.seed", def.Simulation.Seed)
	v.SetDefault("simulation.min_trades", def.Simulation.MinTrades)
	v.SetDefault("simulation.max_trades", def.Simulation.MaxTrades)
	v.SetDefault("simulation.min_age", def.Simulation.MinAge)
	v.SetDefault("simulation.max_age", def.Simulation.MaxAge)
	v.SetDefault("simulation.price_variation", def.Simulation.PriceVariation)
	v.SetDefault("simulation.min_quantity", def.Simulation.MinQuantity)
	v.SetDefault("simulation.max_quantity", def.Simulation.MaxQuantity)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.file_path", def.Logging.FilePath)
	v.SetDefault("ui.color_enabled", def.UI.ColorEnabled)
	v.SetDefault("ui.time_format", def.UI.TimeFormat)
	return v
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SIMPLE_STOCKS_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Exchange.Window = d
		}
	}
	if v := os.Getenv("SIMPLE_STOCKS_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Simulation.Seed = seed
		}
	}
	if v := os.Getenv("SIMPLE_STOCKS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Exchange.Window <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "exchange.window must be positive, got %s", c.Exchange.Window)
	}
	if err := c.Simulation.Params.Validate(); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalid, "simulation: %v", err)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Wrapf(errors.ErrConfigInvalid, "invalid log level: %s", c.Logging.Level)
	}
	return nil
}

// LogConfig converts the logging section into a logging.LogConfig.
func (c *Config) LogConfig() logging.LogConfig {
	lc := logging.DefaultLogConfig()
	lc.Level = c.Logging.Level
	lc.File = c.Logging.File
	if c.Logging.FilePath != "" {
		lc.FilePath = c.Logging.FilePath
	}
	return lc
}
