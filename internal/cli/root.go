// Package cli provides the command-line interface for the stock exchange.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"simple-stocks/internal/config"
	"simple-stocks/internal/exchange"
	"simple-stocks/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-03-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Clock  exchange.Clock
}

// NewRootCmd creates the root command for the CLI. Configuration is loaded
// before any subcommand runs, from --config or the default directory. A
// non-nil clock replaces the wall clock, which keeps tests deterministic.
func NewRootCmd(clock exchange.Clock) *cobra.Command {
	if clock == nil {
		clock = exchange.SystemClock{}
	}
	app := &App{
		Config: config.Default(),
		Logger: zerolog.Nop(),
		Clock:  clock,
	}

	rootCmd := &cobra.Command{
		Use:   "simple-stocks",
		Short: "Super simple stock exchange",
		Long: `Simple Stocks tracks a set of stocks, records trades against them and
derives a ticker price from the last 15 minutes of trading.

It reports the dividend yield and P/E ratio of every stock and the
All Share Index (geometric mean of all ticker prices).

Use 'simple-stocks demo' to simulate a market from the GBCE sample data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			app.Config = cfg

			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Logging.Level = "debug"
			}
			app.Logger = logging.NewLoggerWithConfig(cfg.LogConfig())
			cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/simple-stocks)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	addMarketCommands(rootCmd, app)

	return rootCmd
}

func (a *App) output(cmd *cobra.Command) *Output {
	return NewOutput(cmd, a.Config.UI.ColorEnabled)
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("Simple Stocks v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			dir, _ := cmd.Flags().GetString("config")
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": dir})
			}
			output.Println(dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Exchange")
	output.Printf("  Trade window:    %s\n", cfg.Exchange.Window)
	output.Println()

	output.Bold("Simulation")
	output.Printf("  Seed:            %d\n", cfg.Simulation.Seed)
	output.Printf("  Trades/stock:    %d-%d\n", cfg.Simulation.MinTrades, cfg.Simulation.MaxTrades)
	output.Printf("  Trade age (min): %d-%d\n", cfg.Simulation.MinAge, cfg.Simulation.MaxAge)
	output.Printf("  Price variation: %.0f%%\n", cfg.Simulation.PriceVariation*100)
	output.Printf("  Quantity:        %d-%d\n", cfg.Simulation.MinQuantity, cfg.Simulation.MaxQuantity)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v\n", cfg.Logging.File)
	output.Println()

	output.Bold("Stocks")
	if len(cfg.Stocks) == 0 {
		output.Printf("  GBCE sample data\n")
		return
	}
	for _, s := range cfg.Stocks {
		output.Printf("  %s\n", s.Symbol)
	}
}
