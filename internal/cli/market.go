package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"simple-stocks/internal/dataset"
	"simple-stocks/internal/errors"
	"simple-stocks/pkg/utils"
)

// addMarketCommands adds the commands that simulate and report on a market.
func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newDemoCmd(app))
	rootCmd.AddCommand(newStocksCmd(app))
	rootCmd.AddCommand(newIndexCmd(app))
	rootCmd.AddCommand(newQuoteCmd(app))
}

func newDemoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Simulate a trading session and report all metrics",
		Long: `Registers the configured stocks, records a random trade history for each
one and prints every stock with its trades, ratios and the All Share Index.

The same --seed always produces the same trades relative to the current time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetInt64("seed")
			hideTrades, _ := cmd.Flags().GetBool("no-trades")

			ex, seed, err := app.buildExchange(cmd.Context(), seed, cmd.Flags().Changed("seed"))
			if err != nil {
				return err
			}
			report := newMarketReport(ex, app.Clock.Now(), seed, app.Config.Exchange.Window, !hideTrades)

			output := app.output(cmd)
			if output.IsJSON() {
				return output.JSON(report)
			}

			output.Bold("*** Simple stocks ***")
			output.Printf("** Created stocks: %s\n", strings.Join(ex.Symbols(), ", "))
			output.Dim("Seed %d, trade window %s", seed, report.Window)
			output.Println()

			if !hideTrades {
				for _, s := range report.Stocks {
					printStockHistory(output, app, s)
				}
			}

			printMetricsTable(output, report.Stocks)
			output.Println()
			printIndex(output, report.AllShareIndex)
			return nil
		},
	}
	cmd.Flags().Int64("seed", 0, "random seed for trade generation (default: config seed, else the clock)")
	cmd.Flags().Bool("no-trades", false, "omit per-stock trade histories")
	return cmd
}

func newStocksCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stocks",
		Short: "List the stocks that will be registered",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := app.Config.Stocks
			if len(defs) == 0 {
				defs = dataset.GBCE()
			}
			defs, err := dataset.NewValidator().ValidateAll(defs)
			if err != nil {
				return err
			}

			output := app.output(cmd)
			if output.IsJSON() {
				return output.JSON(defs)
			}

			table := NewTable(output, "Symbol", "Type", "Last Dividend", "Fixed Dividend", "Par Value", "Initial Price").
				AlignRight(2, 3, 4, 5)
			for _, d := range defs {
				fixed := ""
				if d.IsPreferred() {
					fixed = utils.FormatPercent(d.FixedDividend * 100)
				}
				table.AddRow(
					d.Symbol,
					d.Kind.String(),
					fmt.Sprintf("%d", d.LastDividend),
					fixed,
					fmt.Sprintf("%d", d.ParValue),
					fmt.Sprintf("%d", d.InitialPrice),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newIndexCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Simulate a trading session and print the All Share Index",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetInt64("seed")
			ex, seed, err := app.buildExchange(cmd.Context(), seed, cmd.Flags().Changed("seed"))
			if err != nil {
				return err
			}

			idx, err := ex.AllShareIndex()
			if err != nil {
				return err
			}

			output := app.output(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"seed":            seed,
					"stocks":          ex.Len(),
					"all_share_index": idx,
				})
			}
			printIndex(output, &idx)
			return nil
		},
	}
	cmd.Flags().Int64("seed", 0, "random seed for trade generation (default: config seed, else the clock)")
	return cmd
}

func newQuoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Simulate a trading session and show one stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(args[0])
			seed, _ := cmd.Flags().GetInt64("seed")

			ex, _, err := app.buildExchange(cmd.Context(), seed, cmd.Flags().Changed("seed"))
			if err != nil {
				return err
			}
			stock, ok := ex.GetStock(symbol)
			if !ok {
				return errors.Wrapf(errors.ErrSymbolNotFound, "%s", symbol)
			}

			report := newStockReport(stock, true)
			output := app.output(cmd)
			if output.IsJSON() {
				return output.JSON(report)
			}
			printStockHistory(output, app, report)
			printMetricsTable(output, []StockReport{report})
			return nil
		},
	}
	cmd.Flags().Int64("seed", 0, "random seed for trade generation (default: config seed, else the clock)")
	return cmd
}

func printStockHistory(output *Output, app *App, s StockReport) {
	output.Bold("** Stock (%s) - %s", s.Kind, s.Symbol)
	output.Printf("   Current price: %s, Last dividend: %d, Par value: %d, Number of trades: %d\n",
		utils.FormatPrice(s.Price), s.LastDividend, s.ParValue, s.TradeCount)
	for _, t := range s.Trades {
		side := "Purchase"
		if t.IsSale() {
			side = "Sale"
		}
		output.Printf("   * %s  %-8s qty %4d @ %dp\n",
			t.Timestamp.Format(app.Config.UI.TimeFormat), side, t.Quantity, t.Price)
	}
	output.Println()
}

func printMetricsTable(output *Output, stocks []StockReport) {
	table := NewTable(output, "Symbol", "Type", "Price", "Change", "Value", "Dividend Yield", "P/E", "Trades").
		AlignRight(2, 3, 4, 5, 6, 7)
	for _, s := range stocks {
		change := "n/a"
		if pct, ok := s.Change(); ok {
			change = output.Change(pct, utils.FormatPercent(pct))
		}
		table.AddRow(
			s.Symbol,
			s.Kind,
			utils.FormatPrice(s.Price),
			change,
			utils.FormatPennies(s.Price),
			formatOptionalRatio(s.DividendYield),
			formatOptionalRatio(s.PERatio),
			utils.FormatQuantity(int64(s.TradeCount)),
		)
	}
	table.Render()
}

func printIndex(output *Output, idx *float64) {
	if idx == nil {
		output.Warning("** GBCE All Share Index: n/a (no stocks registered)")
		return
	}
	output.Success("** GBCE All Share Index: %s", utils.FormatRatio(*idx))
}
