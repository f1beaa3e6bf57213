package cli

import (
	"context"
	"time"

	"simple-stocks/internal/dataset"
	"simple-stocks/internal/errors"
	"simple-stocks/internal/exchange"
	"simple-stocks/internal/logging"
	"simple-stocks/internal/models"
	"simple-stocks/internal/simulate"
	"simple-stocks/pkg/utils"
)

// StockReport is the presentation of one stock's metrics. Ratios that
// cannot be computed are nil.
type StockReport struct {
	Symbol        string         `json:"symbol"`
	Kind          string         `json:"kind"`
	ParValue      int64          `json:"par_value"`
	LastDividend  int64          `json:"last_dividend"`
	FixedDividend float64        `json:"fixed_dividend"`
	InitialPrice  int64          `json:"initial_price"`
	Price         float64        `json:"price"`
	DividendYield *float64       `json:"dividend_yield"`
	PERatio       *float64       `json:"pe_ratio"`
	TradeCount    int            `json:"trade_count"`
	Trades        []models.Trade `json:"trades,omitempty"`
}

// MarketReport is the presentation of the whole exchange.
type MarketReport struct {
	GeneratedAt   time.Time     `json:"generated_at"`
	Seed          int64         `json:"seed"`
	Window        string        `json:"window"`
	Stocks        []StockReport `json:"stocks"`
	AllShareIndex *float64      `json:"all_share_index"`
}

// buildExchange creates an exchange seeded with the configured stocks (or
// the GBCE sample data) and a simulated trade history. An explicit seed
// (seedSet, from --seed) is used as given, including 0; otherwise the
// configured seed applies, and a configured 0 seeds from the clock. It
// returns the seed that was used.
func (a *App) buildExchange(ctx context.Context, seed int64, seedSet bool) (*exchange.Exchange, int64, error) {
	defs := a.Config.Stocks
	if len(defs) == 0 {
		defs = dataset.GBCE()
	}
	logger := logging.FromContext(ctx)

	defs, err := dataset.NewValidator().ValidateAll(defs)
	if err != nil {
		return nil, 0, errors.Wrap(err, "loading stocks")
	}

	ex := exchange.New(exchange.Config{
		Clock:  a.Clock,
		Window: a.Config.Exchange.Window,
		Logger: logger,
	})
	dataset.Seed(ex, defs, logger)

	if !seedSet {
		seed = a.Config.Simulation.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
	}

	counts, err := simulate.Populate(ctx, ex, a.Config.Simulation.Params, seed, a.Clock.Now(), logger)
	if err != nil {
		return nil, 0, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	logger.Info().Int64("seed", seed).Int("stocks", ex.Len()).Int("trades", total).Msg("Simulated market")

	return ex, seed, nil
}

func newStockReport(s *exchange.Stock, withTrades bool) StockReport {
	r := StockReport{
		Symbol:        s.Symbol(),
		Kind:          s.Kind().String(),
		ParValue:      s.ParValue(),
		LastDividend:  s.LastDividend(),
		FixedDividend: s.FixedDividend(),
		InitialPrice:  s.Definition().InitialPrice,
		Price:         s.Price(),
		TradeCount:    s.TradeCount(),
	}
	if y, err := s.DividendYield(); err == nil {
		r.DividendYield = &y
	}
	if pe, err := s.PERatio(); err == nil {
		r.PERatio = &pe
	}
	if withTrades {
		r.Trades = s.Trades()
	}
	return r
}

func newMarketReport(ex *exchange.Exchange, now time.Time, seed int64, window time.Duration, withTrades bool) MarketReport {
	report := MarketReport{
		GeneratedAt: now,
		Seed:        seed,
		Window:      window.String(),
	}
	for _, sym := range ex.Symbols() {
		if s, ok := ex.GetStock(sym); ok {
			report.Stocks = append(report.Stocks, newStockReport(s, withTrades))
		}
	}
	if idx, err := ex.AllShareIndex(); err == nil {
		report.AllShareIndex = &idx
	}
	return report
}

// Change returns the relative move from the initial price in percent, or
// false when the initial price is zero.
func (r StockReport) Change() (float64, bool) {
	if r.InitialPrice == 0 {
		return 0, false
	}
	initial := float64(r.InitialPrice)
	return (r.Price - initial) / initial * 100, true
}

func formatOptionalRatio(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return utils.FormatRatio(*v)
}
