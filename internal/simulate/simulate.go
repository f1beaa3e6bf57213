// Package simulate generates random trade histories for demonstrating the
// exchange. All randomness comes from an injected source so runs are
// reproducible from a seed.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"simple-stocks/internal/exchange"
	"simple-stocks/internal/logging"
	"simple-stocks/internal/models"
)

// Params controls trade generation. Ages are whole minutes before now.
type Params struct {
	MinTrades      int     `mapstructure:"min_trades"`
	MaxTrades      int     `mapstructure:"max_trades"`
	MinAge         int     `mapstructure:"min_age"`
	MaxAge         int     `mapstructure:"max_age"`
	PriceVariation float64 `mapstructure:"price_variation"`
	MinQuantity    int64   `mapstructure:"min_quantity"`
	MaxQuantity    int64   `mapstructure:"max_quantity"`
}

// DefaultParams returns 6-12 trades per stock aged 1-45 minutes, prices
// within 50% of the current price and quantities of 20-120 shares.
func DefaultParams() Params {
	return Params{
		MinTrades:      6,
		MaxTrades:      12,
		MinAge:         1,
		MaxAge:         45,
		PriceVariation: 0.5,
		MinQuantity:    20,
		MaxQuantity:    120,
	}
}

// Validate checks that every range is well formed.
func (p Params) Validate() error {
	if p.MinTrades < 0 || p.MaxTrades < p.MinTrades {
		return fmt.Errorf("trade count range [%d, %d] is invalid", p.MinTrades, p.MaxTrades)
	}
	if p.MinAge < 0 || p.MaxAge < p.MinAge {
		return fmt.Errorf("age range [%d, %d] is invalid", p.MinAge, p.MaxAge)
	}
	if p.PriceVariation < 0 || p.PriceVariation > 1 {
		return fmt.Errorf("price_variation must be between 0 and 1")
	}
	if p.MinQuantity < 1 || p.MaxQuantity < p.MinQuantity {
		return fmt.Errorf("quantity range [%d, %d] is invalid", p.MinQuantity, p.MaxQuantity)
	}
	return nil
}

// Generator produces random trades for one symbol. It is not safe for
// concurrent use; give each goroutine its own.
type Generator struct {
	params Params
	rng    *rand.Rand
	now    time.Time
}

// NewGenerator creates a generator that stamps trades relative to now.
func NewGenerator(params Params, rng *rand.Rand, now time.Time) *Generator {
	return &Generator{params: params, rng: rng, now: now}
}

// Ages returns a random number of trade ages, sorted youngest first.
func (g *Generator) Ages() []time.Duration {
	n := g.intBetween(g.params.MinTrades, g.params.MaxTrades)
	ages := make([]time.Duration, n)
	for i := range ages {
		ages[i] = time.Duration(g.intBetween(g.params.MinAge, g.params.MaxAge)) * time.Minute
	}
	sort.Slice(ages, func(i, j int) bool { return ages[i] < ages[j] })
	return ages
}

// Trade returns a trade executed age before now, priced within the
// configured variation of price (truncated to whole pennies).
func (g *Generator) Trade(symbol string, age time.Duration, price int64) models.Trade {
	v := g.params.PriceVariation
	factor := g.rng.Float64()*2*v - v
	tradePrice := price + int64(float64(price)*factor)

	qty := g.params.MinQuantity + g.rng.Int63n(g.params.MaxQuantity-g.params.MinQuantity+1)

	dir := models.DirectionBuy
	if g.rng.Float64() >= 0.5 {
		dir = models.DirectionSell
	}
	return models.NewTrade(symbol, g.now.Add(-age), qty, dir, tradePrice)
}

// History returns a full random trade history for symbol around price.
func (g *Generator) History(symbol string, price int64) []models.Trade {
	ages := g.Ages()
	trades := make([]models.Trade, 0, len(ages))
	for _, age := range ages {
		trades = append(trades, g.Trade(symbol, age, price))
	}
	return trades
}

func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// Populate records a random history on every stock of ex. Symbols are
// processed concurrently; the generator for the i-th symbol is seeded with
// seed+i so the result does not depend on scheduling. It returns the number
// of trades recorded per symbol.
func Populate(ctx context.Context, ex *exchange.Exchange, params Params, seed int64, now time.Time, logger zerolog.Logger) (map[string]int, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation params: %w", err)
	}

	logger = logging.WithOperation(logger, "simulate")
	symbols := ex.Symbols()
	counts := make([]int, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			stock, ok := ex.GetStock(symbol)
			if !ok {
				return nil
			}
			gen := NewGenerator(params, rand.New(rand.NewSource(seed+int64(i))), now)
			for _, trade := range gen.History(symbol, int64(stock.Price())) {
				if err := ctx.Err(); err != nil {
					return err
				}
				ex.RecordTrade(symbol, trade)
				counts[i]++
			}
			symLogger := logging.WithSymbol(logger, symbol)
			symLogger.Debug().
				Int("trades", counts[i]).
				Float64("price", stock.Price()).
				Msg("Simulated trade history")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]int, len(symbols))
	for i, symbol := range symbols {
		out[symbol] = counts[i]
	}
	return out, nil
}
