// Package exchange implements the trade-history engine: per-stock ledgers
// that derive a ticker price from recent trades, and the registry that owns
// them and computes the All Share Index.
//
// Exchange and Stock are safe for concurrent use.
package exchange

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"simple-stocks/internal/errors"
	"simple-stocks/internal/logging"
	"simple-stocks/internal/models"
)

// Config holds exchange configuration.
type Config struct {
	Clock  Clock          // nil means SystemClock
	Window time.Duration  // zero means DefaultTradeWindow
	Logger zerolog.Logger // zero value logs nothing
}

// Exchange owns the stock ledgers keyed by symbol.
type Exchange struct {
	clock  Clock
	window time.Duration
	logger zerolog.Logger

	mu      sync.RWMutex
	stocks  map[string]*Stock
	symbols []string // registration order
}

// New creates an empty exchange.
func New(cfg Config) *Exchange {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	window := cfg.Window
	if window <= 0 {
		window = DefaultTradeWindow
	}
	return &Exchange{
		clock:  clock,
		window: window,
		logger: cfg.Logger.With().Str("component", "exchange").Logger(),
		stocks: make(map[string]*Stock),
	}
}

// AddStock registers a stock if its symbol is not already present. Adding an
// existing symbol is a no-op and leaves the registered stock untouched. It
// reports whether a new stock was created.
func (e *Exchange) AddStock(def models.StockDefinition) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.stocks[def.Symbol]; ok {
		e.logger.Debug().Str("symbol", def.Symbol).Msg("Stock already registered, ignoring")
		return false
	}

	e.stocks[def.Symbol] = NewStock(def, e.clock, e.window)
	e.symbols = append(e.symbols, def.Symbol)
	e.logger.Debug().
		Str("symbol", def.Symbol).
		Str("kind", string(def.Kind)).
		Int64("initial_price", def.InitialPrice).
		Msg("Stock registered")
	return true
}

// RecordTrade records the trade on the stock registered under symbol.
// Trades for unknown symbols are dropped. It reports whether the trade was
// recorded.
func (e *Exchange) RecordTrade(symbol string, trade models.Trade) bool {
	stock, ok := e.GetStock(symbol)
	if !ok {
		e.logger.Debug().Str("symbol", symbol).Msg("Unknown symbol, trade dropped")
		return false
	}

	price := stock.RecordTrade(trade)
	logging.LogTrade(e.logger, symbol, string(trade.Direction), trade.Quantity, trade.Price)
	logging.LogPriceUpdate(e.logger, symbol, price)
	return true
}

// GetStock returns the stock registered under symbol.
func (e *Exchange) GetStock(symbol string) (*Stock, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.stocks[symbol]
	return s, ok
}

// Symbols returns the registered symbols in registration order.
func (e *Exchange) Symbols() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.symbols))
	copy(out, e.symbols)
	return out
}

// Len returns the number of registered stocks.
func (e *Exchange) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.stocks)
}

// AllShareIndex returns the geometric mean of the current prices of all
// registered stocks. It fails with ErrEmptyRegistry when no stock is
// registered.
func (e *Exchange) AllShareIndex() (float64, error) {
	e.mu.RLock()
	prices := make([]float64, 0, len(e.symbols))
	for _, sym := range e.symbols {
		prices = append(prices, e.stocks[sym].Price())
	}
	e.mu.RUnlock()

	index, err := GeometricMean(prices)
	if err != nil {
		return 0, errors.Wrap(err, "all share index")
	}
	logging.LogIndex(e.logger, len(prices), index)
	return index, nil
}

// minNormal is the smallest positive normal float64.
const minNormal = 0x1p-1022

// GeometricMean returns the n-th root of the product of values. For a single
// value it returns that value exactly, and any zero value gives 0. When the
// running product leaves the normal float64 range (overflow or underflow)
// the mean is computed from the sum of logarithms instead.
func GeometricMean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.ErrEmptyRegistry
	}
	if len(values) == 1 {
		return values[0], nil
	}

	product, inRange := 1.0, true
	for _, v := range values {
		if v == 0 {
			return 0, nil
		}
		product *= v
		if a := math.Abs(product); math.IsInf(a, 0) || a < minNormal {
			inRange = false
		}
	}
	n := float64(len(values))
	if inRange {
		return math.Pow(product, 1/n), nil
	}

	var logSum float64
	for _, v := range values {
		logSum += math.Log(v)
	}
	return math.Exp(logSum / n), nil
}
