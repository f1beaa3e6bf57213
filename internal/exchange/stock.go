package exchange

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"simple-stocks/internal/errors"
	"simple-stocks/internal/models"
)

// DefaultTradeWindow is the lookback used to derive the ticker price.
const DefaultTradeWindow = 15 * time.Minute

// Metric names reported in MetricError.
const (
	MetricDividendYield = "dividend_yield"
	MetricPERatio       = "pe_ratio"
)

// Stock is the ledger of a single stock: its static attributes, the
// history of recorded trades and the ticker price derived from them.
//
// Trades are stored in recording order and the history is never trimmed.
type Stock struct {
	def    models.StockDefinition
	clock  Clock
	window time.Duration

	mu     sync.RWMutex
	price  float64 // pennies
	trades []models.Trade
}

// NewStock creates a ledger priced at def.InitialPrice with an empty
// history. A nil clock means the system clock; a non-positive window means
// DefaultTradeWindow.
func NewStock(def models.StockDefinition, clock Clock, window time.Duration) *Stock {
	if clock == nil {
		clock = SystemClock{}
	}
	if window <= 0 {
		window = DefaultTradeWindow
	}
	return &Stock{
		def:    def,
		clock:  clock,
		window: window,
		price:  float64(def.InitialPrice),
	}
}

// Symbol returns the stock symbol.
func (s *Stock) Symbol() string { return s.def.Symbol }

// Kind returns whether the stock is common or preferred.
func (s *Stock) Kind() models.StockKind { return s.def.Kind }

// ParValue returns the par value in pennies.
func (s *Stock) ParValue() int64 { return s.def.ParValue }

// LastDividend returns the last dividend in pennies.
func (s *Stock) LastDividend() int64 { return s.def.LastDividend }

// FixedDividend returns the fixed dividend rate. It only carries meaning
// for preferred stocks and is not used by any formula.
func (s *Stock) FixedDividend() float64 { return s.def.FixedDividend }

// Definition returns the attributes the stock was registered with.
func (s *Stock) Definition() models.StockDefinition { return s.def }

// Window returns the trade window used for recalculation.
func (s *Stock) Window() time.Duration { return s.window }

// Price returns the current ticker price in pennies.
func (s *Stock) Price() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.price
}

// Trades returns a copy of the trade history in recording order.
func (s *Stock) Trades() []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}

// TradeCount returns the number of recorded trades.
func (s *Stock) TradeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trades)
}

// RecordTrade appends the trade to the history and recalculates the price
// at the ledger clock's current time. Append and recalculation happen under
// one lock. It returns the updated price.
func (s *Stock) RecordTrade(trade models.Trade) float64 {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades = append(s.trades, trade)
	return s.recalculateLocked(now)
}

// RecalculatePrice recalculates the price at the ledger clock's current time.
func (s *Stock) RecalculatePrice() float64 {
	return s.RecalculatePriceAt(s.clock.Now())
}

// RecalculatePriceAt sets the price to the volume weighted average of all
// trades with now - timestamp <= window and returns it. Trades stamped
// after now count as inside the window. If the window holds no quantity the
// price is left unchanged.
func (s *Stock) RecalculatePriceAt(now time.Time) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recalculateLocked(now)
}

// recalculateLocked scans the whole history rather than stopping at the
// first stale trade, so the result does not depend on recording order.
// The division is plain float64 with no rounding.
func (s *Stock) recalculateLocked(now time.Time) float64 {
	var totalQty int64
	var totalValue float64 // price * quantity overflows int64 for large trades
	for _, t := range s.trades {
		if now.Sub(t.Timestamp) > s.window {
			continue
		}
		totalQty += t.Quantity
		totalValue += float64(t.Price) * float64(t.Quantity)
	}
	if totalQty > 0 {
		s.price = totalValue / float64(totalQty)
	}
	return s.price
}

// DividendYield returns the dividend yield at the current price.
//
// Common:    last dividend / price
// Preferred: par value * last dividend / price
//
// The preferred formula uses the last dividend, not the fixed dividend rate.
func (s *Stock) DividendYield() (float64, error) {
	price := s.Price()
	if price == 0 {
		return 0, errors.NewMetricError(MetricDividendYield, s.def.Symbol, "price is zero", errors.ErrDivisionByZero)
	}
	if s.def.Kind == models.StockPreferred {
		return float64(s.def.ParValue) * float64(s.def.LastDividend) / price, nil
	}
	return float64(s.def.LastDividend) / price, nil
}

// PERatio returns price / last dividend. It fails with ErrDivisionByZero
// when the last dividend is zero or negative.
func (s *Stock) PERatio() (float64, error) {
	if s.def.LastDividend <= 0 {
		return 0, errors.NewMetricError(MetricPERatio, s.def.Symbol,
			fmt.Sprintf("last dividend is %d", s.def.LastDividend), errors.ErrDivisionByZero)
	}
	return s.Price() / float64(s.def.LastDividend), nil
}

func (s *Stock) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "** Stock (%s) - Symbol: %s, Current price: %g, Last dividend: %d, Par value: %d, Number of trades: %d",
		s.def.Kind, s.def.Symbol, s.price, s.def.LastDividend, s.def.ParValue, len(s.trades))
	for _, t := range s.trades {
		b.WriteString("\n* ")
		b.WriteString(t.String())
	}
	return b.String()
}
