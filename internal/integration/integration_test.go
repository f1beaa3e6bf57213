// Package integration provides end-to-end tests across config, dataset,
// exchange and simulation.
package integration

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"simple-stocks/internal/config"
	"simple-stocks/internal/dataset"
	"simple-stocks/internal/errors"
	"simple-stocks/internal/exchange"
	"simple-stocks/internal/models"
	"simple-stocks/internal/simulate"
)

var sessionStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// TestEndToEndSession loads a config, seeds the GBCE data, simulates trades
// and checks every metric against values derived independently from the
// recorded histories.
func TestEndToEndSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "cfg"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	defs, err := dataset.NewValidator().ValidateAll(dataset.GBCE())
	if err != nil {
		t.Fatalf("GBCE data invalid: %v", err)
	}

	clock := exchange.NewManualClock(sessionStart)
	ex := exchange.New(exchange.Config{Clock: clock, Window: cfg.Exchange.Window})
	if added := dataset.Seed(ex, defs, zerolog.Nop()); added != len(defs) {
		t.Fatalf("Expected %d stocks, got %d", len(defs), added)
	}

	counts, err := simulate.Populate(ctx, ex, cfg.Simulation.Params, 2024, clock.Now(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Simulation failed: %v", err)
	}

	logSum := 0.0
	for _, sym := range ex.Symbols() {
		stock, ok := ex.GetStock(sym)
		if !ok {
			t.Fatalf("Stock %s missing", sym)
		}
		if stock.TradeCount() != counts[sym] {
			t.Errorf("%s: history has %d trades, simulator recorded %d", sym, stock.TradeCount(), counts[sym])
		}

		want := expectedPrice(stock, clock.Now())
		if math.Abs(stock.Price()-want) > 1e-9 {
			t.Errorf("%s: price %f, expected %f", sym, stock.Price(), want)
		}
		logSum += math.Log(stock.Price())

		pe, err := stock.PERatio()
		switch {
		case stock.LastDividend() <= 0:
			if !errors.Is(err, errors.ErrDivisionByZero) {
				t.Errorf("%s: expected division by zero, got %v", sym, err)
			}
		case err != nil:
			t.Errorf("%s: unexpected P/E error: %v", sym, err)
		case math.Abs(pe-stock.Price()/float64(stock.LastDividend())) > 1e-9:
			t.Errorf("%s: P/E %f inconsistent with price", sym, pe)
		}

		yield, err := stock.DividendYield()
		if err != nil {
			t.Errorf("%s: unexpected yield error: %v", sym, err)
		}
		wantYield := float64(stock.LastDividend()) / stock.Price()
		if stock.Kind() == models.StockPreferred {
			wantYield *= float64(stock.ParValue())
		}
		if math.Abs(yield-wantYield) > 1e-12 {
			t.Errorf("%s: yield %f, expected %f", sym, yield, wantYield)
		}
	}

	idx, err := ex.AllShareIndex()
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if want := math.Exp(logSum / float64(ex.Len())); math.Abs(idx-want) > 1e-6 {
		t.Errorf("Index %f, expected %f", idx, want)
	}
}

// TestPriceDecaysOutOfWindow checks that the ticker price freezes once all
// trades age out, and moves again with the next trade.
func TestPriceDecaysOutOfWindow(t *testing.T) {
	clock := exchange.NewManualClock(sessionStart)
	ex := exchange.New(exchange.Config{Clock: clock})
	ex.AddStock(dataset.GBCE()[1])

	ex.RecordTrade("POP", models.NewTrade("POP", clock.Now(), 10, models.DirectionBuy, 160))
	stock, _ := ex.GetStock("POP")
	if stock.Price() != 160 {
		t.Fatalf("Expected 160, got %f", stock.Price())
	}

	clock.Advance(time.Hour)
	if got := stock.RecalculatePrice(); got != 160 {
		t.Errorf("Stale window should keep 160, got %f", got)
	}

	ex.RecordTrade("POP", models.NewTrade("POP", clock.Now(), 30, models.DirectionSell, 140))
	if got := stock.Price(); got != 140 {
		t.Errorf("Only the fresh trade should count, got %f", got)
	}
}

// TestConcurrentSessions records from many goroutines while the index is
// read, and checks nothing is lost.
func TestConcurrentSessions(t *testing.T) {
	clock := exchange.NewManualClock(sessionStart)
	ex := exchange.New(exchange.Config{Clock: clock})
	dataset.Seed(ex, dataset.GBCE(), zerolog.Nop())

	const perSymbol = 200
	var wg sync.WaitGroup
	for _, sym := range ex.Symbols() {
		for w := 0; w < 2; w++ {
			wg.Add(1)
			go func(sym string) {
				defer wg.Done()
				for i := 0; i < perSymbol; i++ {
					ex.RecordTrade(sym, models.NewTrade(sym, clock.Now(), 1, models.DirectionBuy, 100))
				}
			}(sym)
		}
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < perSymbol; i++ {
			if _, err := ex.AllShareIndex(); err != nil {
				t.Errorf("Index failed: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	for _, sym := range ex.Symbols() {
		stock, _ := ex.GetStock(sym)
		if stock.TradeCount() != 2*perSymbol {
			t.Errorf("%s: expected %d trades, got %d", sym, 2*perSymbol, stock.TradeCount())
		}
	}
	idx, _ := ex.AllShareIndex()
	if math.Abs(idx-100) > 1e-9 {
		t.Errorf("Expected index 100, got %f", idx)
	}
}

func expectedPrice(s *exchange.Stock, now time.Time) float64 {
	var qty, value int64
	for _, tr := range s.Trades() {
		if now.Sub(tr.Timestamp) <= s.Window() {
			qty += tr.Quantity
			value += tr.Value()
		}
	}
	if qty == 0 {
		return float64(s.Definition().InitialPrice)
	}
	return float64(value) / float64(qty)
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
