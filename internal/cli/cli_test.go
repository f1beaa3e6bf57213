package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple-stocks/internal/errors"
	"simple-stocks/internal/exchange"
	"simple-stocks/internal/models"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func run(t *testing.T, configBody string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	if configBody != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(configBody), 0644))
	}

	cmd := NewRootCmd(exchange.NewManualClock(testNow))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", dir}, args...))

	err := cmd.Execute()
	return out.String(), err
}

const quietConfig = "[logging]\nlevel = \"error\"\n"

func TestDemo_JSONReport(t *testing.T) {
	out, err := run(t, quietConfig, "demo", "--json", "--seed", "42")
	require.NoError(t, err)

	var report MarketReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, int64(42), report.Seed)
	assert.Equal(t, "15m0s", report.Window)
	require.Len(t, report.Stocks, 5)

	symbols := make([]string, 0, len(report.Stocks))
	product := 1.0
	for _, s := range report.Stocks {
		symbols = append(symbols, s.Symbol)
		product *= s.Price
		assert.Equal(t, s.TradeCount, len(s.Trades))
		assert.GreaterOrEqual(t, s.TradeCount, 6)
		assert.LessOrEqual(t, s.TradeCount, 12)
		require.NotNil(t, s.DividendYield)
	}
	assert.Equal(t, []string{"TEA", "POP", "ALE", "GIN", "JOE"}, symbols)

	// TEA has no dividend so its P/E cannot be computed.
	assert.Nil(t, report.Stocks[0].PERatio)
	assert.NotNil(t, report.Stocks[1].PERatio)

	require.NotNil(t, report.AllShareIndex)
	assert.InEpsilon(t, math.Pow(product, 1.0/5), *report.AllShareIndex, 1e-9)
}

func TestDemo_JSONTradeKeys(t *testing.T) {
	out, err := run(t, quietConfig, "demo", "--json", "--seed", "42")
	require.NoError(t, err)

	var raw struct {
		Stocks []struct {
			Trades []map[string]interface{} `json:"trades"`
		} `json:"stocks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	require.NotEmpty(t, raw.Stocks)
	require.NotEmpty(t, raw.Stocks[0].Trades)

	trade := raw.Stocks[0].Trades[0]
	for _, key := range []string{"symbol", "timestamp", "quantity", "direction", "price"} {
		assert.Contains(t, trade, key)
	}
	assert.NotContains(t, trade, "Symbol")
	assert.Equal(t, "TEA", trade["symbol"])
}

func TestDemo_ExplicitZeroSeed(t *testing.T) {
	body := quietConfig + "\n[simulation]\nseed = 9\n"
	a, err := run(t, body, "demo", "--json", "--seed", "0")
	require.NoError(t, err)
	b, err := run(t, body, "demo", "--json", "--seed", "0")
	require.NoError(t, err)
	assert.JSONEq(t, a, b)

	var report MarketReport
	require.NoError(t, json.Unmarshal([]byte(a), &report))
	assert.Equal(t, int64(0), report.Seed)

	fromConfig, err := run(t, body, "demo", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(fromConfig), &report))
	assert.Equal(t, int64(9), report.Seed)
}

func TestDemo_SameSeedSameReport(t *testing.T) {
	a, err := run(t, quietConfig, "demo", "--json", "--seed", "7")
	require.NoError(t, err)
	b, err := run(t, quietConfig, "demo", "--json", "--seed", "7")
	require.NoError(t, err)
	assert.JSONEq(t, a, b)
}

func TestDemo_Text(t *testing.T) {
	out, err := run(t, quietConfig, "demo", "--seed", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "*** Simple stocks ***")
	assert.Contains(t, out, "** Created stocks: TEA, POP, ALE, GIN, JOE")
	assert.Contains(t, out, "** Stock (Preferred) - GIN")
	assert.Contains(t, out, "Dividend Yield")
	assert.Contains(t, out, "** GBCE All Share Index: ")
}

func TestDemo_ConfiguredStocks(t *testing.T) {
	body := quietConfig + `
[[stocks]]
symbol = "abc"
initial_price = 500
kind = "common"
par_value = 100
last_dividend = 10
`
	out, err := run(t, body, "demo", "--json", "--seed", "3", "--no-trades")
	require.NoError(t, err)

	var report MarketReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Stocks, 1)
	assert.Equal(t, "ABC", report.Stocks[0].Symbol)
	assert.Empty(t, report.Stocks[0].Trades)
	assert.Equal(t, report.Stocks[0].Price, *report.AllShareIndex)
}

func TestDemo_InvalidStock(t *testing.T) {
	body := quietConfig + "\n[[stocks]]\nsymbol = \"BAD\"\nkind = \"ordinary\"\n"
	_, err := run(t, body, "demo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInputValidation))
}

func TestQuote(t *testing.T) {
	out, err := run(t, quietConfig, "quote", "pop", "--json", "--seed", "5")
	require.NoError(t, err)

	var report StockReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "POP", report.Symbol)
	assert.Equal(t, int64(150), report.InitialPrice)
	change, ok := report.Change()
	require.True(t, ok)
	assert.InDelta(t, (report.Price-150)/150*100, change, 1e-9)
	require.NotNil(t, report.PERatio)
	assert.InDelta(t, report.Price/8, *report.PERatio, 1e-9)
}

func TestQuote_UnknownSymbol(t *testing.T) {
	_, err := run(t, quietConfig, "quote", "XYZ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSymbolNotFound))
}

func TestIndex_JSON(t *testing.T) {
	out, err := run(t, quietConfig, "index", "--json", "--seed", "11")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 5, got["stocks"])
	assert.Greater(t, got["all_share_index"].(float64), 0.0)
}

func TestStocks_JSON(t *testing.T) {
	out, err := run(t, quietConfig, "stocks", "--json")
	require.NoError(t, err)

	var defs []models.StockDefinition
	require.NoError(t, json.Unmarshal([]byte(out), &defs))
	require.Len(t, defs, 5)
	assert.Equal(t, models.StockPreferred, defs[3].Kind)
}

func TestStocks_Table(t *testing.T) {
	out, err := run(t, quietConfig, "stocks")
	require.NoError(t, err)
	assert.Contains(t, out, "Symbol")
	assert.Regexp(t, `GIN\s+Preferred`, out)
	assert.Contains(t, out, "+2.00%")
}

func TestConfigValidate(t *testing.T) {
	out, err := run(t, quietConfig, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
}

func TestConfigLoadFailure(t *testing.T) {
	_, err := run(t, "[exchange]\nwindow = \"-1m\"\n", "version")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigInvalid))
}

func TestVersion_JSON(t *testing.T) {
	out, err := run(t, quietConfig, "version", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"`+Version+`","build_date":"`+BuildDate+`"}`, out)
}
