// Package models provides domain models for the stock exchange engine.
// All monetary amounts are integer pennies unless stated otherwise.
package models

// Direction represents the side of an executed trade.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// StockKind represents the class of a stock.
type StockKind string

const (
	StockCommon    StockKind = "COMMON"
	StockPreferred StockKind = "PREFERRED"
)

// String returns the display name of the stock kind.
func (k StockKind) String() string {
	switch k {
	case StockPreferred:
		return "Preferred"
	case StockCommon:
		return "Common"
	default:
		return string(k)
	}
}

// ParseStockKind parses a stock kind, accepting either case.
func ParseStockKind(s string) (StockKind, bool) {
	switch s {
	case "COMMON", "common", "Common":
		return StockCommon, true
	case "PREFERRED", "preferred", "Preferred":
		return StockPreferred, true
	}
	return "", false
}
