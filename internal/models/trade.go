package models

import (
	"fmt"
	"time"
)

// Trade represents an executed trade. It is a value type and is never
// modified after construction.
type Trade struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Quantity  int64     `json:"quantity"`
	Direction Direction `json:"direction"`
	Price     int64     `json:"price"` // pennies
}

// NewTrade creates a trade. Values are accepted as given, including
// non-positive quantities.
func NewTrade(symbol string, ts time.Time, quantity int64, dir Direction, price int64) Trade {
	return Trade{
		Symbol:    symbol,
		Timestamp: ts,
		Quantity:  quantity,
		Direction: dir,
		Price:     price,
	}
}

// IsPurchase reports whether the trade was a buy.
func (t Trade) IsPurchase() bool {
	return t.Direction == DirectionBuy
}

// IsSale reports whether the trade was a sell.
func (t Trade) IsSale() bool {
	return !t.IsPurchase()
}

// Value returns price times quantity in pennies. The product is int64 and
// wraps once it exceeds math.MaxInt64 (about 9.2e18 pennies); use float64
// arithmetic when aggregating arbitrary trades.
func (t Trade) Value() int64 {
	return t.Price * t.Quantity
}

func (t Trade) String() string {
	kind := "Purchase"
	if t.IsSale() {
		kind = "Sale"
	}
	return fmt.Sprintf("Trade (%s) Quantity: %d, Price: %d - Timestamp: %s",
		kind, t.Quantity, t.Price, t.Timestamp.Format(time.RFC3339))
}
