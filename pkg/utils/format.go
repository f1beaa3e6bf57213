// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// notANumber is printed for NaN and infinite values, which decimal rejects.
const notANumber = "n/a"

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatPennies formats an amount of pennies as pounds, e.g. 11550 -> "£115.50".
// Fractional pennies are rounded half away from zero to whole pennies.
func FormatPennies(pennies float64) string {
	if !finite(pennies) {
		return notANumber
	}
	pounds := decimal.NewFromFloat(pennies).Round(0).Div(hundred)

	negative := pounds.IsNegative()
	if negative {
		pounds = pounds.Neg()
	}

	parts := strings.SplitN(pounds.StringFixed(2), ".", 2)
	result := "£" + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPrice formats a price in pennies with two decimals, e.g. "115.50p".
func FormatPrice(pennies float64) string {
	if !finite(pennies) {
		return notANumber
	}
	return decimal.NewFromFloat(pennies).StringFixed(2) + "p"
}

// FormatRatio formats a ratio with four decimals.
func FormatRatio(value float64) string {
	if !finite(value) {
		return notANumber
	}
	return decimal.NewFromFloat(value).StringFixed(4)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatQuantity formats a quantity with thousands separators.
func FormatQuantity(qty int64) string {
	if qty < 0 {
		return "-" + groupThousands(fmt.Sprintf("%d", -qty))
	}
	return groupThousands(fmt.Sprintf("%d", qty))
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
