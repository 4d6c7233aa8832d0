// Package money holds the rounding and display rules for account balances.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Round2 rounds v half-up to two fractional digits. Ledger arithmetic funnels
// every balance through here, so repeated credits and debits cannot accumulate
// binary-float drift.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Cents returns v expressed in minor units after Round2.
func Cents(v float64) int64 {
	return decimal.NewFromFloat(v).Round(2).Mul(decimal.NewFromInt(100)).IntPart()
}

// Format renders v as a localized currency string, e.g. "$1,430.00".
func Format(v float64) string {
	return gomoney.New(Cents(v), gomoney.USD).Display()
}

// FormatSigned is Format with an explicit leading sign, for transaction rows.
func FormatSigned(v float64) string {
	if v >= 0 {
		return "+" + Format(v)
	}
	return "-" + Format(-v)
}
