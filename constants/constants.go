package constants

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	LogPrefixFmt   = "%-17s "
	DefaultTimeout = 10 * time.Second
)

var (
	one = decimal.NewFromInt(1)
)

//
// MinimumOrderAmount returns the smallest order size (in BTC) the exchange accepts.
//
func MinimumOrderAmount() decimal.Decimal {
	return one
}
