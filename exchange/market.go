package exchange

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

//
// Ticker represents the current best bid/ask/last-trade snapshot of a market. Raw holds the ticker
// object exactly as the exchange sent it, for callers that need fields the structure does not
// model.
//
type Ticker struct {
	High decimal.Decimal
	Low  decimal.Decimal
	Vol  decimal.Decimal
	Buy  decimal.Decimal
	Sell decimal.Decimal
	Last decimal.Decimal
	Raw  json.RawMessage
}

//
// Level is a single aggregated price level of an order book.
//
type Level struct {
	Price  decimal.Decimal
	Amount decimal.Decimal
}

//
// Depth represents the aggregated open buy/sell order book of a market. Asks and bids are kept in
// the order the exchange sent them.
//
type Depth struct {
	Asks []Level
	Bids []Level
	Raw  json.RawMessage
}

//
// Trade represents a single public trade.
//
type Trade struct {
	ID     ID
	Date   time.Time
	Price  decimal.Decimal
	Amount decimal.Decimal
	Type   string
}
