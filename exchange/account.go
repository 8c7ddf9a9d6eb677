package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

//
// ID is an exchange-assigned identifier (e.g. of an order or a trade). Exchanges are inconsistent
// about whether they send these as JSON strings or numbers, so both are accepted.
//
type ID string

//
// UnmarshalJSON implements the json.Unmarshaler interface for ID so that both quoted and bare
// numeric identifiers end up as the same string.
//
func (o *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string

		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*o = ID(s)

		return nil
	}

	var n json.Number

	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier is neither a string nor a number (%s)", data)
	}

	*o = ID(n.String())

	return nil
}

func (o ID) String() string {
	return string(o)
}

//
// OrderType is an enum that represents the side of an order. The values are the numeric codes the
// exchange uses on the wire.
//
type OrderType int

const (
	Sell OrderType = 1
	Buy  OrderType = 2
)

func (o OrderType) String() string {
	switch o {
	case Sell:
		return "sell"
	case Buy:
		return "buy"
	default:
		return fmt.Sprintf("OrderType(%d)", int(o))
	}
}

//
// Order is a read-only view of an open order as reported by the exchange. It is never persisted
// locally.
//
type Order struct {
	ID     ID
	Type   OrderType
	Amount decimal.Decimal
	Price  decimal.Decimal
	Status string
	Date   time.Time
}

//
// Orders holds open orders keyed by their exchange-assigned identifier.
//
type Orders map[ID]*Order

//
// Balance maps upper-case currency codes (e.g. "USD", "BTC") to available funds.
//
type Balance map[string]decimal.Decimal

// USD returns the available US dollar balance, or zero if the exchange did not report one.
func (o Balance) USD() decimal.Decimal {
	return o["USD"]
}

// BTC returns the available bitcoin balance, or zero if the exchange did not report one.
func (o Balance) BTC() decimal.Decimal {
	return o["BTC"]
}
