package mtgox

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lukehollenback/mtgox/exchange"
	"github.com/shopspring/decimal"
)

// NOTE ~> The exchange is inconsistent about numbers: depending on the endpoint and the era, prices
//  and amounts arrive as JSON numbers or as quoted strings. decimal.Decimal accepts both, which is
//  why every monetary field below is one.

type tickerReply struct {
	Ticker json.RawMessage `json:"ticker"`
}

type tickerPayload struct {
	High decimal.Decimal `json:"high"`
	Low  decimal.Decimal `json:"low"`
	Vol  decimal.Decimal `json:"vol"`
	Buy  decimal.Decimal `json:"buy"`
	Sell decimal.Decimal `json:"sell"`
	Last decimal.Decimal `json:"last"`
}

func mapTicker(raw json.RawMessage) (*exchange.Ticker, error) {
	var p tickerPayload

	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}

	return &exchange.Ticker{
		High: p.High,
		Low:  p.Low,
		Vol:  p.Vol,
		Buy:  p.Buy,
		Sell: p.Sell,
		Last: p.Last,
		Raw:  raw,
	}, nil
}

//
// level is a single [price, amount] pair of the order book.
//
type level []decimal.Decimal

func mapLevels(raw json.RawMessage) ([]exchange.Level, error) {
	var levels []level

	if err := json.Unmarshal(raw, &levels); err != nil {
		return nil, err
	}

	ret := make([]exchange.Level, len(levels))

	for i, l := range levels {
		if len(l) < 2 {
			return nil, fmt.Errorf("order book level %d has %d elements, expected price and amount", i, len(l))
		}

		ret[i] = exchange.Level{
			Price:  l[0],
			Amount: l[1],
		}
	}

	return ret, nil
}

func mapDepth(raw map[string]json.RawMessage, body []byte) (*exchange.Depth, error) {
	asksRaw, ok := raw["asks"]
	if !ok {
		return nil, fmt.Errorf("depth is missing asks")
	}

	bidsRaw, ok := raw["bids"]
	if !ok {
		return nil, fmt.Errorf("depth is missing bids")
	}

	asks, err := mapLevels(asksRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse asks: %w", err)
	}

	bids, err := mapLevels(bidsRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bids: %w", err)
	}

	return &exchange.Depth{
		Asks: asks,
		Bids: bids,
		Raw:  body,
	}, nil
}

type tradePayload struct {
	TID       exchange.ID     `json:"tid"`
	Date      int64           `json:"date"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
	TradeType string          `json:"trade_type"`
}

func (o *tradePayload) trade() exchange.Trade {
	return exchange.Trade{
		ID:     o.TID,
		Date:   time.Unix(o.Date, 0).UTC(),
		Price:  o.Price,
		Amount: o.Amount,
		Type:   o.TradeType,
	}
}

func mapTrades(payloads []tradePayload) []exchange.Trade {
	ret := make([]exchange.Trade, len(payloads))

	for i := range payloads {
		ret[i] = payloads[i].trade()
	}

	return ret
}

type orderPayload struct {
	OID    exchange.ID     `json:"oid"`
	Type   int             `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	Status exchange.ID     `json:"status"`
	Date   int64           `json:"date"`
}

type ordersReply struct {
	Orders *[]orderPayload `json:"orders"`
}

func mapOrders(reply *ordersReply) (exchange.Orders, error) {
	if reply.Orders == nil {
		return nil, fmt.Errorf("reply is missing orders")
	}

	ret := make(exchange.Orders, len(*reply.Orders))

	for _, p := range *reply.Orders {
		ret[p.OID] = &exchange.Order{
			ID:     p.OID,
			Type:   exchange.OrderType(p.Type),
			Amount: p.Amount,
			Price:  p.Price,
			Status: string(p.Status),
			Date:   time.Unix(p.Date, 0).UTC(),
		}
	}

	return ret, nil
}

type placeOrderReply struct {
	OID *exchange.ID `json:"oid"`
}

//
// mapBalance turns the funds reply ({"usds": "...", "btcs": "..."}) into a balance keyed by
// currency code.
//
func mapBalance(raw map[string]json.RawMessage) (exchange.Balance, error) {
	ret := make(exchange.Balance, len(raw))

	for key, value := range raw {
		var amount decimal.Decimal

		if err := json.Unmarshal(value, &amount); err != nil {
			return nil, fmt.Errorf("failed to parse %s balance: %w", key, err)
		}

		ret[currencyCode(key)] = amount
	}

	return ret, nil
}

func currencyCode(key string) string {
	return strings.ToUpper(strings.TrimSuffix(key, "s"))
}
