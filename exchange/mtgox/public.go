package mtgox

import (
	"context"
	"encoding/json"

	"github.com/lukehollenback/mtgox/exchange"
)

//
// Ticker retrieves the market's ticker, unwrapped from the reply's "ticker" field.
//
func (o *Client) Ticker(ctx context.Context) (*exchange.Ticker, error) {
	var reply tickerReply

	if _, err := o.Request(ctx, TickerPath, Params{}, &reply); err != nil {
		return nil, err
	}

	if reply.Ticker == nil {
		return nil, exchange.NewError(exchange.Decode, TickerPath, "reply is missing ticker")
	}

	ticker, err := mapTicker(reply.Ticker)
	if err != nil {
		return nil, exchange.NewError(exchange.Decode, TickerPath, "failed to parse ticker").WithCause(err)
	}

	return ticker, nil
}

//
// Depth retrieves the market's aggregated order book.
//
func (o *Client) Depth(ctx context.Context) (*exchange.Depth, error) {
	var reply map[string]json.RawMessage

	resp, err := o.Request(ctx, DepthPath, Params{}, &reply)
	if err != nil {
		return nil, err
	}

	depth, err := mapDepth(reply, resp.Body())
	if err != nil {
		return nil, exchange.NewError(exchange.Decode, DepthPath, "failed to parse depth").
			WithBody(resp.Body()).
			WithCause(err)
	}

	return depth, nil
}

//
// Trades retrieves the market's most recent trades.
//
func (o *Client) Trades(ctx context.Context) ([]exchange.Trade, error) {
	var reply []tradePayload

	if _, err := o.Request(ctx, TradesPath, Params{}, &reply); err != nil {
		return nil, err
	}

	return mapTrades(reply), nil
}
