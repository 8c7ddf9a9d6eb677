package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

//
// Client generically provides an interface to an object that can be used to interact with a
// cryptocurrency exchange's regular REST API. Normally, this is the client used to do things
// like place orders, check balances, and retrieve market data.
//
// Every method issues exactly one round trip (CancelOrder issues two: a lookup and the
// cancellation) and blocks until it completes, the context is done, or the client's timeout
// elapses. Whenever an endpoint fails, the returned error is an *Error whose kind says why.
//
type Client interface {

	//
	// Ticker retrieves the current best bid/ask/last-trade snapshot of the market.
	//
	Ticker(ctx context.Context) (*Ticker, error)

	//
	// Depth retrieves the aggregated open buy/sell order book.
	//
	Depth(ctx context.Context) (*Depth, error)

	//
	// Trades retrieves the most recent public trades.
	//
	Trades(ctx context.Context) ([]Trade, error)

	//
	// Balance retrieves the available funds of the authenticated account, keyed by currency code.
	//
	Balance(ctx context.Context) (Balance, error)

	//
	// Orders retrieves the open orders of the authenticated account, keyed by order identifier.
	//
	Orders(ctx context.Context) (Orders, error)

	//
	// Buy places a limit order to buy the specified amount at the specified price and returns the
	// identifier the exchange assigned to it.
	//
	Buy(ctx context.Context, amount decimal.Decimal, price decimal.Decimal) (ID, error)

	//
	// Sell places a limit order to sell the specified amount at the specified price and returns the
	// identifier the exchange assigned to it.
	//
	Sell(ctx context.Context, amount decimal.Decimal, price decimal.Decimal) (ID, error)

	//
	// CancelOrder cancels the open order with the specified identifier and returns the orders that
	// remain open afterwards.
	//
	CancelOrder(ctx context.Context, oid ID) (Orders, error)
}
