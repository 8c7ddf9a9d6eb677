package mtgox

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/mtgox/exchange"
	"github.com/lukehollenback/mtgox/metrics"
	"github.com/shopspring/decimal"
)

//
// Balance retrieves the account's available funds.
//
func (o *Client) Balance(ctx context.Context) (exchange.Balance, error) {
	var reply map[string]json.RawMessage

	resp, err := o.Request(ctx, FundsPath, o.creds.params(nil), &reply)
	if err != nil {
		return nil, err
	}

	balance, err := mapBalance(reply)
	if err != nil {
		return nil, exchange.NewError(exchange.Decode, FundsPath, "failed to parse funds").
			WithBody(resp.Body()).
			WithCause(err)
	}

	return balance, nil
}

//
// Orders retrieves the account's open orders, keyed by identifier.
//
func (o *Client) Orders(ctx context.Context) (exchange.Orders, error) {
	return o.orders(ctx, OrdersPath, o.creds.params(nil))
}

//
// Buy places a buy order. See placeOrder.
//
func (o *Client) Buy(ctx context.Context, amount decimal.Decimal, price decimal.Decimal) (exchange.ID, error) {
	return o.placeOrder(ctx, exchange.Buy, BuyPath, amount, price)
}

//
// Sell places a sell order. See placeOrder.
//
func (o *Client) Sell(ctx context.Context, amount decimal.Decimal, price decimal.Decimal) (exchange.ID, error) {
	return o.placeOrder(ctx, exchange.Sell, SellPath, amount, price)
}

//
// CancelOrder looks the order up among the currently open orders and cancels it. If it is not open,
// an exchange.NotFound error is returned and no cancellation request is sent. The orders that remain
// open after the cancellation are returned.
//
func (o *Client) CancelOrder(ctx context.Context, oid exchange.ID) (exchange.Orders, error) {
	open, err := o.Orders(ctx)
	if err != nil {
		return nil, err
	}

	order, ok := open[oid]
	if !ok {
		return nil, exchange.NewError(
			exchange.NotFound,
			CancelOrderPath,
			fmt.Sprintf("order %s is not among the open orders", oid),
		)
	}

	o.notify("Cancelling %s order %s.", order.Type, aurora.Bold(oid))

	params := o.creds.params(Params{
		oidField:  order.ID.String(),
		typeField: strconv.Itoa(int(order.Type)),
	})

	return o.orders(ctx, CancelOrderPath, params)
}

//
// placeOrder validates an order locally, notifies about it, submits it, and returns the identifier
// the exchange assigned to it. Orders below the configured minimum amount, or without a positive
// price, are refused with an exchange.Validation error before anything is sent.
//
func (o *Client) placeOrder(
	ctx context.Context,
	side exchange.OrderType,
	path string,
	amount decimal.Decimal,
	price decimal.Decimal,
) (exchange.ID, error) {
	o.notify(
		"Issuing a %s order for %s at a price of %s.",
		side,
		aurora.Bold(aurora.Yellow(fmt.Sprintf("%s BTC", amount))),
		aurora.Bold(aurora.Green(fmt.Sprintf("%s USD", price))),
	)

	//
	// Refuse orders the exchange would not accept anyway.
	//
	if amount.LessThan(o.minimumAmount) {
		o.notify("Minimum amount is %s BTC.", o.minimumAmount)

		metrics.OrdersRejectedTotal.WithLabelValues(side.String()).Inc()

		return "", exchange.NewError(
			exchange.Validation,
			path,
			fmt.Sprintf("amount %s is below the minimum of %s", amount, o.minimumAmount),
		)
	}

	if !price.IsPositive() {
		metrics.OrdersRejectedTotal.WithLabelValues(side.String()).Inc()

		return "", exchange.NewError(exchange.Validation, path, fmt.Sprintf("price %s is not positive", price))
	}

	//
	// Submit the order and pick the identifier out of the reply.
	//
	params := o.creds.params(Params{
		amountField: amount.String(),
		priceField:  price.String(),
	})

	var reply placeOrderReply

	resp, err := o.Request(ctx, path, params, &reply)
	if err != nil {
		return "", err
	}

	if reply.OID == nil || *reply.OID == "" {
		return "", exchange.NewError(exchange.Decode, path, "reply is missing the order identifier").
			WithBody(resp.Body())
	}

	return *reply.OID, nil
}

//
// orders makes a private request whose reply carries the list of open orders and keys them by
// identifier.
//
func (o *Client) orders(ctx context.Context, path string, params Params) (exchange.Orders, error) {
	var reply ordersReply

	resp, err := o.Request(ctx, path, params, &reply)
	if err != nil {
		return nil, err
	}

	orders, err := mapOrders(&reply)
	if err != nil {
		return nil, exchange.NewError(exchange.Decode, path, "failed to parse orders").
			WithBody(resp.Body()).
			WithCause(err)
	}

	return orders, nil
}
