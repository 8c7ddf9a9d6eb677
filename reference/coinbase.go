package reference

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	coinbasepro "github.com/preichenberger/go-coinbasepro/v2"
)

//
// Source generically provides an interface to anything that can quote a reference price for a
// market on another venue.
//
type Source interface {
	LastPrice(ctx context.Context, product string) (decimal.Decimal, error)
}

//
// Coinbase implements the Source interface using the public Coinbase Pro REST API.
//
type Coinbase struct {
	client *coinbasepro.Client
}

//
// NewCoinbase instantiates a Coinbase Pro reference source. An empty base URL keeps the library's
// default (the production API).
//
func NewCoinbase(baseURL string) *Coinbase {
	client := coinbasepro.NewClient()

	if baseURL != "" {
		client.BaseURL = baseURL
	}

	return &Coinbase{
		client: client,
	}
}

//
// LastPrice retrieves the price of the most recent trade of the specified product (e.g. "BTC-USD").
// The library does not accept a context, so the context is only checked before the call is made.
//
func (o *Coinbase) LastPrice(ctx context.Context, product string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	ticker, err := o.client.GetTicker(product)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to retrieve the %s ticker from Coinbase Pro: %w", product, err)
	}

	price, err := decimal.NewFromString(ticker.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse the %s price from Coinbase Pro (%s): %w", product, ticker.Price, err)
	}

	return price, nil
}

//
// Spread returns how far the local price is from the reference price, as a fraction of the
// reference price. A positive spread means the local price is higher.
//
func Spread(local decimal.Decimal, ref decimal.Decimal) (decimal.Decimal, error) {
	if ref.IsZero() {
		return decimal.Zero, fmt.Errorf("reference price is zero")
	}

	return local.Sub(ref).Div(ref), nil
}
