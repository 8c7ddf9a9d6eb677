package mtgox

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/lukehollenback/mtgox/constants"
	"github.com/shopspring/decimal"
)

//
// Config holds everything a Client needs to talk to the exchange. Zero values are replaced with
// sensible defaults by NewClient, so an empty Config yields a working client for the public API.
//
type Config struct {
	Username string
	Password string

	// Verbose turns on diagnostic notifications (e.g. before orders are placed).
	Verbose bool

	// Timeout bounds every round trip. Defaults to ten seconds.
	Timeout time.Duration

	// BaseURL is the exchange's HTTPS host. Defaults to BaseURL.
	BaseURL string

	// StreamURL is the exchange's websocket feed. Defaults to StreamURL.
	StreamURL string

	// MinimumAmount is the smallest order size accepted by Buy and Sell. Defaults to one BTC.
	MinimumAmount decimal.Decimal

	HTTPClient *http.Client
	Logger     *log.Logger
}

//
// withDefaults returns a copy of the configuration with every unset option filled in.
//
func (o Config) withDefaults() Config {
	if o.Timeout <= 0 {
		o.Timeout = constants.DefaultTimeout
	}

	if o.BaseURL == "" {
		o.BaseURL = BaseURL
	}

	o.BaseURL = strings.TrimRight(o.BaseURL, "/")

	if o.StreamURL == "" {
		o.StreamURL = StreamURL
	}

	if o.MinimumAmount.IsZero() {
		o.MinimumAmount = constants.MinimumOrderAmount()
	}

	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}

	if o.Logger == nil {
		o.Logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
	}

	return o
}
