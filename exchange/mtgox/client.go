package mtgox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/lukehollenback/mtgox/exchange"
	"github.com/lukehollenback/mtgox/metrics"
	"github.com/shopspring/decimal"
)

//
// Client implements the exchange.Client interface for the Mt. Gox API.
//
// A Client holds nothing but immutable configuration, so it is safe to share between goroutines.
// Every call owns its request, its response body, and its decoded result.
//
type Client struct {
	creds         credentials
	verbose       bool
	timeout       time.Duration
	baseURL       string
	streamURL     string
	minimumAmount decimal.Decimal
	httpClient    *http.Client
	logger        *log.Logger
}

var _ exchange.Client = (*Client)(nil)

func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()

	return &Client{
		creds: credentials{
			username: cfg.Username,
			password: cfg.Password,
		},
		verbose:       cfg.Verbose,
		timeout:       cfg.Timeout,
		baseURL:       cfg.BaseURL,
		streamURL:     cfg.StreamURL,
		minimumAmount: cfg.MinimumAmount,
		httpClient:    cfg.HTTPClient,
		logger:        cfg.Logger,
	}
}

//
// Perform POSTs the form-encoded parameters to the specified endpoint path (relative to the base
// URL) and returns the raw reply. Anything other than a 2xx status, as well as any connection or
// timeout fault, results in an exchange.Transport error. When a reply was received, it is returned
// alongside the error.
//
func (o *Client) Perform(ctx context.Context, path string, params Params) (resp *Response, err error) {
	start := time.Now()

	defer func() {
		o.observe(path, start, err)
	}()

	return o.perform(ctx, path, params)
}

//
// Request performs the call exactly as Perform does and then decodes the reply. A body that is not
// valid JSON results in an exchange.Decode error. A JSON object carrying an "error" field results in
// an exchange.Remote error holding the exchange's message verbatim, whatever the HTTP status was.
// Otherwise, if v is non-nil, the body is unmarshalled into it.
//
func (o *Client) Request(ctx context.Context, path string, params Params, v interface{}) (resp *Response, err error) {
	start := time.Now()

	defer func() {
		o.observe(path, start, err)
	}()

	resp, err = o.perform(ctx, path, params)
	if err != nil {
		return resp, err
	}

	return resp, decode(path, resp.body, v)
}

//
// perform makes the actual round trip. It is bounded by both the provided context and the client's
// timeout.
//
func (o *Client) perform(ctx context.Context, path string, params Params) (*Response, error) {
	path = strings.TrimLeft(path, "/")

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	//
	// Build the request.
	//
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		o.baseURL+"/"+path,
		strings.NewReader(params.Encode()),
	)
	if err != nil {
		return nil, exchange.NewError(exchange.Transport, path, "failed to build request").WithCause(err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	//
	// Make the request to the endpoint.
	//
	httpResp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, exchange.NewError(exchange.Transport, path, "request failed").WithCause(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, exchange.NewError(exchange.Transport, path, "failed to read response body").WithCause(err)
	}

	resp := &Response{
		statusCode: httpResp.StatusCode,
		header:     httpResp.Header,
		body:       body,
	}

	//
	// Make sure the status code was a success.
	//
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return resp, exchange.NewHTTPError(path, httpResp.StatusCode, body)
	}

	return resp, nil
}

//
// decode checks a reply body for the exchange's error convention and unmarshals it into v.
//
func decode(path string, body []byte, v interface{}) error {
	if !json.Valid(body) {
		return exchange.NewError(exchange.Decode, path, "response body is not valid JSON").WithBody(body)
	}

	//
	// Check the response for API errors. Only objects can carry one; anything else (e.g. the array
	// of trades) simply fails to fit the envelope.
	//
	var envelope map[string]json.RawMessage

	if err := json.Unmarshal(body, &envelope); err == nil {
		if raw, ok := envelope["error"]; ok {
			return exchange.NewError(exchange.Remote, path, remoteMessage(raw)).WithBody(body)
		}
	}

	if v == nil {
		return nil
	}

	if err := json.Unmarshal(body, v); err != nil {
		return exchange.NewError(exchange.Decode, path, "unexpected response shape").WithBody(body).WithCause(err)
	}

	return nil
}

//
// remoteMessage extracts the exchange's error message. It is normally a string, but whatever was
// sent is passed on as-is.
//
func remoteMessage(raw json.RawMessage) string {
	var msg string

	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg
	}

	return string(raw)
}

//
// observe records the outcome and latency of a call.
//
func (o *Client) observe(path string, start time.Time, err error) {
	path = strings.TrimLeft(path, "/")
	outcome := metrics.OutcomeOK

	var exErr *exchange.Error

	if errors.As(err, &exErr) {
		outcome = exErr.Kind().String()
	} else if err != nil {
		outcome = exchange.Transport.String()
	}

	metrics.RequestsTotal.WithLabelValues(path, outcome).Inc()
	metrics.RequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
}

//
// notify emits a diagnostic message if the client is verbose. Notifications are advisory only.
//
func (o *Client) notify(format string, v ...interface{}) {
	if o.verbose {
		o.logger.Printf(format, v...)
	}
}
