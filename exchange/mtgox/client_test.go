package mtgox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/lukehollenback/mtgox/exchange"
	"github.com/lukehollenback/mtgox/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// fakeExchange is a stand-in for the exchange's HTTP API. It answers each endpoint path with a
// canned status and body and records every request it receives.
//
type fakeExchange struct {
	mu       sync.Mutex
	replies  map[string]fakeReply
	requests []fakeRequest
}

type fakeReply struct {
	status int
	body   string
}

type fakeRequest struct {
	path string
	form url.Values
}

func newFakeExchange() *fakeExchange {
	return &fakeExchange{
		replies: make(map[string]fakeReply),
	}
}

func (o *fakeExchange) reply(path string, status int, body string) *fakeExchange {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.replies["/"+path] = fakeReply{status: status, body: body}

	return o
}

func (o *fakeExchange) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	o.mu.Lock()
	o.requests = append(o.requests, fakeRequest{path: r.URL.Path, form: r.PostForm})
	reply, ok := o.replies[r.URL.Path]
	o.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.status)
	_, _ = io.WriteString(w, reply.body)
}

func (o *fakeExchange) recorded() []fakeRequest {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]fakeRequest(nil), o.requests...)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		Username: "alice",
		Password: "s3cret",
		BaseURL:  srv.URL,
		Timeout:  2 * time.Second,
		Logger:   log.New(io.Discard, "", 0),
	})
}

// operations exercises every public and private call through the exchange.Client interface.
var operations = map[string]func(context.Context, exchange.Client) error{
	"ticker": func(ctx context.Context, c exchange.Client) error {
		_, err := c.Ticker(ctx)
		return err
	},
	"depth": func(ctx context.Context, c exchange.Client) error {
		_, err := c.Depth(ctx)
		return err
	},
	"trades": func(ctx context.Context, c exchange.Client) error {
		_, err := c.Trades(ctx)
		return err
	},
	"balance": func(ctx context.Context, c exchange.Client) error {
		_, err := c.Balance(ctx)
		return err
	},
	"orders": func(ctx context.Context, c exchange.Client) error {
		_, err := c.Orders(ctx)
		return err
	},
	"buy": func(ctx context.Context, c exchange.Client) error {
		_, err := c.Buy(ctx, decimal.NewFromInt(2), decimal.RequireFromString("0.95"))
		return err
	},
	"sell": func(ctx context.Context, c exchange.Client) error {
		_, err := c.Sell(ctx, decimal.NewFromInt(2), decimal.RequireFromString("0.95"))
		return err
	},
	"cancel": func(ctx context.Context, c exchange.Client) error {
		_, err := c.CancelOrder(ctx, "42")
		return err
	},
}

var allPaths = []string{
	TickerPath, DepthPath, TradesPath, FundsPath, OrdersPath, BuyPath, SellPath, CancelOrderPath,
}

func TestNonSuccessStatusIsTransportError(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusForbidden, http.StatusInternalServerError, http.StatusBadGateway} {
		fake := newFakeExchange()

		for _, path := range allPaths {
			fake.reply(path, status, "<html>down for maintenance</html>")
		}

		client := newTestClient(t, fake)

		for name, op := range operations {
			err := op(context.Background(), client)

			require.Error(t, err, "%s with status %d", name, status)
			assert.True(t, errors.Is(err, exchange.ErrTransport), "%s with status %d: %v", name, status, err)

			var exErr *exchange.Error

			if assert.True(t, errors.As(err, &exErr)) {
				assert.Equal(t, status, exErr.StatusCode())
				assert.Equal(t, "<html>down for maintenance</html>", string(exErr.Body()))
			}
		}
	}
}

func TestConnectionFaultIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(Config{
		BaseURL: srv.URL,
		Logger:  log.New(io.Discard, "", 0),
	})

	for name, op := range operations {
		err := op(context.Background(), client)

		assert.True(t, errors.Is(err, exchange.ErrTransport), "%s: %v", name, err)
	}
}

func TestTimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
		Logger:  log.New(io.Discard, "", 0),
	})

	_, err := client.Ticker(context.Background())

	assert.True(t, errors.Is(err, exchange.ErrTransport), "%v", err)
}

func TestErrorFieldIsRemoteErrorForEveryOperation(t *testing.T) {
	const msg = "Not logged in. Invalid name or pass: \"alice\""

	fake := newFakeExchange()

	for _, path := range allPaths {
		fake.reply(path, http.StatusOK, fmt.Sprintf(`{"error": %q}`, msg))
	}

	client := newTestClient(t, fake)

	for name, op := range operations {
		err := op(context.Background(), client)

		require.Error(t, err, name)
		assert.True(t, errors.Is(err, exchange.ErrRemote), "%s: %v", name, err)

		var apiErr exchange.APIError

		if assert.True(t, errors.As(err, &apiErr), name) {
			assert.Equal(t, msg, apiErr.Message(), name)
		}
	}
}

func TestNonStringErrorFieldIsPassedOnRaw(t *testing.T) {
	fake := newFakeExchange().reply(FundsPath, http.StatusOK, `{"error": {"code": 7}}`)
	client := newTestClient(t, fake)

	_, err := client.Balance(context.Background())

	var exErr *exchange.Error

	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, exchange.Remote, exErr.Kind())
	assert.Equal(t, `{"code": 7}`, exErr.Message())
}

func TestMalformedBodyIsDecodeError(t *testing.T) {
	fake := newFakeExchange()

	for _, path := range allPaths {
		fake.reply(path, http.StatusOK, `{"ticker": {"last": `)
	}

	client := newTestClient(t, fake)

	for name, op := range operations {
		err := op(context.Background(), client)

		assert.True(t, errors.Is(err, exchange.ErrDecode), "%s: %v", name, err)
	}
}

func TestRequestReturnsDecodedValue(t *testing.T) {
	fake := newFakeExchange().reply("code/custom.php", http.StatusOK, `{"status": "ok", "count": 3}`)
	client := newTestClient(t, fake)

	var v struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}

	resp, err := client.Request(context.Background(), "code/custom.php", Params{"a": "b"}, &v)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "ok", v.Status)
	assert.Equal(t, 3, v.Count)
	assert.JSONEq(t, `{"status": "ok", "count": 3}`, string(resp.Body()))
}

func TestPerformReturnsRawBody(t *testing.T) {
	fake := newFakeExchange().reply("code/plain.php", http.StatusOK, "not json at all")
	client := newTestClient(t, fake)

	resp, err := client.Perform(context.Background(), "code/plain.php", Params{})

	require.NoError(t, err)
	assert.Equal(t, "not json at all", string(resp.Body()))
}

func TestLeadingSlashIsNormalized(t *testing.T) {
	fake := newFakeExchange().reply(TradesPath, http.StatusOK, `[]`)
	client := newTestClient(t, fake)

	_, err := client.Perform(context.Background(), "/"+TradesPath, Params{})
	require.NoError(t, err)

	requests := fake.recorded()

	require.Len(t, requests, 1)
	assert.Equal(t, "/"+TradesPath, requests[0].path)
}

func TestPerformSendsFormEncodedPost(t *testing.T) {
	var method, contentType string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")

		_, _ = io.WriteString(w, `{}`)
	}))

	_, err := client.Perform(context.Background(), TickerPath, Params{"x": "y"})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
}

func TestConcurrentCallsDoNotShareState(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()

		_, _ = fmt.Fprintf(w, `{"n": %q}`, r.PostForm.Get("n"))
	}))

	var wg sync.WaitGroup

	results := make([]string, 32)

	for i := range results {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			var v struct {
				N string `json:"n"`
			}

			if _, err := client.Request(context.Background(), "code/echo.php", Params{"n": fmt.Sprint(i)}, &v); err == nil {
				results[i] = v.N
			}
		}(i)
	}

	wg.Wait()

	for i, n := range results {
		assert.Equal(t, fmt.Sprint(i), n)
	}
}

func TestRequestsAreCounted(t *testing.T) {
	fake := newFakeExchange().
		reply(TickerPath, http.StatusOK, `{"ticker": {"last": "1"}}`).
		reply(DepthPath, http.StatusOK, `{"error": "busy"}`)
	client := newTestClient(t, fake)

	okBefore := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(TickerPath, metrics.OutcomeOK))
	remoteBefore := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(DepthPath, "remote"))

	_, _ = client.Ticker(context.Background())
	_, _ = client.Depth(context.Background())

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(TickerPath, metrics.OutcomeOK)))
	assert.Equal(t, remoteBefore+1, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(DepthPath, "remote")))
}

func TestDefaults(t *testing.T) {
	client := NewClient(Config{})

	assert.Equal(t, BaseURL, client.baseURL)
	assert.Equal(t, StreamURL, client.streamURL)
	assert.Equal(t, 10*time.Second, client.timeout)
	assert.True(t, client.minimumAmount.Equal(decimal.NewFromInt(1)))
	assert.False(t, client.verbose)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.logger)
}

func TestBaseURLTrailingSlashIsTrimmed(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://example.com/"})

	assert.Equal(t, "https://example.com", client.baseURL)
}

func TestVerboseNotifiesBeforeOrders(t *testing.T) {
	fake := newFakeExchange().reply(BuyPath, http.StatusOK, `{"oid": "abc"}`)
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	var out bytes.Buffer

	client := NewClient(Config{
		BaseURL: srv.URL,
		Verbose: true,
		Logger:  log.New(&out, "", 0),
	})

	_, err := client.Buy(context.Background(), decimal.NewFromInt(3), decimal.NewFromInt(10))

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Issuing a buy order for")
}

func TestQuietClientDoesNotNotify(t *testing.T) {
	fake := newFakeExchange().reply(SellPath, http.StatusOK, `{"oid": "abc"}`)
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	var out bytes.Buffer

	client := NewClient(Config{
		BaseURL: srv.URL,
		Logger:  log.New(&out, "", 0),
	})

	_, err := client.Sell(context.Background(), decimal.NewFromInt(3), decimal.NewFromInt(10))

	require.NoError(t, err)
	assert.Empty(t, out.String())
}
