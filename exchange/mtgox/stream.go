package mtgox

import (
	"context"
	"encoding/json"

	"github.com/lukehollenback/mtgox/exchange"
	"github.com/lukehollenback/mtgox/metrics"
	"github.com/shopspring/decimal"

	ws "github.com/gorilla/websocket"
)

const (
	PrivateTicker = "ticker"
	PrivateTrade  = "trade"
	PrivateDepth  = "depth"

	OpPrivate     = "private"
	OpRemark      = "remark"
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
)

//
// DepthUpdate is a single change to the order book pushed by the streaming feed.
//
type DepthUpdate struct {
	Side   string
	Price  decimal.Decimal
	Volume decimal.Decimal
}

//
// Message is a single message read from the streaming feed. Depending on Private, at most one of
// Ticker, Trade, and Depth is set. Remark carries the text of "remark" operations.
//
type Message struct {
	Channel string
	Op      string
	Origin  string
	Private string
	Remark  string
	Ticker  *exchange.Ticker
	Trade   *exchange.Trade
	Depth   *DepthUpdate
}

type depthUpdatePayload struct {
	TypeStr string          `json:"type_str"`
	Price   decimal.Decimal `json:"price"`
	Volume  decimal.Decimal `json:"volume"`
}

type messagePayload struct {
	Channel string              `json:"channel"`
	Op      string              `json:"op"`
	Origin  string              `json:"origin"`
	Private string              `json:"private"`
	Message string              `json:"message"`
	Ticker  json.RawMessage     `json:"ticker"`
	Trade   *tradePayload       `json:"trade"`
	Depth   *depthUpdatePayload `json:"depth"`
}

type commandPayload struct {
	Op      string `json:"op"`
	Channel string `json:"channel"`
}

//
// Stream is a connection to the exchange's streaming feed. Each stream owns its connection; the
// Client that opened it keeps no reference to it. A Stream must not be read from concurrently.
//
type Stream struct {
	url  string
	conn *ws.Conn
}

//
// Stream connects to the exchange's streaming feed. The handshake is bounded by the context and the
// client's timeout.
//
func (o *Client) Stream(ctx context.Context) (*Stream, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	dialer := ws.Dialer{
		HandshakeTimeout: o.timeout,
	}

	conn, _, err := dialer.DialContext(ctx, o.streamURL, nil)
	if err != nil {
		return nil, exchange.NewError(exchange.Transport, o.streamURL, "failed to connect to the streaming feed").WithCause(err)
	}

	o.logger.Printf("Connected to the streaming feed at %s.", o.streamURL)

	return &Stream{
		url:  o.streamURL,
		conn: conn,
	}, nil
}

//
// Next blocks until the next message arrives and returns it.
//
func (o *Stream) Next() (*Message, error) {
	_, data, err := o.conn.ReadMessage()
	if err != nil {
		return nil, exchange.NewError(exchange.Transport, o.url, "failed to read from the streaming feed").WithCause(err)
	}

	var p messagePayload

	if err := json.Unmarshal(data, &p); err != nil {
		return nil, exchange.NewError(exchange.Decode, o.url, "malformed streaming message").WithBody(data).WithCause(err)
	}

	msg := &Message{
		Channel: p.Channel,
		Op:      p.Op,
		Origin:  p.Origin,
		Private: p.Private,
		Remark:  p.Message,
	}

	switch p.Private {
	case PrivateTicker:
		if p.Ticker != nil {
			if msg.Ticker, err = mapTicker(p.Ticker); err != nil {
				return nil, exchange.NewError(exchange.Decode, o.url, "malformed ticker message").WithBody(data).WithCause(err)
			}
		}
	case PrivateTrade:
		if p.Trade != nil {
			trade := p.Trade.trade()
			msg.Trade = &trade
		}
	case PrivateDepth:
		if p.Depth != nil {
			msg.Depth = &DepthUpdate{
				Side:   p.Depth.TypeStr,
				Price:  p.Depth.Price,
				Volume: p.Depth.Volume,
			}
		}
	}

	if msg.Private != "" {
		metrics.StreamMessagesTotal.WithLabelValues(msg.Private).Inc()
	} else {
		metrics.StreamMessagesTotal.WithLabelValues(msg.Op).Inc()
	}

	return msg, nil
}

//
// Unsubscribe tells the feed to stop sending messages for the specified channel.
//
func (o *Stream) Unsubscribe(channel string) error {
	cmd := commandPayload{
		Op:      OpUnsubscribe,
		Channel: channel,
	}

	if err := o.conn.WriteJSON(cmd); err != nil {
		return exchange.NewError(exchange.Transport, o.url, "failed to unsubscribe").WithCause(err)
	}

	return nil
}

//
// Close closes the underlying connection.
//
func (o *Stream) Close() error {
	return o.conn.Close()
}
