package mtgox

import (
	"net/http"
)

//
// Response wraps the reply to a single call. Each call gets its own Response; nothing is reused
// across calls.
//
type Response struct {
	statusCode int
	header     http.Header
	body       []byte
}

func (o *Response) StatusCode() int {
	return o.statusCode
}

func (o *Response) Header() http.Header {
	return o.header
}

//
// Body returns the raw response body exactly as it was received.
//
func (o *Response) Body() []byte {
	return o.body
}
