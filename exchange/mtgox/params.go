package mtgox

import (
	"net/url"
)

//
// Params maps POST field names to values for a single call. A fresh map is built for every call
// and is not touched once it has been handed to Perform.
//
type Params map[string]string

//
// Encode form-encodes the parameters ("application/x-www-form-urlencoded"), sorted by key.
//
func (o Params) Encode() string {
	values := make(url.Values, len(o))

	for key, value := range o {
		values.Set(key, value)
	}

	return values.Encode()
}

//
// credentials is the immutable account login attached to every private request.
//
type credentials struct {
	username string
	password string
}

//
// params builds the parameter mapping for a private call: the login fields plus the operation's
// own fields, and nothing else.
//
func (o credentials) params(fields Params) Params {
	ret := make(Params, len(fields)+2)

	for key, value := range fields {
		ret[key] = value
	}

	ret[nameField] = o.username
	ret[passField] = o.password

	return ret
}
