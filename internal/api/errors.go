package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed fetch
type ErrorKind int

const (
	KindTransport  ErrorKind = iota + 1 // no response reached the client
	KindHTTPStatus                      // response status outside 2xx
	KindNoData                          // 2xx with an empty body
	KindDecode                          // body does not match the expected schema
)

// User-facing messages, one per kind. Transport errors show their cause instead.
const (
	MsgInvalidResponse = "Invalid response from the server."
	MsgNoData          = "No data received from the server."
	MsgDecode          = "Failed to decode data."
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http_status"
	case KindNoData:
		return "no_data"
	case KindDecode:
		return "decode"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// FetchError is returned by every Client fetch. Kind is always set;
// StatusCode only for KindHTTPStatus, Err for the underlying cause when there is one.
type FetchError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
	case KindNoData:
		return fmt.Sprintf("GET %s: empty response body", e.URL)
	}
	if e.Err != nil {
		return fmt.Sprintf("GET %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("GET %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a FetchError anywhere in err's chain, or 0
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// UserMessage maps an error to the text shown to the user.
// Transport failures, and errors that are not FetchErrors, surface their cause.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		return err.Error()
	}
	switch fe.Kind {
	case KindHTTPStatus:
		return MsgInvalidResponse
	case KindNoData:
		return MsgNoData
	case KindDecode:
		return MsgDecode
	}
	if fe.Err != nil {
		return fe.Err.Error()
	}
	return fe.Error()
}
