package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Fixed failure messages produced by the gateway itself. Backend failures
// carry the backend's own message instead.
const (
	MsgTimeout   = "Request timed out."
	MsgNetwork   = "Network error. Check API URL."
	MsgCancelled = "Request cancelled."
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindTimeout
	KindTransport
	KindBackend
	KindUnauthorized
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindBackend:
		return "backend"
	case KindUnauthorized:
		return "unauthorized"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Result is the outcome of one backend action: either success with a data
// payload or failure with a human-readable message. Check OK before reading
// Data.
type Result struct {
	OK    bool            `json:"success"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
	Kind  ErrorKind       `json:"-"`
}

// Success builds a successful result.
func Success(data json.RawMessage) Result {
	return Result{OK: true, Data: data}
}

// Failure builds a failed result of the given kind.
func Failure(kind ErrorKind, msg string) Result {
	return Result{Error: msg, Kind: kind}
}

// BackendFailure builds a failure reported by the backend, classifying
// authorization failures by their message.
func BackendFailure(msg string) Result {
	return Failure(Classify(msg), msg)
}

// ErrNotSuccessful is returned by Decode on a failed result.
var ErrNotSuccessful = errors.New("gateway: result is not successful")

// Decode unmarshals the success payload into v. A missing or null payload
// leaves v untouched.
func (r Result) Decode(v any) error {
	if !r.OK {
		return ErrNotSuccessful
	}
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

// Unauthorized reports whether the result is an authorization failure.
func (r Result) Unauthorized() bool {
	return !r.OK && r.Kind == KindUnauthorized
}

// Classify maps a backend failure message to KindUnauthorized when it
// mentions a token or an unauthorized request, and KindBackend otherwise.
//
// The backend only reports errors as free text, so this is a substring match
// and breaks if the backend rewords or localizes its messages.
func Classify(msg string) ErrorKind {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "token") || strings.Contains(lower, "unauthorized") {
		return KindUnauthorized
	}
	return KindBackend
}

// envelope is the backend's wire shape for every action.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(body []byte) (Result, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if env.Success == nil {
		return Result{}, fmt.Errorf("%w: missing success flag", ErrMalformedResponse)
	}
	if *env.Success {
		return Success(env.Data), nil
	}
	return BackendFailure(env.Error), nil
}
