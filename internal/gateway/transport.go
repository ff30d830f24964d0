package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// Request is one outbound call as handed to a Transport. Params already
// include the reserved action, token and callback keys.
type Request struct {
	Callback string
	Params   map[string]string
}

// Response is the raw reply to a Request. Callback is the handler name the
// backend addressed (empty for plain JSON replies); Body is the JSON envelope.
type Response struct {
	Callback string
	Body     []byte
}

// Transport carries a Request to the backend and returns its reply. It must
// honour ctx: the gateway cancels it once the call is resolved.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// ErrMalformedResponse is returned when a reply is neither a JSON envelope
// nor a JSONP call wrapping one.
var ErrMalformedResponse = errors.New("malformed response")

// MaxResponseSize caps how much of a reply body HTTPTransport reads.
const MaxResponseSize = 4 << 20

// ErrResponseTooLarge is returned for replies longer than MaxResponseSize.
var ErrResponseTooLarge = errors.New("response too large")

// StatusError is returned by HTTPTransport for non-2xx replies.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// HTTPTransport talks to a script-hosted backend with plain GET requests. The
// backend answers with `callback({...})` when a callback param is present,
// which is the form browsers consume through script injection; plain JSON
// replies are accepted too.
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPTransport creates a transport targeting the given endpoint URL. A
// nil client means http.DefaultClient (redirects are followed, which the
// hosted script endpoints rely on).
func NewHTTPTransport(baseURL string, httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPTransport{
		baseURL:    strings.TrimRight(baseURL, "?&"),
		httpClient: httpClient,
	}
}

// Send performs the GET request and unwraps the reply.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	q := url.Values{}
	for k, v := range req.Params {
		q.Set(k, v)
	}
	sep := "?"
	if strings.Contains(t.baseURL, "?") {
		sep = "&"
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+sep+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/javascript, application/json")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}
	if resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	return ParseResponse(body)
}

var jsonpPattern = regexp.MustCompile(`(?s)^([A-Za-z_$][A-Za-z0-9_$]*)\s*\((.*)\)\s*;?$`)

// ParseResponse splits a reply body into callback name and JSON envelope.
func ParseResponse(body []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if trimmed[0] == '{' {
		return &Response{Body: trimmed}, nil
	}
	m := jsonpPattern.FindSubmatch(trimmed)
	if m == nil {
		return nil, fmt.Errorf("%w: not JSON or JSONP", ErrMalformedResponse)
	}
	return &Response{Callback: string(m[1]), Body: bytes.TrimSpace(m[2])}, nil
}
