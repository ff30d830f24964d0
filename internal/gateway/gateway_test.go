package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// funcTransport adapts a function to the Transport interface and records
// every request it sees.
type funcTransport struct {
	mu   sync.Mutex
	reqs []*Request
	fn   func(ctx context.Context, req *Request) (*Response, error)
}

func (t *funcTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	t.mu.Lock()
	t.reqs = append(t.reqs, req)
	t.mu.Unlock()
	return t.fn(ctx, req)
}

func (t *funcTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.reqs)
}

// waitSent blocks until the transport has seen n requests.
func (t *funcTransport) waitSent(tb testing.TB, n int) {
	tb.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for t.count() < n {
		if time.Now().After(deadline) {
			tb.Fatalf("transport saw %d requests, want %d", t.count(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func (t *funcTransport) last() *Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reqs[len(t.reqs)-1]
}

type staticToken string

func (s staticToken) CurrentToken() string { return string(s) }

func jsonp(req *Request, body string) *Response {
	return &Response{Callback: req.Callback, Body: []byte(body)}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(fn func(ctx context.Context, req *Request) (*Response, error), opts ...Option) (*Gateway, *funcTransport) {
	tr := &funcTransport{fn: fn}
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(tr, staticToken("tok-123"), opts...), tr
}

func TestCall_Success(t *testing.T) {
	g, _ := newTestGateway(func(_ context.Context, req *Request) (*Response, error) {
		return jsonp(req, `{"success":true,"data":{"token":"abc","username":"admin"}}`), nil
	})

	res := g.Call(context.Background(), "login", map[string]string{"username": "admin", "password": "pw"})
	if !res.OK {
		t.Fatalf("Call() failed: %+v", res)
	}
	var got struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	if err := res.Decode(&got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Token != "abc" || got.Username != "admin" {
		t.Errorf("decoded = %+v, want token=abc username=admin", got)
	}
	if n := g.Pending(); n != 0 {
		t.Errorf("Pending() = %d after success, want 0", n)
	}
}

func TestCall_PlainJSONReply(t *testing.T) {
	g, _ := newTestGateway(func(_ context.Context, _ *Request) (*Response, error) {
		return &Response{Body: []byte(`{"success":true,"data":[]}`)}, nil
	})
	if res := g.Call(context.Background(), "getStudents", nil); !res.OK {
		t.Fatalf("Call() failed: %+v", res)
	}
}

func TestCall_BackendFailure(t *testing.T) {
	for _, tc := range []struct {
		name     string
		msg      string
		wantKind ErrorKind
	}{
		{"Validation", "Category and Amount are required.", KindBackend},
		{"Credentials", "Invalid credentials.", KindBackend},
		{"InvalidToken", "Invalid token", KindUnauthorized},
		{"Unauthorized", "Unauthorized access", KindUnauthorized},
		{"UpperCase", "TOKEN EXPIRED", KindUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newTestGateway(func(_ context.Context, req *Request) (*Response, error) {
				body, _ := json.Marshal(map[string]any{"success": false, "error": tc.msg})
				return jsonp(req, string(body)), nil
			})
			res := g.Call(context.Background(), "addExpense", nil)
			if res.OK {
				t.Fatal("Call() succeeded, want failure")
			}
			if res.Error != tc.msg {
				t.Errorf("Error = %q, want %q", res.Error, tc.msg)
			}
			if res.Kind != tc.wantKind {
				t.Errorf("Kind = %v, want %v", res.Kind, tc.wantKind)
			}
			if g.Pending() != 0 {
				t.Errorf("Pending() = %d, want 0", g.Pending())
			}
		})
	}
}

func TestCall_TransportFailure(t *testing.T) {
	g, _ := newTestGateway(func(_ context.Context, _ *Request) (*Response, error) {
		return nil, errors.New("dial tcp: lookup script.example: no such host")
	})
	res := g.Call(context.Background(), "getStudents", nil)
	if res.OK || res.Error != MsgNetwork || res.Kind != KindTransport {
		t.Errorf("Call() = %+v, want transport failure %q", res, MsgNetwork)
	}
	if g.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", g.Pending())
	}
}

func TestCall_MalformedReply(t *testing.T) {
	for _, tc := range []struct {
		name string
		resp func(req *Request) *Response
	}{
		{"NotJSON", func(req *Request) *Response { return jsonp(req, `<html>`) }},
		{"MissingSuccess", func(req *Request) *Response { return jsonp(req, `{"data":[]}`) }},
		{"OtherHandler", func(_ *Request) *Response {
			return &Response{Callback: "sc_cb_other", Body: []byte(`{"success":true}`)}
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newTestGateway(func(_ context.Context, req *Request) (*Response, error) {
				return tc.resp(req), nil
			})
			res := g.Call(context.Background(), "getStudents", nil)
			if res.OK || res.Kind != KindTransport || res.Error != MsgNetwork {
				t.Errorf("Call() = %+v, want transport failure", res)
			}
			if g.Pending() != 0 {
				t.Errorf("Pending() = %d, want 0", g.Pending())
			}
		})
	}
}

func TestCall_Timeout(t *testing.T) {
	const timeout = 80 * time.Millisecond
	release := make(chan struct{})
	sent := make(chan struct{})
	g, _ := newTestGateway(func(ctx context.Context, req *Request) (*Response, error) {
		<-release
		defer close(sent)
		// A reply arriving after the timeout must not change the result.
		return jsonp(req, `{"success":true,"data":"late"}`), nil
	}, WithTimeout(timeout))

	start := time.Now()
	res := g.Call(context.Background(), "getStudents", nil)
	elapsed := time.Since(start)

	if res.OK || res.Error != MsgTimeout || res.Kind != KindTimeout {
		t.Fatalf("Call() = %+v, want timeout failure", res)
	}
	if elapsed < timeout {
		t.Errorf("resolved after %v, want at least %v", elapsed, timeout)
	}
	if g.Pending() != 0 {
		t.Errorf("Pending() = %d after timeout, want 0", g.Pending())
	}

	close(release)
	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("late reply never delivered")
	}
	if g.Pending() != 0 {
		t.Errorf("Pending() = %d after late reply, want 0", g.Pending())
	}
}

func TestCall_TimeoutCancelsTransportContext(t *testing.T) {
	cancelled := make(chan struct{})
	g, _ := newTestGateway(func(ctx context.Context, _ *Request) (*Response, error) {
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	}, WithTimeout(20*time.Millisecond))

	res := g.Call(context.Background(), "getStudents", nil)
	if res.Kind != KindTimeout {
		t.Fatalf("Kind = %v, want timeout", res.Kind)
	}
	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("transport context was not cancelled after timeout")
	}
}

func TestCall_DefaultTimeout(t *testing.T) {
	g := New(&funcTransport{}, nil)
	if g.timeout != 18*time.Second {
		t.Errorf("default timeout = %v, want 18s", g.timeout)
	}
}

func TestCall_CallerCancel(t *testing.T) {
	g, _ := newTestGateway(func(ctx context.Context, _ *Request) (*Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	res := g.Call(ctx, "getStudents", nil)
	if res.OK || res.Error != MsgCancelled {
		t.Errorf("Call() = %+v, want cancelled failure", res)
	}
	if g.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", g.Pending())
	}
}

func TestCall_TokenAttachment(t *testing.T) {
	ok := func(_ context.Context, req *Request) (*Response, error) {
		return jsonp(req, `{"success":true}`), nil
	}

	t.Run("WithSession", func(t *testing.T) {
		g, tr := newTestGateway(ok)
		g.Call(context.Background(), "getStudents", nil)
		if got := tr.last().Params[ParamToken]; got != "tok-123" {
			t.Errorf("token = %q, want tok-123", got)
		}
	})

	t.Run("NoSession", func(t *testing.T) {
		tr := &funcTransport{fn: ok}
		g := New(tr, staticToken(""), WithLogger(quietLogger()))
		g.Call(context.Background(), "login", nil)
		got, present := tr.last().Params[ParamToken]
		if !present || got != "" {
			t.Errorf("token = %q (present=%v), want present and empty", got, present)
		}
	})

	t.Run("NilTokenSource", func(t *testing.T) {
		tr := &funcTransport{fn: ok}
		g := New(tr, nil, WithLogger(quietLogger()))
		g.Call(context.Background(), "login", nil)
		if _, present := tr.last().Params[ParamToken]; !present {
			t.Error("token param missing")
		}
	})
}

func TestCall_ReservedKeysOverwritten(t *testing.T) {
	g, tr := newTestGateway(func(_ context.Context, req *Request) (*Response, error) {
		return jsonp(req, `{"success":true}`), nil
	})
	g.Call(context.Background(), "getStudents", map[string]string{
		"action":   "deleteStudent",
		"token":    "forged",
		"callback": "evil",
		"month":    "2024-01",
	})
	p := tr.last().Params
	if p[ParamAction] != "getStudents" {
		t.Errorf("action = %q, want getStudents", p[ParamAction])
	}
	if p[ParamToken] != "tok-123" {
		t.Errorf("token = %q, want tok-123", p[ParamToken])
	}
	if p[ParamCallback] != tr.last().Callback || p[ParamCallback] == "evil" {
		t.Errorf("callback = %q, want correlation id %q", p[ParamCallback], tr.last().Callback)
	}
	if p["month"] != "2024-01" {
		t.Errorf("month = %q, want 2024-01", p["month"])
	}
}

func TestCall_UniqueCorrelationIDs(t *testing.T) {
	const n = 50
	release := make(chan struct{})
	g, tr := newTestGateway(func(_ context.Context, req *Request) (*Response, error) {
		<-release
		return jsonp(req, `{"success":true}`), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Call(context.Background(), "getStudents", nil)
		}()
	}
	deadline := time.Now().Add(2 * time.Second)
	for g.Pending() < n && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := g.Pending(); got != n {
		t.Fatalf("Pending() = %d, want %d", got, n)
	}
	close(release)
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, req := range tr.reqs {
		if seen[req.Callback] {
			t.Errorf("duplicate correlation id %q", req.Callback)
		}
		seen[req.Callback] = true
	}
	if g.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", g.Pending())
	}
}

func TestCall_IDCollisionRetried(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	var mu sync.Mutex
	next := func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}
	release := make(chan struct{})
	g, tr := newTestGateway(func(_ context.Context, req *Request) (*Response, error) {
		<-release
		return jsonp(req, `{"success":true}`), nil
	}, WithIDFunc(next))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		g.Call(context.Background(), "getStudents", nil)
	}()
	tr.waitSent(t, 1)
	go func() {
		defer wg.Done()
		g.Call(context.Background(), "getExpenses", nil)
	}()
	tr.waitSent(t, 2)
	close(release)
	wg.Wait()

	tr.mu.Lock()
	defer tr.mu.Unlock()
	got := map[string]bool{}
	for _, r := range tr.reqs {
		got[r.Callback] = true
	}
	if !got["dup"] || !got["fresh"] {
		t.Errorf("callbacks = %v, want dup and fresh", got)
	}
}

func TestCall_IDGeneratorError(t *testing.T) {
	g, _ := newTestGateway(nil, WithIDFunc(func() (string, error) {
		return "", fmt.Errorf("entropy exhausted")
	}))
	res := g.Call(context.Background(), "getStudents", nil)
	if res.OK || res.Kind != KindTransport {
		t.Errorf("Call() = %+v, want transport failure", res)
	}
}

func TestCall_EmptyAction(t *testing.T) {
	g, tr := newTestGateway(nil)
	res := g.Call(context.Background(), "", nil)
	if res.OK {
		t.Fatal("Call(\"\") succeeded")
	}
	if len(tr.reqs) != 0 {
		t.Errorf("transport saw %d requests, want 0", len(tr.reqs))
	}
}

func TestResolve_SecondResolutionIsNoop(t *testing.T) {
	release := make(chan struct{})
	g, tr := newTestGateway(func(_ context.Context, req *Request) (*Response, error) {
		<-release
		return jsonp(req, `{"success":true}`), nil
	})

	out := make(chan Result, 1)
	go func() { out <- g.Call(context.Background(), "getStudents", nil) }()
	tr.waitSent(t, 1)
	id := tr.last().Callback

	if !g.resolve(id, Failure(KindTimeout, MsgTimeout)) {
		t.Fatal("first resolve returned false")
	}
	if g.resolve(id, Success(nil)) {
		t.Error("second resolve returned true")
	}
	close(release)

	res := <-out
	if res.Kind != KindTimeout {
		t.Errorf("Kind = %v, want timeout (first resolution)", res.Kind)
	}
}

func TestClose_ResolvesPending(t *testing.T) {
	g, _ := newTestGateway(func(ctx context.Context, _ *Request) (*Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	out := make(chan Result, 1)
	go func() { out <- g.Call(context.Background(), "getStudents", nil) }()
	for g.Pending() < 1 {
		time.Sleep(time.Millisecond)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	select {
	case res := <-out:
		if res.Error != MsgCancelled {
			t.Errorf("Error = %q, want %q", res.Error, MsgCancelled)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not resolve pending call")
	}
}

func TestResult_Decode(t *testing.T) {
	var v []int
	if err := Failure(KindBackend, "x").Decode(&v); !errors.Is(err, ErrNotSuccessful) {
		t.Errorf("Decode on failure error = %v, want ErrNotSuccessful", err)
	}
	if err := Success(json.RawMessage("null")).Decode(&v); err != nil || v != nil {
		t.Errorf("Decode(null) = %v, %v; want nil, nil", v, err)
	}
	if err := Success(json.RawMessage(`[1,2]`)).Decode(&v); err != nil || len(v) != 2 {
		t.Errorf("Decode([1,2]) = %v, %v", v, err)
	}
}

func TestErrorKind_String(t *testing.T) {
	for _, tc := range []struct {
		kind ErrorKind
		want string
	}{
		{KindNone, "none"},
		{KindTimeout, "timeout"},
		{KindTransport, "transport"},
		{KindBackend, "backend"},
		{KindUnauthorized, "unauthorized"},
		{ErrorKind(99), "ErrorKind(99)"},
	} {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", int(tc.kind), got, tc.want)
		}
	}
}
