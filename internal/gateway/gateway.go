// Package gateway is the single channel between the console and the
// institute backend.
//
// Every backend action goes through Gateway.Call, which attaches the session
// token and a per-call correlation id, arms a timeout, hands the request to a
// Transport and resolves to a Result. A call is resolved exactly once: by the
// backend's reply, by a transport failure, by the timeout, or by the caller's
// context. Whichever comes first removes the call from the pending table; the
// others find nothing there and do nothing.
package gateway

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/sankalp/internal/idgen"
)

// DefaultTimeout is how long a call may stay unanswered.
const DefaultTimeout = 18 * time.Second

// Reserved request keys. Caller params with these names are overwritten.
const (
	ParamAction   = "action"
	ParamToken    = "token"
	ParamCallback = "callback"
)

// TokenSource supplies the session token attached to every call.
type TokenSource interface {
	CurrentToken() string
}

// Gateway issues backend calls and tracks the ones in flight.
type Gateway struct {
	transport Transport
	tokens    TokenSource
	timeout   time.Duration
	logger    *slog.Logger
	newID     func() (string, error)

	mu      sync.Mutex
	pending map[string]*pendingCall
}

type pendingCall struct {
	action string
	start  time.Time
	done   chan Result
	timer  *time.Timer
	cancel context.CancelFunc
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithIDFunc replaces the correlation id generator.
func WithIDFunc(fn func() (string, error)) Option {
	return func(g *Gateway) { g.newID = fn }
}

// New creates a gateway. tokens may be nil, in which case every call carries
// an empty token.
func New(transport Transport, tokens TokenSource, opts ...Option) *Gateway {
	g := &Gateway{
		transport: transport,
		tokens:    tokens,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
		newID:     idgen.Generate,
		pending:   make(map[string]*pendingCall),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Call performs one backend action. It never returns an error: timeouts,
// transport failures and backend failures all come back as a failed Result.
func (g *Gateway) Call(ctx context.Context, action string, params map[string]string) Result {
	if action == "" {
		g.logger.Error("gateway: call without action")
		return Failure(KindTransport, MsgNetwork)
	}

	callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	id, p, err := g.register(action, cancel)
	if err != nil {
		cancel()
		g.logger.Error("gateway: allocating correlation id", "action", action, "error", err)
		return Failure(KindTransport, MsgNetwork)
	}

	req := &Request{Callback: id, Params: g.compose(action, id, params)}
	g.logger.Debug("gateway: call", "action", action, "callback", id)

	go func() {
		resp, err := g.transport.Send(callCtx, req)
		if err != nil {
			if g.resolve(id, Failure(KindTransport, MsgNetwork)) {
				g.logger.Warn("gateway: transport failure", "action", action, "callback", id, "error", err)
			}
			return
		}
		g.deliver(id, resp)
	}()

	select {
	case res := <-p.done:
		return res
	case <-ctx.Done():
		g.resolve(id, Failure(KindTransport, MsgCancelled))
		return <-p.done
	}
}

// Pending returns the number of calls still in flight.
func (g *Gateway) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// Close resolves every in-flight call as cancelled.
func (g *Gateway) Close() error {
	g.mu.Lock()
	ids := make([]string, 0, len(g.pending))
	for id := range g.pending {
		ids = append(ids, id)
	}
	g.mu.Unlock()
	for _, id := range ids {
		g.resolve(id, Failure(KindTransport, MsgCancelled))
	}
	return nil
}

// register allocates a correlation id unique among in-flight calls and
// installs the pending entry and its timer. The entry exists before the
// request is sent, so no reply can arrive for an unknown id.
func (g *Gateway) register(action string, cancel context.CancelFunc) (string, *pendingCall, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var id string
	for {
		var err error
		id, err = g.newID()
		if err != nil {
			return "", nil, err
		}
		if _, taken := g.pending[id]; !taken {
			break
		}
	}

	p := &pendingCall{
		action: action,
		start:  time.Now(),
		done:   make(chan Result, 1),
		cancel: cancel,
	}
	// The timer callback takes g.mu, so it cannot observe p before this
	// function returns.
	p.timer = time.AfterFunc(g.timeout, func() {
		if g.resolve(id, Failure(KindTimeout, MsgTimeout)) {
			g.logger.Warn("gateway: call timed out", "action", action, "callback", id, "timeout", g.timeout)
		}
	})
	g.pending[id] = p
	return id, p, nil
}

func (g *Gateway) compose(action, id string, params map[string]string) map[string]string {
	out := make(map[string]string, len(params)+3)
	for k, v := range params {
		out[k] = v
	}
	token := ""
	if g.tokens != nil {
		token = g.tokens.CurrentToken()
	}
	out[ParamAction] = action
	out[ParamToken] = token
	out[ParamCallback] = id
	return out
}

// deliver routes a reply to the call it names. A reply addressed to another
// handler, or one that cannot be decoded, fails this call as a transport
// error.
func (g *Gateway) deliver(id string, resp *Response) {
	if resp.Callback != "" && resp.Callback != id {
		if g.resolve(id, Failure(KindTransport, MsgNetwork)) {
			g.logger.Warn("gateway: reply addressed to another handler", "callback", id, "got", resp.Callback)
		}
		return
	}
	res, err := decodeEnvelope(resp.Body)
	if err != nil {
		if g.resolve(id, Failure(KindTransport, MsgNetwork)) {
			g.logger.Warn("gateway: undecodable reply", "callback", id, "error", err)
		}
		return
	}
	g.resolve(id, res)
}

// resolve completes the call with res if it is still pending and releases
// its timer, transport context and table entry. It reports whether this
// invocation was the one that completed the call.
func (g *Gateway) resolve(id string, res Result) bool {
	g.mu.Lock()
	p, ok := g.pending[id]
	if ok {
		delete(g.pending, id)
	}
	g.mu.Unlock()
	if !ok {
		return false
	}

	p.timer.Stop()
	p.cancel()
	p.done <- res

	g.logger.Debug("gateway: resolved",
		"action", p.action,
		"callback", id,
		"ok", res.OK,
		"kind", res.Kind.String(),
		"elapsed", time.Since(p.start),
	)
	return true
}
