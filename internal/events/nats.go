package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// ClientName identifies console connections on the NATS server.
const ClientName = "sankalp-console"

// subscriptionBuffer is how many undelivered events a watcher may lag
// behind before new ones are dropped.
const subscriptionBuffer = 64

// NATSPublisher publishes console activity as JSON to NATS subjects.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string, opts ...nats.Option) (*NATSPublisher, error) {
	nc, err := connect(url, opts)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: nc}, nil
}

// Publish sends event to topic. The send is buffered by the NATS client;
// ctx only guards against publishing after the caller has given up.
func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", topic, err)
	}
	return p.conn.Publish(topic, data)
}

// Flush waits until the server has received everything published so far.
func (p *NATSPublisher) Flush() error {
	return p.conn.Flush()
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// NATSSubscriber feeds `sankalp watch`. It reconnects forever, so a
// restarted broker resumes the stream without restarting the watcher.
type NATSSubscriber struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewNATSSubscriber(url string, opts ...nats.Option) (*NATSSubscriber, error) {
	nc, err := connect(url, append([]nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}, opts...))
	if err != nil {
		return nil, err
	}
	return &NATSSubscriber{conn: nc, logger: slog.Default()}, nil
}

func connect(url string, opts []nats.Option) (*nats.Conn, error) {
	nc, err := nats.Connect(url, append([]nats.Option{nats.Name(ClientName)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// Subscribe delivers events matching topic, which may be a wildcard such as
// TopicAll. The subscription is registered on the server before Subscribe
// returns.
func (s *NATSSubscriber) Subscribe(topic string) (<-chan Message, func(), error) {
	sc := &subscription{topic: topic, ch: make(chan Message, subscriptionBuffer)}

	sub, err := s.conn.Subscribe(topic, sc.deliver)
	if err != nil {
		close(sc.ch)
		return nil, nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	if err := s.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		close(sc.ch)
		return nil, nil, fmt.Errorf("registering subscription to %s: %w", topic, err)
	}
	sc.sub = sub

	cancel := func() {
		if dropped := sc.cancel(); dropped > 0 {
			s.logger.Warn("events: watcher fell behind", "topic", topic, "dropped", dropped)
		}
	}
	return sc.ch, cancel, nil
}

// SetLogger replaces the logger used to report events dropped by a slow
// watcher. It must be called before Subscribe.
func (s *NATSSubscriber) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}

// subscription hands NATS messages to a buffered channel without ever
// blocking the NATS dispatch goroutine.
type subscription struct {
	topic string
	sub   *nats.Subscription
	ch    chan Message

	mu      sync.Mutex
	closed  bool
	dropped int
	once    sync.Once
}

func (sc *subscription) deliver(msg *nats.Msg) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.closed {
		return
	}
	select {
	case sc.ch <- Message{Topic: msg.Subject, Data: msg.Data}:
	default:
		sc.dropped++
	}
}

// cancel unsubscribes and closes the channel. It is safe to call more than
// once and returns how many events were dropped over the subscription's life.
func (sc *subscription) cancel() int {
	sc.once.Do(func() {
		_ = sc.sub.Unsubscribe()
		sc.mu.Lock()
		sc.closed = true
		close(sc.ch)
		sc.mu.Unlock()
	})
	sc.mu.Lock()
	defer sc.mu.Unlock()
	dropped := sc.dropped
	sc.dropped = 0
	return dropped
}
