package events

import "context"

// NoopPublisher drops every event. The console uses it when SANKALP_NATS_URL
// is unset or the broker is unreachable.
type NoopPublisher struct{}

var _ Publisher = (*NoopPublisher)(nil)

func (*NoopPublisher) Publish(ctx context.Context, _ string, _ any) error {
	return ctx.Err()
}

func (*NoopPublisher) Close() error { return nil }
