package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const flushTimeout = 2 * time.Second

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

type NatsPublisher struct {
	nc      Conn
	subject string
}

func NewNatsPublisher(nc Conn, subject string) *NatsPublisher {
	if subject == "" {
		subject = DefaultOrderPlacedSubject
	}
	return &NatsPublisher{nc: nc, subject: subject}
}

// Connect dials the server at url and names the connection after service.
func Connect(url, service string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name(service), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

// PublishOrderPlaced sends the event and waits for the server to acknowledge
// the flush, bounded by ctx or flushTimeout when ctx has no deadline.
func (p *NatsPublisher) PublishOrderPlaced(ctx context.Context, e OrderPlaced) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}

	data, err := e.Payload()
	if err != nil {
		return fmt.Errorf("encode order placed: %w", err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return p.nc.FlushWithContext(ctx)
}
