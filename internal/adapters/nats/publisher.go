package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/benchpoint/benchpoint/internal/core/domain"
)

// Subjects carried on the MARKER_EVENTS stream.
const (
	SubjectCreated  = "benchpoint.marker.created"
	SubjectUpdated  = "benchpoint.marker.updated"
	SubjectDeleted  = "benchpoint.marker.deleted"
	SubjectWildcard = "benchpoint.marker.>"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream, and ensures the
// marker event stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      "MARKER_EVENTS",
		Subjects:  []string{SubjectWildcard},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist — try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishMarkerCreated(ctx context.Context, m *domain.Marker) error {
	return p.publish(SubjectCreated, m)
}

func (p *Publisher) PublishMarkerUpdated(ctx context.Context, m *domain.Marker) error {
	return p.publish(SubjectUpdated, m)
}

func (p *Publisher) PublishMarkerDeleted(ctx context.Context, id int64) error {
	_, err := p.js.Publish(SubjectDeleted, []byte(`{"id":`+strconv.FormatInt(id, 10)+`}`))
	return err
}

func (p *Publisher) publish(subject string, m *domain.Marker) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data)
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. the
// WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
