package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// RequestEvent describes a lifecycle transition of an application request.
// Events identify the request only; credentials never travel on the bus.
type RequestEvent struct {
	Type      string    `json:"type"`
	RequestID uint      `json:"request_id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	SentAt    time.Time `json:"sent_at"`
}

// EventPublisher broadcasts request lifecycle events for downstream
// consumers (notification senders, sync jobs).
type EventPublisher interface {
	Publish(ctx context.Context, event RequestEvent)
}

type natsPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewEventPublisher constructs a NATS-backed publisher. A nil connection
// yields a publisher that drops events, so callers need no nil checks when
// the bus is not configured.
func NewEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) EventPublisher {
	if subject == "" {
		subject = "admissions.requests"
	}

	return &natsPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsPublisher) Publish(ctx context.Context, event RequestEvent) {
	if p.conn == nil {
		return
	}

	if event.SentAt.IsZero() {
		event.SentAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("type", event.Type).Msg("failed to encode request event")
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish request event")
	}
}
