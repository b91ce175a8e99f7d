// Package events publishes post lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/bhuumii/Medium/internal/domain"
)

const (
	SubjectPostPublished = "post.published"
	SubjectPostLiked     = "post.liked"
)

// NATSPublisher implements domain.EventPublisher over a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Close drains and closes the NATS connection.
func (p *NATSPublisher) Close() {
	p.conn.Close()
}

// PostPublished publishes a post.published event.
func (p *NATSPublisher) PostPublished(_ context.Context, event domain.PostEvent) error {
	return p.publish(SubjectPostPublished, event)
}

// PostLiked publishes a post.liked event.
func (p *NATSPublisher) PostLiked(_ context.Context, event domain.PostEvent) error {
	return p.publish(SubjectPostLiked, event)
}

func (p *NATSPublisher) publish(subject string, event domain.PostEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.conn.Publish(subject, raw)
}
