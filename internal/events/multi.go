package events

import (
	"context"
	"errors"

	"github.com/bhuumii/Medium/internal/domain"
)

// Multi fans a post event out to several publishers (e.g. NATS plus the
// in-process websocket hub). Every publisher is attempted; errors are joined.
type Multi []domain.EventPublisher

// NewMulti composes publishers, skipping nil entries. Returns nil when no
// publisher remains, so the service's nil check handles the unconfigured
// case.
func NewMulti(publishers ...domain.EventPublisher) domain.EventPublisher {
	var active Multi
	for _, p := range publishers {
		if p != nil {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return active
}

func (m Multi) PostPublished(ctx context.Context, event domain.PostEvent) error {
	var errs []error
	for _, p := range m {
		errs = append(errs, p.PostPublished(ctx, event))
	}
	return errors.Join(errs...)
}

func (m Multi) PostLiked(ctx context.Context, event domain.PostEvent) error {
	var errs []error
	for _, p := range m {
		errs = append(errs, p.PostLiked(ctx, event))
	}
	return errors.Join(errs...)
}
