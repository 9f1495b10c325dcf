package events

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ecolife/inventory/internal/core/domain"
	"github.com/ecolife/inventory/internal/port"
)

// Fanout hands each event to every publisher and returns the first failure.
type Fanout []port.EventPublisher

func (f Fanout) Publish(ctx context.Context, event domain.Event) error {
	var first error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil && first == nil {
			first = errors.Wrapf(err, "publish %s", event.Type)
		}
	}
	return first
}
