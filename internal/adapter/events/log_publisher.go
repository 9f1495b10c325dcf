package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ecolife/inventory/internal/core/domain"
)

// LogPublisher writes one structured line per inventory event.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "events").Logger()}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.logger.Info().
		Str("event", string(event.Type)).
		Str("id", event.ProductID).
		Str("name", event.Name).
		Int("quantity", event.Quantity).
		Float64("price", event.Price).
		Time("occurred_at", event.OccurredAt).
		Msg("inventory event")
	return nil
}
