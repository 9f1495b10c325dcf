package port

import (
	"context"

	"github.com/ecolife/inventory/internal/core/domain"
)

type EventPublisher interface {
	// Publish announces a committed mutation; failures never undo the mutation
	Publish(ctx context.Context, event domain.Event) error
}
