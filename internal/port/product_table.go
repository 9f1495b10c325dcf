package port

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ecolife/inventory/internal/core/domain"
)

var (
	// ErrDuplicateKey is returned when the backing store rejects a row whose id it already holds.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrRowMissing is returned when an update targets an id the backing store does not hold.
	ErrRowMissing = errors.New("row missing")

	// ErrConstraint is returned when a healthy store refuses the row's values (NOT NULL, CHECK, range).
	ErrConstraint = errors.New("constraint violated")
)

// ProductTable is the persistent copy of the inventory. Any error other than
// ErrDuplicateKey, ErrRowMissing and ErrConstraint means the store itself
// could not be used.
type ProductTable interface {
	// EnsureSchema creates the backing tables if they are absent
	EnsureSchema(ctx context.Context) error

	// LoadAll returns every persisted product in insertion order where the backend keeps one
	LoadAll(ctx context.Context) ([]domain.Product, error)

	Insert(ctx context.Context, product domain.Product) error

	// UpdateStock overwrites quantity and price of an existing row
	UpdateStock(ctx context.Context, id string, quantity int, price float64) error

	// Delete removes the row; deleting an absent id is not an error
	Delete(ctx context.Context, id string) error

	Close() error
}
