package storage

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/ecolife/inventory/internal/core/domain"
	"github.com/ecolife/inventory/internal/port"
)

// MemoryTable is a ProductTable that lives only as long as the process. It
// enforces the same key rules as the SQL tables.
type MemoryTable struct {
	mu     sync.Mutex
	rows   map[string]domain.Product
	order  []string
	closed bool
}

func NewMemoryTable(seed ...domain.Product) *MemoryTable {
	t := &MemoryTable{rows: make(map[string]domain.Product)}
	for _, p := range seed {
		if _, ok := t.rows[p.ID()]; ok {
			continue
		}
		t.rows[p.ID()] = p
		t.order = append(t.order, p.ID())
	}
	return t
}

var errMemoryClosed = errors.New("memory table closed")

func (t *MemoryTable) EnsureSchema(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errMemoryClosed
	}
	return nil
}

func (t *MemoryTable) LoadAll(ctx context.Context) ([]domain.Product, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errMemoryClosed
	}

	products := make([]domain.Product, 0, len(t.order))
	for _, id := range t.order {
		products = append(products, t.rows[id])
	}
	return products, nil
}

func (t *MemoryTable) Insert(ctx context.Context, product domain.Product) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errMemoryClosed
	}

	if _, ok := t.rows[product.ID()]; ok {
		return errors.Wrapf(port.ErrDuplicateKey, "memory: insert product %s", product.ID())
	}
	t.rows[product.ID()] = product
	t.order = append(t.order, product.ID())
	return nil
}

func (t *MemoryTable) UpdateStock(ctx context.Context, id string, quantity int, price float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errMemoryClosed
	}

	current, ok := t.rows[id]
	if !ok {
		return errors.Wrapf(port.ErrRowMissing, "memory: update product %s", id)
	}
	t.rows[id] = domain.NewProduct(id, current.Name(), quantity, price)
	return nil
}

func (t *MemoryTable) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errMemoryClosed
	}

	if _, ok := t.rows[id]; !ok {
		return nil
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *MemoryTable) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
