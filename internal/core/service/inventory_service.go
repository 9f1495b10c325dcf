package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ecolife/inventory/internal/core/domain"
	"github.com/ecolife/inventory/internal/port"
)

// UpdateRequest carries the fields to change; a nil field is left as is.
type UpdateRequest struct {
	Quantity *int
	Price    *float64
}

// UpdateResult is the committed product plus every field the setters refused.
type UpdateResult struct {
	Product  domain.Product
	Rejected []error
}

// InventoryService keeps an in-memory view of the products table. Storage is
// written first and memory only follows once the write succeeded, so after
// every operation the two agree.
type InventoryService struct {
	mu        sync.Mutex
	table     port.ProductTable
	publisher port.EventPublisher
	logger    zerolog.Logger

	products map[string]domain.Product
	order    []string
	ready    bool
}

func NewInventoryService(table port.ProductTable, publisher port.EventPublisher, logger zerolog.Logger) *InventoryService {
	return &InventoryService{
		table:     table,
		publisher: publisher,
		logger:    logger.With().Str("component", "inventory").Logger(),
		products:  make(map[string]domain.Product),
	}
}

// Initialize creates the schema if needed and loads every persisted row. It
// must succeed before any other operation is accepted.
func (s *InventoryService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	if err := s.table.EnsureSchema(ctx); err != nil {
		s.logger.Error().Err(err).Msg("schema setup failed")
		return fmt.Errorf("ensure schema: %w: %w", ErrStorageUnavailable, err)
	}

	rows, err := s.table.LoadAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("loading products failed")
		return fmt.Errorf("load products: %w: %w", ErrStorageUnavailable, err)
	}

	s.products = make(map[string]domain.Product, len(rows))
	s.order = make([]string, 0, len(rows))
	for _, p := range rows {
		if _, dup := s.products[p.ID()]; dup {
			continue
		}
		s.products[p.ID()] = p
		s.order = append(s.order, p.ID())
	}
	s.ready = true

	s.logger.Info().Int("products", len(s.order)).Msg("inventory loaded")
	return nil
}

func (s *InventoryService) Add(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotInitialized
	}

	log := s.logger.With().Str("id", product.ID()).Logger()

	if _, ok := s.products[product.ID()]; ok {
		log.Warn().Msg("product already exists")
		return fmt.Errorf("add %s: %w", product.ID(), ErrDuplicateID)
	}

	if err := s.table.Insert(ctx, product); err != nil {
		err = classify("add "+product.ID(), err)
		logFailure(log, err, "add product failed")
		return err
	}

	s.products[product.ID()] = product
	s.order = append(s.order, product.ID())

	log.Info().Str("name", product.Name()).Msg("product added")
	s.publish(ctx, domain.NewEvent(domain.EventProductAdded, product))
	return nil
}

func (s *InventoryService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotInitialized
	}

	log := s.logger.With().Str("id", id).Logger()

	product, ok := s.products[id]
	if !ok {
		log.Warn().Msg("product not found")
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}

	if err := s.table.Delete(ctx, id); err != nil {
		err = classify("remove "+id, err)
		logFailure(log, err, "remove product failed")
		return err
	}

	delete(s.products, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	log.Info().Msg("product removed")
	s.publish(ctx, domain.NewEvent(domain.EventProductRemoved, product))
	return nil
}

// Update applies each requested field through its setter. Fields are checked
// one by one, so a valid quantity is still committed next to a rejected price.
func (s *InventoryService) Update(ctx context.Context, id string, req UpdateRequest) (UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return UpdateResult{}, ErrNotInitialized
	}

	log := s.logger.With().Str("id", id).Logger()

	current, ok := s.products[id]
	if !ok {
		log.Warn().Msg("product not found")
		return UpdateResult{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}

	working := current
	var rejected []error
	if req.Quantity != nil {
		if err := working.SetQuantity(*req.Quantity); err != nil {
			log.Warn().Err(err).Int("quantity", *req.Quantity).Msg("quantity rejected")
			rejected = append(rejected, err)
		}
	}
	if req.Price != nil {
		if err := working.SetPrice(*req.Price); err != nil {
			log.Warn().Err(err).Float64("price", *req.Price).Msg("price rejected")
			rejected = append(rejected, err)
		}
	}

	if err := s.table.UpdateStock(ctx, id, working.Quantity(), working.Price()); err != nil {
		err = classify("update "+id, err)
		logFailure(log, err, "update product failed")
		return UpdateResult{Product: current, Rejected: rejected}, err
	}

	s.products[id] = working

	log.Info().Int("quantity", working.Quantity()).Float64("price", working.Price()).Msg("product updated")
	s.publish(ctx, domain.NewEvent(domain.EventProductUpdated, working))
	return UpdateResult{Product: working, Rejected: rejected}, nil
}

func (s *InventoryService) Get(id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return domain.Product{}, ErrNotInitialized
	}

	product, ok := s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return product, nil
}

// SearchByName matches substring against product names ignoring case and
// accents. No match yields an empty slice and ErrNotFound.
func (s *InventoryService) SearchByName(substring string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotInitialized
	}

	needle := foldName(substring)
	matches := []domain.Product{}
	for _, id := range s.order {
		product := s.products[id]
		if strings.Contains(foldName(product.Name()), needle) {
			matches = append(matches, product)
		}
	}

	if len(matches) == 0 {
		s.logger.Info().Str("query", substring).Msg("no products matched")
		return matches, fmt.Errorf("search %q: %w", substring, ErrNotFound)
	}
	return matches, nil
}

// ListAll returns every product in insertion order, or ErrEmpty when there is none.
func (s *InventoryService) ListAll() ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotInitialized
	}

	all := make([]domain.Product, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.products[id])
	}

	if len(all) == 0 {
		return all, ErrEmpty
	}
	return all, nil
}

// Close releases the table. The service rejects every operation afterwards.
func (s *InventoryService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ready = false
	return s.table.Close()
}

func (s *InventoryService) publish(ctx context.Context, event domain.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("event", string(event.Type)).Str("id", event.ProductID).Msg("publish event failed")
	}
}

func classify(op string, err error) error {
	if errors.Is(err, port.ErrDuplicateKey) || errors.Is(err, port.ErrRowMissing) || errors.Is(err, port.ErrConstraint) {
		return fmt.Errorf("%s: %w: %w", op, ErrStorageIntegrity, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

func logFailure(log zerolog.Logger, err error, msg string) {
	if IsFatal(err) {
		log.Error().Err(err).Msg(msg)
		return
	}
	log.Warn().Err(err).Msg(msg)
}
