package handler

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ecolife/inventory/internal/adapter/storage"
	"github.com/ecolife/inventory/internal/core/domain"
	"github.com/ecolife/inventory/internal/core/service"
)

func newTestInventory(t *testing.T, seed ...domain.Product) (*service.InventoryService, *storage.MemoryTable) {
	t.Helper()
	table := storage.NewMemoryTable(seed...)
	svc := service.NewInventoryService(table, nil, zerolog.Nop())
	require.NoError(t, svc.Initialize(context.Background()))
	return svc, table
}

var bamboo = domain.NewProduct("ECO001", "Cepillo de Bambú", 10, 2.99)
