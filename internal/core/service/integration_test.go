package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecolife/inventory/internal/adapter/storage"
	"github.com/ecolife/inventory/internal/core/domain"
	"github.com/ecolife/inventory/internal/core/service"
	"github.com/ecolife/inventory/internal/port"
)

func openService(t *testing.T, table port.ProductTable) *service.InventoryService {
	t.Helper()
	svc := service.NewInventoryService(table, nil, zerolog.Nop())
	require.NoError(t, svc.Initialize(context.Background()))
	return svc
}

// exercise runs the same add/update/remove sequence against any backend and
// returns the expected surviving products.
func exercise(t *testing.T, svc *service.InventoryService) []domain.Product {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, domain.NewProduct("ECO001", "Cepillo de Bambú", 10, 2.99)))
	require.NoError(t, svc.Add(ctx, domain.NewProduct("ECO002", "Panel solar", 3, 120)))
	require.NoError(t, svc.Add(ctx, domain.NewProduct("ECO003", "Bolsa de algodón", 40, 3.5)))

	assert.ErrorIs(t, svc.Add(ctx, domain.NewProduct("ECO001", "Duplicado", 1, 1)), service.ErrDuplicateID)

	quantity := 5
	_, err := svc.Update(ctx, "ECO001", service.UpdateRequest{Quantity: &quantity})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "ECO002"))
	assert.ErrorIs(t, svc.Remove(ctx, "ECO002"), service.ErrNotFound)

	all, err := svc.ListAll()
	require.NoError(t, err)
	return all
}

func TestIntegration_SQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance", "ecolife_inventory.db")

	table, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	first := openService(t, table)
	want := exercise(t, first)
	require.NoError(t, first.Close())

	reopened, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	second := openService(t, reopened)
	defer second.Close()

	got, err := second.ListAll()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	bamboo, err := second.Get("ECO001")
	require.NoError(t, err)
	assert.Equal(t, 5, bamboo.Quantity())
	assert.Equal(t, 2.99, bamboo.Price())

	matches, err := second.SearchByName("bambu")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestIntegration_RedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	namespace := "ecolife-integration:"
	keys, _ := client.Keys(ctx, namespace+"*").Result()
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}

	first := openService(t, storage.NewRedisTable(client, namespace))
	want := exercise(t, first)

	second := openService(t, storage.NewRedisTable(client, namespace))
	got, err := second.ListAll()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, second.Close())
}

func TestIntegration_MySQLRoundTrip(t *testing.T) {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/ecolife"
	}

	table, err := storage.OpenMySQL(dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	ctx := context.Background()
	table.DB().ExecContext(ctx, `DELETE FROM products WHERE id IN ('ECO001', 'ECO002', 'ECO003')`)

	first := openService(t, table)
	want := exercise(t, first)
	require.NoError(t, first.Close())

	reopened, err := storage.OpenMySQL(dsn)
	require.NoError(t, err)
	second := openService(t, reopened)
	defer second.Close()

	all, err := second.ListAll()
	require.NoError(t, err)
	var got []domain.Product
	for _, p := range all {
		if strings.HasPrefix(p.ID(), "ECO00") {
			got = append(got, p)
		}
	}
	assert.Equal(t, want, got)
}
