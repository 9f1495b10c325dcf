package storage

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/ecolife/inventory/internal/core/domain"
	"github.com/ecolife/inventory/internal/port"
)

const (
	productKeyPrefix = "product:"
	productIndexKey  = "products"
	productSeqKey    = "products:seq"
)

// insertProductScript refuses ids that already have a hash, so the
// uniqueness check and the write happen atomically on the server.
var insertProductScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end

local seq = redis.call('INCR', KEYS[3])
redis.call('HSET', KEYS[1], 'name', ARGV[2], 'quantity', ARGV[3], 'price', ARGV[4])
redis.call('ZADD', KEYS[2], seq, ARGV[1])
return 1
`)

var updateStockScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end

redis.call('HSET', KEYS[1], 'quantity', ARGV[1], 'price', ARGV[2])
return 1
`)

// RedisTable keeps one hash per product plus a sorted set of ids scored by
// insertion sequence. Every key is prefixed with namespace.
type RedisTable struct {
	client    *redis.Client
	namespace string
}

func NewRedisTable(client *redis.Client, namespace string) *RedisTable {
	return &RedisTable{client: client, namespace: namespace}
}

func (r *RedisTable) productKey(id string) string { return r.namespace + productKeyPrefix + id }
func (r *RedisTable) indexKey() string { return r.namespace + productIndexKey }
func (r *RedisTable) seqKey() string { return r.namespace + productSeqKey }

// EnsureSchema only checks the server is reachable; Redis needs no schema.
func (r *RedisTable) EnsureSchema(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "redis: ping")
	}
	return nil
}

func (r *RedisTable) LoadAll(ctx context.Context) ([]domain.Product, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis: list product ids")
	}
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, r.productKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "redis: load products")
	}

	products := make([]domain.Product, 0, len(ids))
	for i, id := range ids {
		fields := cmds[i].Val()
		if len(fields) == 0 {
			// index entry without a hash, left behind by an interrupted delete
			continue
		}
		quantity, err := strconv.Atoi(fields["quantity"])
		if err != nil {
			return nil, errors.Wrapf(err, "redis: product %s quantity", id)
		}
		price, err := strconv.ParseFloat(fields["price"], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "redis: product %s price", id)
		}
		products = append(products, domain.NewProduct(id, fields["name"], quantity, price))
	}
	return products, nil
}

func (r *RedisTable) Insert(ctx context.Context, product domain.Product) error {
	keys := []string{r.productKey(product.ID()), r.indexKey(), r.seqKey()}
	result, err := insertProductScript.Run(ctx, r.client, keys,
		product.ID(),
		product.Name(),
		strconv.Itoa(product.Quantity()),
		formatPrice(product.Price()),
	).Int()
	if err != nil {
		return errors.Wrapf(err, "redis: insert product %s", product.ID())
	}
	if result == 0 {
		return errors.Wrapf(port.ErrDuplicateKey, "redis: insert product %s", product.ID())
	}
	return nil
}

func (r *RedisTable) UpdateStock(ctx context.Context, id string, quantity int, price float64) error {
	result, err := updateStockScript.Run(ctx, r.client, []string{r.productKey(id)},
		strconv.Itoa(quantity),
		formatPrice(price),
	).Int()
	if err != nil {
		return errors.Wrapf(err, "redis: update product %s", id)
	}
	if result == 0 {
		return errors.Wrapf(port.ErrRowMissing, "redis: update product %s", id)
	}
	return nil
}

func (r *RedisTable) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.productKey(id))
		pipe.ZRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "redis: delete product %s", id)
	}
	return nil
}

func (r *RedisTable) Close() error {
	return r.client.Close()
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
