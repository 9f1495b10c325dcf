// Package app assembles the inventory from configuration: the product table
// for the selected backend, the event publishers and the service itself.
package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ecolife/inventory/internal/adapter/events"
	"github.com/ecolife/inventory/internal/adapter/storage"
	"github.com/ecolife/inventory/internal/config"
	"github.com/ecolife/inventory/internal/core/service"
	"github.com/ecolife/inventory/internal/port"
)

// OpenTable connects to the backend named in cfg.
func OpenTable(cfg config.Config) (port.ProductTable, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return storage.OpenSQLite(cfg.SQLitePath)
	case config.BackendMySQL:
		return storage.OpenMySQL(cfg.MySQLDSN)
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		return storage.NewRedisTable(client, cfg.RedisNamespace), nil
	case config.BackendMemory:
		return storage.NewMemoryTable(), nil
	default:
		return nil, errors.Wrapf(config.ErrUnknownBackend, "backend %q", cfg.Backend)
	}
}

// OpenPublisher always logs events and also sends them to RabbitMQ when an
// AMQP URL is configured. A broker that cannot be reached is logged and skipped.
func OpenPublisher(cfg config.Config, logger zerolog.Logger) (port.EventPublisher, func()) {
	fanout := events.Fanout{events.NewLogPublisher(logger)}
	if cfg.AMQPURL == "" {
		return fanout, func() {}
	}

	amqpPublisher, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPQueue)
	if err != nil {
		logger.Warn().Err(err).Msg("event broker unavailable, publishing to log only")
		return fanout, func() {}
	}
	logger.Info().Str("queue", cfg.AMQPQueue).Msg("publishing events to rabbitmq")

	return append(fanout, amqpPublisher), func() {
		if err := amqpPublisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing event broker connection")
		}
	}
}

// OpenInventory builds and initializes the service. The returned close func
// releases the table and the publishers.
func OpenInventory(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*service.InventoryService, func(), error) {
	table, err := OpenTable(cfg)
	if errors.Is(err, config.ErrUnknownBackend) {
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, errors.Wrapf(service.ErrStorageUnavailable, "open %s backend: %v", cfg.Backend, err)
	}

	publisher, closePublisher := OpenPublisher(cfg, logger)
	svc := service.NewInventoryService(table, publisher, logger)

	if err := svc.Initialize(ctx); err != nil {
		table.Close()
		closePublisher()
		return nil, nil, err
	}

	logger.Info().Str("backend", cfg.Backend).Msg("inventory ready")
	return svc, func() {
		if err := svc.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing product table")
		}
		closePublisher()
	}, nil
}
