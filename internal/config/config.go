package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envPrefix = "ecolife"

var ErrUnknownBackend = errors.New("unknown backend")

const (
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is read from ECOLIFE_* variables. LogLevel may stay empty so each
// command can pick its own default.
type Config struct {
	Backend         string        `envconfig:"BACKEND" default:"sqlite"`
	SQLitePath      string        `envconfig:"SQLITE_PATH" default:"instance/ecolife_inventory.db"`
	MySQLDSN        string        `envconfig:"MYSQL_DSN" default:"root:root@tcp(localhost:3306)/ecolife"`
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	RedisNamespace  string        `envconfig:"REDIS_NAMESPACE" default:"ecolife:"`
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	AMQPURL         string        `envconfig:"AMQP_URL"`
	AMQPQueue       string        `envconfig:"AMQP_QUEUE" default:"ecolife.inventory.events"`
	LogLevel        string        `envconfig:"LOG_LEVEL"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"console"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: read environment")
	}
	cfg.Normalize()
	return cfg, cfg.Validate()
}

// Normalize lowercases the names matched against fixed values. Call it again
// after overriding fields.
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendMySQL, BackendRedis, BackendMemory:
	default:
		return errors.Wrapf(ErrUnknownBackend, "config: backend %q", c.Backend)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return errors.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("config: shutdown timeout must be positive")
	}
	return nil
}
