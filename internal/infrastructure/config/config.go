package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Storage  StorageConfig
	Registry RegistryConfig
	Lock     LockConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

type AuthConfig struct {
	Enabled   bool   `env:"AUTH_ENABLED, default=false"`
	JWTSecret string `env:"JWT_SECRET"`
}

// StorageConfig selects where offers, dispatches and the registries live.
// The seed lists are loaded into the registries of either backend at startup.
type StorageConfig struct {
	Backend      string `env:"STORAGE_BACKEND, default=memory"`
	SeedRequests string `env:"SEED_REQUESTS"`
	SeedDrivers  string `env:"SEED_DRIVERS"`
}

type RegistryConfig struct {
	Timeout time.Duration `env:"REGISTRY_TIMEOUT, default=2s"`
	// DriverCacheTTL enables the Redis driver lookup cache when positive. It
	// also bounds how long a deactivated driver can still be resolved.
	DriverCacheTTL time.Duration `env:"DRIVER_CACHE_TTL, default=0s"`
}

type LockConfig struct {
	Backend string        `env:"LOCK_BACKEND, default=memory"`
	Timeout time.Duration `env:"LOCK_TIMEOUT, default=5s"`
	TTL     time.Duration `env:"LOCK_TTL,     default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dispatch_coordinator"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// KafkaConfig enables the lifecycle event publisher when Brokers is set.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS"`
	Topic   string   `env:"KAFKA_TOPIC, default=dispatch.lifecycle"`
}

// Load reads an optional .env file, then the process environment, and
// validates the result.
func Load(ctx context.Context, dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.Lock.Backend = strings.ToLower(strings.TrimSpace(c.Lock.Backend))

	switch c.Storage.Backend {
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("config: STORAGE_BACKEND must be %q or %q, got %q", BackendMemory, BackendMongo, c.Storage.Backend)
	}
	switch c.Lock.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("config: LOCK_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.Lock.Backend)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required when AUTH_ENABLED is true")
	}
	if c.Lock.Backend == BackendRedis && c.Lock.TTL <= 0 {
		return errors.New("config: LOCK_TTL must be positive")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("config: KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// UsesRedis reports whether any enabled component needs a Redis client.
func (c *Config) UsesRedis() bool {
	return c.Lock.Backend == BackendRedis || c.Registry.DriverCacheTTL > 0
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
