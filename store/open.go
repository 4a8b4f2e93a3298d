package store

import (
	"fmt"
	"log/slog"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendEtcd   = "etcd"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is one of "memory", "badger", "redis" or "etcd".
	Backend string `yaml:"backend" validate:"omitempty,oneof=memory badger redis etcd"`

	Badger BadgerConfig `yaml:"badger"`
	Redis  RedisConfig  `yaml:"redis"`
	Etcd   EtcdConfig   `yaml:"etcd"`
}

// Open creates the store described by cfg. An empty backend selects the
// in-memory store.
func Open(cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendBadger:
		return OpenBadger(cfg.Badger, logger.With("component", "badger"))
	case BackendRedis:
		return NewRedis(cfg.Redis)
	case BackendEtcd:
		return NewEtcd(cfg.Etcd)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}
