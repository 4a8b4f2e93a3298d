package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zero-day-ai/xplor/graph"
)

// RedisConfig configures a Redis store.
type RedisConfig struct {
	// URL is the Redis connection string, e.g. "redis://localhost:6379/0".
	URL string `yaml:"url"`

	// Prefix is prepended to every key. Default: "xplor:graph:".
	Prefix string `yaml:"prefix"`

	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// Redis stores each graph as one string value.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to the server described by cfg and checks it answers.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.URL == "" {
		cfg.URL = "redis://localhost:6379"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.DialTimeout = cfg.ConnectTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisFromClient(client, cfg.Prefix), nil
}

// NewRedisFromClient wraps an existing client. Close closes client.
func NewRedisFromClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "xplor:graph:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(collection string) string {
	return r.prefix + collection
}

func (r *Redis) Get(ctx context.Context, collection string) (*graph.Graph, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	data, err := r.client.Get(ctx, r.key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %s: %w", collection, err)
	}
	return decode(collection, data)
}

func (r *Redis) Put(ctx context.Context, collection string, g *graph.Graph) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}
	data, err := encode(g)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(collection), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to put collection %s: %w", collection, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, collection string) error {
	if err := r.client.Del(ctx, r.key(collection)).Err(); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", collection, err)
	}
	return nil
}

func (r *Redis) List(ctx context.Context) ([]string, error) {
	var out []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// Ping sends a PING command.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
