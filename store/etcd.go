package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zero-day-ai/xplor/graph"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdConfig configures an etcd store.
type EtcdConfig struct {
	// Endpoints lists the cluster members, e.g. ["localhost:2379"].
	Endpoints []string `yaml:"endpoints"`

	// Namespace is the key prefix. Graphs live under /{namespace}/graphs/.
	// Default: "xplor".
	Namespace string `yaml:"namespace"`

	DialTimeout time.Duration `yaml:"dial_timeout"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
}

// Etcd stores each graph under one key of an etcd cluster. etcd caps values
// at its request size limit (1.5 MiB by default), which bounds the size of a
// collection.
type Etcd struct {
	client    *clientv3.Client
	namespace string
}

// NewEtcd connects to the cluster described by cfg.
func NewEtcd(cfg EtcdConfig) (*Etcd, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
		Username:    cfg.Username,
		Password:    cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}
	return NewEtcdFromClient(cli, cfg.Namespace), nil
}

// NewEtcdFromClient wraps an existing client. Close closes client.
func NewEtcdFromClient(client *clientv3.Client, namespace string) *Etcd {
	if namespace == "" {
		namespace = "xplor"
	}
	return &Etcd{client: client, namespace: namespace}
}

// prefix returns /{namespace}/graphs/.
func (e *Etcd) prefix() string {
	return etcdPrefix(e.namespace)
}

func etcdPrefix(namespace string) string {
	return fmt.Sprintf("/%s/graphs/", namespace)
}

func etcdKey(namespace, collection string) string {
	return etcdPrefix(namespace) + collection
}

func (e *Etcd) Get(ctx context.Context, collection string) (*graph.Graph, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	resp, err := e.client.Get(ctx, etcdKey(e.namespace, collection))
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %s: %w", collection, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, ErrNotFound
	}
	return decode(collection, resp.Kvs[0].Value)
}

func (e *Etcd) Put(ctx context.Context, collection string, g *graph.Graph) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}
	data, err := encode(g)
	if err != nil {
		return err
	}
	if _, err := e.client.Put(ctx, etcdKey(e.namespace, collection), string(data)); err != nil {
		return fmt.Errorf("failed to put collection %s: %w", collection, err)
	}
	return nil
}

func (e *Etcd) Delete(ctx context.Context, collection string) error {
	if _, err := e.client.Delete(ctx, etcdKey(e.namespace, collection)); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", collection, err)
	}
	return nil
}

func (e *Etcd) List(ctx context.Context) ([]string, error) {
	prefix := e.prefix()
	resp, err := e.client.Get(ctx, prefix,
		clientv3.WithPrefix(),
		clientv3.WithKeysOnly(),
		clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	out := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		out = append(out, strings.TrimPrefix(string(kv.Key), prefix))
	}
	return out, nil
}

// Ping reads a key to check the cluster answers.
func (e *Etcd) Ping(ctx context.Context) error {
	if _, err := e.client.Get(ctx, "health-check"); err != nil {
		return fmt.Errorf("etcd health check failed: %w", err)
	}
	return nil
}

func (e *Etcd) Close() error {
	return e.client.Close()
}
