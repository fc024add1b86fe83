package repository

import (
	"context"
	"fmt"

	"github.com/wisharea/storefront/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdRepository stores values as etcd keys under the configured prefix.
type EtcdRepository struct {
	kv     clientv3.KV
	client *clientv3.Client
	prefix string
}

func NewEtcdRepository(cfg *config.EtcdConfig) (*EtcdRepository, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return &EtcdRepository{
		kv:     cli,
		client: cli,
		prefix: cfg.Prefix,
	}, nil
}

// NewEtcdRepositoryWithKV wraps an existing etcd KV handle, e.g. a
// namespaced view or a test double.
func NewEtcdRepositoryWithKV(kv clientv3.KV, prefix string) *EtcdRepository {
	return &EtcdRepository{kv: kv, prefix: prefix}
}

func (e *EtcdRepository) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := e.kv.Get(ctx, e.prefix+key)
	if err != nil {
		return nil, fmt.Errorf("etcd get %s: %w", key, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, ErrNotFound
	}
	return resp.Kvs[0].Value, nil
}

func (e *EtcdRepository) Set(ctx context.Context, key string, value []byte) error {
	if _, err := e.kv.Put(ctx, e.prefix+key, string(value)); err != nil {
		return fmt.Errorf("etcd put %s: %w", key, err)
	}
	return nil
}

func (e *EtcdRepository) Del(ctx context.Context, key string) error {
	if _, err := e.kv.Delete(ctx, e.prefix+key); err != nil {
		return fmt.Errorf("etcd delete %s: %w", key, err)
	}
	return nil
}

func (e *EtcdRepository) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}
