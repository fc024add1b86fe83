package repository

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by KV.Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// KV is the durable key-value layer the client-side stores persist into.
// Values are opaque bytes; callers store JSON.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

func SetJSON(ctx context.Context, kv KV, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, data)
}

// GetJSON decodes the value under key into dest. It returns ErrNotFound
// untouched so callers can tell "never written" from a corrupt blob.
func GetJSON(ctx context.Context, kv KV, key string, dest interface{}) error {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

type namespaced struct {
	kv     KV
	prefix string
}

// Namespace scopes every key of kv under prefix + ":".
func Namespace(kv KV, prefix string) KV {
	if prefix == "" {
		return kv
	}
	return &namespaced{kv: kv, prefix: prefix + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.kv.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.kv.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Del(ctx context.Context, key string) error {
	return n.kv.Del(ctx, n.prefix+key)
}
