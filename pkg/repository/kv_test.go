package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisharea/storefront/pkg/config"
	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// fakeEtcdKV implements the subset of clientv3.KV the repository calls.
type fakeEtcdKV struct {
	clientv3.KV
	data map[string]string
}

func newFakeEtcdKV() *fakeEtcdKV {
	return &fakeEtcdKV{data: make(map[string]string)}
}

func (f *fakeEtcdKV) Put(_ context.Context, key, val string, _ ...clientv3.OpOption) (*clientv3.PutResponse, error) {
	f.data[key] = val
	return &clientv3.PutResponse{}, nil
}

func (f *fakeEtcdKV) Get(_ context.Context, key string, _ ...clientv3.OpOption) (*clientv3.GetResponse, error) {
	resp := &clientv3.GetResponse{}
	if v, ok := f.data[key]; ok {
		resp.Kvs = []*mvccpb.KeyValue{{Key: []byte(key), Value: []byte(v)}}
		resp.Count = 1
	}
	return resp, nil
}

func (f *fakeEtcdKV) Delete(_ context.Context, key string, _ ...clientv3.OpOption) (*clientv3.DeleteResponse, error) {
	delete(f.data, key)
	return &clientv3.DeleteResponse{}, nil
}

// exerciseKV runs the same contract checks against every backend.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "wish-area-cart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "wish-area-cart", []byte(`[{"quantity":2}]`)))
	got, err := kv.Get(ctx, "wish-area-cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"quantity":2}]`, string(got))

	require.NoError(t, kv.Set(ctx, "wish-area-cart", []byte(`[]`)))
	got, err = kv.Get(ctx, "wish-area-cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	require.NoError(t, kv.Del(ctx, "wish-area-cart"))
	_, err = kv.Get(ctx, "wish-area-cart")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting an absent key is not an error
	assert.NoError(t, kv.Del(ctx, "never-written"))
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", buf))
	buf[0] = 'z'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestRedisRepository(t *testing.T) {
	srv := miniredis.RunT(t)
	repo := NewRedisRepository(&config.RedisConfig{Addr: srv.Addr()})
	defer repo.Close()

	require.NoError(t, repo.Ping(context.Background()))
	exerciseKV(t, repo)
}

func TestRedisRepository_NoExpiry(t *testing.T) {
	srv := miniredis.RunT(t)
	repo := NewRedisRepository(&config.RedisConfig{Addr: srv.Addr()})
	defer repo.Close()

	require.NoError(t, repo.Set(context.Background(), "wish-area-auth", []byte(`{}`)))
	assert.Zero(t, srv.TTL("wish-area-auth"))
}

func TestEtcdRepository(t *testing.T) {
	fake := newFakeEtcdKV()
	repo := NewEtcdRepositoryWithKV(fake, "/wish-area/")
	exerciseKV(t, repo)

	require.NoError(t, repo.Set(context.Background(), "wish-area-wishlist", []byte("[]")))
	_, ok := fake.data["/wish-area/wish-area-wishlist"]
	assert.True(t, ok, "keys are stored under the prefix")
	assert.NoError(t, repo.Close())
}

func TestNamespace(t *testing.T) {
	base := NewMemoryKV()
	a := Namespace(base, "session-a")
	b := Namespace(base, "session-b")
	ctx := context.Background()

	exerciseKV(t, a)

	require.NoError(t, a.Set(ctx, "wish-area-cart", []byte("a")))
	require.NoError(t, b.Set(ctx, "wish-area-cart", []byte("b")))

	got, err := a.Get(ctx, "wish-area-cart")
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))

	assert.ElementsMatch(t, []string{"session-a:wish-area-cart", "session-b:wish-area-cart"}, base.Keys())
	assert.Same(t, base, Namespace(base, ""))
}

func TestJSONHelpers(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	type line struct {
		ID  string `json:"id"`
		Qty int    `json:"quantity"`
	}

	var out []line
	assert.ErrorIs(t, GetJSON(ctx, kv, "lines", &out), ErrNotFound)

	require.NoError(t, SetJSON(ctx, kv, "lines", []line{{"prod-001", 2}}))
	require.NoError(t, GetJSON(ctx, kv, "lines", &out))
	assert.Equal(t, []line{{"prod-001", 2}}, out)

	require.NoError(t, kv.Set(ctx, "broken", []byte("{")))
	err := GetJSON(ctx, kv, "broken", &out)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
