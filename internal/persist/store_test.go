package persist

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func backends(t *testing.T) map[string]Store {
	t.Helper()

	_, client := setupTestRedis(t)

	sqlite, err := OpenSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)

	out := map[string]Store{
		"memory": NewMemStore(),
		"redis":  NewRedisStore(client, "test:"),
		"sqlite": sqlite,
	}
	t.Cleanup(func() {
		for _, s := range out {
			_ = s.Close()
		}
	})
	return out
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Ping(ctx))

			_, found, err := s.Get(ctx, KeyCart)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.Put(ctx, KeyCart, []byte(`[1]`)))
			require.NoError(t, s.Put(ctx, KeyCart, []byte(`[1,2]`)))

			v, found, err := s.Get(ctx, KeyCart)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `[1,2]`, string(v))

			require.NoError(t, s.Delete(ctx, KeyCart))
			require.NoError(t, s.Delete(ctx, KeyCart), "deleting a missing key is not an error")

			_, found, err = s.Get(ctx, KeyCart)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestRedisStore_UsesPrefix(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewRedisStore(client, "shop:")

	require.NoError(t, s.Put(context.Background(), KeySession, []byte(`{}`)))

	assert.True(t, mr.Exists("shop:currentUser"))
	assert.False(t, mr.Exists("currentUser"))
}

func TestMemStore_CopiesValues(t *testing.T) {
	s := NewMemStore()
	in := []byte("abc")
	require.NoError(t, s.Put(context.Background(), "k", in))
	in[0] = 'x'

	v, _, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr, _ := setupTestRedis(t)

	s, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemStore{}, s)

	s, err = Open(ctx, Options{Driver: DriverRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, Options{Driver: DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Driver: DriverPostgres})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
