package datastore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/holmberd/go-reflectionstore/keyfactory"
	"github.com/holmberd/go-reflectionstore/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDSClient(
	t *testing.T,
	rsClient *redis.Client,
	opts ...Option,
) (*Client, context.Context, *keyfactory.Builder) {
	t.Helper()
	ctx := context.Background()

	// A random namespace isolates the data of each test.
	namespace := keyfactory.GenerateRandomKey()
	kb := keyfactory.NewBuilder(namespace)
	ds := NewClient(rsClient, opts...)

	t.Cleanup(func() {
		keyMatch, err := keyfactory.NewBuilder(namespace).
			WithWildcard(keyfactory.WildcardAnyString).
			Build()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ds.DeleteMatch(ctx, keyMatch); err != nil {
			t.Fatalf("failed to flush datastore: %v", err)
		}
	})
	return ds, ctx, kb
}

// putChildren writes n keys under parentKey and returns them.
func putChildren(
	t *testing.T,
	ctx context.Context,
	ds *Client,
	kb *keyfactory.Builder,
	parentKey string,
	n int,
) []*keyfactory.Key {
	t.Helper()
	keys := make([]*keyfactory.Key, 0, n)
	values := make([][]byte, 0, n)
	for i := range n {
		key, err := kb.WithParentKey(parentKey).WithKey(fmt.Sprint(i)).BuildAndReset()
		require.NoError(t, err)
		keys = append(keys, key)
		values = append(values, []byte("val"))
	}
	require.NoError(t, ds.PutMulti(ctx, keys, values))
	return keys
}

func matchChildren(t *testing.T, kb *keyfactory.Builder, parentKey string) *keyfactory.Key {
	t.Helper()
	keyMatch, err := kb.WithParentKey(parentKey).WithWildcard(keyfactory.WildcardAnyString).BuildAndReset()
	require.NoError(t, err)
	return keyMatch
}

func TestDatastoreClient(t *testing.T) {
	rsClient, server := testutil.NewRedisClientWithCleanup(t)
	defer server.Close()

	t.Run("Ping", func(t *testing.T) {
		ds, ctx, _ := setupDSClient(t, rsClient)
		assert.NoError(t, ds.Ping(ctx))
	})

	t.Run("Put and Get", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		key, err := kb.WithKey("put").Build()
		require.NoError(t, err)

		data := []byte{0x01, 0x00, 0xff}
		assert.NoError(t, ds.Put(ctx, key, data))

		got, err := ds.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("Put replaces existing value", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		key, err := kb.WithKey("replace").Build()
		require.NoError(t, err)

		require.NoError(t, ds.Put(ctx, key, []byte("old")))
		require.NoError(t, ds.Put(ctx, key, []byte("new")))
		got, err := ds.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("Get missing key", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		key, err := kb.WithKey("missing").Build()
		require.NoError(t, err)

		_, err = ds.Get(ctx, key)
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = ds.Get(ctx, nil)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("PutMulti and GetMulti", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		numKeys := 3
		keys := make([]*keyfactory.Key, numKeys)
		data := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
		for i := range numKeys {
			k, err := kb.WithKey(fmt.Sprintf("item-%d", i)).Build()
			require.NoError(t, err)
			keys[i] = k
		}
		assert.NoError(t, ds.PutMulti(ctx, keys, data))

		got, err := ds.GetMulti(ctx, keys)
		assert.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("GetMulti skips missing keys", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		present, err := kb.WithKey("present").Build()
		require.NoError(t, err)
		missing, err := kb.WithKey("absent").Build()
		require.NoError(t, err)
		require.NoError(t, ds.Put(ctx, present, []byte("here")))

		got, err := ds.GetMulti(ctx, []*keyfactory.Key{missing, present})
		assert.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte("here")}, got)
	})

	t.Run("PutMulti length mismatch", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		key, err := kb.WithKey("mismatch").Build()
		require.NoError(t, err)
		err = ds.PutMulti(ctx, []*keyfactory.Key{key}, nil)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("Expiration", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient, WithExpiration(time.Minute))
		assert.Equal(t, time.Minute, ds.Expiration())
		keys := putChildren(t, ctx, ds, kb, "ttl", 2)
		single, err := kb.WithKey("single").Build()
		require.NoError(t, err)
		require.NoError(t, ds.Put(ctx, single, []byte("v")))

		for _, k := range append(keys, single) {
			assert.Equal(t, time.Minute, server.TTL(k.RedisKey()), k.String())
		}
		server.FastForward(2 * time.Minute)
		exists, err := ds.Exists(ctx, single)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete and Exists", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		key, err := kb.WithKey("to-delete").Build()
		require.NoError(t, err)

		assert.NoError(t, ds.Put(ctx, key, []byte("temp")))
		exists, err := ds.Exists(ctx, key)
		assert.NoError(t, err)
		assert.True(t, exists)

		assert.NoError(t, ds.Delete(ctx, key))
		exists, err = ds.Exists(ctx, key)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete multiple keys", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		keys := putChildren(t, ctx, ds, kb, "delete", 3)
		keyMatch := matchChildren(t, kb, "delete")

		foundKeys, err := ds.ScanKeys(ctx, keyMatch)
		assert.NoError(t, err)
		assert.Len(t, foundKeys, 3)

		assert.NoError(t, ds.Delete(ctx, keys...))
		foundKeys, err = ds.ScanKeys(ctx, keyMatch)
		assert.NoError(t, err)
		assert.Len(t, foundKeys, 0)
	})

	t.Run("DeleteMatch", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		keys := putChildren(t, ctx, ds, kb, "delete", 2)
		other := putChildren(t, ctx, ds, kb, "keep", 1)

		deleted, err := ds.DeleteMatch(ctx, matchChildren(t, kb, "delete"))
		assert.NoError(t, err)
		assert.ElementsMatch(t, keys, deleted)
		for _, k := range keys {
			exists, err := ds.Exists(ctx, k)
			assert.NoError(t, err)
			assert.False(t, exists)
		}
		exists, err := ds.Exists(ctx, other[0])
		assert.NoError(t, err)
		assert.True(t, exists, "should not delete keys outside the pattern")
	})

	t.Run("GetKeysWithCursor", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		numKeys := 25
		putChildren(t, ctx, ds, kb, "cursor-key", numKeys)
		keyMatch := matchChildren(t, kb, "cursor-key")

		cursor := uint64(0)
		seen := make(map[string]struct{})
		for {
			keys, nextCursor, err := ds.GetKeysWithCursor(ctx, cursor, 10, keyMatch)
			require.NoError(t, err)
			for _, k := range keys {
				seen[k.RedisKey()] = struct{}{}
			}
			if nextCursor == 0 {
				break
			}
			cursor = nextCursor
		}
		assert.Len(t, seen, numKeys)
	})

	t.Run("ScanKeys", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		keys := putChildren(t, ctx, ds, kb, "scan-key", 3)

		foundKeys, err := ds.ScanKeys(ctx, matchChildren(t, kb, "scan-key"))
		assert.NoError(t, err)
		assert.ElementsMatch(t, keys, foundKeys)
	})

	t.Run("ScanKeys parses namespaced keys", func(t *testing.T) {
		ds, ctx, kb := setupDSClient(t, rsClient)
		keys := putChildren(t, ctx, ds, kb, "scan-key", 3)

		foundKeys, err := ds.ScanKeys(ctx, matchChildren(t, kb, "scan-key"))
		assert.NoError(t, err)
		require.Len(t, foundKeys, 3)
		assert.ElementsMatch(t, keys, foundKeys)
		assert.Equal(t, keys[0].Namespace(), foundKeys[0].Namespace())
	})
}
