// Package datastore stores opaque encoded values in Redis under keyfactory keys.
package datastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/holmberd/go-reflectionstore/keyfactory"
)

var (
	ErrKeyNotFound    = errors.New("datastore: key not found")
	ErrLengthMismatch = errors.New("datastore: key and value slices have different length")
)

// scanBatchSize is the COUNT hint passed to SCAN.
const scanBatchSize = 1000

// Option configures a Client.
type Option func(*Client)

// WithExpiration sets the TTL applied to every written key. Zero means no expiration.
func WithExpiration(d time.Duration) Option {
	return func(c *Client) {
		c.expiration = d
	}
}

// Client reads and writes values in Redis.
// The client is safe for concurrent use.
type Client struct {
	rdb        *redis.Client
	expiration time.Duration
}

func NewClient(rdb *redis.Client, opts ...Option) *Client {
	c := &Client{rdb: rdb}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Expiration() time.Duration {
	return c.expiration
}

// Ping checks that Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("datastore: ping failed: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Put writes value under key, replacing any existing value.
func (c *Client) Put(ctx context.Context, key *keyfactory.Key, value []byte) error {
	if key == nil {
		return nil
	}
	if err := c.rdb.Set(ctx, key.RedisKey(), value, c.expiration).Err(); err != nil {
		return fmt.Errorf("datastore: failed to write key '%s': %w", key, err)
	}
	return nil
}

// PutMulti writes values[i] under keys[i] in a single transaction.
func (c *Client) PutMulti(ctx context.Context, keys []*keyfactory.Key, values [][]byte) error {
	if len(keys) != len(values) {
		return ErrLengthMismatch
	}
	if len(keys) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			pipe.Set(ctx, key.RedisKey(), values[i], c.expiration)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("datastore: failed to write %d keys: %w", len(keys), err)
	}
	return nil
}

// Get returns the value stored under key.
// ErrKeyNotFound is returned if the key does not exist.
func (c *Client) Get(ctx context.Context, key *keyfactory.Key) ([]byte, error) {
	if key == nil {
		return nil, ErrKeyNotFound
	}
	value, err := c.rdb.Get(ctx, key.RedisKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("datastore: failed to read key '%s': %w", key, err)
	}
	return value, nil
}

// GetMulti returns the values stored under keys, in key order.
// Missing keys are skipped.
func (c *Client) GetMulti(ctx context.Context, keys []*keyfactory.Key) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	results, err := c.rdb.MGet(ctx, redisKeys(keys)...).Result()
	if err != nil {
		return nil, fmt.Errorf("datastore: failed to read %d keys: %w", len(keys), err)
	}
	values := make([][]byte, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		s, ok := res.(string)
		if !ok {
			return nil, fmt.Errorf("datastore: unexpected type %T in MGET result", res)
		}
		values = append(values, []byte(s))
	}
	return values, nil
}

// Delete removes keys. Missing keys are ignored.
func (c *Client) Delete(ctx context.Context, keys ...*keyfactory.Key) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, redisKeys(keys)...).Err(); err != nil {
		return fmt.Errorf("datastore: failed to delete %d keys: %w", len(keys), err)
	}
	return nil
}

// DeleteMatch removes every key matching the pattern and returns the removed keys.
func (c *Client) DeleteMatch(ctx context.Context, match *keyfactory.Key) ([]*keyfactory.Key, error) {
	if match == nil {
		return nil, nil
	}
	keys, err := c.ScanKeys(ctx, match)
	if err != nil {
		return nil, err
	}
	if err := c.Delete(ctx, keys...); err != nil {
		return nil, err
	}
	return keys, nil
}

// GetKeysWithCursor returns one SCAN page of keys matching the pattern.
//   - The number of keys per page is a hint, not a guarantee.
//   - A key may be returned more than once across pages.
//   - Keys added or removed during the iteration may or may not be returned.
func (c *Client) GetKeysWithCursor(
	ctx context.Context,
	cursor uint64,
	limit int,
	match *keyfactory.Key,
) (keys []*keyfactory.Key, nextCursor uint64, err error) {
	if limit <= 0 || limit > scanBatchSize {
		limit = scanBatchSize
	}
	rsKeys, nextCursor, err := c.rdb.Scan(ctx, cursor, match.RedisKey(), int64(limit)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("datastore: failed to scan keys: %w", err)
	}
	keys, err = parseKeys(rsKeys)
	if err != nil {
		return nil, 0, err
	}
	return keys, nextCursor, nil
}

// ScanKeys returns every key matching the pattern without blocking Redis.
// Keys are de-duplicated. Keys written during the scan may be missed.
func (c *Client) ScanKeys(ctx context.Context, match *keyfactory.Key) ([]*keyfactory.Key, error) {
	seen := make(map[string]struct{})
	var rsKeys []string
	iter := c.rdb.Scan(ctx, 0, match.RedisKey(), scanBatchSize).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		rsKeys = append(rsKeys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("datastore: failed to scan keys: %w", err)
	}
	return parseKeys(rsKeys)
}

// Exists reports whether key exists.
func (c *Client) Exists(ctx context.Context, key *keyfactory.Key) (bool, error) {
	if key == nil {
		return false, nil
	}
	n, err := c.rdb.Exists(ctx, key.RedisKey()).Result()
	if err != nil {
		return false, fmt.Errorf("datastore: failed to check key '%s': %w", key, err)
	}
	return n > 0, nil
}

func redisKeys(keys []*keyfactory.Key) []string {
	rsKeys := make([]string, len(keys))
	for i, key := range keys {
		rsKeys[i] = key.RedisKey()
	}
	return rsKeys
}

func parseKeys(rsKeys []string) ([]*keyfactory.Key, error) {
	keys := make([]*keyfactory.Key, len(rsKeys))
	for i, rsKey := range rsKeys {
		key, err := keyfactory.ParseRedisKey(rsKey)
		if err != nil {
			return nil, fmt.Errorf("datastore: %w", err)
		}
		keys[i] = key
	}
	return keys, nil
}
