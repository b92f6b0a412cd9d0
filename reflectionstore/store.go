// Package reflectionstore persists reflections per experiment in Redis.
//
// Each entry is stored under "experiment:<experimentId>:reflection:<id>" as a
// protobuf Struct envelope whose state field holds the encoded reflection.
package reflectionstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/holmberd/go-reflectionstore/config"
	"github.com/holmberd/go-reflectionstore/datastore"
	"github.com/holmberd/go-reflectionstore/entitystore"
	"github.com/holmberd/go-reflectionstore/keyfactory"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when an entry does not exist.
var ErrNotFound = entitystore.ErrEntityNotFound

// Page is one page of a paginated experiment scan.
// A zero Cursor means the scan is complete.
type Page struct {
	Cursor  uint64
	Entries []*Entry
}

// Store reads and writes reflection entries. It is safe for concurrent use.
type Store struct {
	ds       *datastore.Client
	entities *entitystore.EntityStore[Entry, *Entry]
	logger   zerolog.Logger
}

func New(ds *datastore.Client, namespace string, logger zerolog.Logger) (*Store, error) {
	entities, err := entitystore.New[Entry](string(keyfactory.EntityKindReflection), namespace, ds)
	if err != nil {
		return nil, err
	}
	return &Store{
		ds:       ds,
		entities: entities,
		logger:   logger.With().Str("component", "reflectionstore").Str("namespace", namespace).Logger(),
	}, nil
}

// Open connects to Redis as configured and returns a store once Redis answers a ping.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ds := datastore.NewClient(rdb, datastore.WithExpiration(cfg.Store.Expiration))
	if err := ds.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("reflectionstore: failed to connect to %s: %w", cfg.Redis.Addr, err)
	}
	s, err := New(ds, cfg.Store.Namespace, logger)
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}
	s.logger.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("connected to redis")
	return s, nil
}

// Close closes the underlying Redis connection.
func (s *Store) Close() error {
	return s.ds.Close()
}

func (s *Store) OnAdded() *entitystore.EventTarget {
	return s.entities.OnAdded()
}

func (s *Store) OnRemoved() *entitystore.EventTarget {
	return s.entities.OnRemoved()
}

// Put writes an entry, replacing any entry with the same experiment and ID.
func (s *Store) Put(ctx context.Context, e *Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	key, err := s.entities.Add(ctx, e)
	if err != nil {
		return err
	}
	s.logger.Debug().Str("key", key).Msg("stored reflection")
	return nil
}

// PutBatch writes entries in a single transaction.
func (s *Store) PutBatch(ctx context.Context, entries []*Entry) error {
	for _, e := range entries {
		if err := e.validate(); err != nil {
			return fmt.Errorf("reflectionstore: entry '%s': %w", e.Id, err)
		}
	}
	keys, err := s.entities.AddBatch(ctx, entries)
	if err != nil {
		return err
	}
	s.logger.Debug().Int("count", len(keys)).Msg("stored reflections")
	return nil
}

// Get returns an entry. ErrNotFound is returned if it does not exist.
func (s *Store) Get(ctx context.Context, experimentId string, id string) (*Entry, error) {
	key, err := entryKey(experimentId, id)
	if err != nil {
		return nil, err
	}
	return s.entities.Get(ctx, key)
}

// GetMany returns the existing entries among ids, in id order.
func (s *Store) GetMany(ctx context.Context, experimentId string, ids []string) ([]*Entry, error) {
	keys, err := entryKeys(experimentId, ids)
	if err != nil {
		return nil, err
	}
	return s.entities.GetByKeys(ctx, keys)
}

// List returns every entry of an experiment sorted by ID.
func (s *Store) List(ctx context.Context, experimentId string) ([]*Entry, error) {
	parentKey, err := experimentKey(experimentId)
	if err != nil {
		return nil, err
	}
	entries, err := s.entities.GetAll(ctx, parentKey)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(entries, func(a, b *Entry) int { return strings.Compare(a.Id, b.Id) })
	return entries, nil
}

// Page returns one page of the entries of an experiment. Start with cursor 0
// and continue with the returned cursor until it is 0 again.
// Entries may repeat across pages.
func (s *Store) Page(ctx context.Context, experimentId string, cursor uint64, limit int) (*Page, error) {
	parentKey, err := experimentKey(experimentId)
	if err != nil {
		return nil, err
	}
	res, err := s.entities.GetWithPagination(ctx, cursor, limit, parentKey)
	if err != nil {
		return nil, err
	}
	return &Page{Cursor: res.Cursor, Entries: res.Entities}, nil
}

// Exists reports whether an entry exists.
func (s *Store) Exists(ctx context.Context, experimentId string, id string) (bool, error) {
	key, err := entryKey(experimentId, id)
	if err != nil {
		return false, err
	}
	return s.entities.Exists(ctx, key)
}

// Delete removes entries. Missing entries are ignored.
func (s *Store) Delete(ctx context.Context, experimentId string, ids ...string) error {
	keys, err := entryKeys(experimentId, ids)
	if err != nil {
		return err
	}
	if err := s.entities.RemoveByKeys(ctx, keys); err != nil {
		return err
	}
	s.logger.Debug().Str("experiment_id", experimentId).Int("count", len(keys)).Msg("removed reflections")
	return nil
}

// DeleteExperiment removes every entry of an experiment and returns how many were removed.
func (s *Store) DeleteExperiment(ctx context.Context, experimentId string) (int, error) {
	parentKey, err := experimentKey(experimentId)
	if err != nil {
		return 0, err
	}
	keys, err := s.entities.RemoveAll(ctx, parentKey)
	if err != nil {
		return 0, err
	}
	s.logger.Debug().Str("experiment_id", experimentId).Int("count", len(keys)).Msg("removed experiment")
	return len(keys), nil
}

// flush removes every key in the store namespace.
func (s *Store) flush(ctx context.Context) error {
	return s.entities.Flush(ctx)
}

func experimentKey(experimentId string) (string, error) {
	if experimentId == "" {
		return "", ErrEmptyExperiment
	}
	key, err := keyfactory.NewExperimentKey(experimentId)
	if err != nil {
		return "", fmt.Errorf("reflectionstore: %w", err)
	}
	return key, nil
}

func entryKeys(experimentId string, ids []string) ([]string, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		key, err := entryKey(experimentId, id)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}
	return keys, nil
}
