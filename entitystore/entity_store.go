// Package entitystore provides a generic Redis-backed store for keyed entities
// that encode themselves to bytes.
package entitystore

import (
	"context"
	"encoding"
	"errors"
	"fmt"

	"github.com/holmberd/go-reflectionstore/datastore"
	"github.com/holmberd/go-reflectionstore/encoder"
	"github.com/holmberd/go-reflectionstore/eventemitter"
	"github.com/holmberd/go-reflectionstore/keyfactory"
)

// maxPageSize caps the number of keys scanned per page.
const maxPageSize = 1000

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrEmptyKind      = Error("entitystore: entity kind must not be empty")
	ErrNoNamespace    = Error("entitystore: flush requires a key namespace")
	ErrEntityNotFound = Error("entitystore: entity not found")
)

type Event int

const (
	EntitiesAdded Event = iota
	EntitiesRemoved
	EntitiesFlushed
)

func (e Event) String() string {
	switch e {
	case EntitiesAdded:
		return "EntitiesAdded"
	case EntitiesRemoved:
		return "EntitiesRemoved"
	case EntitiesFlushed:
		return "EntitiesFlushed"
	default:
		return fmt.Sprintf("event(%d)", e)
	}
}

type Entity interface {
	GetKey() string // Structured unique datastore key.
}

// SerializableEntity is implemented by *T for entities stored as bytes.
type SerializableEntity[T Entity] interface {
	*T
	Entity
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// EntityCursor is one page of a paginated scan.
// A zero Cursor means the scan is complete.
type EntityCursor[T Entity, PT SerializableEntity[T]] struct {
	Cursor   uint64
	Entities []PT
}

// Listener receives the context of the store operation and the affected entity keys.
type Listener func(ctx context.Context, keys []string)

type change struct {
	ctx  context.Context
	keys []string
}

// EventTarget is a typed store event.
type EventTarget struct {
	t *eventemitter.Target[change]
}

func newEventTarget(e Event) *EventTarget {
	return &EventTarget{t: eventemitter.NewTarget[change](e.String())}
}

func (e *EventTarget) AddListener(listener Listener) eventemitter.ListenerToken {
	return e.t.AddListener(func(c change) {
		listener(c.ctx, c.keys)
	})
}

func (e *EventTarget) RemoveListener(token eventemitter.ListenerToken) bool {
	return e.t.RemoveListener(token)
}

func (e *EventTarget) emit(ctx context.Context, keys []string) bool {
	return e.t.Emit(change{ctx: ctx, keys: keys})
}

// EntityStore stores entities of one kind.
//
// Entity keys have the form "[<parentKey>:]<entityKind>:<id>..." so that every
// entity of the kind under a parent can be matched by pattern.
type EntityStore[T Entity, PT SerializableEntity[T]] struct {
	entityKind string
	namespace  string // Optional key namespace.
	dsClient   *datastore.Client
	onAdded    *EventTarget
	onRemoved  *EventTarget
	onFlushed  *EventTarget
}

func New[T Entity, PT SerializableEntity[T]](
	entityKind string,
	namespace string,
	dsClient *datastore.Client,
) (*EntityStore[T, PT], error) {
	if entityKind == "" {
		return nil, ErrEmptyKind
	}
	if namespace != "" {
		if err := keyfactory.ValidateKeyFragment(namespace); err != nil {
			return nil, fmt.Errorf("entitystore: invalid namespace: %w", err)
		}
	}
	return &EntityStore[T, PT]{
		entityKind: entityKind,
		namespace:  namespace,
		dsClient:   dsClient,
		onAdded:    newEventTarget(EntitiesAdded),
		onRemoved:  newEventTarget(EntitiesRemoved),
		onFlushed:  newEventTarget(EntitiesFlushed),
	}, nil
}

func (es *EntityStore[T, PT]) EntityKind() string {
	return es.entityKind
}

func (es *EntityStore[T, PT]) Namespace() string {
	return es.namespace
}

func (es *EntityStore[T, PT]) NewKeyBuilder() *keyfactory.Builder {
	return keyfactory.NewBuilder(es.namespace)
}

func (es *EntityStore[T, PT]) OnAdded() *EventTarget {
	return es.onAdded
}

func (es *EntityStore[T, PT]) OnRemoved() *EventTarget {
	return es.onRemoved
}

func (es *EntityStore[T, PT]) OnFlushed() *EventTarget {
	return es.onFlushed
}

// Flush deletes every key in the store namespace and emits EntitiesFlushed.
// It refuses to run on a store without a namespace.
func (es *EntityStore[T, PT]) Flush(ctx context.Context) error {
	if es.namespace == "" {
		return ErrNoNamespace
	}
	keyMatch, err := es.NewKeyBuilder().WithWildcard(keyfactory.WildcardAnyString).Build()
	if err != nil {
		return err
	}
	if _, err := es.dsClient.DeleteMatch(ctx, keyMatch); err != nil {
		return err
	}
	es.onFlushed.emit(ctx, []string{})
	return nil
}

// Add writes an entity, replacing any entity with the same key.
func (es *EntityStore[T, PT]) Add(ctx context.Context, entity PT) (string, error) {
	key, err := es.entityKey(entity.GetKey())
	if err != nil {
		return "", err
	}
	data, err := encoder.BinaryMarshal(entity)
	if err != nil {
		return "", fmt.Errorf("entitystore: failed to marshal entity '%s': %w", entity.GetKey(), err)
	}
	if err = es.dsClient.Put(ctx, key, data); err != nil {
		return "", err
	}
	es.onAdded.emit(ctx, []string{entity.GetKey()})
	return entity.GetKey(), nil
}

// AddBatch writes entities in a single transaction.
func (es *EntityStore[T, PT]) AddBatch(ctx context.Context, entities []PT) ([]string, error) {
	if len(entities) == 0 {
		return nil, nil
	}
	keys := make([]*keyfactory.Key, len(entities))
	entityKeys := make([]string, len(entities))
	data := make([][]byte, len(entities))
	for i, entity := range entities {
		key, err := es.entityKey(entity.GetKey())
		if err != nil {
			return nil, err
		}
		d, err := encoder.BinaryMarshal(entity)
		if err != nil {
			return nil, fmt.Errorf("entitystore: failed to marshal entity '%s': %w", entity.GetKey(), err)
		}
		keys[i] = key
		entityKeys[i] = entity.GetKey()
		data[i] = d
	}
	if err := es.dsClient.PutMulti(ctx, keys, data); err != nil {
		return nil, err
	}
	es.onAdded.emit(ctx, entityKeys)
	return entityKeys, nil
}

// Remove deletes an entity. Removing a missing entity is not an error.
func (es *EntityStore[T, PT]) Remove(ctx context.Context, entityKey string) error {
	if entityKey == "" {
		return nil
	}
	return es.RemoveByKeys(ctx, []string{entityKey})
}

// RemoveByKeys deletes entities by key.
func (es *EntityStore[T, PT]) RemoveByKeys(ctx context.Context, entityKeys []string) error {
	if len(entityKeys) == 0 {
		return nil
	}
	keys, err := es.entityKeys(entityKeys)
	if err != nil {
		return err
	}
	if err := es.dsClient.Delete(ctx, keys...); err != nil {
		return err
	}
	es.onRemoved.emit(ctx, entityKeys)
	return nil
}

// RemoveAll deletes every entity of the store kind under parentKey
// and returns the removed entity keys.
func (es *EntityStore[T, PT]) RemoveAll(ctx context.Context, parentKey string) ([]string, error) {
	keyMatch, err := es.kindMatch(parentKey)
	if err != nil {
		return nil, err
	}
	keys, err := es.dsClient.DeleteMatch(ctx, keyMatch)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	entityKeys := make([]string, len(keys))
	for i, key := range keys {
		entityKeys[i] = key.Key()
	}
	es.onRemoved.emit(ctx, entityKeys)
	return entityKeys, nil
}

// Get returns the entity stored under entityKey.
// ErrEntityNotFound is returned if it does not exist.
func (es *EntityStore[T, PT]) Get(ctx context.Context, entityKey string) (PT, error) {
	if entityKey == "" {
		return nil, ErrEntityNotFound
	}
	key, err := es.entityKey(entityKey)
	if err != nil {
		return nil, err
	}
	data, err := es.dsClient.Get(ctx, key)
	if err != nil {
		if errors.Is(err, datastore.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrEntityNotFound, entityKey)
		}
		return nil, err
	}
	return es.decode(data)
}

// GetByKeys returns the entities stored under entityKeys, in key order.
// Missing and empty keys are skipped.
func (es *EntityStore[T, PT]) GetByKeys(ctx context.Context, entityKeys []string) ([]PT, error) {
	nonEmpty := make([]string, 0, len(entityKeys))
	for _, k := range entityKeys {
		if k != "" {
			nonEmpty = append(nonEmpty, k)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, nil
	}
	keys, err := es.entityKeys(nonEmpty)
	if err != nil {
		return nil, err
	}
	return es.getMulti(ctx, keys)
}

// GetWithPagination returns one page of the entities of the store kind under parentKey.
//   - The page size is a hint; pages may be smaller or larger than limit.
//   - An entity may appear on more than one page.
//   - Entities added or removed during the iteration may or may not be returned.
func (es *EntityStore[T, PT]) GetWithPagination(
	ctx context.Context,
	cursor uint64,
	limit int,
	parentKey string,
) (*EntityCursor[T, PT], error) {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	keyMatch, err := es.kindMatch(parentKey)
	if err != nil {
		return nil, err
	}
	keys, nextCursor, err := es.dsClient.GetKeysWithCursor(ctx, cursor, limit, keyMatch)
	if err != nil {
		return nil, err
	}
	entities, err := es.getMulti(ctx, keys)
	if err != nil {
		return nil, err
	}
	return &EntityCursor[T, PT]{Cursor: nextCursor, Entities: entities}, nil
}

// GetAll returns every entity of the store kind under parentKey.
func (es *EntityStore[T, PT]) GetAll(ctx context.Context, parentKey string) ([]PT, error) {
	keyMatch, err := es.kindMatch(parentKey)
	if err != nil {
		return nil, err
	}
	keys, err := es.dsClient.ScanKeys(ctx, keyMatch)
	if err != nil {
		return nil, err
	}
	return es.getMulti(ctx, keys)
}

// Exists reports whether an entity is stored under entityKey.
func (es *EntityStore[T, PT]) Exists(ctx context.Context, entityKey string) (bool, error) {
	if entityKey == "" {
		return false, nil
	}
	key, err := es.entityKey(entityKey)
	if err != nil {
		return false, err
	}
	return es.dsClient.Exists(ctx, key)
}

func (es *EntityStore[T, PT]) entityKey(entityKey string) (*keyfactory.Key, error) {
	key, err := es.NewKeyBuilder().WithKey(entityKey).Build()
	if err != nil {
		return nil, fmt.Errorf("entitystore: invalid entity key '%s': %w", entityKey, err)
	}
	return key, nil
}

func (es *EntityStore[T, PT]) entityKeys(entityKeys []string) ([]*keyfactory.Key, error) {
	kb := es.NewKeyBuilder()
	keys := make([]*keyfactory.Key, len(entityKeys))
	for i, ek := range entityKeys {
		key, err := kb.WithKey(ek).BuildAndReset()
		if err != nil {
			return nil, fmt.Errorf("entitystore: invalid entity key '%s': %w", ek, err)
		}
		keys[i] = key
	}
	return keys, nil
}

// kindMatch matches "<parentKey>:<entityKind>:*".
func (es *EntityStore[T, PT]) kindMatch(parentKey string) (*keyfactory.Key, error) {
	return es.NewKeyBuilder().
		WithParentKey(parentKey).
		WithKey(es.entityKind).
		WithWildcard(keyfactory.WildcardAnyString).
		Build()
}

func (es *EntityStore[T, PT]) getMulti(ctx context.Context, keys []*keyfactory.Key) ([]PT, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	data, err := es.dsClient.GetMulti(ctx, keys)
	if err != nil {
		return nil, err
	}
	entities := make([]PT, len(data))
	for i, d := range data {
		if entities[i], err = es.decode(d); err != nil {
			return nil, err
		}
	}
	return entities, nil
}

func (es *EntityStore[T, PT]) decode(data []byte) (PT, error) {
	entity := PT(new(T))
	if err := encoder.BinaryUnmarshal(data, entity); err != nil {
		return nil, fmt.Errorf("entitystore: failed to unmarshal %s: %w", es.entityKind, err)
	}
	return entity, nil
}
