// Package keyfactory builds the structured, optionally namespaced Redis keys
// under which encoded entities are stored.
//
// Namespaces isolate stores sharing a Redis database, e.g. one per test.
package keyfactory

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/holmberd/go-reflectionstore/keyfactory/internal/rediskey"
)

const (
	WildcardAnyChar            = rediskey.WildcardAnyChar   // Matches exactly one character.
	WildcardAnyString          = rediskey.WildcardAnyString // Matches zero or more characters.
	ReservedNamespaceDelimiter = "__"                       // Placed before and after each namespace.
)

// ErrInvalidKey is wrapped by every key validation error.
var ErrInvalidKey = rediskey.ErrInvalidKey

func keyNamespace(ns string) string {
	if ns == "" {
		return ""
	}
	return ReservedNamespaceDelimiter + strings.ToLower(ns) + ReservedNamespaceDelimiter
}

// GenerateRandomKey generates a random 10-character valid key fragment.
func GenerateRandomKey() string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	key := make([]byte, 10)
	for i := range key {
		key[i] = letters[rand.Intn(len(letters))]
	}
	return string(key)
}

// ValidateKeyFragment validates that f can be used as a key fragment or
// namespace. Glob characters are rejected.
func ValidateKeyFragment(f string) error {
	if err := validateKeyFragments(f); err != nil {
		return err
	}
	return rediskey.ValidateLiteral(f)
}

// Key is a fully qualified datastore key.
type Key struct {
	key       string // Logical key.
	namespace string // Delimited namespace, may be empty.
}

func NewKey(key string, namespace string) *Key {
	if !strings.HasPrefix(namespace, ReservedNamespaceDelimiter) {
		namespace = keyNamespace(namespace)
	}
	return &Key{key: key, namespace: namespace}
}

// Key returns the logical key without namespace.
func (k *Key) Key() string {
	return k.key
}

func (k *Key) Namespace() string {
	return k.namespace
}

// RedisKey returns the namespaced Redis key.
func (k *Key) RedisKey() string {
	return rediskey.Build(k.namespace, k.key)
}

// String returns the logical key. It does not include the namespace.
func (k *Key) String() string {
	if k == nil {
		return ""
	}
	return k.key
}

// Builder builds datastore keys within a fixed namespace.
//   - Either a key or a wildcard must be set.
//
// Key structure: "<__namespace__>:<parentKey>:<key>[:<wildcard>]"
type Builder struct {
	key       string                // Must be a valid Redis key.
	parentKey string                // Must be a valid Redis key.
	wildcard  rediskey.GlobWildcard // For key matching.
	namespace string                // Kept across resets.
}

func NewBuilder(namespace string) *Builder {
	return &Builder{namespace: namespace}
}

func (b *Builder) WithKey(key string) *Builder {
	b.key = key
	return b
}

func (b *Builder) WithParentKey(key string) *Builder {
	b.parentKey = key
	return b
}

func (b *Builder) WithWildcard(wc rediskey.GlobWildcard) *Builder {
	b.wildcard = wc
	return b
}

// Reset clears everything but the namespace.
func (b *Builder) Reset() {
	b.key = ""
	b.parentKey = ""
	b.wildcard = ""
}

// Build compiles the key.
func (b *Builder) Build() (*Key, error) {
	if err := validateOptionalKeys(b.key, b.parentKey, b.namespace); err != nil {
		return nil, fmt.Errorf("keyfactory: %w", err)
	}
	key := rediskey.Build(b.parentKey, b.key)
	if b.wildcard != "" {
		key = rediskey.BuildMatchKeyPattern(key, b.wildcard)
	}
	if key == "" {
		return nil, fmt.Errorf("keyfactory: %w: neither key nor wildcard set", ErrInvalidKey)
	}
	return NewKey(key, b.namespace), nil
}

// BuildAndReset compiles the key and resets the builder.
func (b *Builder) BuildAndReset() (*Key, error) {
	defer b.Reset()
	return b.Build()
}

// validateOptionalKeys validates the non-empty keys. Wildcards are only
// accepted through WithWildcard.
func validateOptionalKeys(keys ...string) error {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := ValidateKeyFragment(key); err != nil {
			return err
		}
	}
	return nil
}

// validateKeyFragments rejects fragments that could be read back as a namespace.
func validateKeyFragments(keyFragments ...string) error {
	for _, f := range keyFragments {
		if strings.HasPrefix(f, ReservedNamespaceDelimiter) {
			return fmt.Errorf("%w: %q uses the reserved namespace prefix %q", ErrInvalidKey, f, ReservedNamespaceDelimiter)
		}
	}
	return nil
}
