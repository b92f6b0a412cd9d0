// Package rediskey validates and joins the fragments of Redis keys.
package rediskey

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

type GlobWildcard string

const (
	WildcardAnyChar      GlobWildcard = "?" // Matches exactly one character.
	WildcardAnyString    GlobWildcard = "*" // Matches zero or more characters.
	KeyFragmentDelimiter              = ":"
	keyMaxLength                      = 1024
)

var ErrInvalidKey = errors.New("invalid redis key")

const globChars = "*?[]"

var allowedKey = regexp.MustCompile(`^[a-zA-Z0-9:_\-\*\?\[\]\(\),]+$`)

// New joins key fragments with ":" and validates the result. Empty fragments
// are skipped. A fragment must not contain ":". Case is kept.
//
// Example:
//
//	key, _ := New("reflection", "2NEpo7TZRRrLZSi2U") // "reflection:2NEpo7TZRRrLZSi2U"
func New(keyFragments ...string) (string, error) {
	for _, f := range keyFragments {
		if strings.Contains(f, KeyFragmentDelimiter) {
			return "", fmt.Errorf("%w: fragment %q contains %q", ErrInvalidKey, f, KeyFragmentDelimiter)
		}
	}
	key := Build(keyFragments...)
	if err := Validate(key); err != nil {
		return "", err
	}
	return key, nil
}

// Validate checks that key is non-empty, bounded in length, uses only allowed
// characters and does not start or end with ":".
func Validate(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	case len(key) > keyMaxLength:
		return fmt.Errorf("%w: key exceeds %d characters", ErrInvalidKey, keyMaxLength)
	case !allowedKey.MatchString(key):
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidKey, key)
	case strings.HasPrefix(key, KeyFragmentDelimiter), strings.HasSuffix(key, KeyFragmentDelimiter):
		return fmt.Errorf("%w: %q starts or ends with %q", ErrInvalidKey, key, KeyFragmentDelimiter)
	}
	return nil
}

// ValidateLiteral is like Validate but also rejects glob characters, so the
// key matches only itself when used in a SCAN or KEYS pattern.
func ValidateLiteral(key string) error {
	if err := Validate(key); err != nil {
		return err
	}
	if strings.ContainsAny(key, globChars) {
		return fmt.Errorf("%w: %q contains glob characters", ErrInvalidKey, key)
	}
	return nil
}

// Build joins keys with ":" skipping empty keys. It does not validate.
func Build(keys ...string) string {
	return strings.Join(slices.DeleteFunc(slices.Clone(keys), func(k string) bool { return k == "" }), KeyFragmentDelimiter)
}

// BuildMatchKeyPattern appends ":" and wildcard to baseKey.
//
// Example:
//
//	BuildMatchKeyPattern("experiment:exp1", WildcardAnyString) // "experiment:exp1:*"
func BuildMatchKeyPattern(baseKey string, wildcard GlobWildcard) string {
	return baseKey + KeyFragmentDelimiter + string(wildcard)
}
