package keyfactory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/holmberd/go-reflectionstore/keyfactory/internal/rediskey"
)

var namespacePattern = regexp.MustCompile(`^(__\w+__):?`)

// ParseRedisKey parses a namespaced Redis key into a Key.
//
// Example:
//
//	key, _ := ParseRedisKey("__lab1__:experiment:exp1:reflection:r1")
//	// key  => *Key{key: "experiment:exp1:reflection:r1", namespace: "__lab1__"}
func ParseRedisKey(key string) (*Key, error) {
	if err := rediskey.Validate(key); err != nil {
		return nil, fmt.Errorf("keyfactory: failed to parse redis key '%s': %w", key, err)
	}
	var namespace string
	if m := namespacePattern.FindStringSubmatch(key); m != nil {
		namespace = strings.Trim(m[1], "_")
		key = strings.TrimPrefix(key, m[0])
	}
	return NewKey(key, namespace), nil
}
