package keyfactory

import (
	"fmt"
	"slices"

	"github.com/holmberd/go-reflectionstore/keyfactory/internal/rediskey"
)

type EntityKind string

const (
	EntityKindExperiment EntityKind = "experiment"
	EntityKindReflection EntityKind = "reflection"
)

var entityKinds = []EntityKind{EntityKindExperiment, EntityKindReflection}

func validateEntityKind(k EntityKind) error {
	if !slices.Contains(entityKinds, k) {
		return fmt.Errorf("keyfactory: invalid entity kind: %q", k)
	}
	return nil
}

// NewExperimentKey returns the parent key grouping the reflections of an experiment.
//
// Key structure:
//
//	experiment:<experimentId>
func NewExperimentKey(id string) (string, error) {
	return NewEntityKey(EntityKindExperiment, id, "", "")
}

// NewEntityKey returns a structured logical entity key.
//
// Key structure:
//
//	<parentEntityKey>:<entityKind>:<entityId>:<entityVersionId>
func NewEntityKey(
	entityKind EntityKind,
	entityId string,
	entityVersionId string, // Optional.
	parentEntityKey string, // Optional.
) (string, error) {
	if err := validateEntityKind(entityKind); err != nil {
		return "", err
	}
	if entityId == "" {
		return "", fmt.Errorf("keyfactory: %s ID must not be empty", entityKind)
	}
	if err := validateKeyFragments(entityId, entityVersionId, parentEntityKey); err != nil {
		return "", fmt.Errorf("keyfactory: %w", err)
	}
	key, err := rediskey.New(string(entityKind), entityId, entityVersionId)
	if err != nil {
		return "", fmt.Errorf("keyfactory: %w", err)
	}
	if err := rediskey.ValidateLiteral(key); err != nil {
		return "", fmt.Errorf("keyfactory: %w", err)
	}
	if parentEntityKey == "" {
		return key, nil
	}
	if err := rediskey.ValidateLiteral(parentEntityKey); err != nil {
		return "", fmt.Errorf("keyfactory: invalid parent key: %w", err)
	}
	return rediskey.Build(parentEntityKey, key), nil
}
