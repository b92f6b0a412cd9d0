package rediskey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		keyFragments []string
		expectKey    string
		expectError  bool
	}{
		{"Single fragment", []string{"single"}, "single", false},
		{"Empty fragments are skipped", []string{"", "experiment", "exp1", ""}, "experiment:exp1", false},
		{"Fragments keep their case", []string{"reflection", "2NEpo7TZ"}, "reflection:2NEpo7TZ", false},
		{"Any string wildcard", []string{"experiment", string(WildcardAnyString)}, "experiment:*", false},
		{"Any char wildcard", []string{"exp-" + string(WildcardAnyChar)}, "exp-?", false},
		{"No fragments", []string{}, "", true},
		{"Only empty fragments", []string{"", ""}, "", true},
		{"Fragment contains delimiter", []string{"experiment", "ex:p1"}, "", true},
		{"Leading delimiter", []string{":leading"}, "", true},
		{"Trailing delimiter", []string{"trailing:"}, "", true},
		{"Invalid characters", []string{"re@flection!", "1"}, "", true},
		{"Spaces", []string{" experiment", "1 "}, "", true},
		{"Too long", []string{strings.Repeat("a", keyMaxLength+1)}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := New(tt.keyFragments...)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidKey)
				assert.Empty(t, key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectKey, key)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("__ns__:experiment:exp1:reflection:*"))
	assert.NoError(t, Validate(strings.Repeat("a", keyMaxLength)))
	assert.ErrorIs(t, Validate(""), ErrInvalidKey)
	assert.ErrorIs(t, Validate("a b"), ErrInvalidKey)
}

func TestValidateLiteral(t *testing.T) {
	tests := []struct {
		key         string
		expectError bool
	}{
		{"experiment:exp1:reflection:r1", false},
		{"experiment:Exp-1_(a),b", false},
		{"experiment:*", true},
		{"experiment:exp?", true},
		{"experiment:exp[12]", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateLiteral(tt.key)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBuildMatchKeyPattern(t *testing.T) {
	tests := []struct {
		baseKey string
		expect  string
	}{
		{"experiment", "experiment:*"},
		{"experiment:exp1", "experiment:exp1:*"},
		{"", ":*"},
	}
	for _, tt := range tests {
		t.Run(tt.baseKey, func(t *testing.T) {
			assert.Equal(t, tt.expect, BuildMatchKeyPattern(tt.baseKey, WildcardAnyString))
		})
	}
	assert.Equal(t, "reflection:?", BuildMatchKeyPattern("reflection", WildcardAnyChar))
}

func TestBuild(t *testing.T) {
	tests := []struct {
		keys   []string
		expect string
	}{
		{[]string{"a", "b", "c"}, "a:b:c"},
		{[]string{"", "a", "", "b"}, "a:b"},
		{[]string{"single"}, "single"},
		{[]string{}, ""},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.keys, ","), func(t *testing.T) {
			keys := append([]string(nil), tt.keys...)
			assert.Equal(t, tt.expect, Build(tt.keys...))
			assert.Equal(t, keys, tt.keys, "should not modify the input")
		})
	}
}
