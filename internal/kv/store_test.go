package kv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKey(t *testing.T) {
	valid := []string{"taskmaster-tasks", "taskmaster_settings", "v1.habits", "A9"}
	for _, key := range valid {
		assert.NoError(t, ValidateKey(key), key)
	}

	invalid := []string{"", ".", "..", "../x", "a/b", `a\b`, "with space", "ünï", strings.Repeat("k", 192)}
	for _, key := range invalid {
		assert.ErrorIs(t, ValidateKey(key), ErrInvalidKey, key)
	}
}
