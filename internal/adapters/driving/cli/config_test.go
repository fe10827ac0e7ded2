package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

func TestConfigCmd_ListsKeys(t *testing.T) {
	for _, key := range domain.SortedSettingKeys() {
		assert.Contains(t, configCmd.Long, key)
	}
}

func TestConfigShow_Defaults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "File: :memory:")
	assert.Contains(t, out, "Token:      (not set)")
	assert.Contains(t, out, "Scale:       1")
	assert.Contains(t, out, "Concurrency: 4")
	assert.Contains(t, out, "Status:     not configured")
	assert.Contains(t, out, "Keep: 50")
}

func TestConfigShow_MasksSecrets(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, ts.settings.Set(domain.KeyToken, "figd_1234567890abcd"))
	require.NoError(t, ts.settings.Set(domain.KeyMirrorSecret, "supersecretvalue"))

	out, err := execute("config")

	require.NoError(t, err)
	assert.Contains(t, out, "figd...abcd")
	assert.NotContains(t, out, "figd_1234567890abcd")
	assert.NotContains(t, out, "supersecretvalue")
}

func TestConfigSet(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("config", "set", domain.KeyConcurrency, "8")

	require.NoError(t, err)
	assert.Contains(t, out, "import.concurrency = 8")
	assert.Equal(t, 8, ts.config.GetInt(domain.KeyConcurrency))
}

func TestConfigSet_MasksToken(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("config", "set", domain.KeyToken, "figd_1234567890abcd")

	require.NoError(t, err)
	assert.NotContains(t, out, "figd_1234567890abcd")
}

func TestConfigSet_Invalid(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("config", "set", domain.KeyScale, "huge")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute("config", "set", "nope", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute("config", "set", domain.KeyScale)
	assert.Error(t, err)
}

func TestConfigUnset(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, ts.settings.Set(domain.KeyPattern, "^btn_"))

	out, err := execute("config", "unset", domain.KeyPattern)

	require.NoError(t, err)
	assert.Contains(t, out, "import.pattern cleared")
	_, ok := ts.config.Get(domain.KeyPattern)
	assert.False(t, ok)
}

func TestConfig_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	settingsService = nil

	_, err := execute("config", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: "(not set)"},
		{name: "Short", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long", input: "figd_1234567890abcd", expected: "figd...abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskSecret(tt.input))
		})
	}
}
