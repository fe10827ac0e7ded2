package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set(domain.KeyFileKey, "abc123"))
	require.NoError(t, store.Set(domain.KeyFileKey, "def456"))

	val, ok := store.Get(domain.KeyFileKey)
	assert.True(t, ok)
	assert.Equal(t, "def456", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("s", "text")
	_ = store.Set("i", 7)
	_ = store.Set("i64", int64(9))
	_ = store.Set("f", 1.5)
	_ = store.Set("b", true)

	assert.Equal(t, "text", store.GetString("s"))
	assert.Equal(t, 7, store.GetInt("i"))
	assert.Equal(t, 9, store.GetInt("i64"))
	assert.Equal(t, 1.5, store.GetFloat("f"))
	assert.Equal(t, 7.0, store.GetFloat("i"))
	assert.Equal(t, 9.0, store.GetFloat("i64"))
	assert.True(t, store.GetBool("b"))

	assert.Equal(t, "", store.GetString("i"))
	assert.Equal(t, 0, store.GetInt("s"))
	assert.Equal(t, 0.0, store.GetFloat("b"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_Unset(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set(domain.KeyToken, "secret")

	require.NoError(t, store.Unset(domain.KeyToken))
	require.NoError(t, store.Unset(domain.KeyToken))

	_, ok := store.Get(domain.KeyToken)
	assert.False(t, ok)
}

func TestConfigStore_LoadAndPath(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set(domain.KeyConcurrency, n)
			_ = store.GetInt(domain.KeyConcurrency)
			_ = store.Unset(domain.KeyPattern)
		}(i)
	}
	wg.Wait()

	_, ok := store.Get(domain.KeyConcurrency)
	assert.True(t, ok)
}
