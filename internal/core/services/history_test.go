package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

func TestHistoryService_List(t *testing.T) {
	store := memory.NewHistoryStore()
	ctx := context.Background()
	base := time.Now()
	for i := 0; i < DefaultHistoryLimit+5; i++ {
		require.NoError(t, store.SaveRun(ctx, domain.ImportRun{
			ID:        string(rune('a' + i)),
			StartedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	service := NewHistoryService(store)

	runs, err := service.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, DefaultHistoryLimit)

	runs, err = service.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestHistoryService_List_StoreError(t *testing.T) {
	_, err := NewHistoryService(&failingHistory{}).List(context.Background(), 5)

	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestHistoryService_Get(t *testing.T) {
	store := memory.NewHistoryStore()
	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, domain.ImportRun{ID: "run-1", Phase: domain.PhaseDone}))
	service := NewHistoryService(store)

	run, err := service.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseDone, run.Phase)

	_, err = service.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = service.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService_NilStore(t *testing.T) {
	service := NewHistoryService(nil)

	runs, err := service.List(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = service.Get(context.Background(), "run-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
