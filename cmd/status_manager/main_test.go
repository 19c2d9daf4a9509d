package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labscan/internal/database"
	"labscan/internal/types"
)

func TestShowStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	t.Run("empty store is due", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, showStatus(ctx, &out, database.NewMemoryStore(database.SchemaV2, nil), now))
		assert.Contains(t, out.String(), "🔔 Анализов пока нет")
	})

	t.Run("recent analysis", func(t *testing.T) {
		store := database.NewMemoryStore(database.SchemaV2, nil)
		d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		_, err := store.Append(ctx, types.PartialRecord{Hemoglobin: types.Float(130), SampleDate: &d})
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, showStatus(ctx, &out, store, now))
		assert.Contains(t, out.String(), "Последний анализ: 2024-03-01")
		assert.NotContains(t, out.String(), "🔔")
	})
}

func TestListIndicators(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore(database.SchemaV2, nil)
	d := time.Date(2023, 11, 3, 0, 0, 0, 0, time.UTC)
	_, err := store.Append(ctx, types.PartialRecord{Hemoglobin: types.Float(135.5), RBC: types.Float(4.8), SampleDate: &d})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, listIndicators(ctx, &out, store))
	assert.Contains(t, out.String(), "2023-11-03")
	assert.Contains(t, out.String(), "135.5")
	assert.Contains(t, out.String(), "4.8")

	out.Reset()
	require.NoError(t, listIndicators(ctx, &out, database.NewMemoryStore(database.SchemaV2, nil)))
	assert.Contains(t, out.String(), "Записей пока нет")
}
