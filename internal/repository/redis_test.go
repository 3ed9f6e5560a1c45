package repository

import (
	"context"
	"testing"
	"time"

	"staybook/internal/config"
	"staybook/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSelectionRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := NewRedisClient(config.RedisConfig{Address: s.Addr()})
	defer client.Close()

	repo := NewRedisSelectionRepository(client, time.Hour)
	ctx := context.Background()

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	t.Run("SetAndGetSelection", func(t *testing.T) {
		sel := &models.ViewSelection{
			SessionID:  "sess-1",
			PropertyID: 42,
			Selection:  models.SelectionRange(from, to),
		}
		require.NoError(t, repo.SetSelection(ctx, sel))
		assert.True(t, s.Exists("selection:sess-1:42"))

		got, err := repo.GetSelection(ctx, "sess-1", 42)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.SelectionRangeSet, got.Selection.State())
		assert.True(t, from.Equal(*got.Selection.From))
		assert.True(t, to.Equal(*got.Selection.To))
	})

	t.Run("GetMissingSelection", func(t *testing.T) {
		got, err := repo.GetSelection(ctx, "nobody", 1)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("TTL", func(t *testing.T) {
		sel := &models.ViewSelection{SessionID: "sess-2", PropertyID: 1, Selection: models.SelectionFrom(from)}
		require.NoError(t, repo.SetSelection(ctx, sel))

		s.FastForward(time.Hour + time.Second)

		got, err := repo.GetSelection(ctx, "sess-2", 1)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearSelection", func(t *testing.T) {
		sel := &models.ViewSelection{SessionID: "sess-3", PropertyID: 1}
		require.NoError(t, repo.SetSelection(ctx, sel))
		require.NoError(t, repo.ClearSelection(ctx, "sess-3", 1))

		got, _ := repo.GetSelection(ctx, "sess-3", 1)
		assert.Nil(t, got)
	})

	t.Run("CorruptPayload", func(t *testing.T) {
		require.NoError(t, s.Set("selection:bad:1", "{not json"))
		_, err := repo.GetSelection(ctx, "bad", 1)
		assert.Error(t, err)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisSelectionRepository(nil, time.Hour)
		_, err := repo.GetSelection(ctx, "x", 1)
		assert.ErrorIs(t, err, errNilClient)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})

	t.Run("PingAfterServerStops", func(t *testing.T) {
		s2, err := miniredis.Run()
		require.NoError(t, err)
		c2 := NewRedisClient(config.RedisConfig{Address: s2.Addr()})
		defer c2.Close()
		s2.Close()
		assert.Error(t, Ping(ctx, c2))
	})
}
