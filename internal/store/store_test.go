package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelduel/internal/game"
	"pixelduel/internal/store"
	"pixelduel/internal/testutil"
)

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := store.NewID()
		require.Len(t, id, 26)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestUpsertAndGetUser(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, st.UpsertUser(ctx, "u1", "Alice"))

	stats, err := st.GetUserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, store.UserStats{Username: "Alice"}, stats)

	// rename keeps the row
	require.NoError(t, st.UpsertUser(ctx, "u1", "Alicia"))
	stats, err = st.GetUserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", stats.Username)
}

func TestGetUserStatsNotFound(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()

	_, err := st.GetUserStats(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func seedPair(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.UpsertUser(ctx, "u1", "Alice"))
	require.NoError(t, st.UpsertUser(ctx, "u2", "Bob"))
}

func outcomeRecord(winner int, forfeit bool) store.OutcomeRecord {
	g := game.NewGrid(2)
	g.Set(0, 0, 1, 3)
	return store.OutcomeRecord{
		GameID: store.NewID(),
		Players: [2]store.PlayerResult{
			{UserID: "u1", Username: "Alice", Grid: g},
			{UserID: "u2", Username: "Bob", Grid: game.NewGrid(2)},
		},
		WinnerSeat: winner,
		Theme:      "Cat",
		Mode:       "vote",
		Forfeit:    forfeit,
	}
}

func TestRecordOutcomeWin(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	seedPair(t, st)
	ctx := context.Background()

	stats, err := st.RecordOutcome(ctx, outcomeRecord(0, false))
	require.NoError(t, err)
	assert.Equal(t, 1, stats[0].Wins)
	assert.Equal(t, 0, stats[0].Losses)
	assert.Equal(t, 1, stats[1].Losses)
	assert.Equal(t, 0, stats[1].Wins)

	hist, err := st.ListUserHistory(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.NotNil(t, hist[0].WinnerID)
	assert.Equal(t, "u1", *hist[0].WinnerID)
	assert.False(t, hist[0].Forfeit)
}

func TestRecordOutcomeDraw(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	seedPair(t, st)
	ctx := context.Background()

	stats, err := st.RecordOutcome(ctx, outcomeRecord(-1, false))
	require.NoError(t, err)
	assert.Equal(t, 1, stats[0].Draws)
	assert.Equal(t, 1, stats[1].Draws)

	hist, err := st.ListUserHistory(ctx, "u2", 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Nil(t, hist[0].WinnerID)
}

func TestRecordOutcomeForfeit(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	seedPair(t, st)
	ctx := context.Background()

	stats, err := st.RecordOutcome(ctx, outcomeRecord(1, true))
	require.NoError(t, err)
	assert.Equal(t, 1, stats[1].Wins)
	assert.Equal(t, 1, stats[0].Losses)

	hist, err := st.ListUserHistory(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.True(t, hist[0].Forfeit)
}

func TestRecordOutcomeAccumulates(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	seedPair(t, st)
	ctx := context.Background()

	_, err := st.RecordOutcome(ctx, outcomeRecord(0, false))
	require.NoError(t, err)
	_, err = st.RecordOutcome(ctx, outcomeRecord(1, false))
	require.NoError(t, err)
	stats, err := st.RecordOutcome(ctx, outcomeRecord(-1, false))
	require.NoError(t, err)

	assert.Equal(t, store.UserStats{Username: "Alice", Wins: 1, Losses: 1, Draws: 1}, stats[0])
	assert.Equal(t, store.UserStats{Username: "Bob", Wins: 1, Losses: 1, Draws: 1}, stats[1])

	hist, err := st.ListUserHistory(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Len(t, hist, 2)
}
