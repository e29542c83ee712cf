package database

import (
	"context"
	"testing"
	"time"

	"github.com/isaacjstriker/blockfall/internal/bestscore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.CreateTables())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestResolveDriver(t *testing.T) {
	tests := []struct {
		url, driver, dsn string
	}{
		{"postgres://u:p@host/db", "postgres", "postgres://u:p@host/db"},
		{"postgresql://host/db", "postgres", "postgresql://host/db"},
		{"sqlite://blockfall.db", "sqlite3", "blockfall.db"},
		{"file:test.db?cache=shared", "sqlite3", "file:test.db?cache=shared"},
		{":memory:", "sqlite3", ":memory:"},
		{"scores.db", "sqlite3", "scores.db"},
	}
	for _, tt := range tests {
		driver, dsn, err := resolveDriver(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.driver, driver)
		assert.Equal(t, tt.dsn, dsn)
	}

	_, _, err := resolveDriver("mysql://host/db")
	assert.Error(t, err)

	_, err = Connect("")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &DB{dbType: "postgres"}
	assert.Equal(t, "SELECT a FROM t WHERE b = $1 AND c = $2", pg.rebind("SELECT a FROM t WHERE b = ? AND c = ?"))

	lite := &DB{dbType: "sqlite3"}
	assert.Equal(t, "WHERE b = ?", lite.rebind("WHERE b = ?"))
}

func TestBestScores(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.LoadBest(ctx, "blockfall-best-score")
	assert.ErrorIs(t, err, bestscore.ErrNotFound)

	require.NoError(t, db.SaveBest(ctx, "blockfall-best-score", 1200))
	require.NoError(t, db.SaveBest(ctx, "blockfall-best-score", 3400))

	score, err := db.LoadBest(ctx, "blockfall-best-score")
	require.NoError(t, err)
	assert.Equal(t, 3400, score)

	var _ bestscore.Store = db
}

func TestPlayers(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.GetPlayerPINHash(ctx, "ada")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	require.NoError(t, db.CreatePlayer(ctx, "ada", "hash"))
	hash, err := db.GetPlayerPINHash(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)

	assert.Error(t, db.CreatePlayer(ctx, "ada", "other"), "names are unique")
}

func TestGameResultsAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	results := []GameResult{
		{Player: "ada", Mode: "classic", Score: 900, Lines: 12, Level: 2},
		{Player: "ada", Mode: "classic", Score: 300, Lines: 4, Level: 1},
		{Player: "bob", Mode: "classic", Score: 1500, Lines: 20, Level: 3},
		{Player: "bob", Mode: "arcade", Score: 8000, Lines: 30, Level: 4, Metadata: map[string]any{"fevers": 2}},
	}
	for i := range results {
		require.NoError(t, db.SaveGameResult(ctx, &results[i]))
		assert.NotZero(t, results[i].ID)
	}

	board, err := db.GetLeaderboard(ctx, "classic", 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "bob", board[0].Player)
	assert.Equal(t, 1500, board[0].BestScore)
	assert.Equal(t, "ada", board[1].Player)
	assert.Equal(t, 2, board[1].GamesPlayed)
	assert.InDelta(t, 600.0, board[1].AvgScore, 0.001)
	assert.WithinDuration(t, time.Now(), board[1].LastPlayed, time.Minute)

	all, err := db.GetLeaderboard(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 8000, all[0].BestScore)

	stats, err := db.GetPlayerStats(ctx, "ada", "")
	require.NoError(t, err)
	assert.Equal(t, 900, stats.BestScore)
	assert.Equal(t, 2, stats.GamesPlayed)

	none, err := db.GetPlayerStats(ctx, "nobody", "arcade")
	require.NoError(t, err)
	assert.Equal(t, 0, none.GamesPlayed)
}
