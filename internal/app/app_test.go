package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nzoschke/goalbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		AppEnv:          "test",
		StoreDriver:     driver,
		SnapshotBackend: "file",
		SnapshotCodec:   "json",
		ScanInterval:    time.Minute,
		Timezone:        time.UTC,
	}
}

func TestNew_Memory(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(config.StoreMemory))
	require.NoError(t, err)
	defer a.Close()

	id, err := a.GoalService.Create(ctx, "u1", "c1", "ship it", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.NoError(t, a.VoteService.Cast(ctx, "u2", id, true))
	tally, err := a.VoteService.Tally(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.For)
}

func TestNew_FileSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(config.StoreFile)
	cfg.SnapshotDir = t.TempDir()

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	id, err := a.GoalService.Create(ctx, "u1", "c1", "ship it", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = os.Stat(filepath.Join(cfg.SnapshotDir, "goals.json"))
	require.NoError(t, err)

	b, err := New(ctx, cfg)
	require.NoError(t, err)
	defer b.Close()

	goal, err := b.GoalService.ByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ship it", goal.Description)

	next, err := b.GoalService.Create(ctx, "u1", "c1", "again", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, id+1, next)
}

func TestNew_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(config.StoreSQLite)
	cfg.DBConnection = filepath.Join(t.TempDir(), "goalbot.db")

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.DB)

	id, err := a.GoalService.Create(ctx, "u1", "c1", "ship it", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestNew_BadCodec(t *testing.T) {
	cfg := testConfig(config.StoreFile)
	cfg.SnapshotDir = t.TempDir()
	cfg.SnapshotCodec = "xml"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
