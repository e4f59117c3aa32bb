package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitasks/internal/tasktree"
)

func finishedRun(t *testing.T, cfg tasktree.Config) *tasktree.RunResult {
	t.Helper()
	e, err := tasktree.NewEngine(cfg)
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	return res
}

func TestStore_SaveAndLoad(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	require.NoError(t, err)

	cfg := tasktree.Config{Budget: 12, Workers: 3, Lower: 10, Upper: 100, Seed: 42}
	res := finishedRun(t, cfg)
	rep := New("run-123", time.Unix(1700000000, 0), cfg, res)
	rep.TraceHash = "abc"
	require.NoError(t, store.Save(rep))

	data, err := os.ReadFile(filepath.Join(base, "runs", "run-123", "report.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_hash: "+cfg.Hash())
	assert.Contains(t, string(data), "trace_hash: abc")

	loaded, err := store.Load("run-123")
	require.NoError(t, err)
	assert.Equal(t, rep.Config, loaded.Config)
	assert.Equal(t, rep.Average, loaded.Average)
	assert.Equal(t, rep.WorkerCounts, loaded.WorkerCounts)
	assert.Equal(t, int64(12), loaded.Admitted)
	assert.True(t, rep.StartedAt.Equal(loaded.StartedAt))
}

func TestStore_ListRunIDs_Sorted(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ids, err := store.ListRunIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)

	cfg := tasktree.Config{Budget: 1, Workers: 1, Lower: 1, Upper: 2, Seed: 1}
	res := finishedRun(t, cfg)
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Save(New(id, time.Now(), cfg, res)))
	}

	ids, err = store.ListRunIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestStore_RejectsInvalidReport(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(Report{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run_id is required")

	cfg := tasktree.Config{Budget: 2, Workers: 1, Lower: 1, Upper: 2}
	rep := New("../escape", time.Now(), cfg, finishedRun(t, cfg))
	assert.Error(t, store.Save(rep))

	rep = New("ok", time.Now(), cfg, finishedRun(t, cfg))
	rep.WorkerCounts = []int64{99}
	assert.Error(t, store.Save(rep))
}

func TestStore_LoadRejectsUnknownFields(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	require.NoError(t, err)

	cfg := tasktree.Config{Budget: 2, Workers: 1, Lower: 1, Upper: 2}
	require.NoError(t, store.Save(New("r1", time.Now(), cfg, finishedRun(t, cfg))))

	path := store.ReportPath("r1")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(data, []byte("surprise: 1\n")...), 0o644))

	_, err = store.Load("r1")
	assert.Error(t, err)
}

func TestStore_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	require.NoError(t, err)

	cfg := tasktree.Config{Budget: 3, Workers: 2, Lower: 1, Upper: 5}
	require.NoError(t, store.Save(New("r1", time.Now(), cfg, finishedRun(t, cfg))))

	entries, err := os.ReadDir(filepath.Join(base, "runs", "r1"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp."), "leftover temp file %s", e.Name())
	}
}

func TestNewStore_RequiresBaseDir(t *testing.T) {
	_, err := NewStore("  ")
	assert.Error(t, err)
}

func TestNewRunID_Unique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
