package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	runs := []*Run{
		{RunAt: base, SpecSource: "openapi.yaml", Domain: "iam", Entities: 2, Added: 2, FilesWritten: 6},
		{RunAt: base.Add(time.Hour), SpecSource: "openapi.yaml", Domain: "billing", Entities: 1, Added: 1, FilesWritten: 6},
		{RunAt: base.Add(2 * time.Hour), SpecSource: "openapi.yaml", Domain: "iam", Entities: 2, Skipped: true},
	}
	for _, r := range runs {
		require.NoError(t, store.Record(ctx, r))
		assert.NotZero(t, r.ID)
	}

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, runs[2].ID, all[0].ID)
	assert.True(t, all[0].Skipped)
	assert.True(t, all[0].RunAt.Equal(base.Add(2*time.Hour)))

	iam, err := store.List(ctx, "iam", 0)
	require.NoError(t, err)
	require.Len(t, iam, 2)
	assert.Equal(t, 6, iam[1].FilesWritten)
	assert.Equal(t, 2, iam[1].Added)
	assert.Equal(t, "openapi.yaml", iam[1].SpecSource)

	latest, err := store.List(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "iam", latest[0].Domain)
}

func TestRecordDefaultsTime(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	run := &Run{SpecSource: "x", Domain: "misc"}
	require.NoError(t, store.Record(ctx, run))
	assert.False(t, run.RunAt.IsZero())
}

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".domaingen", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, &Run{SpecSource: "s", Domain: "d"}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.List(ctx, "d", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
