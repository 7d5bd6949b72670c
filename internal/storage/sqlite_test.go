package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsdoc/internal/errors"
	"tsdoc/internal/models"
)

func testProject() *models.ProjectReflection {
	p := models.NewProjectReflection("widgets")
	class := models.NewDeclarationReflection("Widget", models.KindClass, p)
	method := models.NewDeclarationReflection("render", models.KindMethod, class)
	fn := models.NewDeclarationReflection("make", models.KindFunction, p)
	for _, r := range []models.Reflection{class, method, fn} {
		p.Register(r)
	}
	return p
}

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewRun(t *testing.T) {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := NewRun(testProject(), "abc", []string{"warning"}, started, time.Second)

	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "widgets", run.Project)
	assert.Equal(t, 3, run.ReflectionCount)
	assert.Equal(t, []ReflectionRecord{
		{ID: 1, Name: "Widget", Kind: models.KindClass, Parent: 0},
		{ID: 2, Name: "render", Kind: models.KindMethod, Parent: 1},
		{ID: 3, Name: "make", Kind: models.KindFunction, Parent: 0},
	}, run.Reflections)

	failed := NewRun(nil, "abc", []string{"a.ts(1,1): error TS1005: ';' expected."}, started, 0)
	assert.Empty(t, failed.Project)
	assert.Empty(t, failed.Reflections)
}

func TestSQLiteStore_RunRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := NewRun(testProject(), "digest-1", []string{"first", "second"}, started, 1500*time.Millisecond)
	require.NoError(t, store.SaveRun(ctx, run))

	loaded, err := store.LoadRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, "widgets", loaded.Project)
	assert.True(t, started.Equal(loaded.StartedAt))
	assert.Equal(t, 1500*time.Millisecond, loaded.Duration)
	assert.Equal(t, "digest-1", loaded.OptionsDigest)
	assert.Equal(t, []string{"first", "second"}, loaded.Diagnostics)
	assert.Equal(t, run.Reflections, loaded.Reflections)

	_, err = store.LoadRun(ctx, "missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		run := NewRun(testProject(), "d", nil, base.Add(time.Duration(i)*time.Minute), time.Second)
		require.NoError(t, store.SaveRun(ctx, run))
		ids = append(ids, run.ID)
	}
	require.NoError(t, store.SaveRun(ctx, NewRun(nil, "d", []string{"failed"}, base.Add(time.Hour), 0)))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 4)
	assert.Equal(t, []string{"failed"}, runs[0].Diagnostics)
	assert.Equal(t, 0, runs[0].ReflectionCount)
	assert.Equal(t, ids[2], runs[1].ID)
	assert.Equal(t, 3, runs[1].ReflectionCount)
	assert.Empty(t, runs[1].Reflections)

	latest, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, latest, 2)
}

func TestSQLiteStore_DuplicateRunID(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := NewRun(testProject(), "d", nil, time.Now(), 0)
	require.NoError(t, store.SaveRun(ctx, run))
	assert.Error(t, store.SaveRun(ctx, run))

	loaded, err := store.LoadRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Reflections, 3, "a failed save leaves the first run intact")
}
