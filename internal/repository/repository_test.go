package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"matrix-planner/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "data", "planner.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestSQLiteFile(t *testing.T) {
	dir := t.TempDir()
	for _, tc := range []struct {
		dsn  string
		want string
	}{
		{dsn: ":memory:", want: ""},
		{dsn: "file::memory:?cache=shared", want: ""},
		{dsn: "file:planner?mode=memory", want: ""},
		{dsn: filepath.Join(dir, "planner.db"), want: filepath.Join(dir, "planner.db")},
		{dsn: "file:" + filepath.Join(dir, "x.db") + "?_busy_timeout=5000", want: filepath.Join(dir, "x.db")},
	} {
		got, err := sqliteFile(tc.dsn)
		require.NoError(t, err, tc.dsn)
		assert.Equal(t, tc.want, got, tc.dsn)
	}

	got, err := sqliteFile("planner.db")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestNewDBCreatesDirAndLogsFile(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	file := filepath.Join(t.TempDir(), "nested", "dir", "planner.db")

	db, err := NewDB(file, zap.New(core))
	require.NoError(t, err)
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	opened := logs.FilterMessage("database opened").All()
	require.Len(t, opened, 1)
	assert.Equal(t, file, opened[0].ContextMap()["file"])
}

func TestLocalStorageMissingKey(t *testing.T) {
	storage := NewLocalStorage(newTestDB(t))

	var out []string
	err := storage.Get(context.Background(), "nothing", &out)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageOverwriteAndRemove(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage(newTestDB(t))

	require.NoError(t, storage.Set(ctx, "k", []string{"a"}))
	require.NoError(t, storage.Set(ctx, "k", []string{"b", "c"}))

	var out []string
	require.NoError(t, storage.Get(ctx, "k", &out))
	assert.Equal(t, []string{"b", "c"}, out)

	require.NoError(t, storage.Remove(ctx, "k"))
	assert.ErrorIs(t, storage.Get(ctx, "k", &out), ErrNotFound)
}

func TestTaskRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(NewLocalStorage(newTestDB(t)))

	tasks, err := repo.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	created := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	done := created.Add(2 * time.Hour)
	want := []model.Task{
		{ID: 1, Title: "Write report", Important: true, CreatedAt: created},
		{ID: 2, Title: "Call back", Urgent: true, Completed: true, CreatedAt: created, CompletedAt: &done},
	}
	require.NoError(t, repo.SaveTasks(ctx, want))

	got, err := repo.LoadTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Write report", got[0].Title)
	assert.Nil(t, got[0].CompletedAt)
	require.NotNil(t, got[1].CompletedAt)
	assert.True(t, done.Equal(*got[1].CompletedAt))
}

func TestTaskRepositoryStoresFlatJSONArray(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewTaskRepository(NewLocalStorage(db))

	created := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveTasks(ctx, []model.Task{{ID: 7, Title: "x", CreatedAt: created}}))

	var entry model.Entry
	require.NoError(t, db.Where("`key` = ?", TasksKey).First(&entry).Error)
	assert.JSONEq(t,
		`[{"id":7,"title":"x","important":false,"urgent":false,"completed":false,"createdAt":"2024-03-10T08:00:00Z"}]`,
		entry.Value)
}

func TestBigRockRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewBigRockRepository(NewLocalStorage(newTestDB(t)))

	rocks, err := repo.LoadBigRocks(ctx)
	require.NoError(t, err)
	assert.Empty(t, rocks)

	want := model.BigRocks{"work": {"Ship v2", "Hire"}, "family": {"Trip"}}
	require.NoError(t, repo.SaveBigRocks(ctx, want))

	got, err := repo.LoadBigRocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
