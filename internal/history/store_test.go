package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/modelout/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRequest() models.ResolutionRequest {
	return models.ResolutionRequest{
		Model:     "hrrr",
		Format:    "grib2",
		RootDir:   "/data/",
		ValidTime: "2023010120",
		Domain:    "d01",
	}
}

func TestNewStore_AppliesMigrations(t *testing.T) {
	store := newTestStore(t)

	v, err := store.LatestVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)

	// Re-applying is a no-op
	require.NoError(t, store.ApplyMigrations(context.Background()))
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, path)
}

func TestRecordAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result := &models.ResolutionResult{Strategy: models.StrategyInitOffset, SearchPath: "/data/**/hrrr.*"}
	result.RegisterMatch("/data/hrrr.t18z.wrfnatf02.grib2")
	result.RegisterMatch("/data/hrrr.t12z.wrfnatf08.grib2")

	rec := NewResolution(SourceServer, sampleRequest(), result, nil, 1500*time.Millisecond)
	require.NoError(t, store.Record(ctx, rec))

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, sampleRequest(), got.Request)
	assert.Equal(t, models.StrategyInitOffset, got.Strategy)
	assert.Equal(t, result.ValidFiles, got.Files)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.Equal(t, SourceServer, got.Source)
	assert.True(t, got.Succeeded())
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
}

func TestRecord_Failure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	req := sampleRequest()

	resolveErr := &models.ResolveError{
		Kind:       models.ErrNoMatch,
		Message:    "file search returned no matches",
		SearchPath: "/data/**/hrrr.*",
	}
	rec := NewResolution(SourceCLI, req, nil, resolveErr, 0)
	require.NoError(t, store.Record(ctx, rec))

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, got.Succeeded())
	assert.Equal(t, "no_match", got.ErrorKind)
	assert.Equal(t, "/data/**/hrrr.*", got.SearchPath)
	assert.Empty(t, got.Files)
}

func TestGet_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		rec := NewResolution(SourceWatch, sampleRequest(), nil, nil, 0)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Record(ctx, rec))
		ids = append(ids, rec.ID)
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, ids[2], limited[0].ID)
}
