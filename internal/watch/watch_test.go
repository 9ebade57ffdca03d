package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/modelout/internal/history"
	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/registry"
)

type memoryRecorder struct {
	mu      sync.Mutex
	records []*history.Resolution
}

func (m *memoryRecorder) Record(_ context.Context, rec *history.Resolution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryRecorder) all() []*history.Resolution {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*history.Resolution(nil), m.records...)
}

func touch(t *testing.T, root string, rel ...string) []string {
	t.Helper()
	var out []string
	for _, r := range rel {
		path := filepath.Join(root, r)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
		out = append(out, path)
	}
	return out
}

func rrfsRequest(root string) models.ResolutionRequest {
	return models.ResolutionRequest{
		Model: "rrfs", Format: "netcdf", RootDir: root, SubDirHint: "rrfs", ValidTime: "2023010101",
	}
}

func TestNew_RejectsInvalidRequest(t *testing.T) {
	_, err := New(registry.Default(), models.ResolutionRequest{Model: "gfs", Format: "netcdf", RootDir: "/data"}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnsupportedModel))
}

func TestNew_Defaults(t *testing.T) {
	w, err := New(registry.Default(), rrfsRequest(t.TempDir()), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultInterval, w.interval)
	assert.Equal(t, DefaultTimeout, w.timeout)
	assert.Equal(t, "d01", w.req.Domain)
}

func TestAttempt_SeesNewFiles(t *testing.T) {
	root := t.TempDir()
	rec := &memoryRecorder{}
	w, err := New(registry.Default(), rrfsRequest(root), Options{History: rec})
	require.NoError(t, err)

	_, err = w.Attempt(context.Background())
	require.Error(t, err)
	assert.True(t, Retryable(err))

	files := touch(t, root, "rrfs/2023010100/dynf000.nc", "rrfs/2023010100/dynf001.nc")
	result, err := w.Attempt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{files[1]}, result.ValidFiles)

	assert.Equal(t, 2, w.Attempts())
	records := rec.all()
	require.Len(t, records, 2)
	assert.Equal(t, "no_match", records[0].ErrorKind)
	assert.True(t, records[1].Succeeded())
	assert.Equal(t, history.SourceWatch, records[1].Source)
}

func TestRun_ResolvesImmediately(t *testing.T) {
	root := t.TempDir()
	files := touch(t, root, "rrfs/2023010100/dynf000.nc", "rrfs/2023010100/dynf001.nc")

	w, err := New(registry.Default(), rrfsRequest(root), Options{Interval: time.Hour, Timeout: 10 * time.Second})
	require.NoError(t, err)

	result, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{files[1]}, result.ValidFiles)
	assert.Equal(t, 1, w.Attempts())
}

func TestRun_TimesOut(t *testing.T) {
	w, err := New(registry.Default(), rrfsRequest(t.TempDir()), Options{Interval: time.Hour, Timeout: 300 * time.Millisecond})
	require.NoError(t, err)

	_, err = w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestRun_StopsOnPermanentError(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "geo/geo_em.d01.nc", "geo/nested/geo_em.d01.nc")

	req := models.ResolutionRequest{Model: "wrf-geogrid", Format: "netcdf", RootDir: root, SubDirHint: "geo"}
	w, err := New(registry.Default(), req, Options{Interval: time.Hour, Timeout: 10 * time.Second})
	require.NoError(t, err)

	_, err = w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMultipleStaticFiles))
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestRun_Cancelled(t *testing.T) {
	w, err := New(registry.Default(), rrfsRequest(t.TempDir()), Options{Interval: time.Hour, Timeout: time.Minute})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	_, err = w.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrTimeout))
}
