package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/modelout/internal/models"
)

func TestFileLogger_CreatesRunLogAndSymlink(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	logger, err := NewFileLoggerWithDirAndLevel(logDir, "info")
	require.NoError(t, err)
	defer logger.Close()

	base := filepath.Base(logger.RunLogPath())
	assert.Regexp(t, `^run-\d{8}-\d{6}\.log$`, base)

	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	require.NoError(t, err)
	assert.Equal(t, base, target)
}

func TestFileLogger_DefaultDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(oldWd)

	logger, err := NewFileLogger()
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(filepath.Join(tmpDir, ".modelout", "logs"))
	assert.NoError(t, err)
}

func TestFileLogger_WritesFilteredLines(t *testing.T) {
	logDir := t.TempDir()
	logger, err := NewFileLoggerWithDirAndLevel(logDir, "warn")
	require.NoError(t, err)

	logger.LogInfo("quiet")
	logger.LogWarn("loud")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.RunLogPath())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "=== modelout run log ===")
	assert.Contains(t, content, "[WARN] loud")
	assert.NotContains(t, content, "quiet")
}

func TestFileLogger_LogResolution(t *testing.T) {
	logDir := t.TempDir()
	logger, err := NewFileLoggerWithDirAndLevel(logDir, "debug")
	require.NoError(t, err)

	req := models.ResolutionRequest{Model: "rrfs", Format: "netcdf", RootDir: "/data/", ValidTime: "2023010102"}
	result := &models.ResolutionResult{Strategy: models.StrategyBaseOffset, SearchPath: "/data/**/dyn*"}
	result.RegisterMatch("/data/2023010100/dynf002.nc")

	logger.LogResolution(req, result, nil)
	logger.LogResolution(req, nil, errors.New("boom"))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.RunLogPath())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Request: model=rrfs format=netcdf")
	assert.Contains(t, content, "Search path: /data/**/dyn*")
	assert.Contains(t, content, "via base-offset: 1 file(s)")
	assert.Contains(t, content, "1. /data/2023010100/dynf002.nc")
	assert.Equal(t, 2, strings.Count(content, "Request: "))
	assert.Contains(t, content, "boom")
}

func TestFileLogger_CloseTwice(t *testing.T) {
	logger, err := NewFileLoggerWithDirAndLevel(t.TempDir(), "info")
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())
	logger.LogInfo("after close is dropped")
}
