package fileutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlob_DoubleStarMatchesAnyDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"wrfout_d01_2023-01-01_00:00:00",
		"run1/wrfout_d01_2023-01-01_01:00:00",
		"run1/deep/wrfout_d01_2023-01-01_02:00:00",
		"run1/wrfout_d02_2023-01-01_01:00:00",
	})

	matches, err := Glob(filepath.Join(root, "**", "wrfout_d01*"))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"wrfout_d01_2023-01-01_00:00:00",
		"wrfout_d01_2023-01-01_01:00:00",
		"wrfout_d01_2023-01-01_02:00:00",
	}, baseNames(matches))
}

func TestGlob_FilesOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"dyn2023010100/dynf000.nc"})

	matches, err := Glob(filepath.Join(root, "dyn*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "directories must not be returned")
}

func TestGlob_NoMatchIsEmpty(t *testing.T) {
	matches, err := Glob(filepath.Join(t.TempDir(), "**", "hrrr.*"))
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestGlob_BadPattern(t *testing.T) {
	_, err := Glob("/data/[")
	assert.Error(t, err)
}
