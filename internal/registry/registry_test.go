package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/modelout/internal/models"
)

func TestDefault_BuiltinModels(t *testing.T) {
	reg := Default()

	assert.Equal(t, []string{"hrrr", "rrfs", "wrf", "wrf-geogrid"}, reg.Names())
	assert.Equal(t, []string{"grib2", "netcdf"}, reg.Formats())

	wrf, err := reg.Lookup("WRF")
	require.NoError(t, err)
	assert.Equal(t, "%Y-%m-%d_%H:%M:%S", wrf.TimeFormat)
	assert.True(t, wrf.SearchPath.UseDomainTag)
	assert.Equal(t, "wrfout_", wrf.SearchPath.FilePrefix)

	geo, err := reg.Lookup("wrf-geogrid")
	require.NoError(t, err)
	assert.True(t, geo.IsStatic())
}

func TestLookup_Unsupported(t *testing.T) {
	_, err := Default().Lookup("gfs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnsupportedModel))
	assert.Contains(t, err.Error(), "hrrr, rrfs, wrf, wrf-geogrid")
}

func TestCheckFormat(t *testing.T) {
	reg := Default()
	assert.NoError(t, reg.CheckFormat("NetCDF"))
	assert.NoError(t, reg.CheckFormat("grib2"))

	err := reg.CheckFormat("zarr")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnsupportedModel))
}

func TestLookup_ReturnsCopies(t *testing.T) {
	reg := Default()

	wrf, err := reg.Lookup("wrf")
	require.NoError(t, err)
	wrf.Dims["nt"] = "mutated"

	again, err := reg.Lookup("wrf")
	require.NoError(t, err)
	assert.Equal(t, "Time", again.Dims["nt"])
}

func TestAttributes(t *testing.T) {
	reg := Default()

	dims, err := reg.Attributes("hrrr", models.AttrDims)
	require.NoError(t, err)
	assert.Equal(t, "xgrid_0", dims["nx"])

	coords, err := reg.Attributes("wrf-geogrid", models.AttrCoords)
	require.NoError(t, err)
	assert.Empty(t, coords)

	_, err = reg.Attributes("hrrr", "vars")
	assert.True(t, errors.Is(err, models.ErrInvalidParameter))
}

func TestNew_RejectsBadTimeFormat(t *testing.T) {
	_, err := New([]models.ModelProfile{{Name: "bad", TimeFormat: "%Y%Q"}}, builtinFormats)
	assert.Error(t, err)
}

func TestLoadProfiles_HCL(t *testing.T) {
	dir := t.TempDir()
	content := `
model "gfs" {
  time_format = "%Y%m%d%H"

  search_path {
    sub_to_file_divider = "**/"
    prefix              = "gfs."
    suffix              = "*"
  }

  grammar {
    kind             = "pattern"
    forecast_pattern = "\\.f(\\d{3})"
    init_pattern     = "\\.t(\\d{2})z"
  }

  dims = {
    nx = "lon"
    ny = "lat"
  }
}

model "hrrr" {
  time_format = "%Y%m%d%H"

  search_path {
    sub_to_file_divider = "**/"
    prefix              = "hrrr.t"
    suffix              = "*.grib2"
  }
}
`
	path := filepath.Join(dir, "profiles.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	profiles, err := LoadProfiles(dir)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	gfs := profiles[0]
	assert.Equal(t, "gfs", gfs.Name)
	assert.Equal(t, models.GrammarPattern, gfs.Grammar.Kind)
	assert.Equal(t, `\.f(\d{3})`, gfs.Grammar.ForecastPattern)
	assert.Equal(t, "lon", gfs.Dims["nx"])
	assert.Equal(t, "gfs.", gfs.SearchPath.FilePrefix)

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, reg.Names(), "gfs")

	// HCL profiles replace built-ins with the same name
	hrrr, err := reg.Lookup("hrrr")
	require.NoError(t, err)
	assert.Equal(t, "hrrr.t", hrrr.SearchPath.FilePrefix)
	assert.Equal(t, models.GrammarMarker, hrrr.Grammar.Kind)
}

func TestLoadProfiles_Errors(t *testing.T) {
	_, err := LoadProfiles("/nonexistent/profiles.hcl")
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`model "x" { time_format = `), 0644))
	_, err = LoadProfiles(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "unknown.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`model "x" { colour = "red" }`), 0644))
	_, err = LoadProfiles(path)
	assert.Error(t, err)
}

func TestLoad_NoPaths(t *testing.T) {
	reg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default().Names(), reg.Names())
}
