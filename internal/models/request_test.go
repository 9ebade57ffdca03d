package models

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutionRequest_Normalize(t *testing.T) {
	sep := string(filepath.Separator)
	req := ResolutionRequest{
		Model:      "  WRF ",
		Format:     "NetCDF",
		RootDir:    "/data/runs",
		SubDirHint: "2023010100",
		ValidTime:  " 2023-01-01_00:00:00 ",
	}

	req.Normalize()

	assert.Equal(t, "wrf", req.Model)
	assert.Equal(t, "netcdf", req.Format)
	assert.Equal(t, "/data/runs"+sep, req.RootDir)
	assert.Equal(t, "2023010100"+sep, req.SubDirHint)
	assert.Equal(t, "2023-01-01_00:00:00", req.ValidTime)
	assert.Equal(t, DefaultDomain, req.Domain)
}

func TestResolutionRequest_NormalizeKeepsEmptySubDir(t *testing.T) {
	req := ResolutionRequest{Model: "hrrr", Format: "grib2", RootDir: "/data/"}
	req.Normalize()

	assert.Equal(t, "/data/", req.RootDir)
	assert.Empty(t, req.SubDirHint)
}

func TestResolutionRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ResolutionRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req:  ResolutionRequest{Model: "wrf", Format: "netcdf", RootDir: "/data/", ValidTime: "2023-01-01_00:00:00", Domain: "d02"},
		},
		{
			name:    "missing model",
			req:     ResolutionRequest{Format: "netcdf", RootDir: "/data/"},
			wantErr: true,
		},
		{
			name:    "missing root dir",
			req:     ResolutionRequest{Model: "wrf", Format: "netcdf"},
			wantErr: true,
		},
		{
			name:    "domain with path characters",
			req:     ResolutionRequest{Model: "wrf", Format: "netcdf", RootDir: "/data/", Domain: "../d01"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameter))
		})
	}
}
