package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/modelout/internal/history"
	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/registry"
)

func TestWarningDisplay(t *testing.T) {
	tests := []struct {
		name     string
		warning  Warning
		contains []string
		absent   []string
	}{
		{
			name:     "title only",
			warning:  Warning{Title: "Nothing found"},
			contains: []string{"Warning: Nothing found\n"},
			absent:   []string{"Affected", "Suggestion"},
		},
		{
			name:     "single file",
			warning:  Warning{Title: "T", Files: []string{"/d/a.nc"}},
			contains: []string{"    Affected file:\n", "      1. /d/a.nc\n"},
		},
		{
			name: "full",
			warning: Warning{
				Title:      "T",
				Message:    "details",
				Files:      []string{"/d/a.nc", "/d/b.nc"},
				Suggestion: "narrow it",
			},
			contains: []string{"    details\n", "    Affected files:\n", "      2. /d/b.nc\n", "    Suggestion:\n    narrow it\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.warning.Display(&buf)
			out := buf.String()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestWarningFor(t *testing.T) {
	err := &models.ResolveError{
		Kind:       models.ErrAmbiguousMatch,
		Message:    "2 files are valid at the requested time",
		SearchPath: "/d/**/f*",
		Candidates: []string{"/d/a/f001.nc", "/d/b/f001.nc"},
	}

	w, ok := WarningFor(err)
	require.True(t, ok)
	assert.Equal(t, "Several files are valid at the requested time", w.Title)
	assert.Contains(t, w.Message, "searched /d/**/f*")
	assert.Equal(t, err.Candidates, w.Files)
	assert.Contains(t, w.Suggestion, "--sub")

	_, ok = WarningFor(errors.New("plain"))
	assert.False(t, ok)
}

func TestPrintResult(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	result := &models.ResolutionResult{
		Strategy:   models.StrategyBaseOffset,
		SearchPath: "/d/rrfs/**/dyn*",
		BaseTime:   &base,
	}
	result.RegisterMatch("/d/rrfs/2023010100/dynf002.nc")

	var buf bytes.Buffer
	PrintResult(&buf, models.ResolutionRequest{Model: "rrfs", Format: "netcdf", ValidTime: "2023010102"}, result)
	out := buf.String()

	assert.Contains(t, out, "rrfs")
	assert.Contains(t, out, " netcdf at 2023010102")
	assert.Contains(t, out, "Strategy:    base-offset")
	assert.Contains(t, out, "Base time:   2023-01-01 00:00 UTC")
	assert.Contains(t, out, "1. /d/rrfs/2023010100/dynf002.nc")
}

func TestPrintProfiles(t *testing.T) {
	var buf bytes.Buffer
	PrintProfiles(&buf, registry.Default())
	out := buf.String()

	assert.Contains(t, out, "<root>/<sub>/**/wrfout_<domain>*")
	assert.Contains(t, out, "<root>/<sub>/**/geo_em.<domain>.nc")
	assert.Contains(t, out, "Formats: grib2, netcdf")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "MODEL"))
}

func TestPrintAttributes(t *testing.T) {
	var buf bytes.Buffer
	PrintAttributes(&buf, "/d/wrfout", "dims", map[string]any{"ny": 2, "nx": 3})

	out := buf.String()
	assert.Less(t, strings.Index(out, "nx"), strings.Index(out, "ny"))
	assert.Contains(t, out, "/d/wrfout (dims)")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	PrintHistory(&buf, nil)
	assert.Equal(t, "No resolutions recorded.\n", buf.String())

	buf.Reset()
	ok := &history.Resolution{
		Source:    history.SourceCLI,
		Request:   models.ResolutionRequest{Model: "hrrr", ValidTime: "2023010120"},
		Strategy:  models.StrategyInitOffset,
		Files:     []string{"a", "b", "c"},
		CreatedAt: time.Now(),
	}
	failed := &history.Resolution{
		Source:       history.SourceWatch,
		Request:      models.ResolutionRequest{Model: "rrfs"},
		ErrorKind:    "no_match",
		ErrorMessage: "no matching file",
		CreatedAt:    time.Now(),
	}
	PrintHistory(&buf, []*history.Resolution{ok, failed})
	out := buf.String()

	assert.Contains(t, out, "init-offset")
	assert.Contains(t, out, "no_match")
	assert.Contains(t, out, "any time")
}

func TestProgressIndicator(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressIndicator(&buf, 2)

	p.Start()
	p.Step("/d/a.nc")
	p.Fail("/d/b.nc", errors.New("truncated"))
	p.Complete()

	out := buf.String()
	assert.Contains(t, out, "Reading 2 resolved files:")
	assert.Contains(t, out, "[1/2] a.nc")
	assert.Contains(t, out, "[2/2] b.nc: truncated")
	assert.Contains(t, out, "Read 1 of 2 files")
	assert.Contains(t, out, "1/2 (50%)")
}
