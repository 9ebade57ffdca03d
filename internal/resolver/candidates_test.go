package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/timefmt"
)

func TestBuildSearchPath(t *testing.T) {
	rule := models.SearchPathRule{
		UseDomainTag:     true,
		MainToSubDivider: "wrf_",
		SubToFileDivider: "**/",
		FilePrefix:       "wrfout_",
		FileSuffix:       "*",
	}
	req := models.ResolutionRequest{RootDir: "/data/", SubDirHint: "run1/", Domain: "d02"}

	assert.Equal(t, "/data/wrf_run1/**/wrfout_d02*", BuildSearchPath(rule, req))

	rule.UseDomainTag = false
	assert.Equal(t, "/data/wrf_run1/**/wrfout_*", BuildSearchPath(rule, req))
}

func TestYearBucket(t *testing.T) {
	in := []string{
		"/d/2023/b.nc",
		"/d/2022/a.nc",
		"/d/2023/a.nc",
		"/d/2023/b.nc",
	}

	bucket := yearBucket(in, "2023")
	assert.Equal(t, []string{"/d/2023/a.nc", "/d/2023/b.nc"}, bucket)

	// Adding files that do not contain the year leaves the bucket unchanged
	more := append(in, "/d/2021/c.nc", "/d/misc/d.nc")
	assert.Equal(t, bucket, yearBucket(more, "2023"))
}

func TestCanonicalSuffix(t *testing.T) {
	tests := []struct {
		path       string
		yearOffset int
		want       string
	}{
		{"/d/2023010100/f006.nc", 0, "2023010100/f006"},
		{"/d/20230101/hrrr.t12z.wrfnatf08.grib2", 0, "20230101/hrrr.t12z.wrfnatf08"},
		{"/d/2023/run/2023010100/dynf001.ncf", 0, "2023010100/dynf001"},
		{"/d/01-2023/f1.grib", 3, "01-2023/f1"},
		{"/d/wrfout_d01_2023-01-01_00:00:00", 0, "2023-01-01_00:00:00"},
	}

	for _, tt := range tests {
		stamp := stampLocator{year: "2023", offset: tt.yearOffset}
		assert.Equal(t, tt.want, stamp.canonical(tt.path), tt.path)
	}
}

func TestStampLocator_YearInsideTimestamp(t *testing.T) {
	layout := timefmt.MustCompile("%Y%m%d%H")
	stamp := stampLocator{year: "2023", layout: layout}

	// day 20 hour 23 spells the year again
	path := "/data/2023/2023052023/dynf001.nc"
	start := stamp.start(path)
	require.GreaterOrEqual(t, start, 0)
	assert.Equal(t, "2023052023", path[start:start+layout.Width()])
	assert.Equal(t, "2023052023/dynf001", stamp.canonical(path))

	// nothing parses: fall back to the last occurrence
	assert.Equal(t, "2023x", stamp.canonical("/d/2023x.nc"))
	assert.Equal(t, -1, stamp.start("/d/2022010100/f001.nc"))
}

func TestBuildCandidates_DropsUnusableHours(t *testing.T) {
	g, err := newFieldExtractor(models.FilenameGrammar{Kind: models.GrammarMarker})
	require.NoError(t, err)

	stamp := stampLocator{year: "2023", layout: timefmt.MustCompile("%Y%m%d%H")}
	got := buildCandidates([]string{
		"/d/2023010100/dynf001.nc",
		"/d/2023010100/dynf99999999999999999999.nc",
		"/d/2023010100/dynf2000000.nc",
	}, stamp, g)

	require.Len(t, got, 1)
	assert.Equal(t, "/d/2023010100/dynf001.nc", got[0].Path)
	assert.Equal(t, 1, got[0].ForecastHour)
}

func TestHours(t *testing.T) {
	n, ok := hours("008")
	assert.True(t, ok)
	assert.Equal(t, 8, n)

	for _, text := range []string{"", "99999999999999999999", "2000000"} {
		_, ok := hours(text)
		assert.False(t, ok, text)
	}
}

func TestMarkerGrammar(t *testing.T) {
	g, err := newFieldExtractor(models.FilenameGrammar{Kind: models.GrammarMarker})
	require.NoError(t, err)

	tests := []struct {
		canonical string
		forecast  string
		init      string
	}{
		{"20230101/hrrr.t12z.wrfnatf08", "08", "12"},
		{"2023010100/f006", "006", ""},
		{"2023010100/dynf003", "003", ""},
		{"2023-01-01_00:00:00", "", ""},
		{"f001", "", ""},
		{"2023010100/hrrr.t6z.f01", "01", "6"},
	}

	for _, tt := range tests {
		forecast, init := g.Extract(tt.canonical)
		assert.Equal(t, tt.forecast, forecast, tt.canonical)
		assert.Equal(t, tt.init, init, tt.canonical)
	}
}

func TestPatternGrammar(t *testing.T) {
	g, err := newFieldExtractor(models.FilenameGrammar{
		Kind:            models.GrammarPattern,
		ForecastPattern: `\.f(\d{3})`,
		InitPattern:     `\.t(\d{2})z`,
	})
	require.NoError(t, err)

	forecast, init := g.Extract("20230101/gfs.t06z.pgrb2.0p25.f012")
	assert.Equal(t, "012", forecast)
	assert.Equal(t, "06", init)

	forecast, init = g.Extract("20230101/gfs.pgrb2")
	assert.Empty(t, forecast)
	assert.Empty(t, init)

	_, err = newFieldExtractor(models.FilenameGrammar{Kind: models.GrammarPattern})
	assert.Error(t, err)
}

func TestWithForecastOrdering(t *testing.T) {
	in := []models.FileCandidate{
		{Path: "c", ForecastHourText: "12", ForecastHour: 12},
		{Path: "x"},
		{Path: "b", ForecastHourText: "002", ForecastHour: 2},
		{Path: "a", ForecastHourText: "2", ForecastHour: 2},
	}

	got := withForecast(in)
	assert.Equal(t, []string{"a", "b", "c"}, candidatePaths(got))
}
