package resolver

import (
	"sort"
	"strconv"
	"strings"

	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/timefmt"
)

// knownExtensions are stripped from canonical suffixes before field extraction
var knownExtensions = []string{".nc", ".ncf", ".grib", ".grib2"}

func stripKnownExtension(s string) string {
	for _, ext := range knownExtensions {
		if strings.HasSuffix(s, ext) {
			s = s[:len(s)-len(ext)]
		}
	}
	return s
}

// containing returns the paths that contain substr, in input order
func containing(paths []string, substr string) []string {
	var out []string
	for _, p := range paths {
		if strings.Contains(p, substr) {
			out = append(out, p)
		}
	}
	return out
}

// yearBucket returns the sorted, de-duplicated paths containing year
func yearBucket(paths []string, year string) []string {
	return uniqueSorted(containing(paths, year))
}

func uniqueSorted(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// stampLocator finds the timestamp field of a path from the year it contains
type stampLocator struct {
	year   string
	offset int             // offset of the year inside the timestamp
	layout *timefmt.Layout // nil accepts the last occurrence of the year
}

// start returns where the timestamp field begins in path, or -1 when the
// year is absent. Occurrences of the year are tried from last to first and
// the first one whose surrounding text parses with the layout wins, so a
// day and hour that spell the year (2023052023) do not move the field. When
// none parses, the last occurrence is used.
func (s stampLocator) start(path string) int {
	last := strings.LastIndex(path, s.year)
	if last < 0 {
		return -1
	}
	if s.layout == nil {
		return max(0, last-s.offset)
	}

	width := s.layout.Width()
	for i := last; i >= 0; i = strings.LastIndex(path[:i+len(s.year)-1], s.year) {
		begin := i - s.offset
		if begin >= 0 && begin+width <= len(path) {
			if _, err := s.layout.Parse(path[begin : begin+width]); err == nil {
				return begin
			}
		}
	}
	return max(0, last-s.offset)
}

// canonical is the path from the start of its timestamp field on, without a
// known data-format extension.
func (s stampLocator) canonical(path string) string {
	start := s.start(path)
	if start < 0 {
		return stripKnownExtension(path)
	}
	return stripKnownExtension(path[start:])
}

// buildCandidates extracts the time fields of every path. Paths whose
// extracted hours are not usable numbers are dropped.
func buildCandidates(paths []string, stamp stampLocator, g fieldExtractor) []models.FileCandidate {
	out := make([]models.FileCandidate, 0, len(paths))
	for _, p := range paths {
		canonical := stamp.canonical(p)
		forecast, init := g.Extract(canonical)
		c := models.FileCandidate{
			Path:             p,
			Canonical:        canonical,
			ForecastHourText: forecast,
			InitHourText:     init,
		}
		var ok bool
		if forecast != "" {
			if c.ForecastHour, ok = hours(forecast); !ok {
				continue
			}
		}
		if init != "" {
			if c.InitHour, ok = hours(init); !ok {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// withForecast returns the candidates carrying a forecast hour, ordered by
// ascending forecast hour and then by path.
func withForecast(candidates []models.FileCandidate) []models.FileCandidate {
	var out []models.FileCandidate
	for _, c := range candidates {
		if c.ForecastHourText != "" {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ForecastHour != out[j].ForecastHour {
			return out[i].ForecastHour < out[j].ForecastHour
		}
		return out[i].Path < out[j].Path
	})
	return out
}

func allHaveInit(candidates []models.FileCandidate) bool {
	if len(candidates) == 0 {
		return false
	}
	for _, c := range candidates {
		if c.InitHourText == "" {
			return false
		}
	}
	return true
}

func candidatePaths(candidates []models.FileCandidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Path)
	}
	return out
}

// maxHours bounds an hour field so that it converts to a time.Duration
const maxHours = 1_000_000

// hours converts a digit-only hour field. It fails for text that is not a
// number or is too large to be an hour offset.
func hours(text string) (int, bool) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 || n > maxHours {
		return 0, false
	}
	return n, true
}
