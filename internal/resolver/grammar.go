package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/harrison/modelout/internal/models"
)

// fieldExtractor reads the forecast hour and initialization hour out of a
// canonical suffix. Either return value may be empty.
type fieldExtractor interface {
	Extract(canonical string) (forecast, init string)
}

func newFieldExtractor(g models.FilenameGrammar) (fieldExtractor, error) {
	switch g.Kind {
	case "", models.GrammarMarker:
		return markerGrammar{forecastMarker: 'f', initMarker: 'z'}, nil
	case models.GrammarPattern:
		if err := g.Validate(); err != nil {
			return nil, err
		}
		pg := patternGrammar{forecast: regexp.MustCompile(g.ForecastPattern)}
		if g.InitPattern != "" {
			pg.init = regexp.MustCompile(g.InitPattern)
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown grammar kind %q", g.Kind)
	}
}

// markerGrammar covers names like hrrr.t12z.wrfnatf08 and 2023010100/f006:
// the forecast hour is the digit run after the last 'f', the initialization
// hour the two characters before the last 'z'. A marker at index 0 does not count.
type markerGrammar struct {
	forecastMarker byte
	initMarker     byte
}

func (g markerGrammar) Extract(canonical string) (string, string) {
	var forecast, init string

	if i := strings.LastIndexByte(canonical, g.forecastMarker); i > 0 {
		forecast = leadingDigits(canonical[i+1:])
	}
	if i := strings.LastIndexByte(canonical, g.initMarker); i > 0 {
		init = onlyDigits(canonical[max(0, i-2):i])
	}

	return forecast, init
}

// patternGrammar reads each field from the first capture group of a regular expression
type patternGrammar struct {
	forecast *regexp.Regexp
	init     *regexp.Regexp
}

func (g patternGrammar) Extract(canonical string) (string, string) {
	return lastCapture(g.forecast, canonical), lastCapture(g.init, canonical)
}

func lastCapture(re *regexp.Regexp, s string) string {
	if re == nil {
		return ""
	}
	all := re.FindAllStringSubmatch(s, -1)
	if len(all) == 0 {
		return ""
	}
	m := all[len(all)-1][1]
	if onlyDigits(m) != m {
		return ""
	}
	return m
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	return s[:end]
}

func onlyDigits(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
