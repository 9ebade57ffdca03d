package models

import (
	"fmt"
	"regexp"
)

// Supported data formats
const (
	FormatNetCDF = "netcdf"
	FormatGRIB2  = "grib2"
)

// Attribute kinds served by the model attribute tables
const (
	AttrDims   = "dims"
	AttrCoords = "coords"
)

// DefaultDomain is the WRF domain tag used when a request does not name one
const DefaultDomain = "d01"

// SearchPathRule describes how a glob pattern is assembled for a model.
//
// The pattern is: root + MainToSubDivider + subdir + SubToFileDivider +
// FilePrefix [+ domain] + FileSuffix.
type SearchPathRule struct {
	UseDomainTag     bool   `yaml:"use_domain" json:"use_domain"`
	MainToSubDivider string `yaml:"main_to_sub_divider" json:"main_to_sub_divider"`
	SubToFileDivider string `yaml:"sub_to_file_divider" json:"sub_to_file_divider"`
	FilePrefix       string `yaml:"prefix" json:"prefix"`
	FileSuffix       string `yaml:"suffix" json:"suffix"`
}

// GrammarKind selects how forecast and initialization hours are read out of a filename
type GrammarKind string

const (
	// GrammarMarker reads the digits after the last 'f' and the two digits before the last 'z'.
	GrammarMarker GrammarKind = "marker"
	// GrammarPattern reads both fields with regular expressions, one capture group each.
	GrammarPattern GrammarKind = "pattern"
)

// FilenameGrammar is the per-model description of where time fields live in a filename.
type FilenameGrammar struct {
	Kind            GrammarKind `yaml:"kind" json:"kind"`
	ForecastPattern string      `yaml:"forecast_pattern,omitempty" json:"forecast_pattern,omitempty"`
	InitPattern     string      `yaml:"init_pattern,omitempty" json:"init_pattern,omitempty"`
}

// Validate checks that the grammar is usable
func (g FilenameGrammar) Validate() error {
	switch g.Kind {
	case "", GrammarMarker:
		return nil
	case GrammarPattern:
		if g.ForecastPattern == "" {
			return fmt.Errorf("pattern grammar requires a forecast pattern")
		}
		for _, p := range []string{g.ForecastPattern, g.InitPattern} {
			if p == "" {
				continue
			}
			re, err := regexp.Compile(p)
			if err != nil {
				return fmt.Errorf("invalid grammar pattern %q: %w", p, err)
			}
			if re.NumSubexp() != 1 {
				return fmt.Errorf("grammar pattern %q must have exactly one capture group", p)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown grammar kind %q", g.Kind)
	}
}

// ModelProfile is the static configuration of one supported model
type ModelProfile struct {
	Name       string            `yaml:"name" json:"name"`
	TimeFormat string            `yaml:"time_format" json:"time_format"` // strptime-style, empty for time-independent output
	SearchPath SearchPathRule    `yaml:"search_path" json:"search_path"`
	Grammar    FilenameGrammar   `yaml:"grammar" json:"grammar"`
	Dims       map[string]string `yaml:"dims,omitempty" json:"dims,omitempty"`
	Coords     map[string]string `yaml:"coords,omitempty" json:"coords,omitempty"`
}

// IsStatic reports whether the model output carries no time information
func (p ModelProfile) IsStatic() bool {
	return p.TimeFormat == ""
}

// AttributeTable returns the dims or coords table for the profile.
// The second return value is false when kind is not a known attribute kind.
func (p ModelProfile) AttributeTable(kind string) (map[string]string, bool) {
	switch kind {
	case AttrDims:
		return p.Dims, true
	case AttrCoords:
		return p.Coords, true
	default:
		return nil, false
	}
}

// Validate checks if the profile has all required fields
func (p ModelProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("model profile name is required")
	}
	if err := p.Grammar.Validate(); err != nil {
		return fmt.Errorf("model %s: %w", p.Name, err)
	}
	return nil
}
