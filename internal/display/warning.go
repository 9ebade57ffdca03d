package display

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/modelout/internal/models"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		if len(w.Files) == 1 {
			b.WriteString("    Affected file:\n")
		} else {
			b.WriteString("    Affected files:\n")
		}
		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	color.New(color.FgYellow).Fprint(out, b.String())
}

var warningText = map[error][2]string{
	models.ErrInvalidParameter: {
		"Invalid request",
		"Check --root and --valid-time; the valid time must match the model's time format exactly.",
	},
	models.ErrUnsupportedModel: {
		"Unsupported model or format",
		"Run 'modelout profiles' to list the registered models and formats.",
	},
	models.ErrNoMatch: {
		"No file is valid at the requested time",
		"Check the root and subdirectory, and that the valid time is inside the forecast range.",
	},
	models.ErrAmbiguousMatch: {
		"Several files are valid at the requested time",
		"Narrow the search with --sub so only one forecast run is visible.",
	},
	models.ErrMissingForecastEncoding: {
		"Filenames carry no forecast hour",
		"Request a valid time that appears literally in exactly one filename.",
	},
	models.ErrMultipleStaticFiles: {
		"Several geogrid files match the domain",
		"Point --root at the directory holding the geo_em file you want.",
	},
}

// WarningFor builds a Warning for a resolution error. The second return
// value is false when err is not a resolution error.
func WarningFor(err error) (Warning, bool) {
	var re *models.ResolveError
	if !errors.As(err, &re) {
		return Warning{}, false
	}
	text, ok := warningText[re.Kind]
	if !ok {
		return Warning{}, false
	}

	msg := re.Message
	if re.SearchPath != "" {
		msg = fmt.Sprintf("%s (searched %s)", msg, re.SearchPath)
	}
	return Warning{
		Title:      text[0],
		Message:    msg,
		Files:      re.Candidates,
		Suggestion: text[1],
	}, true
}
