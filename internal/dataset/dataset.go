// Package dataset opens resolved model output files and reads the
// dimension lengths and coordinate values named by a model's attribute tables.
package dataset

import (
	"errors"
	"fmt"

	"github.com/harrison/modelout/internal/models"
)

// ErrNotFound is returned when a dimension or variable is not in a dataset
var ErrNotFound = errors.New("not found in dataset")

// Dataset is an open model output file
type Dataset interface {
	Path() string
	Format() string
	// DimensionLength returns the length of a named dimension
	DimensionLength(name string) (int, error)
	// VariableValues returns the decoded values of a named variable
	VariableValues(name string) (any, error)
	Close() error
}

// Opener opens a file in the given data format
type Opener func(path, format string) (Dataset, error)

// Open opens path with the decoder for format
func Open(path, format string) (Dataset, error) {
	switch format {
	case models.FormatNetCDF:
		return OpenNetCDF(path)
	case models.FormatGRIB2:
		return OpenGRIB2(path)
	default:
		return nil, &models.ResolveError{
			Kind:    models.ErrUnsupportedModel,
			Message: fmt.Sprintf("no reader for data format %q", format),
		}
	}
}
