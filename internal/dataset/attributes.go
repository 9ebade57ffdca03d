package dataset

import (
	"fmt"

	"github.com/harrison/modelout/internal/models"
)

// LookupAttributes resolves a model attribute table against an open dataset.
// For dims each logical axis maps to its dimension length; for coords each
// logical coordinate maps to the variable's values. An empty or nil table
// yields an empty map.
func LookupAttributes(ds Dataset, kind string, table map[string]string) (map[string]any, error) {
	if kind != models.AttrDims && kind != models.AttrCoords {
		return nil, &models.ResolveError{
			Kind:    models.ErrInvalidParameter,
			Message: fmt.Sprintf("attribute kind must be %s or %s, got %q", models.AttrDims, models.AttrCoords, kind),
		}
	}

	out := make(map[string]any, len(table))
	for logical, name := range table {
		if kind == models.AttrDims {
			n, err := ds.DimensionLength(name)
			if err != nil {
				return nil, fmt.Errorf("%s %s in %s: %w", kind, logical, ds.Path(), err)
			}
			out[logical] = n
			continue
		}

		values, err := ds.VariableValues(name)
		if err != nil {
			return nil, fmt.Errorf("%s %s in %s: %w", kind, logical, ds.Path(), err)
		}
		out[logical] = values
	}
	return out, nil
}
