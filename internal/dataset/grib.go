package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nilsmagnus/grib/griblib"
)

// GRIB2 files are exposed as a flat list of messages. The dimension
// "message" is the message count and "point" the number of grid points in
// the first message; variable "message_<n>" holds the decoded field n.
const (
	gribMessageDim = "message"
	gribPointDim   = "point"
	gribVarPrefix  = "message_"
)

type gribDataset struct {
	path     string
	messages []*griblib.Message
}

// OpenGRIB2 decodes every message of a GRIB2 file
func OpenGRIB2(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grib2 %s: %w", path, err)
	}
	defer f.Close()

	messages, err := griblib.ReadMessages(f)
	if err != nil {
		return nil, fmt.Errorf("decode grib2 %s: %w", path, err)
	}
	return &gribDataset{path: path, messages: messages}, nil
}

func (d *gribDataset) Path() string   { return d.path }
func (d *gribDataset) Format() string { return "grib2" }

func (d *gribDataset) DimensionLength(name string) (int, error) {
	switch name {
	case gribMessageDim:
		return len(d.messages), nil
	case gribPointDim:
		if len(d.messages) == 0 {
			return 0, nil
		}
		return len(d.messages[0].Data()), nil
	default:
		return 0, fmt.Errorf("dimension %s: %w", name, ErrNotFound)
	}
}

func (d *gribDataset) VariableValues(name string) (any, error) {
	idx, ok := strings.CutPrefix(name, gribVarPrefix)
	if ok {
		if n, err := strconv.Atoi(idx); err == nil && n >= 0 && n < len(d.messages) {
			return d.messages[n].Data(), nil
		}
	}
	return nil, fmt.Errorf("variable %s: %w", name, ErrNotFound)
}

func (d *gribDataset) Close() error {
	d.messages = nil
	return nil
}
