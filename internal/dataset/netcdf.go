package dataset

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

type netcdfDataset struct {
	path string
	nc   api.Group

	once sync.Once
	dims map[string]int
	err  error
}

// OpenNetCDF opens a NetCDF (classic or HDF5-based) file
func OpenNetCDF(path string) (Dataset, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open netcdf %s: %w", path, err)
	}
	return &netcdfDataset{path: path, nc: nc}, nil
}

func (d *netcdfDataset) Path() string   { return d.path }
func (d *netcdfDataset) Format() string { return "netcdf" }

func (d *netcdfDataset) DimensionLength(name string) (int, error) {
	d.once.Do(d.loadDimensions)
	if d.err != nil {
		return 0, d.err
	}
	n, ok := d.dims[name]
	if !ok {
		return 0, fmt.Errorf("dimension %s: %w", name, ErrNotFound)
	}
	return n, nil
}

// loadDimensions derives dimension lengths from the shapes of the variables
// that use them. Only the first record of each variable is decoded.
func (d *netcdfDataset) loadDimensions() {
	d.dims = make(map[string]int)
	for _, name := range d.nc.ListVariables() {
		vg, err := d.nc.GetVarGetter(name)
		if err != nil {
			d.err = fmt.Errorf("read variable %s: %w", name, err)
			return
		}
		shape, err := shapeFromGetter(vg)
		if err != nil {
			d.err = fmt.Errorf("read variable %s: %w", name, err)
			return
		}
		for i, dim := range vg.Dimensions() {
			if _, seen := d.dims[dim]; !seen && i < len(shape) {
				d.dims[dim] = shape[i]
			}
		}
	}
}

// varShape is the part of api.VarGetter needed to size a variable
type varShape interface {
	Len() int64
	GetSlice(begin, end int64) (interface{}, error)
	Dimensions() []string
}

// shapeFromGetter returns the leading length from Len and the inner lengths
// from a one-record slice, so the full variable is never decoded.
func shapeFromGetter(vg varShape) ([]int, error) {
	rank := len(vg.Dimensions())
	if rank == 0 {
		return nil, nil
	}
	n := int(vg.Len())
	if n == 0 || rank == 1 {
		return []int{n}, nil
	}
	first, err := vg.GetSlice(0, 1)
	if err != nil {
		return nil, err
	}
	inner := shapeOf(first, rank)
	if len(inner) > 0 {
		inner = inner[1:]
	}
	return append([]int{n}, inner...), nil
}

func (d *netcdfDataset) VariableValues(name string) (any, error) {
	v, err := d.nc.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w: %v", name, ErrNotFound, err)
	}
	return v.Values, nil
}

func (d *netcdfDataset) Close() error {
	d.nc.Close()
	return nil
}

// shapeOf returns the lengths of the first rank levels of nested slices
func shapeOf(values any, rank int) []int {
	shape := make([]int, 0, rank)
	v := reflect.ValueOf(values)
	for len(shape) < rank && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) {
		shape = append(shape, v.Len())
		if v.Len() == 0 {
			break
		}
		v = v.Index(0)
	}
	return shape
}
