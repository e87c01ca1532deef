// Package ncfile loads and saves datasets as NetCDF files using the pure-Go
// go-native-netcdf library. Files are read whole (CDF classic or NetCDF-4)
// and the handle is closed before Load returns; Save always writes CDF
// classic.
package ncfile

import (
	"fmt"
	"os"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"

	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
)

// Codec reads and writes dataset files.
type Codec struct{}

// New returns a NetCDF codec.
func New() Codec {
	return Codec{}
}

// Load reads every variable and attribute of the file at path.
func (Codec) Load(path string) (*dataset.Dataset, error) {
	group, err := netcdf.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer group.Close()

	ds := dataset.New(path)
	copyAttributes(ds.Attributes, group.Attributes())

	for _, name := range group.ListVariables() {
		v, err := group.GetVariable(name)
		if err != nil {
			return nil, errors.WrapIO("read", path, fmt.Errorf("variable %s: %w", name, err))
		}
		if err := addVariable(ds, name, v); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// addVariable converts one decoded variable. Element types the dataset
// model cannot hold (unsigned integers, for one) are a validation failure
// of the file rather than an I/O failure.
func addVariable(ds *dataset.Dataset, name string, v *api.Variable) error {
	if _, _, err := dataset.TypeOf(v.Values); err != nil {
		return errors.WrapValidation(name, fmt.Errorf("%s: variable %s: %w", ds.Path, name, err))
	}
	nv := dataset.NewVariable(name, v.Dimensions, v.Values)
	copyAttributes(nv.Attributes, v.Attributes)
	if err := ds.AddVariable(nv); err != nil {
		return errors.WrapValidation(name, fmt.Errorf("%s: %w", ds.Path, err))
	}
	return nil
}

// Save writes ds to path, replacing any existing file. A partially written
// file is removed when any step fails.
func (Codec) Save(ds *dataset.Dataset, path string) (err error) {
	cw, err := cdf.OpenWriter(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := cw.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if ds.Attributes.Len() > 0 {
		globals, err := orderedMap(ds.Attributes)
		if err != nil {
			return errors.WrapIO("write", path, err)
		}
		if err := cw.AddGlobalAttrs(globals); err != nil {
			return errors.WrapIO("write", path, fmt.Errorf("global attributes: %w", err))
		}
	}

	for _, v := range ds.Variables() {
		attrs, err := orderedMap(v.Attributes)
		if err != nil {
			return errors.WrapIO("write", path, err)
		}
		err = cw.AddVar(v.Name, api.Variable{
			Values:     v.Values,
			Dimensions: v.Dimensions,
			Attributes: attrs,
		})
		if err != nil {
			return errors.WrapIO("write", path, fmt.Errorf("variable %s: %w", v.Name, err))
		}
	}

	return nil
}

func copyAttributes(dst *dataset.Attributes, src api.AttributeMap) {
	if src == nil {
		return
	}
	for _, key := range src.Keys() {
		if value, ok := src.Get(key); ok {
			dst.Set(key, value)
		}
	}
}

func orderedMap(attrs *dataset.Attributes) (*util.OrderedMap, error) {
	keys := attrs.Keys()
	values := make(map[string]any, len(keys))
	for _, k := range keys {
		values[k], _ = attrs.Get(k)
	}
	return util.NewOrderedMap(keys, values)
}
