/*
Copyright © 2026 the ExoGCM authors.
This file is part of ExoGCM.

ExoGCM is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ExoGCM is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ExoGCM.  If not, see <http://www.gnu.org/licenses/>.
*/

package exogcm

import (
	"fmt"

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

// A Field is one named physical variable sampled on the atmosphere
// grid. The grid is either 2-D (nlon, nlat) or 3-D (nlayer, nlon,
// nlat). Values are held in the field's declared PSG unit; they are
// converted from SI exactly once, at construction. A Field is
// immutable after construction.
type Field struct {
	name  string
	units PSGUnit
	data  *sparse.DenseArray
}

// NewField creates a field named name from gridded data. The data
// hold SI values with dimensions dims; they are converted to units
// before being stored. The grid shape is taken from data and must be
// 2-D or 3-D.
func NewField(name string, units PSGUnit, dims unit.Dimensions, data *sparse.DenseArray) (*Field, error) {
	if len(data.Shape) != 2 && len(data.Shape) != 3 {
		return nil, fmt.Errorf("exogcm: field %s: grid must be 2-D or 3-D, has shape %v", name, data.Shape)
	}
	if !dims.Matches(units.Dims) {
		return nil, &UnitIncompatibleError{Name: name, Have: dims, Want: units}
	}
	out := sparse.ZerosDense(data.Shape...)
	for i, v := range data.Elements {
		out.Elements[i] = v / units.Factor
	}
	return &Field{name: name, units: units, data: out}, nil
}

// ConstantField creates a field that holds the single quantity v at
// every grid point of the given shape.
func ConstantField(name string, units PSGUnit, v *unit.Unit, shape ...int) (*Field, error) {
	if len(shape) != 2 && len(shape) != 3 {
		return nil, fmt.Errorf("exogcm: field %s: grid must be 2-D or 3-D, has shape %v", name, shape)
	}
	val, err := units.convert(v)
	if err != nil {
		if ue, ok := err.(*UnitIncompatibleError); ok {
			ue.Name = name
		}
		return nil, err
	}
	data := sparse.ZerosDense(shape...)
	for i := range data.Elements {
		data.Elements[i] = val
	}
	return &Field{name: name, units: units, data: data}, nil
}

// Name returns the field's variable name as it appears in the PSG
// header.
func (f *Field) Name() string { return f.name }

// Units returns the unit the field's values are expressed in.
func (f *Field) Units() PSGUnit { return f.units }

// Shape returns the field's grid shape. The returned slice is shared;
// callers must not modify it.
func (f *Field) Shape() []int { return f.data.Shape }

// Flat returns the field's values as 32-bit floats in row-major (last
// axis fastest) order, in the field's declared unit.
func (f *Field) Flat() []float32 {
	out := make([]float32, len(f.data.Elements))
	for i, v := range f.data.Elements {
		out[i] = float32(v)
	}
	return out
}

// get returns the value at the given grid index, in the field's
// declared unit.
func (f *Field) get(index ...int) float64 { return f.data.Get(index...) }

// values returns the field's backing elements in row-major order.
// Callers must not modify the returned slice.
func (f *Field) values() []float64 { return f.data.Elements }

// shapeEqual reports whether two grid shapes are identical.
func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if b[i] != v {
			return false
		}
	}
	return true
}
