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

	"github.com/ctessum/unit"
)

// Winds holds the two components of the 3-D wind field: zonal (U,
// positive eastward) and meridional (V, positive northward).
type Winds struct {
	u, v *Field
}

// NewWinds creates a wind field pair. Both components must be 3-D and
// share the same shape.
func NewWinds(u, v *Field) (*Winds, error) {
	if u == nil || v == nil {
		return nil, fmt.Errorf("exogcm: winds: both components must be provided")
	}
	if len(u.Shape()) != 3 {
		return nil, fmt.Errorf("exogcm: winds: %s must be 3-D, has shape %v", u.Name(), u.Shape())
	}
	if !shapeEqual(u.Shape(), v.Shape()) {
		return nil, &ShapeMismatchError{Name: v.Name(), Have: v.Shape(), Want: u.Shape()}
	}
	return &Winds{u: u, v: v}, nil
}

// ConstantWinds creates a uniform wind field from single U and V
// speeds.
func ConstantWinds(u, v *unit.Unit, shape ...int) (*Winds, error) {
	fu, err := ConstantField("U", UnitMeterPerSecond, u, shape...)
	if err != nil {
		return nil, err
	}
	fv, err := ConstantField("V", UnitMeterPerSecond, v, shape...)
	if err != nil {
		return nil, err
	}
	return NewWinds(fu, fv)
}

// U returns the zonal wind component.
func (w *Winds) U() *Field { return w.u }

// V returns the meridional wind component.
func (w *Winds) V() *Field { return w.v }

// Flat returns the concatenation of the U and V flattened values.
func (w *Winds) Flat() []float32 {
	return append(w.u.Flat(), w.v.Flat()...)
}
