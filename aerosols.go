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

// AerosolSizeSuffix is appended to an aerosol species name to form
// the name of its particle size field.
const AerosolSizeSuffix = "_size"

// Aerosols holds two parallel ordered sequences of 3-D fields: mass
// mixing ratio (abundance) and characteristic particle size, one pair
// per species. For species i, abundance[i] is named after the species
// and size[i] carries the same name plus AerosolSizeSuffix.
type Aerosols struct {
	abundance []*Field
	size      []*Field
}

// AerosolEntry configures one aerosol species for ConstantAerosols.
type AerosolEntry struct {
	// Name is the species name, e.g. "Water". It must appear in the
	// aerosol type table.
	Name string
	// Abundance is the uniform mass mixing ratio [kg/kg].
	Abundance *unit.Unit
	// Size is the uniform particle size.
	Size *unit.Unit
}

// NewAerosols creates an aerosol collection from parallel abundance
// and size field sequences. The sequences must have equal length and
// matching species order, every field must be 3-D, and each size
// field's name must be its abundance field's name plus
// AerosolSizeSuffix.
func NewAerosols(abundance, size []*Field) (*Aerosols, error) {
	if len(abundance) != len(size) {
		return nil, fmt.Errorf("exogcm: aerosols: %d abundance fields but %d size fields",
			len(abundance), len(size))
	}
	seen := make(map[string]struct{})
	for i, a := range abundance {
		s := size[i]
		if len(a.Shape()) != 3 {
			return nil, fmt.Errorf("exogcm: aerosol %s must be 3-D, has shape %v", a.Name(), a.Shape())
		}
		if want := a.Name() + AerosolSizeSuffix; s.Name() != want {
			return nil, fmt.Errorf("exogcm: aerosol %s: size field is named %s, want %s",
				a.Name(), s.Name(), want)
		}
		if len(s.Shape()) != 3 {
			return nil, fmt.Errorf("exogcm: aerosol %s must be 3-D, has shape %v", s.Name(), s.Shape())
		}
		if _, ok := seen[a.Name()]; ok {
			return nil, fmt.Errorf("exogcm: duplicate aerosol %s", a.Name())
		}
		seen[a.Name()] = struct{}{}
	}
	return &Aerosols{abundance: abundance, size: size}, nil
}

// ConstantAerosols creates an aerosol collection of uniform fields,
// one abundance/size pair per entry, preserving the entry order.
func ConstantAerosols(entries []AerosolEntry, shape ...int) (*Aerosols, error) {
	abundance := make([]*Field, len(entries))
	size := make([]*Field, len(entries))
	for i, e := range entries {
		a, err := ConstantField(e.Name, UnitScl, e.Abundance, shape...)
		if err != nil {
			return nil, err
		}
		s, err := ConstantField(e.Name+AerosolSizeSuffix, UnitMicron, e.Size, shape...)
		if err != nil {
			return nil, err
		}
		abundance[i] = a
		size[i] = s
	}
	return NewAerosols(abundance, size)
}

// Len returns the number of aerosol species.
func (a *Aerosols) Len() int { return len(a.abundance) }

// Names returns the species names in collection order.
func (a *Aerosols) Names() []string {
	names := make([]string, len(a.abundance))
	for i, f := range a.abundance {
		names[i] = f.Name()
	}
	return names
}

// Flat returns all abundance fields' flattened values in species
// order followed by all size fields' in the same order.
func (a *Aerosols) Flat() []float32 {
	var out []float32
	for _, f := range a.abundance {
		out = append(out, f.Flat()...)
	}
	for _, f := range a.size {
		out = append(out, f.Flat()...)
	}
	return out
}
