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

// Molecules is an ordered collection of 3-D gas abundance fields, one
// per species. The collection order determines both the variable-name
// order in the PSG header and the field order in the binary payload,
// so the two can never disagree.
type Molecules struct {
	fields []*Field
}

// GasAbundance configures one gas species for ConstantMolecules.
type GasAbundance struct {
	// Name is the species name, e.g. "H2O". It must appear in the
	// gas type table.
	Name string
	// Abundance is the uniform molar abundance [mol/mol].
	Abundance *unit.Unit
}

// NewMolecules creates a gas collection from abundance fields, kept
// in the given order. Species names must be unique and every field
// must be 3-D.
func NewMolecules(fields ...*Field) (*Molecules, error) {
	seen := make(map[string]struct{})
	for _, f := range fields {
		if len(f.Shape()) != 3 {
			return nil, fmt.Errorf("exogcm: molecule %s must be 3-D, has shape %v", f.Name(), f.Shape())
		}
		if _, ok := seen[f.Name()]; ok {
			return nil, fmt.Errorf("exogcm: duplicate molecule %s", f.Name())
		}
		seen[f.Name()] = struct{}{}
	}
	return &Molecules{fields: fields}, nil
}

// ConstantMolecules creates a gas collection of uniform-abundance
// fields, one per entry, preserving the entry order.
func ConstantMolecules(gases []GasAbundance, shape ...int) (*Molecules, error) {
	fields := make([]*Field, len(gases))
	for i, g := range gases {
		f, err := ConstantField(g.Name, UnitScl, g.Abundance, shape...)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return NewMolecules(fields...)
}

// Len returns the number of gas species.
func (m *Molecules) Len() int { return len(m.fields) }

// Names returns the species names in collection order.
func (m *Molecules) Names() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name()
	}
	return names
}

// Flat returns the concatenation of each species' flattened values in
// collection order.
func (m *Molecules) Flat() []float32 {
	var out []float32
	for _, f := range m.fields {
		out = append(out, f.Flat()...)
	}
	return out
}
