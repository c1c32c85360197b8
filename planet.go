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
)

// MissingRequiredFieldError reports an absent field that every planet
// must carry (pressure or surface pressure).
type MissingRequiredFieldError struct {
	Name string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("exogcm: required field %s is missing", e.Name)
}

// ShapeMismatchError reports a field whose grid shape disagrees with
// the canonical shape established by the planet's pressure fields.
type ShapeMismatchError struct {
	Name string
	Have []int
	Want []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("exogcm: field %s has shape %v, want %v", e.Name, e.Have, e.Want)
}

// PlanetFields collects the components a planet is assembled from.
// Pressure and Psurf are required; a nil value elsewhere means the
// planet does not carry that field.
type PlanetFields struct {
	// Wind is the 3-D wind field pair.
	Wind *Winds
	// Tsurf is 2-D surface temperature.
	Tsurf *Field
	// Psurf is 2-D surface pressure. Required.
	Psurf *Field
	// Albedo is 2-D surface albedo.
	Albedo *Field
	// Emissivity is 2-D surface emissivity.
	Emissivity *Field
	// Temperature is the 3-D temperature profile.
	Temperature *Field
	// Pressure is the 3-D pressure profile. Required; its shape is
	// the canonical 3-D shape for the whole planet.
	Pressure *Field
	// Molecules are the gas abundance fields.
	Molecules *Molecules
	// Aerosols are the aerosol abundance and size field pairs.
	Aerosols *Aerosols
}

// fieldDescriptor is one entry in the authoritative ordered list of a
// planet's present fields. The header variable list, the parameter
// table, and the binary payload are all derived from this one list,
// so their orders can never drift apart. The wind pair contributes a
// single "Winds" name backed by two fields.
type fieldDescriptor struct {
	name    string
	sources []*Field
}

// A Planet is a validated, immutable GCM snapshot ready for PSG
// serialization. A Planet that exists has passed all shape checks, so
// every accessor may assume grid consistency.
type Planet struct {
	wind        *Winds
	tsurf       *Field
	psurf       *Field
	albedo      *Field
	emissivity  *Field
	temperature *Field
	pressure    *Field
	molecules   *Molecules
	aerosols    *Aerosols

	descriptors []fieldDescriptor
}

// NewPlanet validates the given fields against each other and
// assembles them into a planet. Pressure defines the canonical 3-D
// shape and its trailing two axes the canonical 2-D shape; every
// other present field must match the shape appropriate to its
// dimensionality.
func NewPlanet(fields PlanetFields) (*Planet, error) {
	if fields.Pressure == nil {
		return nil, &MissingRequiredFieldError{Name: "pressure"}
	}
	if fields.Psurf == nil {
		return nil, &MissingRequiredFieldError{Name: "psurf"}
	}
	shape3d := fields.Pressure.Shape()
	if len(shape3d) != 3 {
		return nil, fmt.Errorf("exogcm: pressure must be 3-D, has shape %v", shape3d)
	}
	shape2d := shape3d[1:]

	check := func(f *Field, want []int) error {
		if f == nil {
			return nil
		}
		if !shapeEqual(f.Shape(), want) {
			return &ShapeMismatchError{Name: f.Name(), Have: f.Shape(), Want: want}
		}
		return nil
	}
	if fields.Wind != nil {
		if err := check(fields.Wind.U(), shape3d); err != nil {
			return nil, err
		}
		if err := check(fields.Wind.V(), shape3d); err != nil {
			return nil, err
		}
	}
	if err := check(fields.Psurf, shape2d); err != nil {
		return nil, err
	}
	if err := check(fields.Tsurf, shape2d); err != nil {
		return nil, err
	}
	if err := check(fields.Albedo, shape2d); err != nil {
		return nil, err
	}
	if err := check(fields.Emissivity, shape2d); err != nil {
		return nil, err
	}
	if err := check(fields.Temperature, shape3d); err != nil {
		return nil, err
	}
	if fields.Molecules != nil {
		for _, f := range fields.Molecules.fields {
			if err := check(f, shape3d); err != nil {
				return nil, err
			}
		}
	}
	if fields.Aerosols != nil {
		for _, f := range fields.Aerosols.abundance {
			if err := check(f, shape3d); err != nil {
				return nil, err
			}
		}
		for _, f := range fields.Aerosols.size {
			if err := check(f, shape3d); err != nil {
				return nil, err
			}
		}
	}

	p := &Planet{
		wind:        fields.Wind,
		tsurf:       fields.Tsurf,
		psurf:       fields.Psurf,
		albedo:      fields.Albedo,
		emissivity:  fields.Emissivity,
		temperature: fields.Temperature,
		pressure:    fields.Pressure,
		molecules:   fields.Molecules,
		aerosols:    fields.Aerosols,
	}
	p.descriptors = p.buildDescriptors()
	return p, nil
}

// buildDescriptors enumerates the present fields in the fixed payload
// order: wind, surface temperature, surface pressure, albedo,
// emissivity, temperature, pressure, molecules, then aerosol
// abundances followed by aerosol sizes.
func (p *Planet) buildDescriptors() []fieldDescriptor {
	var d []fieldDescriptor
	if p.wind != nil {
		d = append(d, fieldDescriptor{name: "Winds", sources: []*Field{p.wind.u, p.wind.v}})
	}
	single := func(f *Field) {
		if f != nil {
			d = append(d, fieldDescriptor{name: f.Name(), sources: []*Field{f}})
		}
	}
	single(p.tsurf)
	single(p.psurf)
	single(p.albedo)
	single(p.emissivity)
	single(p.temperature)
	single(p.pressure)
	if p.molecules != nil {
		for _, f := range p.molecules.fields {
			single(f)
		}
	}
	if p.aerosols != nil {
		for _, f := range p.aerosols.abundance {
			single(f)
		}
		for _, f := range p.aerosols.size {
			single(f)
		}
	}
	return d
}

// sourceFields returns the planet's present fields in binary payload
// order.
func (p *Planet) sourceFields() []*Field {
	var out []*Field
	for _, d := range p.descriptors {
		out = append(out, d.sources...)
	}
	return out
}

// Shape returns the canonical grid dimensions.
func (p *Planet) Shape() (nlayer, nlon, nlat int) {
	s := p.pressure.Shape()
	return s[0], s[1], s[2]
}

// Lons returns the longitude axis in degrees: nlon evenly spaced
// points spanning [-180, 180), not including +180.
func (p *Planet) Lons() []float64 {
	_, nlon, _ := p.Shape()
	out := make([]float64, nlon)
	for i := range out {
		out[i] = -180 + 360*float64(i)/float64(nlon)
	}
	return out
}

// Lats returns the latitude axis in degrees: nlat evenly spaced
// points spanning [-90, 90], including both poles.
func (p *Planet) Lats() []float64 {
	_, _, nlat := p.Shape()
	out := make([]float64, nlat)
	if nlat == 1 {
		out[0] = -90
		return out
	}
	for i := range out {
		out[i] = -90 + 180*float64(i)/float64(nlat-1)
	}
	return out
}

// Dlon returns the longitude grid spacing in degrees.
func (p *Planet) Dlon() float64 {
	_, nlon, _ := p.Shape()
	return 360 / float64(nlon)
}

// Dlat returns the latitude grid spacing in degrees.
func (p *Planet) Dlat() float64 {
	_, _, nlat := p.Shape()
	return 180 / float64(nlat)
}

// Wind returns the wind field pair, or nil if absent.
func (p *Planet) Wind() *Winds { return p.wind }

// Tsurf returns the surface temperature field, or nil if absent.
func (p *Planet) Tsurf() *Field { return p.tsurf }

// Psurf returns the surface pressure field.
func (p *Planet) Psurf() *Field { return p.psurf }

// Albedo returns the surface albedo field, or nil if absent.
func (p *Planet) Albedo() *Field { return p.albedo }

// Emissivity returns the surface emissivity field, or nil if absent.
func (p *Planet) Emissivity() *Field { return p.emissivity }

// Temperature returns the temperature profile field, or nil if
// absent.
func (p *Planet) Temperature() *Field { return p.temperature }

// Pressure returns the pressure profile field.
func (p *Planet) Pressure() *Field { return p.pressure }

// Molecules returns the gas collection, or nil if absent.
func (p *Planet) Molecules() *Molecules { return p.molecules }

// Aerosols returns the aerosol collection, or nil if absent.
func (p *Planet) Aerosols() *Aerosols { return p.aerosols }
