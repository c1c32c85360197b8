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
	"io"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

// Canonical field names used by the scenario and WACCM builders.
const (
	TsurfName       = "Tsurf"
	PsurfName       = "Psurf"
	AlbedoName      = "Albedo"
	EmissivityName  = "Emissivity"
	TemperatureName = "Temperature"
	PressureName    = "Pressure"
)

// Scenario describes an idealized planet in a TOML scenario file.
// Quantity-valued entries are strings with a value and a unit label,
// e.g. "3300 K" or "1 bar"; see ParseQuantity for the accepted units.
// Gas and aerosol species are arrays of tables so their order in the
// file carries through to the header and payload order.
type Scenario struct {
	Shape     ShapeConfig     `toml:"shape"`
	Planet    PlanetConfig    `toml:"planet"`
	Molecules []GasConfig     `toml:"molecules"`
	Aerosols  []AerosolConfig `toml:"aerosols"`
}

// ShapeConfig sets the grid dimensions.
type ShapeConfig struct {
	NLayer int `toml:"nlayer"`
	NLon   int `toml:"nlon"`
	NLat   int `toml:"nlat"`
}

// PlanetConfig sets the physical parameters the builder derives the
// atmosphere from.
type PlanetConfig struct {
	// TeffStar is the stellar effective temperature.
	TeffStar string `toml:"teff_star"`
	// RStar is the stellar radius.
	RStar string `toml:"r_star"`
	// ROrbit is the orbital semimajor axis.
	ROrbit string `toml:"r_orbit"`
	// Albedo is the bolometric Bond albedo [0, 1].
	Albedo float64 `toml:"albedo"`
	// Emissivity is the broadband surface emissivity (0, 1].
	Emissivity float64 `toml:"emissivity"`
	// Epsilon is the greenhouse parameter in the surface energy
	// balance; 1 means no greenhouse warming.
	Epsilon float64 `toml:"epsilon"`
	// Gamma is the heat capacity ratio cp/cv of the atmosphere.
	Gamma    float64        `toml:"gamma"`
	Pressure PressureConfig `toml:"pressure"`
	Wind     WindConfig     `toml:"wind"`
}

// PressureConfig bounds the vertical pressure profile.
type PressureConfig struct {
	// Psurf is the surface pressure.
	Psurf string `toml:"psurf"`
	// Ptop is the pressure at the model top; must be below Psurf.
	Ptop string `toml:"ptop"`
}

// WindConfig sets uniform wind components.
type WindConfig struct {
	U string `toml:"u"`
	V string `toml:"v"`
}

// GasConfig is one gas species entry.
type GasConfig struct {
	Name string `toml:"name"`
	// Abundance is the uniform molar abundance, dimensionless.
	Abundance string `toml:"abn"`
}

// AerosolConfig is one aerosol species entry.
type AerosolConfig struct {
	Name string `toml:"name"`
	// Abundance is the uniform mass mixing ratio, dimensionless.
	Abundance string `toml:"abn"`
	// Size is the uniform characteristic particle size.
	Size string `toml:"size"`
}

// ReadScenario decodes a TOML scenario.
func ReadScenario(r io.Reader) (*Scenario, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("exogcm: reading scenario: %v", err)
	}
	s := new(Scenario)
	if _, err := toml.Decode(string(b), s); err != nil {
		return nil, fmt.Errorf("exogcm: decoding scenario: %v", err)
	}
	return s, nil
}

func (c *ShapeConfig) valid() error {
	vars := []int{c.NLayer, c.NLon, c.NLat}
	names := []string{"shape.nlayer", "shape.nlon", "shape.nlat"}
	for i, v := range vars {
		if v <= 0 {
			return fmt.Errorf("exogcm: scenario: %s=%d but should be >0", names[i], v)
		}
	}
	return nil
}

func (c *PlanetConfig) valid() error {
	if c.Albedo < 0 || c.Albedo > 1 {
		return fmt.Errorf("exogcm: scenario: planet.albedo=%g but should be in [0, 1]", c.Albedo)
	}
	if c.Emissivity <= 0 || c.Emissivity > 1 {
		return fmt.Errorf("exogcm: scenario: planet.emissivity=%g but should be in (0, 1]", c.Emissivity)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("exogcm: scenario: planet.epsilon=%g but should be >0", c.Epsilon)
	}
	if c.Gamma <= 1 {
		return fmt.Errorf("exogcm: scenario: planet.gamma=%g but should be >1", c.Gamma)
	}
	return nil
}

// parseQuantityAs parses the quantity string for configuration key
// name and checks its dimensions against want.
func parseQuantityAs(name, s string, want PSGUnit) (*unit.Unit, error) {
	q, err := ParseQuantity(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	if !q.Dimensions().Matches(want.Dims) {
		return nil, &UnitIncompatibleError{Name: name, Have: q.Dimensions(), Want: want}
	}
	return q, nil
}

// Build derives a planet from the scenario: surface temperature from
// stellar-irradiation balance, the pressure profile log-spaced
// between the configured bounds, surface pressure from the profile's
// base layer, the temperature profile from a dry adiabat anchored at
// the surface, and uniform wind, albedo, emissivity, gas, and aerosol
// fields.
func (s *Scenario) Build() (*Planet, error) {
	if err := s.Shape.valid(); err != nil {
		return nil, err
	}
	if err := s.Planet.valid(); err != nil {
		return nil, err
	}
	shape3d := []int{s.Shape.NLayer, s.Shape.NLon, s.Shape.NLat}
	shape2d := shape3d[1:]

	teff, err := parseQuantityAs("planet.teff_star", s.Planet.TeffStar, UnitKelvin)
	if err != nil {
		return nil, err
	}
	rStar, err := parseQuantityAs("planet.r_star", s.Planet.RStar, unitMeters)
	if err != nil {
		return nil, err
	}
	rOrbit, err := parseQuantityAs("planet.r_orbit", s.Planet.ROrbit, unitMeters)
	if err != nil {
		return nil, err
	}
	psurfQ, err := parseQuantityAs("planet.pressure.psurf", s.Planet.Pressure.Psurf, UnitBar)
	if err != nil {
		return nil, err
	}
	ptopQ, err := parseQuantityAs("planet.pressure.ptop", s.Planet.Pressure.Ptop, UnitBar)
	if err != nil {
		return nil, err
	}
	windU, err := parseQuantityAs("planet.wind.u", s.Planet.Wind.U, UnitMeterPerSecond)
	if err != nil {
		return nil, err
	}
	windV, err := parseQuantityAs("planet.wind.v", s.Planet.Wind.V, UnitMeterPerSecond)
	if err != nil {
		return nil, err
	}

	tsurf, err := surfaceTemperature(teff, rStar, rOrbit, s.Planet.Albedo, s.Planet.Epsilon, shape2d)
	if err != nil {
		return nil, err
	}
	pressure, err := pressureProfile(psurfQ, ptopQ, shape3d)
	if err != nil {
		return nil, err
	}
	psurf, err := surfacePressure(pressure)
	if err != nil {
		return nil, err
	}
	wind, err := ConstantWinds(windU, windV, shape3d...)
	if err != nil {
		return nil, err
	}
	albedo, err := ConstantField(AlbedoName, UnitScl, Dimless(s.Planet.Albedo), shape2d...)
	if err != nil {
		return nil, err
	}
	emissivity, err := ConstantField(EmissivityName, UnitScl, Dimless(s.Planet.Emissivity), shape2d...)
	if err != nil {
		return nil, err
	}
	temperature, err := adiabatTemperature(s.Planet.Gamma, tsurf, pressure)
	if err != nil {
		return nil, err
	}

	gases := make([]GasAbundance, len(s.Molecules))
	for i, g := range s.Molecules {
		abn, err := parseQuantityAs(fmt.Sprintf("molecules[%d].abn", i), g.Abundance, UnitScl)
		if err != nil {
			return nil, err
		}
		gases[i] = GasAbundance{Name: g.Name, Abundance: abn}
	}
	molecules, err := ConstantMolecules(gases, shape3d...)
	if err != nil {
		return nil, err
	}

	var aerosols *Aerosols
	if len(s.Aerosols) > 0 {
		entries := make([]AerosolEntry, len(s.Aerosols))
		for i, a := range s.Aerosols {
			abn, err := parseQuantityAs(fmt.Sprintf("aerosols[%d].abn", i), a.Abundance, UnitScl)
			if err != nil {
				return nil, err
			}
			size, err := parseQuantityAs(fmt.Sprintf("aerosols[%d].size", i), a.Size, UnitMicron)
			if err != nil {
				return nil, err
			}
			entries[i] = AerosolEntry{Name: a.Name, Abundance: abn, Size: size}
		}
		aerosols, err = ConstantAerosols(entries, shape3d...)
		if err != nil {
			return nil, err
		}
	}

	return NewPlanet(PlanetFields{
		Wind:        wind,
		Tsurf:       tsurf,
		Psurf:       psurf,
		Albedo:      albedo,
		Emissivity:  emissivity,
		Temperature: temperature,
		Pressure:    pressure,
		Molecules:   molecules,
		Aerosols:    aerosols,
	})
}

// surfaceTemperature returns the uniform surface temperature implied
// by irradiation balance with a greenhouse parameter:
// Tsurf = Teff * sqrt(Rstar/(2a)) * ((1-A)/epsilon)^(1/4).
func surfaceTemperature(teff, rStar, rOrbit *unit.Unit, albedo, epsilon float64, shape2d []int) (*Field, error) {
	t := teff.Value() * math.Sqrt(rStar.Value()/(2*rOrbit.Value())) *
		math.Pow((1-albedo)/epsilon, 0.25)
	return ConstantField(TsurfName, UnitKelvin, Kelvin(t), shape2d...)
}

// pressureProfile returns the 3-D pressure field, log-spaced from
// psurf at the base layer to ptop at the top layer and uniform over
// the horizontal axes.
func pressureProfile(psurf, ptop *unit.Unit, shape3d []int) (*Field, error) {
	if psurf.Value() <= ptop.Value() {
		return nil, fmt.Errorf("exogcm: scenario: planet.pressure.psurf (%g Pa) must exceed ptop (%g Pa)",
			psurf.Value(), ptop.Value())
	}
	nlayer := shape3d[0]
	logLo, logHi := math.Log10(ptop.Value()), math.Log10(psurf.Value())
	data := sparse.ZerosDense(shape3d...)
	for k := 0; k < nlayer; k++ {
		frac := 0.0
		if nlayer > 1 {
			frac = float64(k) / float64(nlayer-1)
		}
		v := math.Pow(10, logHi+(logLo-logHi)*frac) // Pa
		for i := 0; i < shape3d[1]; i++ {
			for j := 0; j < shape3d[2]; j++ {
				data.Set(v, k, i, j)
			}
		}
	}
	return NewField(PressureName, UnitBar, unit.Pascal, data)
}

// surfacePressure extracts the pressure profile's base layer as the
// 2-D surface pressure field.
func surfacePressure(pressure *Field) (*Field, error) {
	shape3d := pressure.Shape()
	data := sparse.ZerosDense(shape3d[1:]...)
	for i := 0; i < shape3d[1]; i++ {
		for j := 0; j < shape3d[2]; j++ {
			data.Set(pressure.get(0, i, j)*pressure.Units().Factor, i, j) // back to Pa
		}
	}
	return NewField(PsurfName, UnitBar, unit.Pascal, data)
}

// adiabatTemperature returns the 3-D temperature profile of a dry
// adiabat anchored at the surface:
// T = Tsurf * (P/Psurf)^((gamma-1)/gamma).
func adiabatTemperature(gamma float64, tsurf, pressure *Field) (*Field, error) {
	kappa := (gamma - 1) / gamma
	shape3d := pressure.Shape()
	data := sparse.ZerosDense(shape3d...)
	for k := 0; k < shape3d[0]; k++ {
		for i := 0; i < shape3d[1]; i++ {
			for j := 0; j < shape3d[2]; j++ {
				t := tsurf.get(i, j) * math.Pow(pressure.get(k, i, j)/pressure.get(0, i, j), kappa)
				data.Set(t, k, i, j)
			}
		}
	}
	return NewField(TemperatureName, UnitKelvin, unit.Kelvin, data)
}
