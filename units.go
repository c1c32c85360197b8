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
	"strconv"
	"strings"

	"github.com/ctessum/unit"
)

// PSGUnit is the unit a field's values are expressed in within the
// PSG binary payload. Factor is the number of SI base units per one
// of this unit, so valueInUnit = valueSI / Factor.
type PSGUnit struct {
	Label  string
	Dims   unit.Dimensions
	Factor float64
}

// Units the PSG GCM protocol expects for each kind of field.
var (
	// UnitBar is pressure in bar.
	UnitBar = PSGUnit{Label: "bar", Dims: unit.Pascal, Factor: 1.e5}
	// UnitKelvin is absolute temperature.
	UnitKelvin = PSGUnit{Label: "K", Dims: unit.Kelvin, Factor: 1}
	// UnitMeterPerSecond is wind speed.
	UnitMeterPerSecond = PSGUnit{Label: "m/s", Dims: unit.MeterPerSecond, Factor: 1}
	// UnitMicron is aerosol particle size in micrometers.
	UnitMicron = PSGUnit{Label: "um", Dims: unit.Meter, Factor: 1.e-6}
	// UnitScl is a dimensionless scaling value (albedo, emissivity,
	// molar abundance, aerosol mass mixing ratio).
	UnitScl = PSGUnit{Label: "scl", Dims: unit.Dimless, Factor: 1}
)

// unitMeters is used for dimension checks on lengths that stay in SI,
// such as stellar radii and orbital distances.
var unitMeters = PSGUnit{Label: "m", Dims: unit.Meter, Factor: 1}

func (pu PSGUnit) String() string { return pu.Label }

// convert returns the value of q expressed in pu.
func (pu PSGUnit) convert(q *unit.Unit) (float64, error) {
	if !q.Dimensions().Matches(pu.Dims) {
		return 0, &UnitIncompatibleError{Have: q.Dimensions(), Want: pu}
	}
	return q.Value() / pu.Factor, nil
}

// UnitIncompatibleError reports a quantity whose dimensions cannot be
// converted to a field's declared unit.
type UnitIncompatibleError struct {
	// Name is the field or parameter the quantity was meant for,
	// when known.
	Name string
	Have unit.Dimensions
	Want PSGUnit
}

func (e *UnitIncompatibleError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("exogcm: unit [%s] is incompatible with %s [%s]",
			e.Have.String(), e.Want.Label, e.Want.Dims.String())
	}
	return fmt.Sprintf("exogcm: %s: unit [%s] is incompatible with %s [%s]",
		e.Name, e.Have.String(), e.Want.Label, e.Want.Dims.String())
}

// Constructors for the non-SI units that appear in scenario files,
// returning SI-valued quantities.

// Bar returns a pressure in bar.
func Bar(v float64) *unit.Unit { return unit.New(v*1.e5, unit.Pascal) }

// Millibar returns a pressure in millibar.
func Millibar(v float64) *unit.Unit { return unit.New(v*100, unit.Pascal) }

// Kelvin returns an absolute temperature.
func Kelvin(v float64) *unit.Unit { return unit.New(v, unit.Kelvin) }

// Micron returns a length in micrometers.
func Micron(v float64) *unit.Unit { return unit.New(v*1.e-6, unit.Meter) }

// Kilometer returns a length in kilometers.
func Kilometer(v float64) *unit.Unit { return unit.New(v*1000, unit.Meter) }

// SolarRadius returns a length in nominal solar radii (IAU 2015).
func SolarRadius(v float64) *unit.Unit { return unit.New(v*6.957e8, unit.Meter) }

// EarthRadius returns a length in nominal Earth equatorial radii.
func EarthRadius(v float64) *unit.Unit { return unit.New(v*6.3781e6, unit.Meter) }

// AstronomicalUnit returns a length in astronomical units.
func AstronomicalUnit(v float64) *unit.Unit { return unit.New(v*1.495978707e11, unit.Meter) }

// Dimless returns a dimensionless quantity.
func Dimless(v float64) *unit.Unit { return unit.New(v, unit.Dimless) }

// quantityUnits is the closed set of unit labels accepted in scenario
// quantity strings, mapped to their SI constructors.
var quantityUnits = map[string]func(float64) *unit.Unit{
	"":        Dimless,
	"scl":     Dimless,
	"K":       Kelvin,
	"Pa":      func(v float64) *unit.Unit { return unit.New(v, unit.Pascal) },
	"hPa":     Millibar,
	"mbar":    Millibar,
	"bar":     Bar,
	"m":       func(v float64) *unit.Unit { return unit.New(v, unit.Meter) },
	"km":      Kilometer,
	"um":      Micron,
	"R_sun":   SolarRadius,
	"R_earth": EarthRadius,
	"AU":      AstronomicalUnit,
	"m/s":     func(v float64) *unit.Unit { return unit.New(v, unit.MeterPerSecond) },
	"m s-1":   func(v float64) *unit.Unit { return unit.New(v, unit.MeterPerSecond) },
	"km/s":    func(v float64) *unit.Unit { return unit.New(v*1000, unit.MeterPerSecond) },
}

// ParseQuantity converts a scenario quantity string such as "3300 K",
// "1 bar", or "0.05 AU" to an SI-valued quantity. A bare number is
// dimensionless. The unit label must belong to the closed set accepted
// by the scenario format.
func ParseQuantity(s string) (*unit.Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("exogcm: empty quantity")
	}
	valStr, label := s, ""
	if i := strings.IndexAny(s, " \t"); i != -1 {
		valStr, label = s[:i], strings.TrimSpace(s[i+1:])
	}
	v, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return nil, fmt.Errorf("exogcm: parsing quantity %q: %v", s, err)
	}
	newUnit, ok := quantityUnits[label]
	if !ok {
		return nil, fmt.Errorf("exogcm: quantity %q has unknown unit %q; "+
			"accepted units are scl, K, Pa, hPa, mbar, bar, m, km, um, "+
			"R_sun, R_earth, AU, m/s, m s-1, and km/s", s, label)
	}
	return newUnit(v), nil
}
