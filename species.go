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

// GasType identifies the spectroscopic source PSG should use for a
// gas: either a HITRAN molecule number or a database label passed
// through verbatim.
type GasType struct {
	hitran int
	label  string
}

// String returns the type in PSG's ATMOSPHERE-TYPE notation: HITRAN
// numbers are wrapped as HIT[n], labels pass through unchanged.
func (t GasType) String() string {
	if t.label != "" {
		return t.label
	}
	return fmt.Sprintf("HIT[%d]", t.hitran)
}

// gasTypes maps each supported gas species to its spectroscopic type.
// Numbers are HITRAN molecule numbers.
var gasTypes = map[string]GasType{
	"H2O":  {hitran: 1},  // water
	"CO2":  {hitran: 2},  // carbon dioxide
	"O3":   {hitran: 3},  // ozone
	"N2O":  {hitran: 4},  // nitrous oxide
	"CO":   {hitran: 5},  // carbon monoxide
	"CH4":  {hitran: 6},  // methane
	"O2":   {hitran: 7},  // oxygen
	"NO":   {hitran: 8},  // nitric oxide
	"SO2":  {hitran: 9},  // sulfur dioxide
	"NO2":  {hitran: 10}, // nitrogen dioxide
	"NH3":  {hitran: 11}, // ammonia
	"HNO3": {hitran: 12}, // nitric acid
	"OH":   {hitran: 13}, // hydroxyl radical
	"HCl":  {hitran: 15}, // hydrogen chloride
	"OCS":  {hitran: 19}, // carbonyl sulfide
	"H2CO": {hitran: 20}, // formaldehyde
	"N2":   {hitran: 22}, // nitrogen
	"HCN":  {hitran: 23}, // hydrogen cyanide
	"H2O2": {hitran: 25}, // hydrogen peroxide
	"C2H2": {hitran: 26}, // acetylene
	"C2H6": {hitran: 27}, // ethane
	"PH3":  {hitran: 28}, // phosphine
	"H2S":  {hitran: 31}, // hydrogen sulfide
	"O":    {hitran: 34}, // atomic oxygen
	"C2H4": {hitran: 38}, // ethylene
	"H2":   {hitran: 45}, // hydrogen

	// Alkali metals come from PSG's GSFC line lists rather than
	// HITRAN.
	"Na": {label: "GSFC[Na]"}, // sodium
	"K":  {label: "GSFC[K]"},  // potassium
}

// aerosolTypes maps each supported aerosol species to the PSG optical
// constant set describing it.
var aerosolTypes = map[string]string{
	"Water":    "AFCRL_Water_HRI", // liquid water cloud
	"WaterIce": "Warren_ice_HRI",  // water ice cloud
}

// UnknownSpeciesError reports a gas or aerosol name that has no entry
// in the corresponding type table.
type UnknownSpeciesError struct {
	Kind string // "gas" or "aerosol"
	Name string
}

func (e *UnknownSpeciesError) Error() string {
	return fmt.Sprintf("exogcm: unknown %s species %q", e.Kind, e.Name)
}

// GasTypeFor returns the spectroscopic type for the named gas.
func GasTypeFor(name string) (GasType, error) {
	t, ok := gasTypes[name]
	if !ok {
		return GasType{}, &UnknownSpeciesError{Kind: "gas", Name: name}
	}
	return t, nil
}

// AerosolTypeFor returns the PSG optical constant label for the named
// aerosol.
func AerosolTypeFor(name string) (string, error) {
	t, ok := aerosolTypes[name]
	if !ok {
		return "", &UnknownSpeciesError{Kind: "aerosol", Name: name}
	}
	return t, nil
}
