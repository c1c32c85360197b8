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
	"errors"
	"testing"

	"github.com/ctessum/unit"
)

// testPlanet builds the minimal valid planet used throughout the
// tests: required fields plus one gas, on a (nlayer, nlon, nlat) =
// (2, 2, 2) grid.
func testPlanet(t *testing.T) *Planet {
	t.Helper()
	pressure, err := ConstantField(PressureName, UnitBar, Bar(1), 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	psurf, err := ConstantField(PsurfName, UnitBar, Bar(1), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	molecules, err := ConstantMolecules([]GasAbundance{
		{Name: "H2O", Abundance: Dimless(1.e-3)},
	}, 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewPlanet(PlanetFields{
		Psurf:     psurf,
		Pressure:  pressure,
		Molecules: molecules,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewPlanetMissingPressure(t *testing.T) {
	psurf, err := ConstantField(PsurfName, UnitBar, Bar(1), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewPlanet(PlanetFields{Psurf: psurf})
	var me *MissingRequiredFieldError
	if !errors.As(err, &me) {
		t.Fatalf("want MissingRequiredFieldError but have %v", err)
	}
	if me.Name != "pressure" {
		t.Errorf("missing field: want pressure but have %s", me.Name)
	}
}

func TestNewPlanetMissingPsurf(t *testing.T) {
	pressure, err := ConstantField(PressureName, UnitBar, Bar(1), 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewPlanet(PlanetFields{Pressure: pressure})
	var me *MissingRequiredFieldError
	if !errors.As(err, &me) {
		t.Fatalf("want MissingRequiredFieldError but have %v", err)
	}
	if me.Name != "psurf" {
		t.Errorf("missing field: want psurf but have %s", me.Name)
	}
}

func TestNewPlanetShapeMismatch(t *testing.T) {
	pressure, err := ConstantField(PressureName, UnitBar, Bar(1), 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	psurf, err := ConstantField(PsurfName, UnitBar, Bar(1), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	wind, err := ConstantWinds(unit.New(1, unit.MeterPerSecond), unit.New(1, unit.MeterPerSecond), 3, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewPlanet(PlanetFields{Psurf: psurf, Pressure: pressure, Wind: wind})
	var se *ShapeMismatchError
	if !errors.As(err, &se) {
		t.Fatalf("want ShapeMismatchError but have %v", err)
	}

	tsurf, err := ConstantField(TsurfName, UnitKelvin, Kelvin(288), 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewPlanet(PlanetFields{Psurf: psurf, Pressure: pressure, Tsurf: tsurf})
	if !errors.As(err, &se) {
		t.Fatalf("want ShapeMismatchError but have %v", err)
	}
}

func TestPlanetShape(t *testing.T) {
	nlayer, nlon, nlat := testPlanet(t).Shape()
	if nlayer != 2 || nlon != 2 || nlat != 2 {
		t.Errorf("shape: want (2, 2, 2) but have (%d, %d, %d)", nlayer, nlon, nlat)
	}
}

func TestCoordinateAxes(t *testing.T) {
	pressure, err := ConstantField(PressureName, UnitBar, Bar(1), 2, 8, 5)
	if err != nil {
		t.Fatal(err)
	}
	psurf, err := ConstantField(PsurfName, UnitBar, Bar(1), 8, 5)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewPlanet(PlanetFields{Psurf: psurf, Pressure: pressure})
	if err != nil {
		t.Fatal(err)
	}

	lons := p.Lons()
	if len(lons) != 8 {
		t.Fatalf("lons length: want 8 but have %d", len(lons))
	}
	if lons[0] != -180 {
		t.Errorf("first longitude: want -180 but have %g", lons[0])
	}
	if last := lons[len(lons)-1]; last >= 180 {
		t.Errorf("last longitude %g should be < 180", last)
	}
	if different(p.Dlon()*8, 360, testTolerance) {
		t.Errorf("dlon*nlon: want 360 but have %g", p.Dlon()*8)
	}
	for i := 1; i < len(lons); i++ {
		if different(lons[i]-lons[i-1], p.Dlon(), testTolerance) {
			t.Errorf("longitude spacing at %d: want %g but have %g", i, p.Dlon(), lons[i]-lons[i-1])
		}
	}

	lats := p.Lats()
	if len(lats) != 5 {
		t.Fatalf("lats length: want 5 but have %d", len(lats))
	}
	if lats[0] != -90 || lats[len(lats)-1] != 90 {
		t.Errorf("latitude span: want [-90, 90] but have [%g, %g]", lats[0], lats[len(lats)-1])
	}
	// The latitude axis is closed while dlat = 180/nlat, so the axis
	// spacing is 180/(nlat-1), not dlat.
	if different(p.Dlat()*5, 180, testTolerance) {
		t.Errorf("dlat*nlat: want 180 but have %g", p.Dlat()*5)
	}
}
