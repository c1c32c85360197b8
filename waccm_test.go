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
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
)

// Fixture dimensions: 2 times, 3 levels, 4 latitudes, 4 longitudes.
const (
	fixNtime = 2
	fixNlev  = 3
	fixNlat  = 4
	fixNlon  = 4
)

// Fixture hybrid coefficients. Levels are stored top-first, as WACCM
// writes them, so the reader must flip them into surface-first order.
var (
	fixHyam = []float64{0, 0, 0}
	fixHybm = []float64{0.01, 0.5, 1}
)

// writeWACCMFixture writes a minimal WACCM-like history file and
// returns its path. Field values encode their file indices so the
// tests can check axis reordering:
//
//	PS[t,j,i] = 1e5 + 100*j + 10*i
//	T[t,k,j,i] = 200 + 10*k + j + 0.1*i
func writeWACCMFixture(t *testing.T) string {
	t.Helper()

	h := cdf.NewHeader(
		[]string{"time", "lev", "lat", "lon"},
		[]int{fixNtime, fixNlev, fixNlat, fixNlon})
	h.AddAttribute("", "source", "CAM")

	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", "days since 0001-01-01 00:00:00")
	h.AddVariable("lev", []string{"lev"}, []float64{0})
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddVariable("hyam", []string{"lev"}, []float64{0})
	h.AddVariable("hybm", []string{"lev"}, []float64{0})
	h.AddVariable("P0", []string{}, []float64{0})

	for _, v := range []string{"PS", "TS"} {
		h.AddVariable(v, []string{"time", "lat", "lon"}, []float32{0})
	}
	for _, v := range []string{"T", "U", "V", "H2O", "CO2", "CLDLIQ", "REL"} {
		h.AddVariable(v, []string{"time", "lev", "lat", "lon"}, []float32{0})
	}
	h.Define()

	path := filepath.Join(t.TempDir(), "waccm.nc")
	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}

	write64 := func(v string, vals []float64) {
		w := f.Writer(v, nil, nil)
		// The cdf library returns io.EOF from a write that exactly
		// fills a fixed-size variable.
		if _, err := w.Write(vals); err != nil && err != io.EOF {
			t.Fatalf("writing %s: %v", v, err)
		}
	}
	write64("time", []float64{0, 1})
	write64("lev", []float64{1, 2, 3})
	write64("lat", []float64{-90, -30, 30, 90})
	// A [0, 360) longitude grid; the reader must rotate it to start
	// at -180.
	write64("lon", []float64{0, 90, 180, 270})
	write64("hyam", fixHyam)
	write64("hybm", fixHybm)
	write64("P0", []float64{1.e5})

	write32 := func(v string, fill func(idx []int) float32) {
		dims := f.Header.Lengths(v)
		n := 1
		for _, d := range dims {
			n *= d
		}
		vals := make([]float32, n)
		idx := make([]int, len(dims))
		for i := range vals {
			vals[i] = fill(idx)
			for d := len(dims) - 1; d >= 0; d-- {
				idx[d]++
				if idx[d] < dims[d] {
					break
				}
				idx[d] = 0
			}
		}
		w := f.Writer(v, nil, nil)
		if _, err := w.Write(vals); err != nil && err != io.EOF {
			t.Fatalf("writing %s: %v", v, err)
		}
	}
	write32("PS", func(idx []int) float32 {
		return float32(1.e5 + 100*idx[1] + 10*idx[2])
	})
	write32("TS", func(idx []int) float32 { return 288 })
	write32("T", func(idx []int) float32 {
		return float32(200 + 10*idx[1] + idx[2]) + float32(idx[3])*0.1
	})
	write32("U", func(idx []int) float32 { return 5 })
	write32("V", func(idx []int) float32 { return -5 })
	write32("H2O", func(idx []int) float32 { return 1.e-3 })
	write32("CO2", func(idx []int) float32 { return 4.e-4 })
	write32("CLDLIQ", func(idx []int) float32 { return 1.e-4 })
	write32("REL", func(idx []int) float32 { return 10 }) // [um]

	if err := cdf.UpdateNumRecs(ff); err != nil {
		t.Fatal(err)
	}
	return path
}

func openFixture(t *testing.T) *WACCM {
	t.Helper()
	w, err := OpenWACCM(writeWACCMFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestWACCMOpen(t *testing.T) {
	w := openFixture(t)
	ntime, nlayer, nlat, nlon := w.Shape()
	if ntime != fixNtime || nlayer != fixNlev || nlat != fixNlat || nlon != fixNlon {
		t.Errorf("shape: want (%d, %d, %d, %d) but have (%d, %d, %d, %d)",
			fixNtime, fixNlev, fixNlat, fixNlon, ntime, nlayer, nlat, nlon)
	}
	if want := "days since 0001-01-01 00:00:00"; w.TimeUnit() != want {
		t.Errorf("time unit: want %q but have %q", want, w.TimeUnit())
	}
	if i := w.TimeIndex(0.9); i != 1 {
		t.Errorf("TimeIndex(0.9): want 1 but have %d", i)
	}
	if i := w.TimeIndex(0.2); i != 0 {
		t.Errorf("TimeIndex(0.2): want 0 but have %d", i)
	}
}

func TestWACCMMissingVariable(t *testing.T) {
	h := cdf.NewHeader([]string{"time"}, []int{1})
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.Define()
	path := filepath.Join(t.TempDir(), "incomplete.nc")
	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cdf.Create(ff, h); err != nil {
		t.Fatal(err)
	}
	ff.Close()
	if _, err := OpenWACCM(path); err == nil {
		t.Fatal("want an error for a file without the required variables")
	}
}

func TestWACCMPlanet(t *testing.T) {
	w := openFixture(t)
	albedo := 0.3
	p, err := w.Planet(0, WACCMConfig{Albedo: &albedo})
	if err != nil {
		t.Fatal(err)
	}

	nlayer, nlon, nlat := p.Shape()
	if nlayer != fixNlev || nlon != fixNlon || nlat != fixNlat {
		t.Fatalf("planet shape: want (%d, %d, %d) but have (%d, %d, %d)",
			fixNlev, fixNlon, fixNlat, nlayer, nlon, nlat)
	}

	// Planet longitude index 0 must be the file's 180-degree column
	// (file index 2), and planet layer 0 must be the file's bottom
	// level (file index 2, since the file is top-first).
	// PS[j=1, i=2] = 1e5 + 100 + 20 Pa.
	if want, have := 1.00120, p.Psurf().get(0, 1); different(have, want, 1.e-6) {
		t.Errorf("psurf(0,1): want %g bar but have %g", want, have)
	}
	// T[k=2, j=1, i=2] = 200 + 20 + 1 + 0.2 K.
	if want, have := 221.2, p.Temperature().get(0, 0, 1); different(have, want, 1.e-6) {
		t.Errorf("temperature(0,0,1): want %g K but have %g", want, have)
	}
	// Pressure from the hybrid coordinate: the base layer is
	// hybm=1 times PS, the top layer hybm=0.01 times PS.
	if want, have := 1.00120, p.Pressure().get(0, 0, 1); different(have, want, 1.e-6) {
		t.Errorf("base pressure(0,0,1): want %g bar but have %g", want, have)
	}
	if want, have := 0.0100120, p.Pressure().get(2, 0, 1); different(have, want, 1.e-6) {
		t.Errorf("top pressure(2,0,1): want %g bar but have %g", want, have)
	}

	if have := p.Tsurf().get(2, 3); different(have, 288, 1.e-6) {
		t.Errorf("tsurf: want 288 K but have %g", have)
	}
	if have := p.Albedo().get(0, 0); different(have, 0.3, testTolerance) {
		t.Errorf("albedo: want 0.3 but have %g", have)
	}
	if have := p.Wind().U().get(1, 2, 3); different(have, 5, 1.e-6) {
		t.Errorf("wind U: want 5 m/s but have %g", have)
	}

	// Default probing finds the gas and aerosol variables present in
	// the file, in the fixed probe order.
	wantGases := []string{"H2O", "CO2"}
	names := p.Molecules().Names()
	if len(names) != len(wantGases) {
		t.Fatalf("gases: want %v but have %v", wantGases, names)
	}
	for i, name := range names {
		if name != wantGases[i] {
			t.Fatalf("gases: want %v but have %v", wantGases, names)
		}
	}
	if have := p.Aerosols().Names(); len(have) != 1 || have[0] != "Water" {
		t.Fatalf("aerosols: want [Water] but have %v", have)
	}
	// REL is in micrometers already; it must survive the conversion
	// round trip.
	sizeFlat := p.Aerosols().size[0].Flat()
	if different(float64(sizeFlat[0]), 10, 1.e-6) {
		t.Errorf("aerosol size: want 10 um but have %g", sizeFlat[0])
	}

	// The assembled planet serializes.
	if _, err := p.Content(); err != nil {
		t.Fatal(err)
	}
}

func TestWACCMPlanetTimeOutOfRange(t *testing.T) {
	w := openFixture(t)
	if _, err := w.Planet(fixNtime, WACCMConfig{}); err == nil {
		t.Error("want an error for a time index beyond the file")
	}
	if _, err := w.Planet(-1, WACCMConfig{}); err == nil {
		t.Error("want an error for a negative time index")
	}
}

func TestWACCMExplicitSpecies(t *testing.T) {
	w := openFixture(t)
	p, err := w.Planet(0, WACCMConfig{
		Molecules: []WACCMSpecies{{Name: "CO2", Var: "CO2"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if have := p.Molecules().Names(); len(have) != 1 || have[0] != "CO2" {
		t.Fatalf("gases: want [CO2] but have %v", have)
	}
	// A named variable that is absent must be an error, not skipped.
	if _, err := w.Planet(0, WACCMConfig{
		Molecules: []WACCMSpecies{{Name: "O3", Var: "O3"}},
	}); err == nil {
		t.Error("want an error for an explicitly named missing variable")
	}
}
