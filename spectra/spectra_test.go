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

package spectra

import (
	"bytes"
	"math"
	"testing"
)

const testTolerance = 1.e-8

func different(a, b, tolerance float64) bool {
	if a == 0 && b == 0 {
		return false
	}
	return math.Abs(a-b)/math.Max(math.Abs(a), math.Abs(b)) > tolerance
}

func TestWavelengths(t *testing.T) {
	const r = 50
	lams := Wavelengths(r, 1, 2)
	if lams[0] != 1 {
		t.Errorf("first point: want 1 but have %g", lams[0])
	}
	last := lams[len(lams)-1]
	if last < 2 {
		t.Errorf("last point %g should be >= 2", last)
	}
	if lams[len(lams)-2] >= 2 {
		t.Errorf("second-to-last point %g should be < 2", lams[len(lams)-2])
	}
	for i := 1; i < len(lams); i++ {
		step := lams[i] - lams[i-1]
		want := lams[i-1] / r
		if different(step, want, testTolerance) {
			t.Errorf("step %d: want %g but have %g", i, want, step)
		}
	}
}

func TestBin(t *testing.T) {
	// A constant raw spectrum must bin to the same constant.
	const flux = 3.5
	n := 10000
	wl := make([]float64, n)
	fl := make([]float64, n)
	for i := range wl {
		wl[i] = 1 + 2*float64(i)/float64(n)
		fl[i] = flux
	}
	ladder := Wavelengths(50, 1, 2)
	s, err := Bin(wl, fl, ladder)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != len(ladder)-1 {
		t.Fatalf("binned length: want %d but have %d", len(ladder)-1, s.Len())
	}
	for i, f := range s.Flux {
		if different(f, flux, testTolerance) {
			t.Errorf("bin %d: want %g but have %g", i, flux, f)
		}
	}
}

func TestBinEmptyBin(t *testing.T) {
	// Two raw samples cannot fill a 50-bin ladder.
	_, err := Bin([]float64{1, 2}, []float64{1, 1}, Wavelengths(50, 1, 2))
	if err == nil {
		t.Fatal("want an error for an under-sampled raw spectrum")
	}
}

func TestBlackbody(t *testing.T) {
	const (
		teff     = 3300.0   // [K]
		radius   = 2.087e8  // 0.3 solar radii [m]
		distance = 7.48e9   // 0.05 AU [m]
		wien     = 2.8978e3 // Wien displacement constant [um K]
	)
	lams := Wavelengths(500, 0.3, 30)
	s := Blackbody(lams, teff, radius, distance)
	peak := 0
	for i, f := range s.Flux {
		if f <= 0 {
			t.Fatalf("flux at %g um: want >0 but have %g", s.Wavelength[i], f)
		}
		if f > s.Flux[peak] {
			peak = i
		}
	}
	wantPeak := wien / teff
	if different(s.Wavelength[peak], wantPeak, 0.01) {
		t.Errorf("peak wavelength: want %g um but have %g um", wantPeak, s.Wavelength[peak])
	}

	// Doubling the distance must cut the flux by 4.
	far := Blackbody(lams, teff, radius, 2*distance)
	if different(s.Flux[peak], 4*far.Flux[peak], testTolerance) {
		t.Errorf("inverse-square dilution: want %g but have %g", s.Flux[peak]/4, far.Flux[peak])
	}
}

func TestInterpolate(t *testing.T) {
	wl := Wavelengths(50, 1, 2)
	s1 := &Spectrum{Wavelength: wl, Flux: make([]float64, len(wl))}
	s2 := &Spectrum{Wavelength: wl, Flux: make([]float64, len(wl))}
	for i := range wl {
		s1.Flux[i] = 1
		s2.Flux[i] = 3
	}
	s, err := Interpolate(3050, 3000, s1, 3100, s2)
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range s.Flux {
		if different(f, 2, testTolerance) {
			t.Errorf("point %d: want 2 but have %g", i, f)
		}
	}

	shifted := &Spectrum{Wavelength: Wavelengths(50, 1.5, 2.5), Flux: s2.Flux}
	if _, err := Interpolate(3050, 3000, s1, 3100, shifted); err == nil {
		t.Error("want an error for mismatched wavelength axes")
	}
}

func TestArrangeTeff(t *testing.T) {
	tests := []struct {
		name         string
		teff1, teff2 float64
		want         []float64
	}{
		{"off-grid", 3010, 3090, []float64{3000, 3100}},
		{"on-grid", 3000, 3100, []float64{3000, 3100}},
		{"wide", 2750, 3300, []float64{2700, 2800, 2900, 3000, 3100, 3200, 3300}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			have := ArrangeTeff(test.teff1, test.teff2)
			if len(have) != len(test.want) {
				t.Fatalf("want %v but have %v", test.want, have)
			}
			for i, v := range test.want {
				if different(have[i], v, testTolerance) {
					t.Fatalf("want %v but have %v", test.want, have)
				}
			}
		})
	}
}

func TestSurroundingTeffs(t *testing.T) {
	low, high, err := SurroundingTeffs(3050)
	if err != nil {
		t.Fatal(err)
	}
	if low != 3000 || high != 3100 {
		t.Errorf("want (3000, 3100) but have (%g, %g)", low, high)
	}
	if _, _, err := SurroundingTeffs(3000); err == nil {
		t.Error("want an error for a grid-point Teff")
	}
}

func TestReadWrite(t *testing.T) {
	wl := Wavelengths(50, 1, 2)
	s := Blackbody(wl, 3300, 2.087e8, 7.48e9)
	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatal(err)
	}
	have, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if have.Len() != s.Len() {
		t.Fatalf("length: want %d but have %d", s.Len(), have.Len())
	}
	// %.6e keeps about 7 significant digits.
	for i := range s.Wavelength {
		if different(have.Wavelength[i], s.Wavelength[i], 1.e-6) {
			t.Errorf("wavelength %d: want %g but have %g", i, s.Wavelength[i], have.Wavelength[i])
		}
		if different(have.Flux[i], s.Flux[i], 1.e-6) {
			t.Errorf("flux %d: want %g but have %g", i, s.Flux[i], have.Flux[i])
		}
	}
}

func TestReadBadHeader(t *testing.T) {
	_, err := Read(bytes.NewBufferString("wavelength[AA], flux[W m-2 um-1]\n1, 2"))
	if err == nil {
		t.Fatal("want an error for unexpected units in the header")
	}
}
