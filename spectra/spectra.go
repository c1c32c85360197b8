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

// Package spectra bins, interpolates, and caches stellar spectra for
// use as radiative-transfer boundary conditions.
//
// Wavelengths are in micrometers and fluxes in W m-2 um-1 throughout
// the package.
package spectra

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Physical constants (CODATA 2018).
const (
	planckH    = 6.62607015e-34 // Planck constant [J s]
	lightSpeed = 2.99792458e8   // speed of light [m s-1]
	boltzmannK = 1.380649e-23   // Boltzmann constant [J K-1]

	micron = 1.e-6 // [m]
)

// TeffGridSpacing is the effective-temperature spacing of the stellar
// model grid in Kelvin.
const TeffGridSpacing = 100

// A Spectrum is flux sampled at a set of increasing wavelength
// points.
type Spectrum struct {
	// Wavelength coordinates [um].
	Wavelength []float64
	// Flux values [W m-2 um-1], one per wavelength point.
	Flux []float64
}

// Len returns the number of wavelength points.
func (s *Spectrum) Len() int { return len(s.Wavelength) }

// Wavelengths returns the wavelength ladder with the given resolving
// power R spanning [lam1, lam2]: each step is lam/R, so the ladder is
// logarithmically spaced. The last point is the first one >= lam2.
func Wavelengths(resolvingPower int, lam1, lam2 float64) []float64 {
	lam := lam1
	lams := []float64{lam}
	for lam < lam2 {
		lam += lam / float64(resolvingPower)
		lams = append(lams, lam)
	}
	return lams
}

// Bin averages the raw spectrum (wl, fl) onto the wavelength ladder.
// Each ladder point becomes the mean of the raw flux samples between
// the midpoints to its neighbors; the ladder's final point only
// bounds the last bin and does not appear in the result. A bin
// containing no raw samples is an error.
func Bin(wl, fl []float64, ladder []float64) (*Spectrum, error) {
	if len(wl) != len(fl) {
		return nil, fmt.Errorf("spectra: %d wavelength points but %d flux points", len(wl), len(fl))
	}
	if len(ladder) < 2 {
		return nil, fmt.Errorf("spectra: binning ladder needs at least 2 points, has %d", len(ladder))
	}
	out := &Spectrum{
		Wavelength: ladder[:len(ladder)-1],
		Flux:       make([]float64, len(ladder)-1),
	}
	for i := range out.Flux {
		center := ladder[i]
		upper := 0.5 * (center + ladder[i+1])
		lower := center
		if i > 0 {
			lower = 0.5 * (center + ladder[i-1])
		}
		var sum float64
		var n int
		for j, w := range wl {
			if w >= lower && w < upper {
				sum += fl[j]
				n++
			}
		}
		if n == 0 {
			return nil, fmt.Errorf("spectra: no flux samples in bin [%g, %g) um; "+
				"the raw spectrum is coarser than the requested resolving power", lower, upper)
		}
		out.Flux[i] = sum / float64(n)
	}
	return out, nil
}

// Blackbody returns the spectrum of a blackbody with effective
// temperature teff [K] and radius radius [m], observed from distance
// distance [m], sampled at the given wavelengths [um].
func Blackbody(wavelengths []float64, teff, radius, distance float64) *Spectrum {
	dilution := math.Pi * radius * radius / (distance * distance)
	out := &Spectrum{
		Wavelength: wavelengths,
		Flux:       make([]float64, len(wavelengths)),
	}
	for i, lam := range wavelengths {
		m := lam * micron
		// Planck spectral radiance per unit wavelength [W m-2 m-1 sr-1],
		// times the solid-angle dilution factor.
		a := 2 * planckH * lightSpeed * lightSpeed / math.Pow(m, 5)
		b := math.Exp(planckH*lightSpeed/(m*boltzmannK*teff)) - 1
		out.Flux[i] = a / b * dilution * micron // [W m-2 um-1]
	}
	return out
}

// Interpolate returns the spectrum at targetTeff, linearly
// interpolated in temperature between s1 at teff1 and s2 at teff2.
// The two spectra must share a wavelength axis.
func Interpolate(targetTeff, teff1 float64, s1 *Spectrum, teff2 float64, s2 *Spectrum) (*Spectrum, error) {
	if teff1 == teff2 {
		return nil, fmt.Errorf("spectra: cannot interpolate between two spectra at the same Teff (%g K)", teff1)
	}
	if s1.Len() != s2.Len() {
		return nil, fmt.Errorf("spectra: cannot interpolate between spectra with %d and %d wavelength points",
			s1.Len(), s2.Len())
	}
	tol := 1.e-6 * s1.Wavelength[0]
	for i, w := range s1.Wavelength {
		if math.Abs(w-s2.Wavelength[i]) > tol {
			return nil, fmt.Errorf("spectra: cannot interpolate between spectra that do not share a wavelength axis")
		}
	}
	frac := (targetTeff - teff1) / (teff2 - teff1)
	out := &Spectrum{
		Wavelength: s1.Wavelength,
		Flux:       make([]float64, s1.Len()),
	}
	for i := range out.Flux {
		out.Flux[i] = s1.Flux[i] + frac*(s2.Flux[i]-s1.Flux[i])
	}
	return out, nil
}

// ArrangeTeff returns the model-grid temperatures needed to cover
// [teff1, teff2]: every TeffGridSpacing multiple from the one at or
// below teff1 to the one at or above teff2.
func ArrangeTeff(teff1, teff2 float64) []float64 {
	lo := math.Floor(teff1/TeffGridSpacing) * TeffGridSpacing
	hi := math.Ceil(teff2/TeffGridSpacing) * TeffGridSpacing
	n := int((hi-lo)/TeffGridSpacing) + 1
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// SurroundingTeffs returns the two model-grid temperatures
// bracketing teff. A teff that lies exactly on the grid is an error;
// use the grid spectrum directly instead of interpolating.
func SurroundingTeffs(teff float64) (low, high float64, err error) {
	if math.Mod(teff, TeffGridSpacing) == 0 {
		return 0, 0, fmt.Errorf("spectra: Teff %g K is a grid point; no interpolation needed", teff)
	}
	low = math.Floor(teff/TeffGridSpacing) * TeffGridSpacing
	return low, low + TeffGridSpacing, nil
}
