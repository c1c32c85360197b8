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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column labels of the binned-spectrum CSV format. The unit tags are
// part of the format; a file with different units is rejected rather
// than converted.
const (
	wavelengthColumn = "wavelength[um]"
	fluxColumn       = "flux[W m-2 um-1]"
)

// Write writes s in the binned-spectrum CSV format: a header line
// naming the columns and their units, then one "wavelength, flux"
// line per point.
func (s *Spectrum) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s, %s", wavelengthColumn, fluxColumn); err != nil {
		return fmt.Errorf("spectra: writing spectrum: %v", err)
	}
	for i, wl := range s.Wavelength {
		if _, err := fmt.Fprintf(w, "\n%.6e, %.6e", wl, s.Flux[i]); err != nil {
			return fmt.Errorf("spectra: writing spectrum: %v", err)
		}
	}
	return nil
}

// Read reads a spectrum in the binned-spectrum CSV format.
func Read(r io.Reader) (*Spectrum, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("spectra: reading spectrum: %v", err)
		}
		return nil, fmt.Errorf("spectra: reading spectrum: empty input")
	}
	cols := strings.Split(scanner.Text(), ",")
	if len(cols) != 2 || strings.TrimSpace(cols[0]) != wavelengthColumn ||
		strings.TrimSpace(cols[1]) != fluxColumn {
		return nil, fmt.Errorf("spectra: reading spectrum: header is %q; want %q",
			scanner.Text(), wavelengthColumn+", "+fluxColumn)
	}
	s := new(Spectrum)
	line := 1
	for scanner.Scan() {
		line++
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) != 2 {
			return nil, fmt.Errorf("spectra: reading spectrum line %d: %d columns; want 2", line, len(fields))
		}
		wl, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("spectra: reading spectrum line %d: %v", line, err)
		}
		fl, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("spectra: reading spectrum line %d: %v", line, err)
		}
		s.Wavelength = append(s.Wavelength, wl)
		s.Flux = append(s.Flux, fl)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("spectra: reading spectrum: %v", err)
	}
	return s, nil
}
