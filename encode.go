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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	atmosphereDescription = "ExoGCM default GCM"
	atmosphereStructure   = "Equilibrium"

	binaryOpen  = "<BINARY>"
	binaryClose = "</BINARY>"
)

// GCMProperties returns the comma-separated grid descriptor PSG uses
// to parse the binary payload positionally: grid dimensions and
// origin, grid spacing to two decimal places, then the present
// variable names in exactly the order their values appear in Flat.
func (p *Planet) GCMProperties() string {
	nlayer, nlon, nlat := p.Shape()
	var b strings.Builder
	fmt.Fprintf(&b, "%d,%d,%d,-180.0,-90.0,%.2f,%.2f", nlon, nlat, nlayer, p.Dlon(), p.Dlat())
	for _, d := range p.descriptors {
		b.WriteByte(',')
		b.WriteString(d.name)
	}
	return b.String()
}

// Param is one text-header entry of the PSG configuration.
type Param struct {
	Key   string
	Value string
}

// PSGParams composes the atmosphere parameter table in header order.
// List-valued entries are comma-joined in collection order, matching
// GCMProperties and Flat. A gas or aerosol species missing from the
// type tables is an UnknownSpeciesError.
func (p *Planet) PSGParams() ([]Param, error) {
	nlayer, _, _ := p.Shape()

	var gases []string
	if p.molecules != nil {
		gases = p.molecules.Names()
	}
	gasTypes := make([]string, len(gases))
	for i, gas := range gases {
		t, err := GasTypeFor(gas)
		if err != nil {
			return nil, err
		}
		gasTypes[i] = t.String()
	}

	params := []Param{
		{"ATMOSPHERE-DESCRIPTION", atmosphereDescription},
		{"ATMOSPHERE-STRUCTURE", atmosphereStructure},
		{"ATMOSPHERE-LAYERS", strconv.Itoa(nlayer)},
		{"ATMOSPHERE-NGAS", strconv.Itoa(len(gases))},
		{"ATMOSPHERE-GAS", strings.Join(gases, ",")},
		{"ATMOSPHERE-TYPE", strings.Join(gasTypes, ",")},
		{"ATMOSPHERE-ABUN", repeatJoin("1", len(gases))},
		{"ATMOSPHERE-UNIT", repeatJoin("scl", len(gases))},
		{"ATMOSPHERE-GCM-PARAMETERS", p.GCMProperties()},
	}

	if p.aerosols != nil && p.aerosols.Len() > 0 {
		aeros := p.aerosols.Names()
		aeroTypes := make([]string, len(aeros))
		for i, aero := range aeros {
			t, err := AerosolTypeFor(aero)
			if err != nil {
				return nil, err
			}
			aeroTypes[i] = t
		}
		params = append(params,
			Param{"ATMOSPHERE-NAERO", strconv.Itoa(len(aeros))},
			Param{"ATMOSPHERE-AEROS", strings.Join(aeros, ",")},
			Param{"ATMOSPHERE-ATYPE", strings.Join(aeroTypes, ",")},
			Param{"ATMOSPHERE-AABUN", repeatJoin("1", len(aeros))},
			Param{"ATMOSPHERE-AUNIT", repeatJoin("scl", len(aeros))},
			Param{"ATMOSPHERE-ASIZE", repeatJoin("1", len(aeros))},
			Param{"ATMOSPHERE-ASUNI", repeatJoin("scl", len(aeros))},
		)
	}
	return params, nil
}

// repeatJoin returns n copies of s joined by commas. A scale factor
// of "1" with unit "scl" per species tells PSG the payload values are
// already absolute.
func repeatJoin(s string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s
	}
	return strings.Join(parts, ",")
}

// Flat returns the binary payload values: every present field's
// flattened values concatenated in descriptor order. An absent
// optional field contributes no elements.
func (p *Planet) Flat() []float32 {
	var out []float32
	for _, f := range p.sourceFields() {
		out = append(out, f.Flat()...)
	}
	return out
}

// Content returns the complete PSG configuration artifact: the
// parameter table as "<KEY>value" lines, the binary delimiter, the
// payload as little-endian float32 bytes with no padding, and the
// closing delimiter. The result is byte-for-byte deterministic for a
// given planet.
func (p *Planet) Content() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the configuration artifact produced by Content to w.
func (p *Planet) Encode(w io.Writer) error {
	params, err := p.PSGParams()
	if err != nil {
		return err
	}
	for i, param := range params {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "<%s>%s", param.Key, param.Value); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"+binaryOpen); err != nil {
		return err
	}
	flat := p.Flat()
	payload := make([]byte, 4*len(flat))
	for i, v := range flat {
		binary.LittleEndian.PutUint32(payload[4*i:], math.Float32bits(v))
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err = io.WriteString(w, binaryClose)
	return err
}
