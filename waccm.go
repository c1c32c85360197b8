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
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
)

// waccmRequiredVars are the variables a WACCM history file must
// contain to be usable as a snapshot source.
var waccmRequiredVars = []string{"time", "lat", "lon", "lev",
	"hyam", "hybm", "P0", "PS", "T", "U", "V"}

// defaultWACCMMolecules are the gas mixing-ratio variables probed for
// when a configuration does not name its own, in payload order.
var defaultWACCMMolecules = []WACCMSpecies{
	{Name: "H2O", Var: "H2O"},
	{Name: "CO2", Var: "CO2"},
	{Name: "O3", Var: "O3"},
	{Name: "N2O", Var: "N2O"},
	{Name: "CO", Var: "CO"},
	{Name: "CH4", Var: "CH4"},
	{Name: "O2", Var: "O2"},
	{Name: "NO", Var: "NO"},
	{Name: "SO2", Var: "SO2"},
	{Name: "NO2", Var: "NO2"},
}

// defaultWACCMAerosols pairs the WACCM cloud condensate variables with
// their effective-radius variables.
var defaultWACCMAerosols = []WACCMAerosol{
	{Name: "Water", AbnVar: "CLDLIQ", SizeVar: "REL"},
	{Name: "WaterIce", AbnVar: "CLDICE", SizeVar: "REI"},
}

// WACCMSpecies names a gas and the WACCM variable holding its molar
// mixing ratio [mol/mol].
type WACCMSpecies struct {
	Name string
	Var  string
}

// WACCMAerosol names an aerosol and the WACCM variables holding its
// mass mixing ratio [kg/kg] and effective particle radius [um].
type WACCMAerosol struct {
	Name    string
	AbnVar  string
	SizeVar string
}

// WACCMConfig controls which file variables become planet fields.
type WACCMConfig struct {
	// Molecules are the gases to extract, in payload order. If nil,
	// the variables in defaultWACCMMolecules that are present in the
	// file are used; gases named here must be present.
	Molecules []WACCMSpecies
	// Aerosols are the condensates to extract. If nil, the variables
	// in defaultWACCMAerosols that are present in the file are used.
	Aerosols []WACCMAerosol
	// Albedo and Emissivity set uniform surface fields when non-nil.
	// WACCM history files carry neither.
	Albedo     *float64
	Emissivity *float64
}

// WACCM reads planet snapshots out of a WACCM (or other CESM-family)
// history file in netCDF classic format.
type WACCM struct {
	// Log receives grid-normalization and variable-probing messages.
	// It defaults to the standard logger.
	Log logrus.FieldLogger

	ff *cdf.File

	ntime, nlev, nlat, nlon int

	times    []float64
	timeUnit string

	hyam, hybm []float64
	p0         float64

	// flipVertical is set when the file stores layers top-first, so
	// they are reversed into surface-first order.
	flipVertical bool
	// lonShift rotates columns so the first longitude is -180 when
	// the file uses a [0, 360) grid.
	lonShift int
}

// OpenWACCM opens the WACCM history file at path.
func OpenWACCM(path string) (*WACCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("exogcm: opening WACCM file: %v", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("exogcm: opening WACCM file: %v", err)
	}
	w, err := NewWACCM(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// NewWACCM opens a WACCM history file and validates that it contains
// the variables a snapshot needs. size is the file length in bytes;
// it is needed to count the records of the unlimited time dimension.
func NewWACCM(r cdf.ReaderWriterAt, size int64) (*WACCM, error) {
	ff, err := cdf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("exogcm: opening WACCM file: %v", err)
	}
	w := &WACCM{
		Log: logrus.StandardLogger(),
		ff:  ff,
	}
	for _, v := range waccmRequiredVars {
		if !w.hasVar(v) {
			return nil, fmt.Errorf("exogcm: WACCM file is missing required variable %s", v)
		}
	}
	dims := ff.Header.Lengths("T")
	if len(dims) != 4 {
		return nil, fmt.Errorf("exogcm: WACCM variable T has %d dimensions; want 4 (time, lev, lat, lon)", len(dims))
	}
	w.ntime, w.nlev, w.nlat, w.nlon = dims[0], dims[1], dims[2], dims[3]
	if w.ntime == 0 {
		// time is the unlimited dimension; its length comes from the
		// file size rather than the header.
		w.ntime = int(ff.Header.NumRecs(size))
	}
	if w.ntime <= 0 {
		return nil, fmt.Errorf("exogcm: WACCM file contains no time records")
	}

	if w.times, err = w.readTimes(); err != nil {
		return nil, err
	}
	if u, ok := ff.Header.GetAttribute("time", "units").(string); ok {
		w.timeUnit = u
	}
	if w.hyam, err = w.readCoord("hyam"); err != nil {
		return nil, err
	}
	if w.hybm, err = w.readCoord("hybm"); err != nil {
		return nil, err
	}
	p0, err := w.readCoord("P0")
	if err != nil {
		return nil, err
	}
	w.p0 = p0[0]

	// Reference-pressure profile at a nominal 1e5 Pa surface tells us
	// whether layers are stored top-first.
	const refPS = 1.e5
	pBottom := w.hyam[0]*w.p0 + w.hybm[0]*refPS
	pTop := w.hyam[w.nlev-1]*w.p0 + w.hybm[w.nlev-1]*refPS
	w.flipVertical = pBottom < pTop

	lons, err := w.readCoord("lon")
	if err != nil {
		return nil, err
	}
	for i, lon := range lons {
		if lon >= 180 {
			w.lonShift = i
			break
		}
	}
	w.Log.WithFields(logrus.Fields{
		"ntime": w.ntime, "nlev": w.nlev, "nlat": w.nlat, "nlon": w.nlon,
		"flipVertical": w.flipVertical, "lonShift": w.lonShift,
	}).Debug("opened WACCM file")
	return w, nil
}

func (w *WACCM) hasVar(v string) bool {
	return len(w.ff.Header.Lengths(v)) != 0 || w.scalarVar(v)
}

// scalarVar reports whether v exists as a dimensionless variable such
// as P0, which Lengths reports as empty.
func (w *WACCM) scalarVar(v string) bool {
	for _, name := range w.ff.Header.Variables() {
		if name == v {
			return true
		}
	}
	return false
}

// Shape returns the file's dimensions as (ntime, nlayer, nlat, nlon).
func (w *WACCM) Shape() (ntime, nlayer, nlat, nlon int) {
	return w.ntime, w.nlev, w.nlat, w.nlon
}

// Times returns the raw values of the time coordinate.
func (w *WACCM) Times() []float64 { return w.times }

// TimeUnit returns the units attribute of the time coordinate, for
// example "days since 0001-01-01 00:00:00".
func (w *WACCM) TimeUnit() string { return w.timeUnit }

// TimeIndex returns the index of the stored time nearest to t, where
// t is expressed in the file's time unit.
func (w *WACCM) TimeIndex(t float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, v := range w.times {
		if d := math.Abs(v - t); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// readCoord reads an entire coordinate variable such as lat or hyam.
func (w *WACCM) readCoord(v string) ([]float64, error) {
	r := w.ff.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("exogcm: reading WACCM variable %s: %v", v, err)
	}
	return coordVals(v, buf)
}

// readTimes reads the time coordinate. When time is the unlimited
// dimension its values span multiple records, so they are read one
// record at a time.
func (w *WACCM) readTimes() ([]float64, error) {
	if !w.ff.Header.IsRecordVariable("time") {
		return w.readCoord("time")
	}
	out := make([]float64, w.ntime)
	for i := range out {
		r := w.ff.Reader("time", []int{i}, []int{i})
		buf := r.Zero(1)
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("exogcm: reading WACCM time record %d: %v", i, err)
		}
		vals, err := coordVals("time", buf)
		if err != nil {
			return nil, err
		}
		out[i] = vals[0]
	}
	return out, nil
}

func coordVals(v string, buf interface{}) ([]float64, error) {
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		out := make([]float64, len(b))
		for i, val := range b {
			out[i] = float64(val)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("exogcm: WACCM variable %s has type %T; want float", v, buf)
	}
}

// readRecord reads variable v at time index itime, returning an array
// with the variable's non-time dimensions.
func (w *WACCM) readRecord(v string, itime int) (*sparse.DenseArray, error) {
	dims := w.ff.Header.Lengths(v)
	if len(dims) == 0 {
		return nil, fmt.Errorf("exogcm: WACCM file has no variable %s", v)
	}
	dims = dims[1:]
	nread := 1
	for _, dim := range dims {
		nread *= dim
	}
	start := make([]int, len(dims)+1)
	start[0] = itime
	// A nil end reads contiguously from start, which works whether or
	// not time is the unlimited dimension.
	r := w.ff.Reader(v, start, nil)
	buf := r.Zero(nread)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("exogcm: reading WACCM variable %s: %v", v, err)
	}
	data := sparse.ZerosDense(dims...)
	switch b := buf.(type) {
	case []float32:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
	case []float64:
		copy(data.Elements, b)
	default:
		return nil, fmt.Errorf("exogcm: WACCM variable %s has type %T; want float", v, buf)
	}
	return data, nil
}

// toGrid3 reorders a (nlev, nlat, nlon) array into the planet layout
// (nlayer, nlon, nlat), reversing layers and rotating longitudes as
// determined at open.
func (w *WACCM) toGrid3(in *sparse.DenseArray) *sparse.DenseArray {
	out := sparse.ZerosDense(w.nlev, w.nlon, w.nlat)
	for k := 0; k < w.nlev; k++ {
		kSrc := k
		if w.flipVertical {
			kSrc = w.nlev - 1 - k
		}
		for i := 0; i < w.nlon; i++ {
			iSrc := (i + w.lonShift) % w.nlon
			for j := 0; j < w.nlat; j++ {
				out.Set(in.Get(kSrc, j, iSrc), k, i, j)
			}
		}
	}
	return out
}

// toGrid2 reorders a (nlat, nlon) array into the planet layout
// (nlon, nlat), rotating longitudes as determined at open.
func (w *WACCM) toGrid2(in *sparse.DenseArray) *sparse.DenseArray {
	out := sparse.ZerosDense(w.nlon, w.nlat)
	for i := 0; i < w.nlon; i++ {
		iSrc := (i + w.lonShift) % w.nlon
		for j := 0; j < w.nlat; j++ {
			out.Set(in.Get(j, iSrc), i, j)
		}
	}
	return out
}

// Psurf returns the surface pressure field at time index itime.
func (w *WACCM) Psurf(itime int) (*Field, error) {
	ps, err := w.readRecord("PS", itime) // [Pa]
	if err != nil {
		return nil, err
	}
	return NewField(PsurfName, UnitBar, unit.Pascal, w.toGrid2(ps))
}

// Pressure returns the layer-midpoint pressure field at time index
// itime, reconstructed from the hybrid sigma-pressure coordinate:
// P = hyam*P0 + hybm*PS.
func (w *WACCM) Pressure(itime int) (*Field, error) {
	ps, err := w.readRecord("PS", itime) // [Pa]
	if err != nil {
		return nil, err
	}
	p := sparse.ZerosDense(w.nlev, w.nlat, w.nlon)
	for k := 0; k < w.nlev; k++ {
		for j := 0; j < w.nlat; j++ {
			for i := 0; i < w.nlon; i++ {
				p.Set(w.hyam[k]*w.p0+w.hybm[k]*ps.Get(j, i), k, j, i) // [Pa]
			}
		}
	}
	return NewField(PressureName, UnitBar, unit.Pascal, w.toGrid3(p))
}

// field3 reads variable v at itime into a 3-D planet field.
func (w *WACCM) field3(name string, units PSGUnit, dims unit.Dimensions, v string, itime int, scale float64) (*Field, error) {
	data, err := w.readRecord(v, itime)
	if err != nil {
		return nil, err
	}
	if len(data.Shape) != 3 {
		return nil, fmt.Errorf("exogcm: WACCM variable %s has %d dimensions after time; want 3", v, len(data.Shape))
	}
	grid := w.toGrid3(data)
	if scale != 1 {
		grid.Scale(scale)
	}
	return NewField(name, units, dims, grid)
}

// Planet assembles a snapshot of the file at time index itime.
func (w *WACCM) Planet(itime int, cfg WACCMConfig) (*Planet, error) {
	if itime < 0 || itime >= w.ntime {
		return nil, fmt.Errorf("exogcm: WACCM time index %d out of range [0, %d)", itime, w.ntime)
	}

	pressure, err := w.Pressure(itime)
	if err != nil {
		return nil, err
	}
	psurf, err := w.Psurf(itime)
	if err != nil {
		return nil, err
	}
	temperature, err := w.field3(TemperatureName, UnitKelvin, unit.Kelvin, "T", itime, 1)
	if err != nil {
		return nil, err
	}
	windU, err := w.field3("U", UnitMeterPerSecond, unit.MeterPerSecond, "U", itime, 1)
	if err != nil {
		return nil, err
	}
	windV, err := w.field3("V", UnitMeterPerSecond, unit.MeterPerSecond, "V", itime, 1)
	if err != nil {
		return nil, err
	}
	wind, err := NewWinds(windU, windV)
	if err != nil {
		return nil, err
	}

	var tsurf *Field
	if w.hasVar("TS") {
		ts, err := w.readRecord("TS", itime) // [K]
		if err != nil {
			return nil, err
		}
		tsurf, err = NewField(TsurfName, UnitKelvin, unit.Kelvin, w.toGrid2(ts))
		if err != nil {
			return nil, err
		}
	}

	shape2d := []int{w.nlon, w.nlat}
	var albedo, emissivity *Field
	if cfg.Albedo != nil {
		albedo, err = ConstantField(AlbedoName, UnitScl, Dimless(*cfg.Albedo), shape2d...)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Emissivity != nil {
		emissivity, err = ConstantField(EmissivityName, UnitScl, Dimless(*cfg.Emissivity), shape2d...)
		if err != nil {
			return nil, err
		}
	}

	species := cfg.Molecules
	if species == nil {
		for _, sp := range defaultWACCMMolecules {
			if w.hasVar(sp.Var) {
				species = append(species, sp)
			}
		}
		w.Log.WithFields(logrus.Fields{"n": len(species)}).Debug("probed WACCM gas variables")
	}
	var molecules *Molecules
	if len(species) > 0 {
		gasFields := make([]*Field, len(species))
		for i, sp := range species {
			gasFields[i], err = w.field3(sp.Name, UnitScl, unit.Dimless, sp.Var, itime, 1)
			if err != nil {
				return nil, err
			}
		}
		molecules, err = NewMolecules(gasFields...)
		if err != nil {
			return nil, err
		}
	}

	condensates := cfg.Aerosols
	if condensates == nil {
		for _, a := range defaultWACCMAerosols {
			if w.hasVar(a.AbnVar) && w.hasVar(a.SizeVar) {
				condensates = append(condensates, a)
			}
		}
		w.Log.WithFields(logrus.Fields{"n": len(condensates)}).Debug("probed WACCM aerosol variables")
	}
	var aerosols *Aerosols
	if len(condensates) > 0 {
		abn := make([]*Field, len(condensates))
		size := make([]*Field, len(condensates))
		for i, a := range condensates {
			abn[i], err = w.field3(a.Name, UnitScl, unit.Dimless, a.AbnVar, itime, 1)
			if err != nil {
				return nil, err
			}
			// Effective radii are stored in micrometers.
			size[i], err = w.field3(a.Name+AerosolSizeSuffix, UnitMicron, unit.Meter, a.SizeVar, itime, 1.e-6)
			if err != nil {
				return nil, err
			}
		}
		aerosols, err = NewAerosols(abn, size)
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
