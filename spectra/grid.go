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
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"
)

// A Source produces the binned model spectrum at a model-grid
// effective temperature [K], typically by reading and binning a raw
// stellar model.
type Source func(ctx context.Context, teff float64) (*Spectrum, error)

// A Grid serves spectra at arbitrary effective temperatures from a
// model grid spaced TeffGridSpacing apart. Grid-point spectra come
// from the Source; off-grid temperatures are interpolated between
// the two bracketing grid points. Source results are cached, and
// concurrent requests for the same temperature are deduplicated, so
// each model spectrum is produced at most once.
type Grid struct {
	// CacheSize is the number of grid-point spectra held in memory.
	// It can only be changed before the first request. The default
	// is 100.
	CacheSize int

	source Source

	cache     *requestcache.Cache
	cacheInit sync.Once
}

// NewGrid creates a spectrum grid backed by source.
func NewGrid(source Source) *Grid {
	return &Grid{CacheSize: 100, source: source}
}

// At returns the spectrum at the model-grid temperature teff,
// producing it with the grid's Source on first request and from the
// cache thereafter. This function is concurrency-safe. Callers must
// not modify the returned spectrum; it is shared with the cache.
func (g *Grid) At(ctx context.Context, teff float64) (*Spectrum, error) {
	g.cacheInit.Do(func() {
		g.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			return g.source(ctx, request.(float64))
		}, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(g.CacheSize))
	})
	req := g.cache.NewRequest(ctx, teff, fmt.Sprintf("teff_%g", teff))
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.(*Spectrum), nil
}

// Spectrum returns the spectrum at any temperature within the model
// grid: the grid-point spectrum when teff lies on the grid, otherwise
// the linear interpolation between the two bracketing grid points.
func (g *Grid) Spectrum(ctx context.Context, teff float64) (*Spectrum, error) {
	low, high, err := SurroundingTeffs(teff)
	if err != nil {
		// A grid point needs no interpolation.
		return g.At(ctx, teff)
	}
	s1, err := g.At(ctx, low)
	if err != nil {
		return nil, err
	}
	s2, err := g.At(ctx, high)
	if err != nil {
		return nil, err
	}
	return Interpolate(teff, low, s1, high, s2)
}
