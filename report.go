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
	"io"
	"math"
	"sort"
	"strings"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/Knetic/govaluate"
	"gonum.org/v1/gonum/floats"
)

// Reporter evaluates summary expressions over a planet's fields.
//
// Every field of the planet contributes four variables named
// <field>_mean, <field>_min, <field>_max, and <field>_stddev,
// computed over the field's values in its declared unit; aerosol
// size fields keep their _size suffix, so for example
// Water_size_mean is the mean Water particle size in micrometers.
// The grid dimensions are available as nlayer, nlon, and nlat.
//
// Expressions use the default functions set up by NewReporter plus
// any extra functions passed to it.
type Reporter struct {
	vars  map[string]interface{}
	names []string
	funcs map[string]govaluate.ExpressionFunction
}

// NewReporter computes the summary variables of p and adds a set of
// default expression functions. Default functions include:
//
// 'exp(x)', 'log(x)', 'log10(x)', and 'sqrt(x)', which apply the
// corresponding elementary function.
//
// 'mean(x, y, ...)' which averages its arguments.
func NewReporter(p *Planet, extraFunctions map[string]govaluate.ExpressionFunction) *Reporter {
	defaultFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("exogcm: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return math.Exp(arg[0].(float64)), nil
		},
		"log": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("exogcm: got %d arguments for function 'log', but needs 1", len(arg))
			}
			return math.Log(arg[0].(float64)), nil
		},
		"log10": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("exogcm: got %d arguments for function 'log10', but needs 1", len(arg))
			}
			return math.Log10(arg[0].(float64)), nil
		},
		"sqrt": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("exogcm: got %d arguments for function 'sqrt', but needs 1", len(arg))
			}
			return math.Sqrt(arg[0].(float64)), nil
		},
		"mean": func(arg ...interface{}) (interface{}, error) {
			if len(arg) == 0 {
				return nil, fmt.Errorf("exogcm: got no arguments for function 'mean', but needs at least 1")
			}
			vals := make([]float64, len(arg))
			for i, a := range arg {
				vals[i] = a.(float64)
			}
			return floats.Sum(vals) / float64(len(vals)), nil
		},
	}
	for key, val := range extraFunctions {
		defaultFuncs[key] = val
	}

	nlayer, nlon, nlat := p.Shape()
	vars := map[string]interface{}{
		"nlayer": float64(nlayer),
		"nlon":   float64(nlon),
		"nlat":   float64(nlat),
	}
	for _, f := range p.sourceFields() {
		var d stats.Stats
		for _, v := range f.values() {
			d.Update(v)
		}
		vars[f.Name()+"_mean"] = d.Mean()
		vars[f.Name()+"_min"] = d.Min()
		vars[f.Name()+"_max"] = d.Max()
		vars[f.Name()+"_stddev"] = d.SampleStandardDeviation()
	}

	names := make([]string, 0, len(vars))
	for v := range vars {
		names = append(names, v)
	}
	sort.Strings(names)

	return &Reporter{vars: vars, names: names, funcs: defaultFuncs}
}

// Variables returns the names of the defined summary variables in
// alphabetical order.
func (r *Reporter) Variables() []string { return r.names }

// Evaluate computes the value of a summary expression such as
// "Tsurf_max - Tsurf_min" or "sqrt(U_mean**2 + V_mean**2)".
func (r *Reporter) Evaluate(expr string) (float64, error) {
	expression, err := govaluate.NewEvaluableExpressionWithFunctions(expr, r.funcs)
	if err != nil {
		return math.NaN(), fmt.Errorf("exogcm: report expression %q: %v", expr, err)
	}
	for _, v := range expression.Vars() {
		if _, ok := r.vars[v]; !ok {
			return math.NaN(), fmt.Errorf("exogcm: report expression %q: undefined variable name '%s'; defined variables are %s",
				expr, v, strings.Join(r.names, ", "))
		}
	}
	result, err := expression.Evaluate(r.vars)
	if err != nil {
		return math.NaN(), fmt.Errorf("exogcm: report expression %q: %v", expr, err)
	}
	v, ok := result.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("exogcm: report expression %q evaluates to %T; want a number", expr, result)
	}
	return v, nil
}

// Write evaluates the named expressions and writes "name = value"
// lines to w in name order.
func (r *Reporter) Write(w io.Writer, exprs map[string]string) error {
	names := make([]string, 0, len(exprs))
	for name := range exprs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, err := r.Evaluate(exprs[name])
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s = %g\n", name, v); err != nil {
			return err
		}
	}
	return nil
}
