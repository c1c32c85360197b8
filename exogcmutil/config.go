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

package exogcmutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/ctessum/unit"
	"github.com/exoclim/exogcm"
	"github.com/exoclim/exogcm/spectra"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// expandEnv expands the environment variables in a path.
func expandEnv(s string) string { return os.ExpandEnv(s) }

// scenarioPlanet reads the scenario at path and builds its planet.
func scenarioPlanet(path string) (*exogcm.Planet, error) {
	path = expandEnv(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("exogcm: problem opening ScenarioFile: %v", err)
	}
	defer f.Close()
	s, err := exogcm.ReadScenario(f)
	if err != nil {
		return nil, err
	}
	return s.Build()
}

// quantityInMeters reads the named configuration variable as a
// quantity string and returns its value in meters.
func quantityInMeters(varName string) (float64, error) {
	q, err := exogcm.ParseQuantity(Cfg.GetString(varName))
	if err != nil {
		return 0, fmt.Errorf("exogcm: parsing %s: %v", varName, err)
	}
	if !q.Dimensions().Matches(unit.Meter) {
		return 0, fmt.Errorf("exogcm: %s=%q but should be a length", varName, Cfg.GetString(varName))
	}
	return q.Value(), nil
}

// writeOutput writes content to the path in the OutputFile style:
// "-" means the command's standard output.
func writeOutput(cmd *cobra.Command, path string, content []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(content)
		return err
	}
	path = expandEnv(path)
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("exogcm: the OutputFile directory doesn't exist: %v", err)
		}
	}
	return ioutil.WriteFile(path, content, 0644)
}

// writeSpectrum writes s to the path in the OutputFile style.
func writeSpectrum(cmd *cobra.Command, path string, s *spectra.Spectrum) error {
	if path == "-" {
		return s.Write(cmd.OutOrStdout())
	}
	path = expandEnv(path)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("exogcm: problem creating OutputFile: %v", err)
	}
	if err := s.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// marshalStringMap renders a string map as the JSON default value of a
// command-line flag.
func marshalStringMap(m map[string]string) string {
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch i.(type) {
	case map[string]string:
		return i.(map[string]string)
	case map[string]interface{}:
		return cast.ToStringMapString(i)
	case string:
		b := bytes.NewBuffer(([]byte)(i.(string)))
		d := json.NewDecoder(b)
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			panic(err)
		}
		return o
	default:
		panic(fmt.Errorf("invalid type for GetStringMapString variable %s: %#v", varName, i))
	}
}
