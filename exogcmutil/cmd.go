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

// Package exogcmutil holds the command-line interface of the ExoGCM
// atmosphere-configuration assembler.
package exogcmutil

import (
	"context"
	"fmt"
	"math"

	"github.com/exoclim/exogcm"
	"github.com/exoclim/exogcm/spectra"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ExoGCM.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the logging verbosity: debug, info, warning, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ScenarioFile",
			usage: `
              ScenarioFile is the path to the TOML scenario describing the
              planet to build. It can include environment variables.`,
			shorthand:  "s",
			defaultVal: "scenario.toml",
			flagsets:   []*pflag.FlagSet{buildCmd.Flags(), reportCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path the PSG configuration artifact is written
              to. "-" writes to standard output. It can include environment
              variables.`,
			shorthand:  "o",
			defaultVal: "planet.cfg",
			flagsets:   []*pflag.FlagSet{buildCmd.Flags(), waccmCmd.Flags(), spectraCmd.Flags()},
		},
		{
			name: "WACCM.File",
			usage: `
              WACCM.File is the path to the WACCM history file to read the
              snapshot from. It can include environment variables.`,
			shorthand:  "f",
			defaultVal: "waccm.nc",
			flagsets:   []*pflag.FlagSet{waccmCmd.Flags()},
		},
		{
			name: "WACCM.TimeIndex",
			usage: `
              WACCM.TimeIndex is the index of the time record to extract.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{waccmCmd.Flags()},
		},
		{
			name: "WACCM.Albedo",
			usage: `
              WACCM.Albedo sets a uniform surface albedo field, which WACCM
              history files do not carry. Negative means no albedo field.`,
			defaultVal: -1.0,
			flagsets:   []*pflag.FlagSet{waccmCmd.Flags()},
		},
		{
			name: "WACCM.Emissivity",
			usage: `
              WACCM.Emissivity sets a uniform surface emissivity field, which
              WACCM history files do not carry. Negative means no emissivity
              field.`,
			defaultVal: -1.0,
			flagsets:   []*pflag.FlagSet{waccmCmd.Flags()},
		},
		{
			name: "ReportVariables",
			usage: `
              ReportVariables maps report row names to expressions over the
              planet's summary statistics, for example
              {"wind_speed": "sqrt(U_mean**2 + V_mean**2)"}.`,
			defaultVal: map[string]string{
				"Tsurf_K":   "Tsurf_mean",
				"Psurf_bar": "Psurf_mean",
			},
			flagsets: []*pflag.FlagSet{reportCmd.Flags()},
		},
		{
			name: "Spectra.Teff",
			usage: `
              Spectra.Teff is the stellar effective temperature in Kelvin to
              produce a spectrum for.`,
			defaultVal: 3300.0,
			flagsets:   []*pflag.FlagSet{spectraCmd.Flags()},
		},
		{
			name: "Spectra.RStar",
			usage: `
              Spectra.RStar is the stellar radius as a quantity string,
              for example "0.3 R_sun".`,
			defaultVal: "0.3 R_sun",
			flagsets:   []*pflag.FlagSet{spectraCmd.Flags()},
		},
		{
			name: "Spectra.ROrbit",
			usage: `
              Spectra.ROrbit is the observer distance as a quantity string,
              for example "0.05 AU".`,
			defaultVal: "0.05 AU",
			flagsets:   []*pflag.FlagSet{spectraCmd.Flags()},
		},
		{
			name: "Spectra.ResolvingPower",
			usage: `
              Spectra.ResolvingPower is the resolving power of the output
              wavelength ladder.`,
			defaultVal: 50,
			flagsets:   []*pflag.FlagSet{spectraCmd.Flags()},
		},
		{
			name: "Spectra.Lam1",
			usage: `
              Spectra.Lam1 is the shortest output wavelength in micrometers.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{spectraCmd.Flags()},
		},
		{
			name: "Spectra.Lam2",
			usage: `
              Spectra.Lam2 is the longest output wavelength in micrometers.`,
			defaultVal: 18.0,
			flagsets:   []*pflag.FlagSet{spectraCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("EXOGCM")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, v, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, v, option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, v, option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, v, option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, v, option.usage)
				} else {
					set.IntP(option.name, option.shorthand, v, option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, v, option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, v, option.usage)
				}
			case map[string]string:
				s := marshalStringMap(v)
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(buildCmd)
	Root.AddCommand(waccmCmd)
	Root.AddCommand(reportCmd)
	Root.AddCommand(spectraCmd)
}

// setConfig finds and reads in the configuration file, if there is
// one, and configures logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("exogcm: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("exogcm: problem parsing LogLevel: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "exogcm",
	Short: "A GCM-snapshot to PSG-configuration assembler.",
	Long: `ExoGCM assembles a planetary atmosphere state into the configuration
format consumed by NASA's Planetary Spectrum Generator (PSG): text parameter
lines followed by a binary payload holding every physical field.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'EXOGCM_var' where 'var' is
the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ExoGCM.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ExoGCM v%s\n", exogcm.Version)
	},
	DisableAutoGenTag: true,
}

// buildCmd builds a planet from an idealized scenario file and writes
// the PSG configuration artifact.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a PSG configuration from a scenario file.",
	Long: `build derives an idealized planet from the TOML scenario in
ScenarioFile and writes its PSG configuration artifact to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := scenarioPlanet(Cfg.GetString("ScenarioFile"))
		if err != nil {
			return err
		}
		content, err := p.Content()
		if err != nil {
			return err
		}
		return writeOutput(cmd, Cfg.GetString("OutputFile"), content)
	},
	DisableAutoGenTag: true,
}

// waccmCmd extracts a snapshot from a WACCM history file and writes
// the PSG configuration artifact.
var waccmCmd = &cobra.Command{
	Use:   "waccm",
	Short: "Build a PSG configuration from a WACCM history file.",
	Long: `waccm reads the time record WACCM.TimeIndex out of the netCDF
history file WACCM.File and writes the snapshot's PSG configuration artifact
to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := exogcm.OpenWACCM(expandEnv(Cfg.GetString("WACCM.File")))
		if err != nil {
			return err
		}
		var wcfg exogcm.WACCMConfig
		if a := Cfg.GetFloat64("WACCM.Albedo"); a >= 0 {
			wcfg.Albedo = &a
		}
		if e := Cfg.GetFloat64("WACCM.Emissivity"); e >= 0 {
			wcfg.Emissivity = &e
		}
		p, err := w.Planet(Cfg.GetInt("WACCM.TimeIndex"), wcfg)
		if err != nil {
			return err
		}
		content, err := p.Content()
		if err != nil {
			return err
		}
		return writeOutput(cmd, Cfg.GetString("OutputFile"), content)
	},
	DisableAutoGenTag: true,
}

// reportCmd evaluates summary expressions over a scenario planet.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize a scenario planet's fields.",
	Long: `report builds the planet described by ScenarioFile and prints the
value of each ReportVariables expression, one "name = value" line per
expression.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := scenarioPlanet(Cfg.GetString("ScenarioFile"))
		if err != nil {
			return err
		}
		r := exogcm.NewReporter(p, nil)
		return r.Write(cmd.OutOrStdout(), GetStringMapString("ReportVariables", Cfg))
	},
	DisableAutoGenTag: true,
}

// spectraCmd writes a stellar spectrum in the binned CSV format.
var spectraCmd = &cobra.Command{
	Use:   "spectra",
	Short: "Produce a binned stellar spectrum.",
	Long: `spectra produces the stellar spectrum at Spectra.Teff by
interpolating between blackbody model-grid spectra, and writes it to
OutputFile in the binned CSV format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rStar, err := quantityInMeters("Spectra.RStar")
		if err != nil {
			return err
		}
		rOrbit, err := quantityInMeters("Spectra.ROrbit")
		if err != nil {
			return err
		}
		ladder := spectra.Wavelengths(Cfg.GetInt("Spectra.ResolvingPower"),
			Cfg.GetFloat64("Spectra.Lam1"), Cfg.GetFloat64("Spectra.Lam2"))
		grid := spectra.NewGrid(func(ctx context.Context, teff float64) (*spectra.Spectrum, error) {
			logrus.WithFields(logrus.Fields{"teff": teff}).Debug("producing model spectrum")
			return spectra.Blackbody(ladder, teff, rStar, rOrbit), nil
		})
		teff := Cfg.GetFloat64("Spectra.Teff")
		if teff <= 0 || math.IsNaN(teff) {
			return fmt.Errorf("exogcm: Spectra.Teff=%g but should be >0", teff)
		}
		s, err := grid.Spectrum(context.Background(), teff)
		if err != nil {
			return err
		}
		return writeSpectrum(cmd, Cfg.GetString("OutputFile"), s)
	},
	DisableAutoGenTag: true,
}
