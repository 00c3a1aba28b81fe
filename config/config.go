// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

const (
	// DefaultRT is the gas constant times room temperature in kcal/mol,
	// the scale factor between a log concentration ratio and a free energy
	DefaultRT = 0.593

	// DefaultDummyFacet is the marker-substrate position the count-based
	// charts are fixed to. One representative position keeps the facet
	// grids readable
	DefaultDummyFacet = 50
)

// Config is the root-level settings struct and is a mix of settings
// available in an optional settings file and those from the command line.
type Config struct {
	// the path to the observation table (CSV)
	Input string `mapstructure:"input"`

	// the directory chart PNGs are written into
	Out string `mapstructure:"out"`

	// RT in kcal/mol
	RT float64 `mapstructure:"rt"`

	// the marker position shown in count-based charts
	DummyFacet int `mapstructure:"dummy-facet"`

	// facet tile width and height in inches
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`

	// histogram bins per facet panel
	Bins int `mapstructure:"bins"`
}

// SetDefaults registers every setting's default with Viper. Called once
// from cmd before any command runs.
func SetDefaults() {
	viper.SetDefault("out", "charts")
	viper.SetDefault("rt", DefaultRT)
	viper.SetDefault("dummy-facet", DefaultDummyFacet)
	viper.SetDefault("width", 3.0)
	viper.SetDefault("height", 2.5)
	viper.SetDefault("bins", 30)
}

// New returns a new Config struct populated by Viper settings (either from
// the local settings file) and/or command line arguments.
func New() Config {
	var c Config

	err := viper.Unmarshal(&c)
	if err != nil {
		log.Fatalf("unable to decode into struct, %v", err)
	}

	return c
}
