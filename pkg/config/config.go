// Package config provides configuration loading and management for omxotf.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"omxotf/pkg/projection"
	"omxotf/pkg/spectrum"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Spectrum controls the power spectrum frames
	Spectrum struct {
		MirrorNegativeAxis bool `yaml:"mirrorNegativeAxis"`
		LogMagnitude       bool `yaml:"logMagnitude"`
		CenterDcOnZAxis    bool `yaml:"centerDcOnZAxis"`
		IncludeRawBands    bool `yaml:"includeRawBands"`
		IncludePhase       bool `yaml:"includePhase"`
	} `yaml:"spectrum"`

	// Export controls the projection artifact
	Export struct {
		// Emission is the emission wavelength in nm
		Emission int `yaml:"emission"`

		// Save3D also stores the full 3D OTF
		Save3D bool `yaml:"save3D"`

		NumericalAperture float64 `yaml:"numericalAperture"`
		CyclesLateral     float64 `yaml:"cyclesLateral"`
		CyclesAxial       float64 `yaml:"cyclesAxial"`
	} `yaml:"export"`

	// Output parameters
	Output struct {
		// FramesDir is where spectrum frames are written, empty to skip
		FramesDir string `yaml:"framesDir"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// Processing parameters
	Processing struct {
		// NumCores limits how many CPU cores are used
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	render := spectrum.DefaultOptions()
	cfg.Spectrum.MirrorNegativeAxis = render.MirrorNegativeAxis
	cfg.Spectrum.LogMagnitude = render.LogMagnitude
	cfg.Spectrum.CenterDcOnZAxis = render.CenterDcOnZAxis
	cfg.Spectrum.IncludeRawBands = render.IncludeRawBands
	cfg.Spectrum.IncludePhase = render.IncludePhase

	exp := projection.DefaultOptions()
	cfg.Export.Emission = exp.Emission
	cfg.Export.Save3D = false
	cfg.Export.NumericalAperture = exp.NumericalAperture
	cfg.Export.CyclesLateral = exp.CyclesLateral
	cfg.Export.CyclesAxial = exp.CyclesAxial

	cfg.Output.FramesDir = ""
	cfg.Output.Verbose = false

	cfg.Processing.NumCores = runtime.NumCPU()

	return cfg
}

// SpectrumOptions returns the render options held by the configuration
func (c *Config) SpectrumOptions() spectrum.Options {
	return spectrum.Options{
		MirrorNegativeAxis: c.Spectrum.MirrorNegativeAxis,
		LogMagnitude:       c.Spectrum.LogMagnitude,
		CenterDcOnZAxis:    c.Spectrum.CenterDcOnZAxis,
		IncludeRawBands:    c.Spectrum.IncludeRawBands,
		IncludePhase:       c.Spectrum.IncludePhase,
	}
}

// ProjectionOptions returns the export options held by the configuration
func (c *Config) ProjectionOptions() projection.Options {
	return projection.Options{
		Emission:          c.Export.Emission,
		NumericalAperture: c.Export.NumericalAperture,
		CyclesLateral:     c.Export.CyclesLateral,
		CyclesAxial:       c.Export.CyclesAxial,
		Include3D:         c.Export.Save3D,
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if cfg.Export.Emission <= 0 {
		return nil, fmt.Errorf("invalid emission wavelength %d", cfg.Export.Emission)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
