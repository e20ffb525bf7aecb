// Package config loads simulator runnable tables from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	yaml "go.yaml.in/yaml/v3"

	"runsched/core"
)

// File is the on-disk simulator configuration
type File struct {
	Tick          TickSpec       `yaml:"tick"`
	OverrunPolicy string         `yaml:"overrun_policy"`
	MaxCatchUp    uint32         `yaml:"max_catch_up"`
	Runnables     []RunnableSpec `yaml:"runnables"`
}

// TickSpec mirrors core.TickConfig
type TickSpec struct {
	ClockHz      uint32 `yaml:"clock_hz"`
	ResolutionUS uint32 `yaml:"resolution_us"`
}

// RunnableSpec describes one simulated runnable.
// CostTicks makes the simulated callback hold the main loop for that many
// ticks, which is how overruns are provoked in simulation.
type RunnableSpec struct {
	Name           string `yaml:"name"`
	PeriodMS       uint32 `yaml:"period_ms"`
	InitialDelayMS uint32 `yaml:"initial_delay_ms"`
	CostTicks      uint32 `yaml:"cost_ticks"`
}

// Load reads and parses a configuration file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML strictly (unknown keys are errors) and applies defaults
func Parse(data []byte) (*File, error) {
	var cfg File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *File) {
	if cfg.Tick.ClockHz == 0 {
		cfg.Tick.ClockHz = core.DefaultClockHz
	}
	if cfg.Tick.ResolutionUS == 0 {
		cfg.Tick.ResolutionUS = core.DefaultResolutionUS
	}
	if cfg.OverrunPolicy == "" {
		cfg.OverrunPolicy = core.PolicySkip.String()
	}
	if cfg.MaxCatchUp == 0 {
		cfg.MaxCatchUp = core.DefaultMaxCatchUp
	}
	for i := range cfg.Runnables {
		if cfg.Runnables[i].Name == "" {
			cfg.Runnables[i].Name = fmt.Sprintf("runnable%d", i)
		}
	}
}

// Validate checks the parts of the file the core table builder does not
func (f *File) Validate() error {
	if err := f.TickConfig().Validate(); err != nil {
		return err
	}
	if _, ok := core.ParseOverrunPolicy(f.OverrunPolicy); !ok {
		return fmt.Errorf("unknown overrun_policy %q (want skip or catch-up)", f.OverrunPolicy)
	}
	if len(f.Runnables) == 0 {
		return core.ErrEmptyTable
	}
	return nil
}

// TickConfig returns the core tick configuration
func (f *File) TickConfig() core.TickConfig {
	return core.TickConfig{
		ClockHz:      f.Tick.ClockHz,
		ResolutionUS: f.Tick.ResolutionUS,
	}
}

// Policy returns the parsed overrun policy
func (f *File) Policy() core.OverrunPolicy {
	p, _ := core.ParseOverrunPolicy(f.OverrunPolicy)
	return p
}

// Default returns the switch demo table: control every 50 ms after 100 ms,
// debouncing every 5 ms after 50 ms, on a 16 MHz / 1 ms tick.
func Default() *File {
	cfg := &File{
		Runnables: []RunnableSpec{
			{Name: "ControlSwitches_Runnable", PeriodMS: 50, InitialDelayMS: 100},
			{Name: "Switch Debouncing Runnable", PeriodMS: 5, InitialDelayMS: 50},
		},
	}
	applyDefaults(cfg)
	return cfg
}
