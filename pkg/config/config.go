// Package config loads mterp.toml runtime settings.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"mterp/pkg/constants"
	"mterp/pkg/interp"
	"mterp/pkg/vmrt"
)

type Config struct {
	Interpreter Interpreter `toml:"interpreter"`
	Heap        Heap        `toml:"heap"`
	Profile     Profile     `toml:"profile"`
	Trace       Trace       `toml:"trace"`
	Log         Log         `toml:"log"`
}

type Interpreter struct {
	HotnessThreshold int32 `toml:"hotness_threshold"`
	StackSlots       int   `toml:"stack_slots"`
}

type Heap struct {
	// Threshold is the number of allocations between collections.
	Threshold int `toml:"threshold"`
}

type Profile struct {
	// Path of the pebble directory; empty disables profiling.
	Path          string   `toml:"path"`
	FlushInterval Duration `toml:"flush_interval"`
}

type Trace struct {
	File      string `toml:"file"`
	Collector string `toml:"collector"`
	BatchSize int    `toml:"batch_size"`
}

type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Duration reads TOML strings such as "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the settings used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load parses a TOML file. Unset fields take their defaults; unknown keys
// are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	c.applyDefaults()
	return &c, c.validate()
}

func (c *Config) applyDefaults() {
	if c.Interpreter.HotnessThreshold == 0 {
		c.Interpreter.HotnessThreshold = constants.DefaultHotnessThreshold
	}
	if c.Interpreter.StackSlots == 0 {
		c.Interpreter.StackSlots = constants.DefaultStackSlots
	}
	if c.Heap.Threshold == 0 {
		c.Heap.Threshold = 1 << 16
	}
	if c.Profile.FlushInterval.Duration == 0 {
		c.Profile.FlushInterval.Duration = 5 * time.Second
	}
	if c.Trace.BatchSize == 0 {
		c.Trace.BatchSize = 256
	}
}

func (c *Config) validate() error {
	if c.Interpreter.HotnessThreshold < 0 {
		return fmt.Errorf("interpreter.hotness_threshold must be positive, got %d", c.Interpreter.HotnessThreshold)
	}
	if c.Interpreter.StackSlots < constants.MinStackSlots {
		return fmt.Errorf("interpreter.stack_slots must be at least %d, got %d", constants.MinStackSlots, c.Interpreter.StackSlots)
	}
	if c.Heap.Threshold < 0 {
		return fmt.Errorf("heap.threshold must not be negative, got %d", c.Heap.Threshold)
	}
	return nil
}

// VM returns the VM configuration these settings describe. Listeners and
// sinks are attached by the caller.
func (c *Config) VM() vmrt.Config {
	return vmrt.Config{
		HeapThreshold: c.Heap.Threshold,
		Thread: interp.ThreadConfig{
			HotnessThreshold: c.Interpreter.HotnessThreshold,
			StackSlots:       c.Interpreter.StackSlots,
		},
	}
}
