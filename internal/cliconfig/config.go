// Package cliconfig assembles the CLI configuration from defaults, a TOML
// config file, STREAMPLOT_* environment variables, and command-line flags,
// in increasing order of precedence.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/streamplot/streamplot/internal/builder"
)

// Config holds everything the streamplot CLI needs to run.
type Config struct {
	SerialPort string
	BaudRate   int

	SchemaPath    string
	OperationMode string
	DecoderMethod string

	StateDir    string
	ListenAddr  string
	WatchSchema bool
}

// DefaultConfig returns a Config with default values. OperationMode and
// DecoderMethod default to empty, which restores whatever the previous
// session persisted.
func DefaultConfig() Config {
	return Config{
		BaudRate:    9600,
		StateDir:    defaultStateDir(),
		ListenAddr:  ":8090",
		WatchSchema: true,
	}
}

func defaultStateDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".streamplot")
	}
	return ""
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.SerialPort == "" {
		return fmt.Errorf("serial port is required")
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("baud rate must be positive")
	}
	if c.StateDir == "" {
		c.StateDir = "."
	}
	if c.OperationMode != "" {
		if _, err := builder.ParseOperationMode(c.OperationMode); err != nil {
			return err
		}
	}
	if c.DecoderMethod != "" {
		if _, err := builder.ParseDecoderMethod(c.DecoderMethod); err != nil {
			return err
		}
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. A value is only applied when the corresponding flag has not
// been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
