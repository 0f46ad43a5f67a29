package streamplot

import "fmt"

// Config holds the engine configuration. Use DefaultConfig() for sensible
// defaults. String fields holding mode tokens may be left empty to keep
// whatever the previous session persisted.
type Config struct {
	// SerialPort is the device to read from (e.g. /dev/ttyUSB0). Empty
	// disables the built-in transport; feed Engine.ReadData directly.
	SerialPort string

	// BaudRate for the serial port.
	BaudRate int

	// SchemaPath is a schema file to load at startup. Empty restores the
	// previously persisted schema, if any.
	SchemaPath string

	// OperationMode is "project-file", "device-sends-json", or "quick-plot".
	// Empty restores the persisted mode.
	OperationMode string

	// DecoderMethod is "plain-text", "hexadecimal", or "base64". Empty
	// restores the persisted representation.
	DecoderMethod string

	// StateDir is where settings are persisted across restarts.
	StateDir string

	// ListenAddr is the dashboard HTTP address. Empty disables the
	// dashboard server.
	ListenAddr string
}

// DefaultConfig returns a Config with default values. The transport and the
// dashboard stay disabled until SerialPort and ListenAddr are set.
func DefaultConfig() Config {
	return Config{
		BaudRate: 9600,
		StateDir: ".",
	}
}

// SetDefaults fills zero values that have non-zero defaults.
func (c *Config) SetDefaults() {
	if c.BaudRate == 0 {
		c.BaudRate = 9600
	}
	if c.StateDir == "" {
		c.StateDir = "."
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.SerialPort != "" && c.BaudRate <= 0 {
		return fmt.Errorf("baud rate must be positive")
	}
	return nil
}
