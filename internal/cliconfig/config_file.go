package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly field names. Bools are
// pointers so an absent key can be told apart from an explicit false.
type FileConfig struct {
	SerialPort    string `toml:"serial_port"`
	BaudRate      int    `toml:"baud_rate"`
	SchemaPath    string `toml:"schema_path"`
	OperationMode string `toml:"operation_mode"`
	DecoderMethod string `toml:"decoder_method"`
	StateDir      string `toml:"state_dir"`
	ListenAddr    string `toml:"listen_addr"`
	WatchSchema   *bool  `toml:"watch_schema"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.streamplot/config.toml when the home
// directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".streamplot", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", fc.SerialPort, &cfg.SerialPort)
	s.setInt("baud", fc.BaudRate, &cfg.BaudRate)
	s.setString("schema", fc.SchemaPath, &cfg.SchemaPath)
	s.setString("mode", fc.OperationMode, &cfg.OperationMode)
	s.setString("decoder", fc.DecoderMethod, &cfg.DecoderMethod)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("listen", fc.ListenAddr, &cfg.ListenAddr)
	s.setBool("watch-schema", fc.WatchSchema, &cfg.WatchSchema)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
