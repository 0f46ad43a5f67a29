package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (STREAMPLOT_*). It respects flags that have been explicitly set.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", os.Getenv("STREAMPLOT_SERIAL_PORT"), &cfg.SerialPort)
	s.setString("schema", os.Getenv("STREAMPLOT_SCHEMA_PATH"), &cfg.SchemaPath)
	s.setString("mode", os.Getenv("STREAMPLOT_OPERATION_MODE"), &cfg.OperationMode)
	s.setString("decoder", os.Getenv("STREAMPLOT_DECODER_METHOD"), &cfg.DecoderMethod)
	s.setString("state-dir", os.Getenv("STREAMPLOT_STATE_DIR"), &cfg.StateDir)
	s.setString("listen", os.Getenv("STREAMPLOT_LISTEN_ADDR"), &cfg.ListenAddr)

	if err := s.setIntFromString("baud", os.Getenv("STREAMPLOT_BAUD_RATE"), &cfg.BaudRate); err != nil {
		return err
	}

	s.setBoolFromString("watch-schema", os.Getenv("STREAMPLOT_WATCH_SCHEMA"), &cfg.WatchSchema)

	return nil
}
