package cliconfig

import "testing"

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("STREAMPLOT_SERIAL_PORT", "/dev/env-port")
	t.Setenv("STREAMPLOT_BAUD_RATE", "230400")
	t.Setenv("STREAMPLOT_OPERATION_MODE", "device-sends-json")
	t.Setenv("STREAMPLOT_WATCH_SCHEMA", "false")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}

	if cfg.SerialPort != "/dev/env-port" {
		t.Errorf("port = %q", cfg.SerialPort)
	}
	if cfg.BaudRate != 230400 {
		t.Errorf("baud = %d", cfg.BaudRate)
	}
	if cfg.OperationMode != "device-sends-json" {
		t.Errorf("mode = %q", cfg.OperationMode)
	}
	if cfg.WatchSchema {
		t.Error("watch schema should be disabled")
	}
}

func TestApplyEnvConfigRespectsFlags(t *testing.T) {
	t.Setenv("STREAMPLOT_SERIAL_PORT", "/dev/env-port")

	cfg := DefaultConfig()
	cfg.SerialPort = "/dev/flag-port"
	if err := ApplyEnvConfig(&cfg, map[string]bool{"port": true}); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}
	if cfg.SerialPort != "/dev/flag-port" {
		t.Errorf("port = %q, flag value should win", cfg.SerialPort)
	}
}

func TestApplyEnvConfigBadInt(t *testing.T) {
	t.Setenv("STREAMPLOT_BAUD_RATE", "fast")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err == nil {
		t.Fatal("expected error for non-numeric baud rate")
	}
}
