package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/streamplot/streamplot"
	"github.com/streamplot/streamplot/internal/cliconfig"
	"github.com/streamplot/streamplot/plugins/schemawatcher"
)

const helpDescription = `
Decode raw device frames into structured telemetry and stream them to
visualization clients in real time.

Highlights:
  - Three operation modes: project-file (schema-driven), device-sends-json,
    and quick-plot (ad-hoc comma-separated values).
  - Loads a JSON project schema and applies decoded fields in place.
  - Serves the latest frame and a websocket stream on the dashboard address.
  - Persists mode, decoder method, and schema path across restarts.
`

var exampleUsage = strings.TrimSpace(`
  streamplot --port /dev/ttyUSB0 --mode quick-plot
  streamplot --port /dev/ttyACM0 --baud 115200 --schema project.json --mode project-file
  streamplot --config $HOME/.streamplot/config.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// defaultFieldParser splits a trimmed text frame on commas. It stands in for
// a user-supplied parsing capability when none is configured.
func defaultFieldParser(text string) []string {
	return strings.Split(strings.TrimSpace(text), ",")
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "streamplot",
		Short:   "Decode device telemetry frames and stream them to dashboards",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.streamplot/config.toml),
			// then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log.Info().Interface("config", cfg).Msg("configuration")

			opts := []streamplot.Option{
				streamplot.WithLogger(log),
				streamplot.WithFieldParser(streamplot.FieldParserFunc(defaultFieldParser)),
			}
			if cfg.WatchSchema {
				opts = append(opts, schemawatcher.WithDefaultSchemaWatcher())
			}

			engine, err := streamplot.New(streamplot.Config{
				SerialPort:    cfg.SerialPort,
				BaudRate:      cfg.BaudRate,
				SchemaPath:    cfg.SchemaPath,
				OperationMode: cfg.OperationMode,
				DecoderMethod: cfg.DecoderMethod,
				StateDir:      cfg.StateDir,
				ListenAddr:    cfg.ListenAddr,
			}, opts...)
			if err != nil {
				return fmt.Errorf("create engine: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			if err := engine.Start(ctx); err != nil {
				return fmt.Errorf("start engine: %w", err)
			}

			select {
			case <-sigCh:
				log.Info().Msg("received signal, stopping...")
			case <-engine.Done():
				// Transport failed or exited on its own.
			}

			if err := engine.Stop(); err != nil {
				return fmt.Errorf("stop engine: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.streamplot/config.toml)")
	root.Flags().StringVar(&cfg.SerialPort, "port", cfg.SerialPort, "serial port to read device frames from")
	root.Flags().IntVar(&cfg.BaudRate, "baud", cfg.BaudRate, "serial baud rate")
	root.Flags().StringVar(&cfg.SchemaPath, "schema", cfg.SchemaPath, "JSON project schema to load at startup")
	root.Flags().StringVar(&cfg.OperationMode, "mode", cfg.OperationMode, "operation mode: project-file, device-sends-json, quick-plot")
	root.Flags().StringVar(&cfg.DecoderMethod, "decoder", cfg.DecoderMethod, "text representation: plain-text, hexadecimal, base64")
	root.Flags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for persisted settings")
	root.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "dashboard listen address (empty disables)")
	root.Flags().BoolVar(&cfg.WatchSchema, "watch-schema", cfg.WatchSchema, "reload the schema when its file changes")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("streamplot")
		os.Exit(1)
	}
}
