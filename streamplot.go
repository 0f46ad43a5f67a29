// Package streamplot decodes raw byte frames arriving from an external
// device into structured telemetry frames for real-time visualization.
//
// Example usage:
//
//	cfg := streamplot.DefaultConfig()
//	cfg.SerialPort = "/dev/ttyUSB0"
//	cfg.SchemaPath = "project.json"
//	cfg.OperationMode = "project-file"
//
//	engine, err := streamplot.New(cfg,
//	    streamplot.WithLogger(log),
//	    streamplot.WithFieldParser(myParser),
//	)
//	if err != nil {
//	    log.Fatal().Err(err).Msg("create engine")
//	}
//	if err := engine.Start(context.Background()); err != nil {
//	    log.Fatal().Err(err).Msg("start engine")
//	}
//	defer engine.Stop()
package streamplot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/streamplot/streamplot/internal/builder"
	"github.com/streamplot/streamplot/internal/ports"
	"github.com/streamplot/streamplot/internal/server"
	"github.com/streamplot/streamplot/internal/telemetry"
	"github.com/streamplot/streamplot/internal/transport"
)

// Re-exported domain types. Users can also import the concrete values via
// the constants below.
type (
	// Frame is one structured telemetry snapshot.
	Frame = telemetry.Frame

	// Group is a named, widget-tagged collection of datasets.
	Group = telemetry.Group

	// Dataset is one named, indexed scalar value within a group.
	Dataset = telemetry.Dataset

	// OperationMode selects the active decoding strategy.
	OperationMode = builder.OperationMode

	// DecoderMethod is the text representation for project mode.
	DecoderMethod = builder.DecoderMethod

	// SchemaInfo summarizes a successfully loaded schema.
	SchemaInfo = builder.SchemaInfo

	// FieldParser is the pluggable parsing capability contract.
	FieldParser = ports.FieldParser

	// FieldParserFunc adapts a plain function to FieldParser.
	FieldParserFunc = ports.FieldParserFunc

	// PlaybackSource reports whether recorded data is being replayed.
	PlaybackSource = ports.PlaybackSource
)

// Operation modes.
const (
	ModeProjectFile     = builder.ModeProjectFile
	ModeDeviceSendsJSON = builder.ModeDeviceSendsJSON
	ModeQuickPlot       = builder.ModeQuickPlot
)

// Decoder methods.
const (
	DecodePlainText   = builder.DecodePlainText
	DecodeHexadecimal = builder.DecodeHexadecimal
	DecodeBase64      = builder.DecodeBase64
)

// Schema load errors, checkable with errors.Is.
var (
	ErrSchemaIO         = telemetry.ErrSchemaIO
	ErrSchemaParse      = telemetry.ErrSchemaParse
	ErrSchemaStructural = telemetry.ErrSchemaStructural
)

// ErrAlreadyRunning is returned when Start() is called on a running engine.
var ErrAlreadyRunning = errors.New("streamplot: already running")

// ErrNotRunning is returned when Stop() is called on a stopped engine.
var ErrNotRunning = errors.New("streamplot: not running")

// Engine wires the decoding core to its transport, dashboard, and plugins.
// Create one with New, then Start it; all consumers share the same instance
// by reference for the life of the process.
type Engine struct {
	config Config
	opts   options

	builder *builder.Builder
	framer  *transport.Framer
	serial  *transport.Serial
	dash    *server.Server
	plugins []Plugin
	log     zerolog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	runErr  error
}

// New creates an Engine with the given configuration. The engine is created
// stopped; call Start to begin decoding.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	b := builder.New(cfg.StateDir, log)
	if o.parser != nil {
		b.SetFieldParser(o.parser)
	}
	if o.playback != nil {
		b.SetPlaybackSource(o.playback)
	}

	framer := transport.NewFramer()
	b.AttachTransport(framer)

	e := &Engine{
		config:  cfg,
		opts:    o,
		builder: b,
		framer:  framer,
		plugins: o.plugins,
		log:     log,
	}

	if cfg.SerialPort != "" {
		e.serial = transport.NewSerial(transport.SerialConfig{
			Port:     cfg.SerialPort,
			BaudRate: cfg.BaudRate,
		}, framer, b.ReadData, log)
	}

	if cfg.ListenAddr != "" {
		e.dash = server.New(cfg.ListenAddr, log)
		b.Subscribe(e.dash.Publish)
	}

	return e, nil
}

// Start restores persisted state, applies the explicit configuration on top,
// opens the transport, and begins decoding in the background.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrAlreadyRunning
	}

	// Persisted settings first, explicit configuration on top. Empty config
	// fields keep whatever the previous session persisted.
	e.builder.Restore()
	if e.config.DecoderMethod != "" {
		m, err := builder.ParseDecoderMethod(e.config.DecoderMethod)
		if err != nil {
			return err
		}
		e.builder.SetDecoderMethod(m)
	}
	if e.config.SchemaPath != "" {
		if _, err := e.builder.LoadSchema(e.config.SchemaPath); err != nil {
			// Degrades to the "no schema loaded" state; decoding stays usable.
			e.log.Error().Err(err).Str("path", e.config.SchemaPath).Msg("schema load failed")
		}
	}
	if e.config.OperationMode != "" {
		m, err := builder.ParseOperationMode(e.config.OperationMode)
		if err != nil {
			return err
		}
		e.builder.SetOperationMode(m)
	}

	runCtx, cancel := context.WithCancel(ctx)

	if e.serial != nil {
		if err := e.serial.Open(); err != nil {
			cancel()
			return err
		}
	}

	pluginCfg := PluginConfig{
		StateDir: e.config.StateDir,
		Schema:   e.builder,
		Logger:   e.log,
	}
	for _, p := range e.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			cancel()
			if e.serial != nil {
				_ = e.serial.Close()
			}
			return fmt.Errorf("initialize plugin %s: %w", p.Name(), err)
		}
		e.log.Info().Str("plugin", p.Name()).Msg("plugin initialized")
	}

	if e.dash != nil {
		e.dash.Start(runCtx)
	}

	e.cancel = cancel
	e.done = make(chan struct{})
	e.running = true
	e.runErr = nil

	if e.serial != nil {
		go func() {
			err := e.serial.Run(runCtx)
			e.mu.Lock()
			if err != nil && !errors.Is(err, context.Canceled) {
				e.runErr = err
				e.log.Error().Err(err).Msg("transport stopped")
			}
			e.mu.Unlock()
			close(e.done)
		}()
	} else {
		// No transport configured; the caller feeds ReadData directly.
		go func() {
			<-runCtx.Done()
			close(e.done)
		}()
	}

	return nil
}

// Stop shuts down the transport, the dashboard, and the plugins (in reverse
// registration order), then waits for the decode loop to exit.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return ErrNotRunning
	}
	e.running = false
	cancel := e.cancel
	done := e.done
	e.mu.Unlock()

	cancel()
	<-done

	if e.dash != nil {
		e.dash.Stop()
	}

	shutdownCtx := context.Background()
	for i := len(e.plugins) - 1; i >= 0; i-- {
		p := e.plugins[i]
		if err := p.Shutdown(shutdownCtx); err != nil {
			e.log.Error().Err(err).Str("plugin", p.Name()).Msg("plugin shutdown failed")
		}
	}

	e.mu.Lock()
	err := e.runErr
	e.mu.Unlock()
	return err
}

// Done is closed when the decode loop exits, whether by Stop or by a
// transport failure. Check Err afterwards.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Err returns the error that stopped the decode loop, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runErr
}

// ReadData feeds one raw frame to the decoding engine. Useful when no serial
// transport is configured and the caller owns frame delivery.
func (e *Engine) ReadData(data []byte) { e.builder.ReadData(data) }

// Subscribe registers fn for every accepted decode. Delivery is synchronous
// and in order from the decode path.
func (e *Engine) Subscribe(fn func(Frame)) { e.builder.Subscribe(fn) }

// SubscribeModeChanges registers fn to be notified after mode switches.
func (e *Engine) SubscribeModeChanges(fn func(OperationMode)) {
	e.builder.SubscribeModeChanges(fn)
}

// LoadSchema loads a schema file and installs it as the active template.
func (e *Engine) LoadSchema(path string) (SchemaInfo, error) {
	return e.builder.LoadSchema(path)
}

// SchemaPath returns the path of the loaded schema, or "" when none is.
func (e *Engine) SchemaPath() string { return e.builder.SchemaPath() }

// SetOperationMode switches the active decoding strategy.
func (e *Engine) SetOperationMode(mode OperationMode) { e.builder.SetOperationMode(mode) }

// CurrentOperationMode returns the active decoding strategy.
func (e *Engine) CurrentOperationMode() OperationMode { return e.builder.OperationMode() }

// SetDecoderMethod switches the project-mode text representation.
func (e *Engine) SetDecoderMethod(m DecoderMethod) { e.builder.SetDecoderMethod(m) }
