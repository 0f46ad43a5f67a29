package streamplot_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/streamplot/streamplot"
)

func commaParser() streamplot.FieldParser {
	return streamplot.FieldParserFunc(func(text string) []string {
		return strings.Split(strings.TrimSpace(text), ",")
	})
}

// newTestEngine builds an engine with no serial transport and no dashboard;
// frames are fed through ReadData.
func newTestEngine(t *testing.T, cfg streamplot.Config, opts ...streamplot.Option) *streamplot.Engine {
	t.Helper()
	opts = append(opts, streamplot.WithFieldParser(commaParser()))
	e, err := streamplot.New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestEngineDecodesQuickPlot(t *testing.T) {
	cfg := streamplot.DefaultConfig()
	cfg.StateDir = t.TempDir()
	cfg.OperationMode = "quick-plot"

	e := newTestEngine(t, cfg)

	frames := make(chan streamplot.Frame, 1)
	e.Subscribe(func(f streamplot.Frame) { frames <- f })

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	e.ReadData([]byte("1,2,3"))

	select {
	case f := <-frames:
		if f.Title != "Quick Plot" {
			t.Errorf("title = %q", f.Title)
		}
		if len(f.Groups) != 3 {
			t.Errorf("groups = %d, want 3", len(f.Groups))
		}
	case <-time.After(time.Second):
		t.Fatal("no frame published")
	}
}

func TestEngineLifecycleErrors(t *testing.T) {
	cfg := streamplot.DefaultConfig()
	cfg.StateDir = t.TempDir()

	e := newTestEngine(t, cfg)

	if err := e.Stop(); !errors.Is(err, streamplot.ErrNotRunning) {
		t.Errorf("Stop before Start: err = %v", err)
	}

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := e.Start(context.Background()); !errors.Is(err, streamplot.ErrAlreadyRunning) {
		t.Errorf("second Start: err = %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := e.Stop(); !errors.Is(err, streamplot.ErrNotRunning) {
		t.Errorf("second Stop: err = %v", err)
	}
}

func TestEngineRestoresPersistedMode(t *testing.T) {
	stateDir := t.TempDir()

	cfg := streamplot.DefaultConfig()
	cfg.StateDir = stateDir
	cfg.OperationMode = "device-sends-json"

	e := newTestEngine(t, cfg)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// A new engine with no explicit mode picks up the persisted one.
	cfg2 := streamplot.DefaultConfig()
	cfg2.StateDir = stateDir

	e2 := newTestEngine(t, cfg2)
	if err := e2.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e2.Stop()

	if got := e2.CurrentOperationMode(); got != streamplot.ModeDeviceSendsJSON {
		t.Errorf("mode = %v, want %v", got, streamplot.ModeDeviceSendsJSON)
	}
}

func TestEngineRejectsBadModeToken(t *testing.T) {
	cfg := streamplot.DefaultConfig()
	cfg.StateDir = t.TempDir()
	cfg.OperationMode = "bogus"

	e := newTestEngine(t, cfg)
	if err := e.Start(context.Background()); err == nil {
		e.Stop()
		t.Fatal("Start accepted invalid operation mode")
	}
}

type recordingPlugin struct {
	initialized bool
	shutdown    bool
	cfg         streamplot.PluginConfig
}

func (p *recordingPlugin) Name() string { return "recording" }

func (p *recordingPlugin) Initialize(ctx context.Context, cfg streamplot.PluginConfig) error {
	p.initialized = true
	p.cfg = cfg
	return nil
}

func (p *recordingPlugin) Shutdown(ctx context.Context) error {
	p.shutdown = true
	return nil
}

func TestEnginePluginLifecycle(t *testing.T) {
	cfg := streamplot.DefaultConfig()
	cfg.StateDir = t.TempDir()

	plugin := &recordingPlugin{}
	e := newTestEngine(t, cfg, streamplot.WithPlugin(plugin))

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !plugin.initialized {
		t.Error("plugin not initialized on Start")
	}
	if plugin.cfg.Schema == nil {
		t.Error("plugin config missing schema access")
	}
	if plugin.cfg.StateDir != cfg.StateDir {
		t.Errorf("plugin state dir = %q, want %q", plugin.cfg.StateDir, cfg.StateDir)
	}

	if err := e.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !plugin.shutdown {
		t.Error("plugin not shut down on Stop")
	}
}

type failingPlugin struct{ recordingPlugin }

func (p *failingPlugin) Initialize(ctx context.Context, cfg streamplot.PluginConfig) error {
	return errors.New("boom")
}

func TestEnginePluginInitFailureAbortsStart(t *testing.T) {
	cfg := streamplot.DefaultConfig()
	cfg.StateDir = t.TempDir()

	e := newTestEngine(t, cfg, streamplot.WithPlugin(&failingPlugin{}))
	if err := e.Start(context.Background()); err == nil {
		e.Stop()
		t.Fatal("Start succeeded despite plugin failure")
	}

	// The engine stayed stopped and can be started again without the plugin
	// blocking a retry path check.
	if err := e.Stop(); !errors.Is(err, streamplot.ErrNotRunning) {
		t.Errorf("Stop after failed Start: err = %v", err)
	}
}
