// Package schemawatcher provides schema file monitoring for streamplot.
// When enabled, it watches the loaded schema file for changes and reloads
// it so edits to a project file take effect without restarting.
package schemawatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/streamplot/streamplot"
)

// Plugin implements schema file watching. It monitors the directory holding
// the active schema (editors typically replace files rather than write them
// in place) and debounces change bursts before reloading.
type Plugin struct {
	mu sync.RWMutex

	// Configuration
	retryInterval time.Duration
	debounceDelay time.Duration

	// Runtime state
	schema   streamplot.SchemaAccess
	logger   zerolog.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the schema watcher plugin.
type Config struct {
	// RetryInterval is the delay between watcher restarts, and the poll
	// interval while no schema is loaded. Default: 5 seconds.
	RetryInterval time.Duration

	// DebounceDelay is the delay after a file change before reloading.
	// Default: 100 milliseconds.
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RetryInterval: 5 * time.Second,
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a schema watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 5 * time.Second
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		retryInterval: cfg.RetryInterval,
		debounceDelay: cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "schemawatcher"
}

// Initialize stores the engine handles and starts the watcher loop.
func (p *Plugin) Initialize(ctx context.Context, cfg streamplot.PluginConfig) error {
	p.mu.Lock()
	p.schema = cfg.Schema
	p.logger = cfg.Logger.With().Str("plugin", p.Name()).Logger()
	p.mu.Unlock()

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info().Msg("schema watcher initialized")

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// watchLoop keeps a watcher attached to whichever schema file is currently
// loaded, restarting when the path changes or the watcher fails.
func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	for {
		path := p.schema.SchemaPath()
		if path == "" {
			if !sleep(ctx, p.retryInterval) {
				return
			}
			continue
		}

		if !p.watchOnce(ctx, path) {
			return
		}
	}
}

// watchOnce watches one schema path until the context ends (returns false),
// the path changes, or the watcher fails (both return true to re-attach).
func (p *Plugin) watchOnce(ctx context.Context, path string) bool {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Warn().Err(err).Msg("could not create watcher")
		return sleep(ctx, p.retryInterval)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		p.logger.Warn().Err(err).Str("path", path).Msg("could not watch schema directory")
		return sleep(ctx, p.retryInterval)
	}

	ticker := time.NewTicker(p.retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false

		case <-ticker.C:
			if p.schema.SchemaPath() != path {
				return true
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return sleep(ctx, p.retryInterval)
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.scheduleReload(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return sleep(ctx, p.retryInterval)
			}
			p.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// scheduleReload debounces change bursts before reloading the schema.
func (p *Plugin) scheduleReload(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if _, err := p.schema.LoadSchema(path); err != nil {
			p.logger.Warn().Err(err).Str("path", path).Msg("schema reload failed")
			return
		}
		p.logger.Info().Str("path", path).Msg("schema reloaded")
	})
}

// sleep waits d or until the context ends, reporting whether to continue.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
