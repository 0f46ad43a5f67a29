package schemawatcher

import "github.com/streamplot/streamplot"

// WithSchemaWatcher returns an engine Option that enables schema file
// watching. When enabled, the plugin monitors the loaded schema file and
// reloads it on changes.
//
// Usage:
//
//	engine, err := streamplot.New(cfg,
//	    schemawatcher.WithSchemaWatcher(schemawatcher.Config{
//	        RetryInterval: 5 * time.Second,
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithSchemaWatcher(cfg Config) streamplot.Option {
	return streamplot.WithPlugin(New(cfg))
}

// WithDefaultSchemaWatcher enables schema watching with default settings
// (retry every 5s, debounce 100ms).
func WithDefaultSchemaWatcher() streamplot.Option {
	return WithSchemaWatcher(DefaultConfig())
}
