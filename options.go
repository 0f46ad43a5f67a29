package streamplot

import (
	"github.com/rs/zerolog"

	"github.com/streamplot/streamplot/internal/ports"
)

// Option configures optional behavior of the Engine.
type Option func(*options)

// options holds the optional configuration for an Engine.
type options struct {
	logger   zerolog.Logger
	parser   ports.FieldParser
	playback ports.PlaybackSource
	plugins  []Plugin
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: zerolog.Nop(),
	}
}

// WithLogger sets the logger used by the engine and its components.
// If not provided, logging is disabled.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// WithFieldParser registers the parsing capability used in project mode.
// Without one, live project-mode messages are dropped.
func WithFieldParser(p FieldParser) Option {
	return func(o *options) {
		o.parser = p
	}
}

// WithPlaybackSource registers the playback source checked in project mode.
func WithPlaybackSource(p PlaybackSource) Option {
	return func(o *options) {
		o.playback = p
	}
}

// WithPlugin registers a plugin to be initialized when the engine starts.
// Plugins are initialized in registration order and shut down in reverse.
func WithPlugin(p Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, p)
	}
}
