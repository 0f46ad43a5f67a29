package streamplot

import (
	"context"

	"github.com/rs/zerolog"
)

// Plugin extends the engine with optional behavior tied to its lifecycle.
// Initialize is called during Start, Shutdown during Stop (in reverse
// registration order).
type Plugin interface {
	// Name returns the plugin identifier used in logs.
	Name() string

	// Initialize sets up the plugin. Returning an error aborts Start.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown releases the plugin's resources.
	Shutdown(ctx context.Context) error
}

// SchemaAccess is the slice of the engine plugins use to observe and reload
// the active schema.
type SchemaAccess interface {
	// SchemaPath returns the path of the loaded schema, or "".
	SchemaPath() string

	// LoadSchema loads and installs the schema file at path.
	LoadSchema(path string) (SchemaInfo, error)
}

// PluginConfig is handed to every plugin during Initialize.
type PluginConfig struct {
	// StateDir is the engine's persistence directory.
	StateDir string

	// Schema exposes the active schema to the plugin.
	Schema SchemaAccess

	// Logger is the engine logger.
	Logger zerolog.Logger
}
