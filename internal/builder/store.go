package builder

import (
	"fmt"
	"os"

	"github.com/streamplot/streamplot/internal/telemetry"
)

// SchemaInfo summarizes a successfully loaded schema so callers can
// propagate its delimiters to the transport.
type SchemaInfo struct {
	Title      string
	Groups     int
	Datasets   int
	FrameStart []byte
	FrameEnd   []byte
}

// Store loads, validates, and holds the active schema as a Frame template.
// It is not safe for concurrent use on its own; the Builder serializes all
// access under its lock.
type Store struct {
	frame  telemetry.Frame
	loaded bool
	path   string
}

// NewStore returns an empty schema store.
func NewStore() *Store { return &Store{} }

// Load reads and validates the schema file at path and installs it as the
// active template. The replacement frame is built in full before the old one
// is released, so a consumer never observes a partially replaced schema.
// On any failure the store is cleared and the error wraps one of
// telemetry.ErrSchemaIO, ErrSchemaParse, or ErrSchemaStructural.
func (s *Store) Load(path string) (SchemaInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.Clear()
		return SchemaInfo{}, fmt.Errorf("%w: %v", telemetry.ErrSchemaIO, err)
	}

	frame, err := telemetry.FrameFromJSON(data)
	if err != nil {
		s.Clear()
		return SchemaInfo{}, err
	}

	s.frame = frame
	s.loaded = true
	s.path = path

	return s.Info(), nil
}

// Info describes the currently held schema.
func (s *Store) Info() SchemaInfo {
	return SchemaInfo{
		Title:      s.frame.Title,
		Groups:     s.frame.GroupCount(),
		Datasets:   s.frame.DatasetCount(),
		FrameStart: s.frame.FrameStart,
		FrameEnd:   s.frame.FrameEnd,
	}
}

// Clear drops the active schema, resetting the store to its empty state.
func (s *Store) Clear() {
	s.frame.Clear()
	s.loaded = false
	s.path = ""
}

// Loaded reports whether a schema template is installed.
func (s *Store) Loaded() bool { return s.loaded }

// Path returns the file path of the active schema, or "" when none is loaded.
func (s *Store) Path() string { return s.path }

// Frame returns the active template for in-place mutation.
func (s *Store) Frame() *telemetry.Frame { return &s.frame }
