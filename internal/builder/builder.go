package builder

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/streamplot/streamplot/internal/ports"
	"github.com/streamplot/streamplot/internal/telemetry"
)

// Builder is the frame decoding engine. It owns the schema store, the
// operation mode, and the text representation, and dispatches every raw
// frame delivered by the transport to the strategy selected by the mode.
//
// One lock serializes decoding with schema reloads and mode switches: a
// reload clears the old template and installs the fully-built replacement
// under the lock, so a decode observes either the old or the new schema.
type Builder struct {
	mu sync.Mutex

	store  *Store
	mode   OperationMode
	method DecoderMethod

	transport ports.DelimiterConfig
	parser    ports.FieldParser
	playback  ports.PlaybackSource

	frameSubs []func(telemetry.Frame)
	modeSubs  []func(OperationMode)

	stateDir string
	log      zerolog.Logger
}

// New creates a Builder persisting its settings under stateDir.
func New(stateDir string, log zerolog.Logger) *Builder {
	return &Builder{
		store:    NewStore(),
		mode:     ModeQuickPlot,
		method:   DecodePlainText,
		stateDir: stateDir,
		log:      log.With().Str("component", "builder").Logger(),
	}
}

// AttachTransport registers the transport surface that receives delimiter
// updates on mode and schema changes.
func (b *Builder) AttachTransport(t ports.DelimiterConfig) {
	b.mu.Lock()
	b.transport = t
	b.applyDelimitersLocked()
	b.mu.Unlock()
}

// SetFieldParser registers the parsing capability used in project mode.
// Passing nil unregisters it, which makes project mode drop live messages.
func (b *Builder) SetFieldParser(p ports.FieldParser) {
	b.mu.Lock()
	b.parser = p
	b.mu.Unlock()
}

// SetPlaybackSource registers the playback source checked in project mode.
func (b *Builder) SetPlaybackSource(p ports.PlaybackSource) {
	b.mu.Lock()
	b.playback = p
	b.mu.Unlock()
}

// Subscribe registers fn to receive every accepted decode. Delivery is
// synchronous and in order from the decode path; the frame is a snapshot
// whose mutation window has closed.
func (b *Builder) Subscribe(fn func(telemetry.Frame)) {
	b.mu.Lock()
	b.frameSubs = append(b.frameSubs, fn)
	b.mu.Unlock()
}

// SubscribeModeChanges registers fn to be notified after the operation mode
// changes.
func (b *Builder) SubscribeModeChanges(fn func(OperationMode)) {
	b.mu.Lock()
	b.modeSubs = append(b.modeSubs, fn)
	b.mu.Unlock()
}

// Restore loads persisted settings and re-applies them: decoder method,
// last schema path (reloaded if still readable), then operation mode. Called
// once at startup; missing settings leave the defaults in place.
func (b *Builder) Restore() {
	s, err := loadSettings(b.stateDir)
	if err != nil {
		return
	}

	if m, err := ParseDecoderMethod(s.DecoderMethod); err == nil {
		b.SetDecoderMethod(m)
	}
	if s.SchemaPath != "" {
		if _, err := b.LoadSchema(s.SchemaPath); err != nil {
			b.log.Warn().Err(err).Str("path", s.SchemaPath).Msg("could not restore schema")
		}
	}
	if m, err := ParseOperationMode(s.OperationMode); err == nil {
		b.SetOperationMode(m)
	}
}

// OperationMode returns the active decoding strategy.
func (b *Builder) OperationMode() OperationMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// DecoderMethod returns the active text representation for project mode.
func (b *Builder) DecoderMethod() DecoderMethod {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.method
}

// SchemaPath returns the path of the loaded schema, or "" when none is.
func (b *Builder) SchemaPath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Path()
}

// SchemaInfo describes the loaded schema.
func (b *Builder) SchemaInfo() SchemaInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Info()
}

// SetOperationMode switches the decoding strategy, reconfigures the
// transport delimiters to match, persists the selection, and notifies
// mode-change subscribers. Switching into project mode re-applies the loaded
// schema's delimiters; switching out of it disables them.
func (b *Builder) SetOperationMode(mode OperationMode) {
	b.mu.Lock()
	b.mode = mode
	b.applyDelimitersLocked()
	b.persistLocked()
	subs := append(([]func(OperationMode))(nil), b.modeSubs...)
	b.mu.Unlock()

	b.log.Info().Stringer("mode", mode).Msg("operation mode changed")
	for _, fn := range subs {
		fn(mode)
	}
}

// SetDecoderMethod switches the text representation used in project mode and
// persists the selection.
func (b *Builder) SetDecoderMethod(method DecoderMethod) {
	b.mu.Lock()
	b.method = method
	b.persistLocked()
	b.mu.Unlock()
}

// LoadSchema loads and validates the schema file at path, installs it as the
// active template, persists the path, and pushes the schema's delimiters to
// the transport when project mode is active. On failure the previous schema
// is cleared and the persisted path reset, leaving the engine in the
// "no schema loaded" state.
func (b *Builder) LoadSchema(path string) (SchemaInfo, error) {
	b.mu.Lock()
	info, err := b.store.Load(path)
	if b.mode == ModeProjectFile {
		b.applyDelimitersLocked()
	}
	b.persistLocked()
	b.mu.Unlock()

	if err != nil {
		b.log.Error().Err(err).Str("path", path).Msg("schema load failed")
		return SchemaInfo{}, err
	}

	b.log.Info().
		Str("path", path).
		Str("title", info.Title).
		Int("groups", info.Groups).
		Int("datasets", info.Datasets).
		Msg("schema loaded")
	return info, nil
}

// ReadData decodes one raw frame according to the active mode and publishes
// the result to subscribers. Malformed or undeliverable messages are dropped
// without surfacing an error; a drop is a no-op, not a pending operation.
func (b *Builder) ReadData(data []byte) {
	frame, ok := b.Decode(data)
	if !ok {
		return
	}
	b.mu.Lock()
	subs := append(([]func(telemetry.Frame))(nil), b.frameSubs...)
	b.mu.Unlock()
	for _, fn := range subs {
		fn(frame)
	}
}

// Decode turns one raw frame into a telemetry snapshot. The second return
// value is false when the message was dropped.
func (b *Builder) Decode(data []byte) (telemetry.Frame, bool) {
	if len(data) == 0 {
		return telemetry.Frame{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.mode {
	case ModeDeviceSendsJSON:
		return b.decodeJSON(data)
	case ModeProjectFile:
		return b.decodeProject(data)
	case ModeQuickPlot:
		return quickPlotFrame(strings.Split(string(data), ",")), true
	default:
		return telemetry.Frame{}, false
	}
}

// decodeJSON parses the message itself as a schema document. Malformed live
// traffic is dropped with no diagnostic; losing the occasional frame on a
// noisy link is preferable to flooding subscribers with errors.
func (b *Builder) decodeJSON(data []byte) (telemetry.Frame, bool) {
	frame, err := telemetry.FrameFromJSON(data)
	if err != nil {
		return telemetry.Frame{}, false
	}
	return frame, true
}

// decodeProject extracts fields from the message and applies them to the
// schema template in place, returning a snapshot of the mutated template.
func (b *Builder) decodeProject(data []byte) (telemetry.Frame, bool) {
	if !b.store.Loaded() {
		return telemetry.Frame{}, false
	}

	var fields []string
	if b.playback != nil && b.playback.Active() {
		// Recorded data is already comma-separated text; skip the
		// representation and the field parser entirely.
		fields = strings.Split(simplify(string(data)), ",")
	} else {
		if b.parser == nil {
			return telemetry.Frame{}, false
		}
		fields = b.parser.Parse(b.decodeText(data))
	}

	frame := b.store.Frame()
	frame.ApplyFields(fields)
	return frame.Clone(), true
}

// decodeText converts raw bytes to text using the configured representation.
func (b *Builder) decodeText(data []byte) string {
	switch b.method {
	case DecodeHexadecimal:
		return hex.EncodeToString(data)
	case DecodeBase64:
		return base64.StdEncoding.EncodeToString(data)
	default:
		return string(data)
	}
}

// applyDelimitersLocked pushes the delimiter table for the active mode to
// the transport: project mode uses the schema's sequences, every other mode
// disables framing. Callers hold b.mu.
func (b *Builder) applyDelimitersLocked() {
	if b.transport == nil {
		return
	}
	switch b.mode {
	case ModeProjectFile:
		info := b.store.Info()
		b.transport.SetStartSequence(info.FrameStart)
		b.transport.SetFinishSequence(info.FrameEnd)
	default:
		b.transport.SetStartSequence(nil)
		b.transport.SetFinishSequence(nil)
	}
}

// persistLocked rewrites the settings file with the current state. Callers
// hold b.mu.
func (b *Builder) persistLocked() {
	s := settings{
		OperationMode: b.mode.String(),
		DecoderMethod: b.method.String(),
		SchemaPath:    b.store.Path(),
	}
	if err := saveSettings(b.stateDir, s); err != nil {
		b.log.Warn().Err(err).Msg("could not persist settings")
	}
}

// simplify trims the string and collapses internal whitespace runs to a
// single space, matching how recorded playback rows are normalized.
func simplify(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
