package ports

// PlaybackSource reports whether recorded data is being replayed instead of
// live traffic. While playback is active, project mode treats incoming bytes
// as literal comma-separated text and bypasses both the text representation
// and the field parser.
type PlaybackSource interface {
	Active() bool
}
