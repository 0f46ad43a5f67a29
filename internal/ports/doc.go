// Package ports defines the interfaces that connect the decoding core to its
// external collaborators.
//
//   - [FieldParser]: the pluggable parsing capability mapping decoded text to
//     an ordered field list
//   - [DelimiterConfig]: the transport surface the operation mode controller
//     pushes frame delimiters to
//   - [PlaybackSource]: a playback source that substitutes literal text for
//     live traffic
//
// The decoding core depends only on these interfaces; concrete adapters
// (serial transport, script hosts, CSV players) implement them. This keeps
// the decoder testable with in-memory fakes and the dependency direction
// pointing outward.
package ports
