// Package builder implements the frame decoding engine: it holds the active
// schema template, the operation mode and text representation, and turns raw
// byte frames delivered by the transport into published telemetry snapshots.
//
// All mutable state lives in a single Builder service object constructed at
// startup and shared by reference; there is no hidden global. Decoding,
// schema reloads, and mode switches are serialized by one lock so a decode
// always observes a fully-old or fully-new schema, never a partial one.
package builder
