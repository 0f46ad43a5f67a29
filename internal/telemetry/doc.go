// Package telemetry defines the structural entities decoded from device
// traffic: a Frame holds ordered Groups, a Group holds ordered Datasets,
// and a Dataset carries one named, indexed scalar value.
//
// A Frame is either a schema template (loaded from a project file, structure
// fixed) or a decoded snapshot handed to subscribers. Templates are mutated
// in place through ApplyFields; snapshots are produced with Clone so their
// mutation window is closed before publication.
package telemetry
