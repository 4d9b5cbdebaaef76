// Package idgen produces the opaque identifiers attached to messages and
// promises. It lives under `internal` so tests can stub NewFunc without the
// public API committing to a particular format.
package idgen
