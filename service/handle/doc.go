// Package handle owns a single worker process and its two byte-stream
// channels.
//
// A Handle moves through a small state machine:
//
//	NotStarted -> Starting   at construction (process started, startup record sent)
//	Starting   -> Active     on a positive readiness record
//	Starting   -> Unknown    on readiness timeout or failure
//	any        -> Stopped    only through Kill
//
// Channels are closed exactly once, when the handle stops.
package handle
