// Package codec frames messages on a byte stream and turns an unbounded,
// possibly fragmented stream back into discrete messages.
//
// The wire format is a sequence of frames, each a JSON payload bounded by a
// single reserved delimiter byte (0x00):
//
//	\x00payload\x00\x00payload\x00...
//
// JSON never emits a raw 0x00 byte (control characters inside strings are
// escaped), so payloads cannot collide with the delimiter.  Text found
// between frames is surfaced as an Unknown message; it typically comes from a
// task printing straight to standard output.
package codec
