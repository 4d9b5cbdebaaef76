// Package message defines the closed vocabulary exchanged between a
// coordinator and its worker processes.
//
// Every frame on the wire decodes into exactly one Message whose Kind selects
// which payload field is meaningful:
//
//   - KindData       Data holds a decoded value
//   - KindExecutable Task holds the task reference to run
//   - KindHint       Hint holds a diagnostic payload and its call site
//   - KindException  Exception holds a structured worker fault
//   - KindDead       terminal failure, no payload
//   - KindFinished   terminal success, no payload
//   - KindUnknown    Text holds raw bytes that were not a frame
//
// Message identity (ID) exists for uniqueness only and never correlates a
// message with a job; correlation is by worker index.
package message
