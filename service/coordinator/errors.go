package coordinator

import (
	"errors"
	"fmt"

	"github.com/viant/procpool/service/handle"
)

var (
	// ErrProcessFailed is matched by every reported worker fault or death
	ErrProcessFailed = errors.New("process failed")
	// ErrHandlerNotFound is returned when dispatching a task no service can run
	ErrHandlerNotFound = errors.New("task handler not found")
	// ErrSpawnFailed is matched by spawn and readiness failures
	ErrSpawnFailed = handle.ErrSpawnFailed
	// ErrNotReady is reported for a worker that did not confirm readiness in time
	ErrNotReady = errors.New("worker readiness timed out")
)

// SpawnFailedError carries the raw diagnostic payload of a failed spawn
type SpawnFailedError = handle.SpawnFailedError

// ProcessFailedError reports a worker exception or death
type ProcessFailedError struct {
	Index  int
	Reason string
}

func (e *ProcessFailedError) Error() string {
	return fmt.Sprintf("%v: worker %d: %v", ErrProcessFailed, e.Index, e.Reason)
}

func (e *ProcessFailedError) Is(target error) bool {
	return target == ErrProcessFailed
}

// ResolveError is returned by Tick when a promise continuation failed and
// the promise had no catcher
type ResolveError struct {
	ID      string
	Handler string
	Err     error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to resolve %v (%v): %v", e.Handler, e.ID, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
