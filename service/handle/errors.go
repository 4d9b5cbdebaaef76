package handle

import (
	"errors"
	"fmt"
)

var (
	// ErrSpawnFailed is matched (errors.Is) by every spawn or handshake failure
	ErrSpawnFailed = errors.New("process spawn failed")

	// ErrStopped is returned when writing to a killed handle
	ErrStopped = errors.New("process handle stopped")
)

// SpawnFailedError carries the raw diagnostic payload of a failed spawn
type SpawnFailedError struct {
	Index   int
	Payload interface{}
	Err     error
}

func (e *SpawnFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: worker %d: %v", ErrSpawnFailed, e.Index, e.Err)
	}
	return fmt.Sprintf("%v: worker %d: %v", ErrSpawnFailed, e.Index, e.Payload)
}

func (e *SpawnFailedError) Unwrap() error {
	return e.Err
}

func (e *SpawnFailedError) Is(target error) bool {
	return target == ErrSpawnFailed
}
