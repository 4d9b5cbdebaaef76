package executor

import "errors"

var (
	ErrTaskNotFound    = errors.New("task reference was empty")
	ErrInvalidArgument = errors.New("invalid task argument")
)

// TaskError carries the location of the task method that failed
type TaskError struct {
	Handler string
	File    string
	Line    int
	Err     error
}

func (e *TaskError) Error() string {
	return e.Handler + ": " + e.Err.Error()
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
