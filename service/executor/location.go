package executor

import (
	"errors"
	"runtime"

	pkgerrors "github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// errorLocation returns the file and line where err was created when it
// carries a stack trace
func errorLocation(err error) (string, int, bool) {
	var tracer stackTracer
	if !errors.As(err, &tracer) {
		return "", 0, false
	}
	trace := tracer.StackTrace()
	if len(trace) == 0 {
		return "", 0, false
	}
	pc := uintptr(trace[0]) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "", 0, false
	}
	file, line := fn.FileLine(pc)
	return file, line, true
}
