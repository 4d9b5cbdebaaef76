package worker

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/viant/procpool/model/message"
	"github.com/viant/procpool/service/executor"
)

const (
	// CodeError marks a task that returned an error
	CodeError = 1
	// CodePanic marks a task that panicked
	CodePanic = 2
)

func errorException(err error) *message.Exception {
	ret := &message.Exception{Code: CodeError, Message: err.Error()}
	var taskErr *executor.TaskError
	if errors.As(err, &taskErr) {
		ret.File = taskErr.File
		ret.Line = taskErr.Line
	}
	return ret
}

func panicException(r interface{}) *message.Exception {
	ret := &message.Exception{Code: CodePanic, Message: fmt.Sprint(r)}
	if err, ok := r.(error); ok {
		ret.Message = err.Error()
	}
	if frame := panicFrame(); frame != nil {
		ret.File = frame.File
		ret.Line = frame.Line
	}
	return ret
}

// panicFrame returns the first frame below runtime.gopanic outside the runtime package
func panicFrame() *runtime.Frame {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	panicking := false
	for {
		frame, more := frames.Next()
		if panicking && !strings.HasPrefix(frame.Function, "runtime.") {
			return &frame
		}
		if frame.Function == "runtime.gopanic" {
			panicking = true
		}
		if !more {
			return nil
		}
	}
}
