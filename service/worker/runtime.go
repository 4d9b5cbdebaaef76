package worker

import (
	"context"

	"github.com/viant/procpool/model/message"
	"github.com/viant/procpool/service/executor"
)

// Runtime executes messages received by a loop
type Runtime interface {
	// Handle processes one inbound message; a returned error is a task fault
	Handle(ctx context.Context, loop *Loop, msg *message.Message) error
	// Tick is called periodically while the loop is running
	Tick(ctx context.Context, loop *Loop)
}

// Thread runs one task at a time on the loop goroutine
type Thread struct {
	executor *executor.Service
}

// Handle executes task references and reports anything else as unknown
func (t *Thread) Handle(ctx context.Context, loop *Loop, msg *message.Message) error {
	switch msg.Kind {
	case message.KindExecutable:
		if t.executor == nil {
			t.executor = executor.New(loop.Actions())
		}
		result, err := t.executor.Execute(ctx, msg.Task)
		if err != nil {
			return err
		}
		if result.HasValue {
			if err = loop.Write(result.Value); err != nil {
				return err
			}
		}
		return loop.Write(message.NewFinished())
	default:
		return loop.Write(message.NewUnknown("encountered unknown: " + msg.String()))
	}
}

// Tick does nothing
func (t *Thread) Tick(ctx context.Context, loop *Loop) {}

// NewThread creates a thread runtime
func NewThread() *Thread {
	return &Thread{}
}
