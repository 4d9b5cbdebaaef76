package worker

import (
	"context"
)

type loopKey string

const loopContextKey = loopKey("loop")

// NewContext returns a context carrying the loop
func NewContext(ctx context.Context, loop *Loop) context.Context {
	return context.WithValue(ctx, loopContextKey, loop)
}

// FromContext returns the loop executing the current task, or nil
func FromContext(ctx context.Context) *Loop {
	if ctx == nil {
		return nil
	}
	loop, _ := ctx.Value(loopContextKey).(*Loop)
	return loop
}

// Output emits a hint from the task running in ctx. It is a no-op outside a worker.
func Output(ctx context.Context, value interface{}) error {
	loop := FromContext(ctx)
	if loop == nil {
		return nil
	}
	return loop.output(value, 2)
}

// Emit writes an intermediate value for the task running in ctx; every
// emitted value becomes part of the task result.
func Emit(ctx context.Context, value interface{}) error {
	loop := FromContext(ctx)
	if loop == nil {
		return nil
	}
	return loop.Write(value)
}
