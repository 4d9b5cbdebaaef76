package worker

import (
	"context"
	"errors"
	"io"
	"runtime"
	"time"

	"github.com/viant/procpool/extension"
	"github.com/viant/procpool/model/message"
	"github.com/viant/procpool/service/codec"
	"go.uber.org/zap"
)

// Loop reads task references from the inbound stream and hands them to a runtime
type Loop struct {
	role      Role
	stream    *codec.Stream
	actions   *extension.Actions
	runtime   Runtime
	kinds     map[string]func() Runtime
	bootstrap Bootstrap
	tickRate  time.Duration
	logger    *zap.Logger
}

// Role returns the loop role
func (l *Loop) Role() Role {
	return l.role
}

// Actions returns the task registry
func (l *Loop) Actions() *extension.Actions {
	return l.actions
}

// Write writes one framed value to the coordinator
func (l *Loop) Write(v interface{}) error {
	return l.stream.Write(v)
}

// Output writes a hint carrying the caller's frame. It is a no-op unless the
// loop runs in the worker role.
func (l *Loop) Output(value interface{}) error {
	return l.output(value, 2)
}

func (l *Loop) output(value interface{}, skip int) error {
	if l.role != RoleWorker {
		return nil
	}
	return l.Write(message.NewHint(&message.Hint{From: callerFrame(skip + 1), Message: value}))
}

// Run processes messages until the inbound stream ends (0), ctx is done (0)
// or a task faults (1)
func (l *Loop) Run(ctx context.Context) int {
	lastTick := time.Now()
	for {
		if time.Since(lastTick) >= l.tickRate {
			l.runtime.Tick(ctx, l)
			lastTick = time.Now()
		}
		msg, err := l.stream.ReadWait(ctx, l.tickRate)
		if err != nil {
			if errors.Is(err, io.EOF) {
				if rErr := l.stream.Err(); rErr != nil {
					l.logger.Warn("inbound channel failed", zap.Error(rErr))
				}
			}
			return 0
		}
		if msg == nil {
			continue
		}
		if exception := l.handle(ctx, msg); exception != nil {
			l.fail(exception)
			return 1
		}
	}
}

func (l *Loop) handle(ctx context.Context, msg *message.Message) (exception *message.Exception) {
	defer func() {
		if r := recover(); r != nil {
			exception = panicException(r)
		}
	}()
	if err := l.runtime.Handle(NewContext(ctx, l), l, msg); err != nil {
		return errorException(err)
	}
	return nil
}

func (l *Loop) fail(exception *message.Exception) {
	l.logger.Error("task fault", zap.String("fault", exception.String()))
	if err := l.Write(message.NewException(exception)); err != nil {
		l.logger.Error("failed to report fault", zap.Error(err))
	}
	if err := l.Write(message.NewDead()); err != nil {
		l.logger.Error("failed to report dead", zap.Error(err))
	}
}

func callerFrame(skip int) *message.Frame {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return nil
	}
	frame := &message.Frame{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		frame.Function = fn.Name()
	}
	return frame
}

func newLoop(role Role, options ...Option) *Loop {
	ret := &Loop{
		role:     role,
		tickRate: DefaultTickRate,
		logger:   zap.NewNop(),
		kinds:    map[string]func() Runtime{KindThread: func() Runtime { return NewThread() }},
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.actions == nil {
		ret.actions = extension.NewActions()
	}
	return ret
}

// NewLoop creates a loop over in/out; the runtime defaults to Thread
func NewLoop(in io.Reader, out io.Writer, role Role, options ...Option) *Loop {
	ret := newLoop(role, options...)
	ret.stream = codec.NewStream(in, out)
	if ret.runtime == nil {
		ret.runtime = NewThread()
	}
	return ret
}
