package worker

import (
	"context"
	"time"

	"github.com/viant/procpool/extension"
	"go.uber.org/zap"
)

// DefaultTickRate is the interval of the periodic runtime callback
const DefaultTickRate = time.Second / 32

// KindThread is the default runtime kind
const KindThread = "thread"

// Bootstrap prepares the worker with the path received in the startup record
type Bootstrap func(ctx context.Context, path string) error

// Option customises a loop
type Option func(l *Loop)

// WithActions sets the task registry
func WithActions(actions *extension.Actions) Option {
	return func(l *Loop) {
		l.actions = actions
	}
}

// WithTickRate sets the periodic callback interval
func WithTickRate(rate time.Duration) Option {
	return func(l *Loop) {
		if rate > 0 {
			l.tickRate = rate
		}
	}
}

// WithLogger sets the logger; it must never write to the outbound channel
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithKind registers a runtime kind
func WithKind(name string, factory func() Runtime) Option {
	return func(l *Loop) {
		l.kinds[name] = factory
	}
}

// WithRuntime sets the runtime used by a loop created with NewLoop
func WithRuntime(runtime Runtime) Option {
	return func(l *Loop) {
		l.runtime = runtime
	}
}

// WithBootstrap sets the hook invoked with the startup bootstrap path
func WithBootstrap(bootstrap Bootstrap) Option {
	return func(l *Loop) {
		l.bootstrap = bootstrap
	}
}
