package coordinator

import (
	"time"

	"github.com/viant/procpool/extension"
	"github.com/viant/procpool/progress"
	"github.com/viant/procpool/service/handle"
	"go.uber.org/zap"
)

// Option customises a coordinator
type Option func(c *Coordinator)

// WithActions sets the task registry used to validate dispatched handlers
func WithActions(actions *extension.Actions) Option {
	return func(c *Coordinator) {
		c.actions = actions
	}
}

// WithHandleConfig sets the worker process settings
func WithHandleConfig(config *handle.Config) Option {
	return func(c *Coordinator) {
		if config != nil {
			c.config = config.Clone()
		}
	}
}

// WithBootstrap sets the bootstrap path sent to every spawned worker
func WithBootstrap(path string) Option {
	return func(c *Coordinator) {
		c.bootstrap = path
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the event observer
func WithMetrics(observer Observer) Option {
	return func(c *Coordinator) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithProgress sets the job progress tracker
func WithProgress(p *progress.Progress) Option {
	return func(c *Coordinator) {
		if p != nil {
			c.progress = p
		}
	}
}

// WithReadyTimeout bounds the readiness handshake of every spawned worker
func WithReadyTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		c.readyTimeout = timeout
	}
}
