package coordinator

import (
	"context"
	"fmt"

	"github.com/viant/procpool/internal/clock"
	"github.com/viant/procpool/model/task"
	"github.com/viant/procpool/progress"
	"github.com/viant/procpool/service/promise"
	"github.com/viant/procpool/tracing"
	"go.uber.org/zap"
)

// Dispatch grants each task to the first idle worker, or queues it. A task
// is a *promise.Promise, a task reference, a handler name or a slice of those.
func (c *Coordinator) Dispatch(ctx context.Context, job interface{}) (err error) {
	ctx, span := tracing.StartSpan(ctx, "coordinator.Dispatch", "PRODUCER")
	defer func() { tracing.EndSpan(span, err) }()

	promises, err := normalize(job)
	if err != nil {
		return err
	}
	for _, p := range promises {
		if _, _, _, err := c.actions.Resolve(p.Reference().Handler); err != nil {
			return fmt.Errorf("%w: %v: %v", ErrHandlerNotFound, p.Reference().Handler, err)
		}
	}
	for _, p := range promises {
		c.progress.Update(progress.Delta{Total: 1})
		if err = c.dispatch(ctx, p, false); err != nil {
			return err
		}
	}
	return nil
}

func normalize(job interface{}) ([]*promise.Promise, error) {
	switch actual := job.(type) {
	case *promise.Promise:
		if actual == nil {
			return nil, fmt.Errorf("promise was nil")
		}
		return []*promise.Promise{actual}, nil
	case *task.Reference:
		if err := actual.Validate(); err != nil {
			return nil, err
		}
		return []*promise.Promise{promise.FromReference(actual)}, nil
	case task.Reference:
		return normalize(&actual)
	case string:
		return normalize(task.NewReference(actual, nil))
	case []*promise.Promise:
		ret := make([]*promise.Promise, 0, len(actual))
		for _, p := range actual {
			items, err := normalize(p)
			if err != nil {
				return nil, err
			}
			ret = append(ret, items...)
		}
		return ret, nil
	case []task.Reference:
		ret := make([]*promise.Promise, 0, len(actual))
		for i := range actual {
			items, err := normalize(&actual[i])
			if err != nil {
				return nil, err
			}
			ret = append(ret, items...)
		}
		return ret, nil
	case []*task.Reference:
		ret := make([]*promise.Promise, 0, len(actual))
		for _, ref := range actual {
			items, err := normalize(ref)
			if err != nil {
				return nil, err
			}
			ret = append(ret, items...)
		}
		return ret, nil
	case []interface{}:
		var ret []*promise.Promise
		for _, item := range actual {
			items, err := normalize(item)
			if err != nil {
				return nil, err
			}
			ret = append(ret, items...)
		}
		return ret, nil
	}
	return nil, fmt.Errorf("unsupported task type: %T", job)
}

// dispatch grants p to the first idle worker or appends it to the pending
// queue; queued marks a promise taken off the queue head.
func (c *Coordinator) dispatch(ctx context.Context, p *promise.Promise, queued bool) error {
	c.mux.Lock()
	index, ok := c.idleIndex()
	if !ok {
		c.pending = append(c.pending, p)
		pending := len(c.pending)
		c.mux.Unlock()
		c.observer.Pending(pending)
		c.progress.Update(progress.Delta{Pending: 1})
		c.logger.Debug("job queued", zap.String("id", p.ID()), zap.String("handler", p.Reference().Handler), zap.Int("pending", pending))
		return nil
	}
	h := c.handles[index]
	exec := &execution{promise: p, index: index, started: clock.Now()}
	exec.span, _ = tracing.SpanFromContext(ctx)
	c.executions[p.ID()] = exec
	c.slots[index] = p.ID()
	c.mux.Unlock()

	if err := h.Write(p.Reference()); err != nil {
		c.mux.Lock()
		delete(c.executions, p.ID())
		delete(c.slots, index)
		if queued {
			c.pending = append([]*promise.Promise{p}, c.pending...)
		}
		c.mux.Unlock()
		return fmt.Errorf("failed to dispatch %v to worker %d: %w", p.Reference().Handler, index, err)
	}
	delta := progress.Delta{Running: 1}
	if queued {
		delta.Pending = -1
	}
	c.progress.Update(delta)
	c.observer.Dispatched(p.Reference().Handler)
	c.logger.Debug("job dispatched", zap.String("id", p.ID()), zap.String("handler", p.Reference().Handler), zap.Int("index", index))
	return nil
}

// idleIndex returns the lowest worker index without a job; caller holds mux
func (c *Coordinator) idleIndex() (int, bool) {
	for _, index := range c.indices() {
		if _, busy := c.slots[index]; !busy {
			return index, true
		}
	}
	return 0, false
}

// dispatchPending grants the pending queue head, if any
func (c *Coordinator) dispatchPending(ctx context.Context) error {
	c.mux.Lock()
	if len(c.pending) == 0 {
		c.mux.Unlock()
		return nil
	}
	if _, ok := c.idleIndex(); !ok {
		c.mux.Unlock()
		return nil
	}
	head := c.pending[0]
	c.pending = c.pending[1:]
	pending := len(c.pending)
	c.mux.Unlock()
	c.observer.Pending(pending)
	return c.dispatch(ctx, head, true)
}
