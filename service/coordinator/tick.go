package coordinator

import (
	"context"
	"errors"
	"reflect"

	"github.com/viant/procpool/internal/clock"
	"github.com/viant/procpool/model/message"
	"github.com/viant/procpool/progress"
	"github.com/viant/procpool/service/handle"
	"github.com/viant/procpool/tracing"
	"go.uber.org/zap"
)

const deathReason = "process has died"

// Tick reads at most one message from every worker, in index order, and
// routes it. A worker exception or death aborts the cycle with a
// ProcessFailedError; workers after it are polled on the next call.
func (c *Coordinator) Tick(ctx context.Context) error {
	_, err := c.tick(ctx)
	return err
}

func (c *Coordinator) tick(ctx context.Context) (int, error) {
	read := 0
	for _, index := range c.Indices() {
		h := c.Handle(index)
		if h == nil {
			continue
		}
		msg := h.Read()
		if msg == nil {
			continue
		}
		read++
		if err := c.route(ctx, h, msg); err != nil {
			return read, err
		}
	}
	return read, nil
}

func (c *Coordinator) route(ctx context.Context, h *handle.Handle, msg *message.Message) error {
	switch msg.Kind {
	case message.KindHint:
		c.observer.Hint()
		for _, fn := range c.hintHandlers() {
			fn(msg.Hint, h)
		}
		return nil
	case message.KindUnknown:
		c.observer.Unknown()
		c.logger.Debug("unknown worker output", zap.Int("index", h.Index()), zap.String("text", msg.Text))
		for _, fn := range c.unknownHandlers() {
			fn(msg.Text, h)
		}
		return nil
	case message.KindException:
		return c.fail(h, msg.Exception.String())
	case message.KindDead:
		return c.fail(h, deathReason)
	case message.KindFinished:
		return c.finish(ctx, h)
	case message.KindData:
		return c.record(h, msg.Data)
	case message.KindExecutable:
		return c.record(h, msg.Task)
	}
	c.logger.Warn("unsupported message kind", zap.Int("index", h.Index()), zap.Stringer("kind", msg.Kind))
	return nil
}

func (c *Coordinator) fail(h *handle.Handle, reason string) error {
	c.observer.ProcessFailed(h.Index())
	if _, busy := c.Slot(h.Index()); busy {
		c.progress.Update(progress.Delta{Failed: 1})
	}
	c.logger.Error("worker failed", zap.Int("index", h.Index()), zap.Int("pid", h.Pid()), zap.String("reason", reason))
	return &ProcessFailedError{Index: h.Index(), Reason: reason}
}

func (c *Coordinator) record(h *handle.Handle, value interface{}) error {
	c.mux.Lock()
	defer c.mux.Unlock()
	id, ok := c.slots[h.Index()]
	if !ok {
		c.logger.Warn("dropped output of an idle worker", zap.Int("index", h.Index()))
		return nil
	}
	exec := c.executions[id]
	exec.outputs = append(exec.outputs, value)
	return nil
}

func (c *Coordinator) finish(ctx context.Context, h *handle.Handle) error {
	c.mux.Lock()
	id, ok := c.slots[h.Index()]
	var exec *execution
	if ok {
		exec = c.executions[id]
		delete(c.slots, h.Index())
		delete(c.executions, id)
	}
	c.mux.Unlock()
	if exec == nil {
		c.logger.Warn("finished without a job", zap.Int("index", h.Index()))
		return nil
	}
	handler := exec.promise.Reference().Handler
	c.progress.Update(progress.Delta{Running: -1, Completed: 1})
	c.observer.Finished(handler, clock.Since(exec.started))

	resolveErr := c.resolve(ctx, exec)
	if err := c.dispatchPending(ctx); err != nil {
		return errors.Join(resolveErr, err)
	}
	return resolveErr
}

func (c *Coordinator) resolve(ctx context.Context, exec *execution) (err error) {
	_, span := tracing.StartSpan(tracing.WithSpan(ctx, exec.span), "coordinator.Resolve", "CONSUMER")
	defer func() { tracing.EndSpan(span, err) }()
	p := exec.promise
	span.WithAttributes(map[string]string{"id": p.ID(), "handler": p.Reference().Handler})

	if _, err = p.Handle(c.result(exec)); err != nil {
		return &ResolveError{ID: p.ID(), Handler: p.Reference().Handler, Err: err}
	}
	return nil
}

// result unwraps a single output, typed to the method output when it has one
func (c *Coordinator) result(exec *execution) interface{} {
	switch len(exec.outputs) {
	case 0:
		return nil
	case 1:
	default:
		return exec.outputs
	}
	value := exec.outputs[0]
	outputType := c.actions.Types().OutputType(exec.promise.Reference().Handler)
	if outputType == nil || value == nil {
		return value
	}
	elemType := outputType
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	instance := reflect.New(elemType).Interface()
	if err := c.converter.Convert(value, instance); err != nil {
		c.logger.Debug("failed to convert job output", zap.String("handler", exec.promise.Reference().Handler), zap.Error(err))
		return value
	}
	if outputType.Kind() != reflect.Ptr {
		return reflect.ValueOf(instance).Elem().Interface()
	}
	return instance
}

func (c *Coordinator) hintHandlers() []HintHandler {
	c.mux.Lock()
	defer c.mux.Unlock()
	return append([]HintHandler(nil), c.onHint...)
}

func (c *Coordinator) unknownHandlers() []UnknownHandler {
	c.mux.Lock()
	defer c.mux.Unlock()
	return append([]UnknownHandler(nil), c.onUnknown...)
}
