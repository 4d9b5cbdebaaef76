package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/viant/procpool/extension"
	"github.com/viant/procpool/model/message"
	"github.com/viant/procpool/progress"
	"github.com/viant/procpool/service/handle"
	"github.com/viant/procpool/service/promise"
	"github.com/viant/procpool/tracing"
	"github.com/viant/structology/conv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HintHandler receives every hint a worker emits
type HintHandler func(hint *message.Hint, h *handle.Handle)

// UnknownHandler receives text a worker wrote outside frames
type UnknownHandler func(text string, h *handle.Handle)

// execution is the record of a job granted to a worker
type execution struct {
	promise *promise.Promise
	index   int
	outputs []interface{}
	started time.Time
	span    *tracing.Span
}

// Coordinator owns a pool of worker handles, their job slots, job records
// and the pending queue. One mutex guards all of them, so a job id is in the
// slot map and the record map together or in neither.
type Coordinator struct {
	actions      *extension.Actions
	config       *handle.Config
	bootstrap    string
	readyTimeout time.Duration
	logger       *zap.Logger
	observer     Observer
	progress     *progress.Progress
	converter    *conv.Converter

	handles    map[int]*handle.Handle
	nextIndex  int
	slots      map[int]string
	executions map[string]*execution
	pending    []*promise.Promise
	onHint     []HintHandler
	onUnknown  []UnknownHandler
	wake       chan struct{}
	mux        sync.Mutex
}

// Spawn starts count workers of the given runtime kind and blocks until all
// of them confirmed readiness. If any of them fails, every worker started by
// this call is killed and a SpawnFailedError is returned.
func (c *Coordinator) Spawn(ctx context.Context, kind string, count int) (err error) {
	ctx, span := tracing.StartSpan(ctx, "coordinator.Spawn", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	if count < 0 {
		return fmt.Errorf("invalid worker count: %v", count)
	}

	config := c.config.Clone()
	if kind != "" {
		config.Kind = kind
	}
	if c.bootstrap != "" {
		config.Bootstrap = c.bootstrap
	}
	c.mux.Lock()
	first := c.nextIndex
	c.nextIndex += count
	c.mux.Unlock()

	handles := make([]*handle.Handle, 0, count)
	for i := 0; i < count; i++ {
		h, err := handle.New(ctx, first+i, config, handle.WithLogger(c.logger), handle.WithNotify(c.wake))
		if err != nil {
			c.killAll(handles)
			return err
		}
		handles = append(handles, h)
	}

	group, gCtx := errgroup.WithContext(ctx)
	for _, h := range handles {
		h := h
		group.Go(func() error {
			if err := h.Ready(gCtx, c.readyTimeout); err != nil {
				return err
			}
			if h.State() != handle.StateActive {
				return &SpawnFailedError{Index: h.Index(), Err: ErrNotReady}
			}
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		c.logger.Error("failed to spawn workers", zap.String("kind", config.Kind), zap.Int("count", count), zap.Error(err))
		c.killAll(handles)
		return err
	}

	c.mux.Lock()
	for _, h := range handles {
		c.handles[h.Index()] = h
	}
	workers := len(c.handles)
	c.mux.Unlock()
	c.observer.Workers(workers)
	c.logger.Info("workers spawned", zap.String("kind", config.Kind), zap.Int("count", count), zap.Int("workers", workers))
	return nil
}

func (c *Coordinator) killAll(handles []*handle.Handle) {
	for _, h := range handles {
		if _, err := h.Kill(); err != nil {
			c.logger.Warn("failed to kill worker", zap.Int("index", h.Index()), zap.Error(err))
		}
	}
}

// Wait ticks until no job is running or timeout elapses. A timeout is not an error.
func (c *Coordinator) Wait(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		read, err := c.tick(ctx)
		if err != nil {
			return err
		}
		if !c.IsRunning() {
			return nil
		}
		if read > 0 {
			select {
			case <-timer.C:
				return nil
			default:
				continue
			}
		}
		select {
		case <-c.wake:
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Kill removes and terminates a worker. Its job, if any, is dropped without
// resolving the promise. Killing an absent index is a no-op.
func (c *Coordinator) Kill(index int) (bool, error) {
	c.mux.Lock()
	h, ok := c.handles[index]
	if !ok {
		c.mux.Unlock()
		return false, nil
	}
	delete(c.handles, index)
	id, busy := c.slots[index]
	if busy {
		delete(c.slots, index)
		delete(c.executions, id)
	}
	workers := len(c.handles)
	c.mux.Unlock()
	if busy {
		c.logger.Warn("killed worker with a running job", zap.Int("index", index), zap.String("id", id))
		c.progress.Update(progress.Delta{Running: -1, Failed: 1})
	}
	c.observer.Workers(workers)
	return h.Kill()
}

// KillAll kills every worker
func (c *Coordinator) KillAll() error {
	var errs []error
	for _, index := range c.Indices() {
		if _, err := c.Kill(index); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close kills every worker and drops pending jobs
func (c *Coordinator) Close() error {
	err := c.KillAll()
	c.mux.Lock()
	dropped := len(c.pending)
	c.pending = nil
	c.mux.Unlock()
	if dropped > 0 {
		c.progress.Update(progress.Delta{Pending: -dropped})
		c.observer.Pending(0)
	}
	return err
}

// OnHint registers a hint handler
func (c *Coordinator) OnHint(fn HintHandler) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.onHint = append(c.onHint, fn)
}

// OnUnknown registers an unknown text handler
func (c *Coordinator) OnUnknown(fn UnknownHandler) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.onUnknown = append(c.onUnknown, fn)
}

// Len returns number of workers
func (c *Coordinator) Len() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.handles)
}

// Indices returns sorted worker indices
func (c *Coordinator) Indices() []int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.indices()
}

func (c *Coordinator) indices() []int {
	ret := make([]int, 0, len(c.handles))
	for index := range c.handles {
		ret = append(ret, index)
	}
	sort.Ints(ret)
	return ret
}

// Handle returns a worker handle or nil
func (c *Coordinator) Handle(index int) *handle.Handle {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.handles[index]
}

// PendingCount returns number of queued jobs
func (c *Coordinator) PendingCount() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.pending)
}

// HasPending returns true when jobs wait for a free worker
func (c *Coordinator) HasPending() bool {
	return c.PendingCount() > 0
}

// Executions returns number of jobs granted to workers
func (c *Coordinator) Executions() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.executions)
}

// IsRunning returns true while any job is granted to a worker
func (c *Coordinator) IsRunning() bool {
	return c.Executions() > 0
}

// HasExecution returns true when a job record exists for id
func (c *Coordinator) HasExecution(id string) bool {
	c.mux.Lock()
	defer c.mux.Unlock()
	_, ok := c.executions[id]
	return ok
}

// Slot returns the job id held by a worker
func (c *Coordinator) Slot(index int) (string, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	id, ok := c.slots[index]
	return id, ok
}

// Progress returns the job progress tracker
func (c *Coordinator) Progress() *progress.Progress {
	return c.progress
}

// New creates a coordinator
func New(options ...Option) *Coordinator {
	convOptions := conv.DefaultOptions()
	convOptions.IgnoreUnmapped = true
	ret := &Coordinator{
		config:     &handle.Config{},
		logger:     zap.NewNop(),
		observer:   nopObserver{},
		progress:   progress.New(),
		converter:  conv.NewConverter(convOptions),
		handles:    make(map[int]*handle.Handle),
		slots:      make(map[int]string),
		executions: make(map[string]*execution),
		wake:       make(chan struct{}, 1),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.actions == nil {
		ret.actions = extension.NewActions()
	}
	return ret
}
