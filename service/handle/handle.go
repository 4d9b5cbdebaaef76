package handle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/viant/afs"
	"github.com/viant/procpool/model/message"
	"github.com/viant/procpool/service/codec"
	"go.uber.org/zap"
)

const killTimeout = 5 * time.Second

// Status represents the last known OS status of a worker process
type Status struct {
	Pid      int
	Running  bool
	Exited   bool
	ExitCode int
	Signaled bool
	Signal   string
}

// Handle owns one worker process, its inbound (write) and outbound (read) channels
type Handle struct {
	index  int
	config *Config
	cmd    *exec.Cmd
	stream *codec.Stream
	fs     afs.Service
	logger *zap.Logger
	notify chan<- struct{}

	state     State
	status    *Status
	exited    chan struct{}
	procState *os.ProcessState
	waitErr   error
	mux       sync.RWMutex
}

// Option customises a handle
type Option func(h *Handle)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handle) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithNotify registers a channel signalled whenever the worker sends data
func WithNotify(ch chan<- struct{}) Option {
	return func(h *Handle) {
		h.notify = ch
	}
}

// WithFS sets the file system used to read the error log
func WithFS(fs afs.Service) Option {
	return func(h *Handle) {
		h.fs = fs
	}
}

// New starts a worker process and sends it the startup record
func New(ctx context.Context, index int, config *Config, options ...Option) (*Handle, error) {
	if config == nil {
		config = &Config{}
	}
	config = config.Clone()
	config.Init()
	ret := &Handle{
		index:  index,
		config: config,
		logger: zap.NewNop(),
		exited: make(chan struct{}),
		state:  StateNotStarted,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if err := ret.start(ctx); err != nil {
		return nil, &SpawnFailedError{Index: index, Err: err}
	}
	return ret, nil
}

func (h *Handle) start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	inReader, inWriter, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("failed to create inbound channel: %w", err)
	}
	outReader, outWriter, err := os.Pipe()
	if err != nil {
		closeAll(inReader, inWriter)
		return fmt.Errorf("failed to create outbound channel: %w", err)
	}
	errorLog, err := os.OpenFile(h.config.ErrorLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		closeAll(inReader, inWriter, outReader, outWriter)
		return fmt.Errorf("failed to open error log %s: %w", h.config.ErrorLog, err)
	}

	cmd := exec.Command(h.config.Command[0], h.config.Command[1:]...)
	cmd.Stdin = inReader
	cmd.Stdout = outWriter
	cmd.Stderr = errorLog
	cmd.Dir = h.config.Dir
	cmd.Env = h.config.Environ()
	err = cmd.Start()
	// the child holds its own copies from here on
	closeAll(inReader, outWriter, errorLog)
	if err != nil {
		closeAll(inWriter, outReader)
		return fmt.Errorf("failed to create process for %v: %w", h.config.Kind, err)
	}
	h.cmd = cmd

	streamOptions := []codec.StreamOption{
		codec.WithWriteTimeout(h.config.WriteTimeout),
		codec.WithDeadOnEOF(true),
	}
	if h.notify != nil {
		streamOptions = append(streamOptions, codec.WithNotify(h.notify))
	}
	h.stream = codec.NewStream(outReader, inWriter, streamOptions...)
	go h.wait()

	startup, err := json.Marshal(&message.Startup{Bootstrap: h.config.Bootstrap, Execute: h.config.Kind})
	if err != nil {
		return err
	}
	if err = h.stream.WriteRaw(append(startup, '\n')); err != nil {
		_, _ = h.Kill()
		return fmt.Errorf("failed to send startup record: %w", err)
	}
	h.setState(StateStarting)
	h.logger.Debug("worker started", zap.Int("index", h.index), zap.Int("pid", cmd.Process.Pid), zap.String("kind", h.config.Kind))
	return nil
}

func (h *Handle) wait() {
	err := h.cmd.Wait()
	h.mux.Lock()
	h.procState = h.cmd.ProcessState
	h.waitErr = err
	h.mux.Unlock()
	close(h.exited)
}

// Ready waits for the readiness record. A timeout moves the handle to
// Unknown without an error; any other message fails the spawn.
func (h *Handle) Ready(ctx context.Context, timeout time.Duration) error {
	if state := h.State(); state != StateStarting {
		return nil
	}
	if timeout <= 0 {
		timeout = h.config.ReadyTimeout
	}
	msg, err := h.stream.ReadWait(ctx, timeout)
	if err != nil {
		h.setState(StateUnknown)
		return &SpawnFailedError{Index: h.index, Err: err}
	}
	if msg == nil {
		h.setState(StateUnknown)
		h.logger.Warn("worker readiness timed out", zap.Int("index", h.index), zap.Duration("timeout", timeout))
		return nil
	}
	if !message.IsReady(msg) {
		h.setState(StateUnknown)
		return &SpawnFailedError{Index: h.index, Payload: msg.Payload()}
	}
	h.setState(StateActive)
	return nil
}

// Read returns the oldest decoded message or nil
func (h *Handle) Read() *message.Message {
	return h.stream.Read()
}

// Write encodes v and writes one frame to the worker
func (h *Handle) Write(v interface{}) error {
	if h.State() == StateStopped {
		return ErrStopped
	}
	return h.stream.Write(v)
}

// Status returns the OS process status; it is cached once the process is no longer running
func (h *Handle) Status() Status {
	h.mux.Lock()
	defer h.mux.Unlock()
	if h.status != nil && !h.status.Running {
		return *h.status
	}
	status := &Status{Pid: h.cmd.Process.Pid, Running: true}
	select {
	case <-h.exited:
		status.Running = false
		status.Exited = true
		if h.procState != nil {
			status.ExitCode = h.procState.ExitCode()
			if ws, ok := h.procState.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				status.Signaled = true
				status.Signal = ws.Signal().String()
				status.Exited = false
			}
		}
	default:
	}
	h.status = status
	return *status
}

// Kill stops the handle, closes both channels and forcefully terminates the
// process. It returns whether termination succeeded.
func (h *Handle) Kill() (bool, error) {
	h.Status()
	h.setState(StateStopped)
	closeErr := h.stream.Close()
	if closeErr != nil {
		h.logger.Debug("failed to close worker channels", zap.Int("index", h.index), zap.Error(closeErr))
	}
	select {
	case <-h.exited:
		return true, nil
	default:
	}
	if err := h.cmd.Process.Signal(os.Kill); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return false, fmt.Errorf("failed to terminate worker %d: %w", h.index, err)
	}
	select {
	case <-h.exited:
		h.Status()
		return true, nil
	case <-time.After(killTimeout):
		return false, fmt.Errorf("worker %d did not terminate within %s", h.index, killTimeout)
	}
}

// ErrorLog returns the content of the worker's error log
func (h *Handle) ErrorLog(ctx context.Context) ([]byte, error) {
	return h.fs.DownloadWithURL(ctx, h.config.ErrorLog)
}

// Done is closed once the process exited
func (h *Handle) Done() <-chan struct{} {
	return h.exited
}

// State returns the handle state
func (h *Handle) State() State {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return h.state
}

func (h *Handle) setState(state State) {
	h.mux.Lock()
	h.state = state
	h.mux.Unlock()
}

// Index returns the coordinator assigned index
func (h *Handle) Index() int {
	return h.index
}

// Pid returns the OS process id
func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

// Config returns the effective configuration
func (h *Handle) Config() *Config {
	return h.config
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}
