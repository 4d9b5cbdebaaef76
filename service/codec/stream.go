package codec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/viant/procpool/model/message"
)

// ErrWriteTimeout is returned when a frame could not be written before the write deadline
var ErrWriteTimeout = errors.New("codec: write timed out")

const chunkSize = 32 * 1024

type deadlineWriter interface {
	SetWriteDeadline(t time.Time) error
}

// Stream multiplexes messages over a reader/writer pair. Reads never block:
// a pump goroutine moves raw chunks off the reader and Read drains whatever
// arrived so far.
type Stream struct {
	reader       io.Reader
	writer       io.Writer
	writeTimeout time.Duration
	deadOnEOF    bool

	buffer   *Buffer
	chunks   chan []byte
	wake     chan struct{}
	done     chan struct{}
	readErr  error
	notify   []chan<- struct{}
	sawDead  bool
	finished bool

	quit     chan struct{}
	mux      sync.Mutex
	writeMux sync.Mutex
	close    sync.Once
}

// StreamOption customises a stream
type StreamOption func(s *Stream)

// WithWriteTimeout bounds every Write when the writer supports deadlines
func WithWriteTimeout(timeout time.Duration) StreamOption {
	return func(s *Stream) {
		s.writeTimeout = timeout
	}
}

// WithNotify registers a channel signalled (without blocking) on every chunk
func WithNotify(ch chan<- struct{}) StreamOption {
	return func(s *Stream) {
		if ch != nil {
			s.notify = append(s.notify, ch)
		}
	}
}

// WithDeadOnEOF queues a Dead message when the reader ends before a Dead was received
func WithDeadOnEOF(flag bool) StreamOption {
	return func(s *Stream) {
		s.deadOnEOF = flag
	}
}

// NewStream creates a stream; reader may be nil for write-only use
func NewStream(reader io.Reader, writer io.Writer, options ...StreamOption) *Stream {
	ret := &Stream{
		reader: reader,
		writer: writer,
		buffer: NewBuffer(),
		chunks: make(chan []byte, 64),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
	}
	for _, opt := range options {
		opt(ret)
	}
	if reader != nil {
		go ret.pump()
	}
	return ret
}

func (s *Stream) pump() {
	defer close(s.done)
	for {
		buf := make([]byte, chunkSize)
		n, err := s.reader.Read(buf)
		if n > 0 {
			select {
			case s.chunks <- buf[:n]:
			case <-s.quit:
				return
			}
			s.signal()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				s.readErr = err
			}
			s.signal()
			return
		}
	}
}

func (s *Stream) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
	for _, ch := range s.notify {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// drain moves all available chunks into the buffer; caller holds mux
func (s *Stream) drain() {
	s.drainChunks()
	if s.finished || !s.isDone() {
		return
	}
	s.drainChunks()
	s.finished = true
	s.buffer.Flush()
	if s.deadOnEOF && !s.sawDead {
		s.sawDead = true
		s.buffer.Push(message.NewDead())
	}
}

func (s *Stream) drainChunks() {
	for {
		select {
		case chunk := <-s.chunks:
			for _, msg := range s.buffer.Feed(chunk) {
				if msg.Kind == message.KindDead {
					s.sawDead = true
				}
			}
		default:
			return
		}
	}
}

func (s *Stream) isDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Read returns the oldest buffered message or nil when nothing is available
func (s *Stream) Read() *message.Message {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.drain()
	return s.buffer.Next()
}

// Buffered returns number of decoded messages waiting to be read
func (s *Stream) Buffered() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.drain()
	return s.buffer.Len()
}

// ReadWait blocks until a message is available, the timeout elapses (nil, nil),
// the stream ends (nil, io.EOF) or ctx is done.
func (s *Stream) ReadWait(ctx context.Context, timeout time.Duration) (*message.Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if msg := s.Read(); msg != nil {
			return msg, nil
		}
		if s.Closed() {
			return nil, io.EOF
		}
		select {
		case <-s.wake:
		case <-s.done:
		case <-timer.C:
			return s.Read(), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Closed returns true once the reader ended and every buffered message was read
func (s *Stream) Closed() bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.drain()
	return s.finished && s.buffer.Len() == 0
}

// Done is closed when the reader ends
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns a non EOF read error, if any
func (s *Stream) Err() error {
	select {
	case <-s.done:
		return s.readErr
	default:
		return nil
	}
}

// Write encodes v and writes it as one complete frame
func (s *Stream) Write(v interface{}) error {
	frame, err := Encode(v)
	if err != nil {
		return err
	}
	return s.WriteRaw(frame)
}

// WriteRaw writes bytes as they are, in a single call
func (s *Stream) WriteRaw(data []byte) error {
	if s.writer == nil {
		return fmt.Errorf("codec: stream is read-only")
	}
	s.writeMux.Lock()
	defer s.writeMux.Unlock()
	if dw, ok := s.writer.(deadlineWriter); ok && s.writeTimeout > 0 {
		if err := dw.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err == nil {
			defer dw.SetWriteDeadline(time.Time{})
		}
	}
	_, err := s.writer.Write(data)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrWriteTimeout, s.writeTimeout)
		}
		return err
	}
	return nil
}

// Close closes the underlying writer and reader (when they are closers) exactly once
func (s *Stream) Close() error {
	var err error
	s.close.Do(func() {
		close(s.quit)
		if closer, ok := s.writer.(io.Closer); ok {
			err = closer.Close()
		}
		if closer, ok := s.reader.(io.Closer); ok {
			if cErr := closer.Close(); cErr != nil && err == nil {
				err = cErr
			}
		}
	})
	return err
}
