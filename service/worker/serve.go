package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/procpool/model/message"
	"github.com/viant/procpool/service/codec"
	"go.uber.org/zap"
)

// Serve runs the worker side of the protocol over in/out and returns the
// process exit code: 0 once in is exhausted, 1 on a task fault or a failed startup.
func Serve(ctx context.Context, in io.Reader, out io.Writer, options ...Option) int {
	loop := newLoop(RoleWorker, options...)
	reader := bufio.NewReader(in)
	startup, err := readStartup(reader)
	loop.stream = codec.NewStream(reader, out)
	if err != nil {
		loop.logger.Error("failed to read startup record", zap.Error(err))
		loop.refuse(err)
		return 1
	}
	if startup.Bootstrap != "" {
		bootstrap := loop.bootstrap
		if bootstrap == nil {
			bootstrap = checkBootstrap
		}
		if err = bootstrap(ctx, startup.Bootstrap); err != nil {
			loop.refuse(fmt.Errorf("bootstrap %v: %w", startup.Bootstrap, err))
			return 1
		}
	}
	kind := startup.Execute
	if kind == "" {
		kind = KindThread
	}
	factory, ok := loop.kinds[kind]
	if !ok {
		loop.refuse(fmt.Errorf("unsupported runtime kind: %v", kind))
		return 1
	}
	if loop.runtime == nil {
		loop.runtime = factory()
	}
	if err = loop.Write(&message.Readiness{Running: true}); err != nil {
		loop.logger.Error("failed to report readiness", zap.Error(err))
		return 1
	}
	loop.logger.Debug("worker running", zap.String("kind", kind))
	return loop.Run(ctx)
}

func (l *Loop) refuse(err error) {
	if wErr := l.Write(&message.Readiness{Running: false, Error: err.Error()}); wErr != nil {
		l.logger.Error("failed to report startup failure", zap.Error(wErr))
	}
}

func readStartup(reader *bufio.Reader) (*message.Startup, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && strings.TrimSpace(line) != "") {
		return nil, err
	}
	ret := &message.Startup{}
	if err = json.Unmarshal([]byte(line), ret); err != nil {
		return nil, fmt.Errorf("invalid startup record %q: %w", strings.TrimSpace(line), err)
	}
	return ret, nil
}

func checkBootstrap(ctx context.Context, path string) error {
	ok, err := afs.New().Exists(ctx, path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("file not found")
	}
	return nil
}
