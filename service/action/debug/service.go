package debug

import (
	"context"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/viant/procpool/model/types"
	"github.com/viant/procpool/service/worker"
)

// Name is the service name
const Name = "debug"

// Service provides tasks used to exercise a pool: echoing, sleeping,
// streaming, emitting hints and failing in every supported way.
type Service struct{}

// SleepInput is the input of debug.sleep
type SleepInput struct {
	Ms    int
	Value interface{}
}

// MessageInput is the input of debug.fail and debug.error
type MessageInput struct {
	Message string
}

// HintInput is the input of debug.hint
type HintInput struct {
	Messages []string
	Value    interface{}
}

// StreamInput is the input of debug.stream
type StreamInput struct {
	Values []interface{}
}

// ExitInput is the input of debug.exit
type ExitInput struct {
	Code int
}

// New creates a debug service
func New() *Service {
	return &Service{}
}

// Name returns the service name
func (s *Service) Name() string {
	return Name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{Name: "echo", Description: "Returns its arguments unchanged."},
		{Name: "sleep", Description: "Sleeps for Ms milliseconds, then returns Value.", Input: reflect.TypeOf(&SleepInput{})},
		{Name: "fail", Description: "Panics with Message.", Input: reflect.TypeOf(&MessageInput{})},
		{Name: "error", Description: "Returns an error with Message.", Input: reflect.TypeOf(&MessageInput{})},
		{Name: "hint", Description: "Emits every message as a hint, then returns Value.", Input: reflect.TypeOf(&HintInput{})},
		{Name: "stream", Description: "Emits every value as a separate output.", Input: reflect.TypeOf(&StreamInput{})},
		{Name: "exit", Description: "Terminates the worker process with Code without reporting.", Input: reflect.TypeOf(&ExitInput{})},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "echo":
		return s.echo, nil
	case "sleep":
		return s.sleep, nil
	case "fail":
		return s.fail, nil
	case "error":
		return s.error, nil
	case "hint":
		return s.hint, nil
	case "stream":
		return s.stream, nil
	case "exit":
		return s.exit, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) echo(ctx context.Context, in, out interface{}) error {
	return setOutput(out, in)
}

func (s *Service) sleep(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*SleepInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	select {
	case <-time.After(time.Duration(input.Ms) * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	return setOutput(out, input.Value)
}

func (s *Service) fail(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*MessageInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	panic(input.Message)
}

func (s *Service) error(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*MessageInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	return errors.New(input.Message)
}

func (s *Service) hint(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*HintInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	for _, msg := range input.Messages {
		if err := worker.Output(ctx, msg); err != nil {
			return err
		}
	}
	return setOutput(out, input.Value)
}

func (s *Service) stream(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*StreamInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	for _, value := range input.Values {
		if err := worker.Emit(ctx, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) exit(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ExitInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	os.Exit(input.Code)
	return nil
}

func setOutput(out, value interface{}) error {
	holder, ok := out.(*interface{})
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	*holder = value
	return nil
}
