package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/viant/procpool/extension"
	"github.com/viant/procpool/model/task"
	"github.com/viant/procpool/model/types"
	"github.com/viant/structology/conv"
)

// Listener is invoked once a task method returns, regardless of its error
type Listener func(ref *task.Reference, input, output interface{}, err error)

// Option is used to customise the executor instance.
type Option func(*Service)

// WithListener sets the listener invoked after every executed task
func WithListener(l Listener) Option {
	return func(s *Service) {
		s.listener = l
	}
}

// Result represents an executed task output
type Result struct {
	// Value is the method output; for methods without output type it is
	// whatever the method stored in its holder
	Value interface{}
	// HasValue is false when a method without output type stored nothing
	HasValue bool
}

// Service executes task references
type Service struct {
	actions   *extension.Actions
	converter *conv.Converter
	listener  Listener
}

// Execute resolves and runs a task
func (s *Service) Execute(ctx context.Context, ref *task.Reference) (*Result, error) {
	if ref == nil {
		return nil, ErrTaskNotFound
	}
	_, signature, method, err := s.actions.Resolve(ref.Handler)
	if err != nil {
		return nil, err
	}
	input, err := s.TypedValue(signature.Input, ref.Args)
	if err != nil {
		return nil, fmt.Errorf("%w for %v: %v", ErrInvalidArgument, ref.Handler, err)
	}
	var holder interface{}
	output := interface{}(&holder)
	if signature.Output != nil {
		output = newInstancePtr(signature.Output)
	}
	err = method(ctx, input, output)
	if s.listener != nil {
		s.listener(ref, input, output, err)
	}
	if err != nil {
		file, line, ok := errorLocation(err)
		if !ok {
			file, line = location(method)
		}
		return nil, &TaskError{Handler: ref.Handler, File: file, Line: line, Err: err}
	}
	if signature.Output == nil {
		return &Result{Value: holder, HasValue: holder != nil}, nil
	}
	return &Result{Value: output, HasValue: true}, nil
}

// TypedValue converts value into a new instance of aType. A nil type returns value as is.
func (s *Service) TypedValue(aType reflect.Type, value interface{}) (interface{}, error) {
	if aType == nil {
		return value, nil
	}
	instance := newInstancePtr(aType)
	if value != nil {
		if err := s.converter.Convert(value, instance); err != nil {
			if jErr := jsonConvert(value, instance); jErr != nil {
				return nil, err
			}
		}
	}
	if aType.Kind() != reflect.Ptr {
		return reflect.ValueOf(instance).Elem().Interface(), nil
	}
	return instance, nil
}

func jsonConvert(value, instance interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, instance)
}

// newInstancePtr creates a new instance pointer of the given type
func newInstancePtr(t reflect.Type) interface{} {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflect.New(t).Interface()
}

// location returns where method is declared; method values resolve to a
// compiler generated wrapper without a usable location
func location(method types.Executable) (string, int) {
	fn := runtime.FuncForPC(reflect.ValueOf(method).Pointer())
	if fn == nil || strings.HasSuffix(fn.Name(), "-fm") {
		return "", 0
	}
	return fn.FileLine(fn.Entry())
}

// Actions returns the task registry
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// New creates an executor
func New(actions *extension.Actions, opts ...Option) *Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true
	ret := &Service{
		actions:   actions,
		converter: conv.NewConverter(options),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
