package promise

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/procpool/internal/idgen"
	"github.com/viant/procpool/model/task"
)

// Continuation receives the current result and may replace it
type Continuation func(result interface{}) (interface{}, error)

// Catcher handles the first error raised by a continuation
type Catcher func(err error) (interface{}, error)

// Promise represents a dispatched task and what to do with its result
type Promise struct {
	id            string
	reference     *task.Reference
	continuations []Continuation
	catcher       Catcher
	mux           sync.Mutex
}

// PanicError wraps a value recovered from a continuation
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("continuation panicked: %v", e.Value)
}

// Make creates a promise for handler with args
func Make(handler string, args interface{}) *Promise {
	return FromReference(task.NewReference(handler, args))
}

// FromReference creates a promise for a task reference
func FromReference(ref *task.Reference) *Promise {
	return &Promise{id: idgen.New(), reference: ref}
}

// ID returns the promise (job) id
func (p *Promise) ID() string {
	return p.id
}

// Reference returns the wrapped task
func (p *Promise) Reference() *task.Reference {
	return p.reference
}

// Then appends a continuation. A continuation returning an empty value
// (nil, false, zero, "", empty slice or map) keeps the previous result.
func (p *Promise) Then(fn Continuation) *Promise {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.continuations = append(p.continuations, fn)
	return p
}

// Catch sets the error handler, replacing any previous one
func (p *Promise) Catch(fn Catcher) *Promise {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.catcher = fn
	return p
}

// Handle runs continuations in order starting from result. The first error
// skips the remaining ones and goes to the catcher, whose return becomes the
// overall result; without a catcher the error is returned.
func (p *Promise) Handle(result interface{}) (interface{}, error) {
	p.mux.Lock()
	continuations := append([]Continuation(nil), p.continuations...)
	catcher := p.catcher
	p.mux.Unlock()

	for _, fn := range continuations {
		next, err := call(fn, result)
		if err != nil {
			if catcher == nil {
				return result, err
			}
			return catcher(err)
		}
		if !IsEmpty(next) {
			result = next
		}
	}
	return result, nil
}

func call(fn Continuation, result interface{}) (next interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn(result)
}

// IsEmpty returns true for values treated as "no result"
func IsEmpty(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}
