package extension

import (
	"reflect"
	"sync"

	"github.com/viant/procpool/model/types"
	"github.com/viant/x"
)

// Types keeps the Go types used by task signatures
type Types struct {
	x.Registry
	inputs  map[string]reflect.Type
	outputs map[string]reflect.Type
	mux     sync.RWMutex
}

// Register adds a data type to the registry
func (t *Types) Register(dataType *x.Type) {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.Registry.Register(dataType)
}

// RegisterSignature records input and output types of a handler
func (t *Types) RegisterSignature(handler string, signature types.Signature) {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.inputs[handler] = signature.Input
	t.outputs[handler] = signature.Output
	for _, rType := range []reflect.Type{signature.Input, signature.Output} {
		if rType == nil {
			continue
		}
		if rType.Kind() == reflect.Ptr {
			rType = rType.Elem()
		}
		if rType.Name() == "" {
			continue
		}
		t.Registry.Register(x.NewType(rType))
	}
}

// Lookup returns a registered data type by its qualified name
func (t *Types) Lookup(name string) *x.Type {
	t.mux.RLock()
	defer t.mux.RUnlock()
	return t.Registry.Lookup(name)
}

// InputType returns the input type of a handler
func (t *Types) InputType(handler string) reflect.Type {
	t.mux.RLock()
	defer t.mux.RUnlock()
	return t.inputs[handler]
}

// OutputType returns the output type of a handler
func (t *Types) OutputType(handler string) reflect.Type {
	t.mux.RLock()
	defer t.mux.RUnlock()
	return t.outputs[handler]
}

// NewTypes creates a new types
func NewTypes(options ...x.RegistryOption) *Types {
	return &Types{
		Registry: *x.NewRegistry(options...),
		inputs:   make(map[string]reflect.Type),
		outputs:  make(map[string]reflect.Type),
	}
}
