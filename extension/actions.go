package extension

import (
	"fmt"
	"sort"
	"sync"

	"github.com/viant/procpool/model/task"
	"github.com/viant/procpool/model/types"
	"github.com/viant/x"
)

// Actions provides task services by name
type Actions struct {
	types    *Types
	services map[string]types.Service
	mux      sync.RWMutex
}

// Types returns the signature type registry
func (s *Actions) Types() *Types {
	return s.types
}

// Lookup returns a service by name
func (s *Actions) Lookup(name string) types.Service {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.services[name]
}

// Register registers a service, replacing any service with the same name
func (s *Actions) Register(service types.Service) {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, signature := range service.Methods() {
		s.types.RegisterSignature(task.Handler(service.Name(), signature.Name), signature)
	}
	s.services[service.Name()] = service
}

// Services returns sorted registered service names
func (s *Actions) Services() []string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := make([]string, 0, len(s.services))
	for name := range s.services {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Resolve returns the service, signature and executable for a handler reference
func (s *Actions) Resolve(handler string) (types.Service, *types.Signature, types.Executable, error) {
	serviceName, methodName, err := task.ParseHandler(handler)
	if err != nil {
		return nil, nil, nil, err
	}
	service := s.Lookup(serviceName)
	if service == nil {
		return nil, nil, nil, types.NewServiceNotFoundError(serviceName)
	}
	signature := service.Methods().Lookup(methodName)
	if signature == nil {
		return nil, nil, nil, types.NewMethodNotFoundError(handler)
	}
	method, err := service.Method(methodName)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to find method %v for service %v: %w", methodName, serviceName, err)
	}
	return service, signature, method, nil
}

// NewActions creates a registry with the supplied services
func NewActions(services ...types.Service) *Actions {
	ret := &Actions{
		types:    NewTypes(),
		services: make(map[string]types.Service),
	}
	for _, service := range services {
		if service != nil {
			ret.Register(service)
		}
	}
	return ret
}

// RegisterTypes adds user data types to the registry
func (s *Actions) RegisterTypes(goTypes ...*x.Type) {
	for _, t := range goTypes {
		if t != nil {
			s.types.Register(t)
		}
	}
}
