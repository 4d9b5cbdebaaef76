package task

import (
	"fmt"
	"strings"
)

// Reference identifies a unit of work by handler name and carries its
// arguments. Handler has the form "<service>.<method>", for example
// "debug.echo" or "system/exec.execute".
type Reference struct {
	Handler string      `json:"handler"`
	Args    interface{} `json:"args,omitempty"`
}

// NewReference creates a reference
func NewReference(handler string, args interface{}) *Reference {
	return &Reference{Handler: handler, Args: args}
}

// Service returns the service part of the handler, or "" when malformed
func (r *Reference) Service() string {
	service, _, err := ParseHandler(r.Handler)
	if err != nil {
		return ""
	}
	return service
}

// Method returns the method part of the handler, or "" when malformed
func (r *Reference) Method() string {
	_, method, err := ParseHandler(r.Handler)
	if err != nil {
		return ""
	}
	return method
}

// Validate checks the handler syntax
func (r *Reference) Validate() error {
	if r == nil {
		return fmt.Errorf("task reference was nil")
	}
	if strings.TrimSpace(r.Handler) == "" {
		return fmt.Errorf("task handler was empty")
	}
	_, _, err := ParseHandler(r.Handler)
	return err
}

func (r *Reference) String() string {
	if r == nil {
		return "<nil>"
	}
	return r.Handler
}

// Handler joins service and method into a handler name
func Handler(service, method string) string {
	return service + "." + method
}
