package types

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by service and method lookup failures
var ErrNotFound = errors.New("not found")

func NewMethodNotFoundError(name string) error {
	return fmt.Errorf("method %v %w", name, ErrNotFound)
}

func NewServiceNotFoundError(name string) error {
	return fmt.Errorf("service %v %w", name, ErrNotFound)
}

func NewInvalidInputError(in interface{}) error {
	return fmt.Errorf("invalid input %T", in)
}

func NewInvalidOutputError(in interface{}) error {
	return fmt.Errorf("invalid output %T", in)
}
