package nop

import (
	"context"
	"reflect"

	"github.com/viant/procpool/model/types"
)

const name = "nop"

// Service completes every task immediately without output
type Service struct{}

type Input struct{}

type Output struct{}

// New creates a nop service
func New() *Service {
	return &Service{}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "nop",
			Description: "Performs no operation and returns immediately.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	if name != "nop" {
		return nil, types.NewMethodNotFoundError(name)
	}
	return s.nop, nil
}

func (s *Service) nop(ctx context.Context, in, out interface{}) error {
	return nil
}
