package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/viant/procpool/model/types"
)

const name = "printer"

// Service writes messages as plain text to the worker's standard output.
// The coordinator sees such text outside frames as an unknown message.
type Service struct {
	writer io.Writer
}

type Input struct {
	Message string
}

type Output struct {
	Printed int
}

// New creates a printer writing to stdout
func New() *Service {
	return &Service{writer: os.Stdout}
}

// NewWithWriter creates a printer writing to w
func NewWithWriter(w io.Writer) *Service {
	return &Service{writer: w}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "print",
			Description: "Prints the given message to standard output.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "print":
		return s.print, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) print(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	n, err := fmt.Fprintln(s.writer, input.Message)
	output.Printed = n
	return err
}
