package storage

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"
	"github.com/viant/procpool/model/types"
)

const name = "storage"

// ReadInput names the objects to read
type ReadInput struct {
	URLs     []string `json:"urls" description:"object URLs"`
	MetaOnly bool     `json:"metaOnly,omitempty" description:"skip object content"`
}

// WriteInput carries the objects to write; each Content is stored at URL
type WriteInput struct {
	Objects []*Object `json:"objects"`
}

// ListInput names the location to list
type ListInput struct {
	URL       string `json:"url"`
	Recursive bool   `json:"recursive,omitempty"`
	PageSize  int    `json:"pageSize,omitempty"`
}

// Output returns the affected objects
type Output struct {
	Objects []*Object `json:"objects,omitempty"`
}

// Service lets jobs read, write and list files on any afs supported storage
type Service struct {
	fs afs.Service
}

// New creates a storage service
func New() *Service {
	return NewWithFS(afs.New())
}

// NewWithFS creates a storage service backed by fs
func NewWithFS(fs afs.Service) *Service {
	return &Service{fs: fs}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	output := reflect.TypeOf(&Output{})
	return []types.Signature{
		{Name: "read", Description: "Reads objects with their content.", Input: reflect.TypeOf(&ReadInput{}), Output: output},
		{Name: "write", Description: "Writes objects content.", Input: reflect.TypeOf(&WriteInput{}), Output: output},
		{Name: "list", Description: "Lists objects under a location.", Input: reflect.TypeOf(&ListInput{}), Output: output},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "read":
		return s.read, nil
	case "write":
		return s.write, nil
	case "list":
		return s.list, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) read(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ReadInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Read(ctx, input, output)
}

// Read reads every object named by input
func (s *Service) Read(ctx context.Context, input *ReadInput, output *Output) error {
	if len(input.URLs) == 0 {
		return fmt.Errorf("urls were empty")
	}
	for _, URL := range input.URLs {
		info, err := s.fs.Object(ctx, URL)
		if err != nil {
			return fmt.Errorf("failed to locate %v: %w", URL, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%v is a directory", URL)
		}
		object := newObject(info)
		if !input.MetaOnly {
			data, err := s.fs.Download(ctx, info)
			if err != nil {
				return fmt.Errorf("failed to read %v: %w", URL, err)
			}
			object.Content = string(data)
		}
		output.Objects = append(output.Objects, object)
	}
	return nil
}

func (s *Service) write(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*WriteInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Write(ctx, input, output)
}

// Write stores every object, replacing existing content
func (s *Service) Write(ctx context.Context, input *WriteInput, output *Output) error {
	if len(input.Objects) == 0 {
		return fmt.Errorf("objects were empty")
	}
	for _, object := range input.Objects {
		if object.URL == "" {
			return fmt.Errorf("object URL was empty")
		}
		if err := s.fs.Upload(ctx, object.URL, file.DefaultFileOsMode, strings.NewReader(object.Content)); err != nil {
			return fmt.Errorf("failed to write %v: %w", object.URL, err)
		}
		info, err := s.fs.Object(ctx, object.URL)
		if err != nil {
			return fmt.Errorf("failed to locate %v: %w", object.URL, err)
		}
		written := newObject(info)
		written.Size = int64(len(object.Content))
		output.Objects = append(output.Objects, written)
	}
	return nil
}

func (s *Service) list(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ListInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.List(ctx, input, output)
}

// List lists objects under input.URL, excluding the location itself
func (s *Service) List(ctx context.Context, input *ListInput, output *Output) error {
	if input.URL == "" {
		return fmt.Errorf("url was empty")
	}
	var options []storage.Option
	if input.Recursive {
		options = append(options, option.NewRecursive(true))
	}
	if input.PageSize > 0 {
		options = append(options, option.NewPage(0, input.PageSize))
	}
	objects, err := s.fs.List(ctx, input.URL, options...)
	if err != nil {
		return fmt.Errorf("failed to list %v: %w", input.URL, err)
	}
	for i, info := range objects {
		if i == 0 && info.IsDir() && strings.TrimRight(info.URL(), "/") == strings.TrimRight(input.URL, "/") {
			continue
		}
		output.Objects = append(output.Objects, newObject(info))
	}
	return nil
}
