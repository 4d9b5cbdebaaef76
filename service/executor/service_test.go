package executor

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procpool/extension"
	"github.com/viant/procpool/model/task"
	"github.com/viant/procpool/model/types"
	"github.com/viant/procpool/service/action/nop"
	"github.com/viant/procpool/service/action/printer"
)

func TestService_Execute(t *testing.T) {
	buffer := &bytes.Buffer{}
	var listened []string
	srv := New(extension.NewActions(printer.NewWithWriter(buffer), nop.New()), WithListener(func(ref *task.Reference, input, output interface{}, err error) {
		listened = append(listened, ref.Handler)
	}))

	var testCases = []struct {
		description string
		ref         *task.Reference
		expect      interface{}
		expectErr   error
	}{
		{
			description: "typed input from map",
			ref:         task.NewReference("printer.print", map[string]interface{}{"Message": "hello"}),
			expect:      &printer.Output{Printed: 6},
		},
		{
			description: "typed input from struct",
			ref:         task.NewReference("printer.Print", &printer.Input{Message: "abc"}),
			expect:      &printer.Output{Printed: 4},
		},
		{
			description: "no args",
			ref:         task.NewReference("nop.nop", nil),
			expect:      &nop.Output{},
		},
		{
			description: "unknown service",
			ref:         task.NewReference("missing.run", nil),
			expectErr:   types.ErrNotFound,
		},
		{
			description: "unknown method",
			ref:         task.NewReference("nop.run", nil),
			expectErr:   types.ErrNotFound,
		},
	}

	for _, testCase := range testCases {
		result, err := srv.Execute(context.Background(), testCase.ref)
		if testCase.expectErr != nil {
			assert.True(t, errors.Is(err, testCase.expectErr), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.True(t, result.HasValue, testCase.description)
		assert.Equal(t, testCase.expect, result.Value, testCase.description)
	}
	assert.Equal(t, "hello\nabc\n", buffer.String())
	assert.Equal(t, []string{"printer.print", "printer.Print", "nop.nop"}, listened)
}

func TestService_TypedValue(t *testing.T) {
	srv := New(extension.NewActions())
	value, err := srv.TypedValue(nil, 5)
	assert.NoError(t, err)
	assert.Equal(t, 5, value)

	value, err = srv.TypedValue(reflect.TypeOf(printer.Input{}), map[string]interface{}{"Message": "x"})
	assert.NoError(t, err)
	assert.Equal(t, printer.Input{Message: "x"}, value)
}

func TestService_Execute_Nil(t *testing.T) {
	srv := New(extension.NewActions())
	_, err := srv.Execute(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrTaskNotFound))
}


type failing struct{}

func (f *failing) Name() string { return "failing" }

func (f *failing) Methods() types.Signatures {
	return []types.Signature{{Name: "traced"}, {Name: "plain"}}
}

func (f *failing) Method(name string) (types.Executable, error) {
	switch name {
	case "traced":
		return f.traced, nil
	case "plain":
		return f.plain, nil
	}
	return nil, types.NewMethodNotFoundError(name)
}

func (f *failing) traced(ctx context.Context, in, out interface{}) error {
	return pkgerrors.New("traced failure")
}

func (f *failing) plain(ctx context.Context, in, out interface{}) error {
	return errors.New("plain failure")
}

func TestService_Execute_ErrorLocation(t *testing.T) {
	srv := New(extension.NewActions(&failing{}))

	_, err := srv.Execute(context.Background(), task.NewReference("failing.traced", nil))
	var taskErr *TaskError
	require.True(t, errors.As(err, &taskErr))
	assert.Equal(t, "failing.traced", taskErr.Handler)
	assert.True(t, strings.HasSuffix(taskErr.File, "executor/service_test.go"), taskErr.File)
	assert.True(t, taskErr.Line > 1)

	_, err = srv.Execute(context.Background(), task.NewReference("failing.plain", nil))
	require.True(t, errors.As(err, &taskErr))
	assert.Equal(t, "failing.plain", taskErr.Handler)
	assert.Equal(t, "", taskErr.File)
	assert.Equal(t, 0, taskErr.Line)
	assert.Equal(t, "failing.plain: plain failure", taskErr.Error())
}
