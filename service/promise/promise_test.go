package promise

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func toInt(v interface{}) int {
	switch actual := v.(type) {
	case int:
		return actual
	case float64:
		return int(actual)
	}
	return -1
}

func TestPromise_Handle(t *testing.T) {
	var testCases = []struct {
		description string
		promise     func() *Promise
		input       interface{}
		expect      interface{}
		expectErr   bool
	}{
		{
			description: "no continuation returns result",
			promise:     func() *Promise { return Make("debug.echo", 5) },
			input:       5,
			expect:      5,
		},
		{
			description: "chained continuations",
			promise: func() *Promise {
				return Make("debug.echo", 5).
					Then(func(v interface{}) (interface{}, error) { return toInt(v) + 1, nil }).
					Then(func(v interface{}) (interface{}, error) { return toInt(v) * 2, nil })
			},
			input:  float64(5),
			expect: 12,
		},
		{
			description: "zero keeps previous",
			promise: func() *Promise {
				return Make("debug.echo", 5).Then(func(v interface{}) (interface{}, error) { return 0, nil })
			},
			input:  5,
			expect: 5,
		},
		{
			description: "empty string keeps previous",
			promise: func() *Promise {
				return Make("debug.echo", "a").Then(func(v interface{}) (interface{}, error) { return "", nil })
			},
			input:  "a",
			expect: "a",
		},
		{
			description: "false keeps previous",
			promise: func() *Promise {
				return Make("debug.echo", true).Then(func(v interface{}) (interface{}, error) { return false, nil })
			},
			input:  true,
			expect: true,
		},
		{
			description: "error goes to catcher and skips the rest",
			promise: func() *Promise {
				return Make("debug.echo", 1).
					Then(func(v interface{}) (interface{}, error) { return nil, errors.New("boom") }).
					Then(func(v interface{}) (interface{}, error) { return 100, nil }).
					Catch(func(err error) (interface{}, error) { return "caught: " + err.Error(), nil })
			},
			input:  1,
			expect: "caught: boom",
		},
		{
			description: "error without catcher is returned",
			promise: func() *Promise {
				return Make("debug.echo", 1).
					Then(func(v interface{}) (interface{}, error) { return nil, errors.New("boom") })
			},
			input:     1,
			expectErr: true,
		},
		{
			description: "last catcher wins",
			promise: func() *Promise {
				return Make("debug.echo", 1).
					Then(func(v interface{}) (interface{}, error) { return nil, errors.New("boom") }).
					Catch(func(err error) (interface{}, error) { return "first", nil }).
					Catch(func(err error) (interface{}, error) { return "second", nil })
			},
			input:  1,
			expect: "second",
		},
	}

	for _, testCase := range testCases {
		actual, err := testCase.promise().Handle(testCase.input)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestPromise_HandlePanic(t *testing.T) {
	var caught error
	p := Make("debug.echo", nil).
		Then(func(v interface{}) (interface{}, error) { panic("bad") }).
		Catch(func(err error) (interface{}, error) {
			caught = err
			return nil, nil
		})
	_, err := p.Handle(nil)
	assert.NoError(t, err)
	var panicErr *PanicError
	assert.True(t, errors.As(caught, &panicErr))
	assert.Equal(t, "bad", panicErr.Value)
}

func TestPromise_Identity(t *testing.T) {
	first := Make("debug.echo", 1)
	second := Make("debug.echo", 1)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, "debug.echo", first.Reference().Handler)
}

func TestIsEmpty(t *testing.T) {
	for _, value := range []interface{}{nil, false, 0, 0.0, "", []int{}, map[string]int{}, uint8(0)} {
		assert.True(t, IsEmpty(value), "%v", value)
	}
	for _, value := range []interface{}{true, 1, -1, 0.5, "x", []int{1}, map[string]int{"a": 1}, struct{}{}} {
		assert.False(t, IsEmpty(value), "%v", value)
	}
}
