package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHandler(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		service     string
		method      string
		expectErr   bool
	}{
		{description: "simple", input: "debug.echo", service: "debug", method: "echo"},
		{description: "nested service", input: "system/exec.execute", service: "system/exec", method: "execute"},
		{description: "dashed service", input: "my-svc.run_1", service: "my-svc", method: "run_1"},
		{description: "leading whitespace", input: "  debug.sleep", service: "debug", method: "sleep"},
		{description: "missing method", input: "debug", expectErr: true},
		{description: "missing service", input: ".echo", expectErr: true},
		{description: "trailing garbage", input: "debug.echo.more", expectErr: true},
		{description: "service ends with slash", input: "system/.echo", expectErr: true},
		{description: "empty", input: "", expectErr: true},
	}

	for _, testCase := range testCases {
		service, method, err := ParseHandler(testCase.input)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.service, service, testCase.description)
		assert.Equal(t, testCase.method, method, testCase.description)
	}
}

func TestReference(t *testing.T) {
	ref := NewReference("system/exec.execute", map[string]interface{}{"commands": []string{"ls"}})
	assert.NoError(t, ref.Validate())
	assert.Equal(t, "system/exec", ref.Service())
	assert.Equal(t, "execute", ref.Method())
	assert.Equal(t, "system/exec.execute", ref.String())

	assert.Error(t, (&Reference{}).Validate())
	assert.Equal(t, "", (&Reference{Handler: "broken"}).Service())
	assert.Equal(t, "debug.echo", Handler("debug", "echo"))
}
