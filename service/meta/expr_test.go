package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	t.Setenv("POOL_WORKERS", "4")
	t.Setenv("POOL_DIR", "/var/pool")

	testCases := []struct {
		description string
		input       string
		expect      string
	}{
		{description: "plain", input: "workers: 2", expect: "workers: 2"},
		{description: "single", input: "workers: ${env.POOL_WORKERS}", expect: "workers: 4"},
		{description: "repeated", input: "${env.POOL_DIR}/log:${env.POOL_DIR}/boot.yaml", expect: "/var/pool/log:/var/pool/boot.yaml"},
		{description: "multi line", input: "workers: ${env.POOL_WORKERS}\ndir: ${env.POOL_DIR}\n", expect: "workers: 4\ndir: /var/pool\n"},
		{description: "unset", input: "errorLog: ${env.PROCPOOL_UNSET_KEY}", expect: "errorLog: "},
		{description: "unterminated", input: "dir: ${env.POOL_DIR", expect: "dir: ${env.POOL_DIR"},
		{description: "invalid key", input: "a ${env.POOL DIR and ${env.POOL_WORKERS} b", expect: "a ${env.POOL DIR and 4 b"},
		{description: "empty key", input: "x${env.}y", expect: "xy"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Expand(testCase.input), testCase.description)
	}
}
