// Package workertest lets a test binary act as its own worker process.
package workertest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/viant/procpool/extension"
	"github.com/viant/procpool/service/action/debug"
	"github.com/viant/procpool/service/action/nop"
	"github.com/viant/procpool/service/action/printer"
	"github.com/viant/procpool/service/handle"
	"github.com/viant/procpool/service/worker"
)

// EnvKey switches a re-executed test binary into the worker role
const EnvKey = "PROCPOOL_TEST_WORKER"

// Actions returns the services registered on both sides in tests
func Actions() *extension.Actions {
	return extension.NewActions(debug.New(), printer.New(), nop.New())
}

// Main serves the worker protocol when the binary was started as a worker,
// otherwise it runs the tests
func Main(m *testing.M) {
	if os.Getenv(EnvKey) == "1" {
		os.Exit(worker.Serve(context.Background(), os.Stdin, os.Stdout, worker.WithActions(Actions())))
	}
	os.Exit(m.Run())
}

// Config returns worker settings that re-execute the current test binary
func Config(t testing.TB) *handle.Config {
	executable, err := os.Executable()
	require.NoError(t, err)
	return &handle.Config{
		Command:      []string{executable, "-test.run=^$"},
		Env:          map[string]string{EnvKey: "1"},
		ErrorLog:     filepath.Join(t.TempDir(), "error.log"),
		ReadyTimeout: 10 * time.Second,
	}
}
