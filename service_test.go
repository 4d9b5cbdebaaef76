package procpool_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procpool"
	"github.com/viant/procpool/service/action/exec"
	"github.com/viant/procpool/service/action/storage"
	"github.com/viant/procpool/service/coordinator"
	"github.com/viant/procpool/service/promise"
)

const workerEnvKey = "PROCPOOL_TEST_SERVICE_WORKER"

func TestMain(m *testing.M) {
	if os.Getenv(workerEnvKey) == "1" {
		srv, err := procpool.New()
		if err != nil {
			os.Exit(1)
		}
		os.Exit(srv.ServeWorker(context.Background(), os.Stdin, os.Stdout))
	}
	os.Exit(m.Run())
}

func testConfig(t *testing.T, workers int) *procpool.Config {
	executable, err := os.Executable()
	require.NoError(t, err)
	config := procpool.DefaultConfig()
	config.Workers = workers
	config.Command = []string{executable, "-test.run=^$"}
	config.Env = map[string]string{workerEnvKey: "1"}
	config.ErrorLog = filepath.Join(t.TempDir(), "error.log")
	config.ReadyTimeoutMs = 10000
	config.WaitTimeoutMs = 20000
	return config
}

func TestService_Run(t *testing.T) {
	registry := prometheus.NewRegistry()
	srv, err := procpool.New(procpool.WithConfig(testConfig(t, 2)), procpool.WithMetrics(registry))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, srv.Start(ctx))
	defer srv.Close()
	assert.Equal(t, 2, srv.Coordinator().Len())

	location := filepath.Join(t.TempDir(), "out.txt")
	var mux sync.Mutex
	results := map[string]interface{}{}
	capture := func(key string) promise.Continuation {
		return func(v interface{}) (interface{}, error) {
			mux.Lock()
			defer mux.Unlock()
			results[key] = v
			return nil, nil
		}
	}
	jobs := []*promise.Promise{
		promise.Make("debug.echo", "hello").Then(capture("echo")),
		promise.Make("system/exec.execute", &exec.Input{Commands: []string{"echo procpool"}}).Then(capture("exec")),
		promise.Make("nop.nop", nil).Then(capture("nop")),
		promise.Make("storage.write", &storage.WriteInput{Objects: []*storage.Object{{URL: location, Content: "written by worker"}}}).Then(capture("storage")),
	}
	require.NoError(t, srv.Dispatch(ctx, jobs))
	require.NoError(t, srv.Wait(ctx))

	assert.Equal(t, "hello", results["echo"])
	output, ok := results["exec"].(*exec.Output)
	if assert.True(t, ok, "expected *exec.Output, got %T", results["exec"]) {
		assert.Contains(t, output.Stdout, "procpool")
		assert.Equal(t, 0, output.Status)
	}

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "written by worker", string(data))
	assert.NotNil(t, results["storage"])

	snapshot := srv.Progress().Snapshot()
	assert.Equal(t, 4, snapshot.TotalJobs)
	assert.Equal(t, 4, snapshot.CompletedJobs)
	assert.Equal(t, 0, snapshot.PendingJobs)

	count, err := testutil.GatherAndCount(registry, "procpool_jobs_finished_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestService_Bootstrap(t *testing.T) {
	bootstrap, err := filepath.Abs(filepath.Join("testdata", "pool.yaml"))
	require.NoError(t, err)
	config := testConfig(t, 1)
	config.Bootstrap = bootstrap
	srv, err := procpool.New(procpool.WithConfig(config))
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	assert.NoError(t, srv.Close())

	config = testConfig(t, 1)
	config.Bootstrap, err = filepath.Abs(filepath.Join("testdata", "invalid.yaml"))
	require.NoError(t, err)
	srv, err = procpool.New(procpool.WithConfig(config))
	require.NoError(t, err)
	err = srv.Start(context.Background())
	assert.True(t, errors.Is(err, coordinator.ErrSpawnFailed), "%v", err)
	assert.Equal(t, 0, srv.Coordinator().Len())
}

func TestService_InvalidConfig(t *testing.T) {
	config := procpool.DefaultConfig()
	config.Workers = -1
	_, err := procpool.New(procpool.WithConfig(config))
	assert.Error(t, err)
}
