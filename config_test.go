package procpool

import (
	"context"
	"embed"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/embed"
	"github.com/viant/procpool/service/meta"
)

//go:embed testdata/*
var embedFS embed.FS

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(c *Config)
		expectErr   string
	}{
		{description: "defaults", mutate: func(c *Config) {}},
		{description: "no workers", mutate: func(c *Config) { c.Workers = 0 }, expectErr: "workers must be > 0"},
		{description: "empty kind", mutate: func(c *Config) { c.Kind = "" }, expectErr: "kind was empty"},
		{description: "negative wait", mutate: func(c *Config) { c.WaitTimeoutMs = -1 }, expectErr: "waitTimeoutMs must be >= 0"},
		{description: "negative tick", mutate: func(c *Config) { c.TickRateMs = -5 }, expectErr: "tickRateMs must be >= 0"},
	}
	for _, testCase := range testCases {
		config := DefaultConfig()
		testCase.mutate(config)
		err := config.Validate()
		if testCase.expectErr == "" {
			assert.NoError(t, err, testCase.description)
			continue
		}
		if assert.Error(t, err, testCase.description) {
			assert.Contains(t, err.Error(), testCase.expectErr, testCase.description)
		}
	}
}

func TestConfig_HandleConfig(t *testing.T) {
	config := DefaultConfig()
	config.Command = []string{"/bin/worker", "serve"}
	config.Bootstrap = "/etc/pool.yaml"
	config.ReadyTimeoutMs = 1500
	handleConfig := config.HandleConfig()
	assert.Equal(t, []string{"/bin/worker", "serve"}, handleConfig.Command)
	assert.Equal(t, "/etc/pool.yaml", handleConfig.Bootstrap)
	assert.Equal(t, 1500*time.Millisecond, handleConfig.ReadyTimeout)
	assert.Equal(t, time.Minute, config.WaitTimeout())
	assert.Equal(t, time.Duration(0), config.TickRate())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PROCPOOL_POOL_NAME", "batch")
	metaService := meta.New(nil, "embed:///testdata", &embedFS)
	ctx := context.Background()

	config, err := loadConfig(ctx, metaService, "pool.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, config.Workers)
	assert.Equal(t, "thread", config.Kind)
	assert.Equal(t, "batch", config.Env["POOL_NAME"])
	assert.Equal(t, 8000, config.ReadyTimeoutMs)
	assert.Equal(t, "pool", config.Metrics.Namespace)
	assert.Equal(t, 5000, config.WriteTimeoutMs)

	_, err = loadConfig(ctx, metaService, "invalid.yaml")
	assert.Error(t, err)

	_, err = loadConfig(ctx, metaService, "missing.yaml")
	assert.Error(t, err)
}
