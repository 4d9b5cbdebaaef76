package procpool

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/viant/procpool/service/handle"
	"github.com/viant/procpool/service/meta"
)

// Config is a serialisable representation of a pool configuration. It can be
// loaded from YAML or JSON with LoadConfig; ${env.KEY} expressions are expanded.
type Config struct {
	Workers        int               `json:"workers" yaml:"workers"`
	Kind           string            `json:"kind,omitempty" yaml:"kind,omitempty"`
	Command        []string          `json:"command,omitempty" yaml:"command,omitempty"`
	Dir            string            `json:"dir,omitempty" yaml:"dir,omitempty"`
	Env            map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	InheritEnv     bool              `json:"inheritEnv,omitempty" yaml:"inheritEnv,omitempty"`
	ErrorLog       string            `json:"errorLog,omitempty" yaml:"errorLog,omitempty"`
	Bootstrap      string            `json:"bootstrap,omitempty" yaml:"bootstrap,omitempty"`
	ReadyTimeoutMs int               `json:"readyTimeoutMs,omitempty" yaml:"readyTimeoutMs,omitempty"`
	WriteTimeoutMs int               `json:"writeTimeoutMs,omitempty" yaml:"writeTimeoutMs,omitempty"`
	WaitTimeoutMs  int               `json:"waitTimeoutMs,omitempty" yaml:"waitTimeoutMs,omitempty"`
	TickRateMs     int               `json:"tickRateMs,omitempty" yaml:"tickRateMs,omitempty"`
	Metrics        MetricsConfig     `json:"metrics" yaml:"metrics"`
	Tracing        TracingConfig     `json:"tracing" yaml:"tracing"`
}

// MetricsConfig controls the Prometheus exporter
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig controls OpenTelemetry tracing
type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Service string `json:"service,omitempty" yaml:"service,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty"`
}

// DefaultConfig returns a Config populated with default values
func DefaultConfig() *Config {
	return &Config{
		Workers:        runtime.NumCPU(),
		Kind:           handle.DefaultKind,
		ReadyTimeoutMs: int(handle.DefaultReadyTimeout / time.Millisecond),
		WriteTimeoutMs: int(handle.DefaultWriteTimeout / time.Millisecond),
		WaitTimeoutMs:  60000,
		Metrics:        MetricsConfig{Namespace: "procpool"},
		Tracing:        TracingConfig{Service: "procpool", Version: "0.1.0"},
	}
}

// Validate returns an error describing the first invalid setting, or nil
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if c.Kind == "" {
		return fmt.Errorf("kind was empty")
	}
	for name, value := range map[string]int{
		"readyTimeoutMs": c.ReadyTimeoutMs,
		"writeTimeoutMs": c.WriteTimeoutMs,
		"waitTimeoutMs":  c.WaitTimeoutMs,
		"tickRateMs":     c.TickRateMs,
	} {
		if value < 0 {
			return fmt.Errorf("%v must be >= 0", name)
		}
	}
	return nil
}

// HandleConfig returns worker process settings
func (c *Config) HandleConfig() *handle.Config {
	return &handle.Config{
		Command:      c.Command,
		Dir:          c.Dir,
		Env:          c.Env,
		InheritEnv:   c.InheritEnv,
		ErrorLog:     c.ErrorLog,
		Bootstrap:    c.Bootstrap,
		Kind:         c.Kind,
		ReadyTimeout: time.Duration(c.ReadyTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(c.WriteTimeoutMs) * time.Millisecond,
	}
}

// WaitTimeout returns the default Wait timeout
func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutMs) * time.Millisecond
}

// TickRate returns the worker tick rate, or zero for the default
func (c *Config) TickRate() time.Duration {
	return time.Duration(c.TickRateMs) * time.Millisecond
}

// LoadConfig loads and validates a configuration; unset fields keep their defaults
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	return loadConfig(ctx, meta.New(nil, ""), URL)
}

func loadConfig(ctx context.Context, metaService *meta.Service, URL string) (*Config, error) {
	ret := DefaultConfig()
	if err := metaService.Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
