package handle

import (
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	// DefaultReadyTimeout bounds the readiness handshake
	DefaultReadyTimeout = 5 * time.Second
	// DefaultWriteTimeout bounds a single frame write to the worker
	DefaultWriteTimeout = 5 * time.Second
	// DefaultKind is the worker runtime kind executed by default
	DefaultKind = "thread"
	// WorkerCommand is the subcommand the default binary is started with
	WorkerCommand = "worker"
)

// Config represents worker process settings
type Config struct {
	// Command is the worker binary followed by its arguments; defaults to the
	// current executable with the worker subcommand.
	Command []string
	Dir     string
	// Env overrides are merged on top of the caller's PATH
	Env map[string]string
	// InheritEnv passes the full caller environment instead of PATH only
	InheritEnv bool
	// ErrorLog receives the worker's standard error in append mode
	ErrorLog string
	// Bootstrap is passed to the worker in the startup record
	Bootstrap string
	// Kind names the worker runtime to execute
	Kind         string
	ReadyTimeout time.Duration
	WriteTimeout time.Duration
}

// Init sets defaults
func (c *Config) Init() {
	if len(c.Command) == 0 {
		executable, err := os.Executable()
		if err != nil {
			executable = os.Args[0]
		}
		c.Command = []string{executable, WorkerCommand}
	}
	if c.ErrorLog == "" {
		c.ErrorLog = filepath.Join(os.TempDir(), "procpool-error.log")
	}
	if c.Kind == "" {
		c.Kind = DefaultKind
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = DefaultReadyTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
}

// Clone returns a copy safe to modify
func (c *Config) Clone() *Config {
	ret := *c
	ret.Command = append([]string(nil), c.Command...)
	ret.Env = make(map[string]string, len(c.Env))
	for k, v := range c.Env {
		ret.Env[k] = v
	}
	return &ret
}

// Environ returns the worker environment: the caller's PATH (or full
// environment) merged with the override map
func (c *Config) Environ() []string {
	var ret []string
	if c.InheritEnv {
		ret = os.Environ()
	} else {
		ret = []string{"PATH=" + os.Getenv("PATH")}
	}
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ret = append(ret, k+"="+c.Env[k])
	}
	return ret
}
