package exec

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
)

const defaultTimeout = time.Minute

// Service runs shell commands in local sessions, one per distinct environment
type Service struct {
	sessions map[string]*gosh.Service
	mux      sync.Mutex
}

// New creates a new Service instance
func New() *Service {
	return &Service{sessions: make(map[string]*gosh.Service)}
}

// Execute runs input commands
func (s *Service) Execute(ctx context.Context, input *Input, output *Output) error {
	session, err := s.session(ctx, input.Env)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if input.Directory != "" {
		if _, status, err := session.Run(ctx, "cd "+input.Directory); err != nil || status != 0 {
			return fmt.Errorf("failed to change directory %v: %v (status %d)", input.Directory, err, status)
		}
	}
	timeout := time.Duration(input.TimeoutMs) * time.Millisecond
	if timeout == 0 {
		timeout = defaultTimeout
	}
	var stdout, stderr []string
	output.Commands = make([]*Command, 0, len(input.Commands))
	for _, cmd := range input.Commands {
		command := s.run(ctx, session, cmd, timeout)
		output.Commands = append(output.Commands, command)
		output.Status = command.Status
		if command.Output != "" {
			stdout = append(stdout, command.Output)
		}
		if command.Stderr != "" {
			stderr = append(stderr, command.Stderr)
		}
		if command.Status != 0 && input.abortOnError() {
			break
		}
	}
	output.Stdout = strings.TrimSpace(strings.Join(stdout, "\n"))
	output.Stderr = strings.TrimSpace(strings.Join(stderr, "\n"))
	return nil
}

func (s *Service) run(ctx context.Context, session *gosh.Service, cmd string, timeout time.Duration) *Command {
	ret := &Command{Input: cmd}
	started := time.Now()
	stdout, status, err := session.Run(ctx, cmd, runner.WithTimeout(int(timeout.Milliseconds())))
	if elapsed := time.Since(started); elapsed > timeout && err == nil {
		err = fmt.Errorf("command %v timed out after: %s", cmd, elapsed)
	}
	ret.Status = status
	if status == 0 && err == nil {
		ret.Output = stdout
		return ret
	}
	if status == 0 {
		ret.Status = -1
	}
	if stdout == "" && err != nil {
		stdout = err.Error()
	}
	ret.Stderr = stdout
	return ret
}

func (s *Service) session(ctx context.Context, env map[string]string) (*gosh.Service, error) {
	key := sessionKey(env)
	s.mux.Lock()
	defer s.mux.Unlock()
	if session, ok := s.sessions[key]; ok {
		return session, nil
	}
	var options []runner.Option
	if len(env) > 0 {
		options = append(options, runner.WithEnvironment(env))
	}
	session, err := gosh.New(ctx, local.New(options...))
	if err != nil {
		return nil, err
	}
	s.sessions[key] = session
	return session, nil
}

func sessionKey(env map[string]string) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, k := range keys {
		builder.WriteString(k + "=" + env[k] + ";")
	}
	return builder.String()
}

// Close releases all sessions
func (s *Service) Close() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	var errs []string
	for key, session := range s.sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("failed to close session %q: %v", key, err))
		}
	}
	s.sessions = make(map[string]*gosh.Service)
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %s", strings.Join(errs, "; "))
	}
	return nil
}
