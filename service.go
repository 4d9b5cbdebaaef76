package procpool

import (
	"context"
	"fmt"
	"io"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/viant/procpool/extension"
	"github.com/viant/procpool/model/types"
	"github.com/viant/procpool/progress"
	"github.com/viant/procpool/service/action/debug"
	"github.com/viant/procpool/service/action/exec"
	"github.com/viant/procpool/service/action/nop"
	"github.com/viant/procpool/service/action/printer"
	"github.com/viant/procpool/service/action/storage"
	"github.com/viant/procpool/service/coordinator"
	"github.com/viant/procpool/service/meta"
	"github.com/viant/procpool/service/metrics"
	"github.com/viant/procpool/service/worker"
	"github.com/viant/procpool/tracing"
	"github.com/viant/x"
	"go.uber.org/zap"
)

// Service wires a task registry, a coordinator and the worker entry point
// from one configuration. The same binary serves both roles.
type Service struct {
	config            *Config
	actions           *extension.Actions
	extensionServices []types.Service
	extensionTypes    []*x.Type
	coordinator       *coordinator.Coordinator
	metaService       *meta.Service
	exporter          *metrics.Exporter
	registerer        prom.Registerer
	progress          *progress.Progress
	logger            *zap.Logger
	execService       *exec.Service
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.metaService == nil {
		s.metaService = meta.New(nil, "")
	}
	if s.progress == nil {
		s.progress = progress.New()
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.Service, s.config.Tracing.Version, s.config.Tracing.Output); err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
	}
	s.execService = exec.New()
	s.actions = extension.NewActions(nop.New(), printer.New(), debug.New(), storage.New(), s.execService)
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}
	s.actions.RegisterTypes(s.extensionTypes...)

	coordinatorOptions := []coordinator.Option{
		coordinator.WithActions(s.actions),
		coordinator.WithHandleConfig(s.config.HandleConfig()),
		coordinator.WithLogger(s.logger),
		coordinator.WithProgress(s.progress),
	}
	if s.registerer == nil && s.config.Metrics.Enabled {
		s.registerer = prom.DefaultRegisterer
	}
	if s.registerer != nil {
		exporter, err := metrics.New(s.config.Metrics.Namespace, s.registerer, metrics.Options{})
		if err != nil {
			return fmt.Errorf("failed to create metrics exporter: %w", err)
		}
		s.exporter = exporter
		coordinatorOptions = append(coordinatorOptions, coordinator.WithMetrics(exporter))
	}
	s.coordinator = coordinator.New(coordinatorOptions...)
	return nil
}

// Start spawns the configured number of workers
func (s *Service) Start(ctx context.Context) error {
	return s.coordinator.Spawn(ctx, s.config.Kind, s.config.Workers)
}

// Dispatch submits a job; see coordinator.Dispatch for accepted types
func (s *Service) Dispatch(ctx context.Context, job interface{}) error {
	return s.coordinator.Dispatch(ctx, job)
}

// Wait drives the pool until every job finished or the configured wait timeout elapsed
func (s *Service) Wait(ctx context.Context) error {
	return s.coordinator.Wait(ctx, s.config.WaitTimeout())
}

// Close kills every worker and releases shell sessions
func (s *Service) Close() error {
	err := s.coordinator.Close()
	if cErr := s.execService.Close(); cErr != nil && err == nil {
		err = cErr
	}
	return err
}

// ServeWorker runs the worker side of the protocol and returns the process exit code
func (s *Service) ServeWorker(ctx context.Context, in io.Reader, out io.Writer) int {
	defer s.execService.Close()
	return worker.Serve(ctx, in, out,
		worker.WithActions(s.actions),
		worker.WithLogger(s.logger),
		worker.WithTickRate(s.config.TickRate()),
		worker.WithBootstrap(s.bootstrap))
}

// bootstrap loads and validates the configuration named in the startup record
func (s *Service) bootstrap(ctx context.Context, path string) error {
	config, err := loadConfig(ctx, s.metaService, path)
	if err != nil {
		return err
	}
	s.logger.Debug("worker bootstrapped", zap.String("path", path), zap.Int("workers", config.Workers))
	return nil
}

// Coordinator returns the coordinator
func (s *Service) Coordinator() *coordinator.Coordinator {
	return s.coordinator
}

// Actions returns the task registry
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// Config returns the configuration
func (s *Service) Config() *Config {
	return s.config
}

// Progress returns the job progress tracker
func (s *Service) Progress() *progress.Progress {
	return s.progress
}

// RegisterExtensionServices registers task services; workers must register the same ones
func (s *Service) RegisterExtensionServices(services ...types.Service) {
	for i := range services {
		s.actions.Register(services[i])
	}
}

// New creates a service
func New(options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig(), logger: zap.NewNop()}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
