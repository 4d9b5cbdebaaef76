package procpool

import (
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/viant/procpool/model/types"
	"github.com/viant/procpool/progress"
	"github.com/viant/procpool/service/meta"
	"github.com/viant/procpool/tracing"
	"github.com/viant/x"
	"go.uber.org/zap"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises a Service
type Option func(s *Service)

// WithConfig sets the pool configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithExtensionServices registers additional task services
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = append(s.extensionServices, services...)
	}
}

// WithExtensionTypes registers additional data types
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = append(s.extensionTypes, types...)
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics exports coordinator metrics to the registerer
func WithMetrics(reg prom.Registerer) Option {
	return func(s *Service) {
		s.registerer = reg
	}
}

// WithProgress sets the job progress tracker
func WithProgress(p *progress.Progress) Option {
	return func(s *Service) {
		s.progress = p
	}
}

// WithMetaService sets the service used to load bootstrap configuration
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithTracing configures OpenTelemetry tracing writing spans to outputFile,
// or to standard error when outputFile is empty
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing with the supplied exporter
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
