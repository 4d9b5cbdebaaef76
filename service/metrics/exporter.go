package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/viant/procpool/service/coordinator"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "procpool"

// Options controls collector configuration
type Options struct {
	DurationBuckets []float64
}

// Exporter adapts coordinator events to Prometheus collectors
type Exporter struct {
	jobsDispatched  *prom.CounterVec
	jobsFinished    *prom.CounterVec
	jobDuration     *prom.HistogramVec
	processFailures *prom.CounterVec
	hints           prom.Counter
	unknownMessages prom.Counter
	pendingJobs     prom.Gauge
	workers         prom.Gauge
}

var _ coordinator.Observer = (*Exporter)(nil)

// New creates and registers collectors; an already registered collector is reused
func New(namespace string, reg prom.Registerer, opts Options) (*Exporter, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}
	ret := &Exporter{
		jobsDispatched: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_dispatched_total",
			Help:      "Total number of jobs granted to a worker.",
		}, []string{"handler"}),
		jobsFinished: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_finished_total",
			Help:      "Total number of jobs a worker finished.",
		}, []string{"handler"}),
		jobDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Time from dispatch to finish in seconds.",
			Buckets:   buckets,
		}, []string{"handler"}),
		processFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "process_failures_total",
			Help:      "Total number of reported worker exceptions and deaths.",
		}, []string{"index"}),
		hints: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "hints_total",
			Help:      "Total number of hints received from workers.",
		}),
		unknownMessages: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_messages_total",
			Help:      "Total number of unframed worker outputs.",
		}),
		pendingJobs: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_jobs",
			Help:      "Current number of jobs waiting for a free worker.",
		}),
		workers: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Current number of workers.",
		}),
	}
	var err error
	if ret.jobsDispatched, err = registerCollector(reg, ret.jobsDispatched); err != nil {
		return nil, err
	}
	if ret.jobsFinished, err = registerCollector(reg, ret.jobsFinished); err != nil {
		return nil, err
	}
	if ret.jobDuration, err = registerCollector(reg, ret.jobDuration); err != nil {
		return nil, err
	}
	if ret.processFailures, err = registerCollector(reg, ret.processFailures); err != nil {
		return nil, err
	}
	if ret.hints, err = registerCollector(reg, ret.hints); err != nil {
		return nil, err
	}
	if ret.unknownMessages, err = registerCollector(reg, ret.unknownMessages); err != nil {
		return nil, err
	}
	if ret.pendingJobs, err = registerCollector(reg, ret.pendingJobs); err != nil {
		return nil, err
	}
	if ret.workers, err = registerCollector(reg, ret.workers); err != nil {
		return nil, err
	}
	return ret, nil
}

// Dispatched records a job granted to a worker
func (e *Exporter) Dispatched(handler string) {
	if e == nil {
		return
	}
	e.jobsDispatched.WithLabelValues(normalizeLabel(handler)).Inc()
}

// Finished records a finished job and its duration
func (e *Exporter) Finished(handler string, elapsed time.Duration) {
	if e == nil {
		return
	}
	handler = normalizeLabel(handler)
	e.jobsFinished.WithLabelValues(handler).Inc()
	e.jobDuration.WithLabelValues(handler).Observe(elapsed.Seconds())
}

// ProcessFailed records a worker exception or death
func (e *Exporter) ProcessFailed(index int) {
	if e == nil {
		return
	}
	e.processFailures.WithLabelValues(strconv.Itoa(index)).Inc()
}

// Hint records a received hint
func (e *Exporter) Hint() {
	if e == nil {
		return
	}
	e.hints.Inc()
}

// Unknown records unframed worker output
func (e *Exporter) Unknown() {
	if e == nil {
		return
	}
	e.unknownMessages.Inc()
}

// Pending records the pending queue length
func (e *Exporter) Pending(count int) {
	if e == nil {
		return
	}
	e.pendingJobs.Set(float64(count))
}

// Workers records the pool size
func (e *Exporter) Workers(count int) {
	if e == nil {
		return
	}
	e.workers.Set(float64(count))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}
	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}
	return collector, err
}
