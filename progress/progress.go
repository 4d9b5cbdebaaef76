package progress

import (
	"sync"
	"time"

	"github.com/viant/procpool/internal/clock"
)

// Delta represents an incremental counter change. Fields are signed.
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Running   int
	Pending   int
}

// Progress keeps aggregated job counters. It is safe for concurrent use.
type Progress struct {
	StartedAt time.Time

	TotalJobs     int
	CompletedJobs int
	FailedJobs    int
	RunningJobs   int
	PendingJobs   int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the delta and calls the change callback, outside the lock,
// with a copy of the updated counters
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.TotalJobs += d.Total
	p.CompletedJobs += d.Completed
	p.FailedJobs += d.Failed
	p.RunningJobs += d.Running
	p.PendingJobs += d.Pending
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy for read-only inspection
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

func (p *Progress) copy() Progress {
	return Progress{
		StartedAt:     p.StartedAt,
		TotalJobs:     p.TotalJobs,
		CompletedJobs: p.CompletedJobs,
		FailedJobs:    p.FailedJobs,
		RunningJobs:   p.RunningJobs,
		PendingJobs:   p.PendingJobs,
	}
}

// OnChange registers the callback invoked after every Update; nil disables it
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

// New creates a tracker
func New() *Progress {
	return &Progress{StartedAt: clock.Now()}
}
