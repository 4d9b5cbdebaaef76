package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/procpool/internal/clock"
)

func TestProgress_Update(t *testing.T) {
	p := New()
	var changes []Progress
	p.OnChange(func(snapshot Progress) {
		changes = append(changes, snapshot)
	})
	p.Update(Delta{Total: 2, Pending: 1, Running: 1})
	p.Update(Delta{Running: -1, Completed: 1})
	p.Update(Delta{Pending: -1, Running: 1})

	actual := p.Snapshot()
	assert.Equal(t, 2, actual.TotalJobs)
	assert.Equal(t, 1, actual.CompletedJobs)
	assert.Equal(t, 1, actual.RunningJobs)
	assert.Equal(t, 0, actual.PendingJobs)
	assert.Len(t, changes, 3)
	assert.Equal(t, 1, changes[0].PendingJobs)
}

func TestProgress_Nil(t *testing.T) {
	var p *Progress
	p.Update(Delta{Total: 1})
	p.OnChange(nil)
	assert.Equal(t, 0, p.Snapshot().TotalJobs)
}

func TestNew_StartedAt(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return fixed }
	defer func() { clock.NowFunc = time.Now }()
	assert.Equal(t, fixed, New().Snapshot().StartedAt)
	assert.Equal(t, time.Duration(0), clock.Since(fixed))
}
