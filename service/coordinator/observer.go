package coordinator

import "time"

// Observer receives coordinator events, typically to export metrics
type Observer interface {
	Dispatched(handler string)
	Finished(handler string, elapsed time.Duration)
	ProcessFailed(index int)
	Hint()
	Unknown()
	Pending(count int)
	Workers(count int)
}

type nopObserver struct{}

func (nopObserver) Dispatched(string)              {}
func (nopObserver) Finished(string, time.Duration) {}
func (nopObserver) ProcessFailed(int)              {}
func (nopObserver) Hint()                          {}
func (nopObserver) Unknown()                       {}
func (nopObserver) Pending(int)                    {}
func (nopObserver) Workers(int)                    {}
