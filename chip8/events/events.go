package events

import (
	"time"

	"github.com/pkg/errors"
)

// EventType represents the different kinds of ticks the scheduler emits
type EventType int

const (
	CPUCycle EventType = iota
	TimerTick
)

func (t EventType) String() string {
	switch t {
	case CPUCycle:
		return "cpu"
	case TimerTick:
		return "timer"
	default:
		return "unknown"
	}
}

// Event is a tick due at an absolute point of virtual time.
type Event struct {
	Time time.Duration
	Type EventType
}

// ErrInvalidFrequency is returned for a rate that is not positive or too fast
// to have a non-zero period on the nanosecond clock.
var ErrInvalidFrequency = errors.New("frequency must be positive")

// Scheduler interleaves CPU cycles and timer ticks on a virtual clock. It has
// no goroutines and never sleeps: callers advance time explicitly, so two runs
// with the same inputs produce the same event order.
type Scheduler struct {
	now time.Duration

	cpuPeriod   time.Duration
	timerPeriod time.Duration

	nextCPU   time.Duration
	nextTimer time.Duration
}

// NewScheduler returns a scheduler at virtual time zero. The first CPU cycle is
// due one CPU period in, the first timer tick one timer period in.
func NewScheduler(cpuHz, timerHz int) (*Scheduler, error) {
	cpuPeriod, err := periodOf(cpuHz)
	if err != nil {
		return nil, errors.Wrap(err, "cpu")
	}
	timerPeriod, err := periodOf(timerHz)
	if err != nil {
		return nil, errors.Wrap(err, "timer")
	}

	s := &Scheduler{
		cpuPeriod:   cpuPeriod,
		timerPeriod: timerPeriod,
	}
	s.Reset()
	return s, nil
}

// periodOf converts a rate to the virtual time between two ticks.
func periodOf(hz int) (time.Duration, error) {
	if hz <= 0 {
		return 0, errors.Wrapf(ErrInvalidFrequency, "%d Hz", hz)
	}
	period := time.Second / time.Duration(hz)
	if period <= 0 {
		return 0, errors.Wrapf(ErrInvalidFrequency, "%d Hz is above 1 GHz", hz)
	}
	return period, nil
}

// Reset moves the clock back to zero and re-arms both deadlines.
func (s *Scheduler) Reset() {
	s.now = 0
	s.nextCPU = s.cpuPeriod
	s.nextTimer = s.timerPeriod
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Next returns the earliest pending event without consuming it. The CPU wins
// ties.
func (s *Scheduler) Next() Event {
	if s.nextCPU <= s.nextTimer {
		return Event{Time: s.nextCPU, Type: CPUCycle}
	}
	return Event{Time: s.nextTimer, Type: TimerTick}
}

// Pop consumes the earliest event and moves the clock to it.
func (s *Scheduler) Pop() Event {
	evt := s.Next()
	s.now = evt.Time
	switch evt.Type {
	case CPUCycle:
		s.nextCPU += s.cpuPeriod
	case TimerTick:
		s.nextTimer += s.timerPeriod
	}
	return evt
}

// Advance dispatches, in order, every event due within the next d of virtual
// time. If handle fails the clock stays at the failing event and the error is
// returned; remaining events are not dispatched.
func (s *Scheduler) Advance(d time.Duration, handle func(Event) error) error {
	target := s.now + d
	for s.Next().Time <= target {
		evt := s.Pop()
		if err := handle(evt); err != nil {
			return err
		}
	}
	s.now = target
	return nil
}
