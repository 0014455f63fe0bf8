package timing

import (
	"log/slog"
	"time"
)

const (
	// sleeping is coarse, the remainder below this is spun
	spinThreshold = time.Millisecond
	// how far behind schedule a frame may fall before the schedule restarts
	maxLag = 5 * time.Millisecond
)

// AdaptiveLimiter keeps an absolute frame schedule, so sleep jitter on one
// frame is absorbed by the next instead of accumulating. When the host falls
// too far behind the schedule is restarted rather than caught up.
type AdaptiveLimiter struct {
	period   time.Duration
	deadline time.Time
	now      func() time.Time

	frames  int64
	dropped int64
	since   time.Time
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	a := &AdaptiveLimiter{
		period: FrameDuration(),
		now:    time.Now,
	}
	a.Reset()
	return a
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	wait := a.deadline.Sub(a.now())

	switch {
	case wait > 0:
		if wait > 2*spinThreshold {
			time.Sleep(wait - spinThreshold)
		}
		for a.now().Before(a.deadline) {
			// spin
		}
	case wait < -maxLag:
		a.deadline = a.now()
		a.dropped++
	}

	a.deadline = a.deadline.Add(a.period)
	a.frames++

	if a.frames%TargetFPS == 0 {
		elapsed := a.now().Sub(a.since)
		slog.Debug("Frame pacing",
			"fps", float64(a.frames)/elapsed.Seconds(),
			"late_frames", a.dropped)
	}
}

// Reset starts a new schedule with the next frame due immediately.
func (a *AdaptiveLimiter) Reset() {
	now := a.now()
	a.deadline = now
	a.since = now
	a.frames = 0
	a.dropped = 0
}
