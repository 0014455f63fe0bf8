package timing

import "time"

// TickerLimiter paces frames with a time.Ticker. Ticks missed while the
// caller was busy are dropped by the ticker, so a slow frame never causes a
// burst of catch-up frames.
type TickerLimiter struct {
	ticker *time.Ticker
	period time.Duration
}

// NewTickerLimiter starts a ticker at TargetFPS. Call Stop when done.
func NewTickerLimiter() *TickerLimiter {
	period := FrameDuration()
	return &TickerLimiter{
		ticker: time.NewTicker(period),
		period: period,
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

// Reset restarts the period from now, e.g. after the emulator was paused.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
