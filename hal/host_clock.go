//go:build !tinygo

package hal

import (
	"sync"
	"sync/atomic"
	"time"
)

// HostClockConfig controls the simulated wall clock on the host.
type HostClockConfig struct {
	// Location overrides the process local zone when set.
	Location *time.Location
	// Start is the simulated instant at startup; zero means the real time.
	Start time.Time
	// Rate scales elapsed real time (1 = real time, 60 = one minute per second).
	Rate float64
	// Use24Hour is the initial clock style.
	Use24Hour bool
}

type hostClock struct {
	mu     sync.Mutex
	loc    *time.Location
	base   time.Time
	anchor time.Time
	rate   float64
	skew   time.Duration

	use24 atomic.Bool

	real func() time.Time
}

func newHostClock(cfg HostClockConfig, real func() time.Time) *hostClock {
	if real == nil {
		real = time.Now
	}
	c := &hostClock{loc: cfg.Location, rate: cfg.Rate, real: real}
	if c.rate <= 0 {
		c.rate = 1
	}
	c.anchor = real()
	c.base = cfg.Start
	if c.base.IsZero() {
		c.base = c.anchor
	}
	c.use24.Store(cfg.Use24Hour)
	return c
}

func (c *hostClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := c.real().Sub(c.anchor)
	t := c.base.Add(time.Duration(float64(elapsed)*c.rate) + c.skew)
	if c.loc != nil {
		return t.In(c.loc)
	}
	return t.Local()
}

func (c *hostClock) Use24Hour() bool { return c.use24.Load() }

func (c *hostClock) toggle24Hour() bool {
	for {
		old := c.use24.Load()
		if c.use24.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (c *hostClock) adjust(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skew += d
}

func (c *hostClock) resetSkew() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skew = 0
}
