package guru

import "time"

// Cascade policy. Non-fatal errors add their severity weight to a counter
// while they keep arriving inside the timeout window; a quiet period resets it.
const (
	CascadeThreshold      = 25
	CascadeTimeout        = 30 * time.Second
	CascadeWeightCritical = 20
	CascadeWeightError    = 5
	CascadeWeightWarn     = 1
)

// Cascade counts weighted non-fatal errors and reports when they pile up
// fast enough to be promoted to a fatal halt.
type Cascade struct {
	count  int
	timer  time.Time
	failed bool
	now    func() time.Time
}

// NewCascade starts the window at the current time. A nil clock uses time.Now.
func NewCascade(now func() time.Time) *Cascade {
	if now == nil {
		now = time.Now
	}
	return &Cascade{timer: now(), now: now}
}

// Add records one error and returns true on the call that trips the cascade.
// After a reset the triggering error's weight is discarded. Weightless
// severities leave both the counter and the timer alone.
func (c *Cascade) Add(sev Severity) bool {
	if c.failed || sev.weight() == 0 {
		return false
	}
	now := c.now()
	if now.Sub(c.timer) <= CascadeTimeout {
		c.count += sev.weight()
		if c.count > CascadeThreshold {
			c.failed = true
			return true
		}
		return false
	}
	c.timer = now
	c.count = 0
	return false
}

// Count returns the current weighted total.
func (c *Cascade) Count() int { return c.count }

// Failed reports whether the cascade has tripped.
func (c *Cascade) Failed() bool { return c.failed }
