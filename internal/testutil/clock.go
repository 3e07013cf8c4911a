package testutil

import (
	"sync"
	"time"

	"github.com/kenbun-app/kenbundata/internal/fields"
)

// DefaultEpoch is the first instant a DeterministicClock reports:
// 2023-01-22T14:29:24.479Z.
var DefaultEpoch = fields.TimestampFromMicros(1674397764479000)

// DefaultStep separates consecutive readings. One millisecond keeps
// consecutive writes distinct in cursor values, which have millisecond
// resolution.
const DefaultStep = time.Millisecond

// DeterministicClock is a thread-safe fake clock for tests. Each call to Now
// advances it by a fixed step, so readings are strictly increasing.
//
// It satisfies storage.Clock.
type DeterministicClock struct {
	mu    sync.Mutex
	epoch fields.Timestamp
	step  time.Duration
	seq   int64
}

// NewDeterministicClock creates a clock whose first reading is DefaultEpoch.
func NewDeterministicClock() *DeterministicClock {
	return NewDeterministicClockAt(DefaultEpoch, DefaultStep)
}

// NewDeterministicClockAt creates a clock whose first reading is epoch and
// that advances by step.
func NewDeterministicClockAt(epoch fields.Timestamp, step time.Duration) *DeterministicClock {
	return &DeterministicClock{epoch: epoch, step: step}
}

// Now returns the next reading.
func (c *DeterministicClock) Now() fields.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := c.epoch.Add(time.Duration(c.seq) * c.step)
	c.seq++
	return ts
}

// Calls returns how many readings have been taken.
func (c *DeterministicClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock so the next reading is the epoch again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
