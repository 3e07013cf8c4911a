package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenbun-app/kenbundata/internal/fields"
)

func TestDeterministicClock_StartsAtEpoch(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, int64(0), clock.Calls())
	assert.Equal(t, DefaultEpoch, clock.Now())
	assert.Equal(t, int64(1), clock.Calls())
}

func TestDeterministicClock_AdvancesByStep(t *testing.T) {
	clock := NewDeterministicClockAt(fields.TimestampFromMicros(1000), 2*time.Millisecond)

	assert.Equal(t, int64(1000), clock.Now().Micros())
	assert.Equal(t, int64(3000), clock.Now().Micros())
	assert.Equal(t, int64(5000), clock.Now().Micros())
}

func TestDeterministicClock_Reset(t *testing.T) {
	clock := NewDeterministicClock()

	clock.Now()
	clock.Now()
	clock.Now()
	assert.Equal(t, int64(3), clock.Calls())

	clock.Reset()
	assert.Equal(t, int64(0), clock.Calls())
	assert.Equal(t, DefaultEpoch, clock.Now())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock()
	const numGoroutines = 50
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make([][]fields.Timestamp, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		results[i] = make([]fields.Timestamp, callsPerGoroutine)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				results[idx][j] = clock.Now()
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, rs := range results {
		for _, ts := range rs {
			require.False(t, seen[ts.Micros()], "duplicate reading %v", ts)
			seen[ts.Micros()] = true
		}
	}
	assert.Len(t, seen, numGoroutines*callsPerGoroutine)
}

func TestDeterministicClock_Deterministic(t *testing.T) {
	clock1 := NewDeterministicClock()
	clock2 := NewDeterministicClock()

	for i := 0; i < 100; i++ {
		assert.Equal(t, clock1.Now(), clock2.Now())
	}
}

func TestIDSequence(t *testing.T) {
	seq := NewIDSequence()

	first := seq.Next()
	second := seq.Next()
	assert.Equal(t, "00000000000000000000000000000001", first.Hex())
	assert.Equal(t, "00000000000000000000000000000002", second.Hex())
	assert.Equal(t, "AAAAAAAAAAAAAAAAAAAAAQ", first.String())
	assert.Less(t, first.String(), second.String())
}
