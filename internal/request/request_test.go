package request

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	t.Parallel()

	var tr Tracker
	assert.Equal(t, Idle, tr.State())

	assert.NoError(t, tr.Begin())
	assert.True(t, tr.InFlight())
	assert.ErrorIs(t, tr.Begin(), ErrInFlight)

	tr.Finish(nil)
	assert.Equal(t, Succeeded, tr.State())
	assert.NoError(t, tr.Err())

	assert.NoError(t, tr.Begin())
	boom := errors.New("boom")
	tr.Finish(boom)
	assert.Equal(t, Failed, tr.State())
	assert.ErrorIs(t, tr.Err(), boom)

	assert.NoError(t, tr.Begin(), "a failed action can be retried")
	assert.NoError(t, tr.Err())

	tr.Reset()
	assert.Equal(t, Idle, tr.State())
}

func TestTrackerSingleFlight(t *testing.T) {
	t.Parallel()

	var tr Tracker
	var started atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.Begin() == nil {
				started.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), started.Load())
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "in-flight", InFlight.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
}
