package gameclock

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const halfLength = 20 // minutes

func TestReset(t *testing.T) {
	st := Reset(halfLength)
	assert.False(t, st.Running)
	assert.Equal(t, 1200, st.Remaining)
	assert.True(t, st.Anchor.IsZero())
}

func TestStartAnchorsInThePast(t *testing.T) {
	fake := clockwork.NewFakeClock()
	st := Reset(halfLength)
	st = Adjust(st, -300, halfLength, fake.Now()) // 5 minutes already played

	st, err := Start(st, halfLength, fake.Now())
	require.NoError(t, err)
	assert.True(t, st.Running)
	// The anchor sits 300 seconds back so elapsed math is continuous.
	assert.Equal(t, fake.Now().Add(-300*time.Second), st.Anchor)
	assert.Equal(t, 900, st.RemainingAt(halfLength, fake.Now()))

	fake.Advance(10 * time.Second)
	assert.Equal(t, 890, st.RemainingAt(halfLength, fake.Now()))
}

func TestStartExpiredRejected(t *testing.T) {
	fake := clockwork.NewFakeClock()
	st := State{Remaining: 0}
	_, err := Start(st, halfLength, fake.Now())
	assert.ErrorIs(t, err, ErrExpired)
}

func TestTickRecomputesFromAnchorWithoutDrift(t *testing.T) {
	fake := clockwork.NewFakeClock()
	st, err := Start(Reset(halfLength), halfLength, fake.Now())
	require.NoError(t, err)

	// Many jittery sub-second ticks must not accumulate error: remaining is
	// always a function of the anchor, never of the previous tick.
	for i := 0; i < 600; i++ {
		fake.Advance(100 * time.Millisecond)
		st = Tick(st, halfLength, fake.Now())
	}
	assert.Equal(t, 1140, st.Remaining) // 60 wall seconds elapsed
}

func TestTickAtZeroIsTerminal(t *testing.T) {
	fake := clockwork.NewFakeClock()
	st, err := Start(Reset(halfLength), halfLength, fake.Now())
	require.NoError(t, err)

	fake.Advance(1201 * time.Second)
	st = Tick(st, halfLength, fake.Now())
	assert.False(t, st.Running)
	assert.Equal(t, 0, st.Remaining)
	assert.True(t, st.Anchor.IsZero())

	_, err = Start(st, halfLength, fake.Now())
	assert.ErrorIs(t, err, ErrExpired)
}

func TestPause(t *testing.T) {
	fake := clockwork.NewFakeClock()
	st, err := Start(Reset(halfLength), halfLength, fake.Now())
	require.NoError(t, err)

	fake.Advance(45 * time.Second)
	st, err = Pause(st, halfLength, fake.Now())
	require.NoError(t, err)
	assert.False(t, st.Running)
	assert.Equal(t, 1155, st.Remaining)
	assert.True(t, st.Anchor.IsZero())

	_, err = Pause(st, halfLength, fake.Now())
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestAdjustWhileRunningRebasesAnchor(t *testing.T) {
	fake := clockwork.NewFakeClock()
	st, err := Start(Reset(halfLength), halfLength, fake.Now())
	require.NoError(t, err)

	fake.Advance(600 * time.Second)
	require.Equal(t, 600, st.RemainingAt(halfLength, fake.Now()))

	st = Adjust(st, 30, halfLength, fake.Now())
	assert.True(t, st.Running)
	assert.Equal(t, 630, st.RemainingAt(halfLength, fake.Now()))

	// One wall-clock second later the countdown continues from the adjusted
	// value: 629, not 600 and not drifted.
	fake.Advance(1 * time.Second)
	assert.Equal(t, 629, st.RemainingAt(halfLength, fake.Now()))
}

func TestAdjustWhilePaused(t *testing.T) {
	fake := clockwork.NewFakeClock()
	st := Reset(halfLength)
	st = Adjust(st, -100, halfLength, fake.Now())
	assert.Equal(t, 1100, st.Remaining)

	// Clamped at zero, never negative.
	st = Adjust(st, -5000, halfLength, fake.Now())
	assert.Equal(t, 0, st.Remaining)
	assert.False(t, st.Running)
}

func TestAdjustToZeroStopsTheClock(t *testing.T) {
	fake := clockwork.NewFakeClock()
	st, err := Start(Reset(halfLength), halfLength, fake.Now())
	require.NoError(t, err)
	st = Adjust(st, -1200, halfLength, fake.Now())
	assert.False(t, st.Running)
	assert.Equal(t, 0, st.Remaining)
}

func TestDeriveRunning(t *testing.T) {
	fake := clockwork.NewFakeClock()
	start := fake.Now().Add(-90 * time.Second)
	st := Derive(halfLength, true, &start, nil, fake.Now())
	assert.True(t, st.Running)
	assert.Equal(t, 1110, st.RemainingAt(halfLength, fake.Now()))
}

func TestDeriveExpiredWhileClosed(t *testing.T) {
	// The app was closed with the clock running and reopened after the
	// period would have run out.
	fake := clockwork.NewFakeClock()
	start := fake.Now().Add(-2 * time.Hour)
	st := Derive(halfLength, true, &start, nil, fake.Now())
	assert.False(t, st.Running)
	assert.Equal(t, 0, st.Remaining)
}

func TestDerivePaused(t *testing.T) {
	elapsed := 480
	st := Derive(halfLength, false, nil, &elapsed, time.Now())
	assert.False(t, st.Running)
	assert.Equal(t, 720, st.Remaining)
}

func TestDeriveFresh(t *testing.T) {
	st := Derive(halfLength, false, nil, nil, time.Now())
	assert.Equal(t, 1200, st.Remaining)
}

func TestFieldsRoundTrip(t *testing.T) {
	fake := clockwork.NewFakeClock()

	running, startTime, elapsed := Reset(halfLength).Fields(halfLength)
	assert.False(t, running)
	assert.Nil(t, startTime)
	require.NotNil(t, elapsed)
	assert.Equal(t, 0, *elapsed)

	st, err := Start(Reset(halfLength), halfLength, fake.Now())
	require.NoError(t, err)
	fake.Advance(30 * time.Second)
	running, startTime, elapsed = st.Fields(halfLength)
	assert.True(t, running)
	require.NotNil(t, startTime)
	assert.Nil(t, elapsed)

	// Persist and re-derive: same countdown position.
	again := Derive(halfLength, running, startTime, elapsed, fake.Now())
	assert.Equal(t, st.RemainingAt(halfLength, fake.Now()), again.RemainingAt(halfLength, fake.Now()))
}

func TestSyncPinsRunningClock(t *testing.T) {
	fake := clockwork.NewFakeClock()
	st, err := Start(Reset(halfLength), halfLength, fake.Now())
	require.NoError(t, err)
	fake.Advance(37 * time.Second)

	st = Sync(st, 1150, halfLength, fake.Now())
	assert.True(t, st.Running)
	assert.Equal(t, 1150, st.RemainingAt(halfLength, fake.Now()))
	fake.Advance(2 * time.Second)
	assert.Equal(t, 1148, st.RemainingAt(halfLength, fake.Now()))
}
