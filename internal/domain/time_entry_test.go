package domain

import (
	"testing"
	"time"

	"shift-tracker/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return t0.Add(d) }

func TestNewTimeEntry(t *testing.T) {
	job := int64(12)
	te := NewTimeEntry(5, &job, t0, 0)

	assert.Equal(t, StateWorking, te.State)
	assert.Equal(t, FlagNone, te.FlagStatus)
	assert.Equal(t, DefaultCapMinutes, te.CapMinutes)
	assert.Equal(t, int64(0), te.WorkAccumSeconds)
	assert.True(t, te.ClockIn.Equal(t0))
	assert.True(t, te.LastStateChangeAt.Equal(t0))
	assert.True(t, te.IsOpen())

	custom := NewTimeEntry(5, nil, t0, 600)
	assert.Equal(t, 600, custom.CapMinutes)
}

func TestNetWorkSeconds_LiveOnlyWhileWorking(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)

	assert.Equal(t, int64(3600), te.NetWorkSeconds(at(time.Hour)))
	// querying never mutates
	assert.Equal(t, int64(0), te.WorkAccumSeconds)

	require.NoError(t, te.BeginBreak(at(2*time.Hour)))
	assert.Equal(t, int64(7200), te.NetWorkSeconds(at(5*time.Hour)))

	// clock skew never produces negative live time
	require.NoError(t, te.EndBreak(at(3*time.Hour)))
	assert.Equal(t, int64(7200), te.NetWorkSeconds(at(2*time.Hour)))
}

func TestTransitions(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)

	require.NoError(t, te.BeginBreak(at(2*time.Hour)))
	assert.Equal(t, StateOnBreak, te.State)
	assert.Equal(t, int64(7200), te.WorkAccumSeconds)
	require.NotNil(t, te.BreakStart)
	assert.Nil(t, te.BreakEnd)

	require.NoError(t, te.EndBreak(at(2*time.Hour+30*time.Minute)))
	assert.Equal(t, StateWorking, te.State)
	assert.Equal(t, int64(7200), te.WorkAccumSeconds, "break time is never settled")
	require.NotNil(t, te.BreakEnd)

	require.NoError(t, te.Close(at(8*time.Hour+30*time.Minute)))
	assert.Equal(t, StateClockedOut, te.State)
	assert.Equal(t, int64(8*3600), te.WorkAccumSeconds)
	require.NotNil(t, te.DurationHours)
	assert.InDelta(t, 8.0, *te.DurationHours, 1e-9)
	assert.False(t, te.IsOpen())
}

func TestClose_DuringBreakClosesBreak(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)
	require.NoError(t, te.BeginBreak(at(4*time.Hour)))

	require.NoError(t, te.Close(at(6*time.Hour)))
	assert.Equal(t, int64(4*3600), te.WorkAccumSeconds)
	require.NotNil(t, te.BreakEnd)
	assert.True(t, te.BreakEnd.Equal(at(6*time.Hour)))
	assert.True(t, te.ClockOut.Equal(at(6*time.Hour)))
}

func TestIllegalTransitionsLeaveEntryUntouched(t *testing.T) {
	tests := []struct {
		name  string
		setup func(te *TimeEntry)
		op    func(te *TimeEntry) error
	}{
		{
			name:  "end break while working",
			setup: func(te *TimeEntry) {},
			op:    func(te *TimeEntry) error { return te.EndBreak(at(time.Hour)) },
		},
		{
			name:  "begin break while on break",
			setup: func(te *TimeEntry) { _ = te.BeginBreak(at(time.Hour)) },
			op:    func(te *TimeEntry) error { return te.BeginBreak(at(2 * time.Hour)) },
		},
		{
			name:  "begin break after clock-out",
			setup: func(te *TimeEntry) { _ = te.Close(at(time.Hour)) },
			op:    func(te *TimeEntry) error { return te.BeginBreak(at(2 * time.Hour)) },
		},
		{
			name:  "clock out twice",
			setup: func(te *TimeEntry) { _ = te.Close(at(time.Hour)) },
			op:    func(te *TimeEntry) error { return te.Close(at(2 * time.Hour)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := NewTimeEntry(1, nil, t0, 0)
			tt.setup(&te)
			before := te.Clone()

			err := tt.op(&te)
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeIllegalTransition))
			assert.Equal(t, before, te)
		})
	}
}

// Net work equals the sum of WORKING intervals regardless of how the shift
// is split by breaks.
func TestNetWorkSeconds_SumOfWorkingIntervals(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)
	offsets := []time.Duration{
		90 * time.Minute, // break
		105 * time.Minute,
		4 * time.Hour, // break
		4*time.Hour + 45*time.Minute,
		6 * time.Hour, // break
		6*time.Hour + 5*time.Minute,
	}
	var want int64
	last := time.Duration(0)
	for i, off := range offsets {
		if i%2 == 0 {
			want += int64((off - last) / time.Second)
			require.NoError(t, te.BeginBreak(at(off)))
		} else {
			require.NoError(t, te.EndBreak(at(off)))
		}
		last = off
	}
	end := 9 * time.Hour
	want += int64((end - last) / time.Second)

	assert.Equal(t, want, te.NetWorkSeconds(at(end)))
	require.NoError(t, te.Close(at(end)))
	assert.Equal(t, want, te.WorkAccumSeconds)
}

// Settlement never double counts: net work is the same whether or not
// intermediate queries happened.
func TestNetWorkSeconds_MonotoneAndIdempotent(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)
	var prev int64
	for m := 0; m <= 600; m += 37 {
		now := at(time.Duration(m) * time.Minute)
		got := te.NetWorkSeconds(now)
		assert.GreaterOrEqual(t, got, prev)
		assert.Equal(t, got, te.NetWorkSeconds(now))
		prev = got
	}
}

func TestClone_IsDeep(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)
	require.NoError(t, te.BeginBreak(at(time.Hour)))

	c := te.Clone()
	*c.BreakStart = at(3 * time.Hour)
	assert.True(t, te.BreakStart.Equal(at(time.Hour)))
}
