package domain

import (
	"testing"
	"time"

	"shift-tracker/internal/errors"
	"shift-tracker/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCorrection_NoBreaks(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)
	te.ID = 42
	now := at(14 * time.Hour)
	actualEnd := at(8 * time.Hour)

	c, err := te.ApplyCorrection(actualEnd, now, "forgot at 17:00")
	require.NoError(t, err)

	assert.Equal(t, int64(42), c.EntryID)
	assert.Equal(t, int64(50400), c.WrongRecordedNetSeconds)
	assert.Equal(t, int64(28800), c.CorrectedNetSeconds)
	assert.Equal(t, int64(21600), c.DifferenceSeconds())
	assert.Equal(t, FlagForgotClockOut, c.FlagStatus)

	assert.Equal(t, StateClockedOut, te.State)
	assert.True(t, te.ClockOut.Equal(actualEnd))
	assert.InDelta(t, 8.0, *te.DurationHours, 1e-9)
	assert.Equal(t, int64(50400), *te.WrongRecordedNetSeconds)
	assert.Equal(t, "forgot at 17:00", *te.CorrectionNote)
	assert.True(t, te.CorrectionAppliedAt.Equal(now))
}

func TestApplyCorrection_SubtractsCompletedBreak(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)
	require.NoError(t, te.BeginBreak(at(3*time.Hour)))
	require.NoError(t, te.EndBreak(at(3*time.Hour+30*time.Minute)))
	now := at(12 * time.Hour)

	c, err := te.ApplyCorrection(at(8*time.Hour), now, "")
	require.NoError(t, err)

	assert.Equal(t, int64(11*3600+30*60), c.WrongRecordedNetSeconds)
	assert.Equal(t, int64(7*3600+30*60), c.CorrectedNetSeconds)
	assert.Nil(t, te.CorrectionNote)
}

func TestApplyCorrection_BreakAfterActualEndIsIgnored(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)
	require.NoError(t, te.BeginBreak(at(10*time.Hour)))
	require.NoError(t, te.EndBreak(at(11*time.Hour)))

	c, err := te.ApplyCorrection(at(8*time.Hour), at(12*time.Hour), "")
	require.NoError(t, err)
	assert.Equal(t, int64(8*3600), c.CorrectedNetSeconds)
	assert.Equal(t, int64(11*3600), c.WrongRecordedNetSeconds)
}

func TestApplyCorrection_OpenBreakClippedToActualEnd(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)
	require.NoError(t, te.BeginBreak(at(7*time.Hour)))
	now := at(13 * time.Hour)

	c, err := te.ApplyCorrection(at(8*time.Hour), now, "")
	require.NoError(t, err)

	assert.Equal(t, int64(7*3600), c.WrongRecordedNetSeconds)
	assert.Equal(t, int64(7*3600), c.CorrectedNetSeconds)
	require.NotNil(t, te.BreakEnd)
	assert.True(t, te.BreakEnd.Equal(at(8*time.Hour)))
}

func TestApplyCorrection_OverCapEntryIsSuperseded(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)
	require.True(t, te.EvaluateCap(at(16*time.Hour)))

	_, err := te.ApplyCorrection(at(8*time.Hour), at(17*time.Hour), "")
	require.NoError(t, err)
	assert.Equal(t, FlagForgotClockOut, te.FlagStatus)
	assert.False(t, te.EvaluateCap(at(18*time.Hour)))
}

func TestApplyCorrection_RejectsOutOfWindowEnd(t *testing.T) {
	now := at(10 * time.Hour)
	for name, actualEnd := range map[string]time.Time{
		"before clock-in": at(-time.Minute),
		"in the future":   now.Add(time.Second),
	} {
		t.Run(name, func(t *testing.T) {
			te := NewTimeEntry(1, nil, t0, 0)
			before := te.Clone()

			_, err := te.ApplyCorrection(actualEnd, now, "")
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			_, ok := validation.AsValidationError(err)
			assert.True(t, ok)
			assert.Equal(t, before, te)
		})
	}
}

func TestApplyCorrection_SnapshotIsWriteOnce(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)
	_, err := te.ApplyCorrection(at(8*time.Hour), at(14*time.Hour), "")
	require.NoError(t, err)
	snapshot := te.Clone()

	_, err = te.ApplyCorrection(at(7*time.Hour), at(15*time.Hour), "second try")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeIllegalTransition))
	assert.Equal(t, snapshot, te)
}

func TestApplyCorrection_ClosedEntryRejected(t *testing.T) {
	te := NewTimeEntry(1, nil, t0, 0)
	require.NoError(t, te.Close(at(8*time.Hour)))

	_, err := te.ApplyCorrection(at(7*time.Hour), at(9*time.Hour), "")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeIllegalTransition))
	assert.Nil(t, te.WrongRecordedNetSeconds)
}

func TestApplyCorrection_OnlyLatestBreakIsSubtracted(t *testing.T) {
	// Arrange
	te := NewTimeEntry(1, nil, t0, 0)
	require.NoError(t, te.BeginBreak(at(2*time.Hour)))
	require.NoError(t, te.EndBreak(at(3*time.Hour)))
	require.NoError(t, te.BeginBreak(at(5*time.Hour)))
	require.NoError(t, te.EndBreak(at(6*time.Hour)))

	// Act
	c, err := te.ApplyCorrection(at(8*time.Hour), at(12*time.Hour), "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(10*3600), c.WrongRecordedNetSeconds)
	// the earlier 10:00-11:00 break is not on the entry, so it counts as work
	assert.Equal(t, int64(7*3600), c.CorrectedNetSeconds)
	assert.Equal(t, int64(7*3600), te.WorkAccumSeconds)
}

func TestApplyCorrection_ResolvedEntryBecomesForgotClockOut(t *testing.T) {
	// Arrange
	te := NewTimeEntry(1, nil, t0, 0)
	require.True(t, te.EvaluateCap(at(17*time.Hour)))
	require.NoError(t, te.Resolve("approved"))

	// Act
	c, err := te.ApplyCorrection(at(8*time.Hour), at(18*time.Hour), "left at five")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, FlagForgotClockOut, c.FlagStatus)
	assert.Equal(t, FlagForgotClockOut, te.FlagStatus)
	require.NotNil(t, te.OverCapAt)
	assert.True(t, te.OverCapAt.Equal(at(17*time.Hour)))
	assert.Contains(t, te.ReviewNotes, "approved")
}
