package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectionService_FreezesEvidence(t *testing.T) {
	// Arrange: clock in 09:00, correct at 23:00 to a 17:00 finish
	h := setupHarness(t)
	ctx := context.Background()
	entry := h.clockIn(t, h.worker.ID)
	h.clock.Set(shiftStart.Add(14 * time.Hour))

	// Act
	res, err := h.services.CorrectionService.ForgotClockOut(ctx, h.worker.ID, shiftStart.Add(8*time.Hour), "left at five")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 14.0, res.WrongRecordedHours)
	assert.Equal(t, 8.0, res.CorrectedHours)
	assert.Equal(t, 6.0, res.DifferenceHours)
	assert.Equal(t, domain.FlagForgotClockOut, res.FlagStatus)

	h.clock.Advance(72 * time.Hour)
	stored := h.reload(t, entry.ID)
	require.NotNil(t, stored.WrongRecordedNetSeconds)
	assert.Equal(t, int64(50400), *stored.WrongRecordedNetSeconds)
	assert.InDelta(t, 8.0, *stored.DurationHours, 1e-9)
	assert.True(t, stored.ClockOut.Equal(shiftStart.Add(8*time.Hour)))
	assert.Equal(t, domain.FlagForgotClockOut, stored.FlagStatus)
	assert.Equal(t, "left at five", *stored.CorrectionNote)
	assert.True(t, stored.CorrectionAppliedAt.Equal(shiftStart.Add(14*time.Hour)))
	assert.Empty(t, h.openEntries(t, h.worker.ID))
}

func TestCorrectionService_NotifiesReviewersWithBothFigures(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	h.clockIn(t, h.worker.ID)
	h.clock.Set(shiftStart.Add(14 * time.Hour))

	_, err := h.services.CorrectionService.ForgotClockOut(ctx, h.worker.ID, shiftStart.Add(8*time.Hour), "")
	require.NoError(t, err)

	sent := h.recorder.For(h.manager.ID)
	require.Len(t, sent, 1)
	assert.Equal(t, "Clock-out corrected", sent[0].Title)
	assert.Contains(t, sent[0].Body, "Recorded 14.00h")
	assert.Contains(t, sent[0].Body, "corrected 8.00h")
	assert.Contains(t, sent[0].Body, "difference 6.00h")
	assert.Empty(t, h.recorder.For(h.worker.ID))
}

func TestCorrectionService_SinkFailureDoesNotFailCorrection(t *testing.T) {
	h := setupHarnessWith(t, nil, failingSink())
	ctx := context.Background()
	entry := h.clockIn(t, h.worker.ID)
	h.clock.Advance(10 * time.Hour)

	_, err := h.services.CorrectionService.ForgotClockOut(ctx, h.worker.ID, shiftStart.Add(9*time.Hour), "")
	require.NoError(t, err)
	assert.Equal(t, domain.FlagForgotClockOut, h.reload(t, entry.ID).FlagStatus)
}

func TestCorrectionService_SupersedesOverCap(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	entry := h.clockIn(t, h.worker.ID)

	h.clock.Advance(17 * time.Hour)
	_, err := h.services.CapService.SweepOpenEntries(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.FlagOverCap, h.reload(t, entry.ID).FlagStatus)

	res, err := h.services.CorrectionService.ForgotClockOut(ctx, h.worker.ID, shiftStart.Add(8*time.Hour), "")
	require.NoError(t, err)
	assert.Equal(t, domain.FlagForgotClockOut, res.FlagStatus)

	flagged, err := h.services.CapService.ListFlagged(ctx)
	require.NoError(t, err)
	assert.Empty(t, flagged)
}

func TestCorrectionService_Errors(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, h *harness)
		actualEnd time.Time
		note      string
		errType   errors.ErrorType
	}{
		{
			name:      "should reject an end before clock-in",
			setup:     func(t *testing.T, h *harness) { h.clockIn(t, h.worker.ID) },
			actualEnd: shiftStart.Add(-time.Minute),
			errType:   errors.ErrorTypeValidation,
		},
		{
			name:      "should reject an end in the future",
			setup:     func(t *testing.T, h *harness) { h.clockIn(t, h.worker.ID) },
			actualEnd: shiftStart.Add(48 * time.Hour),
			errType:   errors.ErrorTypeValidation,
		},
		{
			name:      "should reject an overlong note",
			setup:     func(t *testing.T, h *harness) { h.clockIn(t, h.worker.ID) },
			actualEnd: shiftStart.Add(time.Hour),
			note:      strings.Repeat("n", 1001),
			errType:   errors.ErrorTypeValidation,
		},
		{
			name:      "should report a missing open entry",
			setup:     func(t *testing.T, h *harness) {},
			actualEnd: shiftStart.Add(time.Hour),
			errType:   errors.ErrorTypeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupHarness(t)
			tt.setup(t, h)
			h.clock.Advance(10 * time.Hour)
			before := h.openEntries(t, h.worker.ID)

			_, err := h.services.CorrectionService.ForgotClockOut(context.Background(), h.worker.ID, tt.actualEnd, tt.note)

			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, tt.errType), "got %v", err)
			assert.Equal(t, before, h.openEntries(t, h.worker.ID))
			assert.Empty(t, h.recorder.Sent())
		})
	}
}
