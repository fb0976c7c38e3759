package domain

import (
	"strings"
	"time"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/errors"
	"shift-tracker/internal/validation"
)

// Correction is the outcome of a forgot-to-clock-out correction in seconds.
type Correction struct {
	EntryID                 int64
	WrongRecordedNetSeconds int64
	CorrectedNetSeconds     int64
	FlagStatus              FlagStatus
	AppliedAt               time.Time
}

// DifferenceSeconds is how much the uncorrected figure overstated the shift.
func (c Correction) DifferenceSeconds() int64 {
	return c.WrongRecordedNetSeconds - c.CorrectedNetSeconds
}

// ApplyCorrection closes an open entry at actualEnd instead of now.
//
// The net seconds the entry would report at now are frozen into
// WrongRecordedNetSeconds before anything else is computed. The corrected
// total is clockIn..actualEnd minus the most recent break clipped to
// actualEnd. The entry is only modified when every check passes.
func (te *TimeEntry) ApplyCorrection(actualEnd, now time.Time, note string) (Correction, error) {
	if !te.State.IsOpen() || !te.IsOpen() {
		return Correction{}, errors.NewIllegalTransitionError("correct clock-out", string(te.State)).
			WithContext("entry_id", te.ID)
	}
	if te.WrongRecordedNetSeconds != nil {
		return Correction{}, errors.NewIllegalTransitionError("correct clock-out", "an already corrected entry").
			WithContext("entry_id", te.ID)
	}

	if err := validation.NewEntryValidator().ValidateCorrectionTime(te.ClockIn, actualEnd, now); err != nil {
		return Correction{}, errors.NewValidationError("invalid clock-out correction", err)
	}

	// Frozen figure: what the entry reports at now.
	scratch := te.Clone()
	if scratch.State == StateWorking {
		scratch.settle(now)
	}
	wrong := scratch.WorkAccumSeconds

	// Only the most recent break is known, so only it is subtracted.
	total := clock.ElapsedSeconds(te.ClockIn, actualEnd)
	breakOpen := te.State == StateOnBreak
	if te.BreakStart != nil {
		breakEnd := actualEnd
		if te.BreakEnd != nil {
			breakEnd = clock.Earliest(*te.BreakEnd, actualEnd)
		}
		total -= clock.ClipInterval(*te.BreakStart, breakEnd, actualEnd)
	}
	if total < 0 {
		total = 0
	}

	out := actualEnd
	hours := float64(total) / 3600
	applied := now
	te.ClockOut = &out
	te.DurationHours = &hours
	te.State = StateClockedOut
	te.WorkAccumSeconds = total
	te.LastStateChangeAt = actualEnd
	if breakOpen {
		end := actualEnd
		te.BreakEnd = &end
	}
	te.FlagStatus = FlagForgotClockOut
	te.WrongRecordedNetSeconds = &wrong
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		te.CorrectionNote = &trimmed
	}
	te.CorrectionAppliedAt = &applied

	return Correction{
		EntryID:                 te.ID,
		WrongRecordedNetSeconds: wrong,
		CorrectedNetSeconds:     total,
		FlagStatus:              te.FlagStatus,
		AppliedAt:               applied,
	}, nil
}
