package domain

import (
	"time"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/errors"
)

// EntryState is the phase of a work session.
type EntryState string

const (
	StateWorking    EntryState = "WORKING"
	StateOnBreak    EntryState = "ON_BREAK"
	StateClockedOut EntryState = "CLOCKED_OUT"
)

// IsOpen reports whether the state belongs to an unfinished session.
func (s EntryState) IsOpen() bool {
	return s == StateWorking || s == StateOnBreak
}

// FlagStatus is the review state of an entry.
type FlagStatus string

const (
	FlagNone           FlagStatus = "NONE"
	FlagOverCap        FlagStatus = "OVER_CAP"
	FlagResolved       FlagStatus = "RESOLVED"
	FlagForgotClockOut FlagStatus = "FORGOT_CLOCK_OUT"
)

// DefaultCapMinutes is the cap applied when none is configured (16h).
const DefaultCapMinutes = 960

// TimeEntry is one work session of one user.
//
// WorkAccumSeconds holds settled net work time only. The unsettled delta
// since LastStateChangeAt counts while the entry is WORKING and is folded in
// at each transition. BreakStart/BreakEnd mirror the most recent break for
// display; accounting never reads them outside a correction.
type TimeEntry struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	JobID  *int64 `json:"job_id,omitempty"`

	ClockIn  time.Time  `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out,omitempty"`

	State             EntryState `json:"state"`
	WorkAccumSeconds  int64      `json:"work_accum_seconds"`
	LastStateChangeAt time.Time  `json:"last_state_change_at"`

	BreakStart *time.Time `json:"break_start,omitempty"`
	BreakEnd   *time.Time `json:"break_end,omitempty"`

	CapMinutes int        `json:"cap_minutes"`
	FlagStatus FlagStatus `json:"flag_status"`
	OverCapAt  *time.Time `json:"over_cap_at,omitempty"`

	// WrongRecordedNetSeconds is written once by a correction and never again.
	WrongRecordedNetSeconds *int64     `json:"wrong_recorded_net_seconds,omitempty"`
	CorrectionNote          *string    `json:"correction_note,omitempty"`
	CorrectionAppliedAt     *time.Time `json:"correction_applied_at,omitempty"`

	DurationHours *float64 `json:"duration_hours,omitempty"`
	ReviewNotes   string   `json:"review_notes"`

	Version int64 `json:"version"`
}

// NewTimeEntry starts a WORKING session at now. A non-positive capMinutes
// falls back to DefaultCapMinutes.
func NewTimeEntry(userID int64, jobID *int64, now time.Time, capMinutes int) TimeEntry {
	if capMinutes <= 0 {
		capMinutes = DefaultCapMinutes
	}
	return TimeEntry{
		UserID:            userID,
		JobID:             jobID,
		ClockIn:           now,
		State:             StateWorking,
		WorkAccumSeconds:  0,
		LastStateChangeAt: now,
		CapMinutes:        capMinutes,
		FlagStatus:        FlagNone,
	}
}

// IsOpen returns true while the entry has no clock-out.
func (te *TimeEntry) IsOpen() bool {
	return te.ClockOut == nil
}

// NetWorkSeconds is settled work plus the live delta when WORKING.
func (te *TimeEntry) NetWorkSeconds(now time.Time) int64 {
	if te.State == StateWorking {
		return te.WorkAccumSeconds + clock.ElapsedSeconds(te.LastStateChangeAt, now)
	}
	return te.WorkAccumSeconds
}

// CapSeconds is the cap threshold in seconds.
func (te *TimeEntry) CapSeconds() int64 {
	return int64(te.CapMinutes) * 60
}

// BeginBreak settles the live delta and moves the entry ON_BREAK.
func (te *TimeEntry) BeginBreak(now time.Time) error {
	if te.State != StateWorking {
		return errors.NewIllegalTransitionError("begin break", string(te.State)).
			WithContext("entry_id", te.ID)
	}

	te.settle(now)
	te.State = StateOnBreak
	te.LastStateChangeAt = now
	start := now
	te.BreakStart = &start
	te.BreakEnd = nil
	return nil
}

// EndBreak returns the entry to WORKING. Break time is never settled.
func (te *TimeEntry) EndBreak(now time.Time) error {
	if te.State != StateOnBreak {
		return errors.NewIllegalTransitionError("end break", string(te.State)).
			WithContext("entry_id", te.ID)
	}

	te.State = StateWorking
	te.LastStateChangeAt = now
	end := now
	te.BreakEnd = &end
	return nil
}

// Close clocks the entry out at now. A WORKING entry settles its live delta;
// an open break is closed and contributes nothing.
func (te *TimeEntry) Close(now time.Time) error {
	if !te.State.IsOpen() {
		return errors.NewIllegalTransitionError("clock out", string(te.State)).
			WithContext("entry_id", te.ID)
	}

	if te.State == StateWorking {
		te.settle(now)
	} else if te.BreakStart != nil && te.BreakEnd == nil {
		end := now
		te.BreakEnd = &end
	}

	out := now
	te.ClockOut = &out
	te.State = StateClockedOut
	te.LastStateChangeAt = now
	hours := float64(te.WorkAccumSeconds) / 3600
	te.DurationHours = &hours
	return nil
}

func (te *TimeEntry) settle(now time.Time) {
	te.WorkAccumSeconds += clock.ElapsedSeconds(te.LastStateChangeAt, now)
}

// Clone returns a deep copy so callers can stage changes without aliasing.
func (te TimeEntry) Clone() TimeEntry {
	c := te
	c.JobID = clonePtr(te.JobID)
	c.ClockOut = clonePtr(te.ClockOut)
	c.BreakStart = clonePtr(te.BreakStart)
	c.BreakEnd = clonePtr(te.BreakEnd)
	c.OverCapAt = clonePtr(te.OverCapAt)
	c.WrongRecordedNetSeconds = clonePtr(te.WrongRecordedNetSeconds)
	c.CorrectionNote = clonePtr(te.CorrectionNote)
	c.CorrectionAppliedAt = clonePtr(te.CorrectionAppliedAt)
	c.DurationHours = clonePtr(te.DurationHours)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
