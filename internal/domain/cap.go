package domain

import (
	"strings"
	"time"

	"shift-tracker/internal/errors"
)

// DefaultWarningBand is how far below the cap NearCap starts reporting true.
const DefaultWarningBand = 30 * time.Minute

// NearCap reports whether net work is within warningBand of the cap. Read-only.
func (te *TimeEntry) NearCap(now time.Time, warningBand time.Duration) bool {
	return te.NetWorkSeconds(now) >= te.CapSeconds()-int64(warningBand/time.Second)
}

// EvaluateCap flags the entry OVER_CAP the first time its net work reaches
// the cap and reports whether it did. OverCapAt records the evaluation
// instant, not the crossing instant. Entries already flagged, resolved or
// corrected are left alone.
func (te *TimeEntry) EvaluateCap(now time.Time) bool {
	switch te.FlagStatus {
	case FlagOverCap, FlagResolved, FlagForgotClockOut:
		return false
	}
	if te.NetWorkSeconds(now) < te.CapSeconds() {
		return false
	}

	te.FlagStatus = FlagOverCap
	at := now
	te.OverCapAt = &at
	return true
}

// Resolve records a manager's review of an OVER_CAP entry. Only the flag and
// the review notes change.
func (te *TimeEntry) Resolve(note string) error {
	if te.FlagStatus != FlagOverCap {
		return errors.NewIllegalTransitionError("resolve flagged entry", string(te.FlagStatus)).
			WithContext("entry_id", te.ID)
	}

	te.FlagStatus = FlagResolved
	note = strings.TrimSpace(note)
	if note != "" {
		if te.ReviewNotes != "" {
			te.ReviewNotes += "\n"
		}
		te.ReviewNotes += note
	}
	return nil
}
