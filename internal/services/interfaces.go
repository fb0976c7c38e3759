package services

import (
	"context"
	"fmt"
	"time"

	"shift-tracker/internal/domain"
)

// Policy carries the configurable cap settings.
type Policy struct {
	DefaultCapMinutes int
	WarningBand       time.Duration
}

// DefaultPolicy returns the 16h cap with a 30 minute warning band.
func DefaultPolicy() Policy {
	return Policy{
		DefaultCapMinutes: domain.DefaultCapMinutes,
		WarningBand:       domain.DefaultWarningBand,
	}
}

// ClockInResult is the new entry and, when one was open, the entry that was
// closed to make room for it.
type ClockInResult struct {
	Entry  *domain.TimeEntry `json:"entry"`
	Closed *domain.TimeEntry `json:"closed,omitempty"`
}

// CurrentSession is the live view of a user's open entry.
type CurrentSession struct {
	Entry       *domain.TimeEntry `json:"entry"`
	NetSeconds  int64             `json:"net_seconds"`
	NetDuration string            `json:"net_duration"`
	NearCap     bool              `json:"near_cap"`
	AsOf        time.Time         `json:"as_of"`
}

// Sweep stages reported in SweepError.
const (
	SweepStagePersist = "persist"
	SweepStageNotify  = "notify"
)

// SweepError records a per-entry failure that did not stop the sweep.
type SweepError struct {
	EntryID int64  `json:"entry_id"`
	Stage   string `json:"stage"`
	Err     error  `json:"-"`
	Message string `json:"message"`
}

func (e SweepError) Error() string {
	return fmt.Sprintf("entry %d: %s: %v", e.EntryID, e.Stage, e.Err)
}

func (e SweepError) Unwrap() error {
	return e.Err
}

// SweepResult summarizes one pass of the cap evaluator.
type SweepResult struct {
	Processed  int          `json:"processed"`
	Flagged    int          `json:"flagged"`
	FlaggedIDs []int64      `json:"flagged_ids"`
	Errors     []SweepError `json:"errors"`
	At         time.Time    `json:"at"`
}

// CorrectionResult reports a forgot-to-clock-out correction in hours rounded
// to two decimals.
type CorrectionResult struct {
	Entry              *domain.TimeEntry `json:"entry"`
	WrongRecordedHours float64           `json:"wrong_recorded_hours"`
	CorrectedHours     float64           `json:"corrected_hours"`
	DifferenceHours    float64           `json:"difference_hours"`
	FlagStatus         domain.FlagStatus `json:"flag_status"`
}

// ReportLine is one entry's contribution to a NetHoursReport.
type ReportLine struct {
	EntryID    int64             `json:"entry_id"`
	ClockIn    time.Time         `json:"clock_in"`
	ClockOut   *time.Time        `json:"clock_out,omitempty"`
	Open       bool              `json:"open"`
	NetSeconds int64             `json:"net_seconds"`
	NetHours   float64           `json:"net_hours"`
	FlagStatus domain.FlagStatus `json:"flag_status"`
}

// NetHoursReport sums net work for a user over entries clocked in within [From, To).
type NetHoursReport struct {
	UserID        int64        `json:"user_id"`
	From          time.Time    `json:"from"`
	To            time.Time    `json:"to"`
	Lines         []ReportLine `json:"lines"`
	TotalSeconds  int64        `json:"total_seconds"`
	TotalHours    float64      `json:"total_hours"`
	TotalDuration string       `json:"total_duration"`
}

// ShiftService handles clock-in, breaks and clock-out for a user's open entry
type ShiftService interface {
	ClockIn(ctx context.Context, userID int64, jobID *int64) (*ClockInResult, error)
	BeginBreak(ctx context.Context, userID int64) (*domain.TimeEntry, error)
	EndBreak(ctx context.Context, userID int64) (*domain.TimeEntry, error)
	ClockOut(ctx context.Context, userID int64) (*domain.TimeEntry, error)
	Current(ctx context.Context, userID int64) (*CurrentSession, error)
	GetEntry(ctx context.Context, entryID int64) (*domain.TimeEntry, error)
}

// CapService flags entries over their cap and records manager review
type CapService interface {
	SweepOpenEntries(ctx context.Context) (*SweepResult, error)
	ResolveFlaggedEntry(ctx context.Context, entryID int64, note string) (*domain.TimeEntry, error)
	ListFlagged(ctx context.Context) ([]*domain.TimeEntry, error)
}

// CorrectionService closes a forgotten entry at the time the user actually stopped
type CorrectionService interface {
	ForgotClockOut(ctx context.Context, userID int64, actualEnd time.Time, note string) (*CorrectionResult, error)
}

// ReportingService aggregates net work time
type ReportingService interface {
	NetHours(ctx context.Context, userID int64, from, to time.Time) (*NetHoursReport, error)
}

// UserService manages workers and reviewers
type UserService interface {
	CreateUser(ctx context.Context, name string, role domain.Role) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context, roles ...domain.Role) ([]*domain.User, error)
}

// NotificationService exposes a recipient's inbox
type NotificationService interface {
	List(ctx context.Context, recipientID int64, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	ShiftService        ShiftService
	CapService          CapService
	CorrectionService   CorrectionService
	ReportingService    ReportingService
	UserService         UserService
	NotificationService NotificationService
}
