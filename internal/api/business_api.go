package api

import (
	"context"
	"time"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/services"
)

// TimeRange is a resolved reporting window, half-open at End.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BusinessAPI defines the business-logic-only interface for shift tracking operations
type BusinessAPI interface {
	// ========== Shift Workflows ==========

	// ClockIn opens a new entry for the user, closing any entry left open
	ClockIn(ctx context.Context, userID int64, jobID *int64) (*services.ClockInResult, error)

	// StartBreak moves the user's open entry from WORKING to ON_BREAK
	StartBreak(ctx context.Context, userID int64) (*domain.TimeEntry, error)

	// EndBreak moves the user's open entry from ON_BREAK back to WORKING
	EndBreak(ctx context.Context, userID int64) (*domain.TimeEntry, error)

	// ClockOut closes the user's open entry
	ClockOut(ctx context.Context, userID int64) (*domain.TimeEntry, error)

	// ForgotClockOut closes the user's open entry at the time they actually stopped
	ForgotClockOut(ctx context.Context, userID int64, actualEnd time.Time, note string) (*services.CorrectionResult, error)

	// ========== Review ==========

	// SweepOverCap runs one pass of the cap evaluator over all open entries
	SweepOverCap(ctx context.Context) (*services.SweepResult, error)

	// ResolveFlaggedEntry records a manager review of an over-cap entry
	ResolveFlaggedEntry(ctx context.Context, entryID int64, note string) (*domain.TimeEntry, error)

	// ListFlaggedEntries returns entries awaiting review
	ListFlaggedEntries(ctx context.Context) ([]*domain.TimeEntry, error)

	// ========== Query Operations ==========

	// GetCurrentSession returns the live view of the user's open entry
	GetCurrentSession(ctx context.Context, userID int64) (*services.CurrentSession, error)

	// GetEntry returns a single entry by ID
	GetEntry(ctx context.Context, entryID int64) (*domain.TimeEntry, error)

	// ParseTimeRange converts time shorthand ("30m", "2h", "1d") to a window ending now
	ParseTimeRange(ctx context.Context, timeStr string) (*TimeRange, error)

	// NetHours reports net work for entries the user clocked in within the range
	NetHours(ctx context.Context, userID int64, timeRange TimeRange) (*services.NetHoursReport, error)

	// ========== Users ==========

	CreateUser(ctx context.Context, name string, role domain.Role) (*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	ListUsers(ctx context.Context, roles ...domain.Role) ([]*domain.User, error)

	// ========== Inbox ==========

	ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	services *services.ServiceContainer
	clock    clock.Clock
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(container *services.ServiceContainer, clk clock.Clock) BusinessAPI {
	if clk == nil {
		clk = clock.System{}
	}
	return &businessAPIImpl{
		services: container,
		clock:    clk,
	}
}

// ========== Shift Workflows ==========

func (b *businessAPIImpl) ClockIn(ctx context.Context, userID int64, jobID *int64) (*services.ClockInResult, error) {
	return b.services.ShiftService.ClockIn(ctx, userID, jobID)
}

func (b *businessAPIImpl) StartBreak(ctx context.Context, userID int64) (*domain.TimeEntry, error) {
	return b.services.ShiftService.BeginBreak(ctx, userID)
}

func (b *businessAPIImpl) EndBreak(ctx context.Context, userID int64) (*domain.TimeEntry, error) {
	return b.services.ShiftService.EndBreak(ctx, userID)
}

func (b *businessAPIImpl) ClockOut(ctx context.Context, userID int64) (*domain.TimeEntry, error) {
	return b.services.ShiftService.ClockOut(ctx, userID)
}

func (b *businessAPIImpl) ForgotClockOut(ctx context.Context, userID int64, actualEnd time.Time, note string) (*services.CorrectionResult, error) {
	return b.services.CorrectionService.ForgotClockOut(ctx, userID, actualEnd, note)
}

// ========== Review ==========

func (b *businessAPIImpl) SweepOverCap(ctx context.Context) (*services.SweepResult, error) {
	return b.services.CapService.SweepOpenEntries(ctx)
}

func (b *businessAPIImpl) ResolveFlaggedEntry(ctx context.Context, entryID int64, note string) (*domain.TimeEntry, error) {
	return b.services.CapService.ResolveFlaggedEntry(ctx, entryID, note)
}

func (b *businessAPIImpl) ListFlaggedEntries(ctx context.Context) ([]*domain.TimeEntry, error) {
	return b.services.CapService.ListFlagged(ctx)
}

// ========== Query Operations ==========

func (b *businessAPIImpl) GetCurrentSession(ctx context.Context, userID int64) (*services.CurrentSession, error) {
	return b.services.ShiftService.Current(ctx, userID)
}

func (b *businessAPIImpl) GetEntry(ctx context.Context, entryID int64) (*domain.TimeEntry, error) {
	return b.services.ShiftService.GetEntry(ctx, entryID)
}

func (b *businessAPIImpl) ParseTimeRange(ctx context.Context, timeStr string) (*TimeRange, error) {
	duration, err := ParseTimeShorthand(timeStr)
	if err != nil {
		return nil, err
	}

	// End is exclusive; step past now so an entry clocked in this second counts
	now := b.clock.Now()
	return &TimeRange{
		Start: now.Add(-duration),
		End:   now.Add(time.Second),
	}, nil
}

func (b *businessAPIImpl) NetHours(ctx context.Context, userID int64, timeRange TimeRange) (*services.NetHoursReport, error) {
	return b.services.ReportingService.NetHours(ctx, userID, timeRange.Start, timeRange.End)
}

// ========== Users ==========

func (b *businessAPIImpl) CreateUser(ctx context.Context, name string, role domain.Role) (*domain.User, error) {
	return b.services.UserService.CreateUser(ctx, name, role)
}

func (b *businessAPIImpl) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return b.services.UserService.GetUser(ctx, userID)
}

func (b *businessAPIImpl) ListUsers(ctx context.Context, roles ...domain.Role) ([]*domain.User, error) {
	return b.services.UserService.ListUsers(ctx, roles...)
}

// ========== Inbox ==========

func (b *businessAPIImpl) ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool) ([]*domain.Notification, error) {
	return b.services.NotificationService.List(ctx, recipientID, unreadOnly)
}

func (b *businessAPIImpl) MarkNotificationRead(ctx context.Context, id string) error {
	return b.services.NotificationService.MarkRead(ctx, id)
}
