package services

import (
	"context"
	"fmt"
	"time"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
	"shift-tracker/internal/repository/sqlite"
	"shift-tracker/internal/validation"

	"github.com/shopspring/decimal"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	repo      sqlite.Repository
	clock     clock.Clock
	mapper    *domain.Mapper
	validator *validation.EntryValidator
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(deps Dependencies) ReportingService {
	return &reportingServiceImpl{
		repo:      deps.Repo,
		clock:     deps.Clock,
		mapper:    domain.NewMapper(),
		validator: validation.NewEntryValidatorWithConfig(deps.Config),
	}
}

// NetHours totals net work for entries the user clocked in within [from, to).
// Closed entries contribute their stored hours; an open entry contributes its
// live net work as of now.
func (r *reportingServiceImpl) NetHours(ctx context.Context, userID int64, from, to time.Time) (*NetHoursReport, error) {
	verr := validation.NewValidationError()
	verr.Merge(r.validator.ValidateID("user_id", userID))
	verr.Merge(r.validator.ValidateWindow(from, to))
	if err := verr.ErrOrNil(); err != nil {
		return nil, errors.NewValidationError("invalid report request", err)
	}
	if _, err := r.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	from, to = from.UTC(), to.UTC()
	rows, err := r.repo.SearchTimeEntries(ctx, r.mapper.SearchOptions.ToDatabase(domain.SearchOptions{
		UserID: &userID,
		From:   &from,
		To:     &to,
	}))
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	report := &NetHoursReport{UserID: userID, From: from, To: to, Lines: []ReportLine{}}
	for _, entry := range r.mapper.TimeEntry.FromDatabaseSlice(rows) {
		net := entrySeconds(entry, now)
		report.Lines = append(report.Lines, ReportLine{
			EntryID:    entry.ID,
			ClockIn:    entry.ClockIn,
			ClockOut:   entry.ClockOut,
			Open:       entry.IsOpen(),
			NetSeconds: net,
			NetHours:   SecondsToHours(net),
			FlagStatus: entry.FlagStatus,
		})
		report.TotalSeconds += net
	}
	report.TotalHours = SecondsToHours(report.TotalSeconds)
	report.TotalDuration = FormatSeconds(report.TotalSeconds)

	return report, nil
}

// entrySeconds prefers the stored duration of a closed entry so a corrected
// entry reports its corrected figure.
func entrySeconds(entry *domain.TimeEntry, now time.Time) int64 {
	if entry.IsOpen() {
		return entry.NetWorkSeconds(now)
	}
	if entry.DurationHours != nil {
		return decimal.NewFromFloat(*entry.DurationHours).Mul(decimal.NewFromInt(3600)).Round(0).IntPart()
	}
	return entry.WorkAccumSeconds
}

// SecondsToHours converts seconds to hours rounded to two decimals.
func SecondsToHours(seconds int64) float64 {
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600)).Round(2).InexactFloat64()
}

// FormatSeconds formats a number of seconds as "Xh Ym" or "Ym".
func FormatSeconds(seconds int64) string {
	return FormatDuration(time.Duration(seconds) * time.Second)
}

// FormatDuration formats a duration into human-readable string
func FormatDuration(duration time.Duration) string {
	if duration < 0 {
		return "0m"
	}

	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
