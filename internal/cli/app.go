package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"shift-tracker/internal/api"
	"shift-tracker/internal/clock"
	"shift-tracker/internal/config"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// App carries what command handlers share: the business API, the acting
// user and where output goes.
type App struct {
	businessAPI api.BusinessAPI
	config      *config.Config
	clock       clock.Clock
	out         io.Writer
	errors      *ErrorHandler
	userID      int64
	location    *time.Location
}

// NewAppWithConfig creates a CLI application with explicit configuration and output
func NewAppWithConfig(businessAPI api.BusinessAPI, cfg *config.Config, out io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	return &App{
		businessAPI: businessAPI,
		config:      cfg,
		clock:       clock.System{},
		out:         out,
		errors:      NewErrorHandler(),
		location:    time.Local,
	}
}

// WithUser sets the acting user for shift commands
func (a *App) WithUser(userID int64) *App {
	a.userID = userID
	return a
}

// WithClock replaces the clock used to interpret relative times
func (a *App) WithClock(clk clock.Clock) *App {
	a.clock = clk
	return a
}

// WithLocation sets the zone used to read and print wall-clock times
func (a *App) WithLocation(loc *time.Location) *App {
	if loc != nil {
		a.location = loc
	}
	return a
}

// requireUser returns the acting user or an input error naming the flag
func (a *App) requireUser() (int64, error) {
	if a.userID <= 0 {
		return 0, errors.NewInvalidInputError("user", fmt.Sprint(a.userID), "set --user or SHIFT_USER to a user id")
	}
	return a.userID, nil
}

// warningBand returns the configured near-cap band
func (a *App) warningBand() time.Duration {
	if a.config != nil && a.config.Shift.WarningBand > 0 {
		return a.config.Shift.WarningBand
	}
	return domain.DefaultWarningBand
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// parseClockTime accepts an RFC3339 timestamp, "2006-01-02 15:04" or a bare
// "15:04". Forms without an offset are read in loc; a bare time refers to
// the current day in loc.
func parseClockTime(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", value, loc); err == nil {
		now = now.In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, errors.NewInvalidInputError("time", value, `use RFC3339, "2006-01-02 15:04" or "15:04"`)
}

// formatTime renders a timestamp for terminal output in the app's zone
func (a *App) formatTime(t time.Time) string {
	return t.In(a.location).Format("2006-01-02 15:04:05")
}

// formatOptionalTime renders a nullable timestamp, or "-" when unset
func (a *App) formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return a.formatTime(*t)
}
