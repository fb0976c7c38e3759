package cli

import (
	"context"

	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
	"shift-tracker/internal/services"
)

// ClockInCommand handles the clock-in command
type ClockInCommand struct {
	app   *App
	jobID *int64
}

// NewClockInCommand creates a clock-in handler; jobID may be nil
func NewClockInCommand(app *App, jobID *int64) *ClockInCommand {
	return &ClockInCommand{app: app, jobID: jobID}
}

// Execute runs the clock-in command
func (c *ClockInCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errors.NewInvalidInputError("command", "clock-in", "usage: shift clock-in [--job id]")
	}
	userID, err := c.app.requireUser()
	if err != nil {
		return err
	}

	result, err := c.app.businessAPI.ClockIn(ctx, userID, c.jobID)
	if err != nil {
		return c.app.errors.Handle("clock in", err)
	}

	if closed := result.Closed; closed != nil {
		c.app.printf("Closed entry %d left open since %s (%s net)\n",
			closed.ID, c.app.formatTime(closed.ClockIn), services.FormatSeconds(closed.WorkAccumSeconds))
	}
	c.app.printf("Clocked in at %s (entry %d)\n", c.app.formatTime(result.Entry.ClockIn), result.Entry.ID)
	return nil
}

// BreakCommand starts or ends a break
type BreakCommand struct {
	app   *App
	start bool
}

// NewBreakCommand creates the break handler
func NewBreakCommand(app *App) *BreakCommand {
	return &BreakCommand{app: app, start: true}
}

// NewResumeCommand creates the handler that ends a break
func NewResumeCommand(app *App) *BreakCommand {
	return &BreakCommand{app: app, start: false}
}

// Execute runs the break or resume command
func (c *BreakCommand) Execute(ctx context.Context, args []string) error {
	name, operation := "resume", "end break"
	if c.start {
		name, operation = "break", "start break"
	}
	if len(args) != 0 {
		return errors.NewInvalidInputError("command", name, "usage: shift "+name)
	}
	userID, err := c.app.requireUser()
	if err != nil {
		return err
	}

	var entry *domain.TimeEntry
	if c.start {
		entry, err = c.app.businessAPI.StartBreak(ctx, userID)
	} else {
		entry, err = c.app.businessAPI.EndBreak(ctx, userID)
	}
	if err != nil {
		return c.app.errors.Handle(operation, err)
	}

	worked := services.FormatSeconds(entry.WorkAccumSeconds)
	if c.start {
		c.app.printf("Break started at %s (%s worked so far)\n", c.app.formatTime(entry.LastStateChangeAt), worked)
	} else {
		c.app.printf("Back to work at %s (%s worked so far)\n", c.app.formatTime(entry.LastStateChangeAt), worked)
	}
	printFlagged(c.app, entry)
	return nil
}

// ClockOutCommand handles the clock-out command
type ClockOutCommand struct {
	app *App
}

// NewClockOutCommand creates a new clock-out command handler
func NewClockOutCommand(app *App) *ClockOutCommand {
	return &ClockOutCommand{app: app}
}

// Execute runs the clock-out command
func (c *ClockOutCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errors.NewInvalidInputError("command", "clock-out", "usage: shift clock-out")
	}
	userID, err := c.app.requireUser()
	if err != nil {
		return err
	}

	entry, err := c.app.businessAPI.ClockOut(ctx, userID)
	if err != nil {
		return c.app.errors.Handle("clock out", err)
	}

	c.app.printf("Clocked out at %s: %s net\n", c.app.formatOptionalTime(entry.ClockOut), services.FormatSeconds(entry.WorkAccumSeconds))
	printFlagged(c.app, entry)
	return nil
}

// printFlagged tells the user when a transition left their entry over cap
func printFlagged(app *App, entry *domain.TimeEntry) {
	if entry.FlagStatus == domain.FlagOverCap {
		app.printf("Entry %d is over its %s cap and is flagged for review\n",
			entry.ID, services.FormatSeconds(entry.CapSeconds()))
	}
}
