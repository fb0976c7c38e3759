package cli

import (
	"context"
	"strings"

	"shift-tracker/internal/errors"
)

// ForgotCommand closes a forgotten entry at the time the user actually left
type ForgotCommand struct {
	app  *App
	note string
}

// NewForgotCommand creates a new forgot command handler
func NewForgotCommand(app *App, note string) *ForgotCommand {
	return &ForgotCommand{app: app, note: note}
}

// Execute runs the forgot command; args hold the actual end time
func (c *ForgotCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "forgot", `usage: shift forgot <end time> [--note text]`)
	}
	userID, err := c.app.requireUser()
	if err != nil {
		return err
	}

	actualEnd, err := parseClockTime(strings.Join(args, " "), c.app.clock.Now(), c.app.location)
	if err != nil {
		return c.app.errors.Handle("correct clock-out", err)
	}

	result, err := c.app.businessAPI.ForgotClockOut(ctx, userID, actualEnd, c.note)
	if err != nil {
		return c.app.errors.Handle("correct clock-out", err)
	}

	c.app.printf("Entry %d closed at %s\n", result.Entry.ID, c.app.formatOptionalTime(result.Entry.ClockOut))
	c.app.printf("Recorded:   %.2fh\n", result.WrongRecordedHours)
	c.app.printf("Corrected:  %.2fh\n", result.CorrectedHours)
	c.app.printf("Difference: %.2fh\n", result.DifferenceHours)
	return nil
}
