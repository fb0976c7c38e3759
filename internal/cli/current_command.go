package cli

import (
	"context"

	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
	"shift-tracker/internal/services"
)

// CurrentCommand handles the current command
type CurrentCommand struct {
	app *App
}

// NewCurrentCommand creates a new current command handler
func NewCurrentCommand(app *App) *CurrentCommand {
	return &CurrentCommand{app: app}
}

// Execute runs the current command
func (c *CurrentCommand) Execute(ctx context.Context, args []string) error {
	userID, err := c.app.requireUser()
	if err != nil {
		return err
	}

	session, err := c.app.businessAPI.GetCurrentSession(ctx, userID)
	if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		c.app.printf("Not clocked in\n")
		return nil
	}
	if err != nil {
		return c.app.errors.Handle("get current shift", err)
	}

	entry := session.Entry
	c.app.printf("Entry %d: %s since %s, %s net\n",
		entry.ID, entry.State, c.app.formatTime(entry.ClockIn), session.NetDuration)
	if entry.State == domain.StateOnBreak && entry.BreakStart != nil {
		c.app.printf("On break since %s\n", c.app.formatTime(*entry.BreakStart))
	}
	if entry.FlagStatus == domain.FlagOverCap {
		printFlagged(c.app, entry)
	} else if session.NearCap {
		c.app.printf("Warning: within %s of the %s cap\n",
			services.FormatDuration(c.app.warningBand()), services.FormatSeconds(entry.CapSeconds()))
	}
	return nil
}
