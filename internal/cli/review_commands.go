package cli

import (
	"context"
	"strconv"
	"text/tabwriter"

	"shift-tracker/internal/errors"
)

// ResolveCommand records a manager review of an over-cap entry
type ResolveCommand struct {
	app  *App
	note string
}

// NewResolveCommand creates a new resolve command handler
func NewResolveCommand(app *App, note string) *ResolveCommand {
	return &ResolveCommand{app: app, note: note}
}

// Execute runs the resolve command; args hold the entry id
func (c *ResolveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "resolve", "usage: shift resolve <entry id> [--note text]")
	}
	entryID, err := parseID("entry id", args[0])
	if err != nil {
		return err
	}

	entry, err := c.app.businessAPI.ResolveFlaggedEntry(ctx, entryID, c.note)
	if err != nil {
		return c.app.errors.Handle("resolve entry", err)
	}

	c.app.printf("Entry %d marked %s\n", entry.ID, entry.FlagStatus)
	return nil
}

// FlaggedCommand lists entries awaiting review
type FlaggedCommand struct {
	app *App
}

// NewFlaggedCommand creates a new flagged command handler
func NewFlaggedCommand(app *App) *FlaggedCommand {
	return &FlaggedCommand{app: app}
}

// Execute runs the flagged command
func (c *FlaggedCommand) Execute(ctx context.Context, args []string) error {
	entries, err := c.app.businessAPI.ListFlaggedEntries(ctx)
	if err != nil {
		return c.app.errors.Handle("list flagged entries", err)
	}
	if len(entries) == 0 {
		c.app.printf("No entries awaiting review\n")
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	defer w.Flush()
	printRow(w, "ENTRY", "USER", "CLOCK IN", "STATE", "OVER CAP AT")
	for _, e := range entries {
		printRow(w,
			strconv.FormatInt(e.ID, 10),
			strconv.FormatInt(e.UserID, 10),
			c.app.formatTime(e.ClockIn),
			string(e.State),
			c.app.formatOptionalTime(e.OverCapAt),
		)
	}
	return nil
}

// SweepCommand runs one pass of the cap evaluator
type SweepCommand struct {
	app *App
}

// NewSweepCommand creates a new sweep command handler
func NewSweepCommand(app *App) *SweepCommand {
	return &SweepCommand{app: app}
}

// Execute runs the sweep command
func (c *SweepCommand) Execute(ctx context.Context, args []string) error {
	result, err := c.app.businessAPI.SweepOverCap(ctx)
	if err != nil {
		return c.app.errors.Handle("sweep open entries", err)
	}

	c.app.printf("Checked %d open entries, flagged %d\n", result.Processed, result.Flagged)
	for _, e := range result.Errors {
		c.app.printf("  entry %d: %s failed: %s\n", e.EntryID, e.Stage, e.Message)
	}
	return nil
}

func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError(field, raw, "must be a positive integer")
	}
	return id, nil
}
