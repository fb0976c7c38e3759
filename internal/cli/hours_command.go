package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"shift-tracker/internal/errors"
	"shift-tracker/internal/services"
)

// HoursCommand reports net hours for the acting user
type HoursCommand struct {
	app    *App
	format string
}

// NewHoursCommand creates a new hours command handler; format is table or csv
func NewHoursCommand(app *App, format string) *HoursCommand {
	if format == "" {
		format = "table"
	}
	return &HoursCommand{app: app, format: format}
}

// Execute runs the hours command; the optional arg is a time shorthand
func (c *HoursCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.NewInvalidInputError("command", "hours", "usage: shift hours [time] [--format table|csv]")
	}
	if c.format != "table" && c.format != "csv" {
		return errors.NewInvalidInputError("format", c.format, "unsupported format")
	}
	userID, err := c.app.requireUser()
	if err != nil {
		return err
	}

	shorthand := "1w"
	if len(args) == 1 {
		shorthand = args[0]
	}
	window, err := c.app.businessAPI.ParseTimeRange(ctx, shorthand)
	if err != nil {
		return c.app.errors.Handle("parse time range", err)
	}

	report, err := c.app.businessAPI.NetHours(ctx, userID, *window)
	if err != nil {
		return c.app.errors.Handle("report hours", err)
	}

	if c.format == "csv" {
		return c.outputCSV(report)
	}
	return c.outputTable(report)
}

func (c *HoursCommand) outputTable(report *services.NetHoursReport) error {
	if len(report.Lines) == 0 {
		c.app.printf("No entries since %s\n", c.app.formatTime(report.From))
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	printRow(w, "ENTRY", "CLOCK IN", "CLOCK OUT", "NET", "FLAG")
	for _, line := range report.Lines {
		clockOut := c.app.formatOptionalTime(line.ClockOut)
		if line.Open {
			clockOut = "open"
		}
		printRow(w,
			strconv.FormatInt(line.EntryID, 10),
			c.app.formatTime(line.ClockIn),
			clockOut,
			services.FormatSeconds(line.NetSeconds),
			string(line.FlagStatus),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	c.app.printf("Total: %s (%.2fh)\n", report.TotalDuration, report.TotalHours)
	return nil
}

// outputCSV writes one row per entry with net hours to two decimals
func (c *HoursCommand) outputCSV(report *services.NetHoursReport) error {
	writer := csv.NewWriter(c.app.out)

	header := []string{"Entry ID", "Clock In", "Clock Out", "Net Hours", "Flag"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, line := range report.Lines {
		var clockOut string
		if line.ClockOut != nil {
			clockOut = line.ClockOut.Format(time.RFC3339)
		}
		row := []string{
			strconv.FormatInt(line.EntryID, 10),
			line.ClockIn.Format(time.RFC3339),
			clockOut,
			fmt.Sprintf("%.2f", line.NetHours),
			string(line.FlagStatus),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
