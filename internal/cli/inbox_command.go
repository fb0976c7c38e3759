package cli

import (
	"context"

	"shift-tracker/internal/errors"
)

// InboxCommand lists the acting user's notifications
type InboxCommand struct {
	app        *App
	unreadOnly bool
}

// NewInboxCommand creates a new inbox handler
func NewInboxCommand(app *App, unreadOnly bool) *InboxCommand {
	return &InboxCommand{app: app, unreadOnly: unreadOnly}
}

// Execute runs the inbox command
func (c *InboxCommand) Execute(ctx context.Context, args []string) error {
	userID, err := c.app.requireUser()
	if err != nil {
		return err
	}

	list, err := c.app.businessAPI.ListNotifications(ctx, userID, c.unreadOnly)
	if err != nil {
		return c.app.errors.Handle("list notifications", err)
	}
	if len(list) == 0 {
		c.app.printf("Inbox empty\n")
		return nil
	}

	for _, n := range list {
		marker := "*"
		if n.ReadAt != nil {
			marker = " "
		}
		c.app.printf("%s %s [%s] %s\n", marker, c.app.formatTime(n.CreatedAt), n.Severity, n.Title)
		c.app.printf("  %s\n", n.Body)
		if n.Link != "" {
			c.app.printf("  %s\n", n.Link)
		}
		c.app.printf("  id: %s\n", n.ID)
	}
	return nil
}

// ReadCommand marks notifications read
type ReadCommand struct {
	app *App
}

// NewReadCommand creates a new read handler
func NewReadCommand(app *App) *ReadCommand {
	return &ReadCommand{app: app}
}

// Execute marks every notification id in args as read
func (c *ReadCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "inbox read", "usage: shift inbox read <id>...")
	}
	for _, id := range args {
		if err := c.app.businessAPI.MarkNotificationRead(ctx, id); err != nil {
			return c.app.errors.Handle("mark notification read", err)
		}
	}
	c.app.printf("Marked %d notification(s) read\n", len(args))
	return nil
}
