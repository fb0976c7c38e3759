package cli

import (
	"context"
	"strconv"
	"strings"
	"text/tabwriter"

	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
)

// UserAddCommand registers a user
type UserAddCommand struct {
	app  *App
	role string
}

// NewUserAddCommand creates a new user add handler
func NewUserAddCommand(app *App, role string) *UserAddCommand {
	return &UserAddCommand{app: app, role: role}
}

// Execute runs the user add command; args form the name
func (c *UserAddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "user add", "usage: shift user add <name> [--role worker|manager|admin]")
	}

	user, err := c.app.businessAPI.CreateUser(ctx, strings.Join(args, " "), domain.Role(c.role))
	if err != nil {
		return c.app.errors.Handle("add user", err)
	}

	c.app.printf("Created %s %q with id %d\n", user.Role, user.Name, user.ID)
	return nil
}

// UserListCommand lists users
type UserListCommand struct {
	app   *App
	roles []string
}

// NewUserListCommand creates a new user list handler
func NewUserListCommand(app *App, roles []string) *UserListCommand {
	return &UserListCommand{app: app, roles: roles}
}

// Execute runs the user list command
func (c *UserListCommand) Execute(ctx context.Context, args []string) error {
	roles := make([]domain.Role, len(c.roles))
	for i, r := range c.roles {
		roles[i] = domain.Role(r)
	}

	users, err := c.app.businessAPI.ListUsers(ctx, roles...)
	if err != nil {
		return c.app.errors.Handle("list users", err)
	}
	if len(users) == 0 {
		c.app.printf("No users\n")
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	defer w.Flush()
	printRow(w, "ID", "NAME", "ROLE")
	for _, u := range users {
		printRow(w, strconv.FormatInt(u.ID, 10), u.Name, string(u.Role))
	}
	return nil
}
