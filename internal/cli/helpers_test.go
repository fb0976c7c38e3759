package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"shift-tracker/internal/api"
	"shift-tracker/internal/clock"
	"shift-tracker/internal/config"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/notify"
	"shift-tracker/internal/repository/sqlite"
	"shift-tracker/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type cliEnv struct {
	api     api.BusinessAPI
	clock   *clock.Manual
	out     *bytes.Buffer
	worker  *domain.User
	manager *domain.User
}

// setupCLI wires the real services over an in-memory database with a
// store-backed inbox so inbox commands see what the sweep emits
func setupCLI(t *testing.T) *cliEnv {
	t.Helper()

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	env := &cliEnv{
		clock: clock.NewManual(monday),
		out:   &bytes.Buffer{},
	}
	container := services.NewServiceContainer(services.Dependencies{
		Repo:   repo,
		Clock:  env.clock,
		Sink:   notify.NewStoreSink(repo, env.clock),
		Logger: zerolog.Nop(),
	})
	env.api = api.NewBusinessAPI(container, env.clock)

	ctx := context.Background()
	env.worker, err = env.api.CreateUser(ctx, "Ada", domain.RoleWorker)
	require.NoError(t, err)
	env.manager, err = env.api.CreateUser(ctx, "Mia", domain.RoleManager)
	require.NoError(t, err)
	return env
}

// app returns a fresh App acting as userID and resets captured output
func (e *cliEnv) app(userID int64) *App {
	e.out.Reset()
	return NewAppWithConfig(e.api, config.NewConfig(), e.out).
		WithUser(userID).
		WithClock(e.clock).
		WithLocation(time.UTC)
}
