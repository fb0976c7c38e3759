package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftCommands_Lifecycle(t *testing.T) {
	// Arrange
	env := setupCLI(t)
	ctx := context.Background()

	// Act & Assert
	require.NoError(t, NewClockInCommand(env.app(env.worker.ID), nil).Execute(ctx, nil))
	assert.Equal(t, "Clocked in at 2025-03-10 09:00:00 (entry 1)\n", env.out.String())

	env.clock.Advance(3 * time.Hour)
	require.NoError(t, NewBreakCommand(env.app(env.worker.ID)).Execute(ctx, nil))
	assert.Equal(t, "Break started at 2025-03-10 12:00:00 (3h 0m worked so far)\n", env.out.String())

	env.clock.Advance(30 * time.Minute)
	require.NoError(t, NewResumeCommand(env.app(env.worker.ID)).Execute(ctx, nil))
	assert.Equal(t, "Back to work at 2025-03-10 12:30:00 (3h 0m worked so far)\n", env.out.String())

	env.clock.Advance(2 * time.Hour)
	require.NoError(t, NewClockOutCommand(env.app(env.worker.ID)).Execute(ctx, nil))
	assert.Equal(t, "Clocked out at 2025-03-10 14:30:00: 5h 0m net\n", env.out.String())
}

func TestShiftCommands_Errors(t *testing.T) {
	tests := []struct {
		name        string
		userID      func(env *cliEnv) int64
		run         func(app *App) error
		errContains string
	}{
		{
			name:        "should require an acting user",
			userID:      func(*cliEnv) int64 { return 0 },
			run:         func(app *App) error { return NewClockInCommand(app, nil).Execute(context.Background(), nil) },
			errContains: "set --user or SHIFT_USER",
		},
		{
			name:        "should reject arguments to clock-in",
			userID:      func(env *cliEnv) int64 { return env.worker.ID },
			run:         func(app *App) error { return NewClockInCommand(app, nil).Execute(context.Background(), []string{"now"}) },
			errContains: "usage: shift clock-in",
		},
		{
			name:        "should report a break without an open entry",
			userID:      func(env *cliEnv) int64 { return env.worker.ID },
			run:         func(app *App) error { return NewBreakCommand(app).Execute(context.Background(), nil) },
			errContains: "failed to start break",
		},
		{
			name:        "should report clock-out without an open entry",
			userID:      func(env *cliEnv) int64 { return env.worker.ID },
			run:         func(app *App) error { return NewClockOutCommand(app).Execute(context.Background(), nil) },
			errContains: "failed to clock out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			env := setupCLI(t)

			// Act
			err := tt.run(env.app(tt.userID(env)))

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestResumeCommand_WhileWorking(t *testing.T) {
	// Arrange
	env := setupCLI(t)
	ctx := context.Background()
	require.NoError(t, NewClockInCommand(env.app(env.worker.ID), nil).Execute(ctx, nil))

	// Act
	err := NewResumeCommand(env.app(env.worker.ID)).Execute(ctx, nil)

	// Assert
	require.Error(t, err)
	assert.Equal(t, "failed to end break: cannot end break from WORKING", err.Error())
}

func TestClockInCommand_ClosesEntryLeftOpen(t *testing.T) {
	// Arrange
	env := setupCLI(t)
	ctx := context.Background()
	jobID := int64(7)
	require.NoError(t, NewClockInCommand(env.app(env.worker.ID), &jobID).Execute(ctx, nil))
	env.clock.Advance(4 * time.Hour)

	// Act
	err := NewClockInCommand(env.app(env.worker.ID), nil).Execute(ctx, nil)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, env.out.String(), "Closed entry 1 left open since 2025-03-10 09:00:00 (4h 0m net)")
	assert.Contains(t, env.out.String(), "Clocked in at 2025-03-10 13:00:00 (entry 2)")
	assert.NotContains(t, env.out.String(), "flagged")
}

func TestClockInCommand_BlockedByFlaggedEntry(t *testing.T) {
	// Arrange
	env := setupCLI(t)
	ctx := context.Background()
	require.NoError(t, NewClockInCommand(env.app(env.worker.ID), nil).Execute(ctx, nil))
	env.clock.Advance(17 * time.Hour)
	require.NoError(t, NewSweepCommand(env.app(env.manager.ID)).Execute(ctx, nil))

	// Act
	err := NewClockInCommand(env.app(env.worker.ID), nil).Execute(ctx, nil)

	// Assert
	require.Error(t, err)
	assert.Equal(t, "failed to clock in: open entry 1 is over cap and awaits review", err.Error())
}

func TestCurrentCommand(t *testing.T) {
	t.Run("should say when not clocked in", func(t *testing.T) {
		env := setupCLI(t)

		require.NoError(t, NewCurrentCommand(env.app(env.worker.ID)).Execute(context.Background(), nil))

		assert.Equal(t, "Not clocked in\n", env.out.String())
	})

	t.Run("should show the break and the near-cap warning", func(t *testing.T) {
		// Arrange
		env := setupCLI(t)
		ctx := context.Background()
		require.NoError(t, NewClockInCommand(env.app(env.worker.ID), nil).Execute(ctx, nil))
		env.clock.Advance(15*time.Hour + 45*time.Minute)
		require.NoError(t, NewBreakCommand(env.app(env.worker.ID)).Execute(ctx, nil))
		env.clock.Advance(10 * time.Minute)

		// Act
		err := NewCurrentCommand(env.app(env.worker.ID)).Execute(ctx, nil)

		// Assert
		require.NoError(t, err)
		out := env.out.String()
		assert.Contains(t, out, "Entry 1: ON_BREAK since 2025-03-10 09:00:00, 15h 45m net")
		assert.Contains(t, out, "On break since 2025-03-11 00:45:00")
		assert.Contains(t, out, "Warning: within 30m of the 16h 0m cap")
	})

	t.Run("should show the flag instead of the warning", func(t *testing.T) {
		// Arrange
		env := setupCLI(t)
		ctx := context.Background()
		require.NoError(t, NewClockInCommand(env.app(env.worker.ID), nil).Execute(ctx, nil))
		env.clock.Advance(16*time.Hour + time.Minute)
		require.NoError(t, NewSweepCommand(env.app(env.manager.ID)).Execute(ctx, nil))

		// Act
		err := NewCurrentCommand(env.app(env.worker.ID)).Execute(ctx, nil)

		// Assert
		require.NoError(t, err)
		assert.Contains(t, env.out.String(), "Entry 1 is over its 16h 0m cap and is flagged for review")
		assert.NotContains(t, env.out.String(), "Warning")
	})
}
