package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shift-tracker/internal/config"
	"shift-tracker/internal/logging"

	"github.com/spf13/cobra"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	loader  *config.Loader
	config  *config.Config
	runtime *Runtime
	out     io.Writer
	errOut  io.Writer
}

// NewRootCommand creates the root cobra command with global flags. Command
// output goes to out, logs to errOut.
func NewRootCommand(loader *config.Loader, out, errOut io.Writer) *RootCommand {
	if loader == nil {
		loader = config.NewLoader()
	}
	root := &RootCommand{
		loader: loader,
		out:    out,
		errOut: errOut,
	}

	root.cmd = &cobra.Command{
		Use:   "shift",
		Short: "Track shifts, breaks and net work time",
		Long: `shift records work sessions with breaks and reports net work time.

Entries that run past their cap (16h by default) are flagged for manager
review, never clocked out automatically. A forgotten clock-out can be
corrected once, keeping the originally recorded figure for audit.

EXAMPLES:
  shift user add "Ada Lovelace"             # Register a worker
  shift user add "Mia" --role manager       # Register a reviewer
  shift -u 1 clock-in                       # Start a shift
  shift -u 1 break                          # Start a break
  shift -u 1 resume                         # End the break
  shift -u 1 current                        # Show the open entry
  shift -u 1 clock-out                      # End the shift
  shift -u 1 forgot 17:30 --note "left"     # Close a forgotten entry at 17:30 today
  shift -u 1 hours 2w --format csv          # Net hours for the last two weeks
  shift flagged                             # Entries awaiting review
  shift resolve 12 --note "approved"        # Record a review
  shift serve                               # HTTP API plus periodic cap sweep

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > .env > defaults

    SHIFT_USER                             Acting user id for shift commands
    SHIFT_DB_DIR                           Database directory (default: ~/.shift)
    SHIFT_DB_FILENAME                      Database filename (default: shift.db)
    SHIFT_DB_BUSY_TIMEOUT                  SQLite busy timeout (default: 5s)
    SHIFT_CAP_MINUTES                      Cap for new entries (default: 960)
    SHIFT_WARNING_BAND                     Near-cap warning band (default: 30m)
    SHIFT_SWEEP_ENABLED                    Run the periodic sweep in serve (default: true)
    SHIFT_SWEEP_SPEC                       Sweep schedule (default: @every 5m)
    SHIFT_HTTP_ADDR                        Listen address (default: :8080)
    SHIFT_HTTP_ALLOWED_ORIGINS             Comma-separated CORS origins (default: *)
    SHIFT_LOG_LEVEL                        Log level (default: info)
    SHIFT_LOG_PRETTY                       Console log output (default: false)
    SHIFT_APP_TIMEOUT                      Per-command timeout (default: 60s)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup()
		},
	}
	root.cmd.SetOut(out)
	root.cmd.SetErr(errOut)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and releases the runtime afterwards
func (r *RootCommand) Execute() error {
	err := r.cmd.Execute()
	if r.runtime != nil {
		if closeErr := r.runtime.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.runtime = nil
	}
	return err
}

// SetArgs overrides os.Args, mainly for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.Int64P("user", "u", 0, "Acting user id (overrides SHIFT_USER)")

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides SHIFT_DB_DIR)")
	flags.String("db-filename", "", "Database filename, or :memory: (overrides SHIFT_DB_FILENAME)")

	// Shift policy
	flags.Int("cap-minutes", 0, "Cap applied to new entries (overrides SHIFT_CAP_MINUTES)")
	flags.Duration("warning-band", 0, "Near-cap warning band (overrides SHIFT_WARNING_BAND)")

	// Scheduler and server
	flags.Bool("sweep-enabled", true, "Run the periodic cap sweep in serve (overrides SHIFT_SWEEP_ENABLED)")
	flags.String("sweep-spec", "", "Cron spec for the cap sweep (overrides SHIFT_SWEEP_SPEC)")
	flags.String("http-addr", "", "HTTP listen address (overrides SHIFT_HTTP_ADDR)")

	// Logging and application
	flags.String("log-level", "", "Log level (overrides SHIFT_LOG_LEVEL)")
	flags.Bool("log-pretty", false, "Human-readable logs (overrides SHIFT_LOG_PRETTY)")
	flags.Duration("app-timeout", 0, "Per-command timeout (overrides SHIFT_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Debug logging (overrides SHIFT_APP_VERBOSE)")
	flags.Bool("utc", false, "Read and print times in UTC instead of the local zone")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	var jobID int64
	clockInCmd := &cobra.Command{
		Use:   "clock-in",
		Short: "Start a shift",
		Long: `Start a new entry for the acting user. An entry left open is closed first;
clocking in is refused while the open entry is flagged over cap.`,
		Args: cobra.NoArgs,
		RunE: r.run(func(app *App, cmd *cobra.Command) Command {
			if cmd.Flags().Changed("job") {
				return NewClockInCommand(app, &jobID)
			}
			return NewClockInCommand(app, nil)
		}),
	}
	clockInCmd.Flags().Int64Var(&jobID, "job", 0, "Job the shift is booked against")

	breakCmd := &cobra.Command{
		Use:   "break",
		Short: "Start a break",
		Args:  cobra.NoArgs,
		RunE:  r.run(func(app *App, _ *cobra.Command) Command { return NewBreakCommand(app) }),
	}

	resumeCmd := &cobra.Command{
		Use:   "resume",
		Short: "End a break",
		Args:  cobra.NoArgs,
		RunE:  r.run(func(app *App, _ *cobra.Command) Command { return NewResumeCommand(app) }),
	}

	clockOutCmd := &cobra.Command{
		Use:   "clock-out",
		Short: "End the current shift",
		Args:  cobra.NoArgs,
		RunE:  r.run(func(app *App, _ *cobra.Command) Command { return NewClockOutCommand(app) }),
	}

	currentCmd := &cobra.Command{
		Use:   "current",
		Short: "Show the open entry",
		Long:  "Display the acting user's open entry with live net work time.",
		Args:  cobra.NoArgs,
		RunE:  r.run(func(app *App, _ *cobra.Command) Command { return NewCurrentCommand(app) }),
	}

	var forgotNote string
	forgotCmd := &cobra.Command{
		Use:   "forgot <end time>",
		Short: "Close a forgotten entry at the time you actually left",
		Long: `Close the open entry at the given time instead of now. The net time the
entry showed before the correction is kept for audit. Accepted formats:
RFC3339, "2006-01-02 15:04" or "15:04" (today). Times without an offset are
read in the local zone (TZ), or in UTC with --utc.`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.run(func(app *App, _ *cobra.Command) Command { return NewForgotCommand(app, forgotNote) }),
	}
	forgotCmd.Flags().StringVar(&forgotNote, "note", "", "Reason for the correction")

	var resolveNote string
	resolveCmd := &cobra.Command{
		Use:   "resolve <entry id>",
		Short: "Record a review of an over-cap entry",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run(func(app *App, _ *cobra.Command) Command { return NewResolveCommand(app, resolveNote) }),
	}
	resolveCmd.Flags().StringVar(&resolveNote, "note", "", "Review note appended to the entry")

	flaggedCmd := &cobra.Command{
		Use:   "flagged",
		Short: "List entries awaiting review",
		Args:  cobra.NoArgs,
		RunE:  r.run(func(app *App, _ *cobra.Command) Command { return NewFlaggedCommand(app) }),
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Flag open entries that reached their cap",
		Args:  cobra.NoArgs,
		RunE:  r.run(func(app *App, _ *cobra.Command) Command { return NewSweepCommand(app) }),
	}

	var hoursFormat string
	hoursCmd := &cobra.Command{
		Use:   "hours [time]",
		Short: "Report net hours",
		Long: `Report net work time for entries clocked in within the window.

Time windows support: 30m, 2h, 1d, 2w, 3mo, 1y (default 1w)`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.run(func(app *App, _ *cobra.Command) Command { return NewHoursCommand(app, hoursFormat) }),
	}
	hoursCmd.Flags().StringVar(&hoursFormat, "format", "table", "Output format: table or csv")

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	var role string
	userAddCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a user",
		Args:  cobra.MinimumNArgs(1),
		RunE:  r.run(func(app *App, _ *cobra.Command) Command { return NewUserAddCommand(app, role) }),
	}
	userAddCmd.Flags().StringVar(&role, "role", "worker", "worker, manager or admin")
	var listRoles []string
	userListCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE:  r.run(func(app *App, _ *cobra.Command) Command { return NewUserListCommand(app, listRoles) }),
	}
	userListCmd.Flags().StringSliceVar(&listRoles, "role", nil, "Only these roles")
	userCmd.AddCommand(userAddCmd, userListCmd)

	var unreadOnly bool
	inboxCmd := &cobra.Command{
		Use:   "inbox",
		Short: "Show notifications for the acting user",
		Args:  cobra.NoArgs,
		RunE:  r.run(func(app *App, _ *cobra.Command) Command { return NewInboxCommand(app, unreadOnly) }),
	}
	inboxCmd.Flags().BoolVar(&unreadOnly, "unread", false, "Only unread notifications")
	inboxReadCmd := &cobra.Command{
		Use:   "read <id>...",
		Short: "Mark notifications read",
		Args:  cobra.MinimumNArgs(1),
		RunE:  r.run(func(app *App, _ *cobra.Command) Command { return NewReadCommand(app) }),
	}
	inboxCmd.AddCommand(inboxReadCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the periodic cap sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return NewServeCommand(r.runtime).Execute(ctx, args)
		},
	}

	r.cmd.AddCommand(
		clockInCmd,
		breakCmd,
		resumeCmd,
		clockOutCmd,
		currentCmd,
		forgotCmd,
		resolveCmd,
		flaggedCmd,
		sweepCmd,
		hoursCmd,
		userCmd,
		inboxCmd,
		serveCmd,
	)
}

// run adapts a command handler to cobra, bounding it by the app timeout
func (r *RootCommand) run(build func(app *App, cmd *cobra.Command) Command) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()

		app := NewAppWithConfig(r.runtime.API, r.config, r.out).
			WithUser(r.config.Application.UserID).
			WithClock(r.runtime.Clock).
			WithLocation(r.location())
		return build(app, cmd).Execute(ctx, args)
	}
}

// location returns the zone wall-clock times are read and printed in
func (r *RootCommand) location() *time.Location {
	if utc, _ := r.cmd.PersistentFlags().GetBool("utc"); utc {
		return time.UTC
	}
	return time.Local
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// setup loads configuration with flag overrides, then wires the runtime
func (r *RootCommand) setup() error {
	cfg, err := r.loader.LoadWithOverrides(r.getOverridesFromFlags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	r.config = cfg

	log := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
		Output: r.errOut,
	})
	logging.SetGlobalLogger(log)

	rt, err := NewRuntime(cfg, log)
	if err != nil {
		return err
	}
	r.runtime = rt
	return nil
}

// getOverridesFromFlags collects the flags the user actually set
func (r *RootCommand) getOverridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	o := &config.ConfigOverrides{}

	if flags.Changed("user") {
		v, _ := flags.GetInt64("user")
		o.UserID = &v
	}
	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		o.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		o.DBFilename = &v
	}
	if flags.Changed("cap-minutes") {
		v, _ := flags.GetInt("cap-minutes")
		o.CapMinutes = &v
	}
	if flags.Changed("warning-band") {
		v, _ := flags.GetDuration("warning-band")
		o.WarningBand = &v
	}
	if flags.Changed("sweep-enabled") {
		v, _ := flags.GetBool("sweep-enabled")
		o.SweepEnabled = &v
	}
	if flags.Changed("sweep-spec") {
		v, _ := flags.GetString("sweep-spec")
		o.SweepSpec = &v
	}
	if flags.Changed("http-addr") {
		v, _ := flags.GetString("http-addr")
		o.HTTPAddr = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		o.LogLevel = &v
	}
	if flags.Changed("log-pretty") {
		v, _ := flags.GetBool("log-pretty")
		o.LogPretty = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		o.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}
	return o
}
