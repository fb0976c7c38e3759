package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shift-tracker/internal/errors"
	"shift-tracker/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// SearchOptions filters time entries. Clock-in bounds are half-open: [From, To).
type SearchOptions struct {
	UserID     *int64
	From       *time.Time
	To         *time.Time
	FlagStatus *string
	OpenOnly   bool
}

// Repository defines the interface for database operations
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	ListUsersByRole(ctx context.Context, roles ...string) ([]*User, error)

	// Time entries
	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error)
	GetOpenTimeEntryForUser(ctx context.Context, userID int64) (*TimeEntry, error)
	ListOpenTimeEntries(ctx context.Context, excludingFlag string) ([]*TimeEntry, error)
	SearchTimeEntries(ctx context.Context, opts SearchOptions) ([]*TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error
	ReplaceOpenTimeEntry(ctx context.Context, closed *TimeEntry, fresh *TimeEntry) error

	// Notifications
	CreateNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool) ([]*Notification, error)
	MarkNotificationRead(ctx context.Context, id string, at time.Time) error

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// DefaultBusyTimeout is how long a writer waits on a locked database.
const DefaultBusyTimeout = 5 * time.Second

// New creates a new SQLite repository instance with DefaultBusyTimeout.
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithBusyTimeout(dbPath, DefaultBusyTimeout)
}

// NewWithBusyTimeout opens dbPath and applies pending migrations. The pool is
// limited to one connection since ":memory:" databases are per-connection.
func NewWithBusyTimeout(dbPath string, busyTimeout time.Duration) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	db.SetMaxOpenConns(1)

	pragma := fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds())
	if _, err := db.Exec(pragma); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("configure database", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateUser creates a new user
func (r *SQLiteRepository) CreateUser(ctx context.Context, user *User) error {
	query := `INSERT INTO users (name, role, created_at) VALUES (?, ?, ?)`
	id, err := ExecuteWithLastInsertID(ctx, r.db, query, user.Name, user.Role, FormatTimeForDB(user.CreatedAt))
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// GetUser retrieves a user by ID
func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (*User, error) {
	query := `SELECT id, name, role, created_at FROM users WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanUser, "user", fmt.Sprintf("%d", id), id)
}

// ListUsers retrieves all users
func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]*User, error) {
	query := `SELECT id, name, role, created_at FROM users ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, ScanUsers, "users")
}

// ListUsersByRole retrieves users holding any of the given roles
func (r *SQLiteRepository) ListUsersByRole(ctx context.Context, roles ...string) ([]*User, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(roles)), ",")
	args := make([]interface{}, len(roles))
	for i, role := range roles {
		args[i] = role
	}

	query := `SELECT id, name, role, created_at FROM users WHERE role IN (` + placeholders + `) ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, ScanUsers, "users", args...)
}

// CreateTimeEntry inserts a new time entry at version 1
func (r *SQLiteRepository) CreateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	return r.insertTimeEntry(ctx, r.db, entry)
}

func (r *SQLiteRepository) insertTimeEntry(ctx context.Context, db Execer, entry *TimeEntry) error {
	query := `
	INSERT INTO time_entries (user_id, job_id, clock_in, clock_out, state, work_accum_seconds,
		last_state_change_at, break_start, break_end, cap_minutes, flag_status, over_cap_at,
		wrong_recorded_net_seconds, correction_note, correction_applied_at, duration_hours,
		review_notes, version)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`

	id, err := ExecuteWithLastInsertID(ctx, db, query,
		entry.UserID,
		entry.JobID,
		FormatTimeForDB(entry.ClockIn),
		FormatTimePtrForDB(entry.ClockOut),
		entry.State,
		entry.WorkAccumSeconds,
		FormatTimeForDB(entry.LastStateChangeAt),
		FormatTimePtrForDB(entry.BreakStart),
		FormatTimePtrForDB(entry.BreakEnd),
		entry.CapMinutes,
		entry.FlagStatus,
		FormatTimePtrForDB(entry.OverCapAt),
		entry.WrongRecordedNetSeconds,
		entry.CorrectionNote,
		FormatTimePtrForDB(entry.CorrectionAppliedAt),
		entry.DurationHours,
		entry.ReviewNotes,
	)
	if err != nil {
		return err
	}

	entry.ID = id
	entry.Version = 1
	return nil
}

// GetTimeEntry retrieves a time entry by ID
func (r *SQLiteRepository) GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanTimeEntry, "time entry", fmt.Sprintf("%d", id), id)
}

// GetOpenTimeEntryForUser retrieves the user's entry with no clock-out
func (r *SQLiteRepository) GetOpenTimeEntryForUser(ctx context.Context, userID int64) (*TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE user_id = ? AND clock_out IS NULL`
	return QuerySingle(ctx, r.db, query, ScanTimeEntry, "open time entry for user", fmt.Sprintf("%d", userID), userID)
}

// ListOpenTimeEntries retrieves every open entry whose flag differs from excludingFlag.
// An empty excludingFlag returns all open entries.
func (r *SQLiteRepository) ListOpenTimeEntries(ctx context.Context, excludingFlag string) ([]*TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE clock_out IS NULL`
	var args []interface{}
	if excludingFlag != "" {
		query += ` AND flag_status <> ?`
		args = append(args, excludingFlag)
	}
	query += ` ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, ScanTimeEntries, "time entries", args...)
}

// SearchTimeEntries searches for time entries based on the provided options
func (r *SQLiteRepository) SearchTimeEntries(ctx context.Context, opts SearchOptions) ([]*TimeEntry, error) {
	var conditions []string
	var args []interface{}

	if opts.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *opts.UserID)
	}
	if opts.From != nil {
		conditions = append(conditions, "clock_in >= ?")
		args = append(args, FormatTimeForDB(*opts.From))
	}
	if opts.To != nil {
		conditions = append(conditions, "clock_in < ?")
		args = append(args, FormatTimeForDB(*opts.To))
	}
	if opts.FlagStatus != nil {
		conditions = append(conditions, "flag_status = ?")
		args = append(args, *opts.FlagStatus)
	}
	if opts.OpenOnly {
		conditions = append(conditions, "clock_out IS NULL")
	}

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY clock_in ASC, id ASC"

	return QueryMultiple(ctx, r.db, query, ScanTimeEntries, "time entries", args...)
}

// UpdateTimeEntry writes every mutable column in one statement, guarded by the
// entry's version. A stale version yields a conflict error and writes nothing.
// wrong_recorded_net_seconds is write-once: an existing value is never replaced.
func (r *SQLiteRepository) UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	return r.updateTimeEntry(ctx, r.db, entry)
}

func (r *SQLiteRepository) updateTimeEntry(ctx context.Context, db Execer, entry *TimeEntry) error {
	query := `
	UPDATE time_entries
	SET job_id = ?, clock_out = ?, state = ?, work_accum_seconds = ?, last_state_change_at = ?,
		break_start = ?, break_end = ?, flag_status = ?, over_cap_at = ?,
		wrong_recorded_net_seconds = COALESCE(wrong_recorded_net_seconds, ?),
		correction_note = ?, correction_applied_at = ?, duration_hours = ?, review_notes = ?,
		version = version + 1
	WHERE id = ? AND version = ?`

	result, err := db.ExecContext(ctx, query,
		entry.JobID,
		FormatTimePtrForDB(entry.ClockOut),
		entry.State,
		entry.WorkAccumSeconds,
		FormatTimeForDB(entry.LastStateChangeAt),
		FormatTimePtrForDB(entry.BreakStart),
		FormatTimePtrForDB(entry.BreakEnd),
		entry.FlagStatus,
		FormatTimePtrForDB(entry.OverCapAt),
		entry.WrongRecordedNetSeconds,
		entry.CorrectionNote,
		FormatTimePtrForDB(entry.CorrectionAppliedAt),
		entry.DurationHours,
		entry.ReviewNotes,
		entry.ID,
		entry.Version,
	)
	if err != nil {
		return HandleDatabaseError("update time entry", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return HandleDatabaseError("get rows affected", err)
	}
	if rows == 0 {
		return r.staleOrMissing(ctx, db, entry.ID)
	}

	entry.Version++
	return nil
}

func (r *SQLiteRepository) staleOrMissing(ctx context.Context, db Execer, id int64) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM time_entries WHERE id = ?`, id).Scan(&count); err != nil {
		return HandleDatabaseError("check time entry", err)
	}
	identifier := fmt.Sprintf("%d", id)
	if count == 0 {
		return errors.NewNotFoundError("time entry", identifier)
	}
	return errors.NewConflictError(
		fmt.Sprintf("time entry %d was modified concurrently; reload and retry", id),
		"time entry", identifier)
}

// ReplaceOpenTimeEntry closes the user's previous open entry (when closed is
// non-nil) and inserts fresh in a single transaction, so storage never holds
// two open entries for one user.
func (r *SQLiteRepository) ReplaceOpenTimeEntry(ctx context.Context, closed *TimeEntry, fresh *TimeEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	closedVersion := int64(0)
	if closed != nil {
		closedVersion = closed.Version
		if err := r.updateTimeEntry(ctx, tx, closed); err != nil {
			closed.Version = closedVersion
			return err
		}
	}

	if err := r.insertTimeEntry(ctx, tx, fresh); err != nil {
		if closed != nil {
			closed.Version = closedVersion
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if closed != nil {
			closed.Version = closedVersion
		}
		return HandleDatabaseError("commit transaction", err)
	}
	return nil
}

// CreateNotification stores a notification in the recipient's inbox
func (r *SQLiteRepository) CreateNotification(ctx context.Context, n *Notification) error {
	query := `
	INSERT INTO notifications (id, recipient_id, title, body, severity, link, created_at, read_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, n.ID, n.RecipientID, n.Title, n.Body, n.Severity, n.Link,
		FormatTimeForDB(n.CreatedAt), FormatTimePtrForDB(n.ReadAt))
	if err != nil {
		return HandleDatabaseError("insert notification", err)
	}
	return nil
}

// ListNotifications retrieves a recipient's notifications, newest first
func (r *SQLiteRepository) ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool) ([]*Notification, error) {
	query := `
	SELECT id, recipient_id, title, body, severity, link, created_at, read_at
	FROM notifications
	WHERE recipient_id = ?`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id ASC`
	return QueryMultiple(ctx, r.db, query, ScanNotifications, "notifications", recipientID)
}

// MarkNotificationRead stamps read_at on a notification
func (r *SQLiteRepository) MarkNotificationRead(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE notifications SET read_at = COALESCE(read_at, ?) WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "notification", id, FormatTimeForDB(at), id)
}
