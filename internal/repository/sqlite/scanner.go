package sqlite

import (
	"database/sql"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

const timeEntryColumns = `id, user_id, job_id, clock_in, clock_out, state, work_accum_seconds,
	last_state_change_at, break_start, break_end, cap_minutes, flag_status, over_cap_at,
	wrong_recorded_net_seconds, correction_note, correction_applied_at, duration_hours,
	review_notes, version`

// ScanTimeEntry scans a single time entry selected with timeEntryColumns
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	entry := &TimeEntry{}
	var (
		jobID                                                          sql.NullInt64
		clockIn, lastChange                                            string
		clockOut, breakStart, breakEnd, overCapAt, correctionAppliedAt sql.NullString
		wrongNet                                                       sql.NullInt64
		correctionNote                                                 sql.NullString
		durationHours                                                  sql.NullFloat64
	)

	err := scanner.Scan(
		&entry.ID,
		&entry.UserID,
		&jobID,
		&clockIn,
		&clockOut,
		&entry.State,
		&entry.WorkAccumSeconds,
		&lastChange,
		&breakStart,
		&breakEnd,
		&entry.CapMinutes,
		&entry.FlagStatus,
		&overCapAt,
		&wrongNet,
		&correctionNote,
		&correctionAppliedAt,
		&durationHours,
		&entry.ReviewNotes,
		&entry.Version,
	)
	if err != nil {
		return nil, err
	}

	if entry.ClockIn, err = ParseTimeFromDB(clockIn); err != nil {
		return nil, err
	}
	if entry.LastStateChangeAt, err = ParseTimeFromDB(lastChange); err != nil {
		return nil, err
	}
	if entry.ClockOut, err = ParseNullTimeFromDB(clockOut); err != nil {
		return nil, err
	}
	if entry.BreakStart, err = ParseNullTimeFromDB(breakStart); err != nil {
		return nil, err
	}
	if entry.BreakEnd, err = ParseNullTimeFromDB(breakEnd); err != nil {
		return nil, err
	}
	if entry.OverCapAt, err = ParseNullTimeFromDB(overCapAt); err != nil {
		return nil, err
	}
	if entry.CorrectionAppliedAt, err = ParseNullTimeFromDB(correctionAppliedAt); err != nil {
		return nil, err
	}

	if jobID.Valid {
		entry.JobID = &jobID.Int64
	}
	if wrongNet.Valid {
		entry.WrongRecordedNetSeconds = &wrongNet.Int64
	}
	if correctionNote.Valid {
		entry.CorrectionNote = &correctionNote.String
	}
	if durationHours.Valid {
		entry.DurationHours = &durationHours.Float64
	}

	return entry, nil
}

// ScanTimeEntries scans multiple time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	return scanEach(rows, ScanTimeEntry)
}

// ScanUser scans a single user from a database row
func ScanUser(scanner Scanner) (*User, error) {
	user := &User{}
	var createdAt string
	if err := scanner.Scan(&user.ID, &user.Name, &user.Role, &createdAt); err != nil {
		return nil, err
	}
	t, err := ParseTimeFromDB(createdAt)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = t
	return user, nil
}

// ScanUsers scans multiple users from database rows
func ScanUsers(rows Rows) ([]*User, error) {
	return scanEach(rows, ScanUser)
}

// ScanNotification scans a single notification from a database row
func ScanNotification(scanner Scanner) (*Notification, error) {
	n := &Notification{}
	var createdAt string
	var readAt sql.NullString
	if err := scanner.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Body, &n.Severity, &n.Link, &createdAt, &readAt); err != nil {
		return nil, err
	}
	t, err := ParseTimeFromDB(createdAt)
	if err != nil {
		return nil, err
	}
	n.CreatedAt = t
	if n.ReadAt, err = ParseNullTimeFromDB(readAt); err != nil {
		return nil, err
	}
	return n, nil
}

// ScanNotifications scans multiple notifications from database rows
func ScanNotifications(rows Rows) ([]*Notification, error) {
	return scanEach(rows, ScanNotification)
}

func scanEach[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	var results []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
