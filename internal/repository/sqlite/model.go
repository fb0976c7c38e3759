package sqlite

import "time"

// User is a row of the users table.
type User struct {
	ID        int64
	Name      string
	Role      string
	CreatedAt time.Time
}

// TimeEntry is a row of the time_entries table. Pointer fields map to
// nullable columns.
type TimeEntry struct {
	ID                      int64
	UserID                  int64
	JobID                   *int64
	ClockIn                 time.Time
	ClockOut                *time.Time
	State                   string
	WorkAccumSeconds        int64
	LastStateChangeAt       time.Time
	BreakStart              *time.Time
	BreakEnd                *time.Time
	CapMinutes              int
	FlagStatus              string
	OverCapAt               *time.Time
	WrongRecordedNetSeconds *int64
	CorrectionNote          *string
	CorrectionAppliedAt     *time.Time
	DurationHours           *float64
	ReviewNotes             string
	Version                 int64
}

// Notification is a row of the notifications table.
type Notification struct {
	ID          string
	RecipientID int64
	Title       string
	Body        string
	Severity    string
	Link        string
	CreatedAt   time.Time
	ReadAt      *time.Time
}
