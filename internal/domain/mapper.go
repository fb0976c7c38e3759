package domain

import (
	"shift-tracker/internal/repository/sqlite"
)

// UserMapper handles conversion between domain and database User models.
type UserMapper struct{}

// ToDatabase converts a domain User to a database User.
func (m *UserMapper) ToDatabase(u User) sqlite.User {
	return sqlite.User{
		ID:        u.ID,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// FromDatabase converts a database User to a domain User.
func (m *UserMapper) FromDatabase(u sqlite.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Role:      Role(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// FromDatabaseSlice converts database Users to domain Users.
func (m *UserMapper) FromDatabaseSlice(users []*sqlite.User) []*User {
	out := make([]*User, len(users))
	for i, u := range users {
		d := m.FromDatabase(*u)
		out[i] = &d
	}
	return out
}

// TimeEntryMapper handles conversion between domain and database TimeEntry models.
type TimeEntryMapper struct{}

// ToDatabase converts a domain TimeEntry to a database TimeEntry.
func (m *TimeEntryMapper) ToDatabase(e TimeEntry) sqlite.TimeEntry {
	return sqlite.TimeEntry{
		ID:                      e.ID,
		UserID:                  e.UserID,
		JobID:                   e.JobID,
		ClockIn:                 e.ClockIn,
		ClockOut:                e.ClockOut,
		State:                   string(e.State),
		WorkAccumSeconds:        e.WorkAccumSeconds,
		LastStateChangeAt:       e.LastStateChangeAt,
		BreakStart:              e.BreakStart,
		BreakEnd:                e.BreakEnd,
		CapMinutes:              e.CapMinutes,
		FlagStatus:              string(e.FlagStatus),
		OverCapAt:               e.OverCapAt,
		WrongRecordedNetSeconds: e.WrongRecordedNetSeconds,
		CorrectionNote:          e.CorrectionNote,
		CorrectionAppliedAt:     e.CorrectionAppliedAt,
		DurationHours:           e.DurationHours,
		ReviewNotes:             e.ReviewNotes,
		Version:                 e.Version,
	}
}

// FromDatabase converts a database TimeEntry to a domain TimeEntry.
func (m *TimeEntryMapper) FromDatabase(e sqlite.TimeEntry) TimeEntry {
	return TimeEntry{
		ID:                      e.ID,
		UserID:                  e.UserID,
		JobID:                   e.JobID,
		ClockIn:                 e.ClockIn,
		ClockOut:                e.ClockOut,
		State:                   EntryState(e.State),
		WorkAccumSeconds:        e.WorkAccumSeconds,
		LastStateChangeAt:       e.LastStateChangeAt,
		BreakStart:              e.BreakStart,
		BreakEnd:                e.BreakEnd,
		CapMinutes:              e.CapMinutes,
		FlagStatus:              FlagStatus(e.FlagStatus),
		OverCapAt:               e.OverCapAt,
		WrongRecordedNetSeconds: e.WrongRecordedNetSeconds,
		CorrectionNote:          e.CorrectionNote,
		CorrectionAppliedAt:     e.CorrectionAppliedAt,
		DurationHours:           e.DurationHours,
		ReviewNotes:             e.ReviewNotes,
		Version:                 e.Version,
	}
}

// FromDatabaseSlice converts database TimeEntries to domain TimeEntries.
func (m *TimeEntryMapper) FromDatabaseSlice(entries []*sqlite.TimeEntry) []*TimeEntry {
	out := make([]*TimeEntry, len(entries))
	for i, e := range entries {
		d := m.FromDatabase(*e)
		out[i] = &d
	}
	return out
}

// NotificationMapper handles conversion between domain and database Notification models.
type NotificationMapper struct{}

// ToDatabase converts a domain Notification to a database Notification.
func (m *NotificationMapper) ToDatabase(n Notification) sqlite.Notification {
	return sqlite.Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Title:       n.Title,
		Body:        n.Body,
		Severity:    string(n.Severity),
		Link:        n.Link,
		CreatedAt:   n.CreatedAt,
		ReadAt:      n.ReadAt,
	}
}

// FromDatabase converts a database Notification to a domain Notification.
func (m *NotificationMapper) FromDatabase(n sqlite.Notification) Notification {
	return Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Title:       n.Title,
		Body:        n.Body,
		Severity:    Severity(n.Severity),
		Link:        n.Link,
		CreatedAt:   n.CreatedAt,
		ReadAt:      n.ReadAt,
	}
}

// SearchOptionsMapper handles conversion between domain and database SearchOptions.
type SearchOptionsMapper struct{}

// ToDatabase converts domain SearchOptions to database SearchOptions.
func (m *SearchOptionsMapper) ToDatabase(o SearchOptions) sqlite.SearchOptions {
	opts := sqlite.SearchOptions{
		UserID:   o.UserID,
		From:     o.From,
		To:       o.To,
		OpenOnly: o.OpenOnly,
	}
	if o.FlagStatus != nil {
		flag := string(*o.FlagStatus)
		opts.FlagStatus = &flag
	}
	return opts
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	User          *UserMapper
	TimeEntry     *TimeEntryMapper
	Notification  *NotificationMapper
	SearchOptions *SearchOptionsMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		User:          &UserMapper{},
		TimeEntry:     &TimeEntryMapper{},
		Notification:  &NotificationMapper{},
		SearchOptions: &SearchOptionsMapper{},
	}
}
