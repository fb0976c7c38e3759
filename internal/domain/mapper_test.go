package domain

import (
	"testing"
	"time"

	"shift-tracker/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
)

func TestTimeEntryMapper_PreservesFields(t *testing.T) {
	m := NewMapper()
	job := int64(9)
	wrong := int64(50400)
	note := "forgot"
	hours := 8.0
	out := t0.Add(8 * time.Hour)

	te := TimeEntry{
		ID: 3, UserID: 1, JobID: &job, ClockIn: t0, ClockOut: &out,
		State: StateClockedOut, WorkAccumSeconds: 28800, LastStateChangeAt: out,
		CapMinutes: 960, FlagStatus: FlagForgotClockOut, WrongRecordedNetSeconds: &wrong,
		CorrectionNote: &note, CorrectionAppliedAt: &out, DurationHours: &hours,
		ReviewNotes: "ok", Version: 4,
	}

	row := m.TimeEntry.ToDatabase(te)
	assert.Equal(t, "CLOCKED_OUT", row.State)
	assert.Equal(t, "FORGOT_CLOCK_OUT", row.FlagStatus)
	assert.Equal(t, te, m.TimeEntry.FromDatabase(row))
}

func TestTimeEntryMapper_FromDatabaseSlice(t *testing.T) {
	m := NewMapper()
	rows := []*sqlite.TimeEntry{
		{ID: 1, State: "WORKING", FlagStatus: "NONE"},
		{ID: 2, State: "ON_BREAK", FlagStatus: "OVER_CAP"},
	}

	entries := m.TimeEntry.FromDatabaseSlice(rows)
	assert.Len(t, entries, 2)
	assert.Equal(t, StateOnBreak, entries[1].State)
	assert.Equal(t, FlagOverCap, entries[1].FlagStatus)
}

func TestUserAndNotificationMappers(t *testing.T) {
	m := NewMapper()

	u := m.User.FromDatabase(sqlite.User{ID: 2, Name: "Mia", Role: "manager", CreatedAt: t0})
	assert.Equal(t, RoleManager, u.Role)
	assert.True(t, u.IsReviewer())
	assert.Equal(t, "manager", m.User.ToDatabase(u).Role)

	n := Notification{ID: "abc", RecipientID: 2, Title: "t", Severity: SeverityWarning, CreatedAt: t0}
	assert.Equal(t, n, m.Notification.FromDatabase(m.Notification.ToDatabase(n)))
}

func TestSearchOptionsMapper(t *testing.T) {
	m := NewMapper()
	flag := FlagOverCap
	user := int64(4)

	opts := m.SearchOptions.ToDatabase(SearchOptions{UserID: &user, FlagStatus: &flag, OpenOnly: true})
	assert.Equal(t, &user, opts.UserID)
	if assert.NotNil(t, opts.FlagStatus) {
		assert.Equal(t, "OVER_CAP", *opts.FlagStatus)
	}
	assert.True(t, opts.OpenOnly)
	assert.Nil(t, m.SearchOptions.ToDatabase(SearchOptions{}).FlagStatus)
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleWorker.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("owner").IsValid())
	assert.False(t, User{Role: RoleWorker}.IsReviewer())
}
