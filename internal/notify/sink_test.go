package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/repository/sqlite"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestStoreSink_PersistsIntoInbox(t *testing.T) {
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer repo.Close()
	ctx := context.Background()

	manager := &sqlite.User{Name: "Mia", Role: "manager", CreatedAt: now}
	require.NoError(t, repo.CreateUser(ctx, manager))

	sink := NewStoreSink(repo, clock.Fixed(now))
	require.NoError(t, sink.Emit(ctx, domain.Notification{
		RecipientID: manager.ID,
		Title:       "Shift over cap",
		Body:        "entry 1 reached 16h",
		Severity:    domain.SeverityWarning,
		Link:        "/entries/1",
	}))

	inbox, err := repo.ListNotifications(ctx, manager.ID, true)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	_, err = uuid.Parse(inbox[0].ID)
	assert.NoError(t, err)
	assert.True(t, now.Equal(inbox[0].CreatedAt))
	assert.Equal(t, "warning", inbox[0].Severity)
	assert.Equal(t, "/entries/1", inbox[0].Link)
}

func TestLogSink_WritesSeverityLevel(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))

	require.NoError(t, sink.Emit(context.Background(), domain.Notification{
		RecipientID: 3, Title: "Clock-out corrected", Severity: domain.SeverityCritical,
	}))

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"recipient_id":3`)
	assert.Contains(t, buf.String(), "Clock-out corrected")
}

func TestMultiSink_ContinuesPastFailures(t *testing.T) {
	boom := errors.New("inbox down")
	failing := SinkFunc(func(context.Context, domain.Notification) error { return boom })
	rec := &Recorder{}

	err := MultiSink{failing, rec}.Emit(context.Background(), domain.Notification{RecipientID: 1, Title: "t"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, rec.Sent(), 1)

	assert.NoError(t, MultiSink{rec}.Emit(context.Background(), domain.Notification{RecipientID: 2}))
	assert.Len(t, rec.For(2), 1)
}
