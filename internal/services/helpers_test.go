package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
	"shift-tracker/internal/notify"
	"shift-tracker/internal/repository/sqlite"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// 09:00 on a Monday
var shiftStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type harness struct {
	repo     sqlite.Repository
	clock    *clock.Manual
	recorder *notify.Recorder
	services *ServiceContainer
	worker   *domain.User
	manager  *domain.User
}

func setupHarness(t *testing.T) *harness {
	t.Helper()
	return setupHarnessWith(t, nil, nil)
}

// setupHarnessWith lets tests wrap the repository or replace the sink.
func setupHarnessWith(t *testing.T, wrap func(sqlite.Repository) sqlite.Repository, sink notify.Sink) *harness {
	t.Helper()

	base, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { base.Close() })

	var repo sqlite.Repository = base
	if wrap != nil {
		repo = wrap(base)
	}

	h := &harness{
		repo:     repo,
		clock:    clock.NewManual(shiftStart),
		recorder: &notify.Recorder{},
	}
	if sink == nil {
		sink = h.recorder
	}
	h.services = NewServiceContainer(Dependencies{
		Repo:   repo,
		Clock:  h.clock,
		Sink:   sink,
		Policy: DefaultPolicy(),
		Logger: zerolog.Nop(),
	})

	ctx := context.Background()
	h.worker, err = h.services.UserService.CreateUser(ctx, "Ada", domain.RoleWorker)
	require.NoError(t, err)
	h.manager, err = h.services.UserService.CreateUser(ctx, "Mia", domain.RoleManager)
	require.NoError(t, err)
	return h
}

func (h *harness) clockIn(t *testing.T, userID int64) *domain.TimeEntry {
	t.Helper()
	res, err := h.services.ShiftService.ClockIn(context.Background(), userID, nil)
	require.NoError(t, err)
	return res.Entry
}

func (h *harness) reload(t *testing.T, id int64) *domain.TimeEntry {
	t.Helper()
	entry, err := h.services.ShiftService.GetEntry(context.Background(), id)
	require.NoError(t, err)
	return entry
}

func (h *harness) openEntries(t *testing.T, userID int64) []*sqlite.TimeEntry {
	t.Helper()
	rows, err := h.repo.SearchTimeEntries(context.Background(), sqlite.SearchOptions{UserID: &userID, OpenOnly: true})
	require.NoError(t, err)
	return rows
}

// conflictingRepo fails updates of chosen entries as if another writer won.
type conflictingRepo struct {
	sqlite.Repository
	failIDs map[int64]bool
}

func (r *conflictingRepo) UpdateTimeEntry(ctx context.Context, entry *sqlite.TimeEntry) error {
	if r.failIDs[entry.ID] {
		return errors.NewConflictError("time entry was modified concurrently", "time entry", "stale")
	}
	return r.Repository.UpdateTimeEntry(ctx, entry)
}

var errDirectoryDown = stderrors.New("user directory unavailable")

// reviewerlessRepo cannot look up users by role
type reviewerlessRepo struct {
	sqlite.Repository
}

func (r *reviewerlessRepo) ListUsersByRole(context.Context, ...string) ([]*sqlite.User, error) {
	return nil, errDirectoryDown
}

var errSinkDown = stderrors.New("sink unavailable")

func failingSink() notify.Sink {
	return notify.SinkFunc(func(context.Context, domain.Notification) error { return errSinkDown })
}

func newHarnessClock() *clock.Manual {
	return clock.NewManual(shiftStart)
}
