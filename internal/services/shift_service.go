package services

import (
	"context"
	"strconv"
	"time"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
	"shift-tracker/internal/repository/sqlite"
	"shift-tracker/internal/validation"

	"github.com/rs/zerolog"
)

// shiftServiceImpl implements the ShiftService interface
type shiftServiceImpl struct {
	repo      sqlite.Repository
	clock     clock.Clock
	policy    Policy
	notifier  *Notifier
	mapper    *domain.Mapper
	validator *validation.EntryValidator
	log       zerolog.Logger
}

// NewShiftService creates a new ShiftService instance
func NewShiftService(deps Dependencies, notifier *Notifier) ShiftService {
	return &shiftServiceImpl{
		repo:      deps.Repo,
		clock:     deps.Clock,
		policy:    deps.Policy,
		notifier:  notifier,
		mapper:    domain.NewMapper(),
		validator: validation.NewEntryValidatorWithConfig(deps.Config),
		log:       deps.Logger.With().Str("component", "shift").Logger(),
	}
}

// ClockIn starts a new entry for userID. An open entry is closed first in
// the same transaction, unless it is OVER_CAP and unreviewed. An open entry
// that crossed its cap since the last sweep is flagged here; either way the
// new entry is refused with a ConflictError naming the flagged one.
func (s *shiftServiceImpl) ClockIn(ctx context.Context, userID int64, jobID *int64) (*ClockInResult, error) {
	if err := s.validator.ValidateID("user_id", userID); err != nil {
		return nil, errors.NewValidationError("invalid clock-in", err)
	}
	if jobID != nil {
		if err := s.validator.ValidateID("job_id", *jobID); err != nil {
			return nil, errors.NewValidationError("invalid clock-in", err)
		}
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	now := s.clock.Now()

	prior, err := s.openEntry(ctx, userID)
	if err != nil && !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		return nil, err
	}

	var closed *domain.TimeEntry
	if prior != nil {
		if prior.EvaluateCap(now) {
			if err := s.save(ctx, prior); err != nil {
				return nil, err
			}
			s.log.Info().Int64("entry_id", prior.ID).Msg("flagged over cap at clock-in")
			s.notifier.OverCap(ctx, prior)
		}
		if prior.FlagStatus == domain.FlagOverCap {
			return nil, overCapConflict(prior, userID)
		}
		if err := prior.Close(now); err != nil {
			return nil, err
		}
		closed = prior
	}

	fresh := domain.NewTimeEntry(userID, jobID, now, s.policy.DefaultCapMinutes)
	freshRow := s.mapper.TimeEntry.ToDatabase(fresh)

	if closed != nil {
		closedRow := s.mapper.TimeEntry.ToDatabase(*closed)
		if err := s.repo.ReplaceOpenTimeEntry(ctx, &closedRow, &freshRow); err != nil {
			return nil, err
		}
		closed.Version = closedRow.Version
	} else if err := s.repo.CreateTimeEntry(ctx, &freshRow); err != nil {
		return nil, err
	}
	fresh = s.mapper.TimeEntry.FromDatabase(freshRow)

	s.log.Info().Int64("user_id", userID).Int64("entry_id", fresh.ID).Msg("clocked in")
	if closed != nil {
		s.log.Info().Int64("entry_id", closed.ID).Float64("hours", *closed.DurationHours).Msg("auto-closed previous entry")
	}

	return &ClockInResult{Entry: &fresh, Closed: closed}, nil
}

// BeginBreak puts the user's open entry on break
func (s *shiftServiceImpl) BeginBreak(ctx context.Context, userID int64) (*domain.TimeEntry, error) {
	return s.transition(ctx, userID, "began break", func(te *domain.TimeEntry, now time.Time) error {
		return te.BeginBreak(now)
	})
}

// EndBreak returns the user's open entry to work
func (s *shiftServiceImpl) EndBreak(ctx context.Context, userID int64) (*domain.TimeEntry, error) {
	return s.transition(ctx, userID, "ended break", func(te *domain.TimeEntry, now time.Time) error {
		return te.EndBreak(now)
	})
}

// ClockOut closes the user's open entry at now
func (s *shiftServiceImpl) ClockOut(ctx context.Context, userID int64) (*domain.TimeEntry, error) {
	return s.transition(ctx, userID, "clocked out", func(te *domain.TimeEntry, now time.Time) error {
		return te.Close(now)
	})
}

// transition evaluates the cap and applies apply against one now, persists
// the result under the entry's version, then notifies if the cap tripped.
func (s *shiftServiceImpl) transition(ctx context.Context, userID int64, event string, apply func(*domain.TimeEntry, time.Time) error) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateID("user_id", userID); err != nil {
		return nil, errors.NewValidationError("invalid user", err)
	}

	entry, err := s.openEntry(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	flagged := entry.EvaluateCap(now)
	if err := apply(entry, now); err != nil {
		return nil, err
	}

	if err := s.save(ctx, entry); err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", userID).Int64("entry_id", entry.ID).Str("state", string(entry.State)).Msg(event)
	if flagged {
		s.notifier.OverCap(ctx, entry)
	}
	return entry, nil
}

// Current returns the live view of the user's open entry
func (s *shiftServiceImpl) Current(ctx context.Context, userID int64) (*CurrentSession, error) {
	entry, err := s.openEntry(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	net := entry.NetWorkSeconds(now)
	return &CurrentSession{
		Entry:       entry,
		NetSeconds:  net,
		NetDuration: FormatSeconds(net),
		NearCap:     entry.NearCap(now, s.policy.WarningBand),
		AsOf:        now,
	}, nil
}

// GetEntry returns an entry by id
func (s *shiftServiceImpl) GetEntry(ctx context.Context, entryID int64) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateID("entry_id", entryID); err != nil {
		return nil, errors.NewValidationError("invalid entry id", err)
	}
	row, err := s.repo.GetTimeEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry := s.mapper.TimeEntry.FromDatabase(*row)
	return &entry, nil
}

func (s *shiftServiceImpl) openEntry(ctx context.Context, userID int64) (*domain.TimeEntry, error) {
	row, err := s.repo.GetOpenTimeEntryForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry := s.mapper.TimeEntry.FromDatabase(*row)
	return &entry, nil
}

// overCapConflict refuses a clock-in while entry awaits review
func overCapConflict(entry *domain.TimeEntry, userID int64) error {
	id := strconv.FormatInt(entry.ID, 10)
	return errors.NewConflictError("open entry "+id+" is over cap and awaits review", "time entry", id).
		WithContext("user_id", userID)
}

func (s *shiftServiceImpl) save(ctx context.Context, entry *domain.TimeEntry) error {
	return saveEntry(ctx, s.repo, s.mapper, entry)
}

// saveEntry writes entry under its version and copies the bumped version back.
func saveEntry(ctx context.Context, repo sqlite.Repository, mapper *domain.Mapper, entry *domain.TimeEntry) error {
	row := mapper.TimeEntry.ToDatabase(*entry)
	if err := repo.UpdateTimeEntry(ctx, &row); err != nil {
		return err
	}
	entry.Version = row.Version
	return nil
}
