package services

import (
	"context"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
	"shift-tracker/internal/repository/sqlite"
	"shift-tracker/internal/validation"

	"github.com/rs/zerolog"
)

// capServiceImpl implements the CapService interface
type capServiceImpl struct {
	repo      sqlite.Repository
	clock     clock.Clock
	notifier  *Notifier
	mapper    *domain.Mapper
	validator *validation.EntryValidator
	log       zerolog.Logger
}

// NewCapService creates a new CapService instance
func NewCapService(deps Dependencies, notifier *Notifier) CapService {
	return &capServiceImpl{
		repo:      deps.Repo,
		clock:     deps.Clock,
		notifier:  notifier,
		mapper:    domain.NewMapper(),
		validator: validation.NewEntryValidatorWithConfig(deps.Config),
		log:       deps.Logger.With().Str("component", "sweep").Logger(),
	}
}

// SweepOpenEntries evaluates every open, not yet flagged entry against one
// now. Each entry is handled on its own: a failed save or notification is
// recorded in the result and the sweep moves on. The returned error is set
// only when the open entries cannot be listed at all.
func (c *capServiceImpl) SweepOpenEntries(ctx context.Context) (*SweepResult, error) {
	now := c.clock.Now()
	result := &SweepResult{At: now, FlaggedIDs: []int64{}, Errors: []SweepError{}}

	rows, err := c.repo.ListOpenTimeEntries(ctx, string(domain.FlagOverCap))
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		entry := c.mapper.TimeEntry.FromDatabase(*row)
		result.Processed++
		if !entry.EvaluateCap(now) {
			continue
		}

		if err := saveEntry(ctx, c.repo, c.mapper, &entry); err != nil {
			c.log.Error().Err(err).Int64("entry_id", entry.ID).Msg("could not persist over-cap flag")
			result.Errors = append(result.Errors, newSweepError(entry.ID, SweepStagePersist, err))
			continue
		}
		result.Flagged++
		result.FlaggedIDs = append(result.FlaggedIDs, entry.ID)
		c.log.Info().Int64("entry_id", entry.ID).Int64("user_id", entry.UserID).Msg("entry over cap")

		for _, nerr := range c.notifier.OverCap(ctx, &entry) {
			result.Errors = append(result.Errors, newSweepError(entry.ID, SweepStageNotify, nerr))
		}
	}

	c.log.Debug().Int("processed", result.Processed).Int("flagged", result.Flagged).
		Int("errors", len(result.Errors)).Msg("sweep finished")
	return result, nil
}

// ResolveFlaggedEntry marks an OVER_CAP entry reviewed and appends note
func (c *capServiceImpl) ResolveFlaggedEntry(ctx context.Context, entryID int64, note string) (*domain.TimeEntry, error) {
	verr := validation.NewValidationError()
	verr.Merge(c.validator.ValidateID("entry_id", entryID))
	verr.Merge(c.validator.ValidateNote("note", note))
	if err := verr.ErrOrNil(); err != nil {
		return nil, errors.NewValidationError("invalid resolution", err)
	}

	row, err := c.repo.GetTimeEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry := c.mapper.TimeEntry.FromDatabase(*row)

	if err := entry.Resolve(note); err != nil {
		return nil, err
	}
	if err := saveEntry(ctx, c.repo, c.mapper, &entry); err != nil {
		return nil, err
	}

	c.log.Info().Int64("entry_id", entry.ID).Msg("over-cap entry resolved")
	c.notifier.Resolved(ctx, &entry)
	return &entry, nil
}

// ListFlagged returns every entry awaiting review
func (c *capServiceImpl) ListFlagged(ctx context.Context) ([]*domain.TimeEntry, error) {
	flag := domain.FlagOverCap
	rows, err := c.repo.SearchTimeEntries(ctx, c.mapper.SearchOptions.ToDatabase(domain.SearchOptions{FlagStatus: &flag}))
	if err != nil {
		return nil, err
	}
	return c.mapper.TimeEntry.FromDatabaseSlice(rows), nil
}

func newSweepError(entryID int64, stage string, err error) SweepError {
	return SweepError{EntryID: entryID, Stage: stage, Err: err, Message: err.Error()}
}
