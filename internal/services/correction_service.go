package services

import (
	"context"
	"time"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
	"shift-tracker/internal/repository/sqlite"
	"shift-tracker/internal/validation"

	"github.com/rs/zerolog"
)

// correctionServiceImpl implements the CorrectionService interface
type correctionServiceImpl struct {
	repo      sqlite.Repository
	clock     clock.Clock
	notifier  *Notifier
	mapper    *domain.Mapper
	validator *validation.EntryValidator
	log       zerolog.Logger
}

// NewCorrectionService creates a new CorrectionService instance
func NewCorrectionService(deps Dependencies, notifier *Notifier) CorrectionService {
	return &correctionServiceImpl{
		repo:      deps.Repo,
		clock:     deps.Clock,
		notifier:  notifier,
		mapper:    domain.NewMapper(),
		validator: validation.NewEntryValidatorWithConfig(deps.Config),
		log:       deps.Logger.With().Str("component", "correction").Logger(),
	}
}

// ForgotClockOut closes the user's open entry at actualEnd. The figure the
// entry reported at the moment of correction is kept alongside the corrected
// one, and reviewers are told after the change is committed.
func (c *correctionServiceImpl) ForgotClockOut(ctx context.Context, userID int64, actualEnd time.Time, note string) (*CorrectionResult, error) {
	verr := validation.NewValidationError()
	verr.Merge(c.validator.ValidateID("user_id", userID))
	verr.Merge(c.validator.ValidateNote("note", note))
	if err := verr.ErrOrNil(); err != nil {
		return nil, errors.NewValidationError("invalid clock-out correction", err)
	}

	row, err := c.repo.GetOpenTimeEntryForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry := c.mapper.TimeEntry.FromDatabase(*row)

	now := c.clock.Now()
	correction, err := entry.ApplyCorrection(actualEnd.UTC().Truncate(time.Second), now, note)
	if err != nil {
		return nil, err
	}

	if err := saveEntry(ctx, c.repo, c.mapper, &entry); err != nil {
		return nil, err
	}

	result := &CorrectionResult{
		Entry:              &entry,
		WrongRecordedHours: SecondsToHours(correction.WrongRecordedNetSeconds),
		CorrectedHours:     SecondsToHours(correction.CorrectedNetSeconds),
		DifferenceHours:    SecondsToHours(correction.DifferenceSeconds()),
		FlagStatus:         correction.FlagStatus,
	}

	c.log.Info().Int64("entry_id", entry.ID).Int64("user_id", userID).
		Int64("wrong_recorded_seconds", correction.WrongRecordedNetSeconds).
		Int64("corrected_seconds", correction.CorrectedNetSeconds).
		Msg("clock-out corrected")
	c.notifier.Corrected(ctx, &entry, result)

	return result, nil
}
