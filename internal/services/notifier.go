package services

import (
	"context"
	"fmt"
	"strconv"

	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
	"shift-tracker/internal/notify"
	"shift-tracker/internal/repository/sqlite"

	"github.com/rs/zerolog"
)

// Notifier turns entry events into notifications for the owner and the
// reviewers. Delivery is best effort: failures are logged and returned for
// aggregation, never used to undo a committed change.
type Notifier struct {
	repo   sqlite.Repository
	sink   notify.Sink
	mapper *domain.Mapper
	log    zerolog.Logger
}

// NewNotifier creates a Notifier emitting through sink.
func NewNotifier(repo sqlite.Repository, sink notify.Sink, log zerolog.Logger) *Notifier {
	return &Notifier{
		repo:   repo,
		sink:   sink,
		mapper: domain.NewMapper(),
		log:    log.With().Str("component", "notifier").Logger(),
	}
}

// OverCap tells the owner and every reviewer that entry crossed its cap.
func (n *Notifier) OverCap(ctx context.Context, entry *domain.TimeEntry) []error {
	msg := domain.Notification{
		Title: "Shift over cap",
		Body: fmt.Sprintf("Entry %d has %s of net work against a cap of %s. It stays open until reviewed.",
			entry.ID, FormatSeconds(entry.NetWorkSeconds(*entry.OverCapAt)), FormatSeconds(entry.CapSeconds())),
		Severity: domain.SeverityWarning,
		Link:     entryLink(entry.ID),
	}
	recipients, errs := n.recipients(ctx, entry.UserID, true)
	return append(errs, n.send(ctx, msg, recipients...)...)
}

// Corrected tells reviewers about a forgot-to-clock-out correction with
// both figures and their difference.
func (n *Notifier) Corrected(ctx context.Context, entry *domain.TimeEntry, result *CorrectionResult) []error {
	body := fmt.Sprintf("Entry %d for user %d was closed at %s. Recorded %.2fh, corrected %.2fh, difference %.2fh.",
		entry.ID, entry.UserID, entry.ClockOut.Format("2006-01-02 15:04"),
		result.WrongRecordedHours, result.CorrectedHours, result.DifferenceHours)
	if entry.CorrectionNote != nil {
		body += " Note: " + *entry.CorrectionNote
	}
	msg := domain.Notification{
		Title:    "Clock-out corrected",
		Body:     body,
		Severity: domain.SeverityInfo,
		Link:     entryLink(entry.ID),
	}
	recipients, errs := n.recipients(ctx, entry.UserID, false)
	return append(errs, n.send(ctx, msg, recipients...)...)
}

// Resolved tells the owner a reviewer has signed off an over-cap entry.
func (n *Notifier) Resolved(ctx context.Context, entry *domain.TimeEntry) []error {
	msg := domain.Notification{
		Title:    "Over-cap shift reviewed",
		Body:     fmt.Sprintf("Entry %d was reviewed and resolved.", entry.ID),
		Severity: domain.SeverityInfo,
		Link:     entryLink(entry.ID),
	}
	return n.send(ctx, msg, entry.UserID)
}

// recipients returns the reviewers, plus the owner when includeOwner is set,
// without duplicates. A lookup failure leaves only the owner and is returned
// as a notification error so callers can report the reviewers were missed.
func (n *Notifier) recipients(ctx context.Context, ownerID int64, includeOwner bool) ([]int64, []error) {
	var ids []int64
	seen := map[int64]bool{}
	if includeOwner {
		ids = append(ids, ownerID)
		seen[ownerID] = true
	}

	roles := make([]string, len(domain.ReviewerRoles))
	for i, r := range domain.ReviewerRoles {
		roles[i] = string(r)
	}
	reviewers, err := n.repo.ListUsersByRole(ctx, roles...)
	if err != nil {
		n.log.Warn().Err(err).Msg("could not load reviewers")
		return ids, []error{errors.NewNotificationError("reviewers", err)}
	}
	for _, u := range reviewers {
		if !seen[u.ID] {
			ids = append(ids, u.ID)
			seen[u.ID] = true
		}
	}
	return ids, nil
}

func (n *Notifier) send(ctx context.Context, msg domain.Notification, recipients ...int64) []error {
	var errs []error
	for _, id := range recipients {
		msg.RecipientID = id
		if err := n.sink.Emit(ctx, msg); err != nil {
			appErr := errors.NewNotificationError(strconv.FormatInt(id, 10), err)
			n.log.Warn().Err(err).Int64("recipient_id", id).Str("title", msg.Title).Msg("notification not delivered")
			errs = append(errs, appErr)
		}
	}
	return errs
}

func entryLink(id int64) string {
	return fmt.Sprintf("/entries/%d", id)
}
