package services

import (
	"context"
	"strings"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
	"shift-tracker/internal/repository/sqlite"
)

// notificationServiceImpl implements the NotificationService interface
type notificationServiceImpl struct {
	repo   sqlite.Repository
	clock  clock.Clock
	mapper *domain.Mapper
}

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(deps Dependencies) NotificationService {
	return &notificationServiceImpl{
		repo:   deps.Repo,
		clock:  deps.Clock,
		mapper: domain.NewMapper(),
	}
}

// List returns a recipient's inbox, newest first
func (n *notificationServiceImpl) List(ctx context.Context, recipientID int64, unreadOnly bool) ([]*domain.Notification, error) {
	rows, err := n.repo.ListNotifications(ctx, recipientID, unreadOnly)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Notification, len(rows))
	for i, row := range rows {
		d := n.mapper.Notification.FromDatabase(*row)
		out[i] = &d
	}
	return out, nil
}

// MarkRead stamps a notification as read
func (n *notificationServiceImpl) MarkRead(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.NewInvalidInputError("notification id", id, "cannot be empty")
	}
	return n.repo.MarkNotificationRead(ctx, id, n.clock.Now())
}
