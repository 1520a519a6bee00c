package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// NotificationService is the dispatcher consumed by the workflow executor and
// the escalation sweeper. Notify is best-effort: callers log the returned
// error and never let it affect the workflow result.
type NotificationService interface {
	Notify(ctx context.Context, recipientID primitive.ObjectID, kind NotificationType, title, message, link string) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, id string, userID primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error
}

type NotificationServiceImpl struct {
	Repo   NotificationRepository
	Hub    *Hub
	Logger *zap.Logger
}

func NewNotificationService(repo NotificationRepository, hub *Hub, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		Repo:   repo,
		Hub:    hub,
		Logger: logger,
	}
}

func (s *NotificationServiceImpl) Notify(ctx context.Context, recipientID primitive.ObjectID, kind NotificationType, title, message, link string) error {
	n := &Notification{
		UserID:  recipientID,
		Title:   title,
		Message: message,
		Type:    kind,
		Link:    link,
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		s.Logger.Warn("failed to persist notification",
			zap.String("recipient", recipientID.Hex()),
			zap.Error(err))
		return err
	}

	s.Hub.Push(recipientID.Hex(), n)
	return nil
}

func (s *NotificationServiceImpl) GetUserNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.Repo.FindByUser(ctx, userID, page, limit)
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.Repo.CountUnread(ctx, userID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string, userID primitive.ObjectID) error {
	return s.Repo.MarkAsRead(ctx, id, userID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.Repo.MarkAllAsRead(ctx, userID)
}
