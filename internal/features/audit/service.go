package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const systemActor = "system"

type AuditService interface {
	LogRouting(ctx context.Context, approvalID, contentID string, detail map[string]interface{})
	LogEscalation(ctx context.Context, approvalID string, detail map[string]interface{})
	LogPublish(ctx context.Context, approvalID string, detail map[string]interface{})
	List(ctx context.Context, approvalID string, limit, offset int64) ([]Event, error)
}

type AuditServiceImpl struct {
	Repo   AuditRepository
	Logger *zap.Logger
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{Repo: repo, Logger: logger}
}

func (s *AuditServiceImpl) log(ctx context.Context, t EventType, approvalID, contentID string, detail map[string]interface{}) {
	event := Event{
		ID:         uuid.NewString(),
		ApprovalID: approvalID,
		ContentID:  contentID,
		Type:       t,
		Actor:      systemActor,
		Detail:     detail,
		Timestamp:  time.Now(),
	}
	if err := s.Repo.Create(ctx, event); err != nil {
		s.Logger.Warn("failed to write audit event",
			zap.String("approval_id", approvalID),
			zap.String("type", string(t)),
			zap.Error(err))
	}
}

func (s *AuditServiceImpl) LogRouting(ctx context.Context, approvalID, contentID string, detail map[string]interface{}) {
	s.log(ctx, EventTypeRouting, approvalID, contentID, detail)
}

func (s *AuditServiceImpl) LogEscalation(ctx context.Context, approvalID string, detail map[string]interface{}) {
	s.log(ctx, EventTypeEscalation, approvalID, "", detail)
}

func (s *AuditServiceImpl) LogPublish(ctx context.Context, approvalID string, detail map[string]interface{}) {
	s.log(ctx, EventTypePublish, approvalID, "", detail)
}

func (s *AuditServiceImpl) List(ctx context.Context, approvalID string, limit, offset int64) ([]Event, error) {
	return s.Repo.List(ctx, map[string]interface{}{"approval_id": approvalID}, limit, offset)
}
