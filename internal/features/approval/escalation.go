package approval

import (
	"context"
	"fmt"
	"time"

	"content-review/internal/config"
	"content-review/internal/features/audit"
	"content-review/internal/features/notification"
	"content-review/internal/features/role"
	"content-review/internal/features/user"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EscalationService periodically sweeps for records whose escalation
// deadline has passed and moves them to an administrator queue.
type EscalationService interface {
	Sweep(ctx context.Context, now time.Time) ([]string, error)
	StartScheduler()
	StopScheduler()
}

type EscalationServiceImpl struct {
	Repo                ApprovalRepository
	UserService         user.UserService
	NotificationService notification.NotificationService
	AuditService        audit.AuditService
	Config              *config.Config
	Logger              *zap.Logger
	cron                *cron.Cron
}

func NewEscalationService(
	repo ApprovalRepository,
	userService user.UserService,
	notificationService notification.NotificationService,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) EscalationService {
	return &EscalationServiceImpl{
		Repo:                repo,
		UserService:         userService,
		NotificationService: notificationService,
		AuditService:        auditService,
		Config:              cfg,
		Logger:              logger,
	}
}

// Sweep escalates every overdue record it can claim and returns the ids it
// escalated. The transition is conditional on the record still being in a
// pre-escalation state, so concurrent sweeps (or a reviewer acting at the
// same moment) each claim a record at most once.
func (s *EscalationServiceImpl) Sweep(ctx context.Context, now time.Time) ([]string, error) {
	overdue, err := s.Repo.FindOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	var escalated []string
	for i := range overdue {
		rec := &overdue[i]

		id, err := s.escalateOne(ctx, rec, now)
		if err != nil {
			s.Logger.Error("escalation failed",
				zap.String("approval_id", rec.ID),
				zap.Error(err))
			continue
		}
		if id != "" {
			escalated = append(escalated, id)
		}
	}

	if len(escalated) > 0 {
		s.Logger.Info("escalation sweep complete",
			zap.Int("escalated", len(escalated)),
			zap.Int("overdue", len(overdue)))
	}
	return escalated, nil
}

func (s *EscalationServiceImpl) escalateOne(ctx context.Context, rec *ApprovalRecord, now time.Time) (string, error) {
	admin, err := s.UserService.PickAssignee(ctx, role.RoleAdministrator)
	if err != nil {
		return "", fmt.Errorf("no administrator available: %w", err)
	}
	adminID := admin.ID.Hex()

	expected := []Status{StatusPendingReview, StatusUnderReview}
	ok, err := s.Repo.MarkEscalated(ctx, rec.ID, expected, adminID, now)
	if err != nil {
		return "", err
	}
	if !ok {
		// Someone else already moved the record; nothing to do.
		return "", nil
	}

	// System-driven: recorded as an escalation audit event, not an
	// ApprovalAction row. Those are reserved for reviewer transitions.
	s.AuditService.LogEscalation(ctx, rec.ID, map[string]interface{}{
		"content_id":   rec.ContentID,
		"escalated_to": adminID,
		"deadline":     rec.EscalationDeadline,
	})

	if oid, err := primitive.ObjectIDFromHex(adminID); err == nil {
		if err := s.NotificationService.Notify(ctx, oid, notification.NotificationTypeEscalation,
			"Review escalated to you",
			fmt.Sprintf("Content %s exceeded its review deadline", rec.ContentID),
			"/approvals/"+rec.ID); err != nil {
			s.Logger.Warn("escalation notification failed",
				zap.String("approval_id", rec.ID),
				zap.Error(err))
		}
	}

	return rec.ID, nil
}

func (s *EscalationServiceImpl) StartScheduler() {
	s.cron = cron.New()

	spec := fmt.Sprintf("@every %dm", s.Config.SweepIntervalMinutes)
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := s.Sweep(ctx, time.Now()); err != nil {
			s.Logger.Error("escalation sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		s.Logger.Error("failed to schedule escalation sweep", zap.Error(err))
		return
	}

	s.cron.Start()
	s.Logger.Info("escalation scheduler started", zap.String("cadence", spec))
}

func (s *EscalationServiceImpl) StopScheduler() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
