package approval

import (
	"context"
	"fmt"
	"sync"
	"time"

	"content-review/internal/common/errs"
	"content-review/internal/config"
	"content-review/internal/features/audit"
	"content-review/internal/features/notification"
	"content-review/internal/features/publisher"
	"content-review/internal/features/role"
	"content-review/internal/features/scoring"
	"content-review/internal/features/user"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const systemActor = "system"

const autoRejectReason = "quality score below threshold"

// bulkWorkers bounds the concurrency of bulk operations.
const bulkWorkers = 8

// ApprovalService is the workflow executor: it creates records from routing
// decisions and enforces the state machine on every subsequent transition.
type ApprovalService interface {
	CreateFromAssessment(ctx context.Context, contentID string, assessment *scoring.QualityAssessment) (*ApprovalRecord, error)
	Get(ctx context.Context, id string) (*ApprovalRecord, []ApprovalAction, error)
	List(ctx context.Context, filter ListFilter) ([]ApprovalRecord, int64, error)
	Approve(ctx context.Context, id string, actor Actor, notes string) (*ApprovalRecord, error)
	Reject(ctx context.Context, id string, actor Actor, reason, notes string) (*ApprovalRecord, error)
	BulkApprove(ctx context.Context, ids []string, actor Actor, notes string) (BulkResult, error)
	BulkReject(ctx context.Context, ids []string, actor Actor, reason, notes string) (BulkResult, error)
	ExportToExcel(ctx context.Context, filter ListFilter) ([]byte, string, error)
}

type ApprovalServiceImpl struct {
	Repo                ApprovalRepository
	Router              *Router
	Matrix              *role.Matrix
	UserService         user.UserService
	NotificationService notification.NotificationService
	AuditService        audit.AuditService
	Publisher           publisher.Publisher
	Config              *config.Config
	Logger              *zap.Logger
}

func NewApprovalService(
	repo ApprovalRepository,
	router *Router,
	matrix *role.Matrix,
	userService user.UserService,
	notificationService notification.NotificationService,
	auditService audit.AuditService,
	pub publisher.Publisher,
	cfg *config.Config,
	logger *zap.Logger,
) ApprovalService {
	return &ApprovalServiceImpl{
		Repo:                repo,
		Router:              router,
		Matrix:              matrix,
		UserService:         userService,
		NotificationService: notificationService,
		AuditService:        auditService,
		Publisher:           pub,
		Config:              cfg,
		Logger:              logger,
	}
}

func (s *ApprovalServiceImpl) CreateFromAssessment(ctx context.Context, contentID string, assessment *scoring.QualityAssessment) (*ApprovalRecord, error) {
	if contentID == "" {
		return nil, errs.Validation("content id is required")
	}
	if assessment == nil {
		return nil, errs.Validation("assessment is required")
	}

	score := assessment.OverallScore
	if score < 0 || score > 1 {
		return nil, errs.Validation("quality score %v outside [0,1]", score)
	}

	var decision RoutingDecision
	if assessment.Success {
		decision = s.Router.Route(score)
	} else {
		// A degraded assessment must never reach an automatic decision;
		// force the most thorough human tier.
		decision = RoutingDecision{
			Action:                 ActionDetailedReview,
			Priority:               PriorityLow,
			AssignedRole:           role.RoleAdministrator,
			EscalationTimeoutHours: 72,
		}
	}

	now := time.Now()
	rec := &ApprovalRecord{
		ID:             uuid.NewString(),
		ContentID:      contentID,
		QualityScore:   score,
		QualityDetails: assessment,
		RoutingAction:  decision.Action,
		Priority:       decision.Priority,
		AssignedRole:   string(decision.AssignedRole),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	switch decision.Action {
	case ActionAutoApprove:
		rec.Status = StatusAutoApproved

	case ActionAutoReject:
		sys := systemActor
		rec.Status = StatusRejected
		rec.RejectedBy = &sys
		rec.RejectedAt = &now
		rec.RejectionReason = autoRejectReason

	default:
		rec.Status = StatusPendingReview
		deadline := now.Add(time.Duration(decision.EscalationTimeoutHours) * time.Hour)
		rec.EscalationDeadline = &deadline

		assignee, err := s.UserService.PickAssignee(ctx, decision.AssignedRole)
		if err != nil {
			// Unassigned records stay in the role queue; the sweeper
			// will escalate them if nobody picks them up.
			s.Logger.Warn("no assignee available for role",
				zap.String("role", string(decision.AssignedRole)),
				zap.Error(err))
		} else {
			id := assignee.ID.Hex()
			rec.AssignedTo = &id
		}
	}

	if err := s.Repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.AuditService.LogRouting(ctx, rec.ID, contentID, map[string]interface{}{
		"action":   string(decision.Action),
		"score":    score,
		"priority": string(decision.Priority),
		"status":   string(rec.Status),
	})

	// Commit first, then best-effort side effects.
	if rec.AssignedTo != nil {
		s.notify(ctx, *rec.AssignedTo, notification.NotificationTypeAssignment,
			"Content awaiting review",
			fmt.Sprintf("Content %s was routed to %s (score %.2f)", contentID, decision.Action, score),
			"/approvals/"+rec.ID)
	}

	if rec.Status == StatusAutoApproved && s.Config.AutoPublishApproved {
		s.publish(ctx, rec)
	}

	return rec, nil
}

func (s *ApprovalServiceImpl) Get(ctx context.Context, id string) (*ApprovalRecord, []ApprovalAction, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, errs.NotFound("approval %s", id)
	}
	actions, err := s.Repo.ListActions(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return rec, actions, nil
}

func (s *ApprovalServiceImpl) List(ctx context.Context, filter ListFilter) ([]ApprovalRecord, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 20
	}
	return s.Repo.List(ctx, filter)
}

func (s *ApprovalServiceImpl) Approve(ctx context.Context, id string, actor Actor, notes string) (*ApprovalRecord, error) {
	if !s.Matrix.Allows(actor.Role, role.CapabilityApprove) {
		return nil, errs.Permission("role %s lacks the approve capability", actor.Role)
	}

	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errs.NotFound("approval %s", id)
	}
	if !statusIn(rec.Status, approvableStates) {
		return nil, errs.Conflict("approval %s is %s and cannot be approved", id, rec.Status)
	}

	now := time.Now()

	if s.Config.RequireDualApproval && rec.Status != StatusAwaitingSecondApproval {
		return s.firstApproval(ctx, rec, actor, notes, now)
	}

	expected := approvableStates
	if s.Config.RequireDualApproval {
		if rec.FirstApprovedBy != nil && *rec.FirstApprovedBy == actor.ID {
			return nil, errs.Conflict("second approver must differ from the first")
		}
		expected = []Status{StatusAwaitingSecondApproval}
	}

	ok, err := s.Repo.MarkApproved(ctx, id, expected, actor.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Conflict("approval %s changed state concurrently", id)
	}

	s.appendAction(ctx, id, "approve", actor.ID, notes)

	updated, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Config.RequireDualApproval && updated.FirstApprovedBy != nil {
		s.notify(ctx, *updated.FirstApprovedBy, notification.NotificationTypeApproval,
			"Content fully approved",
			fmt.Sprintf("Content %s received its second approval", updated.ContentID),
			"/approvals/"+id)
	}

	if s.Config.AutoPublishApproved {
		s.publish(ctx, updated)
	}

	return updated, nil
}

// firstApproval handles the first leg of dual approval: the record moves to
// awaiting_second_approval and a distinct qualifying approver is located.
func (s *ApprovalServiceImpl) firstApproval(ctx context.Context, rec *ApprovalRecord, actor Actor, notes string, now time.Time) (*ApprovalRecord, error) {
	second, err := s.UserService.PickSecondApprover(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	deadline := now.Add(time.Duration(s.Config.EscalationTimeoutHours) * time.Hour)
	expected := []Status{StatusPendingReview, StatusUnderReview, StatusEscalated}

	ok, err := s.Repo.MarkAwaitingSecond(ctx, rec.ID, expected, actor.ID, second.ID.Hex(), deadline)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Conflict("approval %s changed state concurrently", rec.ID)
	}

	s.appendAction(ctx, rec.ID, "first_approval", actor.ID, notes)

	s.notify(ctx, second.ID.Hex(), notification.NotificationTypeSecondPass,
		"Second approval requested",
		fmt.Sprintf("Content %s needs your approval to finalize", rec.ContentID),
		"/approvals/"+rec.ID)

	return s.Repo.GetByID(ctx, rec.ID)
}

func (s *ApprovalServiceImpl) Reject(ctx context.Context, id string, actor Actor, reason, notes string) (*ApprovalRecord, error) {
	if !s.Matrix.Allows(actor.Role, role.CapabilityReject) {
		return nil, errs.Permission("role %s lacks the reject capability", actor.Role)
	}
	if reason == "" {
		return nil, errs.Validation("rejection reason is required")
	}

	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errs.NotFound("approval %s", id)
	}
	if !statusIn(rec.Status, rejectableStates) {
		return nil, errs.Conflict("approval %s is %s and cannot be rejected", id, rec.Status)
	}

	ok, err := s.Repo.MarkRejected(ctx, id, rejectableStates, actor.ID, reason, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Conflict("approval %s changed state concurrently", id)
	}

	actionNotes := reason
	if notes != "" {
		actionNotes = reason + ": " + notes
	}
	s.appendAction(ctx, id, "reject", actor.ID, actionNotes)

	return s.Repo.GetByID(ctx, id)
}

func (s *ApprovalServiceImpl) BulkApprove(ctx context.Context, ids []string, actor Actor, notes string) (BulkResult, error) {
	return s.bulk(ctx, ids, actor, func(ctx context.Context, id string) error {
		_, err := s.Approve(ctx, id, actor, notes)
		return err
	})
}

func (s *ApprovalServiceImpl) BulkReject(ctx context.Context, ids []string, actor Actor, reason, notes string) (BulkResult, error) {
	return s.bulk(ctx, ids, actor, func(ctx context.Context, id string) error {
		_, err := s.Reject(ctx, id, actor, reason, notes)
		return err
	})
}

// bulk runs one transition per id on a bounded worker pool. Items are
// independent: one failure never aborts the rest.
func (s *ApprovalServiceImpl) bulk(ctx context.Context, ids []string, actor Actor, op func(ctx context.Context, id string) error) (BulkResult, error) {
	if !s.Matrix.Allows(actor.Role, role.CapabilityBulkOps) {
		return BulkResult{}, errs.Permission("role %s lacks the bulk_operations capability", actor.Role)
	}
	if len(ids) == 0 {
		return BulkResult{}, errs.Validation("ids list is empty")
	}
	if len(ids) > s.Config.BulkOperationLimit {
		return BulkResult{}, errs.Validation("batch of %d exceeds the limit of %d", len(ids), s.Config.BulkOperationLimit)
	}

	workers := bulkWorkers
	if workers > len(ids) {
		workers = len(ids)
	}
	if workers > s.Config.BulkOperationLimit {
		workers = s.Config.BulkOperationLimit
	}

	var (
		mu     sync.Mutex
		result BulkResult
		wg     sync.WaitGroup
	)
	sem := make(chan struct{}, workers)

	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()

			err := op(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, BulkItemError{ID: id, Message: err.Error()})
			} else {
				result.Succeeded++
			}
		}(id)
	}
	wg.Wait()

	return result, nil
}

func (s *ApprovalServiceImpl) appendAction(ctx context.Context, approvalID, action, actorID, notes string) {
	err := s.Repo.AppendAction(ctx, ApprovalAction{
		ID:         uuid.NewString(),
		ApprovalID: approvalID,
		Action:     action,
		ActorID:    actorID,
		Notes:      notes,
		Timestamp:  time.Now(),
	})
	if err != nil {
		s.Logger.Error("failed to append approval action",
			zap.String("approval_id", approvalID),
			zap.String("action", action),
			zap.Error(err))
	}
}

// notify is best-effort; failures are logged and never surface to callers.
func (s *ApprovalServiceImpl) notify(ctx context.Context, recipientID string, kind notification.NotificationType, title, message, link string) {
	oid, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return
	}
	if err := s.NotificationService.Notify(ctx, oid, kind, title, message, link); err != nil {
		s.Logger.Warn("notification failed",
			zap.String("recipient", recipientID),
			zap.Error(err))
	}
}

func (s *ApprovalServiceImpl) publish(ctx context.Context, rec *ApprovalRecord) {
	postID, err := s.Publisher.Publish(ctx, rec.ContentID, rec.QualityScore)
	if err != nil {
		s.Logger.Error("auto-publish failed",
			zap.String("approval_id", rec.ID),
			zap.String("content_id", rec.ContentID),
			zap.Error(err))
		return
	}
	if err := s.Repo.SetPublishedPostID(ctx, rec.ID, postID); err != nil {
		s.Logger.Error("failed to record published post id",
			zap.String("approval_id", rec.ID),
			zap.Error(err))
		return
	}
	s.AuditService.LogPublish(ctx, rec.ID, map[string]interface{}{"post_id": postID})
}

func statusIn(s Status, set []Status) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}
