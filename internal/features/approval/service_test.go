package approval

import (
	"context"
	"testing"

	"content-review/internal/common/errs"
	"content-review/internal/config"
	"content-review/internal/features/notification"
	"content-review/internal/features/role"
	"content-review/internal/features/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assessment(score float64) *scoring.QualityAssessment {
	return &scoring.QualityAssessment{
		Success:      true,
		OverallScore: score,
	}
}

func (e *testEnv) adminActor() Actor {
	admin := e.users.byRole[role.RoleAdministrator]
	return Actor{ID: admin.ID.Hex(), Role: role.RoleAdministrator}
}

func (e *testEnv) editorActor() Actor {
	editor := e.users.byRole[role.RoleEditor]
	return Actor{ID: editor.ID.Hex(), Role: role.RoleEditor}
}

func TestCreateFromAssessmentAutoApprove(t *testing.T) {
	env := newTestEnv(nil)

	rec, err := env.service.CreateFromAssessment(context.Background(), "c-1", assessment(0.92))
	require.NoError(t, err)

	assert.Equal(t, StatusAutoApproved, rec.Status)
	assert.Equal(t, ActionAutoApprove, rec.RoutingAction)
	assert.Nil(t, rec.AssignedTo)
	assert.Nil(t, rec.EscalationDeadline)
	assert.NotNil(t, rec.QualityDetails)
}

func TestCreateFromAssessmentAutoReject(t *testing.T) {
	env := newTestEnv(nil)

	rec, err := env.service.CreateFromAssessment(context.Background(), "c-2", assessment(0.25))
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, rec.Status)
	require.NotNil(t, rec.RejectedBy)
	assert.Equal(t, "system", *rec.RejectedBy)
	assert.Equal(t, "quality score below threshold", rec.RejectionReason)
	assert.NotNil(t, rec.RejectedAt)
}

func TestCreateFromAssessmentManualReview(t *testing.T) {
	env := newTestEnv(nil)

	rec, err := env.service.CreateFromAssessment(context.Background(), "c-3", assessment(0.70))
	require.NoError(t, err)

	assert.Equal(t, StatusPendingReview, rec.Status)
	assert.Equal(t, ActionStandardReview, rec.RoutingAction)
	assert.Equal(t, PriorityNormal, rec.Priority)
	require.NotNil(t, rec.AssignedTo)
	assert.Equal(t, env.users.byRole[role.RoleEditor].ID.Hex(), *rec.AssignedTo)
	require.NotNil(t, rec.EscalationDeadline)

	assert.Contains(t, env.notifier.kinds, notification.NotificationTypeAssignment)
}

func TestCreateFromAssessmentDegradedForcesHumanReview(t *testing.T) {
	env := newTestEnv(nil)

	degraded := &scoring.QualityAssessment{Success: false, OverallScore: 0}
	rec, err := env.service.CreateFromAssessment(context.Background(), "c-4", degraded)
	require.NoError(t, err)

	// A failed assessment must never auto-reject on its zero score.
	assert.Equal(t, StatusPendingReview, rec.Status)
	assert.Equal(t, ActionDetailedReview, rec.RoutingAction)
	assert.Equal(t, string(role.RoleAdministrator), rec.AssignedRole)
}

func TestCreateFromAssessmentValidation(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	_, err := env.service.CreateFromAssessment(ctx, "", assessment(0.5))
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = env.service.CreateFromAssessment(ctx, "c", nil)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = env.service.CreateFromAssessment(ctx, "c", assessment(1.5))
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestApproveSingleMode(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	rec, err := env.service.CreateFromAssessment(ctx, "c-5", assessment(0.70))
	require.NoError(t, err)

	approved, err := env.service.Approve(ctx, rec.ID, env.editorActor(), "looks good")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Nil(t, approved.EscalationDeadline)

	actions, err := env.repo.ListActions(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "approve", actions[0].Action)
}

func TestApproveTerminalIsConflict(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	rec, err := env.service.CreateFromAssessment(ctx, "c-6", assessment(0.70))
	require.NoError(t, err)

	_, err = env.service.Approve(ctx, rec.ID, env.editorActor(), "")
	require.NoError(t, err)

	_, err = env.service.Approve(ctx, rec.ID, env.editorActor(), "")
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = env.service.Reject(ctx, rec.ID, env.editorActor(), "changed my mind", "")
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestApprovePermissionDeniedWithoutMutation(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	rec, err := env.service.CreateFromAssessment(ctx, "c-7", assessment(0.70))
	require.NoError(t, err)

	author := Actor{ID: "someone", Role: role.RoleAuthor}
	_, err = env.service.Approve(ctx, rec.ID, author, "")
	assert.ErrorIs(t, err, errs.ErrPermission)

	unchanged, err := env.repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, unchanged.Status)

	actions, err := env.repo.ListActions(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestApproveUnknownIDIsNotFound(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.service.Approve(context.Background(), "missing", env.editorActor(), "")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDualApproval(t *testing.T) {
	env := newTestEnv(func(cfg *config.Config) {
		cfg.RequireDualApproval = true
	})
	ctx := context.Background()

	rec, err := env.service.CreateFromAssessment(ctx, "c-8", assessment(0.70))
	require.NoError(t, err)

	editor := env.editorActor()
	first, err := env.service.Approve(ctx, rec.ID, editor, "")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingSecondApproval, first.Status)
	require.NotNil(t, first.FirstApprovedBy)
	assert.Equal(t, editor.ID, *first.FirstApprovedBy)
	assert.NotNil(t, first.EscalationDeadline, "second pass gets a fresh deadline")
	assert.Contains(t, env.notifier.kinds, notification.NotificationTypeSecondPass)

	// The same reviewer cannot supply the second approval.
	_, err = env.service.Approve(ctx, rec.ID, editor, "")
	assert.ErrorIs(t, err, errs.ErrConflict)

	final, err := env.service.Approve(ctx, rec.ID, env.adminActor(), "")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, final.Status)

	actions, err := env.repo.ListActions(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "first_approval", actions[0].Action)
	assert.Equal(t, "approve", actions[1].Action)
}

func TestRejectRequiresReason(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	rec, err := env.service.CreateFromAssessment(ctx, "c-9", assessment(0.70))
	require.NoError(t, err)

	_, err = env.service.Reject(ctx, rec.ID, env.editorActor(), "", "notes")
	assert.ErrorIs(t, err, errs.ErrValidation)

	rejected, err := env.service.Reject(ctx, rec.ID, env.editorActor(), "off topic", "")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Equal(t, "off topic", rejected.RejectionReason)
}

func TestBulkApproveIsolatesFailures(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	good, err := env.service.CreateFromAssessment(ctx, "c-10", assessment(0.70))
	require.NoError(t, err)

	// Already rejected, so a bulk approve on it must fail individually.
	bad, err := env.service.CreateFromAssessment(ctx, "c-11", assessment(0.25))
	require.NoError(t, err)

	result, err := env.service.BulkApprove(ctx, []string{good.ID, bad.ID}, env.editorActor(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, bad.ID, result.Errors[0].ID)

	approved, err := env.repo.GetByID(ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
}

func TestBulkLimits(t *testing.T) {
	env := newTestEnv(func(cfg *config.Config) {
		cfg.BulkOperationLimit = 2
	})
	ctx := context.Background()

	_, err := env.service.BulkApprove(ctx, nil, env.editorActor(), "")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = env.service.BulkApprove(ctx, []string{"a", "b", "c"}, env.editorActor(), "")
	assert.ErrorIs(t, err, errs.ErrValidation)

	author := Actor{ID: "x", Role: role.RoleAuthor}
	_, err = env.service.BulkApprove(ctx, []string{"a"}, author, "")
	assert.ErrorIs(t, err, errs.ErrPermission)
}

func TestAutoPublishOnApproval(t *testing.T) {
	env := newTestEnv(func(cfg *config.Config) {
		cfg.AutoPublishApproved = true
	})
	ctx := context.Background()

	rec, err := env.service.CreateFromAssessment(ctx, "c-12", assessment(0.92))
	require.NoError(t, err)
	assert.Equal(t, StatusAutoApproved, rec.Status)
	assert.Equal(t, 1, env.publisher.count)

	stored, err := env.repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PublishedPostID)
	assert.Equal(t, "post-c-12", *stored.PublishedPostID)
}
