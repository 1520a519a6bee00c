package approval

import (
	"context"
	"testing"
	"time"

	"content-review/internal/features/audit"
	"content-review/internal/features/notification"
	"content-review/internal/features/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSweeper(env *testEnv) EscalationService {
	return NewEscalationService(
		env.repo,
		env.users,
		env.notifier,
		env.audit,
		testConfig(),
		zap.NewNop(),
	)
}

func TestSweepEscalatesOverdueRecords(t *testing.T) {
	env := newTestEnv(nil)
	sweeper := newSweeper(env)
	ctx := context.Background()

	rec, err := env.service.CreateFromAssessment(ctx, "c-esc", assessment(0.70))
	require.NoError(t, err)
	require.NotNil(t, rec.EscalationDeadline)

	// Not yet overdue: nothing happens.
	escalated, err := sweeper.Sweep(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, escalated)

	past := rec.EscalationDeadline.Add(time.Hour)
	escalated, err = sweeper.Sweep(ctx, past)
	require.NoError(t, err)
	require.Equal(t, []string{rec.ID}, escalated)

	stored, err := env.repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusEscalated, stored.Status)
	assert.Nil(t, stored.EscalationDeadline)
	require.NotNil(t, stored.EscalatedTo)
	assert.Equal(t, env.users.byRole[role.RoleAdministrator].ID.Hex(), *stored.EscalatedTo)
	assert.NotNil(t, stored.EscalatedAt)

	assert.Contains(t, env.notifier.kinds, notification.NotificationTypeEscalation)
	assert.Contains(t, env.audit.types, audit.EventTypeEscalation)

	// Escalation is system-driven: it lands in the audit event log only,
	// never in the reviewer action log.
	actions, err := env.repo.ListActions(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestSweepIsIdempotent(t *testing.T) {
	env := newTestEnv(nil)
	sweeper := newSweeper(env)
	ctx := context.Background()

	rec, err := env.service.CreateFromAssessment(ctx, "c-esc-2", assessment(0.70))
	require.NoError(t, err)

	past := rec.EscalationDeadline.Add(time.Hour)

	first, err := sweeper.Sweep(ctx, past)
	require.NoError(t, err)
	require.Len(t, first, 1)

	afterFirst, err := env.repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, afterFirst.EscalatedAt)
	firstEscalatedAt := *afterFirst.EscalatedAt
	notified := len(env.notifier.kinds)

	// A second pass over the same horizon finds nothing left to claim.
	second, err := sweeper.Sweep(ctx, past)
	require.NoError(t, err)
	assert.Empty(t, second)

	afterSecond, err := env.repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, afterSecond.EscalatedAt)
	assert.Equal(t, firstEscalatedAt, *afterSecond.EscalatedAt)
	assert.Equal(t, notified, len(env.notifier.kinds), "no second notification")
}

func TestEscalatedRecordStaysDecidable(t *testing.T) {
	env := newTestEnv(nil)
	sweeper := newSweeper(env)
	ctx := context.Background()

	rec, err := env.service.CreateFromAssessment(ctx, "c-esc-3", assessment(0.70))
	require.NoError(t, err)

	_, err = sweeper.Sweep(ctx, rec.EscalationDeadline.Add(time.Hour))
	require.NoError(t, err)

	approved, err := env.service.Approve(ctx, rec.ID, env.adminActor(), "resolved after escalation")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
}
