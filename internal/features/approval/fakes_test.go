package approval

import (
	"context"
	"sync"
	"time"

	"content-review/internal/common/errs"
	"content-review/internal/config"
	"content-review/internal/features/audit"
	"content-review/internal/features/notification"
	"content-review/internal/features/role"
	"content-review/internal/features/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeRepo is an in-memory ApprovalRepository with the same conditional
// transition semantics as the Mongo implementation.
type fakeRepo struct {
	mu      sync.Mutex
	records map[string]*ApprovalRecord
	actions []ApprovalAction
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]*ApprovalRecord{}}
}

func (r *fakeRepo) Create(_ context.Context, rec *ApprovalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) ([]ApprovalRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ApprovalRecord
	for _, rec := range r.records {
		if filter.Status != "" && string(rec.Status) != filter.Status {
			continue
		}
		if filter.Priority != "" && string(rec.Priority) != filter.Priority {
			continue
		}
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) FindOverdue(_ context.Context, now time.Time) ([]ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ApprovalRecord
	for _, rec := range r.records {
		if rec.Status != StatusPendingReview && rec.Status != StatusUnderReview {
			continue
		}
		if rec.EscalationDeadline != nil && rec.EscalationDeadline.Before(now) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) transition(id string, expected []Status, mutate func(*ApprovalRecord)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, s := range expected {
		if rec.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	mutate(rec)
	rec.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeRepo) MarkApproved(_ context.Context, id string, expected []Status, approverID string, at time.Time) (bool, error) {
	return r.transition(id, expected, func(rec *ApprovalRecord) {
		rec.Status = StatusApproved
		rec.ApprovedBy = &approverID
		rec.ApprovedAt = &at
		rec.EscalationDeadline = nil
	})
}

func (r *fakeRepo) MarkAwaitingSecond(_ context.Context, id string, expected []Status, firstApproverID, secondAssigneeID string, deadline time.Time) (bool, error) {
	return r.transition(id, expected, func(rec *ApprovalRecord) {
		rec.Status = StatusAwaitingSecondApproval
		rec.FirstApprovedBy = &firstApproverID
		rec.AssignedTo = &secondAssigneeID
		rec.EscalationDeadline = &deadline
	})
}

func (r *fakeRepo) MarkRejected(_ context.Context, id string, expected []Status, rejectorID, reason string, at time.Time) (bool, error) {
	return r.transition(id, expected, func(rec *ApprovalRecord) {
		rec.Status = StatusRejected
		rec.RejectedBy = &rejectorID
		rec.RejectedAt = &at
		rec.RejectionReason = reason
		rec.EscalationDeadline = nil
	})
}

func (r *fakeRepo) MarkEscalated(_ context.Context, id string, expected []Status, escalatedTo string, at time.Time) (bool, error) {
	return r.transition(id, expected, func(rec *ApprovalRecord) {
		rec.Status = StatusEscalated
		rec.AssignedTo = &escalatedTo
		rec.EscalatedTo = &escalatedTo
		rec.EscalatedAt = &at
		rec.EscalationDeadline = nil
	})
}

func (r *fakeRepo) SetPublishedPostID(_ context.Context, id, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		rec.PublishedPostID = &postID
	}
	return nil
}

func (r *fakeRepo) AppendAction(_ context.Context, action ApprovalAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	return nil
}

func (r *fakeRepo) ListActions(_ context.Context, approvalID string) ([]ApprovalAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ApprovalAction
	for _, a := range r.actions {
		if a.ApprovalID == approvalID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) EnsureIndexes(_ context.Context) error { return nil }

// fakeUsers hands out a fixed reviewer per role.
type fakeUsers struct {
	byRole map[role.Role]*user.User
	second *user.User
}

func newFakeUsers() *fakeUsers {
	editor := &user.User{ID: primitive.NewObjectID(), Username: "editor", Role: string(role.RoleEditor)}
	admin := &user.User{ID: primitive.NewObjectID(), Username: "admin", Role: string(role.RoleAdministrator)}
	return &fakeUsers{
		byRole: map[role.Role]*user.User{
			role.RoleEditor:        editor,
			role.RoleAdministrator: admin,
		},
		second: admin,
	}
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	for _, u := range f.byRole {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, errs.NotFound("user %s", id)
}

func (f *fakeUsers) List(_ context.Context, _ string, _, _ int64) ([]user.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUsers) PickAssignee(_ context.Context, r role.Role) (*user.User, error) {
	u, ok := f.byRole[r]
	if !ok {
		return nil, errs.NotFound("no active user with role %s", r)
	}
	return u, nil
}

func (f *fakeUsers) PickSecondApprover(_ context.Context, excludeUserID string) (*user.User, error) {
	if f.second.ID.Hex() == excludeUserID {
		for _, u := range f.byRole {
			if u.ID.Hex() != excludeUserID {
				return u, nil
			}
		}
		return nil, errs.NotFound("no distinct second approver available")
	}
	return f.second, nil
}

// fakeNotifier records each notification it receives.
type fakeNotifier struct {
	mu    sync.Mutex
	kinds []notification.NotificationType
}

func (f *fakeNotifier) Notify(_ context.Context, _ primitive.ObjectID, kind notification.NotificationType, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kind)
	return nil
}

func (f *fakeNotifier) GetUserNotifications(_ context.Context, _ primitive.ObjectID, _, _ int64) ([]notification.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotifier) GetUnreadCount(_ context.Context, _ primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (f *fakeNotifier) MarkAsRead(_ context.Context, _ string, _ primitive.ObjectID) error {
	return nil
}

func (f *fakeNotifier) MarkAllAsRead(_ context.Context, _ primitive.ObjectID) error { return nil }

// fakeAudit records event types.
type fakeAudit struct {
	mu    sync.Mutex
	types []audit.EventType
}

func (f *fakeAudit) record(t audit.EventType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, t)
}

func (f *fakeAudit) LogRouting(_ context.Context, _, _ string, _ map[string]interface{}) {
	f.record(audit.EventTypeRouting)
}

func (f *fakeAudit) LogEscalation(_ context.Context, _ string, _ map[string]interface{}) {
	f.record(audit.EventTypeEscalation)
}

func (f *fakeAudit) LogPublish(_ context.Context, _ string, _ map[string]interface{}) {
	f.record(audit.EventTypePublish)
}

func (f *fakeAudit) List(_ context.Context, _ string, _, _ int64) ([]audit.Event, error) {
	return nil, nil
}

// fakePublisher counts publishes.
type fakePublisher struct {
	mu    sync.Mutex
	count int
}

func (f *fakePublisher) Publish(_ context.Context, contentID string, _ float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return "post-" + contentID, nil
}

func (f *fakePublisher) Close() error { return nil }

type testEnv struct {
	repo      *fakeRepo
	users     *fakeUsers
	notifier  *fakeNotifier
	audit     *fakeAudit
	publisher *fakePublisher
	service   ApprovalService
}

func newTestEnv(mutateCfg func(*config.Config)) *testEnv {
	cfg := testConfig()
	if mutateCfg != nil {
		mutateCfg(cfg)
	}

	env := &testEnv{
		repo:      newFakeRepo(),
		users:     newFakeUsers(),
		notifier:  &fakeNotifier{},
		audit:     &fakeAudit{},
		publisher: &fakePublisher{},
	}
	env.service = NewApprovalService(
		env.repo,
		NewRouter(cfg),
		role.DefaultMatrix(),
		env.users,
		env.notifier,
		env.audit,
		env.publisher,
		cfg,
		zap.NewNop(),
	)
	return env
}
