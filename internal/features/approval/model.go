package approval

import (
	"time"

	"content-review/internal/features/role"
	"content-review/internal/features/scoring"
)

// Status is the approval lifecycle state of one record.
type Status string

const (
	StatusAutoApproved            Status = "auto_approved"
	StatusPendingReview           Status = "pending_review"
	StatusUnderReview             Status = "under_review"
	StatusAwaitingSecondApproval  Status = "awaiting_second_approval"
	StatusEscalated               Status = "escalated"
	StatusApproved                Status = "approved"
	StatusRejected                Status = "rejected"
	StatusRevisionRequired        Status = "revision_required"
)

// Terminal reports whether no further transition may leave this state.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// approvableStates are the preconditions of the approve transition. Escalated
// is included so the administrator a record was escalated to can resolve it.
var approvableStates = []Status{
	StatusPendingReview,
	StatusUnderReview,
	StatusAwaitingSecondApproval,
	StatusEscalated,
}

// rejectableStates: any non-terminal state may be rejected.
var rejectableStates = []Status{
	StatusAutoApproved,
	StatusPendingReview,
	StatusUnderReview,
	StatusAwaitingSecondApproval,
	StatusEscalated,
	StatusRevisionRequired,
}

type Priority string

const (
	PriorityAuto   Priority = "auto"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

type RoutingAction string

const (
	ActionAutoApprove    RoutingAction = "auto_approve"
	ActionFastTrack      RoutingAction = "fast_track_review"
	ActionStandardReview RoutingAction = "standard_review"
	ActionDetailedReview RoutingAction = "detailed_review"
	ActionAutoReject     RoutingAction = "auto_reject"
)

// RoutingDecision maps an overall score to what happens next.
type RoutingDecision struct {
	Action                 RoutingAction `json:"action"`
	Priority               Priority      `json:"priority"`
	AssignedRole           role.Role     `json:"assigned_role,omitempty"`
	EscalationTimeoutHours int           `json:"escalation_timeout_hours,omitempty"`
}

// ApprovalRecord tracks one content candidate through the moderation
// pipeline. Mutated exclusively through the workflow executor until it
// reaches a terminal state.
type ApprovalRecord struct {
	ID                 string                     `bson:"_id" json:"id"`
	ContentID          string                     `bson:"content_id" json:"content_id"`
	QualityScore       float64                    `bson:"quality_score" json:"quality_score"`
	QualityDetails     *scoring.QualityAssessment `bson:"quality_details,omitempty" json:"quality_details,omitempty"`
	RoutingAction      RoutingAction              `bson:"routing_action" json:"routing_action"`
	Priority           Priority                   `bson:"priority" json:"priority"`
	AssignedRole       string                     `bson:"assigned_role,omitempty" json:"assigned_role,omitempty"`
	AssignedTo         *string                    `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	Status             Status                     `bson:"status" json:"status"`
	CreatedAt          time.Time                  `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time                  `bson:"updated_at" json:"updated_at"`
	EscalationDeadline *time.Time                 `bson:"escalation_deadline,omitempty" json:"escalation_deadline,omitempty"`
	ApprovedBy         *string                    `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt         *time.Time                 `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	RejectedBy         *string                    `bson:"rejected_by,omitempty" json:"rejected_by,omitempty"`
	RejectedAt         *time.Time                 `bson:"rejected_at,omitempty" json:"rejected_at,omitempty"`
	RejectionReason    string                     `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	FirstApprovedBy    *string                    `bson:"first_approved_by,omitempty" json:"first_approved_by,omitempty"`
	EscalatedTo        *string                    `bson:"escalated_to,omitempty" json:"escalated_to,omitempty"`
	EscalatedAt        *time.Time                 `bson:"escalated_at,omitempty" json:"escalated_at,omitempty"`
	PublishedPostID    *string                    `bson:"published_post_id,omitempty" json:"published_post_id,omitempty"`
}

// ApprovalAction is one row of the append-only audit log of human-driven
// transitions. Never mutated or deleted.
type ApprovalAction struct {
	ID         string    `bson:"_id" json:"id"`
	ApprovalID string    `bson:"approval_id" json:"approval_id"`
	Action     string    `bson:"action" json:"action"`
	ActorID    string    `bson:"actor_id" json:"actor_id"`
	Notes      string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}

// Actor identifies the caller of a mutating transition.
type Actor struct {
	ID   string
	Role role.Role
}

// ListFilter narrows the approval queue listing.
type ListFilter struct {
	Status     string
	Priority   string
	AssignedTo string
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int64
	PerPage    int64
}

// BulkItemError captures one failed item of a bulk operation.
type BulkItemError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// BulkResult aggregates a bulk operation. Succeeded+Failed == len(ids).
type BulkResult struct {
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Errors    []BulkItemError `json:"errors,omitempty"`
}
