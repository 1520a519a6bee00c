package approval

import (
	"context"

	"content-review/internal/features/scoring"
)

// ScoringTrigger adapts the approval service to the scoring package's
// RecordCreator so a finished assessment can open a workflow record
// without the scoring package importing this one.
type ScoringTrigger struct {
	Service ApprovalService
}

func NewScoringTrigger(service ApprovalService) *ScoringTrigger {
	return &ScoringTrigger{Service: service}
}

func (t *ScoringTrigger) CreateFromAssessment(ctx context.Context, contentID string, assessment *scoring.QualityAssessment) (scoring.RecordRef, error) {
	rec, err := t.Service.CreateFromAssessment(ctx, contentID, assessment)
	if err != nil {
		return scoring.RecordRef{}, err
	}
	return scoring.RecordRef{
		ID:     rec.ID,
		Status: string(rec.Status),
		Action: string(rec.RoutingAction),
	}, nil
}
