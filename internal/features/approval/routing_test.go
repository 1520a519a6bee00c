package approval

import (
	"testing"

	"content-review/internal/config"
	"content-review/internal/features/role"

	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	return &config.Config{
		EscalationTimeoutHours: 48,
		BulkOperationLimit:     50,
		Thresholds: config.RoutingThresholds{
			AutoApprove:    0.85,
			FastTrack:      0.75,
			StandardReview: 0.60,
			DetailedReview: 0.40,
		},
	}
}

func TestRoute(t *testing.T) {
	router := NewRouter(testConfig())

	tests := []struct {
		name         string
		score        float64
		wantAction   RoutingAction
		wantPriority Priority
		wantRole     role.Role
		wantTimeout  int
	}{
		{"well above auto approve", 0.95, ActionAutoApprove, PriorityAuto, "", 0},
		{"exactly at auto approve", 0.85, ActionAutoApprove, PriorityAuto, "", 0},
		{"just below auto approve", 0.84, ActionFastTrack, PriorityHigh, role.RoleEditor, 24},
		{"exactly at fast track", 0.75, ActionFastTrack, PriorityHigh, role.RoleEditor, 24},
		{"standard review", 0.70, ActionStandardReview, PriorityNormal, role.RoleEditor, 48},
		{"exactly at standard", 0.60, ActionStandardReview, PriorityNormal, role.RoleEditor, 48},
		{"detailed review", 0.50, ActionDetailedReview, PriorityLow, role.RoleAdministrator, 72},
		{"exactly at detailed", 0.40, ActionDetailedReview, PriorityLow, role.RoleAdministrator, 72},
		{"below detailed", 0.39, ActionAutoReject, PriorityAuto, "", 0},
		{"zero", 0, ActionAutoReject, PriorityAuto, "", 0},
		{"one", 1, ActionAutoApprove, PriorityAuto, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := router.Route(tt.score)
			assert.Equal(t, tt.wantAction, got.Action)
			assert.Equal(t, tt.wantPriority, got.Priority)
			assert.Equal(t, tt.wantRole, got.AssignedRole)
			assert.Equal(t, tt.wantTimeout, got.EscalationTimeoutHours)
		})
	}
}

func TestRouteIsTotal(t *testing.T) {
	router := NewRouter(testConfig())

	// Every score in [0,1] must land in exactly one tier.
	for i := 0; i <= 100; i++ {
		score := float64(i) / 100
		got := router.Route(score)
		assert.NotEmpty(t, got.Action, "score %v produced no action", score)
	}
}
