package approval

import (
	"content-review/internal/config"
	"content-review/internal/features/role"
)

// Router is the score → routing decision table. Thresholds are ordered and
// inclusive: a score equal to a threshold satisfies it. Total and
// deterministic over [0,1].
type Router struct {
	thresholds      config.RoutingThresholds
	standardTimeout int
}

func NewRouter(cfg *config.Config) *Router {
	return &Router{
		thresholds:      cfg.Thresholds,
		standardTimeout: cfg.EscalationTimeoutHours,
	}
}

// Route returns the first matching tier for the overall score.
func (r *Router) Route(score float64) RoutingDecision {
	switch {
	case score >= r.thresholds.AutoApprove:
		return RoutingDecision{
			Action:   ActionAutoApprove,
			Priority: PriorityAuto,
		}
	case score >= r.thresholds.FastTrack:
		return RoutingDecision{
			Action:                 ActionFastTrack,
			Priority:               PriorityHigh,
			AssignedRole:           role.RoleEditor,
			EscalationTimeoutHours: 24,
		}
	case score >= r.thresholds.StandardReview:
		return RoutingDecision{
			Action:                 ActionStandardReview,
			Priority:               PriorityNormal,
			AssignedRole:           role.RoleEditor,
			EscalationTimeoutHours: r.standardTimeout,
		}
	case score >= r.thresholds.DetailedReview:
		return RoutingDecision{
			Action:                 ActionDetailedReview,
			Priority:               PriorityLow,
			AssignedRole:           role.RoleAdministrator,
			EscalationTimeoutHours: 72,
		}
	default:
		return RoutingDecision{
			Action:   ActionAutoReject,
			Priority: PriorityAuto,
		}
	}
}
