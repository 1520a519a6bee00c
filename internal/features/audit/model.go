package audit

import "time"

type EventType string

const (
	EventTypeRouting    EventType = "routing"
	EventTypeEscalation EventType = "escalation"
	EventTypePublish    EventType = "publish"
)

// Event is a system-driven log entry. Record creation/routing and escalation
// are captured here; human transitions live in the approval action log.
type Event struct {
	ID         string                 `bson:"_id" json:"id"`
	ApprovalID string                 `bson:"approval_id" json:"approval_id"`
	ContentID  string                 `bson:"content_id,omitempty" json:"content_id,omitempty"`
	Type       EventType              `bson:"type" json:"type"`
	Actor      string                 `bson:"actor" json:"actor"`
	Detail     map[string]interface{} `bson:"detail,omitempty" json:"detail,omitempty"`
	Timestamp  time.Time              `bson:"timestamp" json:"timestamp"`
}
