package scoring

// ContentMap is the structured content of one candidate: component name
// (hero, article, cta, ...) to its named text/URL fields.
type ContentMap map[string]map[string]string

// UserContext carries the optional personalization signals of the user the
// content was generated for.
type UserContext struct {
	Interests       map[string]float64 `json:"interests,omitempty"`
	PreferredTone   string             `json:"preferred_tone,omitempty"`
	DifficultyLevel string             `json:"difficulty_level,omitempty"`
}

// ContentCandidate is one machine-generated content item awaiting scoring.
type ContentCandidate struct {
	ContentID   string       `json:"content_id"`
	SearchQuery string       `json:"search_query"`
	Content     ContentMap   `json:"content"`
	UserContext *UserContext `json:"user_context,omitempty"`
}

// Recommendation is what the score suggests the routing layer should do.
type Recommendation string

const (
	RecommendAutoApprove  Recommendation = "auto_approve"
	RecommendManualReview Recommendation = "manual_review"
	RecommendAutoReject   Recommendation = "auto_reject"
)

// Suggestion is one actionable improvement emitted for a weak sub-score.
type Suggestion struct {
	Category   string   `json:"category" bson:"category"`
	Priority   string   `json:"priority" bson:"priority"`
	Suggestion string   `json:"suggestion" bson:"suggestion"`
	Details    []string `json:"details,omitempty" bson:"details,omitempty"`
}

// QualityAssessment is the immutable six-dimension verdict for one candidate.
type QualityAssessment struct {
	Success                bool                              `json:"success" bson:"success"`
	OverallScore           float64                           `json:"overall_score" bson:"overall_score"`
	ComponentScores        map[string]float64                `json:"component_scores" bson:"component_scores"`
	Recommendation         Recommendation                    `json:"approval_recommendation" bson:"approval_recommendation"`
	AssessmentDetails      map[string]map[string]interface{} `json:"assessment_details" bson:"assessment_details"`
	ImprovementSuggestions []Suggestion                      `json:"improvement_suggestions" bson:"improvement_suggestions"`
}
