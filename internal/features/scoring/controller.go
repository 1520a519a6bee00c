package scoring

import (
	"context"

	"content-review/internal/common/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RecordRef is the minimal view of the approval record created for an
// assessment, returned alongside the assessment itself.
type RecordRef struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Action string `json:"routing_action"`
}

// RecordCreator routes a finished assessment into the approval workflow.
// Implemented by the approval feature; declared here to keep the dependency
// one-way.
type RecordCreator interface {
	CreateFromAssessment(ctx context.Context, contentID string, assessment *QualityAssessment) (RecordRef, error)
}

type ScoringController struct {
	Service ScoringService
	Records RecordCreator
}

func NewScoringController(service ScoringService, records RecordCreator) *ScoringController {
	return &ScoringController{
		Service: service,
		Records: records,
	}
}

// Assess godoc
// @Summary Score a content candidate and route it for approval
// @Description Computes the six-dimension quality assessment and creates the approval record the score routes to
// @Tags scoring
// @Accept json
// @Produce json
// @Param candidate body ContentCandidate true "Content candidate"
// @Success 200 {object} map[string]interface{} "assessment and approval record reference"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/scoring/assess [post]
func (c *ScoringController) Assess(ctx *fiber.Ctx) error {
	var candidate ContentCandidate
	if err := ctx.BodyParser(&candidate); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if candidate.ContentID == "" {
		candidate.ContentID = uuid.NewString()
	}

	assessment, err := c.Service.Assess(ctx.UserContext(), &candidate)
	if err != nil {
		return ctx.Status(errs.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
	}

	ref, err := c.Records.CreateFromAssessment(ctx.UserContext(), candidate.ContentID, assessment)
	if err != nil {
		return ctx.Status(errs.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"content_id": candidate.ContentID,
		"assessment": assessment,
		"approval":   ref,
	})
}
