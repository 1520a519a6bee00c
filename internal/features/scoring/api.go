package scoring

import (
	"content-review/internal/config"
	"content-review/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ScoringApi struct {
	controller *ScoringController
	config     *config.Config
}

func NewScoringApi(controller *ScoringController, config *config.Config) *ScoringApi {
	return &ScoringApi{
		controller: controller,
		config:     config,
	}
}

func (h *ScoringApi) Setup(app *fiber.App) {
	group := app.Group("/api/scoring", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/assess", h.controller.Assess)
}
