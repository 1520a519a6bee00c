package approval

import (
	"content-review/internal/config"
	"content-review/internal/features/role"
	"content-review/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApprovalApi struct {
	controller *ApprovalController
	matrix     *role.Matrix
	config     *config.Config
}

func NewApprovalApi(controller *ApprovalController, matrix *role.Matrix, config *config.Config) *ApprovalApi {
	return &ApprovalApi{
		controller: controller,
		matrix:     matrix,
		config:     config,
	}
}

func (h *ApprovalApi) Setup(app *fiber.App) {
	group := app.Group("/api/approvals", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", middleware.RequireCapability(h.matrix, role.CapabilityViewQueue), h.controller.List)
	group.Get("/export", middleware.RequireCapability(h.matrix, role.CapabilityViewQueue), h.controller.Export)

	group.Post("/bulk/approve", middleware.RequireCapability(h.matrix, role.CapabilityBulkOps), h.controller.BulkApprove)
	group.Post("/bulk/reject", middleware.RequireCapability(h.matrix, role.CapabilityBulkOps), h.controller.BulkReject)

	group.Get("/:id", middleware.RequireCapability(h.matrix, role.CapabilityViewQueue), h.controller.Get)
	group.Post("/:id/approve", middleware.RequireCapability(h.matrix, role.CapabilityApprove), h.controller.Approve)
	group.Post("/:id/reject", middleware.RequireCapability(h.matrix, role.CapabilityReject), h.controller.Reject)
}
