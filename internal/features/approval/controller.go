package approval

import (
	"time"

	"content-review/internal/common/errs"
	"content-review/internal/features/role"
	"content-review/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ApprovalController struct {
	Service ApprovalService
}

func NewApprovalController(service ApprovalService) *ApprovalController {
	return &ApprovalController{Service: service}
}

type decisionRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

type bulkRequest struct {
	IDs    []string `json:"ids"`
	Reason string   `json:"reason"`
	Notes  string   `json:"notes"`
}

func actorFromCtx(ctx *fiber.Ctx) (Actor, bool) {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return Actor{}, false
	}
	return Actor{ID: claims.UserID, Role: role.Role(claims.Role)}, true
}

func parseFilter(ctx *fiber.Ctx) ListFilter {
	filter := ListFilter{
		Status:     ctx.Query("status"),
		Priority:   ctx.Query("priority"),
		AssignedTo: ctx.Query("assigned_to"),
		Page:       int64(ctx.QueryInt("page", 1)),
		PerPage:    int64(ctx.QueryInt("per_page", 20)),
	}
	if from := ctx.Query("date_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.DateFrom = &t
		}
	}
	if to := ctx.Query("date_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.DateTo = &t
		}
	}
	return filter
}

// List godoc
// @Summary List approval records
// @Description Returns the approval queue filtered by status, priority, assignee and creation date
// @Tags approvals
// @Produce json
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param assigned_to query string false "Assignee user id"
// @Param date_from query string false "Created-after filter (RFC3339)"
// @Param date_to query string false "Created-before filter (RFC3339)"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /api/approvals [get]
func (c *ApprovalController) List(ctx *fiber.Ctx) error {
	filter := parseFilter(ctx)

	records, total, err := c.Service.List(ctx.UserContext(), filter)
	if err != nil {
		return ctx.Status(errs.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"data":     records,
		"total":    total,
		"page":     filter.Page,
		"per_page": filter.PerPage,
	})
}

// Export godoc
// @Summary Export approval records to Excel
// @Description Renders the filtered approval queue as an xlsx workbook
// @Tags approvals
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Success 200 {file} binary
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /api/approvals/export [get]
func (c *ApprovalController) Export(ctx *fiber.Ctx) error {
	filter := parseFilter(ctx)

	data, filename, err := c.Service.ExportToExcel(ctx.UserContext(), filter)
	if err != nil {
		return ctx.Status(errs.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Send(data)
}

// Get godoc
// @Summary Get an approval record
// @Description Returns one approval record with its action history
// @Tags approvals
// @Produce json
// @Param id path string true "Approval id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Not found"
// @Router /api/approvals/{id} [get]
func (c *ApprovalController) Get(ctx *fiber.Ctx) error {
	rec, actions, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(errs.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"data":    rec,
		"actions": actions,
	})
}

// Approve godoc
// @Summary Approve a reviewable record
// @Description Moves the record toward approval; with dual approval enabled the first call parks it awaiting a second approver
// @Tags approvals
// @Accept json
// @Produce json
// @Param id path string true "Approval id"
// @Param body body decisionRequest false "Optional notes"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "State conflict"
// @Router /api/approvals/{id}/approve [post]
func (c *ApprovalController) Approve(ctx *fiber.Ctx) error {
	actor, ok := actorFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req decisionRequest
	_ = ctx.BodyParser(&req)

	rec, err := c.Service.Approve(ctx.UserContext(), ctx.Params("id"), actor, req.Notes)
	if err != nil {
		return ctx.Status(errs.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"data": rec})
}

// Reject godoc
// @Summary Reject a record
// @Description Rejects any non-terminal record with a mandatory reason
// @Tags approvals
// @Accept json
// @Produce json
// @Param id path string true "Approval id"
// @Param body body decisionRequest true "Reason and optional notes"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Missing reason"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "State conflict"
// @Router /api/approvals/{id}/reject [post]
func (c *ApprovalController) Reject(ctx *fiber.Ctx) error {
	actor, ok := actorFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req decisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	rec, err := c.Service.Reject(ctx.UserContext(), ctx.Params("id"), actor, req.Reason, req.Notes)
	if err != nil {
		return ctx.Status(errs.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"data": rec})
}

// BulkApprove godoc
// @Summary Approve a batch of records
// @Description Applies approve to each id independently; per-item failures are reported, not propagated
// @Tags approvals
// @Accept json
// @Produce json
// @Param body body bulkRequest true "Record ids and optional notes"
// @Success 200 {object} BulkResult
// @Failure 400 {object} map[string]string "Batch too large or empty"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /api/approvals/bulk/approve [post]
func (c *ApprovalController) BulkApprove(ctx *fiber.Ctx) error {
	actor, ok := actorFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req bulkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := c.Service.BulkApprove(ctx.UserContext(), req.IDs, actor, req.Notes)
	if err != nil {
		return ctx.Status(errs.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(result)
}

// BulkReject godoc
// @Summary Reject a batch of records
// @Description Applies reject to each id independently with a shared reason
// @Tags approvals
// @Accept json
// @Produce json
// @Param body body bulkRequest true "Record ids, reason and optional notes"
// @Success 200 {object} BulkResult
// @Failure 400 {object} map[string]string "Batch too large, empty, or missing reason"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /api/approvals/bulk/reject [post]
func (c *ApprovalController) BulkReject(ctx *fiber.Ctx) error {
	actor, ok := actorFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req bulkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := c.Service.BulkReject(ctx.UserContext(), req.IDs, actor, req.Reason, req.Notes)
	if err != nil {
		return ctx.Status(errs.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(result)
}
