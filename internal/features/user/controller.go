package user

import (
	"strconv"

	"content-review/internal/common/errs"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{Service: service}
}

// List godoc
// @Summary List reviewer accounts
// @Description List reviewer accounts, optionally filtered by role
// @Tags users
// @Produce json
// @Param role query string false "Role filter"
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/users [get]
func (c *UserController) List(ctx *fiber.Ctx) error {
	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	perPage, _ := strconv.ParseInt(ctx.Query("per_page", "20"), 10, 64)

	users, total, err := c.Service.List(ctx.UserContext(), ctx.Query("role"), page, perPage)
	if err != nil {
		return ctx.Status(errs.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"data":     users,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// Get godoc
// @Summary Get a reviewer account
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} User
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/users/{id} [get]
func (c *UserController) Get(ctx *fiber.Ctx) error {
	u, err := c.Service.GetByID(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(errs.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(u)
}
