package user

import (
	"content-review/internal/config"
	"content-review/internal/features/role"
	"content-review/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	matrix     *role.Matrix
	config     *config.Config
}

func NewUserApi(controller *UserController, matrix *role.Matrix, config *config.Config) *UserApi {
	return &UserApi{
		controller: controller,
		matrix:     matrix,
		config:     config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Get("/", middleware.RequireCapability(h.matrix, role.CapabilityManage), h.controller.List)
	users.Get("/:id", middleware.RequireCapability(h.matrix, role.CapabilityManage), h.controller.Get)
}
