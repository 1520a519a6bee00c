package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "content-review/internal/common/api"
	"content-review/internal/config"
	"content-review/internal/database"
	"content-review/internal/features/approval"
	"content-review/internal/features/audit"
	"content-review/internal/features/auth"
	"content-review/internal/features/notification"
	"content-review/internal/features/publisher"
	"content-review/internal/features/role"
	"content-review/internal/features/scoring"
	"content-review/internal/features/system"
	"content-review/internal/features/user"
	"content-review/internal/logger"
	"content-review/internal/middleware"
	"content-review/pkg/utils"

	_ "content-review/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, approvalRepo approval.ApprovalRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := approvalRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure approval indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

// @title           Content Review API
// @version         1.0
// @description     Quality scoring and approval workflow for machine-generated content.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Role/capability matrix
			role.DefaultMatrix,

			// Initialize Repository
			user.NewUserRepository,
			notification.NewNotificationRepository,
			audit.NewAuditRepository,
			approval.NewApprovalRepository,

			// Initialize Service
			user.NewUserService,
			auth.NewAuthService,
			notification.NewHub,
			notification.NewNotificationService,
			audit.NewAuditService,
			publisher.NewPublisher,
			scoring.NewScriptCheck,
			scoring.NewScoringService,
			approval.NewRouter,
			approval.NewApprovalService,
			approval.NewEscalationService,

			// Interface Adapters to break circular dependencies
			func(s approval.ApprovalService) scoring.RecordCreator {
				return approval.NewScoringTrigger(s)
			},

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			notification.NewNotificationController,
			scoring.NewScoringController,
			approval.NewApprovalController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(scoring.NewScoringApi),
			AsRoute(approval.NewApprovalApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
			func(lc fx.Lifecycle, sweeper approval.EscalationService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						sweeper.StartScheduler()
						return nil
					},
					OnStop: func(ctx context.Context) error {
						sweeper.StopScheduler()
						return nil
					},
				})
			},
			func(lc fx.Lifecycle, pub publisher.Publisher) {
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						return pub.Close()
					},
				})
			},
		),
	)

	app.Run()
}
