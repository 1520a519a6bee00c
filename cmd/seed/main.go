package main

import (
	"context"
	"os"

	"content-review/internal/config"
	"content-review/internal/database"
	"content-review/internal/features/auth"
	"content-review/internal/features/role"
	"content-review/internal/features/user"
	"content-review/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// seedUsers is the development user set, one per role.
var seedUsers = []struct {
	Username string
	Email    string
	Role     role.Role
}{
	{"admin", "admin@example.com", role.RoleAdministrator},
	{"editor", "editor@example.com", role.RoleEditor},
	{"author", "author@example.com", role.RoleAuthor},
	{"contributor", "contributor@example.com", role.RoleContributor},
}

// Seed runs the database seeding
func Seed(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
	authService auth.AuthService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Seeding reviewer accounts...")

				password := os.Getenv("SEED_PASSWORD")
				if password == "" {
					password = "changeme"
				}

				for _, su := range seedUsers {
					existing, err := userRepo.FindByUsername(ctx, su.Username)
					if err != nil {
						logger.Error("Failed to look up user", zap.String("username", su.Username), zap.Error(err))
						continue
					}
					if existing != nil {
						logger.Info("User exists, skipping", zap.String("username", su.Username))
						continue
					}

					if _, err := authService.Register(ctx, su.Username, password, su.Email, su.Role); err != nil {
						logger.Error("Failed to create user", zap.String("username", su.Username), zap.Error(err))
						continue
					}
					logger.Info("User created", zap.String("username", su.Username), zap.String("role", string(su.Role)))
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewUserRepository,
			auth.NewAuthService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
