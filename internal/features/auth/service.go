package auth

import (
	"context"

	"content-review/internal/common/errs"
	"content-review/internal/features/role"
	"content-review/internal/features/user"
	"content-review/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, username, password, email string, r role.Role) (*user.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	UserRepo user.UserRepository
}

func NewAuthService(userRepo user.UserRepository) AuthService {
	return &AuthServiceImpl{UserRepo: userRepo}
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, password, email string, r role.Role) (*user.User, error) {
	if username == "" || password == "" {
		return nil, errs.Validation("username and password are required")
	}
	if !r.Valid() {
		return nil, errs.Validation("unknown role %q", r)
	}

	existing, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("username %q already taken", username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := &user.User{
		Username: username,
		Password: string(hashed),
		Email:    email,
		Role:     string(r),
		Status:   user.StatusActive,
	}
	if err := s.UserRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", errs.Permission("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", errs.Permission("invalid credentials")
	}

	_ = s.UserRepo.TouchLogin(ctx, u.ID)

	return utils.GenerateToken(u.ID, u.Role)
}
