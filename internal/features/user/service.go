package user

import (
	"context"

	"content-review/internal/common/errs"
	"content-review/internal/features/role"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, roleFilter string, page, perPage int64) ([]User, int64, error)

	// PickAssignee returns the least recently assigned active user of the
	// role and advances its rotation clock.
	PickAssignee(ctx context.Context, r role.Role) (*User, error)

	// PickSecondApprover locates a qualifying second approver distinct from
	// the first one. Qualifying roles are administrator and editor.
	PickSecondApprover(ctx context.Context, excludeUserID string) (*User, error)
}

type UserServiceImpl struct {
	Repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{Repo: repo}
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errs.NotFound("user %s", id)
	}
	return u, nil
}

func (s *UserServiceImpl) List(ctx context.Context, roleFilter string, page, perPage int64) ([]User, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	filter := map[string]interface{}{"role": roleFilter}
	return s.Repo.List(ctx, filter, perPage, (page-1)*perPage)
}

func (s *UserServiceImpl) PickAssignee(ctx context.Context, r role.Role) (*User, error) {
	candidates, err := s.Repo.FindActiveByRole(ctx, []string{string(r)})
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errs.NotFound("no active user with role %s", r)
	}
	picked := &candidates[0]
	if err := s.Repo.TouchAssigned(ctx, picked.ID); err != nil {
		return nil, err
	}
	return picked, nil
}

func (s *UserServiceImpl) PickSecondApprover(ctx context.Context, excludeUserID string) (*User, error) {
	candidates, err := s.Repo.FindActiveByRole(ctx, []string{
		string(role.RoleAdministrator),
		string(role.RoleEditor),
	})
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].ID.Hex() != excludeUserID {
			picked := &candidates[i]
			if err := s.Repo.TouchAssigned(ctx, picked.ID); err != nil {
				return nil, err
			}
			return picked, nil
		}
	}
	return nil, errs.NotFound("no second approver available")
}
