package admin

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/pkg/errcodes"
)

func (s *Service) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("users.List: %w", err)
	}

	slices.SortFunc(users, func(a, b entity.User) int {
		return cmp.Compare(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	})

	return users, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (entity.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return entity.User{}, fmt.Errorf("users.GetByID: %w", err)
	}

	return user, nil
}

// UpdateUser applies the set fields. Admins may rename themselves but cannot
// change their own role or status.
func (s *Service) UpdateUser(ctx context.Context, actorID, id string, update entity.UserUpdate) (entity.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return entity.User{}, fmt.Errorf("users.GetByID: %w", err)
	}

	if actorID == id {
		roleChanged := update.Role != nil && *update.Role != user.Role
		statusChanged := update.Status != nil && *update.Status != user.Status

		if roleChanged || statusChanged {
			return entity.User{}, domain.NewError(errcodes.CannotChangeOwnAccess, "you cannot change your own role or status")
		}
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return entity.User{}, domain.NewError(errcodes.ValidationError, "name must not be empty")
		}

		user.Name = name
	}

	if update.Role != nil {
		user.Role = *update.Role
	}

	if update.Status != nil {
		user.Status = *update.Status
	}

	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		return entity.User{}, fmt.Errorf("users.Update: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user. Admins cannot remove their own account.
func (s *Service) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.NewError(errcodes.CannotDeleteSelf, "you cannot delete your own account")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("users.Delete: %w", err)
	}

	return nil
}
