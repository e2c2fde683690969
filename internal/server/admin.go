package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/service/admin"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
	"melidash/pkg/httpx/reply"
	"melidash/pkg/httpx/req"
	"melidash/pkg/rest"
)

type adminService interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
	GetUser(ctx context.Context, id string) (entity.User, error)
	UpdateUser(ctx context.Context, actorID, id string, update entity.UserUpdate) (entity.User, error)
	DeleteUser(ctx context.Context, actorID, id string) error
	ListInvites(ctx context.Context) ([]entity.Invite, error)
	CreateInvite(ctx context.Context, actorID, email string, role value.Role) (entity.Invite, error)
	UpdateInvite(ctx context.Context, id string, action admin.InviteAction) (entity.Invite, error)
}

type AdminServer struct {
	adminService adminService
}

func NewAdminServer(adminService adminService) AdminServer {
	return AdminServer{adminService: adminService}
}

func (s AdminServer) getUsers(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	users, err := s.adminService.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("adminService.ListUsers: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, lo.Map(users, func(u entity.User, _ int) rest.User {
		return newRESTUser(u)
	}))

	return nil
}

func (s AdminServer) getUser(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	user, err := s.adminService.GetUser(ctx, r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("adminService.GetUser: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTUser(user))

	return nil
}

func (s AdminServer) putUser(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.UpdateUserRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	update := entity.UserUpdate{Name: request.Name}

	if request.Role != nil {
		role, err := value.ParseRole(*request.Role)
		if err != nil {
			return domain.WrapError(err, errcodes.InvalidUserRole, err.Error())
		}

		update.Role = &role
	}

	if request.Status != nil {
		status, err := value.ParseUserStatus(*request.Status)
		if err != nil {
			return domain.WrapError(err, errcodes.InvalidUserStatus, err.Error())
		}

		update.Status = &status
	}

	actorID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	user, err := s.adminService.UpdateUser(ctx, actorID, r.PathValue("id"), update)
	if err != nil {
		return fmt.Errorf("adminService.UpdateUser: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTUser(user))

	return nil
}

func (s AdminServer) deleteUser(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actorID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	if err := s.adminService.DeleteUser(ctx, actorID, r.PathValue("id")); err != nil {
		return fmt.Errorf("adminService.DeleteUser: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, rest.Message{Message: "user deleted"})

	return nil
}

func (s AdminServer) getInvites(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	invites, err := s.adminService.ListInvites(ctx)
	if err != nil {
		return fmt.Errorf("adminService.ListInvites: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, lo.Map(invites, func(i entity.Invite, _ int) rest.Invite {
		return newRESTInvite(i, false)
	}))

	return nil
}

func (s AdminServer) postInvite(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateInviteRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	role, err := value.ParseRole(request.Role)
	if err != nil {
		return domain.WrapError(err, errcodes.InvalidUserRole, err.Error())
	}

	actorID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	invite, err := s.adminService.CreateInvite(ctx, actorID, request.Email, role)
	if err != nil {
		return fmt.Errorf("adminService.CreateInvite: %w", err)
	}

	reply.Success(ctx, w, http.StatusCreated, newRESTInvite(invite, true))

	return nil
}

func (s AdminServer) putInvite(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.UpdateInviteRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	action := admin.InviteAction(request.Action)

	invite, err := s.adminService.UpdateInvite(ctx, request.ID, action)
	if err != nil {
		return fmt.Errorf("adminService.UpdateInvite: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTInvite(invite, action == admin.InviteActionResend))

	return nil
}
