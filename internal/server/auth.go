package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"melidash/internal/domain/entity"
	"melidash/internal/domain/service/admin"
	"melidash/pkg/errcodes"
	"melidash/pkg/httpx/reply"
	"melidash/pkg/httpx/req"
	"melidash/pkg/rest"
)

type authService interface {
	VerifyInvite(ctx context.Context, token string) (entity.Invite, error)
	Register(ctx context.Context, token, name, password string) (entity.User, error)
	Login(ctx context.Context, email, password string) (admin.Session, error)
	ForgotPassword(ctx context.Context, email string)
}

type AuthServer struct {
	authService authService
}

func NewAuthServer(authService authService) AuthServer {
	return AuthServer{authService: authService}
}

func (s AuthServer) getRegister(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		return failure.NewInvalidArgumentError(
			"missing token",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("query parameter \"token\" is required"),
		)
	}

	invite, err := s.authService.VerifyInvite(ctx, token)
	if err != nil {
		return fmt.Errorf("authService.VerifyInvite: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, rest.InviteVerification{
		Email: invite.Email,
		Role:  invite.Role.String(),
	})

	return nil
}

func (s AuthServer) postRegister(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.RegisterRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	user, err := s.authService.Register(ctx, request.Token, request.Name, request.Password)
	if err != nil {
		return fmt.Errorf("authService.Register: %w", err)
	}

	reply.Success(ctx, w, http.StatusCreated, newRESTUser(user))

	return nil
}

func (s AuthServer) postLogin(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.LoginRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	session, err := s.authService.Login(ctx, request.Email, request.Password)
	if err != nil {
		return fmt.Errorf("authService.Login: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTLogin(session))

	return nil
}

func (s AuthServer) postForgotPassword(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ForgotPasswordRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	s.authService.ForgotPassword(ctx, request.Email)

	reply.Success(ctx, w, http.StatusOK, rest.Message{
		Message: "If the email is registered, a reset link has been sent.",
	})

	return nil
}
