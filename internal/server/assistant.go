package server

import (
	"context"
	"fmt"
	"net/http"

	"melidash/internal/domain/entity"
	"melidash/pkg/httpx/reply"
	"melidash/pkg/httpx/req"
	"melidash/pkg/rest"
)

type assistantService interface {
	GenerateInsights(ctx context.Context) []entity.Insight
	Ask(ctx context.Context, question string) (string, []entity.Insight, error)
}

type AssistantServer struct {
	assistantService assistantService
}

func NewAssistantServer(assistantService assistantService) AssistantServer {
	return AssistantServer{assistantService: assistantService}
}

func (s AssistantServer) getInsights(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	reply.Success(ctx, w, http.StatusOK, newRESTInsights(s.assistantService.GenerateInsights(ctx)))

	return nil
}

func (s AssistantServer) postAsk(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.AskRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	answer, insights, err := s.assistantService.Ask(ctx, request.Question)
	if err != nil {
		return fmt.Errorf("assistantService.Ask: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, rest.AskResponse{
		Answer:   answer,
		Insights: newRESTInsights(insights),
	})

	return nil
}
