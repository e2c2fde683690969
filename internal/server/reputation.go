package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"melidash/internal/domain/entity"
	"melidash/pkg/httpx/reply"
	"melidash/pkg/httpx/req"
	"melidash/pkg/rest"
)

type reputationService interface {
	GetMetrics(ctx context.Context) entity.ReputationMetrics
	ListReviews(ctx context.Context, filter entity.ReviewFilter) []entity.Review
	ReplyToReview(ctx context.Context, id, text string) (entity.Review, error)
}

type ReputationServer struct {
	reputationService reputationService
}

func NewReputationServer(reputationService reputationService) ReputationServer {
	return ReputationServer{reputationService: reputationService}
}

func (s ReputationServer) getReputation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	reply.Success(ctx, w, http.StatusOK, newRESTReputation(s.reputationService.GetMetrics(ctx)))

	return nil
}

func (s ReputationServer) getReviews(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	rating, err := req.QueryInt(r, "rating", 0)
	if err != nil {
		return fmt.Errorf("req.QueryInt: %w", err)
	}

	responded, err := req.QueryBool(r, "responded")
	if err != nil {
		return fmt.Errorf("req.QueryBool: %w", err)
	}

	reviews := s.reputationService.ListReviews(ctx, entity.ReviewFilter{
		Rating:    rating,
		Responded: responded,
		ProductID: r.URL.Query().Get("productId"),
	})

	reply.Success(ctx, w, http.StatusOK, lo.Map(reviews, func(rv entity.Review, _ int) rest.Review {
		return newRESTReview(rv)
	}))

	return nil
}

func (s ReputationServer) postReviewReply(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ReplyRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	review, err := s.reputationService.ReplyToReview(ctx, r.PathValue("id"), request.Text)
	if err != nil {
		return fmt.Errorf("reputationService.ReplyToReview: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTReview(review))

	return nil
}
