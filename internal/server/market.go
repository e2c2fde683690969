package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/samber/lo"

	"melidash/internal/domain/entity"
	"melidash/pkg/errcodes"
	"melidash/pkg/httpx/reply"
	"melidash/pkg/httpx/req"
	"melidash/pkg/rest"
)

type trendsService interface {
	ListTrends(ctx context.Context, filter entity.TrendFilter, sort entity.TrendSort) ([]entity.Trend, error)
	GetTrend(ctx context.Context, id string) (entity.Trend, error)
	ListCategories(ctx context.Context) []string
	ListCompetitors(ctx context.Context, sort entity.TrendSort) ([]entity.Competitor, error)
	TopOpportunities(ctx context.Context, limit int) []entity.Trend
}

type MarketServer struct {
	trendsService trendsService
}

func NewMarketServer(trendsService trendsService) MarketServer {
	return MarketServer{trendsService: trendsService}
}

func (s MarketServer) getTrends(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	query := r.URL.Query()

	competition := entity.Competition(query.Get("competition"))
	if competition != "" && !lo.Contains([]entity.Competition{
		entity.CompetitionLow, entity.CompetitionMedium, entity.CompetitionHigh,
	}, competition) {
		return failure.NewInvalidArgumentError(
			"invalid competition",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(fmt.Sprintf("unknown competition level %q", competition)),
		)
	}

	trends, err := s.trendsService.ListTrends(
		ctx,
		entity.TrendFilter{
			Category:    query.Get("category"),
			Period:      query.Get("period"),
			Competition: competition,
			Query:       query.Get("q"),
		},
		readSort(r),
	)
	if err != nil {
		return fmt.Errorf("trendsService.ListTrends: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, lo.Map(trends, func(t entity.Trend, _ int) rest.Trend {
		return newRESTTrend(t)
	}))

	return nil
}

func (s MarketServer) getTrend(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	trend, err := s.trendsService.GetTrend(ctx, r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("trendsService.GetTrend: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTTrend(trend))

	return nil
}

func (s MarketServer) getCategories(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	reply.Success(ctx, w, http.StatusOK, s.trendsService.ListCategories(ctx))

	return nil
}

func (s MarketServer) getOpportunities(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, err := req.QueryInt(r, "limit", 0)
	if err != nil {
		return fmt.Errorf("req.QueryInt: %w", err)
	}

	trends := s.trendsService.TopOpportunities(ctx, limit)

	reply.Success(ctx, w, http.StatusOK, lo.Map(trends, func(t entity.Trend, _ int) rest.Trend {
		return newRESTTrend(t)
	}))

	return nil
}

func (s MarketServer) getMarketCompetitors(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	competitors, err := s.trendsService.ListCompetitors(ctx, readSort(r))
	if err != nil {
		return fmt.Errorf("trendsService.ListCompetitors: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, lo.Map(competitors, func(c entity.Competitor, _ int) rest.Competitor {
		return newRESTCompetitor(c)
	}))

	return nil
}

// readSort parses ?sort=field&order=asc|desc; order defaults to desc.
func readSort(r *http.Request) entity.TrendSort {
	query := r.URL.Query()

	return entity.TrendSort{
		Field: query.Get("sort"),
		Desc:  query.Get("order") != "asc",
	}
}
