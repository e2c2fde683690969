// Package reputation tracks buyer reviews and the seller temperature.
package reputation

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
)

const positiveRating = 4

// Weights of the temperature components. They add up to 1.
const (
	ratingWeight   = 0.5
	positiveWeight = 0.2
	responseWeight = 0.1
	penaltyWeight  = 0.2
)

// Penalty points per percent of each operational rate.
const (
	claimsPenalty        = 10
	delayedPenalty       = 5
	cancellationsPenalty = 10
)

type Service struct {
	mu      sync.RWMutex
	reviews []entity.Review
	rates   entity.SellerRates
	now     func() time.Time
}

func NewService(reviews []entity.Review, rates entity.SellerRates) *Service {
	return &Service{
		reviews: slices.Clone(reviews),
		rates:   rates,
		now:     time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) GetMetrics(context.Context) entity.ReputationMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metrics := entity.ReputationMetrics{
		TotalReviews: len(s.reviews),
		SellerRates:  s.rates,
	}

	if len(s.reviews) > 0 {
		var ratingSum, positive, replied int

		for _, r := range s.reviews {
			ratingSum += r.Rating

			if r.Rating >= positiveRating {
				positive++
			}

			if r.Replied() {
				replied++
			}
		}

		total := float64(len(s.reviews))
		metrics.AverageRating = round1(float64(ratingSum) / total)
		metrics.PositivePercent = round1(float64(positive) * 100 / total)
		metrics.ResponseRate = round1(float64(replied) * 100 / total)
	}

	metrics.Temperature = Temperature(metrics)

	return metrics
}

// Temperature scores the reputation from 0 to 100. An average rating of 1
// contributes nothing and 5 contributes fully.
func Temperature(m entity.ReputationMetrics) value.Temperature {
	var rating float64
	if m.TotalReviews > 0 {
		rating = clamp((m.AverageRating - 1) / 4 * 100)
	}

	penalty := m.ClaimsRate*claimsPenalty +
		m.DelayedShipmentsRate*delayedPenalty +
		m.CancellationsRate*cancellationsPenalty

	score := rating*ratingWeight +
		clamp(m.PositivePercent)*positiveWeight +
		clamp(m.ResponseRate)*responseWeight +
		clamp(100-penalty)*penaltyWeight

	return value.NewTemperature(score)
}

// ListReviews returns matching reviews newest first.
func (s *Service) ListReviews(_ context.Context, filter entity.ReviewFilter) []entity.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entity.Review, 0, len(s.reviews))

	for _, r := range s.reviews {
		if filter.Rating != 0 && r.Rating != filter.Rating {
			continue
		}

		if filter.Responded != nil && r.Replied() != *filter.Responded {
			continue
		}

		if filter.ProductID != "" && r.ProductID != filter.ProductID {
			continue
		}

		result = append(result, r)
	}

	slices.SortStableFunc(result, func(a, b entity.Review) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	return result
}

// ReplyToReview answers a review. A review can be answered once.
func (s *Service) ReplyToReview(_ context.Context, id, text string) (entity.Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return entity.Review{}, domain.NewError(errcodes.ValidationError, "reply text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.reviews, func(r entity.Review) bool { return r.ID == id })
	if i < 0 {
		return entity.Review{}, domain.Errorf(errcodes.ReviewNotFound, "review %s not found", id)
	}

	if s.reviews[i].Replied() {
		return entity.Review{}, domain.Errorf(errcodes.AlreadyReplied, "review %s already has a reply", id)
	}

	now := s.now()
	s.reviews[i].Reply = text
	s.reviews[i].RepliedAt = &now

	return s.reviews[i], nil
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
