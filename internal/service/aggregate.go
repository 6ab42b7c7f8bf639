package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// BootcampLister enumerates every stored bootcamp id
type BootcampLister interface {
	IDs(ctx context.Context) ([]string, error)
}

// AverageCostRecalculator recomputes a bootcamp's averageCost
type AverageCostRecalculator interface {
	RecalculateAverageCost(ctx context.Context, bootcampID string) error
}

// AverageRatingRecalculator recomputes a bootcamp's averageRating
type AverageRatingRecalculator interface {
	RecalculateAverageRating(ctx context.Context, bootcampID string) error
}

// AggregateService recomputes the derived bootcamp averages in bulk.
// Course and review writes refresh their parent inline but only log a
// failed refresh, so a periodic pass repairs anything that drifted.
type AggregateService struct {
	bootcamps BootcampLister
	costs     AverageCostRecalculator
	ratings   AverageRatingRecalculator
}

// AggregateServiceConfig holds configuration for the aggregate service
type AggregateServiceConfig struct {
	BootcampRepo BootcampLister
	CourseRepo   AverageCostRecalculator
	ReviewRepo   AverageRatingRecalculator
}

// NewAggregateService creates a new aggregate service
func NewAggregateService(cfg AggregateServiceConfig) *AggregateService {
	return &AggregateService{
		bootcamps: cfg.BootcampRepo,
		costs:     cfg.CourseRepo,
		ratings:   cfg.ReviewRepo,
	}
}

// Reconcile recomputes averageCost and averageRating for every bootcamp.
// It keeps going past individual failures and returns how many bootcamps
// were fully refreshed together with the joined errors.
func (s *AggregateService) Reconcile(ctx context.Context) (int, error) {
	ids, err := s.bootcamps.IDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing bootcamps: %w", err)
	}

	var errs []error
	refreshed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		costErr := s.costs.RecalculateAverageCost(ctx, id)
		if costErr != nil {
			errs = append(errs, fmt.Errorf("average cost of %s: %w", id, costErr))
		}
		ratingErr := s.ratings.RecalculateAverageRating(ctx, id)
		if ratingErr != nil {
			errs = append(errs, fmt.Errorf("average rating of %s: %w", id, ratingErr))
		}
		if costErr == nil && ratingErr == nil {
			refreshed++
		}
	}

	slog.Info("bootcamp aggregates reconciled",
		slog.Int("bootcamps", len(ids)),
		slog.Int("refreshed", refreshed))

	return refreshed, errors.Join(errs...)
}
