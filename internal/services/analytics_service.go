package services

import (
	"context"
	"fmt"

	"github.com/rentroll-ai/optimizer/api/internal/logger"
	"github.com/rentroll-ai/optimizer/api/internal/models"
	"github.com/rentroll-ai/optimizer/api/internal/repository"
)

// Report size limits.
const (
	topPropertiesLimit    = 10
	topOpportunitiesLimit = 20
)

// PortfolioSummary combines the per-type inventory breakdown with the
// portfolio's property count.
type PortfolioSummary struct {
	UnitTypes       map[string]models.UnitTypeSummary `json:"unit_types"`
	Properties      []string                          `json:"properties"`
	TotalProperties int                               `json:"total_properties"`
}

// AnalyticsService defines the business logic for the dashboard reports.
type AnalyticsService interface {
	// GetPortfolioAnalytics returns portfolio metrics, the urgency breakdown
	// and top property performance.
	GetPortfolioAnalytics(ctx context.Context) (*models.PortfolioAnalytics, error)

	// GetMarketPosition returns market position and per-type rent-per-sqft
	// comparisons.
	GetMarketPosition(ctx context.Context) (*models.MarketPositionAnalytics, error)

	// GetPricingOpportunities returns the below-market opportunity summary
	// and the top units by annual opportunity.
	GetPricingOpportunities(ctx context.Context) (*models.PricingOpportunities, error)

	// GetPortfolioSummary returns the per-type inventory breakdown and
	// property roster.
	GetPortfolioSummary(ctx context.Context) (*PortfolioSummary, error)
}

type analyticsService struct {
	repo  repository.AnalyticsRepository
	units repository.UnitRepository
	log   *logger.Logger
}

// NewAnalyticsService creates a new instance of AnalyticsService.
func NewAnalyticsService(repo repository.AnalyticsRepository, units repository.UnitRepository, log *logger.Logger) AnalyticsService {
	return &analyticsService{
		repo:  repo,
		units: units,
		log:   log,
	}
}

func (s *analyticsService) GetPortfolioAnalytics(ctx context.Context) (*models.PortfolioAnalytics, error) {
	metrics, err := s.repo.PortfolioMetrics(ctx)
	if err != nil {
		s.log.Error("Failed to query portfolio metrics", err, nil)
		return nil, fmt.Errorf("failed to query portfolio metrics: %w", err)
	}

	if metrics.TotalUnits > 0 {
		metrics.OccupancyRate = float64(metrics.OccupiedUnits) / float64(metrics.TotalUnits) * 100
	}
	metrics.RevenueOptimizationPotential = metrics.TotalRevenuePotential - metrics.CurrentAnnualRevenue

	breakdown, err := s.repo.UrgencyBreakdown(ctx)
	if err != nil {
		s.log.Error("Failed to query urgency breakdown", err, nil)
		return nil, fmt.Errorf("failed to query urgency breakdown: %w", err)
	}

	performance, err := s.repo.PropertyPerformance(ctx, topPropertiesLimit)
	if err != nil {
		s.log.Error("Failed to query property performance", err, nil)
		return nil, fmt.Errorf("failed to query property performance: %w", err)
	}

	s.log.Info("Portfolio analytics built", map[string]interface{}{
		"total_units": metrics.TotalUnits,
		"properties":  len(performance),
	})

	return &models.PortfolioAnalytics{
		Portfolio:           *metrics,
		UrgencyBreakdown:    breakdown,
		PropertyPerformance: performance,
	}, nil
}

func (s *analyticsService) GetMarketPosition(ctx context.Context) (*models.MarketPositionAnalytics, error) {
	summary, err := s.repo.MarketPositionSummary(ctx)
	if err != nil {
		s.log.Error("Failed to query market position summary", err, nil)
		return nil, fmt.Errorf("failed to query market position summary: %w", err)
	}

	comparison, err := s.repo.UnitTypeComparison(ctx)
	if err != nil {
		s.log.Error("Failed to query unit type comparison", err, nil)
		return nil, fmt.Errorf("failed to query unit type comparison: %w", err)
	}

	return &models.MarketPositionAnalytics{
		MarketSummary:      summary,
		UnitTypeComparison: comparison,
	}, nil
}

func (s *analyticsService) GetPricingOpportunities(ctx context.Context) (*models.PricingOpportunities, error) {
	summary, err := s.repo.OpportunitySummary(ctx)
	if err != nil {
		s.log.Error("Failed to query opportunity summary", err, nil)
		return nil, fmt.Errorf("failed to query opportunity summary: %w", err)
	}

	top, err := s.repo.TopOpportunities(ctx, topOpportunitiesLimit)
	if err != nil {
		s.log.Error("Failed to query top opportunities", err, nil)
		return nil, fmt.Errorf("failed to query top opportunities: %w", err)
	}

	s.log.Info("Pricing opportunities built", map[string]interface{}{
		"units_50plus": summary.UnitsWith50PlusOpportunity,
		"top_count":    len(top),
	})

	return &models.PricingOpportunities{
		Summary:          *summary,
		TopOpportunities: top,
	}, nil
}

func (s *analyticsService) GetPortfolioSummary(ctx context.Context) (*PortfolioSummary, error) {
	summaries, err := s.units.UnitTypeSummaries(ctx)
	if err != nil {
		s.log.Error("Failed to query unit type summaries", err, nil)
		return nil, fmt.Errorf("failed to query unit type summaries: %w", err)
	}

	properties, err := s.units.ListProperties(ctx)
	if err != nil {
		s.log.Error("Failed to list properties", err, nil)
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	return &PortfolioSummary{
		UnitTypes:       summaries,
		Properties:      properties,
		TotalProperties: len(properties),
	}, nil
}
