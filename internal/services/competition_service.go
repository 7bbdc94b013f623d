package services

import (
	"context"
	"fmt"
	"math"

	"github.com/rentroll-ai/optimizer/api/internal/config"
	"github.com/rentroll-ai/optimizer/api/internal/logger"
	"github.com/rentroll-ai/optimizer/api/internal/models"
	"github.com/rentroll-ai/optimizer/api/internal/repository"
)

// Placeholder competitor names emitted when no ranking can be produced.
const (
	noCompetitorsPlaceholder   = "No Direct Competitors Found"
	dataUnavailablePlaceholder = "Data Unavailable"
)

// CompetitionService defines the business logic for the per-property
// market-comparison reports.
type CompetitionService interface {
	// GetCompetitionAnalysis returns the property-vs-competition report.
	// Market columns are observed from competitor listings when enough exist
	// and estimated from our own rents otherwise; the basis field records
	// which.
	GetCompetitionAnalysis(ctx context.Context, property string) (*models.PropertyCompetitionAnalysis, error)

	// GetUnitAnalysis returns unit-level competition details for a property
	// with a summary recomputed from the rows.
	GetUnitAnalysis(ctx context.Context, property string) (*models.PropertyUnitAnalysis, error)

	// GetMarketTrends returns market positioning, the competitor ranking and
	// the rent distribution for a property. A failed or empty competitor
	// ranking degrades to a single placeholder row.
	GetMarketTrends(ctx context.Context, property string) (*models.PropertyMarketTrends, error)
}

type competitionService struct {
	repo    repository.CompetitionRepository
	pricing config.PricingConfig
	log     *logger.Logger
}

// NewCompetitionService creates a new instance of CompetitionService.
func NewCompetitionService(repo repository.CompetitionRepository, pricing config.PricingConfig, log *logger.Logger) CompetitionService {
	return &competitionService{
		repo:    repo,
		pricing: pricing,
		log:     log,
	}
}

func (s *competitionService) GetCompetitionAnalysis(ctx context.Context, property string) (*models.PropertyCompetitionAnalysis, error) {
	overview, err := s.repo.UnitTypeOverview(ctx, property)
	if err != nil {
		s.log.Error("Failed to query unit type overview", err, map[string]interface{}{
			"property": property,
		})
		return nil, fmt.Errorf("failed to query unit type overview: %w", err)
	}

	for i := range overview {
		s.enrichUnitType(ctx, &overview[i])
	}

	bedrooms, err := s.repo.BedroomSummary(ctx, property)
	if err != nil {
		s.log.Error("Failed to query bedroom summary", err, map[string]interface{}{
			"property": property,
		})
		return nil, fmt.Errorf("failed to query bedroom summary: %w", err)
	}

	for i := range bedrooms {
		s.enrichBedroom(ctx, &bedrooms[i])
	}

	performance, err := s.repo.PerformanceMetrics(ctx, property)
	if err != nil {
		s.log.Error("Failed to query performance metrics", err, map[string]interface{}{
			"property": property,
		})
		return nil, fmt.Errorf("failed to query performance metrics: %w", err)
	}

	if performance.TotalUnits > 0 {
		performance.OccupancyRate = float64(performance.OccupiedUnits) / float64(performance.TotalUnits) * 100
	}
	performance.RevenueOpportunity = performance.TotalRevenuePotential - performance.CurrentAnnualRevenue

	s.log.Info("Competition analysis built", map[string]interface{}{
		"property":   property,
		"unit_types": len(overview),
	})

	return &models.PropertyCompetitionAnalysis{
		PropertyName:             property,
		OverviewByUnitType:       overview,
		RentComparisonByBedrooms: bedrooms,
		PerformanceMetrics:       *performance,
	}, nil
}

// enrichUnitType fills one overview row's market columns from competitor
// listings, or synthesizes estimates when none are found or the lookup
// fails.
func (s *competitionService) enrichUnitType(ctx context.Context, row *models.UnitTypeOverview) {
	label := bedLabelForUnitType(row.UnitType)

	snap, err := s.repo.UnitTypeMarketSnapshot(ctx, label, row.AvgOurRent)
	if err != nil {
		s.log.Warn("Market snapshot failed, estimating", map[string]interface{}{
			"unit_type": row.UnitType,
			"error":     err.Error(),
		})
		s.estimateUnitType(row)
		return
	}
	if snap.CompCount == 0 || snap.AvgMarketRent <= 0 {
		s.estimateUnitType(row)
		return
	}

	row.MarketBasis = models.BasisObserved
	row.AvgMarketRent = snap.AvgMarketRent
	row.AvgMarketRentPerSqft = snap.AvgMarketRentPerSqft
	row.CompCount = snap.CompCount
	row.AvgPremiumDiscountPct = round1((row.AvgOurRent - snap.AvgMarketRent) / snap.AvgMarketRent * 100)
}

// estimateUnitType leaves CompCount at zero: the synthetic comp count only
// applies to the bedroom-comparison fallback.
func (s *competitionService) estimateUnitType(row *models.UnitTypeOverview) {
	row.MarketBasis = models.BasisEstimated
	row.AvgMarketRent = math.Trunc(row.AvgOurRent * 1.05)
	row.AvgMarketRentPerSqft = round2(row.AvgOurRentPerSqft * 1.05)
	row.AvgPremiumDiscountPct = s.pricing.FallbackRentGapPct
}

// enrichBedroom fills one bedroom row's market columns. Unlike the per-type
// lookup this one is not price-banded; the min/max spread is part of the
// report.
func (s *competitionService) enrichBedroom(ctx context.Context, row *models.BedroomComparison) {
	label := bedLabelForCount(row.Bed)

	snap, err := s.repo.BedroomMarketSnapshot(ctx, label)
	if err != nil {
		s.log.Warn("Bedroom market snapshot failed, estimating", map[string]interface{}{
			"bed":   row.Bed,
			"error": err.Error(),
		})
		s.estimateBedroom(row)
		return
	}
	if snap.CompCount == 0 || snap.AvgMarketRent <= 0 {
		s.estimateBedroom(row)
		return
	}

	row.MarketBasis = models.BasisObserved
	row.AvgMarketRent = snap.AvgMarketRent
	row.MinMarketRent = snap.MinMarketRent
	row.MaxMarketRent = snap.MaxMarketRent
	row.AvgMarketRentPerSqft = snap.AvgMarketRentPerSqft
	row.CompCount = snap.CompCount
	row.RentGapPct = round1((row.AvgOurRent - snap.AvgMarketRent) / snap.AvgMarketRent * 100)
}

func (s *competitionService) estimateBedroom(row *models.BedroomComparison) {
	row.MarketBasis = models.BasisEstimated
	row.AvgMarketRent = math.Trunc(row.AvgOurRent * 1.05)
	row.MinMarketRent = math.Trunc(row.MinOurRent * 0.95)
	row.MaxMarketRent = math.Trunc(row.MaxOurRent * 1.15)
	row.AvgMarketRentPerSqft = round2(row.AvgOurRentPerSqft * 1.05)
	row.CompCount = s.pricing.FallbackCompCount
	row.RentGapPct = s.pricing.FallbackRentGapPct
}

func (s *competitionService) GetUnitAnalysis(ctx context.Context, property string) (*models.PropertyUnitAnalysis, error) {
	units, err := s.repo.UnitDetails(ctx, property)
	if err != nil {
		s.log.Error("Failed to query unit details", err, map[string]interface{}{
			"property": property,
		})
		return nil, fmt.Errorf("failed to query unit details: %w", err)
	}

	summary := models.UnitAnalysisSummary{
		TotalUnitsAnalyzed: len(units),
	}
	for _, u := range units {
		if u.PotentialRentIncrease > 50 {
			summary.Units50PlusBelowMarket++
		}
		if u.PotentialRentIncrease > 100 {
			summary.Units100PlusBelowMarket++
		}
		summary.TotalMonthlyOpportunity += u.PotentialRentIncrease
	}
	summary.TotalAnnualOpportunity = summary.TotalMonthlyOpportunity * 12
	if len(units) > 0 {
		summary.AvgRentGap = summary.TotalMonthlyOpportunity / float64(len(units))
	}

	s.log.Info("Unit analysis built", map[string]interface{}{
		"property":     property,
		"units":        len(units),
		"units_50plus": summary.Units50PlusBelowMarket,
	})

	return &models.PropertyUnitAnalysis{
		PropertyName: property,
		Units:        units,
		Summary:      summary,
	}, nil
}

func (s *competitionService) GetMarketTrends(ctx context.Context, property string) (*models.PropertyMarketTrends, error) {
	positioning, err := s.repo.MarketPositioning(ctx, property)
	if err != nil {
		s.log.Error("Failed to query market positioning", err, map[string]interface{}{
			"property": property,
		})
		return nil, fmt.Errorf("failed to query market positioning: %w", err)
	}

	competitors, err := s.repo.TopCompetitors(ctx, property)
	if err != nil {
		s.log.Warn("Competitor ranking failed, returning placeholder", map[string]interface{}{
			"property": property,
			"error":    err.Error(),
		})
		competitors = []models.TopCompetitor{{CompetitorProperty: dataUnavailablePlaceholder}}
	} else if len(competitors) == 0 {
		competitors = []models.TopCompetitor{{CompetitorProperty: noCompetitorsPlaceholder}}
	}

	distribution, err := s.repo.RentDistribution(ctx, property)
	if err != nil {
		s.log.Error("Failed to query rent distribution", err, map[string]interface{}{
			"property": property,
		})
		return nil, fmt.Errorf("failed to query rent distribution: %w", err)
	}

	return &models.PropertyMarketTrends{
		PropertyName:      property,
		MarketPositioning: positioning,
		TopCompetitors:    competitors,
		RentDistribution:  distribution,
	}, nil
}

// bedLabelForUnitType maps a snapshot unit type to the bedroom label used by
// the competitor listing feed.
func bedLabelForUnitType(unitType string) string {
	switch unitType {
	case "STUDIO":
		return "Studio"
	case "1BR":
		return "1 Bed"
	case "2BR":
		return "2 Beds"
	case "3BR":
		return "3 Beds"
	case "4BR+":
		return "4 Beds"
	default:
		return "1 Bed"
	}
}

// bedLabelForCount maps a bedroom count to the listing feed's label.
func bedLabelForCount(bed int) string {
	switch {
	case bed == 0:
		return "Studio"
	case bed == 1:
		return "1 Bed"
	case bed == 2:
		return "2 Beds"
	case bed == 3:
		return "3 Beds"
	case bed >= 4:
		return "4 Beds"
	default:
		return "1 Bed"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
