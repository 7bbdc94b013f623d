package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/rentroll-ai/optimizer/api/internal/logger"
	"github.com/rentroll-ai/optimizer/api/internal/models"
	"github.com/rentroll-ai/optimizer/api/internal/repository"
)

// Pagination validation constants
const (
	MinPage     = 1
	MinPageSize = 1
	MaxPageSize = 500
)

// Service-level errors
var (
	ErrUnitNotFound      = errors.New("unit not found")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
	ErrInvalidStatus     = errors.New("invalid unit status")
)

// ListUnitsParams narrows and pages the unit listing.
type ListUnitsParams struct {
	Status           string
	Property         string
	NeedsPricingOnly bool
	Page             int
	PageSize         int
}

// UnitService defines the business logic for unit inventory queries.
type UnitService interface {
	// ListUnits returns one page of units matching the filter.
	// Returns ErrInvalidPagination or ErrInvalidStatus for bad parameters.
	ListUnits(ctx context.Context, params ListUnitsParams) (*models.UnitPage, error)

	// GetUnit returns a single unit.
	// Returns ErrUnitNotFound if the unit does not exist.
	GetUnit(ctx context.Context, unitID string) (*models.Unit, error)

	// GetVacantUnits returns vacant units ordered by pricing urgency.
	// limit <= 0 means no limit.
	GetVacantUnits(ctx context.Context, limit int) ([]models.VacantUnit, error)

	// GetProperties returns all distinct property names, alphabetically.
	GetProperties(ctx context.Context) ([]string, error)

	// GetUnitTypeSummaries returns inventory statistics keyed by unit type.
	GetUnitTypeSummaries(ctx context.Context) (map[string]models.UnitTypeSummary, error)

	// GetComparables returns the ranked comparables for a unit together with
	// summary statistics recomputed from the rows.
	// Returns ErrUnitNotFound if the unit does not exist.
	GetComparables(ctx context.Context, unitID string) (*models.ComparableSet, error)
}

type unitService struct {
	repo repository.UnitRepository
	log  *logger.Logger
}

// NewUnitService creates a new instance of UnitService.
func NewUnitService(repo repository.UnitRepository, log *logger.Logger) UnitService {
	return &unitService{
		repo: repo,
		log:  log,
	}
}

func (s *unitService) ListUnits(ctx context.Context, params ListUnitsParams) (*models.UnitPage, error) {
	if params.Page < MinPage {
		return nil, fmt.Errorf("%w: page must be at least %d, got %d",
			ErrInvalidPagination, MinPage, params.Page)
	}
	if params.PageSize < MinPageSize || params.PageSize > MaxPageSize {
		return nil, fmt.Errorf("%w: page_size must be between %d and %d, got %d",
			ErrInvalidPagination, MinPageSize, MaxPageSize, params.PageSize)
	}
	if params.Status != "" &&
		params.Status != models.StatusVacant &&
		params.Status != models.StatusOccupied &&
		params.Status != models.StatusNotice {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, params.Status)
	}

	filter := repository.UnitFilter{
		Status:           params.Status,
		Property:         params.Property,
		NeedsPricingOnly: params.NeedsPricingOnly,
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count units", err, map[string]interface{}{
			"status":   params.Status,
			"property": params.Property,
		})
		return nil, fmt.Errorf("failed to count units: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	units, err := s.repo.List(ctx, filter, params.PageSize, offset)
	if err != nil {
		s.log.Error("Failed to list units", err, map[string]interface{}{
			"status":   params.Status,
			"property": params.Property,
			"page":     params.Page,
		})
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	s.log.Info("Units listed", map[string]interface{}{
		"total": total,
		"page":  params.Page,
		"count": len(units),
	})

	return &models.UnitPage{
		Units:      units,
		TotalCount: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		HasNext:    params.Page*params.PageSize < total,
	}, nil
}

func (s *unitService) GetUnit(ctx context.Context, unitID string) (*models.Unit, error) {
	unit, err := s.repo.GetByID(ctx, unitID)
	if err != nil {
		s.log.Error("Failed to query unit", err, map[string]interface{}{
			"unit_id": unitID,
		})
		return nil, fmt.Errorf("failed to query unit: %w", err)
	}
	if unit == nil {
		s.log.Debug("Unit not found", map[string]interface{}{
			"unit_id": unitID,
		})
		return nil, ErrUnitNotFound
	}
	return unit, nil
}

func (s *unitService) GetVacantUnits(ctx context.Context, limit int) ([]models.VacantUnit, error) {
	units, err := s.repo.ListVacant(ctx, limit)
	if err != nil {
		s.log.Error("Failed to list vacant units", err, map[string]interface{}{
			"limit": limit,
		})
		return nil, fmt.Errorf("failed to list vacant units: %w", err)
	}

	s.log.Info("Vacant units listed", map[string]interface{}{
		"count": len(units),
	})
	return units, nil
}

func (s *unitService) GetProperties(ctx context.Context) ([]string, error) {
	properties, err := s.repo.ListProperties(ctx)
	if err != nil {
		s.log.Error("Failed to list properties", err, nil)
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (s *unitService) GetUnitTypeSummaries(ctx context.Context) (map[string]models.UnitTypeSummary, error) {
	summaries, err := s.repo.UnitTypeSummaries(ctx)
	if err != nil {
		s.log.Error("Failed to query unit type summaries", err, nil)
		return nil, fmt.Errorf("failed to query unit type summaries: %w", err)
	}
	return summaries, nil
}

func (s *unitService) GetComparables(ctx context.Context, unitID string) (*models.ComparableSet, error) {
	unit, err := s.repo.GetByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit: %w", err)
	}
	if unit == nil {
		return nil, ErrUnitNotFound
	}

	comps, err := s.repo.Comparables(ctx, unitID)
	if err != nil {
		s.log.Error("Failed to query comparables", err, map[string]interface{}{
			"unit_id": unitID,
		})
		return nil, fmt.Errorf("failed to query comparables: %w", err)
	}

	set := &models.ComparableSet{
		UnitID:      unitID,
		Comparables: comps,
	}
	if len(comps) > 0 {
		set.Stats = summarizeComparables(comps)
	}

	s.log.Info("Comparables fetched", map[string]interface{}{
		"unit_id": unitID,
		"count":   len(comps),
	})
	return set, nil
}

// summarizeComparables recomputes price statistics from the comparable rows
// rather than trusting the aggregates the pairs pipeline repeated per row.
func summarizeComparables(comps []models.Comparable) *models.CompStats {
	prices := make([]float64, 0, len(comps))
	similarities := make([]float64, 0, len(comps))
	for _, c := range comps {
		prices = append(prices, c.CompPrice)
		similarities = append(similarities, c.SimilarityScore)
	}

	mean, _ := stats.Mean(prices)
	median, _ := stats.Median(prices)
	minPrice, _ := stats.Min(prices)
	maxPrice, _ := stats.Max(prices)
	avgSimilarity, _ := stats.Mean(similarities)

	var stddev float64
	if len(prices) > 1 {
		stddev, _ = stats.StandardDeviationSample(prices)
	}

	return &models.CompStats{
		TotalComps:         len(comps),
		AvgCompPrice:       mean,
		MedianCompPrice:    median,
		MinCompPrice:       minPrice,
		MaxCompPrice:       maxPrice,
		CompPriceStddev:    stddev,
		AvgSimilarityScore: avgSimilarity,
	}
}
