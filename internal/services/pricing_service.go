package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/montanaflynn/stats"
	"github.com/rentroll-ai/optimizer/api/internal/config"
	"github.com/rentroll-ai/optimizer/api/internal/logger"
	"github.com/rentroll-ai/optimizer/api/internal/models"
	"github.com/rentroll-ai/optimizer/api/internal/repository"
)

// Demand probability bounds and the lease-up baseline period.
const (
	minDemandProbability = 0.05
	maxDemandProbability = 0.95
	baselineLeaseDays    = 30.0
)

// ErrInvalidStrategy is returned for unrecognized optimization strategies.
var ErrInvalidStrategy = errors.New("invalid optimization strategy")

// OptimizeParams configures a single-unit optimization.
type OptimizeParams struct {
	Weight           *float64
	CustomElasticity *float64
	Strategy         string
}

// BatchOptimizeParams configures a batch optimization run.
type BatchOptimizeParams struct {
	Weight           *float64
	CustomElasticity *float64
	Strategy         string
	UnitIDs          []string
	MaxUnits         int
}

// PricingService defines the rent optimization engine.
type PricingService interface {
	// OptimizeUnit computes a suggested rent for one unit.
	// Returns ErrUnitNotFound if the unit does not exist and
	// ErrInvalidStrategy for unrecognized strategies.
	OptimizeUnit(ctx context.Context, unitID string, params OptimizeParams) (*models.OptimizationResult, error)

	// OptimizeBatch optimizes a set of units concurrently. Per-unit failures
	// are counted but do not abort the batch.
	OptimizeBatch(ctx context.Context, params BatchOptimizeParams) (*models.BatchOptimizationResult, error)
}

type pricingService struct {
	units   repository.UnitRepository
	pricing config.PricingConfig
	log     *logger.Logger
}

// NewPricingService creates a new instance of PricingService.
func NewPricingService(units repository.UnitRepository, pricing config.PricingConfig, log *logger.Logger) PricingService {
	return &pricingService{
		units:   units,
		pricing: pricing,
		log:     log,
	}
}

func (s *pricingService) OptimizeUnit(ctx context.Context, unitID string, params OptimizeParams) (*models.OptimizationResult, error) {
	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit: %w", err)
	}
	if unit == nil {
		return nil, ErrUnitNotFound
	}
	return s.optimize(ctx, unit, params)
}

func (s *pricingService) optimize(ctx context.Context, unit *models.Unit, params OptimizeParams) (*models.OptimizationResult, error) {
	comps, err := s.units.Comparables(ctx, unit.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparables: %w", err)
	}

	opt := newOptimizer(s.elasticity(params.CustomElasticity), s.pricing.MaxPriceAdjustment)

	var suggested float64
	var prob *float64
	switch params.Strategy {
	case models.StrategyRevenue:
		suggested, prob = opt.revenue(unit.AdvertisedRent, comps)
	case models.StrategyLeaseUp:
		suggested, prob = opt.leaseUp(unit.AdvertisedRent, comps)
	case models.StrategyBalanced:
		weight := 0.5
		if params.Weight != nil {
			weight = *params.Weight
		}
		suggested, prob = opt.balanced(unit.AdvertisedRent, comps, weight)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidStrategy, params.Strategy)
	}

	result := &models.OptimizationResult{
		UnitID:              unit.UnitID,
		StrategyUsed:        params.Strategy,
		CurrentRent:         unit.AdvertisedRent,
		SuggestedRent:       round2(suggested),
		RentChange:          round2(suggested - unit.AdvertisedRent),
		RevenueImpactAnnual: round2((suggested - unit.AdvertisedRent) * 12),
		Confidence:          prob,
		DemandProbability:   prob,
	}
	if unit.AdvertisedRent > 0 {
		result.RentChangePct = round2((suggested - unit.AdvertisedRent) / unit.AdvertisedRent * 100)
	}
	if prob != nil && len(comps) > 0 {
		days := int(opt.curve.expectedDaysToLease(suggested, medianCompPrice(comps)))
		result.ExpectedDaysToLease = &days
	}
	if len(comps) > 0 {
		result.CompData = summarizeComparables(comps)
	}

	s.log.Info("Unit optimized", map[string]interface{}{
		"unit_id":        unit.UnitID,
		"strategy":       params.Strategy,
		"current_rent":   result.CurrentRent,
		"suggested_rent": result.SuggestedRent,
	})
	return result, nil
}

func (s *pricingService) OptimizeBatch(ctx context.Context, params BatchOptimizeParams) (*models.BatchOptimizationResult, error) {
	units, failed, err := s.gatherBatchUnits(ctx, params)
	if err != nil {
		return nil, err
	}

	optParams := OptimizeParams{
		Strategy:         params.Strategy,
		Weight:           params.Weight,
		CustomElasticity: params.CustomElasticity,
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	results := make([]models.OptimizationResult, 0, len(units))
	workers := s.pricing.MaxConcurrentOptimizers
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	for i := range units {
		unit := &units[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.optimize(ctx, unit, optParams)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn("Unit optimization failed", map[string]interface{}{
					"unit_id": unit.UnitID,
					"error":   err.Error(),
				})
				failed++
				return
			}
			results = append(results, *result)
		}()
	}
	wg.Wait()

	s.log.Info("Batch optimization completed", map[string]interface{}{
		"processed":  len(units),
		"successful": len(results),
		"failed":     failed,
	})

	return &models.BatchOptimizationResult{
		Results:                 results,
		TotalUnitsProcessed:     len(results) + failed,
		SuccessfulOptimizations: len(results),
		FailedOptimizations:     failed,
	}, nil
}

// gatherBatchUnits resolves the units for a batch run. Explicit unit ids are
// fetched individually; otherwise vacant units are taken up to the cap.
// Unknown unit ids count as failures.
func (s *pricingService) gatherBatchUnits(ctx context.Context, params BatchOptimizeParams) ([]models.Unit, int, error) {
	if len(params.UnitIDs) > 0 {
		ids := params.UnitIDs
		if params.MaxUnits > 0 && len(ids) > params.MaxUnits {
			ids = ids[:params.MaxUnits]
		}

		units := make([]models.Unit, 0, len(ids))
		failed := 0
		for _, id := range ids {
			unit, err := s.units.GetByID(ctx, id)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to query unit %s: %w", id, err)
			}
			if unit == nil {
				s.log.Warn("Batch unit not found", map[string]interface{}{
					"unit_id": id,
				})
				failed++
				continue
			}
			units = append(units, *unit)
		}
		return units, failed, nil
	}

	vacant, err := s.units.ListVacant(ctx, params.MaxUnits)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vacant units: %w", err)
	}

	units := make([]models.Unit, 0, len(vacant))
	for _, v := range vacant {
		units = append(units, models.Unit{
			UnitID:         v.UnitID,
			Property:       v.Property,
			Bed:            v.Bed,
			Bath:           v.Bath,
			Sqft:           v.Sqft,
			Status:         v.Status,
			AdvertisedRent: v.AdvertisedRent,
			MarketRent:     v.MarketRent,
			RentPerSqft:    v.RentPerSqft,
			PricingUrgency: v.PricingUrgency,
			UnitType:       v.UnitType,
			SizeCategory:   v.SizeCategory,
		})
	}
	return units, 0, nil
}

func (s *pricingService) elasticity(custom *float64) float64 {
	if custom != nil {
		return *custom
	}
	return s.pricing.DefaultElasticity
}

// demandCurve models the probability of leasing a unit within the baseline
// period as a linear function of its price gap to the comparable baseline.
type demandCurve struct {
	elasticity float64
}

// probability returns the chance of leasing within 30 days, clamped to
// [0.05, 0.95]. Without a baseline price the curve is uninformative and a
// coin flip is returned.
func (d demandCurve) probability(price, basePrice float64) float64 {
	if basePrice <= 0 {
		return 0.5
	}
	priceRatio := (price - basePrice) / basePrice
	prob := 1 + d.elasticity*priceRatio*100
	return math.Min(math.Max(prob, minDemandProbability), maxDemandProbability)
}

func (d demandCurve) expectedDaysToLease(price, basePrice float64) float64 {
	return baselineLeaseDays / d.probability(price, basePrice)
}

// optimizer searches the bounded price range each strategy allows.
type optimizer struct {
	curve         demandCurve
	maxAdjustment float64
}

func newOptimizer(elasticity, maxAdjustment float64) *optimizer {
	return &optimizer{
		curve:         demandCurve{elasticity: elasticity},
		maxAdjustment: maxAdjustment,
	}
}

// revenue maximizes expected annual revenue (price times demand probability).
// Returns the current rent and no probability when there are no comparables.
func (o *optimizer) revenue(currentRent float64, comps []models.Comparable) (float64, *float64) {
	if len(comps) == 0 {
		return currentRent, nil
	}
	basePrice := medianCompPrice(comps)

	lo := math.Max(basePrice*(1-o.maxAdjustment), currentRent*0.8)
	hi := math.Min(basePrice*(1+o.maxAdjustment), currentRent*1.3)
	if hi <= lo {
		prob := o.curve.probability(currentRent, basePrice)
		return currentRent, &prob
	}

	optimal := goldenMin(func(price float64) float64 {
		return -(price * o.curve.probability(price, basePrice) * 12)
	}, lo, hi)

	prob := o.curve.probability(optimal, basePrice)
	return optimal, &prob
}

// leaseUp minimizes expected vacancy days. The bounds allow more aggressive
// pricing down and less room up than the revenue strategy.
func (o *optimizer) leaseUp(currentRent float64, comps []models.Comparable) (float64, *float64) {
	if len(comps) == 0 {
		return currentRent, nil
	}
	basePrice := medianCompPrice(comps)

	lo := math.Max(basePrice*(1-o.maxAdjustment), currentRent*0.7)
	hi := math.Min(basePrice*(1+o.maxAdjustment*0.5), currentRent*1.1)
	if hi <= lo {
		prob := o.curve.probability(currentRent, basePrice)
		return currentRent, &prob
	}

	optimal := goldenMin(func(price float64) float64 {
		return o.curve.expectedDaysToLease(price, basePrice)
	}, lo, hi)

	prob := o.curve.probability(optimal, basePrice)
	return optimal, &prob
}

// balanced blends the two strategies by weight; weight 1.0 is pure revenue
// maximization, 0.0 pure lease-up.
func (o *optimizer) balanced(currentRent float64, comps []models.Comparable, weight float64) (float64, *float64) {
	revPrice, _ := o.revenue(currentRent, comps)
	leasePrice, _ := o.leaseUp(currentRent, comps)

	optimal := revPrice*weight + leasePrice*(1-weight)
	if len(comps) == 0 {
		return optimal, nil
	}

	prob := o.curve.probability(optimal, medianCompPrice(comps))
	return optimal, &prob
}

func medianCompPrice(comps []models.Comparable) float64 {
	prices := make([]float64, 0, len(comps))
	for _, c := range comps {
		prices = append(prices, c.CompPrice)
	}
	median, _ := stats.Median(prices)
	return median
}

// goldenMin finds the minimum of a unimodal function on [lo, hi] by
// golden-section search, to within a dollar-cent tolerance.
func goldenMin(f func(float64) float64, lo, hi float64) float64 {
	const invPhi = 0.6180339887498949
	const tolerance = 1e-4

	a, b := lo, hi
	c := b - (b-a)*invPhi
	d := a + (b-a)*invPhi
	fc, fd := f(c), f(d)

	for b-a > tolerance {
		if fc < fd {
			b, d, fd = d, c, fc
			c = b - (b-a)*invPhi
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + (b-a)*invPhi
			fd = f(d)
		}
	}
	return (a + b) / 2
}
