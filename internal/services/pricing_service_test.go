package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rentroll-ai/optimizer/api/internal/logger"
	"github.com/rentroll-ai/optimizer/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPricingService(repo *MockUnitRepository) PricingService {
	return NewPricingService(repo, testPricingConfig(), logger.New("test"))
}

func testComps(prices ...float64) []models.Comparable {
	comps := make([]models.Comparable, 0, len(prices))
	for i, p := range prices {
		comps = append(comps, models.Comparable{
			UnitID:          "oak-101",
			CompID:          "c" + string(rune('1'+i)),
			CompPrice:       p,
			SimilarityScore: 0.8,
			CompRank:        i + 1,
		})
	}
	return comps
}

func TestDemandCurve_Probability(t *testing.T) {
	curve := demandCurve{elasticity: -0.003}

	t.Run("clamps to upper bound at base price", func(t *testing.T) {
		// At price == base the linear model gives 1.0, which the clamp
		// pulls down to the maximum observable probability.
		assert.InDelta(t, 0.95, curve.probability(1500, 1500), 0.001)
	})

	t.Run("pricing below market raises demand to the cap", func(t *testing.T) {
		assert.InDelta(t, 0.95, curve.probability(1200, 1500), 0.001)
	})

	t.Run("small premiums still sit at the cap", func(t *testing.T) {
		// 10% above market: 1 + (-0.003 * 0.1 * 100) = 0.97, still above
		// the 0.95 ceiling.
		assert.InDelta(t, 0.95, curve.probability(1650, 1500), 0.001)
	})

	t.Run("pricing above market lowers demand", func(t *testing.T) {
		// 300% above market: 1 + (-0.003 * 3.0 * 100) = 0.1
		assert.InDelta(t, 0.1, curve.probability(6000, 1500), 0.001)
	})

	t.Run("clamps to lower bound for extreme premiums", func(t *testing.T) {
		// 500% above market goes negative and clamps to 0.05.
		assert.InDelta(t, 0.05, curve.probability(9000, 1500), 0.001)
	})

	t.Run("no baseline defaults to even odds", func(t *testing.T) {
		assert.Equal(t, 0.5, curve.probability(1500, 0))
		assert.Equal(t, 0.5, curve.probability(1500, -10))
	})
}

func TestDemandCurve_ExpectedDaysToLease(t *testing.T) {
	curve := demandCurve{elasticity: -0.003}

	// 10% above market clamps to 0.95 probability: 30 / 0.95 ~= 31.6 days.
	assert.InDelta(t, 31.579, curve.expectedDaysToLease(1650, 1500), 0.01)

	// 300% above market gives 0.1 probability: 30 / 0.1 = 300 days.
	assert.InDelta(t, 300.0, curve.expectedDaysToLease(6000, 1500), 0.01)

	// Demand probability never drops below 0.05, so days are capped at 600.
	assert.InDelta(t, 600.0, curve.expectedDaysToLease(100000, 1500), 0.01)
}

func TestOptimizer_RevenueBounds(t *testing.T) {
	opt := newOptimizer(-0.003, 0.25)
	comps := testComps(1400, 1500, 1600)
	currentRent := 1450.0

	price, prob := opt.revenue(currentRent, comps)

	require.NotNil(t, prob)
	lo := 1500 * 0.75
	if currentRent*0.8 > lo {
		lo = currentRent * 0.8
	}
	hi := 1500 * 1.25
	if currentRent*1.3 < hi {
		hi = currentRent * 1.3
	}
	assert.GreaterOrEqual(t, price, lo)
	assert.LessOrEqual(t, price, hi)
	assert.GreaterOrEqual(t, *prob, 0.05)
	assert.LessOrEqual(t, *prob, 0.95)
}

func TestOptimizer_LeaseUpPrefersLowerPrice(t *testing.T) {
	opt := newOptimizer(-0.003, 0.25)
	comps := testComps(1400, 1500, 1600)

	revPrice, _ := opt.revenue(1450, comps)
	leasePrice, _ := opt.leaseUp(1450, comps)

	// Expected vacancy days decrease monotonically with price, so the
	// lease-up strategy should land at or below the revenue price.
	assert.LessOrEqual(t, leasePrice, revPrice)
}

func TestOptimizer_NoComparables(t *testing.T) {
	opt := newOptimizer(-0.003, 0.25)

	price, prob := opt.revenue(1450, nil)
	assert.Equal(t, 1450.0, price, "Without comparables the current rent is kept")
	assert.Nil(t, prob)

	price, prob = opt.leaseUp(1450, nil)
	assert.Equal(t, 1450.0, price)
	assert.Nil(t, prob)

	price, prob = opt.balanced(1450, nil, 0.5)
	assert.Equal(t, 1450.0, price)
	assert.Nil(t, prob)
}

func TestOptimizer_BalancedBlend(t *testing.T) {
	opt := newOptimizer(-0.003, 0.25)
	comps := testComps(1400, 1500, 1600)

	revPrice, _ := opt.revenue(1450, comps)
	leasePrice, _ := opt.leaseUp(1450, comps)

	fullRevenue, _ := opt.balanced(1450, comps, 1.0)
	assert.InDelta(t, revPrice, fullRevenue, 0.001, "Weight 1.0 is pure revenue maximization")

	fullLeaseUp, _ := opt.balanced(1450, comps, 0.0)
	assert.InDelta(t, leasePrice, fullLeaseUp, 0.001, "Weight 0.0 is pure lease-up")

	mid, _ := opt.balanced(1450, comps, 0.5)
	assert.InDelta(t, (revPrice+leasePrice)/2, mid, 0.001)
}

func TestGoldenMin_FindsQuadraticMinimum(t *testing.T) {
	got := goldenMin(func(x float64) float64 {
		return (x - 3) * (x - 3)
	}, 0, 10)
	assert.InDelta(t, 3.0, got, 0.001)
}

func TestOptimizeUnit_Success(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newPricingService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "oak-101").Return(testUnit("oak-101", 1450), nil)
	mockRepo.On("Comparables", ctx, "oak-101").Return(testComps(1400, 1500, 1600), nil)

	result, err := service.OptimizeUnit(ctx, "oak-101", OptimizeParams{Strategy: models.StrategyRevenue})

	require.NoError(t, err)
	assert.Equal(t, "oak-101", result.UnitID)
	assert.Equal(t, models.StrategyRevenue, result.StrategyUsed)
	assert.Equal(t, 1450.0, result.CurrentRent)
	assert.NotNil(t, result.Confidence)
	assert.NotNil(t, result.DemandProbability)
	assert.NotNil(t, result.ExpectedDaysToLease)
	require.NotNil(t, result.CompData)
	assert.Equal(t, 3, result.CompData.TotalComps)
	assert.InDelta(t, result.SuggestedRent-result.CurrentRent, result.RentChange, 0.01)
	assert.InDelta(t, result.RentChange*12, result.RevenueImpactAnnual, 0.01)
}

func TestOptimizeUnit_NoComparables(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newPricingService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "oak-101").Return(testUnit("oak-101", 1450), nil)
	mockRepo.On("Comparables", ctx, "oak-101").Return([]models.Comparable{}, nil)

	result, err := service.OptimizeUnit(ctx, "oak-101", OptimizeParams{Strategy: models.StrategyRevenue})

	require.NoError(t, err)
	assert.Equal(t, 1450.0, result.SuggestedRent, "Without comparables the current rent is kept")
	assert.Equal(t, 0.0, result.RentChange)
	assert.Nil(t, result.Confidence)
	assert.Nil(t, result.DemandProbability)
	assert.Nil(t, result.ExpectedDaysToLease)
	assert.Nil(t, result.CompData)
}

func TestOptimizeUnit_NotFound(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newPricingService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "missing").Return(nil, nil)

	result, err := service.OptimizeUnit(ctx, "missing", OptimizeParams{Strategy: models.StrategyRevenue})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestOptimizeUnit_InvalidStrategy(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newPricingService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "oak-101").Return(testUnit("oak-101", 1450), nil)
	mockRepo.On("Comparables", ctx, "oak-101").Return(testComps(1400, 1500), nil)

	result, err := service.OptimizeUnit(ctx, "oak-101", OptimizeParams{Strategy: "aggressive"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidStrategy)
}

func TestOptimizeUnit_CustomElasticity(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newPricingService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "oak-101").Return(testUnit("oak-101", 1450), nil)
	mockRepo.On("Comparables", ctx, "oak-101").Return(testComps(1400, 1500, 1600), nil)

	// A much steeper demand curve penalizes pricing above market harder,
	// so the suggested rent should not exceed the default curve's.
	steep := -0.01
	steepResult, err := service.OptimizeUnit(ctx, "oak-101", OptimizeParams{
		Strategy:         models.StrategyRevenue,
		CustomElasticity: &steep,
	})
	require.NoError(t, err)

	defaultResult, err := service.OptimizeUnit(ctx, "oak-101", OptimizeParams{Strategy: models.StrategyRevenue})
	require.NoError(t, err)

	assert.LessOrEqual(t, steepResult.SuggestedRent, defaultResult.SuggestedRent)
}

func TestOptimizeBatch_ByUnitIDs(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newPricingService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "oak-101").Return(testUnit("oak-101", 1450), nil)
	mockRepo.On("GetByID", ctx, "oak-102").Return(testUnit("oak-102", 1600), nil)
	mockRepo.On("Comparables", ctx, mock.AnythingOfType("string")).Return(testComps(1400, 1500, 1600), nil)

	result, err := service.OptimizeBatch(ctx, BatchOptimizeParams{
		UnitIDs:  []string{"oak-101", "oak-102"},
		MaxUnits: 50,
		Strategy: models.StrategyBalanced,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalUnitsProcessed)
	assert.Equal(t, 2, result.SuccessfulOptimizations)
	assert.Equal(t, 0, result.FailedOptimizations)
	assert.Len(t, result.Results, 2)
}

func TestOptimizeBatch_MissingUnitCountsAsFailed(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newPricingService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "oak-101").Return(testUnit("oak-101", 1450), nil)
	mockRepo.On("GetByID", ctx, "missing").Return(nil, nil)
	mockRepo.On("Comparables", ctx, "oak-101").Return(testComps(1400, 1500, 1600), nil)

	result, err := service.OptimizeBatch(ctx, BatchOptimizeParams{
		UnitIDs:  []string{"oak-101", "missing"},
		MaxUnits: 50,
		Strategy: models.StrategyRevenue,
	})

	require.NoError(t, err, "A missing unit should not abort the batch")
	assert.Equal(t, 2, result.TotalUnitsProcessed)
	assert.Equal(t, 1, result.SuccessfulOptimizations)
	assert.Equal(t, 1, result.FailedOptimizations)
}

func TestOptimizeBatch_ComparablesFailureIsolated(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newPricingService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "oak-101").Return(testUnit("oak-101", 1450), nil)
	mockRepo.On("GetByID", ctx, "oak-102").Return(testUnit("oak-102", 1600), nil)
	mockRepo.On("Comparables", ctx, "oak-101").Return(testComps(1400, 1500, 1600), nil)
	mockRepo.On("Comparables", ctx, "oak-102").Return(nil, errors.New("timeout"))

	result, err := service.OptimizeBatch(ctx, BatchOptimizeParams{
		UnitIDs:  []string{"oak-101", "oak-102"},
		MaxUnits: 50,
		Strategy: models.StrategyRevenue,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulOptimizations)
	assert.Equal(t, 1, result.FailedOptimizations)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "oak-101", result.Results[0].UnitID)
}

func TestOptimizeBatch_VacantUnitsWhenNoIDs(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newPricingService(mockRepo)
	ctx := context.Background()

	mockRepo.On("ListVacant", ctx, 10).Return([]models.VacantUnit{
		{UnitID: "oak-201", AdvertisedRent: 1300, Status: models.StatusVacant},
	}, nil)
	mockRepo.On("Comparables", ctx, "oak-201").Return(testComps(1250, 1350), nil)

	result, err := service.OptimizeBatch(ctx, BatchOptimizeParams{
		MaxUnits: 10,
		Strategy: models.StrategyLeaseUp,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulOptimizations)
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestOptimizeBatch_MaxUnitsCapsExplicitIDs(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newPricingService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "oak-101").Return(testUnit("oak-101", 1450), nil)
	mockRepo.On("Comparables", ctx, "oak-101").Return(testComps(1400, 1500), nil)

	result, err := service.OptimizeBatch(ctx, BatchOptimizeParams{
		UnitIDs:  []string{"oak-101", "oak-102", "oak-103"},
		MaxUnits: 1,
		Strategy: models.StrategyRevenue,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalUnitsProcessed)
	mockRepo.AssertNotCalled(t, "GetByID", ctx, "oak-102")
}
