package models

// Optimization strategies supported by the pricing engine.
const (
	StrategyRevenue  = "revenue"
	StrategyLeaseUp  = "lease_up"
	StrategyBalanced = "balanced"
)

// OptimizationResult is the outcome of optimizing one unit's rent.
// Confidence, DemandProbability and ExpectedDaysToLease are nil when the
// unit had no comparables to anchor the demand curve.
type OptimizationResult struct {
	Confidence          *float64   `json:"confidence"`
	DemandProbability   *float64   `json:"demand_probability"`
	ExpectedDaysToLease *int       `json:"expected_days_to_lease"`
	CompData            *CompStats `json:"comp_data,omitempty"`
	UnitID              string     `json:"unit_id"`
	StrategyUsed        string     `json:"strategy_used"`
	CurrentRent         float64    `json:"current_rent"`
	SuggestedRent       float64    `json:"suggested_rent"`
	RentChange          float64    `json:"rent_change"`
	RentChangePct       float64    `json:"rent_change_pct"`
	RevenueImpactAnnual float64    `json:"revenue_impact_annual"`
}

// BatchOptimizationResult summarizes a batch optimization run. Failed units
// are counted but do not abort the batch.
type BatchOptimizationResult struct {
	Results                 []OptimizationResult `json:"results"`
	TotalUnitsProcessed     int                  `json:"total_units_processed"`
	SuccessfulOptimizations int                  `json:"successful_optimizations"`
	FailedOptimizations     int                  `json:"failed_optimizations"`
}
