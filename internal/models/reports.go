package models

import "time"

// PortfolioMetrics is the portfolio-wide aggregate row. OccupancyRate and
// RevenueOptimizationPotential are derived client-side from the other fields.
type PortfolioMetrics struct {
	TotalUnits                   int     `json:"total_units"`
	VacantUnits                  int     `json:"vacant_units"`
	OccupiedUnits                int     `json:"occupied_units"`
	NoticeUnits                  int     `json:"notice_units"`
	UnitsNeedingPricing          int     `json:"units_needing_pricing"`
	TotalRevenuePotential        float64 `json:"total_revenue_potential"`
	CurrentAnnualRevenue         float64 `json:"current_annual_revenue"`
	AvgRentPerSqft               float64 `json:"avg_rent_per_sqft"`
	AvgOccupiedRent              float64 `json:"avg_occupied_rent"`
	AvgVacantRent                float64 `json:"avg_vacant_rent"`
	OccupancyRate                float64 `json:"occupancy_rate"`
	RevenueOptimizationPotential float64 `json:"revenue_optimization_potential"`
}

// UrgencyCount is one row of the pricing-urgency breakdown.
type UrgencyCount struct {
	PricingUrgency string `json:"pricing_urgency"`
	UnitCount      int    `json:"unit_count"`
}

// PropertyPerformance is one property's row in the top-performers report.
type PropertyPerformance struct {
	Property         string  `json:"property"`
	AvgRent          float64 `json:"avg_rent"`
	AvgRentPerSqft   float64 `json:"avg_rent_per_sqft"`
	RevenuePotential float64 `json:"revenue_potential"`
	TotalUnits       int     `json:"total_units"`
	VacantUnits      int     `json:"vacant_units"`
}

// PortfolioAnalytics is the full dashboard analytics payload.
type PortfolioAnalytics struct {
	Portfolio           PortfolioMetrics      `json:"portfolio"`
	UrgencyBreakdown    []UrgencyCount        `json:"urgency_breakdown"`
	PropertyPerformance []PropertyPerformance `json:"property_performance"`
}

// MarketPositionSummary groups units by their position against comparable
// competitor pricing. Only units with at least one comparable are counted.
type MarketPositionSummary struct {
	MarketPosition     string  `json:"market_position"`
	AvgPremiumDiscount float64 `json:"avg_premium_discount"`
	AvgRent            float64 `json:"avg_rent"`
	UnitCount          int     `json:"unit_count"`
}

// UnitTypeComparison compares our rent per square foot against the market
// for one unit type.
type UnitTypeComparison struct {
	UnitType             string  `json:"unit_type"`
	OurAvgRentPerSqft    float64 `json:"our_avg_rent_per_sqft"`
	MarketAvgRentPerSqft float64 `json:"market_avg_rent_per_sqft"`
	TotalUnits           int     `json:"total_units"`
}

// MarketPositionAnalytics is the market-position dashboard payload.
type MarketPositionAnalytics struct {
	MarketSummary      []MarketPositionSummary `json:"market_summary"`
	UnitTypeComparison []UnitTypeComparison    `json:"unit_type_comparison"`
}

// OpportunitySummary aggregates below-market pricing opportunities.
type OpportunitySummary struct {
	UnitsWith50PlusOpportunity  int     `json:"units_with_50plus_opportunity"`
	UnitsWith100PlusOpportunity int     `json:"units_with_100plus_opportunity"`
	TotalMonthlyOpportunity     float64 `json:"total_monthly_opportunity"`
	TotalAnnualOpportunity      float64 `json:"total_annual_opportunity"`
	AvgOpportunityPerUnit       float64 `json:"avg_opportunity_per_unit"`
}

// PricingOpportunity is one unit's below-market opportunity row.
type PricingOpportunity struct {
	AvgCompPrice             *float64 `json:"avg_comp_price,omitempty"`
	DaysToLeaseEnd           *int     `json:"days_to_lease_end,omitempty"`
	UnitID                   string   `json:"unit_id"`
	Property                 string   `json:"property"`
	UnitType                 string   `json:"unit_type"`
	Status                   string   `json:"status"`
	PricingUrgency           string   `json:"pricing_urgency"`
	AdvertisedRent           float64  `json:"advertised_rent"`
	PotentialRentIncrease    float64  `json:"potential_rent_increase"`
	AnnualRevenueOpportunity float64  `json:"annual_revenue_opportunity"`
}

// PricingOpportunities is the pricing-opportunities dashboard payload.
type PricingOpportunities struct {
	Summary          OpportunitySummary   `json:"summary"`
	TopOpportunities []PricingOpportunity `json:"top_opportunities"`
}

// UnitTypeOverview is one unit type's row in the property-vs-competition
// overview, enriched with market figures. MarketBasis records whether the
// market columns were observed from listings or estimated.
type UnitTypeOverview struct {
	Property              string  `json:"property"`
	UnitType              string  `json:"unit_type"`
	MarketBasis           string  `json:"market_basis"`
	AvgOurRent            float64 `json:"avg_our_rent"`
	AvgOurRentPerSqft     float64 `json:"avg_our_rent_per_sqft"`
	RevenuePotential      float64 `json:"revenue_potential"`
	AvgMarketRent         float64 `json:"avg_market_rent"`
	AvgMarketRentPerSqft  float64 `json:"avg_market_rent_per_sqft"`
	AvgPremiumDiscountPct float64 `json:"avg_premium_discount_pct"`
	UnitCount             int     `json:"unit_count"`
	VacantUnits           int     `json:"vacant_units"`
	UnitsNeedingPricing   int     `json:"units_needing_pricing"`
	CompCount             int     `json:"comp_count"`
}

// BedroomComparison compares our rents against market listings for one
// bedroom count.
type BedroomComparison struct {
	MarketBasis          string  `json:"market_basis"`
	AvgOurRent           float64 `json:"avg_our_rent"`
	MinOurRent           float64 `json:"min_our_rent"`
	MaxOurRent           float64 `json:"max_our_rent"`
	AvgOurRentPerSqft    float64 `json:"avg_our_rent_per_sqft"`
	AvgMarketRent        float64 `json:"avg_market_rent"`
	MinMarketRent        float64 `json:"min_market_rent"`
	MaxMarketRent        float64 `json:"max_market_rent"`
	AvgMarketRentPerSqft float64 `json:"avg_market_rent_per_sqft"`
	RentGapPct           float64 `json:"rent_gap_pct"`
	Bed                  int     `json:"bed"`
	UnitCount            int     `json:"unit_count"`
	CompCount            int     `json:"comp_count"`
}

// PropertyPerformanceMetrics is one property's performance aggregate.
// OccupancyRate and RevenueOpportunity are derived client-side.
type PropertyPerformanceMetrics struct {
	TotalUnits            int     `json:"total_units"`
	VacantUnits           int     `json:"vacant_units"`
	OccupiedUnits         int     `json:"occupied_units"`
	NoticeUnits           int     `json:"notice_units"`
	UnitsNeedingPricing   int     `json:"units_needing_pricing"`
	AvgRent               float64 `json:"avg_rent"`
	AvgRentPerSqft        float64 `json:"avg_rent_per_sqft"`
	TotalRevenuePotential float64 `json:"total_revenue_potential"`
	CurrentAnnualRevenue  float64 `json:"current_annual_revenue"`
	OccupancyRate         float64 `json:"occupancy_rate"`
	RevenueOpportunity    float64 `json:"revenue_opportunity"`
}

// PropertyCompetitionAnalysis is the full property-vs-competition payload.
type PropertyCompetitionAnalysis struct {
	PropertyName             string                     `json:"property_name"`
	OverviewByUnitType       []UnitTypeOverview         `json:"overview_by_unit_type"`
	RentComparisonByBedrooms []BedroomComparison        `json:"rent_comparison_by_bedrooms"`
	PerformanceMetrics       PropertyPerformanceMetrics `json:"performance_metrics"`
}

// UnitCompetitionDetail is one unit's row in the per-property unit-level
// competition analysis.
type UnitCompetitionDetail struct {
	MoveOutDate            *time.Time `json:"move_out_date,omitempty"`
	LeaseEndDate           *time.Time `json:"lease_end_date,omitempty"`
	RentPerSqft            *float64   `json:"rent_per_sqft,omitempty"`
	AnnualRevenuePotential *float64   `json:"annual_revenue_potential,omitempty"`
	DaysToLeaseEnd         *int       `json:"days_to_lease_end,omitempty"`
	AvgCompRent            *float64   `json:"avg_comp_rent,omitempty"`
	MinCompRent            *float64   `json:"min_comp_rent,omitempty"`
	MaxCompRent            *float64   `json:"max_comp_rent,omitempty"`
	RentPremiumPct         *float64   `json:"rent_premium_pct,omitempty"`
	UnitID                 string     `json:"unit_id"`
	UnitType               string     `json:"unit_type"`
	Status                 string     `json:"status"`
	PricingUrgency         string     `json:"pricing_urgency"`
	MarketPosition         string     `json:"market_position"`
	AdvertisedRent         float64    `json:"advertised_rent"`
	Bath                   float64    `json:"bath"`
	AvgSimilarityScore     float64    `json:"avg_similarity_score"`
	PotentialRentIncrease  float64    `json:"potential_rent_increase"`
	AnnualOpportunity      float64    `json:"annual_opportunity"`
	Bed                    int        `json:"bed"`
	Sqft                   int        `json:"sqft"`
	ComparableCount        int        `json:"comparable_count"`
	AvailableComps         int        `json:"available_comps"`
	NeedsPricing           bool       `json:"needs_pricing"`
}

// UnitAnalysisSummary is recomputed from the returned unit rows.
type UnitAnalysisSummary struct {
	TotalUnitsAnalyzed      int     `json:"total_units_analyzed"`
	Units50PlusBelowMarket  int     `json:"units_50plus_below_market"`
	Units100PlusBelowMarket int     `json:"units_100plus_below_market"`
	TotalMonthlyOpportunity float64 `json:"total_monthly_opportunity"`
	TotalAnnualOpportunity  float64 `json:"total_annual_opportunity"`
	AvgRentGap              float64 `json:"avg_rent_gap"`
}

// PropertyUnitAnalysis is the per-property unit-level analysis payload.
type PropertyUnitAnalysis struct {
	PropertyName string                  `json:"property_name"`
	Units        []UnitCompetitionDetail `json:"units"`
	Summary      UnitAnalysisSummary     `json:"summary"`
}

// MarketPositioning compares one (unit type, bed) group against market-wide
// competitor listings. Premium percentages are nil when no market aggregate
// exists to compare against.
type MarketPositioning struct {
	RentPremiumPct          *float64 `json:"rent_premium_pct"`
	RentPerSqftPremiumPct   *float64 `json:"rent_per_sqft_premium_pct"`
	UnitType                string   `json:"unit_type"`
	OurAvgRent              float64  `json:"our_avg_rent"`
	OurAvgRentPerSqft       float64  `json:"our_avg_rent_per_sqft"`
	MarketAvgRent           float64  `json:"market_avg_rent"`
	MarketAvgRentPerSqft    float64  `json:"market_avg_rent_per_sqft"`
	Bed                     int      `json:"bed"`
	OurUnitCount            int      `json:"our_unit_count"`
	CompetitorPropertyCount int      `json:"competitor_property_count"`
	TotalCompetitorUnits    int      `json:"total_competitor_units"`
}

// TopCompetitor is one competitor property ranked by comparable inventory.
type TopCompetitor struct {
	CompetitorProperty   string  `json:"competitor_property"`
	TheirAvgRent         float64 `json:"their_avg_rent"`
	TheirAvgRentPerSqft  float64 `json:"their_avg_rent_per_sqft"`
	AvgSimilarityScore   float64 `json:"avg_similarity_score"`
	OurUnitsCompared     int     `json:"our_units_compared"`
	TheirComparableUnits int     `json:"their_comparable_units"`
	TheirAvailableUnits  int     `json:"their_available_units"`
}

// RentDistributionBucket is one (rent range, unit type) cell of the rent
// distribution report.
type RentDistributionBucket struct {
	RentRange string `json:"rent_range"`
	UnitType  string `json:"unit_type"`
	UnitCount int    `json:"unit_count"`
}

// PropertyMarketTrends is the per-property market-trends payload.
type PropertyMarketTrends struct {
	PropertyName      string                   `json:"property_name"`
	MarketPositioning []MarketPositioning      `json:"market_positioning"`
	TopCompetitors    []TopCompetitor          `json:"top_competitors"`
	RentDistribution  []RentDistributionBucket `json:"rent_distribution"`
}

// PropertyVolume is one property's row in the filter-probe diagnostic.
type PropertyVolume struct {
	Property  string  `json:"property"`
	AvgRent   float64 `json:"avg_rent,omitempty"`
	UnitCount int     `json:"unit_count"`
}

// PropertyFilterProbe echoes how a property filter resolves, for debugging
// name mismatches between the dashboard and the mart.
type PropertyFilterProbe struct {
	PropertySearched    string           `json:"property_searched"`
	FilteredResult      []PropertyVolume `json:"filtered_result"`
	AllPropertiesSample []PropertyVolume `json:"all_properties_sample"`
}

// ColumnInfo is one column of an introspected warehouse table.
type ColumnInfo struct {
	ColumnName string `json:"column_name"`
	DataType   string `json:"data_type"`
}

// CompetitionTableInfo describes the competition table's shape and a few
// sample rows, for debugging listing-feed changes.
type CompetitionTableInfo struct {
	TableName   string           `json:"table_name"`
	Schema      []ColumnInfo     `json:"schema"`
	SampleData  []map[string]any `json:"sample_data"`
	ColumnNames []string         `json:"column_names"`
}
