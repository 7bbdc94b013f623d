package models

// Market basis values indicate whether market-enriched figures were computed
// from competitor listings or synthesized because none were found.
const (
	BasisObserved  = "observed"
	BasisEstimated = "estimated"
)

// Market position classifications relative to comparable competitor pricing.
const (
	PositionAboveMarket = "ABOVE_MARKET"
	PositionBelowMarket = "BELOW_MARKET"
	PositionAtMarket    = "AT_MARKET"
	PositionNoData      = "NO_DATA"
)

// TableSettings holds the warehouse table names the reporting queries run
// against. A zero-value field means "use the configured fallback".
type TableSettings struct {
	RentrollTable    string `json:"rentroll_table"`
	CompetitionTable string `json:"competition_table"`
	ProjectID        string `json:"project_id"`
}

// TableTestResult is the outcome of probing one configured table.
type TableTestResult struct {
	RowCount *int    `json:"row_count,omitempty"`
	Error    *string `json:"error,omitempty"`
	Success  bool    `json:"success"`
}

// TableTestReport holds per-table probe results for a settings test.
type TableTestReport struct {
	RentrollTable    TableTestResult `json:"rentroll_table"`
	CompetitionTable TableTestResult `json:"competition_table"`
}

// Comparable is one ranked competitor pairing for a unit, as precomputed in
// the pairs mart. The per-unit aggregate columns are repeated on every row.
type Comparable struct {
	CompPriceStddev *float64 `json:"comp_price_stddev,omitempty"`
	UnitID          string   `json:"unit_id"`
	OurProperty     string   `json:"our_property"`
	CompID          string   `json:"comp_id"`
	CompProperty    string   `json:"comp_property"`
	AdvertisedRent  float64  `json:"advertised_rent"`
	Bath            float64  `json:"bath"`
	CompPrice       float64  `json:"comp_price"`
	SqftDeltaPct    float64  `json:"sqft_delta_pct"`
	PriceGapPct     float64  `json:"price_gap_pct"`
	SimilarityScore float64  `json:"similarity_score"`
	AvgCompPrice    float64  `json:"avg_comp_price"`
	MedianCompPrice float64  `json:"median_comp_price"`
	MinCompPrice    float64  `json:"min_comp_price"`
	MaxCompPrice    float64  `json:"max_comp_price"`
	Bed             int      `json:"bed"`
	OurSqft         int      `json:"our_sqft"`
	CompSqft        int      `json:"comp_sqft"`
	CompRank        int      `json:"comp_rank"`
	TotalComps      int      `json:"total_comps"`
	IsAvailable     bool     `json:"is_available"`
}

// CompStats summarizes comparable pricing for a unit.
type CompStats struct {
	TotalComps         int     `json:"total_comps"`
	AvgCompPrice       float64 `json:"avg_comp_price"`
	MedianCompPrice    float64 `json:"median_comp_price"`
	MinCompPrice       float64 `json:"min_comp_price"`
	MaxCompPrice       float64 `json:"max_comp_price"`
	CompPriceStddev    float64 `json:"comp_price_stddev"`
	AvgSimilarityScore float64 `json:"avg_similarity_score"`
}

// ComparableSet bundles the ranked comparables for a unit with summary
// statistics recomputed from the rows. Stats is nil when no comparables
// exist.
type ComparableSet struct {
	Stats       *CompStats   `json:"stats,omitempty"`
	UnitID      string       `json:"unit_id"`
	Comparables []Comparable `json:"comparables"`
}
