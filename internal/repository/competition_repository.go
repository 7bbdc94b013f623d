package repository

import (
	"context"
	"fmt"

	"github.com/rentroll-ai/optimizer/api/internal/config"
	"github.com/rentroll-ai/optimizer/api/internal/database"
	"github.com/rentroll-ai/optimizer/api/internal/models"
)

// bedLabelCase matches a snapshot bedroom count against the text labels the
// competition listing feed uses. Rendered inline in join conditions.
const bedLabelCase = `(CASE
					WHEN p.bed = 0 THEN c.bed = 'Studio'
					WHEN p.bed = 1 THEN c.bed = '1 Bed'
					WHEN p.bed = 2 THEN c.bed = '2 Beds'
					WHEN p.bed = 3 THEN c.bed = '3 Beds'
					WHEN p.bed >= 4 THEN c.bed = '4 Beds'
					ELSE c.bed = '1 Bed'
				END)`

// MarketSnapshot is an aggregate of competitor listings for one bedroom
// label, optionally restricted to a price band.
type MarketSnapshot struct {
	AvgMarketRent        float64
	MinMarketRent        float64
	MaxMarketRent        float64
	AvgMarketRentPerSqft float64
	CompCount            int
}

// CompetitionRepository defines data access for the per-property
// market-comparison reports built on the competitor listing table.
type CompetitionRepository interface {
	// UnitTypeOverview returns per-unit-type inventory aggregates for a
	// property. Market columns are left for the service to enrich.
	UnitTypeOverview(ctx context.Context, property string) ([]models.UnitTypeOverview, error)

	// UnitTypeMarketSnapshot aggregates competitor listings for a bedroom
	// label, restricted to listings priced within the comparison band around
	// avgRent.
	UnitTypeMarketSnapshot(ctx context.Context, bedLabel string, avgRent float64) (*MarketSnapshot, error)

	// BedroomSummary returns per-bedroom rent aggregates for a property.
	// Market columns are left for the service to enrich.
	BedroomSummary(ctx context.Context, property string) ([]models.BedroomComparison, error)

	// BedroomMarketSnapshot aggregates all priced competitor listings for a
	// bedroom label, with no price band.
	BedroomMarketSnapshot(ctx context.Context, bedLabel string) (*MarketSnapshot, error)

	// PerformanceMetrics returns a property's aggregate performance row. The
	// derived rate fields are left zero for the service layer to fill in.
	PerformanceMetrics(ctx context.Context, property string) (*models.PropertyPerformanceMetrics, error)

	// UnitDetails returns every unit of a property joined against competitor
	// listings matched by bedroom label within the comparison price band.
	UnitDetails(ctx context.Context, property string) ([]models.UnitCompetitionDetail, error)

	// MarketPositioning compares a property's (unit type, bed) groups against
	// market-wide competitor aggregates.
	MarketPositioning(ctx context.Context, property string) ([]models.MarketPositioning, error)

	// TopCompetitors ranks competitor properties by truly comparable
	// inventory. Only competitors clearing the comparable-unit floor are
	// returned.
	TopCompetitors(ctx context.Context, property string) ([]models.TopCompetitor, error)

	// RentDistribution buckets a property's units into rent ranges.
	RentDistribution(ctx context.Context, property string) ([]models.RentDistributionBucket, error)
}

type competitionRepository struct {
	db      *database.Database
	tables  *Tables
	pricing config.PricingConfig
}

// NewCompetitionRepository creates a new instance of CompetitionRepository.
func NewCompetitionRepository(db *database.Database, tables *Tables, pricing config.PricingConfig) CompetitionRepository {
	return &competitionRepository{
		db:      db,
		tables:  tables,
		pricing: pricing,
	}
}

func (r *competitionRepository) UnitTypeOverview(ctx context.Context, property string) ([]models.UnitTypeOverview, error) {
	query := fmt.Sprintf(`
		SELECT
			property,
			unit_type,
			COUNT(*) AS unit_count,
			COALESCE(ROUND(AVG(advertised_rent)::numeric, 0), 0) AS avg_our_rent,
			COALESCE(ROUND(AVG(rent_per_sqft)::numeric, 2), 0) AS avg_our_rent_per_sqft,
			SUM(CASE WHEN status = 'VACANT' THEN 1 ELSE 0 END) AS vacant_units,
			SUM(CASE WHEN needs_pricing THEN 1 ELSE 0 END) AS units_needing_pricing,
			COALESCE(SUM(annual_revenue_potential), 0) AS revenue_potential
		FROM %s
		WHERE property = $1
		GROUP BY property, unit_type
		ORDER BY unit_type
	`, r.tables.Snapshot())

	rows, err := r.db.Pool.Query(ctx, query, property)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit type overview for %s: %w", property, err)
	}
	defer rows.Close()

	overview := []models.UnitTypeOverview{}
	for rows.Next() {
		var o models.UnitTypeOverview
		err := rows.Scan(
			&o.Property,
			&o.UnitType,
			&o.UnitCount,
			&o.AvgOurRent,
			&o.AvgOurRentPerSqft,
			&o.VacantUnits,
			&o.UnitsNeedingPricing,
			&o.RevenuePotential,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit type overview row: %w", err)
		}
		overview = append(overview, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit type overview rows: %w", err)
	}

	return overview, nil
}

func (r *competitionRepository) UnitTypeMarketSnapshot(ctx context.Context, bedLabel string, avgRent float64) (*MarketSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT
			COALESCE(ROUND(AVG(base_price)::numeric, 0), 0) AS avg_market_rent,
			COALESCE(ROUND(AVG(base_price / NULLIF(sq_ft, 0))::numeric, 2), 0) AS avg_market_rent_per_sqft,
			COUNT(*) AS comp_count
		FROM %s
		WHERE bed = $1
			AND base_price > 0
			AND sq_ft > 0
			AND base_price BETWEEN $2 AND $3
	`, r.tables.Competition())

	low := avgRent * (1 - r.pricing.CompPriceBand)
	high := avgRent * (1 + r.pricing.CompPriceBand)

	var s MarketSnapshot
	err := r.db.Pool.QueryRow(ctx, query, bedLabel, low, high).Scan(
		&s.AvgMarketRent,
		&s.AvgMarketRentPerSqft,
		&s.CompCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query market snapshot for %s: %w", bedLabel, err)
	}
	return &s, nil
}

func (r *competitionRepository) BedroomSummary(ctx context.Context, property string) ([]models.BedroomComparison, error) {
	query := fmt.Sprintf(`
		SELECT
			bed,
			COUNT(*) AS unit_count,
			COALESCE(ROUND(AVG(advertised_rent)::numeric, 0), 0) AS avg_our_rent,
			COALESCE(ROUND(MIN(advertised_rent)::numeric, 0), 0) AS min_our_rent,
			COALESCE(ROUND(MAX(advertised_rent)::numeric, 0), 0) AS max_our_rent,
			COALESCE(ROUND(AVG(rent_per_sqft)::numeric, 2), 0) AS avg_our_rent_per_sqft
		FROM %s
		WHERE property = $1
		GROUP BY bed
		ORDER BY bed
	`, r.tables.Snapshot())

	rows, err := r.db.Pool.Query(ctx, query, property)
	if err != nil {
		return nil, fmt.Errorf("failed to query bedroom summary for %s: %w", property, err)
	}
	defer rows.Close()

	summary := []models.BedroomComparison{}
	for rows.Next() {
		var b models.BedroomComparison
		err := rows.Scan(
			&b.Bed,
			&b.UnitCount,
			&b.AvgOurRent,
			&b.MinOurRent,
			&b.MaxOurRent,
			&b.AvgOurRentPerSqft,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bedroom summary row: %w", err)
		}
		summary = append(summary, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bedroom summary rows: %w", err)
	}

	return summary, nil
}

func (r *competitionRepository) BedroomMarketSnapshot(ctx context.Context, bedLabel string) (*MarketSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT
			COALESCE(ROUND(AVG(base_price)::numeric, 0), 0) AS avg_market_rent,
			COALESCE(ROUND(MIN(base_price)::numeric, 0), 0) AS min_market_rent,
			COALESCE(ROUND(MAX(base_price)::numeric, 0), 0) AS max_market_rent,
			COALESCE(ROUND(AVG(base_price / NULLIF(sq_ft, 0))::numeric, 2), 0) AS avg_market_rent_per_sqft,
			COUNT(*) AS comp_count
		FROM %s
		WHERE bed = $1
			AND base_price > 0
			AND sq_ft > 0
	`, r.tables.Competition())

	var s MarketSnapshot
	err := r.db.Pool.QueryRow(ctx, query, bedLabel).Scan(
		&s.AvgMarketRent,
		&s.MinMarketRent,
		&s.MaxMarketRent,
		&s.AvgMarketRentPerSqft,
		&s.CompCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query bedroom market snapshot for %s: %w", bedLabel, err)
	}
	return &s, nil
}

func (r *competitionRepository) PerformanceMetrics(ctx context.Context, property string) (*models.PropertyPerformanceMetrics, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_units,
			SUM(CASE WHEN status = 'VACANT' THEN 1 ELSE 0 END) AS vacant_units,
			SUM(CASE WHEN status = 'OCCUPIED' THEN 1 ELSE 0 END) AS occupied_units,
			SUM(CASE WHEN status = 'NOTICE' THEN 1 ELSE 0 END) AS notice_units,
			SUM(CASE WHEN needs_pricing THEN 1 ELSE 0 END) AS units_needing_pricing,
			COALESCE(ROUND(AVG(advertised_rent)::numeric, 0), 0) AS avg_rent,
			COALESCE(ROUND(AVG(rent_per_sqft)::numeric, 2), 0) AS avg_rent_per_sqft,
			COALESCE(SUM(annual_revenue_potential), 0) AS total_revenue_potential,
			COALESCE(SUM(CASE WHEN status = 'OCCUPIED' THEN advertised_rent * 12 ELSE 0 END), 0) AS current_annual_revenue
		FROM %s
		WHERE property = $1
	`, r.tables.Snapshot())

	var m models.PropertyPerformanceMetrics
	err := r.db.Pool.QueryRow(ctx, query, property).Scan(
		&m.TotalUnits,
		&m.VacantUnits,
		&m.OccupiedUnits,
		&m.NoticeUnits,
		&m.UnitsNeedingPricing,
		&m.AvgRent,
		&m.AvgRentPerSqft,
		&m.TotalRevenuePotential,
		&m.CurrentAnnualRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance metrics for %s: %w", property, err)
	}
	return &m, nil
}

func (r *competitionRepository) UnitDetails(ctx context.Context, property string) ([]models.UnitCompetitionDetail, error) {
	query := fmt.Sprintf(`
		WITH property_units AS (
			SELECT
				unit_id,
				unit_type,
				bed,
				bath,
				sqft,
				status,
				advertised_rent,
				rent_per_sqft,
				needs_pricing,
				pricing_urgency,
				annual_revenue_potential,
				move_out_date,
				lease_end_date,
				days_to_lease_end
			FROM %s
			WHERE property = $1
		),
		unit_competition AS (
			SELECT
				p.unit_id,
				COUNT(c.property) AS comparable_count,
				AVG(c.base_price) AS avg_comp_rent,
				MIN(c.base_price) AS min_comp_rent,
				MAX(c.base_price) AS max_comp_rent,
				SUM(CASE WHEN c.availability LIKE '%%Available%%' THEN 1 ELSE 0 END) AS available_comps
			FROM property_units p
			LEFT JOIN %s c
				ON %s
				AND c.base_price > 0
				AND c.sq_ft > 0
				AND c.base_price BETWEEN p.advertised_rent * $2 AND p.advertised_rent * $3
			GROUP BY p.unit_id
		)
		SELECT
			p.unit_id,
			p.unit_type,
			p.bed,
			p.bath,
			p.sqft,
			p.status,
			p.advertised_rent,
			p.rent_per_sqft,
			p.needs_pricing,
			p.pricing_urgency,
			p.annual_revenue_potential,
			p.move_out_date,
			p.lease_end_date,
			p.days_to_lease_end,
			COALESCE(c.comparable_count, 0) AS comparable_count,
			c.avg_comp_rent,
			c.min_comp_rent,
			c.max_comp_rent,
			$4::float8 AS avg_similarity_score,
			COALESCE(c.available_comps, 0) AS available_comps,
			CASE
				WHEN c.avg_comp_rent IS NOT NULL AND c.avg_comp_rent > 0
				THEN ROUND(((p.advertised_rent - c.avg_comp_rent) / c.avg_comp_rent * 100)::numeric, 1)
			END AS rent_premium_pct,
			CASE
				WHEN c.avg_comp_rent IS NOT NULL AND c.avg_comp_rent > p.advertised_rent
				THEN ROUND((c.avg_comp_rent - p.advertised_rent)::numeric, 0)
				ELSE 0
			END AS potential_rent_increase,
			CASE
				WHEN c.avg_comp_rent IS NOT NULL AND c.avg_comp_rent > p.advertised_rent
				THEN ROUND(((c.avg_comp_rent - p.advertised_rent) * 12)::numeric, 0)
				ELSE 0
			END AS annual_opportunity,
			CASE
				WHEN c.avg_comp_rent IS NOT NULL AND p.advertised_rent > c.avg_comp_rent * 1.05 THEN 'ABOVE_MARKET'
				WHEN c.avg_comp_rent IS NOT NULL AND p.advertised_rent < c.avg_comp_rent * 0.95 THEN 'BELOW_MARKET'
				WHEN c.avg_comp_rent IS NOT NULL THEN 'AT_MARKET'
				ELSE 'NO_DATA'
			END AS market_position
		FROM property_units p
		LEFT JOIN unit_competition c ON p.unit_id = c.unit_id
		ORDER BY
			CASE WHEN p.needs_pricing THEN 0 ELSE 1 END,
			COALESCE(c.avg_comp_rent, 0) - p.advertised_rent DESC,
			p.unit_id
	`, r.tables.Snapshot(), r.tables.Competition(), bedLabelCase)

	low := 1 - r.pricing.CompPriceBand
	high := 1 + r.pricing.CompPriceBand

	rows, err := r.db.Pool.Query(ctx, query, property, low, high, r.pricing.FallbackSimilarity)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit details for %s: %w", property, err)
	}
	defer rows.Close()

	details := []models.UnitCompetitionDetail{}
	for rows.Next() {
		var d models.UnitCompetitionDetail
		err := rows.Scan(
			&d.UnitID,
			&d.UnitType,
			&d.Bed,
			&d.Bath,
			&d.Sqft,
			&d.Status,
			&d.AdvertisedRent,
			&d.RentPerSqft,
			&d.NeedsPricing,
			&d.PricingUrgency,
			&d.AnnualRevenuePotential,
			&d.MoveOutDate,
			&d.LeaseEndDate,
			&d.DaysToLeaseEnd,
			&d.ComparableCount,
			&d.AvgCompRent,
			&d.MinCompRent,
			&d.MaxCompRent,
			&d.AvgSimilarityScore,
			&d.AvailableComps,
			&d.RentPremiumPct,
			&d.PotentialRentIncrease,
			&d.AnnualOpportunity,
			&d.MarketPosition,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit detail row: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit detail rows: %w", err)
	}

	return details, nil
}

func (r *competitionRepository) MarketPositioning(ctx context.Context, property string) ([]models.MarketPositioning, error) {
	query := fmt.Sprintf(`
		WITH property_units AS (
			SELECT
				unit_type,
				bed,
				COUNT(*) AS our_unit_count,
				AVG(advertised_rent) AS our_avg_rent,
				AVG(rent_per_sqft) AS our_avg_rent_per_sqft
			FROM %s
			WHERE property = $1
			GROUP BY unit_type, bed
		),
		market_data AS (
			SELECT
				CASE
					WHEN c.bed = 'Studio' THEN 'STUDIO'
					WHEN c.bed = '1 Bed' THEN '1BR'
					WHEN c.bed = '2 Beds' THEN '2BR'
					WHEN c.bed = '3 Beds' THEN '3BR'
					WHEN c.bed = '4 Beds' THEN '4BR+'
					ELSE 'OTHER'
				END AS unit_type,
				CASE
					WHEN c.bed = 'Studio' THEN 0
					WHEN c.bed = '1 Bed' THEN 1
					WHEN c.bed = '2 Beds' THEN 2
					WHEN c.bed = '3 Beds' THEN 3
					WHEN c.bed = '4 Beds' THEN 4
					ELSE 1
				END AS bed,
				AVG(c.base_price) AS market_avg_rent,
				AVG(c.base_price / NULLIF(c.sq_ft, 0)) AS market_avg_rent_per_sqft,
				COUNT(DISTINCT c.property) AS competitor_property_count,
				COUNT(*) AS total_competitor_units
			FROM %s c
			WHERE c.base_price > 0
				AND c.sq_ft > 0
				AND c.bed IS NOT NULL
			GROUP BY 1, 2
		)
		SELECT
			p.unit_type,
			p.bed,
			p.our_unit_count,
			ROUND(p.our_avg_rent::numeric, 0) AS our_avg_rent,
			ROUND(p.our_avg_rent_per_sqft::numeric, 2) AS our_avg_rent_per_sqft,
			ROUND(COALESCE(m.market_avg_rent, 0)::numeric, 0) AS market_avg_rent,
			ROUND(COALESCE(m.market_avg_rent_per_sqft, 0)::numeric, 2) AS market_avg_rent_per_sqft,
			COALESCE(m.competitor_property_count, 0) AS competitor_property_count,
			COALESCE(m.total_competitor_units, 0) AS total_competitor_units,
			CASE
				WHEN m.market_avg_rent > 0
				THEN ROUND(((p.our_avg_rent - m.market_avg_rent) / m.market_avg_rent * 100)::numeric, 1)
			END AS rent_premium_pct,
			CASE
				WHEN m.market_avg_rent_per_sqft > 0
				THEN ROUND(((p.our_avg_rent_per_sqft - m.market_avg_rent_per_sqft) / m.market_avg_rent_per_sqft * 100)::numeric, 1)
			END AS rent_per_sqft_premium_pct
		FROM property_units p
		LEFT JOIN market_data m ON p.unit_type = m.unit_type AND p.bed = m.bed
		ORDER BY p.bed, p.unit_type
	`, r.tables.Snapshot(), r.tables.Competition())

	rows, err := r.db.Pool.Query(ctx, query, property)
	if err != nil {
		return nil, fmt.Errorf("failed to query market positioning for %s: %w", property, err)
	}
	defer rows.Close()

	positioning := []models.MarketPositioning{}
	for rows.Next() {
		var p models.MarketPositioning
		err := rows.Scan(
			&p.UnitType,
			&p.Bed,
			&p.OurUnitCount,
			&p.OurAvgRent,
			&p.OurAvgRentPerSqft,
			&p.MarketAvgRent,
			&p.MarketAvgRentPerSqft,
			&p.CompetitorPropertyCount,
			&p.TotalCompetitorUnits,
			&p.RentPremiumPct,
			&p.RentPerSqftPremiumPct,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market positioning row: %w", err)
		}
		positioning = append(positioning, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating market positioning rows: %w", err)
	}

	return positioning, nil
}

func (r *competitionRepository) TopCompetitors(ctx context.Context, property string) ([]models.TopCompetitor, error) {
	query := fmt.Sprintf(`
		WITH property_units AS (
			SELECT
				bed,
				bath,
				sqft,
				advertised_rent,
				COUNT(*) AS our_unit_count
			FROM %s
			WHERE property = $1
			GROUP BY bed, bath, sqft, advertised_rent
		),
		competitor_matches AS (
			SELECT
				c.property AS competitor_property,
				COUNT(CASE
					WHEN c.base_price BETWEEN p.advertised_rent * $2 AND p.advertised_rent * $3
						AND c.sq_ft BETWEEN p.sqft * $2 AND p.sqft * $3
					THEN 1 END
				) AS truly_comparable_units,
				AVG(c.base_price) AS their_avg_rent,
				AVG(c.base_price / NULLIF(c.sq_ft, 0)) AS their_avg_rent_per_sqft,
				SUM(CASE WHEN c.availability LIKE '%%Available%%' THEN 1 ELSE 0 END) AS their_available_units,
				AVG(
					(1.0 - ABS(c.base_price - p.advertised_rent) / GREATEST(c.base_price, p.advertised_rent)) * 0.6 +
					(1.0 - ABS(c.sq_ft - p.sqft) / GREATEST(c.sq_ft, p.sqft)) * 0.4
				) AS calculated_similarity_score,
				SUM(p.our_unit_count) AS our_units_compared
			FROM %s c
			INNER JOIN property_units p
				ON %s
				AND c.base_price BETWEEN p.advertised_rent * $4 AND p.advertised_rent * $5
				AND c.base_price > 0
				AND c.sq_ft > 0
			GROUP BY c.property
			HAVING COUNT(CASE
				WHEN c.base_price BETWEEN p.advertised_rent * $2 AND p.advertised_rent * $3
					AND c.sq_ft BETWEEN p.sqft * $2 AND p.sqft * $3
				THEN 1 END) >= $6
		)
		SELECT
			competitor_property,
			our_units_compared,
			truly_comparable_units AS their_comparable_units,
			ROUND(their_avg_rent::numeric, 0) AS their_avg_rent,
			ROUND(their_avg_rent_per_sqft::numeric, 2) AS their_avg_rent_per_sqft,
			ROUND(GREATEST(0.1, LEAST(1.0, calculated_similarity_score))::numeric, 2) AS avg_similarity_score,
			their_available_units
		FROM competitor_matches
		ORDER BY truly_comparable_units DESC, calculated_similarity_score DESC
		LIMIT 10
	`, r.tables.Snapshot(), r.tables.Competition(), bedLabelCase)

	tightLow := 1 - r.pricing.ComparableBand
	tightHigh := 1 + r.pricing.ComparableBand
	wideLow := 1 - r.pricing.CompPriceBand
	wideHigh := 1 + r.pricing.CompPriceBand

	rows, err := r.db.Pool.Query(ctx, query, property, tightLow, tightHigh, wideLow, wideHigh, r.pricing.MinComparableUnits)
	if err != nil {
		return nil, fmt.Errorf("failed to query top competitors for %s: %w", property, err)
	}
	defer rows.Close()

	competitors := []models.TopCompetitor{}
	for rows.Next() {
		var c models.TopCompetitor
		err := rows.Scan(
			&c.CompetitorProperty,
			&c.OurUnitsCompared,
			&c.TheirComparableUnits,
			&c.TheirAvgRent,
			&c.TheirAvgRentPerSqft,
			&c.AvgSimilarityScore,
			&c.TheirAvailableUnits,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan competitor row: %w", err)
		}
		competitors = append(competitors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating competitor rows: %w", err)
	}

	return competitors, nil
}

func (r *competitionRepository) RentDistribution(ctx context.Context, property string) ([]models.RentDistributionBucket, error) {
	query := fmt.Sprintf(`
		WITH rent_ranges AS (
			SELECT
				CASE
					WHEN advertised_rent < 1000 THEN 'Under $1,000'
					WHEN advertised_rent < 1500 THEN '$1,000 - $1,499'
					WHEN advertised_rent < 2000 THEN '$1,500 - $1,999'
					WHEN advertised_rent < 2500 THEN '$2,000 - $2,499'
					WHEN advertised_rent < 3000 THEN '$2,500 - $2,999'
					ELSE '$3,000+'
				END AS rent_range,
				unit_type,
				COUNT(*) AS unit_count
			FROM %s
			WHERE property = $1
			GROUP BY 1, unit_type
		)
		SELECT rent_range, unit_type, unit_count
		FROM rent_ranges
		ORDER BY
			CASE rent_range
				WHEN 'Under $1,000' THEN 1
				WHEN '$1,000 - $1,499' THEN 2
				WHEN '$1,500 - $1,999' THEN 3
				WHEN '$2,000 - $2,499' THEN 4
				WHEN '$2,500 - $2,999' THEN 5
				ELSE 6
			END,
			unit_type
	`, r.tables.Snapshot())

	rows, err := r.db.Pool.Query(ctx, query, property)
	if err != nil {
		return nil, fmt.Errorf("failed to query rent distribution for %s: %w", property, err)
	}
	defer rows.Close()

	distribution := []models.RentDistributionBucket{}
	for rows.Next() {
		var b models.RentDistributionBucket
		if err := rows.Scan(&b.RentRange, &b.UnitType, &b.UnitCount); err != nil {
			return nil, fmt.Errorf("failed to scan rent distribution row: %w", err)
		}
		distribution = append(distribution, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rent distribution rows: %w", err)
	}

	return distribution, nil
}
