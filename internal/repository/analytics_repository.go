package repository

import (
	"context"
	"fmt"

	"github.com/rentroll-ai/optimizer/api/internal/database"
	"github.com/rentroll-ai/optimizer/api/internal/models"
)

// AnalyticsRepository defines data access for the portfolio-wide dashboard
// reports. All queries aggregate over complete snapshot rows only.
type AnalyticsRepository interface {
	// PortfolioMetrics returns the portfolio-wide aggregate row. The derived
	// rate fields are left zero for the service layer to fill in.
	PortfolioMetrics(ctx context.Context) (*models.PortfolioMetrics, error)

	// UrgencyBreakdown returns unit counts per pricing urgency, most units
	// first.
	UrgencyBreakdown(ctx context.Context) ([]models.UrgencyCount, error)

	// PropertyPerformance returns the top properties by revenue potential.
	PropertyPerformance(ctx context.Context, limit int) ([]models.PropertyPerformance, error)

	// MarketPositionSummary groups units by market position. Units without
	// any comparables are excluded.
	MarketPositionSummary(ctx context.Context) ([]models.MarketPositionSummary, error)

	// UnitTypeComparison compares our rent per square foot against comparable
	// competitor pricing per unit type.
	UnitTypeComparison(ctx context.Context) ([]models.UnitTypeComparison, error)

	// OpportunitySummary aggregates below-market pricing opportunities across
	// the portfolio.
	OpportunitySummary(ctx context.Context) (*models.OpportunitySummary, error)

	// TopOpportunities returns the units with the largest annual below-market
	// opportunity.
	TopOpportunities(ctx context.Context, limit int) ([]models.PricingOpportunity, error)
}

type analyticsRepository struct {
	db     *database.Database
	tables *Tables
}

// NewAnalyticsRepository creates a new instance of AnalyticsRepository.
func NewAnalyticsRepository(db *database.Database, tables *Tables) AnalyticsRepository {
	return &analyticsRepository{
		db:     db,
		tables: tables,
	}
}

func (r *analyticsRepository) PortfolioMetrics(ctx context.Context) (*models.PortfolioMetrics, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_units,
			SUM(CASE WHEN status = 'VACANT' THEN 1 ELSE 0 END) AS vacant_units,
			SUM(CASE WHEN status = 'OCCUPIED' THEN 1 ELSE 0 END) AS occupied_units,
			SUM(CASE WHEN status = 'NOTICE' THEN 1 ELSE 0 END) AS notice_units,
			SUM(CASE WHEN needs_pricing THEN 1 ELSE 0 END) AS units_needing_pricing,
			COALESCE(SUM(annual_revenue_potential), 0) AS total_revenue_potential,
			COALESCE(SUM(CASE WHEN status = 'OCCUPIED' THEN advertised_rent * 12 ELSE 0 END), 0) AS current_annual_revenue,
			COALESCE(AVG(rent_per_sqft), 0) AS avg_rent_per_sqft,
			COALESCE(AVG(CASE WHEN status = 'OCCUPIED' THEN advertised_rent END), 0) AS avg_occupied_rent,
			COALESCE(AVG(CASE WHEN status = 'VACANT' THEN advertised_rent END), 0) AS avg_vacant_rent
		FROM %s
		WHERE has_complete_data = TRUE
	`, r.tables.Snapshot())

	var m models.PortfolioMetrics
	err := r.db.Pool.QueryRow(ctx, query).Scan(
		&m.TotalUnits,
		&m.VacantUnits,
		&m.OccupiedUnits,
		&m.NoticeUnits,
		&m.UnitsNeedingPricing,
		&m.TotalRevenuePotential,
		&m.CurrentAnnualRevenue,
		&m.AvgRentPerSqft,
		&m.AvgOccupiedRent,
		&m.AvgVacantRent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio metrics: %w", err)
	}
	return &m, nil
}

func (r *analyticsRepository) UrgencyBreakdown(ctx context.Context) ([]models.UrgencyCount, error) {
	query := fmt.Sprintf(`
		SELECT pricing_urgency, COUNT(*) AS unit_count
		FROM %s
		WHERE has_complete_data = TRUE AND needs_pricing
		GROUP BY pricing_urgency
		ORDER BY unit_count DESC
	`, r.tables.Snapshot())

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query urgency breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := []models.UrgencyCount{}
	for rows.Next() {
		var u models.UrgencyCount
		if err := rows.Scan(&u.PricingUrgency, &u.UnitCount); err != nil {
			return nil, fmt.Errorf("failed to scan urgency row: %w", err)
		}
		breakdown = append(breakdown, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating urgency rows: %w", err)
	}

	return breakdown, nil
}

func (r *analyticsRepository) PropertyPerformance(ctx context.Context, limit int) ([]models.PropertyPerformance, error) {
	query := fmt.Sprintf(`
		SELECT
			property,
			COUNT(*) AS total_units,
			SUM(CASE WHEN status = 'VACANT' THEN 1 ELSE 0 END) AS vacant_units,
			COALESCE(AVG(advertised_rent), 0) AS avg_rent,
			COALESCE(AVG(rent_per_sqft), 0) AS avg_rent_per_sqft,
			COALESCE(SUM(annual_revenue_potential), 0) AS revenue_potential
		FROM %s
		WHERE has_complete_data = TRUE
		GROUP BY property
		ORDER BY revenue_potential DESC
		LIMIT $1
	`, r.tables.Snapshot())

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query property performance: %w", err)
	}
	defer rows.Close()

	performance := []models.PropertyPerformance{}
	for rows.Next() {
		var p models.PropertyPerformance
		err := rows.Scan(
			&p.Property,
			&p.TotalUnits,
			&p.VacantUnits,
			&p.AvgRent,
			&p.AvgRentPerSqft,
			&p.RevenuePotential,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property performance row: %w", err)
		}
		performance = append(performance, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property performance rows: %w", err)
	}

	return performance, nil
}

func (r *analyticsRepository) MarketPositionSummary(ctx context.Context) ([]models.MarketPositionSummary, error) {
	query := fmt.Sprintf(`
		WITH unit_comp_analysis AS (
			SELECT
				u.advertised_rent,
				CASE
					WHEN c.avg_comp_price IS NULL THEN 'NO_DATA'
					WHEN u.advertised_rent > c.avg_comp_price THEN 'ABOVE_MARKET'
					WHEN u.advertised_rent < c.avg_comp_price * 0.95 THEN 'BELOW_MARKET'
					ELSE 'AT_MARKET'
				END AS market_position,
				CASE
					WHEN c.avg_comp_price IS NOT NULL AND c.avg_comp_price > 0
					THEN ROUND(((u.advertised_rent - c.avg_comp_price) / c.avg_comp_price * 100)::numeric, 1)
				END AS premium_discount_pct
			FROM %s u
			LEFT JOIN (
				SELECT unit_id, AVG(comp_price) AS avg_comp_price
				FROM %s
				GROUP BY unit_id
			) c USING (unit_id)
			WHERE u.has_complete_data = TRUE
		)
		SELECT
			market_position,
			COUNT(*) AS unit_count,
			COALESCE(AVG(premium_discount_pct), 0) AS avg_premium_discount,
			COALESCE(AVG(advertised_rent), 0) AS avg_rent
		FROM unit_comp_analysis
		WHERE premium_discount_pct IS NOT NULL
		GROUP BY market_position
		ORDER BY unit_count DESC
	`, r.tables.Snapshot(), r.tables.Pairs())

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query market position summary: %w", err)
	}
	defer rows.Close()

	summary := []models.MarketPositionSummary{}
	for rows.Next() {
		var s models.MarketPositionSummary
		err := rows.Scan(
			&s.MarketPosition,
			&s.UnitCount,
			&s.AvgPremiumDiscount,
			&s.AvgRent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market position row: %w", err)
		}
		summary = append(summary, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating market position rows: %w", err)
	}

	return summary, nil
}

func (r *analyticsRepository) UnitTypeComparison(ctx context.Context) ([]models.UnitTypeComparison, error) {
	// Market rate is averaged per unit first so a unit with many pair rows
	// does not outweigh one with few.
	query := fmt.Sprintf(`
		SELECT
			unit_type,
			COUNT(*) AS total_units,
			COALESCE(ROUND(AVG(our_rent_per_sqft)::numeric, 2), 0) AS our_avg_rent_per_sqft,
			COALESCE(ROUND(AVG(market_rent_per_sqft)::numeric, 2), 0) AS market_avg_rent_per_sqft
		FROM (
			SELECT
				u.unit_id,
				u.unit_type,
				AVG(u.rent_per_sqft) AS our_rent_per_sqft,
				AVG(c.comp_price / NULLIF(c.comp_sqft, 0)) AS market_rent_per_sqft
			FROM %s u
			JOIN %s c USING (unit_id)
			WHERE u.has_complete_data = TRUE
			GROUP BY u.unit_id, u.unit_type
		) per_unit
		GROUP BY unit_type
		ORDER BY unit_type
	`, r.tables.Snapshot(), r.tables.Pairs())

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit type comparison: %w", err)
	}
	defer rows.Close()

	comparison := []models.UnitTypeComparison{}
	for rows.Next() {
		var c models.UnitTypeComparison
		err := rows.Scan(
			&c.UnitType,
			&c.TotalUnits,
			&c.OurAvgRentPerSqft,
			&c.MarketAvgRentPerSqft,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit type comparison row: %w", err)
		}
		comparison = append(comparison, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit type comparison rows: %w", err)
	}

	return comparison, nil
}

// pricingAnalysisCTE computes each unit's gap to its average comparable
// price. Shared by the opportunity summary and top-opportunity queries.
const pricingAnalysisCTE = `
		WITH pricing_analysis AS (
			SELECT
				u.unit_id,
				u.property,
				u.unit_type,
				u.status,
				u.pricing_urgency,
				u.days_to_lease_end,
				u.advertised_rent,
				c.avg_comp_price,
				CASE
					WHEN c.avg_comp_price IS NOT NULL
					THEN ROUND((c.avg_comp_price - u.advertised_rent)::numeric, 0)
				END AS potential_rent_increase,
				CASE
					WHEN c.avg_comp_price IS NOT NULL
					THEN ROUND(((c.avg_comp_price - u.advertised_rent) * 12)::numeric, 0)
				END AS annual_revenue_opportunity
			FROM %s u
			LEFT JOIN (
				SELECT unit_id, AVG(comp_price) AS avg_comp_price
				FROM %s
				GROUP BY unit_id
			) c USING (unit_id)
			WHERE u.has_complete_data = TRUE
		)`

func (r *analyticsRepository) OpportunitySummary(ctx context.Context) (*models.OpportunitySummary, error) {
	query := fmt.Sprintf(pricingAnalysisCTE+`
		SELECT
			COALESCE(SUM(CASE WHEN potential_rent_increase > 50 THEN 1 ELSE 0 END), 0) AS units_with_50plus,
			COALESCE(SUM(CASE WHEN potential_rent_increase > 100 THEN 1 ELSE 0 END), 0) AS units_with_100plus,
			COALESCE(SUM(CASE WHEN potential_rent_increase > 0 THEN potential_rent_increase ELSE 0 END), 0) AS total_monthly_opportunity,
			COALESCE(SUM(CASE WHEN annual_revenue_opportunity > 0 THEN annual_revenue_opportunity ELSE 0 END), 0) AS total_annual_opportunity,
			COALESCE(AVG(CASE WHEN potential_rent_increase > 0 THEN potential_rent_increase END), 0) AS avg_opportunity_per_unit
		FROM pricing_analysis
	`, r.tables.Snapshot(), r.tables.Pairs())

	var s models.OpportunitySummary
	err := r.db.Pool.QueryRow(ctx, query).Scan(
		&s.UnitsWith50PlusOpportunity,
		&s.UnitsWith100PlusOpportunity,
		&s.TotalMonthlyOpportunity,
		&s.TotalAnnualOpportunity,
		&s.AvgOpportunityPerUnit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunity summary: %w", err)
	}
	return &s, nil
}

func (r *analyticsRepository) TopOpportunities(ctx context.Context, limit int) ([]models.PricingOpportunity, error) {
	query := fmt.Sprintf(pricingAnalysisCTE+`
		SELECT
			unit_id,
			property,
			unit_type,
			status,
			pricing_urgency,
			days_to_lease_end,
			advertised_rent,
			avg_comp_price,
			potential_rent_increase,
			annual_revenue_opportunity
		FROM pricing_analysis
		WHERE potential_rent_increase > 0
		ORDER BY annual_revenue_opportunity DESC
		LIMIT $1
	`, r.tables.Snapshot(), r.tables.Pairs())

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top opportunities: %w", err)
	}
	defer rows.Close()

	opportunities := []models.PricingOpportunity{}
	for rows.Next() {
		var o models.PricingOpportunity
		err := rows.Scan(
			&o.UnitID,
			&o.Property,
			&o.UnitType,
			&o.Status,
			&o.PricingUrgency,
			&o.DaysToLeaseEnd,
			&o.AdvertisedRent,
			&o.AvgCompPrice,
			&o.PotentialRentIncrease,
			&o.AnnualRevenueOpportunity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opportunity row: %w", err)
		}
		opportunities = append(opportunities, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating opportunity rows: %w", err)
	}

	return opportunities, nil
}
