package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rentroll-ai/optimizer/api/internal/database"
	"github.com/rentroll-ai/optimizer/api/internal/models"
)

// unitColumns is the full unit-snapshot projection, in scan order.
const unitColumns = `
			unit_id,
			property,
			bed,
			bath,
			sqft,
			status,
			advertised_rent,
			market_rent,
			rent_per_sqft,
			move_out_date,
			lease_end_date,
			days_to_lease_end,
			needs_pricing,
			rent_premium_pct,
			pricing_urgency,
			unit_type,
			size_category,
			annual_revenue_potential,
			has_complete_data`

// UnitRepository defines data access for the unit snapshot and the
// precomputed comparable pairs.
type UnitRepository interface {
	// List returns one page of units matching the filter. Units flagged for
	// pricing sort first, then by urgency, property and unit id.
	List(ctx context.Context, filter UnitFilter, limit, offset int) ([]models.Unit, error)

	// Count returns the total number of units matching the filter.
	Count(ctx context.Context, filter UnitFilter) (int, error)

	// GetByID returns a single unit.
	// Returns nil, nil if the unit does not exist (not an error).
	GetByID(ctx context.Context, unitID string) (*models.Unit, error)

	// ListVacant returns vacant units ordered by pricing urgency.
	// limit <= 0 means no limit.
	ListVacant(ctx context.Context, limit int) ([]models.VacantUnit, error)

	// ListProperties returns all distinct property names, alphabetically.
	ListProperties(ctx context.Context) ([]string, error)

	// UnitTypeSummaries returns inventory statistics keyed by unit type.
	UnitTypeSummaries(ctx context.Context) (map[string]models.UnitTypeSummary, error)

	// Comparables returns the precomputed competitor pairings for a unit,
	// ordered by comparable rank. Returns an empty slice if the unit has none.
	Comparables(ctx context.Context, unitID string) ([]models.Comparable, error)
}

type unitRepository struct {
	db     *database.Database
	tables *Tables
}

// NewUnitRepository creates a new instance of UnitRepository.
func NewUnitRepository(db *database.Database, tables *Tables) UnitRepository {
	return &unitRepository{
		db:     db,
		tables: tables,
	}
}

func (r *unitRepository) List(ctx context.Context, filter UnitFilter, limit, offset int) ([]models.Unit, error) {
	cs := filter.conditions()
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		%s
		ORDER BY
			CASE WHEN needs_pricing THEN 0 ELSE 1 END,
			pricing_urgency DESC,
			property,
			unit_id
		LIMIT $%d OFFSET $%d
	`, unitColumns, r.tables.Snapshot(), cs.where(), cs.next(), cs.next()+1)

	args := append(cs.args, limit, offset)
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	units := []models.Unit{}
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit rows: %w", err)
	}

	return units, nil
}

func (r *unitRepository) Count(ctx context.Context, filter UnitFilter) (int, error) {
	cs := filter.conditions()
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, r.tables.Snapshot(), cs.where())

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, cs.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count units: %w", err)
	}
	return count, nil
}

func (r *unitRepository) GetByID(ctx context.Context, unitID string) (*models.Unit, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE unit_id = $1
	`, unitColumns, r.tables.Snapshot())

	unit, err := scanUnit(r.db.Pool.QueryRow(ctx, query, unitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query unit %s: %w", unitID, err)
	}
	return unit, nil
}

func (r *unitRepository) ListVacant(ctx context.Context, limit int) ([]models.VacantUnit, error) {
	query := fmt.Sprintf(`
		SELECT
			unit_id,
			property,
			bed,
			bath,
			sqft,
			status,
			advertised_rent,
			market_rent,
			rent_per_sqft,
			pricing_urgency,
			unit_type,
			size_category
		FROM %s
		WHERE status = 'VACANT' AND has_complete_data = TRUE
		ORDER BY
			CASE pricing_urgency
				WHEN 'IMMEDIATE' THEN 0
				WHEN 'HIGH' THEN 1
				WHEN 'MEDIUM' THEN 2
				ELSE 3
			END,
			property,
			unit_id
	`, r.tables.Snapshot())

	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vacant units: %w", err)
	}
	defer rows.Close()

	units := []models.VacantUnit{}
	for rows.Next() {
		var u models.VacantUnit
		err := rows.Scan(
			&u.UnitID,
			&u.Property,
			&u.Bed,
			&u.Bath,
			&u.Sqft,
			&u.Status,
			&u.AdvertisedRent,
			&u.MarketRent,
			&u.RentPerSqft,
			&u.PricingUrgency,
			&u.UnitType,
			&u.SizeCategory,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vacant unit row: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vacant unit rows: %w", err)
	}

	return units, nil
}

func (r *unitRepository) ListProperties(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT property
		FROM %s
		WHERE property IS NOT NULL
		ORDER BY property
	`, r.tables.Snapshot())

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	properties := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}

	return properties, nil
}

func (r *unitRepository) UnitTypeSummaries(ctx context.Context) (map[string]models.UnitTypeSummary, error) {
	query := fmt.Sprintf(`
		SELECT
			unit_type,
			COUNT(*) AS total_units,
			SUM(CASE WHEN needs_pricing THEN 1 ELSE 0 END) AS units_needing_pricing,
			COALESCE(AVG(advertised_rent), 0) AS avg_rent,
			COALESCE(AVG(rent_per_sqft), 0) AS avg_rent_per_sqft
		FROM %s
		WHERE has_complete_data = TRUE
		GROUP BY unit_type
		ORDER BY unit_type
	`, r.tables.Snapshot())

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit type summaries: %w", err)
	}
	defer rows.Close()

	summaries := map[string]models.UnitTypeSummary{}
	for rows.Next() {
		var unitType string
		var s models.UnitTypeSummary
		err := rows.Scan(
			&unitType,
			&s.TotalUnits,
			&s.UnitsNeedingPricing,
			&s.AvgRent,
			&s.AvgRentPerSqft,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit type summary row: %w", err)
		}
		summaries[unitType] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit type summary rows: %w", err)
	}

	return summaries, nil
}

func (r *unitRepository) Comparables(ctx context.Context, unitID string) ([]models.Comparable, error) {
	query := fmt.Sprintf(`
		SELECT
			unit_id,
			our_property,
			bed,
			our_sqft,
			advertised_rent,
			bath,
			comp_id,
			comp_property,
			comp_price,
			comp_sqft,
			is_available,
			sqft_delta_pct,
			price_gap_pct,
			similarity_score,
			comp_rank,
			total_comps,
			avg_comp_price,
			median_comp_price,
			min_comp_price,
			max_comp_price,
			comp_price_stddev
		FROM %s
		WHERE unit_id = $1
		ORDER BY comp_rank
	`, r.tables.Pairs())

	rows, err := r.db.Pool.Query(ctx, query, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparables for unit %s: %w", unitID, err)
	}
	defer rows.Close()

	comps := []models.Comparable{}
	for rows.Next() {
		var c models.Comparable
		err := rows.Scan(
			&c.UnitID,
			&c.OurProperty,
			&c.Bed,
			&c.OurSqft,
			&c.AdvertisedRent,
			&c.Bath,
			&c.CompID,
			&c.CompProperty,
			&c.CompPrice,
			&c.CompSqft,
			&c.IsAvailable,
			&c.SqftDeltaPct,
			&c.PriceGapPct,
			&c.SimilarityScore,
			&c.CompRank,
			&c.TotalComps,
			&c.AvgCompPrice,
			&c.MedianCompPrice,
			&c.MinCompPrice,
			&c.MaxCompPrice,
			&c.CompPriceStddev,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comparable row: %w", err)
		}
		comps = append(comps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comparable rows: %w", err)
	}

	return comps, nil
}

// scanUnit scans one full unit-snapshot row. Works for both QueryRow and
// rows iteration since pgx.Row and pgx.Rows share Scan.
func scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	err := row.Scan(
		&u.UnitID,
		&u.Property,
		&u.Bed,
		&u.Bath,
		&u.Sqft,
		&u.Status,
		&u.AdvertisedRent,
		&u.MarketRent,
		&u.RentPerSqft,
		&u.MoveOutDate,
		&u.LeaseEndDate,
		&u.DaysToLeaseEnd,
		&u.NeedsPricing,
		&u.RentPremiumPct,
		&u.PricingUrgency,
		&u.UnitType,
		&u.SizeCategory,
		&u.AnnualRevenuePotential,
		&u.HasCompleteData,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan unit row: %w", err)
	}
	return &u, nil
}
