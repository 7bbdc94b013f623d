package repository

import (
	"context"
	"os"
	"testing"

	"github.com/rentroll-ai/optimizer/api/internal/config"
	"github.com/rentroll-ai/optimizer/api/internal/database"
)

// getTestConfig returns database configuration for integration tests.
func getTestConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		Name:     getEnvOrDefault("DB_NAME", "rentroll"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		PoolMin:  2,
		PoolMax:  5,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getTestTables() *Tables {
	return NewTables(config.WarehouseConfig{
		ProjectID: getEnvOrDefault("WAREHOUSE_PROJECT_ID", "rentroll-ai"),
	})
}

// setupTestDB creates a warehouse connection for integration tests.
func setupTestDB(t *testing.T) *database.Database {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, getTestConfig())
	if err != nil {
		t.Fatalf("Failed to create database connection: %v", err)
	}
	return db
}

// TestUnitRepository_List exercises the paginated listing against real
// snapshot data. Requires the mart tables to be loaded.
func TestUnitRepository_List(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUnitRepository(db, getTestTables())
	ctx := context.Background()

	units, err := repo.List(ctx, UnitFilter{}, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(units) > 10 {
		t.Errorf("Expected at most 10 units, got %d", len(units))
	}

	// Units flagged for pricing must sort before the rest.
	seenUnflagged := false
	for _, u := range units {
		if !u.NeedsPricing {
			seenUnflagged = true
		} else if seenUnflagged {
			t.Error("Expected needs_pricing units to sort first")
			break
		}
	}
}

func TestUnitRepository_ListFiltered(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUnitRepository(db, getTestTables())
	ctx := context.Background()

	units, err := repo.List(ctx, UnitFilter{Status: "VACANT"}, 5, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, u := range units {
		if u.Status != "VACANT" {
			t.Errorf("Expected only VACANT units, got %s for %s", u.Status, u.UnitID)
		}
		if !u.HasCompleteData {
			t.Errorf("Expected only complete rows, unit %s is incomplete", u.UnitID)
		}
	}
}

func TestUnitRepository_CountMatchesList(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUnitRepository(db, getTestTables())
	ctx := context.Background()

	filter := UnitFilter{NeedsPricingOnly: true}
	count, err := repo.Count(ctx, filter)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	units, err := repo.List(ctx, filter, count+1, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(units) != count {
		t.Errorf("Expected %d units, got %d", count, len(units))
	}
}

func TestUnitRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUnitRepository(db, getTestTables())

	unit, err := repo.GetByID(context.Background(), "no-such-unit-id")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if unit != nil {
		t.Errorf("Expected nil for missing unit, got %+v", unit)
	}
}

func TestUnitRepository_Comparables_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUnitRepository(db, getTestTables())

	comps, err := repo.Comparables(context.Background(), "no-such-unit-id")
	if err != nil {
		t.Fatalf("Comparables failed: %v", err)
	}
	if len(comps) != 0 {
		t.Errorf("Expected no comparables, got %d", len(comps))
	}
}

func TestAnalyticsRepository_PortfolioMetrics(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewAnalyticsRepository(db, getTestTables())

	metrics, err := repo.PortfolioMetrics(context.Background())
	if err != nil {
		t.Fatalf("PortfolioMetrics failed: %v", err)
	}
	if metrics.TotalUnits < metrics.VacantUnits+metrics.OccupiedUnits+metrics.NoticeUnits {
		t.Errorf("Status counts exceed total: %+v", metrics)
	}
}

func TestAnalyticsRepository_UnitTypeComparison(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewAnalyticsRepository(db, getTestTables())

	rows, err := repo.UnitTypeComparison(context.Background())
	if err != nil {
		t.Fatalf("UnitTypeComparison failed: %v", err)
	}
	seen := map[string]bool{}
	for _, row := range rows {
		if seen[row.UnitType] {
			t.Errorf("Unit type %s appears twice; expected one row per type", row.UnitType)
		}
		seen[row.UnitType] = true
		// Each unit contributes once regardless of how many pair rows it
		// has, so the per-type count can never exceed the snapshot total.
		if row.TotalUnits <= 0 {
			t.Errorf("Expected positive unit count for %s, got %d", row.UnitType, row.TotalUnits)
		}
		if row.OurAvgRentPerSqft < 0 || row.MarketAvgRentPerSqft < 0 {
			t.Errorf("Negative rent per sqft for %s: %+v", row.UnitType, row)
		}
	}
}

func TestCompetitionRepository_UnitTypeMarketSnapshot(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewCompetitionRepository(db, getTestTables(), config.PricingConfig{
		CompPriceBand:      0.30,
		ComparableBand:     0.15,
		MinComparableUnits: 3,
		FallbackSimilarity: 0.85,
	})

	snap, err := repo.UnitTypeMarketSnapshot(context.Background(), "2 Beds", 1800)
	if err != nil {
		t.Fatalf("UnitTypeMarketSnapshot failed: %v", err)
	}
	if snap.CompCount > 0 && snap.AvgMarketRent <= 0 {
		t.Errorf("Expected positive average rent with %d comps", snap.CompCount)
	}
}

func TestDiagnosticsRepository_CountTable(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tables := getTestTables()
	repo := NewDiagnosticsRepository(db, tables)

	count, err := repo.CountTable(context.Background(), tables.SnapshotName())
	if err != nil {
		t.Fatalf("CountTable failed: %v", err)
	}
	if count < 0 {
		t.Errorf("Expected non-negative count, got %d", count)
	}
}
