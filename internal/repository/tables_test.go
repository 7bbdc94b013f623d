package repository

import (
	"sync"
	"testing"

	"github.com/rentroll-ai/optimizer/api/internal/config"
	"github.com/rentroll-ai/optimizer/api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestTables_Fallbacks(t *testing.T) {
	tables := NewTables(config.WarehouseConfig{ProjectID: "rentroll-ai"})

	assert.Equal(t, "rentroll-ai.rentroll.Update_7_8_native", tables.RentrollName())
	assert.Equal(t, "rentroll-ai.rentroll.Competition", tables.CompetitionName())
	assert.Equal(t, "rentroll-ai.mart.unit_snapshot", tables.SnapshotName())
	assert.Equal(t, "rentroll-ai.mart.unit_competitor_pairs", tables.PairsName())
	assert.Equal(t, "rentroll-ai", tables.ProjectID())
}

func TestTables_ConfigOverrides(t *testing.T) {
	tables := NewTables(config.WarehouseConfig{
		ProjectID:        "rentroll-ai",
		RentrollTable:    "rentroll-ai.rentroll.Update_9_1_native",
		CompetitionTable: "rentroll-ai.rentroll.Competition_v2",
		PairsTable:       "rentroll-ai.staging.unit_competitor_pairs",
	})

	assert.Equal(t, "rentroll-ai.rentroll.Update_9_1_native", tables.RentrollName())
	assert.Equal(t, "rentroll-ai.rentroll.Competition_v2", tables.CompetitionName())
	assert.Equal(t, "rentroll-ai.staging.unit_competitor_pairs", tables.PairsName())
}

func TestTables_Update(t *testing.T) {
	tables := NewTables(config.WarehouseConfig{ProjectID: "rentroll-ai"})

	tables.Update(models.TableSettings{
		RentrollTable:    "rentroll-ai.rentroll.Update_10_2_native",
		CompetitionTable: "rentroll-ai.rentroll.Competition_fresh",
		ProjectID:        "rentroll-staging",
	})

	assert.Equal(t, "rentroll-ai.rentroll.Update_10_2_native", tables.RentrollName())
	assert.Equal(t, "rentroll-ai.rentroll.Competition_fresh", tables.CompetitionName())
	assert.Equal(t, "rentroll-staging", tables.ProjectID())

	// A partial update falls back per field.
	tables.Update(models.TableSettings{CompetitionTable: "rentroll-ai.rentroll.Competition_v3"})
	assert.Equal(t, "rentroll-ai.rentroll.Update_7_8_native", tables.RentrollName())
	assert.Equal(t, "rentroll-ai.rentroll.Competition_v3", tables.CompetitionName())
	assert.Equal(t, "rentroll-ai", tables.ProjectID())
}

func TestTables_Current(t *testing.T) {
	tables := NewTables(config.WarehouseConfig{ProjectID: "rentroll-ai"})

	current := tables.Current()
	assert.Equal(t, "rentroll-ai.rentroll.Update_7_8_native", current.RentrollTable)
	assert.Equal(t, "rentroll-ai.rentroll.Competition", current.CompetitionTable)
	assert.Equal(t, "rentroll-ai", current.ProjectID)
}

func TestTables_ConcurrentUpdates(t *testing.T) {
	tables := NewTables(config.WarehouseConfig{ProjectID: "rentroll-ai"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tables.Update(models.TableSettings{
				RentrollTable:    "rentroll-ai.rentroll.Update_7_8_native",
				CompetitionTable: "rentroll-ai.rentroll.Competition",
			})
		}()
		go func() {
			defer wg.Done()
			current := tables.Current()
			// Readers must always see a fully populated snapshot.
			assert.NotEmpty(t, current.RentrollTable)
			assert.NotEmpty(t, current.CompetitionTable)
		}()
	}
	wg.Wait()
}

func TestSQLIdent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "project qualified name drops project segment",
			input:    "rentroll-ai.rentroll.Update_7_8_native",
			expected: `"rentroll"."Update_7_8_native"`,
		},
		{
			name:     "schema qualified name",
			input:    "mart.unit_snapshot",
			expected: `"mart"."unit_snapshot"`,
		},
		{
			name:     "bare table name",
			input:    "unit_snapshot",
			expected: `"unit_snapshot"`,
		},
		{
			name:     "embedded quote is escaped",
			input:    `mart.unit"snapshot`,
			expected: `"mart"."unit""snapshot"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sqlIdent(tt.input))
		})
	}
}
