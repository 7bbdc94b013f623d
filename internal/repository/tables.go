package repository

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rentroll-ai/optimizer/api/internal/config"
	"github.com/rentroll-ai/optimizer/api/internal/models"
)

// Tables resolves the warehouse table names the reporting queries run
// against. Settings can be replaced at runtime; the whole snapshot is
// swapped atomically so concurrent readers never observe a half-applied
// update.
type Tables struct {
	settings atomic.Pointer[models.TableSettings]
	cfg      config.WarehouseConfig
}

// NewTables creates a resolver seeded from boot-time configuration.
// Config-level overrides behave exactly like a runtime settings update.
func NewTables(cfg config.WarehouseConfig) *Tables {
	t := &Tables{cfg: cfg}
	if cfg.RentrollTable != "" || cfg.CompetitionTable != "" {
		t.settings.Store(&models.TableSettings{
			RentrollTable:    cfg.RentrollTable,
			CompetitionTable: cfg.CompetitionTable,
			ProjectID:        cfg.ProjectID,
		})
	}
	return t
}

// Update replaces the current settings snapshot. Table names are taken as
// given; no format validation is applied.
func (t *Tables) Update(s models.TableSettings) {
	t.settings.Store(&s)
}

// Current returns the effective settings with fallbacks filled in.
func (t *Tables) Current() models.TableSettings {
	return models.TableSettings{
		RentrollTable:    t.RentrollName(),
		CompetitionTable: t.CompetitionName(),
		ProjectID:        t.ProjectID(),
	}
}

// ProjectID returns the effective warehouse project id.
func (t *Tables) ProjectID() string {
	if s := t.settings.Load(); s != nil && s.ProjectID != "" {
		return s.ProjectID
	}
	return t.cfg.ProjectID
}

// RentrollName returns the fully qualified rent-roll table name, using the
// override when one is set.
func (t *Tables) RentrollName() string {
	if s := t.settings.Load(); s != nil && s.RentrollTable != "" {
		return s.RentrollTable
	}
	return fmt.Sprintf("%s.rentroll.Update_7_8_native", t.cfg.ProjectID)
}

// CompetitionName returns the fully qualified competition table name, using
// the override when one is set.
func (t *Tables) CompetitionName() string {
	if s := t.settings.Load(); s != nil && s.CompetitionTable != "" {
		return s.CompetitionTable
	}
	return fmt.Sprintf("%s.rentroll.Competition", t.cfg.ProjectID)
}

// SnapshotName returns the fully qualified unit-snapshot mart table name.
// The mart tables are produced by the upstream pipeline and are not
// runtime-configurable.
func (t *Tables) SnapshotName() string {
	return fmt.Sprintf("%s.mart.unit_snapshot", t.cfg.ProjectID)
}

// PairsName returns the fully qualified unit/competitor pairs mart table
// name. A boot-time override is honored for staging environments.
func (t *Tables) PairsName() string {
	if t.cfg.PairsTable != "" {
		return t.cfg.PairsTable
	}
	return fmt.Sprintf("%s.mart.unit_competitor_pairs", t.cfg.ProjectID)
}

// Snapshot returns the unit-snapshot table as a SQL identifier.
func (t *Tables) Snapshot() string { return sqlIdent(t.SnapshotName()) }

// Pairs returns the pairs table as a SQL identifier.
func (t *Tables) Pairs() string { return sqlIdent(t.PairsName()) }

// Competition returns the competition table as a SQL identifier.
func (t *Tables) Competition() string { return sqlIdent(t.CompetitionName()) }

// Rentroll returns the rent-roll table as a SQL identifier.
func (t *Tables) Rentroll() string { return sqlIdent(t.RentrollName()) }

// sqlIdent converts a dotted warehouse table name into a quoted SQL
// identifier. Names carry a leading project segment for display purposes;
// only the trailing schema.table pair is addressable in queries.
func sqlIdent(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		quoted = append(quoted, `"`+strings.ReplaceAll(p, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, ".")
}
