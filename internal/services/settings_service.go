package services

import (
	"context"

	"github.com/rentroll-ai/optimizer/api/internal/logger"
	"github.com/rentroll-ai/optimizer/api/internal/models"
	"github.com/rentroll-ai/optimizer/api/internal/repository"
)

// SettingsService manages the runtime warehouse table settings. Updates are
// process-local; a restart reverts to the configured values.
type SettingsService interface {
	// Current returns the effective table settings.
	Current() models.TableSettings

	// Update replaces the table settings and returns the new effective
	// values.
	Update(settings models.TableSettings) models.TableSettings

	// Test probes the given table settings with row counts without saving
	// them. Probe failures are reported per table, never as an error.
	Test(ctx context.Context, settings models.TableSettings) *models.TableTestReport
}

type settingsService struct {
	tables      *repository.Tables
	diagnostics repository.DiagnosticsRepository
	log         *logger.Logger
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(tables *repository.Tables, diagnostics repository.DiagnosticsRepository, log *logger.Logger) SettingsService {
	return &settingsService{
		tables:      tables,
		diagnostics: diagnostics,
		log:         log,
	}
}

func (s *settingsService) Current() models.TableSettings {
	return s.tables.Current()
}

func (s *settingsService) Update(settings models.TableSettings) models.TableSettings {
	s.tables.Update(settings)
	effective := s.tables.Current()

	s.log.Info("Table settings updated", map[string]interface{}{
		"rentroll_table":    effective.RentrollTable,
		"competition_table": effective.CompetitionTable,
	})
	return effective
}

func (s *settingsService) Test(ctx context.Context, settings models.TableSettings) *models.TableTestReport {
	effective := s.tables.Current()
	if settings.RentrollTable == "" {
		settings.RentrollTable = effective.RentrollTable
	}
	if settings.CompetitionTable == "" {
		settings.CompetitionTable = effective.CompetitionTable
	}

	return &models.TableTestReport{
		RentrollTable:    s.probeTable(ctx, settings.RentrollTable),
		CompetitionTable: s.probeTable(ctx, settings.CompetitionTable),
	}
}

func (s *settingsService) probeTable(ctx context.Context, tableName string) models.TableTestResult {
	count, err := s.diagnostics.CountTable(ctx, tableName)
	if err != nil {
		s.log.Warn("Table probe failed", map[string]interface{}{
			"table": tableName,
			"error": err.Error(),
		})
		msg := err.Error()
		return models.TableTestResult{Success: false, Error: &msg}
	}
	return models.TableTestResult{Success: true, RowCount: &count}
}
