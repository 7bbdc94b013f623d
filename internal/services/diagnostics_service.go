package services

import (
	"context"
	"fmt"

	"github.com/rentroll-ai/optimizer/api/internal/logger"
	"github.com/rentroll-ai/optimizer/api/internal/models"
	"github.com/rentroll-ai/optimizer/api/internal/repository"
)

// DiagnosticsService defines the debugging endpoints' business logic.
type DiagnosticsService interface {
	// ProbeProperty echoes how a property filter resolves against the
	// snapshot.
	ProbeProperty(ctx context.Context, property string) (*models.PropertyFilterProbe, error)

	// InspectCompetitionTable describes the competition table's shape with
	// sample rows.
	InspectCompetitionTable(ctx context.Context) (*models.CompetitionTableInfo, error)
}

type diagnosticsService struct {
	repo repository.DiagnosticsRepository
	log  *logger.Logger
}

// NewDiagnosticsService creates a new instance of DiagnosticsService.
func NewDiagnosticsService(repo repository.DiagnosticsRepository, log *logger.Logger) DiagnosticsService {
	return &diagnosticsService{
		repo: repo,
		log:  log,
	}
}

func (s *diagnosticsService) ProbeProperty(ctx context.Context, property string) (*models.PropertyFilterProbe, error) {
	probe, err := s.repo.PropertyFilterProbe(ctx, property)
	if err != nil {
		s.log.Error("Property probe failed", err, map[string]interface{}{
			"property": property,
		})
		return nil, fmt.Errorf("failed to probe property: %w", err)
	}

	s.log.Info("Property probe completed", map[string]interface{}{
		"property": property,
		"matches":  len(probe.FilteredResult),
	})
	return probe, nil
}

func (s *diagnosticsService) InspectCompetitionTable(ctx context.Context) (*models.CompetitionTableInfo, error) {
	info, err := s.repo.CompetitionTableInfo(ctx)
	if err != nil {
		s.log.Error("Competition table inspection failed", err, nil)
		return nil, fmt.Errorf("failed to inspect competition table: %w", err)
	}

	s.log.Info("Competition table inspected", map[string]interface{}{
		"table":   info.TableName,
		"columns": len(info.ColumnNames),
	})
	return info, nil
}
