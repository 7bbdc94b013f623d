package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/rentroll-ai/optimizer/api/internal/database"
	"github.com/rentroll-ai/optimizer/api/internal/models"
)

// DiagnosticsRepository defines the introspection queries behind the
// debugging endpoints and the settings connectivity test.
type DiagnosticsRepository interface {
	// PropertyFilterProbe echoes how a property filter resolves against the
	// snapshot, alongside the largest properties for comparison.
	PropertyFilterProbe(ctx context.Context, property string) (*models.PropertyFilterProbe, error)

	// CompetitionTableInfo introspects the competition table's columns and
	// returns a few sample rows. Schema introspection failures degrade to an
	// empty schema rather than failing the whole report.
	CompetitionTableInfo(ctx context.Context) (*models.CompetitionTableInfo, error)

	// CountTable counts rows in an arbitrary configured table. Used to probe
	// candidate table settings before saving them.
	CountTable(ctx context.Context, tableName string) (int, error)
}

type diagnosticsRepository struct {
	db     *database.Database
	tables *Tables
}

// NewDiagnosticsRepository creates a new instance of DiagnosticsRepository.
func NewDiagnosticsRepository(db *database.Database, tables *Tables) DiagnosticsRepository {
	return &diagnosticsRepository{
		db:     db,
		tables: tables,
	}
}

func (r *diagnosticsRepository) PropertyFilterProbe(ctx context.Context, property string) (*models.PropertyFilterProbe, error) {
	filteredQuery := fmt.Sprintf(`
		SELECT property, COUNT(*) AS unit_count, AVG(advertised_rent) AS avg_rent
		FROM %s
		WHERE property = $1
		GROUP BY property
	`, r.tables.Snapshot())

	rows, err := r.db.Pool.Query(ctx, filteredQuery, property)
	if err != nil {
		return nil, fmt.Errorf("failed to probe property filter for %s: %w", property, err)
	}
	defer rows.Close()

	filtered := []models.PropertyVolume{}
	for rows.Next() {
		var v models.PropertyVolume
		if err := rows.Scan(&v.Property, &v.UnitCount, &v.AvgRent); err != nil {
			return nil, fmt.Errorf("failed to scan property probe row: %w", err)
		}
		filtered = append(filtered, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property probe rows: %w", err)
	}
	rows.Close()

	sampleQuery := fmt.Sprintf(`
		SELECT property, COUNT(*) AS unit_count
		FROM %s
		GROUP BY property
		ORDER BY COUNT(*) DESC
		LIMIT 5
	`, r.tables.Snapshot())

	sampleRows, err := r.db.Pool.Query(ctx, sampleQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query property sample: %w", err)
	}
	defer sampleRows.Close()

	sample := []models.PropertyVolume{}
	for sampleRows.Next() {
		var v models.PropertyVolume
		if err := sampleRows.Scan(&v.Property, &v.UnitCount); err != nil {
			return nil, fmt.Errorf("failed to scan property sample row: %w", err)
		}
		sample = append(sample, v)
	}
	if err := sampleRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property sample rows: %w", err)
	}

	return &models.PropertyFilterProbe{
		PropertySearched:    property,
		FilteredResult:      filtered,
		AllPropertiesSample: sample,
	}, nil
}

func (r *diagnosticsRepository) CompetitionTableInfo(ctx context.Context) (*models.CompetitionTableInfo, error) {
	info := &models.CompetitionTableInfo{
		TableName:   r.tables.CompetitionName(),
		Schema:      []models.ColumnInfo{},
		SampleData:  []map[string]any{},
		ColumnNames: []string{},
	}

	// Schema introspection is best effort; the sample query below is the
	// authoritative signal that the table is reachable.
	schema, err := r.introspectColumns(ctx, r.tables.CompetitionName())
	if err == nil {
		info.Schema = schema
	}

	sampleQuery := fmt.Sprintf(`SELECT * FROM %s LIMIT 5`, r.tables.Competition())
	rows, err := r.db.Pool.Query(ctx, sampleQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to sample competition table: %w", err)
	}
	defer rows.Close()

	for _, fd := range rows.FieldDescriptions() {
		info.ColumnNames = append(info.ColumnNames, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read competition sample row: %w", err)
		}
		row := make(map[string]any, len(values))
		for i, name := range info.ColumnNames {
			row[name] = values[i]
		}
		info.SampleData = append(info.SampleData, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating competition sample rows: %w", err)
	}

	return info, nil
}

func (r *diagnosticsRepository) CountTable(ctx context.Context, tableName string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, sqlIdent(tableName))

	var count int
	if err := r.db.Pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", tableName, err)
	}
	return count, nil
}

// introspectColumns reads a table's column names and types from the
// information schema. The schema segment defaults to public when the name
// carries no schema.
func (r *diagnosticsRepository) introspectColumns(ctx context.Context, tableName string) ([]models.ColumnInfo, error) {
	parts := strings.Split(tableName, ".")
	table := parts[len(parts)-1]
	schema := "public"
	if len(parts) > 1 {
		schema = parts[len(parts)-2]
	}

	query := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := r.db.Pool.Query(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect %s: %w", tableName, err)
	}
	defer rows.Close()

	columns := []models.ColumnInfo{}
	for rows.Next() {
		var c models.ColumnInfo
		if err := rows.Scan(&c.ColumnName, &c.DataType); err != nil {
			return nil, fmt.Errorf("failed to scan column info row: %w", err)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column info rows: %w", err)
	}

	return columns, nil
}
