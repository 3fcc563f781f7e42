package repository

import (
	"context"
	"fmt"

	"mathquiz/internal/domain"
	"mathquiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// SchoolDatabaseAdapter implements domain.SchoolRepository using sqlx.DB
type SchoolDatabaseAdapter struct {
	db *sqlx.DB
}

// NewSchoolDatabaseAdapter creates a new instance of SchoolDatabaseAdapter
func NewSchoolDatabaseAdapter(db *sqlx.DB) domain.SchoolRepository {
	return &SchoolDatabaseAdapter{db: db}
}

// SearchByName returns schools whose name contains the search term.
func (a *SchoolDatabaseAdapter) SearchByName(ctx context.Context, name string) ([]domain.School, error) {
	var rows []models.School
	query := `SELECT
		code "code",
		name "name",
		region "region"
	FROM schools
	WHERE name LIKE :1
	ORDER BY name`

	if err := a.db.SelectContext(ctx, &rows, query, "%"+name+"%"); err != nil {
		return nil, fmt.Errorf("failed to search schools by name %s: %w", name, err)
	}

	schools := make([]domain.School, 0, len(rows))
	for _, row := range rows {
		schools = append(schools, domain.School{
			Code:   row.Code,
			Name:   row.Name,
			Region: row.Region.String,
		})
	}
	return schools, nil
}
