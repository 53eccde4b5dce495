package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/database"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) payrollbasis.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

// ListActiveCompanyIDs implements payrollbasis.CompanyRepository.
func (c *companyRepositoryImpl) ListActiveCompanyIDs(ctx context.Context, since time.Time) ([]string, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT c.id
		FROM companies c
		WHERE EXISTS (
			SELECT 1 FROM attendances a
			WHERE a.company_id = c.id AND a.clock_in >= $1
		) OR EXISTS (
			SELECT 1 FROM time_entries te
			WHERE te.company_id = c.id AND te.started_at >= $1 AND te.deleted_at IS NULL
		)
		ORDER BY c.id
	`

	rows, err := q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list active companies: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate companies: %w", err)
	}

	return ids, nil
}
