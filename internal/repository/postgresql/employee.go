package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type employeeSalaryRepository struct {
	db *database.DB
}

func NewEmployeeSalaryRepository(db *database.DB) payrollbasis.SalaryRepository {
	return &employeeSalaryRepository{db: db}
}

// GetHourlyWages implements payrollbasis.SalaryRepository.
func (e *employeeSalaryRepository) GetHourlyWages(ctx context.Context, companyID string, personIDs []string) (map[string]decimal.Decimal, error) {
	wages := make(map[string]decimal.Decimal, len(personIDs))
	if len(personIDs) == 0 {
		return wages, nil
	}

	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, hourly_wage
		FROM employees
		WHERE company_id = $1
		  AND id = ANY($2::uuid[])
		  AND hourly_wage IS NOT NULL
		  AND deleted_at IS NULL
	`

	rows, err := q.Query(ctx, query, companyID, personIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get hourly wages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var wage decimal.Decimal
		if err := rows.Scan(&id, &wage); err != nil {
			return nil, fmt.Errorf("failed to scan hourly wage: %w", err)
		}
		wages[id] = wage
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hourly wages: %w", err)
	}

	return wages, nil
}
