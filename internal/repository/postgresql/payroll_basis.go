package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollBasisRepository struct {
	db *database.DB
}

func NewPayrollBasisRepository(db *database.DB) payrollbasis.ResultRepository {
	return &payrollBasisRepository{db: db}
}

// DeleteResults implements payrollbasis.ResultRepository.
func (r *payrollBasisRepository) DeleteResults(ctx context.Context, companyID string, periodStart, periodEnd time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM payroll_basis_results
		WHERE company_id = $1 AND period_start = $2 AND period_end = $3
	`
	if _, err := q.Exec(ctx, query, companyID, periodStart, periodEnd); err != nil {
		return fmt.Errorf("failed to delete payroll basis results: %w", err)
	}
	return nil
}

// InsertResults implements payrollbasis.ResultRepository. All rows go out in
// a single batch round-trip.
func (r *payrollBasisRepository) InsertResults(ctx context.Context, results []payrollbasis.PayrollBasisResult) error {
	if len(results) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_basis_results (
			id, company_id, employee_id, period_start, period_end,
			hours_normal, hours_overtime, premium_hours, premium_hours_weighted_multiplier,
			break_hours, total_hours, gross_salary_estimate, source,
			locked, locked_by, locked_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	batch := &pgx.Batch{}
	for _, res := range results {
		batch.Queue(query,
			res.ID, res.CompanyID, res.PersonID, res.PeriodStart, res.PeriodEnd,
			res.HoursNormal, res.HoursOvertime, res.PremiumHours, res.PremiumHoursWeightedMultiplier,
			res.BreakHours, res.TotalHours, res.GrossSalaryEstimate, string(res.Source),
			res.Locked, res.LockedBy, res.LockedAt, res.CreatedAt,
		)
	}

	br := q.SendBatch(ctx, batch)
	for i := range results {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert payroll basis result %d for employee %s: %w", i, results[i].PersonID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close payroll basis batch: %w", err)
	}
	return nil
}

// ListResults implements payrollbasis.ResultRepository.
func (r *payrollBasisRepository) ListResults(ctx context.Context, companyID string, periodStart, periodEnd time.Time) ([]payrollbasis.PayrollBasisResult, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, period_start, period_end,
			   hours_normal, hours_overtime, premium_hours, premium_hours_weighted_multiplier,
			   break_hours, total_hours, gross_salary_estimate, source,
			   locked, locked_by, locked_at, created_at
		FROM payroll_basis_results
		WHERE company_id = $1 AND period_start = $2 AND period_end = $3
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, companyID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll basis results: %w", err)
	}
	defer rows.Close()

	var results []payrollbasis.PayrollBasisResult
	for rows.Next() {
		var res payrollbasis.PayrollBasisResult
		var source string
		if err := rows.Scan(
			&res.ID, &res.CompanyID, &res.PersonID, &res.PeriodStart, &res.PeriodEnd,
			&res.HoursNormal, &res.HoursOvertime, &res.PremiumHours, &res.PremiumHoursWeightedMultiplier,
			&res.BreakHours, &res.TotalHours, &res.GrossSalaryEstimate, &source,
			&res.Locked, &res.LockedBy, &res.LockedAt, &res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll basis result: %w", err)
		}
		res.Source = payrollbasis.SessionSource(source)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll basis results: %w", err)
	}

	return results, nil
}
