package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRulesRepository struct {
	db *database.DB
}

func NewPayrollRulesRepository(db *database.DB) payrollbasis.RulesRepository {
	return &payrollRulesRepository{db: db}
}

// ========== RULES ==========

func (r *payrollRulesRepository) GetRules(ctx context.Context, companyID string) (payrollbasis.PayrollRules, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, weekly_normal_hours_threshold, auto_break_minutes,
			   auto_break_trigger_hours, overtime_multiplier,
			   night_multiplier, weekend_multiplier, holiday_multiplier,
			   timezone
		FROM payroll_rules
		WHERE company_id = $1
	`

	var rules payrollbasis.PayrollRules
	var timezone string
	err := q.QueryRow(ctx, query, companyID).Scan(
		&rules.CompanyID, &rules.WeeklyNormalHoursThreshold, &rules.AutoBreakMinutes,
		&rules.AutoBreakTriggerHours, &rules.OvertimeMultiplier,
		&rules.Premium.Night, &rules.Premium.Weekend, &rules.Premium.Holiday,
		&timezone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payrollbasis.PayrollRules{}, payrollbasis.ErrRulesNotFound
		}
		return payrollbasis.PayrollRules{}, fmt.Errorf("failed to get payroll rules: %w", err)
	}

	rules.Location = loadLocation(timezone)
	return rules, nil
}

func loadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("unknown payroll timezone, falling back to UTC", "timezone", name, "error", err)
		return time.UTC
	}
	return loc
}
