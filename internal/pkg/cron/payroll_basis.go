package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/validator"
)

const refreshCurrentWeekJob = "refresh_current_week_payroll_basis"

// PayrollBasisJobs keeps the running week's payroll basis fresh for every
// company that recorded work time during it.
type PayrollBasisJobs struct {
	companyRepo         payrollbasis.CompanyRepository
	payrollBasisService payrollbasis.PayrollBasisService
	logger              *slog.Logger
	now                 func() time.Time
}

func NewPayrollBasisJobs(
	companyRepo payrollbasis.CompanyRepository,
	payrollBasisService payrollbasis.PayrollBasisService,
	logger *slog.Logger,
) *PayrollBasisJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollBasisJobs{
		companyRepo:         companyRepo,
		payrollBasisService: payrollBasisService,
		logger:              logger,
		now:                 time.Now,
	}
}

func (j *PayrollBasisJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(refreshCurrentWeekJob, interval, j.RefreshCurrentWeek)
}

// RefreshCurrentWeek refreshes the ISO week (Monday to Sunday, UTC dates)
// containing now. Companies without closed sessions yet are not failures.
func (j *PayrollBasisJobs) RefreshCurrentWeek(ctx context.Context) error {
	weekStart, weekEnd := isoWeekBounds(j.now())

	companyIDs, err := j.companyRepo.ListActiveCompanyIDs(ctx, weekStart)
	if err != nil {
		return fmt.Errorf("failed to list active companies: %w", err)
	}

	j.logger.Info("Cron: Refreshing payroll basis",
		"week_start", weekStart.Format(validator.DateLayout),
		"company_count", len(companyIDs))

	failed := 0
	for _, companyID := range companyIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		summary, err := j.payrollBasisService.Refresh(ctx, payrollbasis.RefreshRequest{
			CompanyID:   companyID,
			PeriodStart: weekStart.Format(validator.DateLayout),
			PeriodEnd:   weekEnd.Format(validator.DateLayout),
		})
		switch {
		case errors.Is(err, payrollbasis.ErrNoData):
			j.logger.Info("Cron: No closed sessions yet", "company_id", companyID)
		case err != nil:
			failed++
			j.logger.Error("Cron: Failed to refresh payroll basis", "company_id", companyID, "error", err)
		default:
			j.logger.Debug("Cron: Payroll basis refreshed",
				"company_id", companyID,
				"persons_computed", summary.PersonsComputed)
		}
	}

	if failed > 0 {
		return fmt.Errorf("payroll basis refresh failed for %d of %d companies", failed, len(companyIDs))
	}
	return nil
}

func isoWeekBounds(now time.Time) (start, end time.Time) {
	now = now.UTC()
	offset := (int(now.Weekday()) + 6) % 7 // days since Monday
	start = time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 6)
}
