package payrollbasis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/interval"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayrollBasisServiceImpl struct {
	timerRepo      payrollbasis.SessionRepository
	attendanceRepo payrollbasis.SessionRepository
	rulesRepo      payrollbasis.RulesRepository
	salaryRepo     payrollbasis.SalaryRepository
	resultRepo     payrollbasis.ResultRepository
	transactor     payrollbasis.Transactor
	holiday        HolidayFunc
	now            func() time.Time
	logger         *slog.Logger
}

type Option func(*PayrollBasisServiceImpl)

// WithHolidayCalendar replaces the default calendar, which has no holidays.
func WithHolidayCalendar(fn HolidayFunc) Option {
	return func(s *PayrollBasisServiceImpl) {
		if fn != nil {
			s.holiday = fn
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *PayrollBasisServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *PayrollBasisServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewPayrollBasisService(
	timerRepo payrollbasis.SessionRepository,
	attendanceRepo payrollbasis.SessionRepository,
	rulesRepo payrollbasis.RulesRepository,
	salaryRepo payrollbasis.SalaryRepository,
	resultRepo payrollbasis.ResultRepository,
	transactor payrollbasis.Transactor,
	opts ...Option,
) payrollbasis.PayrollBasisService {
	s := &PayrollBasisServiceImpl{
		timerRepo:      timerRepo,
		attendanceRepo: attendanceRepo,
		rulesRepo:      rulesRepo,
		salaryRepo:     salaryRepo,
		resultRepo:     resultRepo,
		transactor:     transactor,
		holiday:        NoHolidays,
		now:            time.Now,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// personSessions - closed sessions of one person from the winning source
type personSessions struct {
	source payrollbasis.SessionSource
	spans  []interval.Span
}

// ========== REFRESH ==========

func (s *PayrollBasisServiceImpl) Refresh(ctx context.Context, req payrollbasis.RefreshRequest) (payrollbasis.RefreshResponse, error) {
	if err := req.Validate(); err != nil {
		return payrollbasis.RefreshResponse{}, fmt.Errorf("%w: %w", payrollbasis.ErrInvalidPeriod, err)
	}
	periodStart, periodEnd := req.Dates()

	summary := payrollbasis.RefreshResponse{
		CompanyID:   req.CompanyID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Results:     []payrollbasis.ResultResponse{},
	}
	logger := s.logger.With(
		slog.String("company_id", req.CompanyID),
		slog.String("period_start", req.PeriodStart),
		slog.String("period_end", req.PeriodEnd),
	)
	fail := func(err error) (payrollbasis.RefreshResponse, error) {
		summary.State = payrollbasis.StateFailed
		logger.Error("payroll basis refresh failed", slog.String("state", string(summary.State)), slog.Any("error", err))
		return summary, err
	}
	enter := func(state payrollbasis.RefreshState) {
		summary.State = state
		logger.Info("payroll basis refresh", slog.String("state", string(state)))
	}

	// LOADING_RULES
	enter(payrollbasis.StateLoadingRules)
	rules := s.loadRules(ctx, req.CompanyID, logger)
	loc := rules.Loc()
	from := time.Date(periodStart.Year(), periodStart.Month(), periodStart.Day(), 0, 0, 0, 0, loc)
	to := time.Date(periodEnd.Year(), periodEnd.Month(), periodEnd.Day()+1, 0, 0, 0, 0, loc)

	// LOADING_SESSIONS
	enter(payrollbasis.StateLoadingSessions)
	byPerson, err := s.loadSessions(ctx, req.CompanyID, from, to, req.EmployeeIDs)
	if err != nil {
		return fail(err)
	}

	calc := NewCalculator(rules, s.holiday)
	usable := make([]string, 0, len(byPerson))
	for personID, ps := range byPerson {
		if len(interval.Merge(ps.spans, from, to)) > 0 {
			usable = append(usable, personID)
		}
	}
	if len(usable) == 0 {
		return fail(fmt.Errorf("%w: %s to %s", payrollbasis.ErrNoData, req.PeriodStart, req.PeriodEnd))
	}
	sort.Strings(usable)
	summary.PersonsSkipped = len(byPerson) - len(usable)

	// PER_PERSON_COMPUTE
	enter(payrollbasis.StatePerPersonCompute)
	wages, err := s.salaryRepo.GetHourlyWages(ctx, req.CompanyID, usable)
	if err != nil {
		return fail(fmt.Errorf("failed to load hourly wages: %w", err))
	}

	createdAt := s.now()
	results := make([]payrollbasis.PayrollBasisResult, 0, len(usable))
	for _, personID := range usable {
		ps := byPerson[personID]
		hours := calc.Compute(ps.spans, from, to)
		if hours.Adjusted == 0 {
			summary.PersonsSkipped++
			logger.Debug("skipping person without paid time", slog.String("employee_id", personID))
			continue
		}
		for _, w := range hours.Weeks {
			logger.Debug("weekly split",
				slog.String("employee_id", personID),
				slog.String("week", w.Week),
				slog.Float64("normal_hours", w.Normal.Hours()),
				slog.Float64("overtime_hours", w.Overtime.Hours()),
			)
		}

		wage, ok := wages[personID]
		if !ok {
			wage = decimal.Zero
			logger.Warn("no hourly wage on file, gross estimate set to 0", slog.String("employee_id", personID))
		}

		normal, overtime := hours.Normal.Hours(), hours.Overtime.Hours()
		results = append(results, payrollbasis.PayrollBasisResult{
			ID:                             newResultID(),
			CompanyID:                      req.CompanyID,
			PersonID:                       personID,
			PeriodStart:                    periodStart,
			PeriodEnd:                      periodEnd,
			HoursNormal:                    normal,
			HoursOvertime:                  overtime,
			PremiumHours:                   hours.Premium.Hours(),
			PremiumHoursWeightedMultiplier: hours.PremiumMultiplier,
			BreakHours:                     hours.Break.Hours(),
			TotalHours:                     normal + overtime,
			GrossSalaryEstimate:            GrossEstimate(hours, wage, rules.OvertimeMultiplier),
			Source:                         ps.source,
			CreatedAt:                      createdAt,
		})

		if ps.source == payrollbasis.SourceTimerEntry {
			summary.TimerEntryUsers++
		} else {
			summary.AttendanceUsers++
		}
	}
	summary.PersonsComputed = len(results)

	// PERSISTING
	enter(payrollbasis.StatePersisting)
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.resultRepo.DeleteResults(txCtx, req.CompanyID, periodStart, periodEnd); err != nil {
			return fmt.Errorf("failed to delete previous results: %w", err)
		}
		if err := s.resultRepo.InsertResults(txCtx, results); err != nil {
			return fmt.Errorf("failed to insert results: %w", err)
		}
		return nil
	})
	if err != nil {
		return fail(fmt.Errorf("%w: %w", payrollbasis.ErrPersistenceFailure, err))
	}

	enter(payrollbasis.StateDone)
	for _, r := range results {
		summary.Results = append(summary.Results, toResultResponse(r))
	}
	return summary, nil
}

// loadRules never fails: a missing row or a storage error falls back to
// the defaults.
func (s *PayrollBasisServiceImpl) loadRules(ctx context.Context, companyID string, logger *slog.Logger) payrollbasis.PayrollRules {
	rules, err := s.rulesRepo.GetRules(ctx, companyID)
	if err != nil {
		if !errors.Is(err, payrollbasis.ErrRulesNotFound) {
			logger.Warn("failed to load payroll rules, using defaults", slog.Any("error", err))
		}
		return payrollbasis.DefaultRules(companyID)
	}
	rules.CompanyID = companyID
	return rules
}

// loadSessions groups closed sessions by person. Anyone with a closed timer
// entry in the window is computed from timer entries only; attendance
// sessions are used for everybody else.
func (s *PayrollBasisServiceImpl) loadSessions(ctx context.Context, companyID string, from, to time.Time, personIDs []string) (map[string]*personSessions, error) {
	timerSessions, err := s.timerRepo.ListSessions(ctx, companyID, from, to, personIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load timer entries: %w", err)
	}
	attendanceSessions, err := s.attendanceRepo.ListSessions(ctx, companyID, from, to, personIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance sessions: %w", err)
	}

	byPerson := make(map[string]*personSessions)
	add := func(sess payrollbasis.RawSession, source payrollbasis.SessionSource) {
		ps, ok := byPerson[sess.PersonID]
		if !ok {
			ps = &personSessions{source: source}
			byPerson[sess.PersonID] = ps
		}
		ps.spans = append(ps.spans, interval.Span{Start: sess.Start, End: *sess.End})
	}

	for _, sess := range timerSessions {
		if sess.Closed() {
			add(sess, payrollbasis.SourceTimerEntry)
		}
	}
	for _, sess := range attendanceSessions {
		if !sess.Closed() {
			continue
		}
		if ps, ok := byPerson[sess.PersonID]; ok && ps.source == payrollbasis.SourceTimerEntry {
			continue
		}
		add(sess, payrollbasis.SourceAttendance)
	}
	return byPerson, nil
}

// ========== RESULTS ==========

func (s *PayrollBasisServiceImpl) ListResults(ctx context.Context, req payrollbasis.ListResultsRequest) ([]payrollbasis.ResultResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", payrollbasis.ErrInvalidPeriod, err)
	}
	periodStart, periodEnd := req.Dates()

	results, err := s.resultRepo.ListResults(ctx, req.CompanyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	responses := make([]payrollbasis.ResultResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, toResultResponse(r))
	}
	return responses, nil
}

func toResultResponse(r payrollbasis.PayrollBasisResult) payrollbasis.ResultResponse {
	resp := payrollbasis.ResultResponse{
		ID:                             r.ID,
		EmployeeID:                     r.PersonID,
		PeriodStart:                    r.PeriodStart.Format(validator.DateLayout),
		PeriodEnd:                      r.PeriodEnd.Format(validator.DateLayout),
		HoursNormal:                    r.HoursNormal,
		HoursOvertime:                  r.HoursOvertime,
		PremiumHours:                   r.PremiumHours,
		PremiumHoursWeightedMultiplier: r.PremiumHoursWeightedMultiplier,
		BreakHours:                     r.BreakHours,
		TotalHours:                     r.TotalHours,
		GrossSalaryEstimate:            r.GrossSalaryEstimate,
		Source:                         string(r.Source),
		Locked:                         r.Locked,
		LockedBy:                       r.LockedBy,
	}
	if r.LockedAt != nil {
		lockedAt := r.LockedAt.Format(time.RFC3339)
		resp.LockedAt = &lockedAt
	}
	return resp
}

func newResultID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
