package payrollbasis

import (
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxPeriodDays bounds a single refresh window
const MaxPeriodDays = 366

// ========== REFRESH DTOs ==========

type RefreshRequest struct {
	CompanyID   string   `json:"-"`
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = everyone with activity
}

func (r *RefreshRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "is required"})
	}
	errs = append(errs, validatePeriod(r.PeriodStart, r.PeriodEnd)...)
	for _, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must not contain empty values"})
			break
		}
	}
	if validator.HasDuplicates(r.EmployeeIDs) {
		errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must not contain duplicates"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates returns the parsed period bounds. Call after Validate.
func (r *RefreshRequest) Dates() (start, end time.Time) {
	start, _ = validator.IsValidDate(r.PeriodStart)
	end, _ = validator.IsValidDate(r.PeriodEnd)
	return start, end
}

type RefreshResponse struct {
	CompanyID       string           `json:"company_id"`
	PeriodStart     string           `json:"period_start"`
	PeriodEnd       string           `json:"period_end"`
	State           RefreshState     `json:"state"`
	PersonsComputed int              `json:"persons_computed"`
	PersonsSkipped  int              `json:"persons_skipped"`
	TimerEntryUsers int              `json:"timer_entry_persons"`
	AttendanceUsers int              `json:"attendance_persons"`
	Results         []ResultResponse `json:"results"`
}

// ========== RESULT DTOs ==========

type ListResultsRequest struct {
	CompanyID   string
	PeriodStart string
	PeriodEnd   string
}

func (r *ListResultsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "is required"})
	}
	errs = append(errs, validatePeriod(r.PeriodStart, r.PeriodEnd)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ListResultsRequest) Dates() (start, end time.Time) {
	start, _ = validator.IsValidDate(r.PeriodStart)
	end, _ = validator.IsValidDate(r.PeriodEnd)
	return start, end
}

type ResultResponse struct {
	ID                             string          `json:"id"`
	EmployeeID                     string          `json:"employee_id"`
	PeriodStart                    string          `json:"period_start"`
	PeriodEnd                      string          `json:"period_end"`
	HoursNormal                    float64         `json:"hours_normal"`
	HoursOvertime                  float64         `json:"hours_overtime"`
	PremiumHours                   float64         `json:"premium_hours"`
	PremiumHoursWeightedMultiplier float64         `json:"premium_hours_weighted_multiplier"`
	BreakHours                     float64         `json:"break_hours"`
	TotalHours                     float64         `json:"total_hours"`
	GrossSalaryEstimate            decimal.Decimal `json:"gross_salary_estimate"`
	Source                         string          `json:"source"`
	Locked                         bool            `json:"locked"`
	LockedBy                       *string         `json:"locked_by"`
	LockedAt                       *string         `json:"locked_at"`
}

func validatePeriod(startStr, endStr string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(startStr)
	end, endOK := validator.IsValidDate(endStr)
	if validator.IsEmpty(startStr) {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "is required"})
	} else if !startOK {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a date in YYYY-MM-DD format"})
	}
	if validator.IsEmpty(endStr) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "is required"})
	} else if !endOK {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a date in YYYY-MM-DD format"})
	}

	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
		} else if int(end.Sub(start).Hours()/24)+1 > MaxPeriodDays {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "period must not exceed 366 days"})
		}
	}
	return errs
}
