package payrollbasis

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionSource identifies where a raw session came from
type SessionSource string

const (
	SourceTimerEntry SessionSource = "timer_entry"
	SourceAttendance SessionSource = "attendance"
)

// RawSession - One work record as delivered by a time-record source.
// End is nil while the session is still open.
type RawSession struct {
	PersonID        string
	Start           time.Time
	End             *time.Time
	SourceProjectID *string
	Source          SessionSource
}

// Closed reports whether the session has an end
func (s RawSession) Closed() bool {
	return s.End != nil
}

// PremiumMultipliers - pay factors per unsociable window. A nil entry means
// the organization has not configured that category.
type PremiumMultipliers struct {
	Night   *float64
	Weekend *float64
	Holiday *float64
}

// PayrollRules - Per-company payroll parameters
type PayrollRules struct {
	CompanyID                  string
	WeeklyNormalHoursThreshold float64
	AutoBreakMinutes           int
	AutoBreakTriggerHours      float64
	OvertimeMultiplier         float64
	Premium                    PremiumMultipliers
	Location                   *time.Location
}

const (
	DefaultWeeklyNormalHours     = 40.0
	DefaultAutoBreakMinutes      = 30
	DefaultAutoBreakTriggerHours = 6.0
	DefaultOvertimeMultiplier    = 1.5
	DefaultNightMultiplier       = 1.2
	DefaultWeekendMultiplier     = 1.5
	DefaultHolidayMultiplier     = 2.0
)

// DefaultRules returns the rules applied when a company has none configured
func DefaultRules(companyID string) PayrollRules {
	night, weekend, holiday := DefaultNightMultiplier, DefaultWeekendMultiplier, DefaultHolidayMultiplier
	return PayrollRules{
		CompanyID:                  companyID,
		WeeklyNormalHoursThreshold: DefaultWeeklyNormalHours,
		AutoBreakMinutes:           DefaultAutoBreakMinutes,
		AutoBreakTriggerHours:      DefaultAutoBreakTriggerHours,
		OvertimeMultiplier:         DefaultOvertimeMultiplier,
		Premium: PremiumMultipliers{
			Night:   &night,
			Weekend: &weekend,
			Holiday: &holiday,
		},
		Location: time.UTC,
	}
}

// Loc returns the rules' location, UTC when unset
func (r PayrollRules) Loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// PayrollBasisResult - Computed hour buckets for one person and period.
// Rows are replaced wholesale on every refresh, never updated.
type PayrollBasisResult struct {
	ID                             string
	CompanyID                      string
	PersonID                       string
	PeriodStart                    time.Time
	PeriodEnd                      time.Time
	HoursNormal                    float64
	HoursOvertime                  float64
	PremiumHours                   float64
	PremiumHoursWeightedMultiplier float64
	BreakHours                     float64
	TotalHours                     float64
	GrossSalaryEstimate            decimal.Decimal
	Source                         SessionSource
	Locked                         bool
	LockedBy                       *string
	LockedAt                       *time.Time
	CreatedAt                      time.Time
}

// RefreshState - step of a refresh run
type RefreshState string

const (
	StateLoadingRules     RefreshState = "LOADING_RULES"
	StateLoadingSessions  RefreshState = "LOADING_SESSIONS"
	StatePerPersonCompute RefreshState = "PER_PERSON_COMPUTE"
	StatePersisting       RefreshState = "PERSISTING"
	StateDone             RefreshState = "DONE"
	StateFailed           RefreshState = "FAILED"
)
