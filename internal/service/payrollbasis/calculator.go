package payrollbasis

import (
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/interval"
	"github.com/shopspring/decimal"
)

// PersonHours - every bucket computed for one person over one period
type PersonHours struct {
	Raw               time.Duration
	Break             time.Duration
	Adjusted          time.Duration
	Normal            time.Duration
	Overtime          time.Duration
	Premium           time.Duration
	PremiumMultiplier float64
	Weeks             []WeekBucket
}

// Calculator runs the per-person pipeline: merge, break deduction, premium
// aggregation and the weekly overtime split.
type Calculator struct {
	rules      payrollbasis.PayrollRules
	classifier Classifier
}

func NewCalculator(rules payrollbasis.PayrollRules, holiday HolidayFunc) *Calculator {
	return &Calculator{
		rules:      rules,
		classifier: NewClassifier(rules.Loc(), holiday),
	}
}

func (c *Calculator) Compute(spans []interval.Span, from, to time.Time) PersonHours {
	merged := interval.Merge(spans, from, to)
	raw := interval.Total(merged)

	adjusted := merged
	if c.breakTriggered(raw) {
		amount := time.Duration(c.rules.AutoBreakMinutes) * time.Minute
		adjusted = AllocateBreak(merged, amount, c.classifier, c.rules.Premium)
	}
	adjustedTotal := interval.Total(adjusted)

	premium := AggregatePremium(adjusted, c.classifier, c.rules.Premium)
	split := SplitWeekly(adjusted, c.rules.Loc(), hoursToDuration(c.rules.WeeklyNormalHoursThreshold))

	return PersonHours{
		Raw:               raw,
		Break:             raw - adjustedTotal,
		Adjusted:          adjustedTotal,
		Normal:            split.Normal,
		Overtime:          split.Overtime,
		Premium:           premium.Duration,
		PremiumMultiplier: premium.WeightedMultiplier,
		Weeks:             split.Weeks,
	}
}

func (c *Calculator) breakTriggered(raw time.Duration) bool {
	if c.rules.AutoBreakMinutes <= 0 || raw == 0 {
		return false
	}
	return raw >= hoursToDuration(c.rules.AutoBreakTriggerHours)
}

// GrossEstimate prices the hour buckets at wage. Overtime is paid at the
// overtime multiplier and premium hours add (average multiplier - 1) on top.
func GrossEstimate(h PersonHours, wage decimal.Decimal, overtimeMultiplier float64) decimal.Decimal {
	if wage.IsZero() {
		return decimal.Zero
	}
	normal := decimal.NewFromFloat(h.Normal.Hours()).Mul(wage)
	overtime := decimal.NewFromFloat(h.Overtime.Hours()).Mul(wage).Mul(decimal.NewFromFloat(overtimeMultiplier))
	premium := decimal.NewFromFloat(h.Premium.Hours()).Mul(wage).Mul(decimal.NewFromFloat(h.PremiumMultiplier - 1))
	return normal.Add(overtime).Add(premium).Round(2)
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
