package payrollbasis

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/interval"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func span(start, end time.Time) interval.Span {
	return interval.Span{Start: start, End: end}
}

var (
	january    = jan(1, 0, 0)
	endOfMonth = time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
)

func TestCalculator_SimpleDay(t *testing.T) {
	calc := NewCalculator(payrollbasis.DefaultRules("c1"), nil)

	h := calc.Compute([]interval.Span{span(jan(2, 8, 0), jan(2, 16, 30))}, january, endOfMonth)

	assert.Equal(t, 30*time.Minute, h.Break)
	assert.Equal(t, 8*time.Hour, h.Adjusted)
	assert.Equal(t, 8*time.Hour, h.Normal)
	assert.Zero(t, h.Overtime)
	assert.Zero(t, h.Premium)
	assert.Equal(t, 1.0, h.PremiumMultiplier)
}

func TestCalculator_OverlappingSourcesMergeBeforeBreak(t *testing.T) {
	rules := payrollbasis.DefaultRules("c1")
	rules.AutoBreakTriggerHours = 10
	calc := NewCalculator(rules, nil)

	h := calc.Compute([]interval.Span{
		span(jan(2, 8, 0), jan(2, 12, 0)),
		span(jan(2, 11, 0), jan(2, 15, 0)),
	}, january, endOfMonth)

	assert.Equal(t, 7*time.Hour, h.Raw)
	assert.Zero(t, h.Break)
	assert.Equal(t, 7*time.Hour, h.Normal)
}

func TestCalculator_NightWork(t *testing.T) {
	rules := payrollbasis.DefaultRules("c1")
	rules.AutoBreakTriggerHours = 10
	calc := NewCalculator(rules, nil)

	h := calc.Compute([]interval.Span{span(jan(2, 22, 0), jan(3, 6, 0))}, january, endOfMonth)

	assert.Zero(t, h.Break)
	assert.Equal(t, 8*time.Hour, h.Premium)
	assert.InDelta(t, 1.2, h.PremiumMultiplier, 1e-9)
}

func TestCalculator_BreakTriggerBoundary(t *testing.T) {
	calc := NewCalculator(payrollbasis.DefaultRules("c1"), nil)

	exactly := calc.Compute([]interval.Span{span(jan(2, 8, 0), jan(2, 14, 0))}, january, endOfMonth)
	assert.Equal(t, 30*time.Minute, exactly.Break)

	below := calc.Compute([]interval.Span{span(jan(2, 8, 0), jan(2, 13, 59))}, january, endOfMonth)
	assert.Zero(t, below.Break)
}

func TestCalculator_ClipsToPeriod(t *testing.T) {
	rules := payrollbasis.DefaultRules("c1")
	rules.AutoBreakMinutes = 0
	calc := NewCalculator(rules, nil)

	h := calc.Compute([]interval.Span{span(jan(1, 20, 0), jan(2, 4, 0))}, jan(2, 0, 0), jan(3, 0, 0))

	assert.Equal(t, 4*time.Hour, h.Raw)
}

func TestCalculator_Conservation(t *testing.T) {
	rules := payrollbasis.DefaultRules("c1")
	calc := NewCalculator(rules, nil)

	inputs := [][]interval.Span{
		{span(jan(2, 8, 0), jan(2, 16, 30))},
		{span(jan(5, 18, 0), jan(6, 7, 0))},
		{span(jan(2, 21, 50), jan(3, 4, 10)), span(jan(3, 3, 0), jan(3, 9, 0))},
		{span(jan(1, 0, 0), jan(3, 2, 0)), span(jan(8, 9, 0), jan(8, 9, 5))},
		{span(jan(2, 10, 0), jan(2, 9, 0))},
	}

	for _, spans := range inputs {
		h := calc.Compute(spans, january, endOfMonth)
		assert.Equal(t, h.Raw, h.Break+h.Adjusted)
		assert.Equal(t, h.Adjusted, h.Normal+h.Overtime)
		assert.LessOrEqual(t, h.Premium, h.Adjusted)
		assert.InDelta(t, h.Raw.Hours(), h.Break.Hours()+h.Normal.Hours()+h.Overtime.Hours(), 1e-9)
	}
}

func TestGrossEstimate(t *testing.T) {
	h := PersonHours{
		Normal:            40 * time.Hour,
		Overtime:          5 * time.Hour,
		Premium:           2 * time.Hour,
		PremiumMultiplier: 1.5,
	}

	got := GrossEstimate(h, decimal.NewFromInt(10), 1.5)
	assert.True(t, decimal.RequireFromString("485.00").Equal(got), got.String())

	assert.True(t, decimal.Zero.Equal(GrossEstimate(h, decimal.Zero, 1.5)))
}
