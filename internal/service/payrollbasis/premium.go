package payrollbasis

import (
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/interval"
)

const premiumStep = time.Hour

// PremiumSummary - time worked inside paid premium windows
type PremiumSummary struct {
	Duration           time.Duration
	WeightedMultiplier float64
}

// AggregatePremium walks each interval in whole-hour steps (the last one may
// be shorter) and classifies every step by its start instant. Only
// multipliers above 1 count as premium.
func AggregatePremium(
	intervals []interval.WorkInterval,
	classifier Classifier,
	multipliers payrollbasis.PremiumMultipliers,
) PremiumSummary {
	var premium time.Duration
	var weighted float64

	for _, iv := range intervals {
		for start := iv.Start; start.Before(iv.End); start = start.Add(premiumStep) {
			end := start.Add(premiumStep)
			if end.After(iv.End) {
				end = iv.End
			}
			_, multiplier, ok := classifier.Premium(start, multipliers)
			if !ok || multiplier <= 1 {
				continue
			}
			step := end.Sub(start)
			premium += step
			weighted += step.Hours() * multiplier
		}
	}

	if premium == 0 {
		return PremiumSummary{WeightedMultiplier: 1}
	}
	return PremiumSummary{
		Duration:           premium,
		WeightedMultiplier: weighted / premium.Hours(),
	}
}
