package payrollbasis

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(start, end time.Time) interval.WorkInterval {
	return interval.WorkInterval{Start: start, End: end}
}

func TestAllocateBreak_SimpleDay(t *testing.T) {
	rules := payrollbasis.DefaultRules("c1")
	in := []interval.WorkInterval{iv(jan(2, 8, 0), jan(2, 16, 30))}

	out := AllocateBreak(in, 30*time.Minute, NewClassifier(time.UTC, nil), rules.Premium)

	require.Len(t, out, 1)
	assert.Equal(t, iv(jan(2, 8, 30), jan(2, 16, 30)), out[0])
	assert.Equal(t, 8*time.Hour, interval.Total(out))
}

func TestAllocateBreak_PrefersNonPremiumTime(t *testing.T) {
	rules := payrollbasis.DefaultRules("c1")
	// Night starts at 22:00, the evening before it is plain time.
	in := []interval.WorkInterval{iv(jan(2, 20, 0), jan(2, 23, 0))}

	out := AllocateBreak(in, 30*time.Minute, NewClassifier(time.UTC, nil), rules.Premium)

	require.Len(t, out, 1)
	assert.Equal(t, iv(jan(2, 20, 30), jan(2, 23, 0)), out[0])
}

func TestAllocateBreak_ExcisesChunkInsideLaterInterval(t *testing.T) {
	rules := payrollbasis.DefaultRules("c1")
	// Only the second interval has ordinary time.
	in := []interval.WorkInterval{
		iv(jan(2, 4, 0), jan(2, 5, 0)),
		iv(jan(2, 23, 30), jan(3, 0, 0)),
		iv(jan(3, 9, 0), jan(3, 10, 0)),
	}

	out := AllocateBreak(in, 15*time.Minute, NewClassifier(time.UTC, nil), rules.Premium)

	assert.Equal(t, []interval.WorkInterval{
		iv(jan(2, 4, 0), jan(2, 5, 0)),
		iv(jan(2, 23, 30), jan(3, 0, 0)),
		iv(jan(3, 9, 15), jan(3, 10, 0)),
	}, out)
}

func TestAllocateBreak_FallsBackProportionallyToPremium(t *testing.T) {
	rules := payrollbasis.DefaultRules("c1")
	// 15 minutes of plain time followed by 1h45 of night.
	in := []interval.WorkInterval{iv(jan(2, 21, 45), jan(2, 23, 30))}

	out := AllocateBreak(in, 30*time.Minute, NewClassifier(time.UTC, nil), rules.Premium)

	assert.Equal(t, 75*time.Minute, interval.Total(out))
	require.NotEmpty(t, out)
	// The plain chunk is gone entirely.
	assert.False(t, out[0].Start.Before(jan(2, 22, 0)))
	// Every night chunk gives up the same share, so nothing stays whole.
	assert.Len(t, out, 6)
}

func TestAllocateBreak_UnconfiguredPremiumIsOrdinary(t *testing.T) {
	in := []interval.WorkInterval{iv(jan(2, 22, 0), jan(2, 23, 0))}

	out := AllocateBreak(in, 30*time.Minute, NewClassifier(time.UTC, nil), payrollbasis.PremiumMultipliers{})

	require.Len(t, out, 1)
	assert.Equal(t, iv(jan(2, 22, 30), jan(2, 23, 0)), out[0])
}

func TestAllocateBreak_RequestCoversEverything(t *testing.T) {
	rules := payrollbasis.DefaultRules("c1")
	in := []interval.WorkInterval{iv(jan(2, 8, 0), jan(2, 8, 20))}
	c := NewClassifier(time.UTC, nil)

	assert.Empty(t, AllocateBreak(in, 30*time.Minute, c, rules.Premium))
	assert.Empty(t, AllocateBreak(in, 20*time.Minute, c, rules.Premium))
}

func TestAllocateBreak_ZeroAmount(t *testing.T) {
	rules := payrollbasis.DefaultRules("c1")
	in := []interval.WorkInterval{iv(jan(2, 8, 0), jan(2, 9, 0))}

	out := AllocateBreak(in, 0, NewClassifier(time.UTC, nil), rules.Premium)

	assert.Equal(t, in, out)
}

func TestAllocateBreak_NoPremiumRemovedWhenOrdinaryTimeSuffices(t *testing.T) {
	rules := payrollbasis.DefaultRules("c1")
	c := NewClassifier(time.UTC, nil)

	cases := [][]interval.WorkInterval{
		{iv(jan(2, 18, 0), jan(3, 2, 0))},
		{iv(jan(5, 12, 0), jan(6, 4, 0))},
		{iv(jan(2, 1, 0), jan(2, 7, 0)), iv(jan(2, 21, 0), jan(2, 23, 0))},
	}

	for _, in := range cases {
		out := AllocateBreak(in, 45*time.Minute, c, rules.Premium)
		assert.Equal(t, premiumChunkTime(in, c, rules.Premium), premiumChunkTime(out, c, rules.Premium))
		assert.Equal(t, interval.Total(in)-45*time.Minute, interval.Total(out))
	}
}

func premiumChunkTime(intervals []interval.WorkInterval, c Classifier, m payrollbasis.PremiumMultipliers) time.Duration {
	var total time.Duration
	for _, w := range intervals {
		for t := w.Start; t.Before(w.End); t = t.Add(time.Minute) {
			if _, _, ok := c.Premium(t, m); ok {
				total += time.Minute
			}
		}
	}
	return total
}
