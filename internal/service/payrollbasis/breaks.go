package payrollbasis

import (
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/interval"
)

const breakChunk = 15 * time.Minute

type breakChunkSlot struct {
	span    interval.WorkInterval
	premium bool
	take    time.Duration
}

// AllocateBreak removes amount of time from a disjoint ascending interval set.
// Non-premium chunks are consumed first in chronological order; whatever is
// left is spread over premium chunks in proportion to their length. The
// removed time is cut out of the exact chunk ranges, starting at each chunk's
// beginning. When amount covers all available time the result is empty.
func AllocateBreak(
	intervals []interval.WorkInterval,
	amount time.Duration,
	classifier Classifier,
	multipliers payrollbasis.PremiumMultipliers,
) []interval.WorkInterval {
	if amount <= 0 {
		return interval.Subtract(intervals, nil)
	}
	if amount >= interval.Total(intervals) {
		return nil
	}

	chunks := sliceChunks(intervals, classifier, multipliers)

	remaining := amount
	var premiumTotal time.Duration
	for i := range chunks {
		if chunks[i].premium {
			premiumTotal += chunks[i].span.Duration()
			continue
		}
		if remaining == 0 {
			continue
		}
		take := min(remaining, chunks[i].span.Duration())
		chunks[i].take = take
		remaining -= take
	}

	if remaining > 0 && premiumTotal > 0 {
		distributeProportionally(chunks, remaining, premiumTotal)
	}

	cuts := make([]interval.WorkInterval, 0, len(chunks))
	for _, c := range chunks {
		if cut, ok := interval.New(c.span.Start, c.span.Start.Add(c.take)); ok {
			cuts = append(cuts, cut)
		}
	}
	return interval.Subtract(intervals, cuts)
}

// sliceChunks cuts every interval into 15-minute chunks aligned to the
// interval start and tags each by the premium category at its midpoint.
func sliceChunks(
	intervals []interval.WorkInterval,
	classifier Classifier,
	multipliers payrollbasis.PremiumMultipliers,
) []breakChunkSlot {
	var chunks []breakChunkSlot
	for _, iv := range intervals {
		for start := iv.Start; start.Before(iv.End); start = start.Add(breakChunk) {
			end := start.Add(breakChunk)
			if end.After(iv.End) {
				end = iv.End
			}
			span := interval.WorkInterval{Start: start, End: end}
			mid := start.Add(span.Duration() / 2)
			_, _, premium := classifier.Premium(mid, multipliers)
			chunks = append(chunks, breakChunkSlot{span: span, premium: premium})
		}
	}
	return chunks
}

func distributeProportionally(chunks []breakChunkSlot, remaining, premiumTotal time.Duration) {
	ratio := float64(remaining) / float64(premiumTotal)

	var allocated time.Duration
	for i := range chunks {
		if !chunks[i].premium {
			continue
		}
		length := chunks[i].span.Duration()
		share := min(time.Duration(float64(length)*ratio), length)
		chunks[i].take = share
		allocated += share
	}

	// Rounding leftovers go to the latest premium chunks with spare room.
	leftover := remaining - allocated
	for i := len(chunks) - 1; i >= 0 && leftover > 0; i-- {
		if !chunks[i].premium {
			continue
		}
		spare := chunks[i].span.Duration() - chunks[i].take
		extra := min(spare, leftover)
		chunks[i].take += extra
		leftover -= extra
	}
}
