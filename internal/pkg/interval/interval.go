// Package interval implements the half-open date-time interval algebra used
// to normalize work time: clipping to a period, merging overlaps and cutting
// ranges out of a disjoint set.
package interval

import (
	"sort"
	"time"
)

// Span is an untrusted (start, end) pair as delivered by a time-record source.
type Span struct {
	Start time.Time
	End   time.Time
}

// WorkInterval is a half-open [Start, End) range with End after Start.
type WorkInterval struct {
	Start time.Time
	End   time.Time
}

// New returns a WorkInterval, or false when end is not after start.
func New(start, end time.Time) (WorkInterval, bool) {
	if !end.After(start) {
		return WorkInterval{}, false
	}
	return WorkInterval{Start: start, End: end}, true
}

func (w WorkInterval) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t lies in [Start, End).
func (w WorkInterval) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Clip restricts s to [from, to]. Empty or inverted results are dropped.
func Clip(s Span, from, to time.Time) (WorkInterval, bool) {
	start, end := s.Start, s.End
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	return New(start, end)
}

// Merge clips every span to [from, to], sorts the survivors by start and
// folds overlapping or touching intervals together. The result is disjoint
// and ascending. Malformed spans are silently dropped.
func Merge(spans []Span, from, to time.Time) []WorkInterval {
	clipped := make([]WorkInterval, 0, len(spans))
	for _, s := range spans {
		if iv, ok := Clip(s, from, to); ok {
			clipped = append(clipped, iv)
		}
	}
	return Normalize(clipped)
}

// Normalize sorts and merges already valid intervals.
func Normalize(intervals []WorkInterval) []WorkInterval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]WorkInterval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []WorkInterval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Total sums the durations of the given intervals.
func Total(intervals []WorkInterval) time.Duration {
	var total time.Duration
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total
}

// Subtract removes every cut range from a disjoint ascending set and returns
// the remaining pieces, dropping zero-length leftovers.
func Subtract(intervals, cuts []WorkInterval) []WorkInterval {
	cuts = Normalize(cuts)
	if len(cuts) == 0 {
		out := make([]WorkInterval, len(intervals))
		copy(out, intervals)
		return out
	}

	var out []WorkInterval
	for _, iv := range intervals {
		cursor := iv.Start
		for _, c := range cuts {
			if !c.End.After(cursor) {
				continue
			}
			if !c.Start.Before(iv.End) {
				break
			}
			if piece, ok := New(cursor, c.Start); ok {
				out = append(out, piece)
			}
			if c.End.After(cursor) {
				cursor = c.End
			}
		}
		if piece, ok := New(cursor, iv.End); ok {
			out = append(out, piece)
		}
	}
	return out
}
