package payrollbasis

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/interval"
)

// WeekBucket - hours accrued in one ISO-8601 week
type WeekBucket struct {
	Week     string // YYYY-Www
	Total    time.Duration
	Normal   time.Duration
	Overtime time.Duration
}

type OvertimeSplit struct {
	Weeks    []WeekBucket
	Normal   time.Duration
	Overtime time.Duration
}

// ISOWeekKey formats the ISO week containing t, e.g. "2024-W01".
func ISOWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// SplitWeekly buckets worked time by ISO week in loc, splitting intervals at
// local midnight, and caps each week's normal time at threshold.
func SplitWeekly(intervals []interval.WorkInterval, loc *time.Location, threshold time.Duration) OvertimeSplit {
	if loc == nil {
		loc = time.UTC
	}
	if threshold < 0 {
		threshold = 0
	}

	totals := make(map[string]time.Duration)
	for _, iv := range intervals {
		cursor := iv.Start
		for cursor.Before(iv.End) {
			local := cursor.In(loc)
			nextMidnight := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
			end := iv.End
			if nextMidnight.Before(end) {
				end = nextMidnight
			}
			totals[ISOWeekKey(local)] += end.Sub(cursor)
			cursor = end
		}
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	split := OvertimeSplit{Weeks: make([]WeekBucket, 0, len(keys))}
	for _, k := range keys {
		total := totals[k]
		normal := min(total, threshold)
		bucket := WeekBucket{
			Week:     k,
			Total:    total,
			Normal:   normal,
			Overtime: total - normal,
		}
		split.Weeks = append(split.Weeks, bucket)
		split.Normal += bucket.Normal
		split.Overtime += bucket.Overtime
	}
	return split
}
