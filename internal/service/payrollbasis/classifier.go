package payrollbasis

import (
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
)

// Category is the premium window an instant falls into after precedence.
type Category int

const (
	CategoryNone Category = iota
	CategoryNight
	CategoryWeekend
	CategoryHoliday
)

func (c Category) String() string {
	switch c {
	case CategoryNight:
		return "night"
	case CategoryWeekend:
		return "weekend"
	case CategoryHoliday:
		return "holiday"
	default:
		return "none"
	}
}

const (
	nightStartHour = 22
	nightEndHour   = 6
)

// Classification lists every premium window an instant belongs to.
type Classification struct {
	Night   bool
	Weekend bool
	Holiday bool
}

// HolidayFunc reports whether the local calendar day of t is a public holiday.
type HolidayFunc func(t time.Time) bool

// NoHolidays is the calendar used until a holiday table is wired in.
// It never reports a holiday.
func NoHolidays(time.Time) bool { return false }

// Classifier maps instants to premium windows in one organization's time zone.
type Classifier struct {
	Location *time.Location
	Holiday  HolidayFunc
}

func NewClassifier(loc *time.Location, holiday HolidayFunc) Classifier {
	if loc == nil {
		loc = time.UTC
	}
	if holiday == nil {
		holiday = NoHolidays
	}
	return Classifier{Location: loc, Holiday: holiday}
}

func (c Classifier) Classify(t time.Time) Classification {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)

	hour := local.Hour()
	weekday := local.Weekday()

	holiday := false
	if c.Holiday != nil {
		holiday = c.Holiday(local)
	}

	return Classification{
		Night:   hour >= nightStartHour || hour < nightEndHour,
		Weekend: weekday == time.Saturday || weekday == time.Sunday,
		Holiday: holiday,
	}
}

// Premium returns the single category that applies at t together with its
// configured multiplier. Holiday beats weekend beats night, and a category
// without a configured multiplier is skipped.
func (c Classifier) Premium(t time.Time, m payrollbasis.PremiumMultipliers) (Category, float64, bool) {
	cls := c.Classify(t)
	switch {
	case cls.Holiday && m.Holiday != nil:
		return CategoryHoliday, *m.Holiday, true
	case cls.Weekend && m.Weekend != nil:
		return CategoryWeekend, *m.Weekend, true
	case cls.Night && m.Night != nil:
		return CategoryNight, *m.Night, true
	}
	return CategoryNone, 1, false
}
