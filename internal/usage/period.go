// Package usage aggregates ledger totals into chart datasets: income and
// outlay trends, category breakdowns, and period-over-period comparisons.
package usage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lachiem1/budgetcharts/internal/storage"
)

type PeriodUnit int

const (
	Day PeriodUnit = iota
	Week
	Month
	Year
)

func (u PeriodUnit) String() string {
	switch u {
	case Day:
		return "day"
	case Week:
		return "week"
	case Year:
		return "year"
	default:
		return "month"
	}
}

func ParsePeriodUnit(raw string) (PeriodUnit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "d", "day":
		return Day, nil
	case "w", "week":
		return Week, nil
	case "", "m", "month":
		return Month, nil
	case "y", "year":
		return Year, nil
	default:
		return Month, fmt.Errorf("parse period unit %q: want day, week, month or year", raw)
	}
}

// Offset moves ref by n units.
func Offset(ref time.Time, unit PeriodUnit, n int) time.Time {
	switch unit {
	case Day:
		return ref.AddDate(0, 0, n)
	case Week:
		return ref.AddDate(0, 0, 7*n)
	case Year:
		return ref.AddDate(n, 0, 0)
	default:
		return ref.AddDate(0, n, 0)
	}
}

// Period is the half-open interval [Start, End) of one unit.
type Period struct {
	Unit  PeriodUnit
	Start time.Time
	End   time.Time
}

// TargetPeriod returns the unit-long period containing ref. Weeks start on
// Monday.
func TargetPeriod(unit PeriodUnit, ref time.Time) Period {
	y, m, d := ref.Date()
	loc := ref.Location()
	var start time.Time
	switch unit {
	case Day:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	case Week:
		back := (int(ref.Weekday()) + 6) % 7
		start = time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	case Year:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
	return Period{Unit: unit, Start: start, End: Offset(start, unit, 1)}
}

func (p Period) Previous() Period {
	return TargetPeriod(p.Unit, Offset(p.Start, p.Unit, -1))
}

func (p Period) Next() Period {
	return TargetPeriod(p.Unit, p.End)
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

func (p Period) Label() string {
	switch p.Unit {
	case Day:
		return p.Start.Format("Mon 2 Jan 2006")
	case Week:
		last := p.End.AddDate(0, 0, -1)
		return p.Start.Format("2 Jan") + " - " + last.Format("2 Jan 2006")
	case Year:
		return p.Start.Format("2006")
	default:
		return p.Start.Format("January 2006")
	}
}

// BucketUnit is the granularity a trend over this period is drawn in:
// months for a year, days otherwise.
func (p Period) BucketUnit() storage.Bucket {
	if p.Unit == Year {
		return storage.BucketMonth
	}
	return storage.BucketDay
}

// Bucket is one cluster of a trend chart.
type Bucket struct {
	Key   string
	Label string
}

// Buckets enumerates every bucket of the period in order, including empty
// ones.
func (p Period) Buckets() []Bucket {
	var out []Bucket
	if p.BucketUnit() == storage.BucketMonth {
		for t := p.Start; t.Before(p.End); t = t.AddDate(0, 1, 0) {
			out = append(out, Bucket{Key: t.Format("2006-01"), Label: t.Format("Jan")})
		}
		return out
	}
	for t := p.Start; t.Before(p.End); t = t.AddDate(0, 0, 1) {
		out = append(out, Bucket{Key: t.Format("2006-01-02"), Label: strconv.Itoa(t.Day())})
	}
	return out
}

// Cursor is the period a view is looking at.
type Cursor struct {
	Unit PeriodUnit
	Ref  time.Time
}

func (c Cursor) Period() Period { return TargetPeriod(c.Unit, c.Ref) }

// Shift moves the cursor n whole periods. It steps from the period start so
// a month-end reference never overflows into the following month.
func (c Cursor) Shift(n int) Cursor {
	c.Ref = Offset(c.Period().Start, c.Unit, n)
	return c
}

func (c Cursor) WithUnit(u PeriodUnit) Cursor {
	c.Unit = u
	return c
}
