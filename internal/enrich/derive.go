package enrich

import (
	"math"
	"time"
)

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// revenue computes the derived revenue column: quantity × price rounded to
// two decimal places.
func revenue(quantity int, price float64) float64 {
	return round2(float64(quantity) * price)
}

// dateParts holds every calendar-derived column for one transaction date.
type dateParts struct {
	Year       int
	Month      int
	Day        int
	MonthName  string
	DayName    string
	DayOfWeek  int // 0=Monday … 6=Sunday
	Quarter    int
	WeekOfYear int // ISO week

	IsWeekend     bool
	IsBusinessDay bool
}

// splitDate derives the calendar columns. Day-of-week numbering follows the
// feed's convention of Monday=0 rather than Go's Sunday=0; a business day is
// any non-weekend day (holiday calendars are out of scope).
func splitDate(t time.Time) dateParts {
	dow := (int(t.Weekday()) + 6) % 7
	_, week := t.ISOWeek()
	weekend := dow >= 5
	return dateParts{
		Year:          t.Year(),
		Month:         int(t.Month()),
		Day:           t.Day(),
		MonthName:     t.Month().String(),
		DayName:       t.Weekday().String(),
		DayOfWeek:     dow,
		Quarter:       (int(t.Month())-1)/3 + 1,
		WeekOfYear:    week,
		IsWeekend:     weekend,
		IsBusinessDay: !weekend,
	}
}
