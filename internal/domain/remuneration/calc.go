package remuneration

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrBadMonth = errors.New("month must be formatted YYYY-MM")

// ParseMonth turns "2026-04" into that month's first and last day.
func ParseMonth(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, ErrBadMonth
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

// EffectiveWindow clips a month to an employee's joining date. A user who
// joined mid-month is only payable from that day; one who joined after the
// month ended has no window at all.
func EffectiveWindow(monthStart, monthEnd time.Time, joined *time.Time) (time.Time, time.Time, bool) {
	if joined != nil {
		if joined.After(monthEnd) {
			return time.Time{}, time.Time{}, false
		}
		if joined.After(monthStart) {
			monthStart = *joined
		}
	}
	return monthStart, monthEnd, true
}

// CountWeekends counts Saturdays and Sundays inside the inclusive window.
func CountWeekends(from, to time.Time) int {
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			n++
		}
	}
	return n
}

// CountWeekdayHolidays counts the given holiday dates that land on working
// weekdays inside the window. Weekend holidays are already covered by the
// weekend count and must not double-dip.
func CountWeekdayHolidays(from, to time.Time, holidays []time.Time) int {
	n := 0
	for _, h := range holidays {
		if h.Before(from) || h.After(to) {
			continue
		}
		if wd := h.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

// TotalDays is the inclusive calendar day count of the window.
func TotalDays(from, to time.Time) float64 {
	return float64(int(to.Sub(from).Hours()/24)) + 1
}

// PayoutPercent maps a composite performance score on the 0 to 100 scale to
// the variable pay percentage.
func PayoutPercent(score float64) float64 {
	switch {
	case score > 80:
		return 100
	case score >= 60:
		return 90
	case score >= 50:
		return 80
	case score >= 40:
		return 50
	case score >= 30:
		return 40
	default:
		return 30
	}
}

// TotalScore sums the four manager ratings with the peer average, each
// component on a 0 to 20 scale.
func TotalScore(r Ratings, peerAverage float64) float64 {
	return round2(r.Discipline + r.WorkQuality + r.Initiative + r.Collaboration + peerAverage)
}

// ProRate scales a monthly gross amount by payable over total days.
func ProRate(gross, payableDays, totalDays float64) float64 {
	if totalDays <= 0 {
		return 0
	}
	return round2(gross * payableDays / totalDays)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MonthKey formats a date as the canonical YYYY-MM bucket.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
