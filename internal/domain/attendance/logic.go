package attendance

import (
	"math"
	"time"
)

// Lateness compares a check-in against the day's cutoff hour on the server
// clock. Arriving at the cutoff instant already counts as late, with LateBy
// whole minutes past it.
func Lateness(checkIn time.Time, cutoffHour int) (bool, int) {
	cutoff := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), cutoffHour, 0, 0, 0, checkIn.Location())
	if checkIn.Before(cutoff) {
		return false, 0
	}
	return true, int(checkIn.Sub(cutoff).Minutes())
}

// WorkingHours returns the elapsed hours between check-in and check-out,
// rounded to two decimal places. Negative spans collapse to zero.
func WorkingHours(checkIn, checkOut time.Time) float64 {
	hrs := checkOut.Sub(checkIn).Hours()
	if hrs < 0 {
		return 0
	}
	return math.Round(hrs*100) / 100
}

// CheckoutStatus downgrades a day to half-day when the worked span falls
// under the threshold, no matter whether the check-in was on time or late.
func CheckoutStatus(current string, workingHours, halfDayThreshold float64) string {
	if workingHours < halfDayThreshold {
		return StatusHalfDay
	}
	return current
}

// CheckInStatus is late past the cutoff instant, present otherwise.
func CheckInStatus(isLate bool) string {
	if isLate {
		return StatusLate
	}
	return StatusPresent
}

// DayOf truncates a timestamp to its calendar date in the same location.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
