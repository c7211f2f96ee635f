package attendance

import (
	"testing"
	"time"
)

func TestLateness(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name    string
		checkIn time.Time
		late    bool
		lateBy  int
	}{
		{"well before cutoff", day(8, 30), false, 0},
		{"one minute early", day(10, 59), false, 0},
		{"exactly at cutoff", day(11, 0), true, 0},
		{"one minute past", day(11, 1), true, 1},
		{"ninety minutes past", day(12, 30), true, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			late, by := Lateness(tt.checkIn, 11)
			if late != tt.late || by != tt.lateBy {
				t.Fatalf("Lateness(%v) = %v,%d; want %v,%d", tt.checkIn, late, by, tt.late, tt.lateBy)
			}
		})
	}
}

func TestWorkingHours(t *testing.T) {
	in := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if got := WorkingHours(in, in.Add(8*time.Hour+15*time.Minute)); got != 8.25 {
		t.Fatalf("WorkingHours = %v; want 8.25", got)
	}
	if got := WorkingHours(in, in.Add(7*time.Hour+20*time.Minute)); got != 7.33 {
		t.Fatalf("WorkingHours = %v; want 7.33", got)
	}
	if got := WorkingHours(in, in.Add(-time.Hour)); got != 0 {
		t.Fatalf("WorkingHours on negative span = %v; want 0", got)
	}
}

func TestCheckoutStatus(t *testing.T) {
	if got := CheckoutStatus(StatusPresent, 3.99, 4); got != StatusHalfDay {
		t.Fatalf("CheckoutStatus(present, 3.99) = %q; want half-day", got)
	}
	if got := CheckoutStatus(StatusLate, 3.5, 4); got != StatusHalfDay {
		t.Fatalf("CheckoutStatus(late, 3.5) = %q; want half-day", got)
	}
	if got := CheckoutStatus(StatusPresent, 4, 4); got != StatusPresent {
		t.Fatalf("CheckoutStatus(present, 4) = %q; want present", got)
	}
	if got := CheckoutStatus(StatusLate, 9.5, 4); got != StatusLate {
		t.Fatalf("CheckoutStatus(late, 9.5) = %q; want late", got)
	}
}
