package leave

import (
	"errors"
	"testing"
	"time"

	"peopleops/internal/domain/directory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInclusive(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       float64
		wantErr    bool
	}{
		{"single day", date(2026, 4, 6), date(2026, 4, 6), 1, false},
		{"full week", date(2026, 4, 6), date(2026, 4, 12), 7, false},
		{"across month boundary", date(2026, 4, 28), date(2026, 5, 2), 5, false},
		{"reversed range", date(2026, 4, 12), date(2026, 4, 6), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DaysInclusive(tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("err = %v; want ErrInvalidRange", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("DaysInclusive = %v, %v; want %v", got, err, tt.want)
			}
		})
	}
}

func TestApplyBalance(t *testing.T) {
	base := directory.LeaveBalance{CasualLeave: 10, OnDutyLeave: 5, LeaveWithoutPay: 2}

	t.Run("casual deducts", func(t *testing.T) {
		got, err := ApplyBalance(base, TypeCasual, 3)
		if err != nil || got.CasualLeave != 7 {
			t.Fatalf("got %+v, %v", got, err)
		}
	})

	t.Run("casual insufficient", func(t *testing.T) {
		_, err := ApplyBalance(base, TypeCasual, 10.5)
		if !errors.Is(err, ErrInsufficientBalance) {
			t.Fatalf("err = %v; want ErrInsufficientBalance", err)
		}
	})

	t.Run("on duty deducts", func(t *testing.T) {
		got, err := ApplyBalance(base, TypeOnDuty, 5)
		if err != nil || got.OnDutyLeave != 0 {
			t.Fatalf("got %+v, %v", got, err)
		}
	})

	t.Run("lwp accumulates without a cap", func(t *testing.T) {
		got, err := ApplyBalance(base, TypeWithoutPay, 30)
		if err != nil || got.LeaveWithoutPay != 32 {
			t.Fatalf("got %+v, %v", got, err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ApplyBalance(base, "Sabbatical", 1)
		if !errors.Is(err, ErrUnknownLeaveType) {
			t.Fatalf("err = %v; want ErrUnknownLeaveType", err)
		}
	})
}
