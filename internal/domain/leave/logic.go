package leave

import (
	"errors"
	"time"

	"peopleops/internal/domain/directory"
)

var (
	ErrInvalidRange        = errors.New("end date before start date")
	ErrUnknownLeaveType    = errors.New("unknown leave type")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
)

// DaysInclusive counts calendar days between start and end, both ends
// included. The caller is expected to have truncated both to midnight.
func DaysInclusive(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return float64(int(end.Sub(start).Hours()/24)) + 1, nil
}

// ApplyBalance deducts an approved request from the user's balances. Casual
// and on-duty leave draw down their buckets and must cover the full span.
// Leave without pay has no pool; its counter only accumulates taken days.
func ApplyBalance(b directory.LeaveBalance, leaveType string, days float64) (directory.LeaveBalance, error) {
	switch leaveType {
	case TypeCasual:
		if b.CasualLeave < days {
			return b, ErrInsufficientBalance
		}
		b.CasualLeave -= days
	case TypeOnDuty:
		if b.OnDutyLeave < days {
			return b, ErrInsufficientBalance
		}
		b.OnDutyLeave -= days
	case TypeWithoutPay:
		b.LeaveWithoutPay += days
	default:
		return b, ErrUnknownLeaveType
	}
	return b, nil
}

// ValidType reports whether the given leave type is one of the three the
// workflow accepts.
func ValidType(leaveType string) bool {
	switch leaveType {
	case TypeCasual, TypeOnDuty, TypeWithoutPay:
		return true
	}
	return false
}
