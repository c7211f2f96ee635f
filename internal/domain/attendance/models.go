package attendance

import "time"

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusHalfDay = "half-day"
	StatusOnLeave = "on-leave"
	StatusAbsent  = "absent"
)

type Record struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Day          time.Time  `json:"date"`
	CheckInTime  *time.Time `json:"checkInTime,omitempty"`
	CheckInIP    string     `json:"checkInIp,omitempty"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	CheckOutIP   string     `json:"checkOutIp,omitempty"`
	Status       string     `json:"status"`
	IsLate       bool       `json:"isLate"`
	LateBy       int        `json:"lateByMinutes"`
	WorkingHours float64    `json:"workingHours"`
	Remarks      string     `json:"remarks,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// DaySummary is a directory row joined with that day's attendance, synthesizing
// an absent entry for active users with no record.
type DaySummary struct {
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Designation string     `json:"designation"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	CheckIn     *time.Time `json:"checkInTime,omitempty"`
	CheckOut    *time.Time `json:"checkOutTime,omitempty"`
	IsLate      bool       `json:"isLate"`
	WorkingHrs  float64    `json:"workingHours"`
}
