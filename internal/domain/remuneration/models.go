package remuneration

import "time"

// MonthSheet wraps the attendance-summary listing. The flag tells clients the
// requested month is still running, so its sheet is intentionally empty
// rather than missing data.
type MonthSheet struct {
	IsCurrentMonth bool                `json:"isCurrentMonth"`
	Employees      []AttendanceSummary `json:"employees"`
}

// AttendanceSummary is the per-user month breakdown payroll is computed from.
type AttendanceSummary struct {
	UserID        string  `json:"userId"`
	Name          string  `json:"name"`
	Designation   string  `json:"designation"`
	Month         string  `json:"month"`
	TotalDays     float64 `json:"totalDays"`
	WeekendDays   int     `json:"weekendDays"`
	HolidayDays   int     `json:"holidayDays"`
	PresentDays   int     `json:"presentDays"`
	HalfDays      int     `json:"halfDays"`
	OnLeaveDays   int     `json:"onLeaveDays"`
	LWPDays       float64 `json:"lwpDays"`
	PayableDays   float64 `json:"payableDays"`
	GrossMonthly  float64 `json:"grossMonthly"`
	PayableAmount float64 `json:"payableAmount"`
}

type Record struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Month         string    `json:"month"`
	TotalDays     float64   `json:"totalDays"`
	LWPDays       float64   `json:"lwpDays"`
	PayableDays   float64   `json:"payableDays"`
	GrossMonthly  float64   `json:"grossMonthly"`
	PayableAmount float64   `json:"payableAmount"`
	SavedBy       string    `json:"savedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Ratings holds the four manager-assigned scores, each on a 0 to 20 scale.
type Ratings struct {
	Discipline    float64 `json:"discipline" validate:"gte=0,lte=20"`
	WorkQuality   float64 `json:"workQuality" validate:"gte=0,lte=20"`
	Initiative    float64 `json:"initiative" validate:"gte=0,lte=20"`
	Collaboration float64 `json:"collaboration" validate:"gte=0,lte=20"`
}

type VariableRecord struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Month         string    `json:"month"`
	Ratings       Ratings   `json:"ratings"`
	PeerAverage   float64   `json:"peerAverage"`
	TotalScore    float64   `json:"totalScore"`
	PayoutPercent float64   `json:"payoutPercent"`
	BaseAmount    float64   `json:"baseAmount"`
	PayoutAmount  float64   `json:"payoutAmount"`
	SavedBy       string    `json:"savedBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PeerRating struct {
	ID        string    `json:"id"`
	RaterID   string    `json:"raterId"`
	RateeID   string    `json:"rateeId"`
	Month     string    `json:"month"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// PeerAverage is one employee's mean peer score for a month.
type PeerAverage struct {
	UserID  string  `json:"userId"`
	Name    string  `json:"name"`
	Month   string  `json:"month"`
	Average float64 `json:"average"`
	Raters  int     `json:"raters"`
}
