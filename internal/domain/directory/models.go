package directory

import "time"

type LeaveBalance struct {
	CasualLeave     float64 `json:"casualLeave"`
	OnDutyLeave     float64 `json:"onDutyLeave"`
	LeaveWithoutPay float64 `json:"leaveWithoutPay"`
}

type Employment struct {
	Designation       string     `json:"designation"`
	DateOfJoining     *time.Time `json:"dateOfJoining,omitempty"`
	GrossRemuneration float64    `json:"grossRemuneration"`
}

type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Role         string       `json:"role"`
	Employment   Employment   `json:"employment"`
	LeaveBalance LeaveBalance `json:"leaveBalance"`
	IsActive     bool         `json:"isActive"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// DisplayName prefers the profile name and falls back to the username.
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}
