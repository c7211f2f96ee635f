package leave

import (
	"time"

	"peopleops/internal/domain/directory"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeCasual     = "Casual Leave"
	TypeOnDuty     = "On Duty Leave"
	TypeWithoutPay = "Leave Without Pay"
)

type Request struct {
	ID             string                  `json:"id"`
	UserID         string                  `json:"userId"`
	UserName       string                  `json:"userName,omitempty"`
	LeaveType      string                  `json:"leaveType"`
	StartDate      time.Time               `json:"startDate"`
	EndDate        time.Time               `json:"endDate"`
	NumberOfDays   float64                 `json:"numberOfDays"`
	Reason         string                  `json:"reason"`
	ContactNo      string                  `json:"contactNo,omitempty"`
	PersonInCharge string                  `json:"personInCharge,omitempty"`
	Status         string                  `json:"status"`
	ApproverID     *string                 `json:"reportingTo,omitempty"`
	DecidedBy      *string                 `json:"decidedBy,omitempty"`
	DecidedAt      *time.Time              `json:"decidedAt,omitempty"`
	DecisionNote   string                  `json:"decisionNote,omitempty"`
	BalanceBefore  directory.LeaveBalance  `json:"balanceBefore"`
	BalanceAfter   *directory.LeaveBalance `json:"balanceAfter,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
}
