package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"peopleops/internal/auth"
	"peopleops/internal/domain/attendance"
	"peopleops/internal/domain/directory"
	"peopleops/internal/domain/rbac"
)

var (
	ErrNotFound        = errors.New("leave request not found")
	ErrForbidden       = errors.New("not allowed to decide this request")
	ErrAlreadyDecided  = errors.New("request already decided")
	ErrOverlapPending  = errors.New("overlapping leave request already pending")
	ErrUnknownApprover = errors.New("reporting-to user not found")
)

// Directory is the slice of the user store the workflow needs.
type Directory interface {
	GetUser(ctx context.Context, userID string) (directory.User, error)
	LeaveBalances(ctx context.Context, userID string) (directory.LeaveBalance, error)
}

type Service struct {
	Store      Store
	Directory  Directory
	Attendance *attendance.Service
	Logger     *slog.Logger
}

func NewService(store Store, dir Directory, att *attendance.Service, logger *slog.Logger) *Service {
	return &Service{Store: store, Directory: dir, Attendance: att, Logger: logger}
}

type ApplyInput struct {
	LeaveType      string `json:"leaveType" validate:"required"`
	StartDate      string `json:"startDate" validate:"required"`
	EndDate        string `json:"endDate" validate:"required"`
	Reason         string `json:"reason" validate:"required"`
	ContactNo      string `json:"contactNo" validate:"required"`
	PersonInCharge string `json:"personInCharge" validate:"required"`
	ReportingTo    string `json:"reportingTo" validate:"required,uuid"`
}

func (s *Service) Apply(ctx context.Context, userID string, in ApplyInput) (Request, error) {
	if !ValidType(in.LeaveType) {
		return Request{}, ErrUnknownLeaveType
	}
	if _, err := s.Directory.GetUser(ctx, in.ReportingTo); err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return Request{}, ErrUnknownApprover
		}
		return Request{}, fmt.Errorf("loading approver: %w", err)
	}

	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return Request{}, fmt.Errorf("parsing startDate: %w", err)
	}
	end, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		return Request{}, fmt.Errorf("parsing endDate: %w", err)
	}

	days, err := DaysInclusive(start, end)
	if err != nil {
		return Request{}, err
	}

	balance, err := s.Directory.LeaveBalances(ctx, userID)
	if err != nil {
		return Request{}, fmt.Errorf("loading balances: %w", err)
	}
	// Surface insufficient balance at apply time rather than letting the
	// approver discover it.
	if _, err := ApplyBalance(balance, in.LeaveType, days); err != nil {
		return Request{}, err
	}

	overlapping, err := s.Store.HasOverlappingPending(ctx, userID, start, end)
	if err != nil {
		return Request{}, fmt.Errorf("checking overlap: %w", err)
	}
	if overlapping {
		return Request{}, ErrOverlapPending
	}

	id, err := s.Store.Insert(ctx, userID, in, start, end, days, balance)
	if err != nil {
		return Request{}, fmt.Errorf("inserting leave request: %w", err)
	}

	s.Logger.Info("leave applied",
		slog.String("leave_id", id),
		slog.String("user_id", userID),
		slog.String("type", in.LeaveType),
		slog.Float64("days", days))
	return s.Store.GetRequest(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Request, error) {
	return s.Store.GetRequest(ctx, id)
}

// MyRequests filters one user's applications by status and the year their
// leave starts in. Zero values mean no filter.
func (s *Service) MyRequests(ctx context.Context, userID, status string, year int) ([]Request, error) {
	return s.Store.ListMine(ctx, userID, status, year)
}

func (s *Service) AllRequests(ctx context.Context, status string) ([]Request, error) {
	return s.Store.ListByStatus(ctx, status)
}

// Balances reads the requester's live counters, shipped alongside their
// application list.
func (s *Service) Balances(ctx context.Context, userID string) (directory.LeaveBalance, error) {
	return s.Directory.LeaveBalances(ctx, userID)
}

// PendingFor lists pending requests the caller may decide: everything for
// admin and CEO, otherwise only requests naming them as approver.
func (s *Service) PendingFor(ctx context.Context, actor auth.UserContext) ([]Request, error) {
	if rbac.IsAdminOrCEO(actor.Role) {
		return s.Store.ListPending(ctx)
	}
	return s.Store.ListPendingFor(ctx, actor.UserID)
}

// canDecide restricts decisions to admin, the CEO and the request's
// designated approver. Holding leave.approve qualifies a user to be named an
// approver; it does not grant decisions on requests naming someone else.
func canDecide(actor auth.UserContext, req Request) bool {
	if rbac.IsAdminOrCEO(actor.Role) {
		return true
	}
	return req.ApproverID != nil && *req.ApproverID == actor.UserID
}

// Approve flips a pending request to approved, deducts the balances once and
// back-fills attendance for each day of the span, all inside one transaction.
// MarkApproved's conditional update keeps concurrent decisions race-safe.
func (s *Service) Approve(ctx context.Context, actor auth.UserContext, id, note string) (Request, error) {
	req, err := s.Store.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if !canDecide(actor, req) {
		return Request{}, ErrForbidden
	}

	balance, err := s.Directory.LeaveBalances(ctx, req.UserID)
	if err != nil {
		return Request{}, fmt.Errorf("loading balances: %w", err)
	}
	after, err := ApplyBalance(balance, req.LeaveType, req.NumberOfDays)
	if err != nil {
		return Request{}, err
	}

	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return Request{}, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	decided, err := s.Store.MarkApproved(ctx, tx, id, actor.UserID, note, after)
	if err != nil {
		return Request{}, fmt.Errorf("approving request: %w", err)
	}
	if !decided {
		return Request{}, ErrAlreadyDecided
	}

	if err := s.Store.UpdateBalances(ctx, tx, req.UserID, after); err != nil {
		return Request{}, fmt.Errorf("updating balances: %w", err)
	}

	if err := s.Attendance.MarkOnLeave(ctx, tx, req.UserID, req.StartDate, req.EndDate, req.LeaveType); err != nil {
		return Request{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Request{}, fmt.Errorf("committing approval: %w", err)
	}

	s.Logger.Info("leave approved",
		slog.String("leave_id", id),
		slog.String("decided_by", actor.UserID))
	return s.Store.GetRequest(ctx, id)
}

func (s *Service) Reject(ctx context.Context, actor auth.UserContext, id, note string) (Request, error) {
	req, err := s.Store.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if !canDecide(actor, req) {
		return Request{}, ErrForbidden
	}

	decided, err := s.Store.MarkRejected(ctx, id, actor.UserID, note)
	if err != nil {
		return Request{}, fmt.Errorf("rejecting request: %w", err)
	}
	if !decided {
		return Request{}, ErrAlreadyDecided
	}

	s.Logger.Info("leave rejected",
		slog.String("leave_id", id),
		slog.String("decided_by", actor.UserID))
	return s.Store.GetRequest(ctx, id)
}
