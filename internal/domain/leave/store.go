package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peopleops/internal/domain/directory"
)

// Store persists leave requests. The workflow rules live in Service; keeping
// them apart lets the approval path run against a fake store.
type Store interface {
	GetRequest(ctx context.Context, id string) (Request, error)
	ListMine(ctx context.Context, userID, status string, year int) ([]Request, error)
	ListByStatus(ctx context.Context, status string) ([]Request, error)
	ListPending(ctx context.Context) ([]Request, error)
	ListPendingFor(ctx context.Context, approverID string) ([]Request, error)
	HasOverlappingPending(ctx context.Context, userID string, start, end time.Time) (bool, error)
	Insert(ctx context.Context, userID string, in ApplyInput, start, end time.Time, days float64, before directory.LeaveBalance) (string, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	MarkApproved(ctx context.Context, tx pgx.Tx, id, decidedBy, note string, after directory.LeaveBalance) (bool, error)
	UpdateBalances(ctx context.Context, tx pgx.Tx, userID string, b directory.LeaveBalance) error
	MarkRejected(ctx context.Context, id, decidedBy, note string) (bool, error)
}

type PgStore struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{DB: db}
}

const requestColumns = `
    l.id, l.user_id,
    TRIM(CONCAT(u.first_name, ' ', u.last_name)),
    l.leave_type, l.start_date, l.end_date, l.number_of_days,
    l.reason, l.contact_no, l.person_in_charge,
    l.status, l.approver_id, l.decided_by, l.decided_at, l.decision_note,
    l.balance_before_casual, l.balance_before_on_duty, l.balance_before_lwp,
    l.balance_after_casual, l.balance_after_on_duty, l.balance_after_lwp,
    l.created_at
`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	var afterCasual, afterOnDuty, afterLWP *float64
	err := row.Scan(
		&r.ID, &r.UserID, &r.UserName,
		&r.LeaveType, &r.StartDate, &r.EndDate, &r.NumberOfDays,
		&r.Reason, &r.ContactNo, &r.PersonInCharge,
		&r.Status, &r.ApproverID, &r.DecidedBy, &r.DecidedAt, &r.DecisionNote,
		&r.BalanceBefore.CasualLeave, &r.BalanceBefore.OnDutyLeave, &r.BalanceBefore.LeaveWithoutPay,
		&afterCasual, &afterOnDuty, &afterLWP,
		&r.CreatedAt,
	)
	if err != nil {
		return Request{}, err
	}
	if afterCasual != nil {
		r.BalanceAfter = &directory.LeaveBalance{
			CasualLeave:     *afterCasual,
			OnDutyLeave:     *afterOnDuty,
			LeaveWithoutPay: *afterLWP,
		}
	}
	return r, nil
}

func (s *PgStore) GetRequest(ctx context.Context, id string) (Request, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leaves l JOIN users u ON u.id = l.user_id
    WHERE l.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return r, err
}

func (s *PgStore) ListMine(ctx context.Context, userID, status string, year int) ([]Request, error) {
	return s.list(ctx, `l.user_id = $1
      AND ($2::text = '' OR l.status = $2)
      AND ($3::int = 0 OR EXTRACT(YEAR FROM l.start_date) = $3)`, userID, status, year)
}

func (s *PgStore) ListByStatus(ctx context.Context, status string) ([]Request, error) {
	return s.list(ctx, "($1::text = '' OR l.status = $1)", status)
}

func (s *PgStore) ListPending(ctx context.Context) ([]Request, error) {
	return s.list(ctx, "l.status = 'pending'")
}

func (s *PgStore) ListPendingFor(ctx context.Context, approverID string) ([]Request, error) {
	return s.list(ctx, "l.status = 'pending' AND l.approver_id = $1", approverID)
}

func (s *PgStore) list(ctx context.Context, where string, args ...any) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leaves l JOIN users u ON u.id = l.user_id
    WHERE `+where+`
    ORDER BY l.created_at DESC
  `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PgStore) HasOverlappingPending(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	var overlapping bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM leaves
      WHERE user_id = $1 AND status = 'pending'
        AND start_date <= $3 AND end_date >= $2
    )
  `, userID, start, end).Scan(&overlapping)
	return overlapping, err
}

func (s *PgStore) Insert(ctx context.Context, userID string, in ApplyInput, start, end time.Time, days float64, before directory.LeaveBalance) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leaves (user_id, leave_type, start_date, end_date, number_of_days,
                        reason, contact_no, person_in_charge, status, approver_id,
                        balance_before_casual, balance_before_on_duty, balance_before_lwp)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'pending',$9,$10,$11,$12)
    RETURNING id
  `, userID, in.LeaveType, start, end, days, in.Reason, in.ContactNo, in.PersonInCharge, in.ReportingTo,
		before.CasualLeave, before.OnDutyLeave, before.LeaveWithoutPay).Scan(&id)
	return id, err
}

func (s *PgStore) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.DB.Begin(ctx)
}

// MarkApproved flips a pending request to approved. The status guard in the
// UPDATE makes concurrent decisions race-safe: only one caller sees a row
// flip, reported through the bool.
func (s *PgStore) MarkApproved(ctx context.Context, tx pgx.Tx, id, decidedBy, note string, after directory.LeaveBalance) (bool, error) {
	tag, err := tx.Exec(ctx, `
    UPDATE leaves
    SET status = 'approved', decided_by = $1, decided_at = now(), decision_note = $2,
        balance_after_casual = $3, balance_after_on_duty = $4, balance_after_lwp = $5
    WHERE id = $6 AND status = 'pending'
  `, decidedBy, note, after.CasualLeave, after.OnDutyLeave, after.LeaveWithoutPay, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PgStore) UpdateBalances(ctx context.Context, tx pgx.Tx, userID string, b directory.LeaveBalance) error {
	_, err := tx.Exec(ctx, `
    UPDATE users
    SET casual_leave = $1, on_duty_leave = $2, leave_without_pay = $3
    WHERE id = $4
  `, b.CasualLeave, b.OnDutyLeave, b.LeaveWithoutPay, userID)
	return err
}

func (s *PgStore) MarkRejected(ctx context.Context, id, decidedBy, note string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leaves
    SET status = 'rejected', decided_by = $1, decided_at = now(), decision_note = $2
    WHERE id = $3 AND status = 'pending'
  `, decidedBy, note, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
