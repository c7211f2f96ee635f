package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

var (
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("no open check-in for today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
)

// DB is the slice of pgxpool.Pool the service reads and writes through.
// Tests substitute it.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Service struct {
	DB               DB
	CutoffHour       int
	HalfDayThreshold float64
	Logger           *slog.Logger

	// Now is swapped in tests; defaults to time.Now.
	Now func() time.Time
}

func NewService(db DB, cutoffHour int, halfDayThreshold float64, logger *slog.Logger) *Service {
	return &Service{
		DB:               db,
		CutoffHour:       cutoffHour,
		HalfDayThreshold: halfDayThreshold,
		Logger:           logger,
		Now:              time.Now,
	}
}

const recordColumns = `
    id, user_id, day, check_in_time, check_in_ip, check_out_time, check_out_ip,
    status, is_late, late_by_minutes, working_hours, remarks, created_at
`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(
		&r.ID, &r.UserID, &r.Day, &r.CheckInTime, &r.CheckInIP, &r.CheckOutTime, &r.CheckOutIP,
		&r.Status, &r.IsLate, &r.LateBy, &r.WorkingHours, &r.Remarks, &r.CreatedAt,
	)
	return r, err
}

func (s *Service) CheckIn(ctx context.Context, userID, clientIP string) (Record, error) {
	now := s.Now()
	day := DayOf(now)
	isLate, lateBy := Lateness(now, s.CutoffHour)

	// An existing row only blocks the check-in when it already carries one.
	// Back-filled on-leave rows have no check-in time, so showing up anyway
	// reclaims the day as present or late.
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance (user_id, day, check_in_time, check_in_ip, status, is_late, late_by_minutes)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    ON CONFLICT (user_id, day) DO UPDATE
    SET check_in_time = EXCLUDED.check_in_time,
        check_in_ip = EXCLUDED.check_in_ip,
        status = EXCLUDED.status,
        is_late = EXCLUDED.is_late,
        late_by_minutes = EXCLUDED.late_by_minutes,
        remarks = ''
    WHERE attendance.check_in_time IS NULL
    RETURNING id
  `, userID, day, now, clientIP, CheckInStatus(isLate), isLate, lateBy).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrAlreadyCheckedIn
	}
	if err != nil {
		return Record{}, fmt.Errorf("inserting check-in: %w", err)
	}

	s.Logger.Info("attendance check-in",
		slog.String("user_id", userID),
		slog.Bool("late", isLate),
		slog.Int("late_by_minutes", lateBy))

	return scanRecord(s.DB.QueryRow(ctx, "SELECT "+recordColumns+" FROM attendance WHERE id = $1", id))
}

func (s *Service) CheckOut(ctx context.Context, userID, clientIP string) (Record, error) {
	now := s.Now()
	day := DayOf(now)

	var checkIn time.Time
	var current string
	var checkedOut bool
	err := s.DB.QueryRow(ctx, `
    SELECT check_in_time, status, check_out_time IS NOT NULL
    FROM attendance
    WHERE user_id = $1 AND day = $2 AND check_in_time IS NOT NULL
  `, userID, day).Scan(&checkIn, &current, &checkedOut)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotCheckedIn
	}
	if err != nil {
		return Record{}, fmt.Errorf("loading today's record: %w", err)
	}
	if checkedOut {
		return Record{}, ErrAlreadyCheckedOut
	}

	hours := WorkingHours(checkIn, now)
	status := CheckoutStatus(current, hours, s.HalfDayThreshold)

	row := s.DB.QueryRow(ctx, `
    UPDATE attendance
    SET check_out_time = $1, check_out_ip = $2, working_hours = $3, status = $4
    WHERE user_id = $5 AND day = $6
    RETURNING `+recordColumns, now, clientIP, hours, status, userID, day)
	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("closing attendance record: %w", err)
	}

	s.Logger.Info("attendance check-out",
		slog.String("user_id", userID),
		slog.Float64("working_hours", hours),
		slog.String("status", status))
	return rec, nil
}

// MonthRecords lists one user's rows inside a date window, newest first.
func (s *Service) MonthRecords(ctx context.Context, userID string, from, to time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM attendance
    WHERE user_id = $1 AND day BETWEEN $2 AND $3
    ORDER BY day DESC, created_at DESC
  `, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// TodayFor returns the caller's row for the current day, or nil when they have
// not checked in and no leave was back-filled.
func (s *Service) TodayFor(ctx context.Context, userID string) (*Record, error) {
	r, err := scanRecord(s.DB.QueryRow(ctx,
		"SELECT "+recordColumns+" FROM attendance WHERE user_id = $1 AND day = $2",
		userID, DayOf(s.Now())))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DaySheet lists every active user with their record for the given day. Users
// without a row come back with a synthesized absent status.
func (s *Service) DaySheet(ctx context.Context, day time.Time) ([]DaySummary, error) {
	day = DayOf(day)

	rows, err := s.DB.Query(ctx, `
    SELECT u.id,
           TRIM(CONCAT(u.first_name, ' ', u.last_name)),
           u.username,
           u.designation,
           u.role,
           a.status, a.check_in_time, a.check_out_time, a.is_late, a.working_hours
    FROM users u
    LEFT JOIN attendance a ON a.user_id = u.id AND a.day = $1
    WHERE u.is_active
    ORDER BY a.check_in_time NULLS LAST, u.first_name, u.last_name
  `, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DaySummary
	for rows.Next() {
		var d DaySummary
		var username string
		var status *string
		var isLate *bool
		var hours *float64
		if err := rows.Scan(&d.UserID, &d.Name, &username, &d.Designation, &d.Role, &status, &d.CheckIn, &d.CheckOut, &isLate, &hours); err != nil {
			return nil, err
		}
		if d.Name == "" {
			d.Name = username
		}
		d.Status = StatusAbsent
		if status != nil {
			d.Status = *status
		}
		if isLate != nil {
			d.IsLate = *isLate
		}
		if hours != nil {
			d.WorkingHrs = *hours
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// MarkOnLeave upserts one on-leave row per day in [start, end]. Existing rows
// for those days are overwritten so an approved leave wins over a stray
// check-in.
func (s *Service) MarkOnLeave(ctx context.Context, tx pgx.Tx, userID string, start, end time.Time, remarks string) error {
	for day := DayOf(start); !day.After(DayOf(end)); day = day.AddDate(0, 0, 1) {
		_, err := tx.Exec(ctx, `
      INSERT INTO attendance (user_id, day, status, remarks)
      VALUES ($1, $2, $3, $4)
      ON CONFLICT (user_id, day) DO UPDATE
      SET status = EXCLUDED.status,
          remarks = EXCLUDED.remarks,
          check_in_time = NULL,
          check_out_time = NULL,
          is_late = false,
          late_by_minutes = 0,
          working_hours = 0
    `, userID, day, StatusOnLeave, remarks)
		if err != nil {
			return fmt.Errorf("marking %s on leave: %w", day.Format("2006-01-02"), err)
		}
	}
	return nil
}

// MonthSummary aggregates one user's statuses inside a date window. Used by
// payroll to derive payable days and by the month listing's stats block.
type MonthSummary struct {
	Present    int     `json:"present"`
	Late       int     `json:"late"`
	HalfDays   int     `json:"halfDays"`
	OnLeave    int     `json:"onLeave"`
	Absent     int     `json:"absent"`
	TotalHours float64 `json:"totalWorkingHours"`
}

func (s *Service) Summary(ctx context.Context, userID string, from, to time.Time) (MonthSummary, error) {
	var m MonthSummary
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(*) FILTER (WHERE status = 'present'),
           COUNT(*) FILTER (WHERE status = 'late'),
           COUNT(*) FILTER (WHERE status = 'half-day'),
           COUNT(*) FILTER (WHERE status = 'on-leave'),
           COUNT(*) FILTER (WHERE status = 'absent'),
           COALESCE(SUM(working_hours), 0)
    FROM attendance
    WHERE user_id = $1 AND day BETWEEN $2 AND $3
  `, userID, from, to).Scan(&m.Present, &m.Late, &m.HalfDays, &m.OnLeave, &m.Absent, &m.TotalHours)
	return m, err
}
