package remuneration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"peopleops/internal/auth"
	"peopleops/internal/domain/attendance"
	"peopleops/internal/domain/directory"
	"peopleops/internal/domain/rbac"
)

var (
	ErrNoSalaryAccess = errors.New("no salary access")
	ErrNotFound       = errors.New("remuneration record not found")
	ErrSelfRating     = errors.New("cannot peer-rate yourself")
)

// DB is the slice of pgxpool.Pool the service uses. Tests substitute it.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Service struct {
	DB         DB
	Directory  *directory.Store
	Roles      *rbac.Service
	Attendance *attendance.Service
	Logger     *slog.Logger

	Now func() time.Time
}

func NewService(db DB, dir *directory.Store, roles *rbac.Service, att *attendance.Service, logger *slog.Logger) *Service {
	return &Service{
		DB:         db,
		Directory:  dir,
		Roles:      roles,
		Attendance: att,
		Logger:     logger,
		Now:        time.Now,
	}
}

func (s *Service) holidaysBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	rows, err := s.DB.Query(ctx, "SELECT day FROM holidays WHERE day BETWEEN $1 AND $2", from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (s *Service) lwpDays(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	var days float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(
      LEAST(end_date, $3::date) - GREATEST(start_date, $2::date) + 1
    ), 0)
    FROM leaves
    WHERE user_id = $1 AND status = 'approved' AND leave_type = 'Leave Without Pay'
      AND start_date <= $3 AND end_date >= $2
  `, userID, from, to).Scan(&days)
	return days, err
}

// AttendanceSummaries builds the month's payroll sheet for every active user
// outside the oversight roles. Asking for a month that is still running
// yields an empty flagged sheet since its attendance is still open.
func (s *Service) AttendanceSummaries(ctx context.Context, month string) (MonthSheet, error) {
	monthStart, monthEnd, err := ParseMonth(month)
	if err != nil {
		return MonthSheet{}, err
	}
	if !monthEnd.Before(attendance.DayOf(s.Now())) {
		return MonthSheet{IsCurrentMonth: true, Employees: []AttendanceSummary{}}, nil
	}

	users, err := s.Directory.ListPayrollUsers(ctx, rbac.OversightRoles)
	if err != nil {
		return MonthSheet{}, fmt.Errorf("listing payroll users: %w", err)
	}

	holidays, err := s.holidaysBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return MonthSheet{}, fmt.Errorf("loading holidays: %w", err)
	}

	summaries := make([]AttendanceSummary, 0, len(users))
	for _, u := range users {
		from, to, ok := EffectiveWindow(monthStart, monthEnd, u.Employment.DateOfJoining)
		if !ok {
			continue
		}

		att, err := s.Attendance.Summary(ctx, u.ID, from, to)
		if err != nil {
			return MonthSheet{}, fmt.Errorf("summarizing attendance for %s: %w", u.ID, err)
		}
		lwp, err := s.lwpDays(ctx, u.ID, from, to)
		if err != nil {
			return MonthSheet{}, fmt.Errorf("summing lwp days for %s: %w", u.ID, err)
		}
		// Recorded absences carry no approved leave, so payroll treats them
		// as leave without pay.
		lwp += float64(att.Absent)

		total := TotalDays(from, to)
		payable := total - lwp
		if payable < 0 {
			payable = 0
		}

		summaries = append(summaries, AttendanceSummary{
			UserID:        u.ID,
			Name:          u.DisplayName(),
			Designation:   u.Employment.Designation,
			Month:         month,
			TotalDays:     total,
			WeekendDays:   CountWeekends(from, to),
			HolidayDays:   CountWeekdayHolidays(from, to, holidays),
			PresentDays:   att.Present + att.Late,
			HalfDays:      att.HalfDays,
			OnLeaveDays:   att.OnLeave,
			LWPDays:       lwp,
			PayableDays:   payable,
			GrossMonthly:  u.Employment.GrossRemuneration,
			PayableAmount: ProRate(u.Employment.GrossRemuneration, payable, total),
		})
	}
	return MonthSheet{Employees: summaries}, nil
}

type SaveInput struct {
	UserID        string  `json:"userId" validate:"required,uuid"`
	Month         string  `json:"month" validate:"required"`
	TotalDays     float64 `json:"totalDays" validate:"gt=0"`
	LWPDays       float64 `json:"lwpDays" validate:"gte=0"`
	GrossMonthly  float64 `json:"grossMonthly" validate:"gte=0"`
	PayableAmount float64 `json:"payableAmount" validate:"gte=0"`
}

func (s *Service) Save(ctx context.Context, actor auth.UserContext, in SaveInput) (Record, error) {
	if _, _, err := ParseMonth(in.Month); err != nil {
		return Record{}, err
	}

	payable := in.TotalDays - in.LWPDays
	if payable < 0 {
		payable = 0
	}

	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO remunerations (user_id, month, total_days, lwp_days, payable_days,
                               gross_monthly, payable_amount, saved_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    ON CONFLICT (user_id, month) DO UPDATE
    SET total_days = EXCLUDED.total_days,
        lwp_days = EXCLUDED.lwp_days,
        payable_days = EXCLUDED.payable_days,
        gross_monthly = EXCLUDED.gross_monthly,
        payable_amount = EXCLUDED.payable_amount,
        saved_by = EXCLUDED.saved_by,
        updated_at = now()
    RETURNING id
  `, in.UserID, in.Month, in.TotalDays, in.LWPDays, payable,
		in.GrossMonthly, in.PayableAmount, actor.UserID).Scan(&id)
	if err != nil {
		return Record{}, fmt.Errorf("saving remuneration: %w", err)
	}

	s.Logger.Info("remuneration saved",
		slog.String("user_id", in.UserID),
		slog.String("month", in.Month),
		slog.String("saved_by", actor.UserID))
	return s.get(ctx, id)
}

const recordColumns = `
    id, user_id, month, total_days, lwp_days, payable_days,
    gross_monthly, payable_amount, saved_by, created_at, updated_at
`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(
		&r.ID, &r.UserID, &r.Month, &r.TotalDays, &r.LWPDays, &r.PayableDays,
		&r.GrossMonthly, &r.PayableAmount, &r.SavedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (s *Service) get(ctx context.Context, id string) (Record, error) {
	r, err := scanRecord(s.DB.QueryRow(ctx, "SELECT "+recordColumns+" FROM remunerations WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

func (s *Service) ForMonth(ctx context.Context, month string) ([]Record, error) {
	if _, _, err := ParseMonth(month); err != nil {
		return nil, err
	}
	return s.listVisible(ctx, "r.month = $1", month)
}

const payrollColumns = `
    r.id, r.user_id, r.month, r.total_days, r.lwp_days, r.payable_days,
    r.gross_monthly, r.payable_amount, r.saved_by, r.created_at, r.updated_at
`

// listVisible lists payroll rows minus oversight-role employees, the same
// exclusion the attendance sheet applies.
func (s *Service) listVisible(ctx context.Context, where string, args ...any) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+payrollColumns+`, u.role
    FROM remunerations r JOIN users u ON u.id = r.user_id
    WHERE `+where+`
    ORDER BY r.created_at
  `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var role string
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.Month, &r.TotalDays, &r.LWPDays, &r.PayableDays,
			&r.GrossMonthly, &r.PayableAmount, &r.SavedBy, &r.CreatedAt, &r.UpdatedAt,
			&role,
		); err != nil {
			return nil, err
		}
		if rbac.IsOversightRole(role) {
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Salary resolves which slice of the payroll the caller may read. Roles with
// salary.viewAll see every record of the month, roles with only
// salary.viewOwn see their own rows, everyone else is refused. Oversight-role
// employees are kept out of the listings either way.
func (s *Service) Salary(ctx context.Context, actor auth.UserContext, month string) ([]Record, error) {
	if _, _, err := ParseMonth(month); err != nil {
		return nil, err
	}

	viewAll, err := s.Roles.HasFeature(ctx, actor.Role, rbac.FeatureSalaryViewAll)
	if err != nil {
		return nil, fmt.Errorf("resolving salary access: %w", err)
	}
	if viewAll {
		return s.ForMonth(ctx, month)
	}

	viewOwn, err := s.Roles.HasFeature(ctx, actor.Role, rbac.FeatureSalaryViewOwn)
	if err != nil {
		return nil, fmt.Errorf("resolving salary access: %w", err)
	}
	if !viewOwn {
		return nil, ErrNoSalaryAccess
	}
	return s.listVisible(ctx, "r.month = $1 AND r.user_id = $2", month, actor.UserID)
}

type PeerRatingInput struct {
	RateeID string  `json:"rateeId" validate:"required,uuid"`
	Month   string  `json:"month" validate:"required"`
	Score   float64 `json:"score" validate:"gte=0,lte=20"`
}

func (s *Service) SubmitPeerRating(ctx context.Context, raterID string, in PeerRatingInput) error {
	if raterID == in.RateeID {
		return ErrSelfRating
	}
	if _, _, err := ParseMonth(in.Month); err != nil {
		return err
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO peer_ratings (rater_id, ratee_id, month, score)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (rater_id, ratee_id, month) DO UPDATE SET score = EXCLUDED.score
  `, raterID, in.RateeID, in.Month, in.Score)
	if err != nil {
		return fmt.Errorf("saving peer rating: %w", err)
	}
	return nil
}

// PeerAverages lists every rated employee's mean peer score for the month.
func (s *Service) PeerAverages(ctx context.Context, month string) ([]PeerAverage, error) {
	if _, _, err := ParseMonth(month); err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx, `
    SELECT p.ratee_id,
           TRIM(CONCAT(u.first_name, ' ', u.last_name)),
           ROUND(AVG(p.score)::numeric, 2),
           COUNT(*)
    FROM peer_ratings p
    JOIN users u ON u.id = p.ratee_id
    WHERE p.month = $1
    GROUP BY p.ratee_id, u.first_name, u.last_name
    ORDER BY 2
  `, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PeerAverage
	for rows.Next() {
		avg := PeerAverage{Month: month}
		if err := rows.Scan(&avg.UserID, &avg.Name, &avg.Average, &avg.Raters); err != nil {
			return nil, err
		}
		out = append(out, avg)
	}
	return out, rows.Err()
}

func (s *Service) peerAverage(ctx context.Context, rateeID, month string) (float64, error) {
	var avg float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(AVG(score), 0) FROM peer_ratings
    WHERE ratee_id = $1 AND month = $2
  `, rateeID, month).Scan(&avg)
	return avg, err
}

type VariableInput struct {
	UserID     string  `json:"userId" validate:"required,uuid"`
	Month      string  `json:"month" validate:"required"`
	Ratings    Ratings `json:"ratings"`
	BaseAmount float64 `json:"baseAmount" validate:"gte=0"`
}

// SaveVariable computes the month's variable payout from the manager ratings
// plus the accumulated peer average and upserts the result.
func (s *Service) SaveVariable(ctx context.Context, actor auth.UserContext, in VariableInput) (VariableRecord, error) {
	if _, _, err := ParseMonth(in.Month); err != nil {
		return VariableRecord{}, err
	}

	peerAvg, err := s.peerAverage(ctx, in.UserID, in.Month)
	if err != nil {
		return VariableRecord{}, fmt.Errorf("averaging peer ratings: %w", err)
	}

	score := TotalScore(in.Ratings, peerAvg)
	percent := PayoutPercent(score)
	amount := round2(in.BaseAmount * percent / 100)

	var rec VariableRecord
	err = s.DB.QueryRow(ctx, `
    INSERT INTO variable_remunerations (user_id, month,
        rating_discipline, rating_work_quality, rating_initiative, rating_collaboration,
        peer_average, total_score, payout_percent, base_amount, payout_amount, saved_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    ON CONFLICT (user_id, month) DO UPDATE
    SET rating_discipline = EXCLUDED.rating_discipline,
        rating_work_quality = EXCLUDED.rating_work_quality,
        rating_initiative = EXCLUDED.rating_initiative,
        rating_collaboration = EXCLUDED.rating_collaboration,
        peer_average = EXCLUDED.peer_average,
        total_score = EXCLUDED.total_score,
        payout_percent = EXCLUDED.payout_percent,
        base_amount = EXCLUDED.base_amount,
        payout_amount = EXCLUDED.payout_amount,
        saved_by = EXCLUDED.saved_by
    RETURNING id, user_id, month,
        rating_discipline, rating_work_quality, rating_initiative, rating_collaboration,
        peer_average, total_score, payout_percent, base_amount, payout_amount, saved_by, created_at
  `, in.UserID, in.Month,
		in.Ratings.Discipline, in.Ratings.WorkQuality, in.Ratings.Initiative, in.Ratings.Collaboration,
		peerAvg, score, percent, in.BaseAmount, amount, actor.UserID).Scan(
		&rec.ID, &rec.UserID, &rec.Month,
		&rec.Ratings.Discipline, &rec.Ratings.WorkQuality, &rec.Ratings.Initiative, &rec.Ratings.Collaboration,
		&rec.PeerAverage, &rec.TotalScore, &rec.PayoutPercent, &rec.BaseAmount, &rec.PayoutAmount, &rec.SavedBy, &rec.CreatedAt)
	if err != nil {
		return VariableRecord{}, fmt.Errorf("saving variable remuneration: %w", err)
	}

	s.Logger.Info("variable remuneration saved",
		slog.String("user_id", in.UserID),
		slog.String("month", in.Month),
		slog.Float64("payout_percent", percent))
	return rec, nil
}

func (s *Service) VariableForMonth(ctx context.Context, month string) ([]VariableRecord, error) {
	if _, _, err := ParseMonth(month); err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, month,
        rating_discipline, rating_work_quality, rating_initiative, rating_collaboration,
        peer_average, total_score, payout_percent, base_amount, payout_amount, saved_by, created_at
    FROM variable_remunerations WHERE month = $1 ORDER BY created_at
  `, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VariableRecord
	for rows.Next() {
		var rec VariableRecord
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Month,
			&rec.Ratings.Discipline, &rec.Ratings.WorkQuality, &rec.Ratings.Initiative, &rec.Ratings.Collaboration,
			&rec.PeerAverage, &rec.TotalScore, &rec.PayoutPercent, &rec.BaseAmount, &rec.PayoutAmount, &rec.SavedBy, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
