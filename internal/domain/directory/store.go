package directory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = `
    id, username, email, first_name, last_name, role,
    designation, date_of_joining, gross_remuneration,
    casual_leave, on_duty_leave, leave_without_pay,
    is_active, created_at
`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Role,
		&u.Employment.Designation, &u.Employment.DateOfJoining, &u.Employment.GrossRemuneration,
		&u.LeaveBalance.CasualLeave, &u.LeaveBalance.OnDutyLeave, &u.LeaveBalance.LeaveWithoutPay,
		&u.IsActive, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (s *Store) GetUser(ctx context.Context, userID string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", userID))
}

type LoginUser struct {
	User
	PasswordHash string
}

func (s *Store) FindActiveByLogin(ctx context.Context, usernameOrEmail string) (LoginUser, error) {
	var out LoginUser
	err := s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`, password_hash
    FROM users
    WHERE (username = $1 OR email = $1) AND is_active
  `, usernameOrEmail).Scan(
		&out.ID, &out.Username, &out.Email, &out.FirstName, &out.LastName, &out.Role,
		&out.Employment.Designation, &out.Employment.DateOfJoining, &out.Employment.GrossRemuneration,
		&out.LeaveBalance.CasualLeave, &out.LeaveBalance.OnDutyLeave, &out.LeaveBalance.LeaveWithoutPay,
		&out.IsActive, &out.CreatedAt, &out.PasswordHash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return LoginUser{}, ErrUserNotFound
	}
	return out, err
}

func (s *Store) ListActiveUsers(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE is_active ORDER BY first_name, last_name, username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListPayrollUsers returns active users excluding the oversight roles, which
// never appear in payroll aggregation.
func (s *Store) ListPayrollUsers(ctx context.Context, excludedRoles []string) ([]User, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE is_active AND NOT (role = ANY($1)) ORDER BY first_name, last_name, username", excludedRoles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type CreateUserInput struct {
	Username          string
	Email             string
	PasswordHash      string
	FirstName         string
	LastName          string
	Role              string
	Designation       string
	DateOfJoining     *time.Time
	GrossRemuneration float64
	CasualLeave       float64
	OnDutyLeave       float64
}

func (s *Store) CreateUser(ctx context.Context, in CreateUserInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (username, email, password_hash, first_name, last_name, role,
                       designation, date_of_joining, gross_remuneration,
                       casual_leave, on_duty_leave)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, in.Username, in.Email, in.PasswordHash, in.FirstName, in.LastName, in.Role,
		in.Designation, in.DateOfJoining, in.GrossRemuneration,
		in.CasualLeave, in.OnDutyLeave).Scan(&id)
	return id, err
}

type UpdateUserInput struct {
	FirstName         string
	LastName          string
	Role              string
	Designation       string
	GrossRemuneration float64
	IsActive          bool
}

func (s *Store) UpdateUser(ctx context.Context, userID string, in UpdateUserInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users
    SET first_name = $1, last_name = $2, role = $3, designation = $4,
        gross_remuneration = $5, is_active = $6
    WHERE id = $7
  `, in.FirstName, in.LastName, in.Role, in.Designation, in.GrossRemuneration, in.IsActive, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) LeaveBalances(ctx context.Context, userID string) (LeaveBalance, error) {
	var b LeaveBalance
	err := s.DB.QueryRow(ctx, "SELECT casual_leave, on_duty_leave, leave_without_pay FROM users WHERE id = $1", userID).
		Scan(&b.CasualLeave, &b.OnDutyLeave, &b.LeaveWithoutPay)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveBalance{}, ErrUserNotFound
	}
	return b, err
}
