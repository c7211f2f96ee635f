package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"peopleops/internal/auth"
	"peopleops/internal/domain/rbac"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrDuplicateUser      = errors.New("username or email already taken")
)

type Service struct {
	Store    *Store
	Roles    *rbac.Service
	Secret   string
	TokenTTL time.Duration
	Logger   *slog.Logger
}

func NewService(store *Store, roles *rbac.Service, secret string, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{Store: store, Roles: roles, Secret: secret, TokenTTL: ttl, Logger: logger}
}

type LoginResult struct {
	Token string
	User  User
}

func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (LoginResult, error) {
	usernameOrEmail = strings.TrimSpace(usernameOrEmail)

	lu, err := s.Store.FindActiveByLogin(ctx, usernameOrEmail)
	if errors.Is(err, ErrUserNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("looking up login user: %w", err)
	}

	if err := auth.CheckPassword(lu.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.Secret, auth.Claims{UserID: lu.ID, Username: lu.Username, Role: lu.Role}, s.TokenTTL)
	if err != nil {
		return LoginResult{}, fmt.Errorf("signing token: %w", err)
	}

	s.Logger.Info("user logged in", slog.String("user_id", lu.ID), slog.String("role", lu.Role))
	return LoginResult{Token: token, User: lu.User}, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (User, error) {
	return s.Store.GetUser(ctx, userID)
}

func (s *Service) ListEmployees(ctx context.Context) ([]User, error) {
	return s.Store.ListActiveUsers(ctx)
}

type RegisterInput struct {
	Username          string  `json:"username" validate:"required,min=3"`
	Email             string  `json:"email" validate:"required,email"`
	Password          string  `json:"password" validate:"required,min=8"`
	FirstName         string  `json:"firstName" validate:"required"`
	LastName          string  `json:"lastName"`
	Role              string  `json:"role" validate:"required"`
	Designation       string  `json:"designation"`
	DateOfJoining     *string `json:"dateOfJoining"`
	GrossRemuneration float64 `json:"grossRemuneration" validate:"gte=0"`
	CasualLeave       float64 `json:"casualLeave" validate:"gte=0"`
	OnDutyLeave       float64 `json:"onDutyLeave" validate:"gte=0"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if !s.Roles.IsValidRole(ctx, in.Role) {
		return User{}, ErrInvalidRole
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	var joined *time.Time
	if in.DateOfJoining != nil && *in.DateOfJoining != "" {
		t, err := time.Parse("2006-01-02", *in.DateOfJoining)
		if err != nil {
			return User{}, fmt.Errorf("parsing dateOfJoining: %w", err)
		}
		joined = &t
	}

	id, err := s.Store.CreateUser(ctx, CreateUserInput{
		Username:          strings.TrimSpace(in.Username),
		Email:             strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:      hash,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Role:              strings.ToUpper(strings.TrimSpace(in.Role)),
		Designation:       in.Designation,
		DateOfJoining:     joined,
		GrossRemuneration: in.GrossRemuneration,
		CasualLeave:       in.CasualLeave,
		OnDutyLeave:       in.OnDutyLeave,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrDuplicateUser
		}
		return User{}, fmt.Errorf("creating user: %w", err)
	}

	s.Logger.Info("user registered", slog.String("user_id", id), slog.String("role", in.Role))
	return s.Store.GetUser(ctx, id)
}

type UpdateEmployeeInput struct {
	FirstName         string  `json:"firstName" validate:"required"`
	LastName          string  `json:"lastName"`
	Role              string  `json:"role" validate:"required"`
	Designation       string  `json:"designation"`
	GrossRemuneration float64 `json:"grossRemuneration" validate:"gte=0"`
	IsActive          bool    `json:"isActive"`
}

func (s *Service) UpdateEmployee(ctx context.Context, userID string, in UpdateEmployeeInput) (User, error) {
	if !s.Roles.IsValidRole(ctx, in.Role) {
		return User{}, ErrInvalidRole
	}

	err := s.Store.UpdateUser(ctx, userID, UpdateUserInput{
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Role:              strings.ToUpper(strings.TrimSpace(in.Role)),
		Designation:       in.Designation,
		GrossRemuneration: in.GrossRemuneration,
		IsActive:          in.IsActive,
	})
	if err != nil {
		return User{}, err
	}
	return s.Store.GetUser(ctx, userID)
}

func isUniqueViolation(err error) bool {
	// pgconn.PgError code 23505
	type sqlState interface{ SQLState() string }
	var se sqlState
	return errors.As(err, &se) && se.SQLState() == "23505"
}
