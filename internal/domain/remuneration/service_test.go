package remuneration

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peopleops/internal/auth"
	"peopleops/internal/domain/rbac"
)

type fakeRows struct {
	pgx.Rows
	vals [][]any
	idx  int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.vals)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.vals[r.idx-1]
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

type fakeRow struct{ err error }

func (r fakeRow) Scan(dest ...any) error { return r.err }

type fakeDB struct {
	rows *fakeRows
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.rows, nil
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{err: errors.New("not scripted")}
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

// grantStore resolves every role to the same feature flags.
type grantStore struct {
	features []rbac.FeatureAccess
}

func (g *grantStore) ActiveRoleIDs(ctx context.Context) ([]string, error) { return nil, nil }

func (g *grantStore) GetRole(ctx context.Context, roleID string) (rbac.RolePermission, error) {
	return rbac.RolePermission{RoleID: roleID, FeatureAccess: g.features, IsActive: true}, nil
}

func (g *grantStore) ListRoles(ctx context.Context, activeOnly bool) ([]rbac.RolePermission, error) {
	return nil, nil
}

func (g *grantStore) UpsertRole(ctx context.Context, role rbac.RolePermission) error { return nil }

func (g *grantStore) DeactivateRole(ctx context.Context, roleID string) error { return nil }

func payrollRow(id, userID, role string) []any {
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return []any{
		id, userID, "2026-07", float64(31), float64(2), float64(29),
		float64(50000), float64(46774.19), "admin-1", created, created,
		role,
	}
}

func TestAttendanceSummariesCurrentMonth(t *testing.T) {
	svc := &Service{
		Logger: slog.New(slog.DiscardHandler),
		Now:    func() time.Time { return time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC) },
	}

	sheet, err := svc.AttendanceSummaries(context.Background(), "2026-09")
	require.NoError(t, err)
	assert.True(t, sheet.IsCurrentMonth)
	assert.Empty(t, sheet.Employees)
	require.NotNil(t, sheet.Employees)

	_, err = svc.AttendanceSummaries(context.Background(), "Sep-2026")
	assert.ErrorIs(t, err, ErrBadMonth)
}

func TestForMonthExcludesOversightRoles(t *testing.T) {
	db := &fakeDB{rows: &fakeRows{vals: [][]any{
		payrollRow("rec-1", "u-1", "STAFF"),
		payrollRow("rec-2", "u-2", "FACULTY_IN_CHARGE"),
		payrollRow("rec-3", "u-3", "TEAM_LEAD"),
	}}}
	svc := &Service{DB: db, Logger: slog.New(slog.DiscardHandler), Now: time.Now}

	records, err := svc.ForMonth(context.Background(), "2026-07")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec-1", records[0].ID)
	assert.Equal(t, "rec-3", records[1].ID)
}

func TestSalaryAccess(t *testing.T) {
	actor := auth.UserContext{UserID: "u-1", Role: "STAFF"}

	t.Run("no feature refused", func(t *testing.T) {
		svc := &Service{
			Roles:  rbac.NewService(&grantStore{}),
			Logger: slog.New(slog.DiscardHandler),
			Now:    time.Now,
		}
		_, err := svc.Salary(context.Background(), actor, "2026-07")
		assert.ErrorIs(t, err, ErrNoSalaryAccess)
	})

	t.Run("view own filters oversight rows", func(t *testing.T) {
		db := &fakeDB{rows: &fakeRows{vals: [][]any{
			payrollRow("rec-1", "u-1", "OFFICER_IN_CHARGE"),
		}}}
		svc := &Service{
			DB: db,
			Roles: rbac.NewService(&grantStore{features: []rbac.FeatureAccess{
				{FeatureID: rbac.FeatureSalaryViewOwn, HasAccess: true},
			}}),
			Logger: slog.New(slog.DiscardHandler),
			Now:    time.Now,
		}
		records, err := svc.Salary(context.Background(), actor, "2026-07")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
