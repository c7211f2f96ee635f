package leave

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peopleops/internal/auth"
	"peopleops/internal/domain/attendance"
	"peopleops/internal/domain/directory"
	"peopleops/internal/domain/rbac"
)

type fakeTx struct {
	pgx.Tx
	execs      []string
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// fakeStore keeps a single request in memory and mimics the conditional
// updates of the real store: a decision only lands while the request is
// still pending.
type fakeStore struct {
	req           Request
	tx            *fakeTx
	balanceWrites []directory.LeaveBalance
}

func (f *fakeStore) GetRequest(ctx context.Context, id string) (Request, error) {
	if f.req.ID != id {
		return Request{}, ErrNotFound
	}
	return f.req, nil
}

func (f *fakeStore) ListMine(ctx context.Context, userID, status string, year int) ([]Request, error) {
	return nil, nil
}

func (f *fakeStore) ListByStatus(ctx context.Context, status string) ([]Request, error) {
	return nil, nil
}

func (f *fakeStore) ListPending(ctx context.Context) ([]Request, error) { return nil, nil }

func (f *fakeStore) ListPendingFor(ctx context.Context, approverID string) ([]Request, error) {
	return nil, nil
}

func (f *fakeStore) HasOverlappingPending(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	return false, nil
}

func (f *fakeStore) Insert(ctx context.Context, userID string, in ApplyInput, start, end time.Time, days float64, before directory.LeaveBalance) (string, error) {
	return f.req.ID, nil
}

func (f *fakeStore) Begin(ctx context.Context) (pgx.Tx, error) {
	f.tx = &fakeTx{}
	return f.tx, nil
}

func (f *fakeStore) MarkApproved(ctx context.Context, tx pgx.Tx, id, decidedBy, note string, after directory.LeaveBalance) (bool, error) {
	if f.req.Status != StatusPending {
		return false, nil
	}
	f.req.Status = StatusApproved
	f.req.DecidedBy = &decidedBy
	f.req.BalanceAfter = &after
	return true, nil
}

func (f *fakeStore) UpdateBalances(ctx context.Context, tx pgx.Tx, userID string, b directory.LeaveBalance) error {
	f.balanceWrites = append(f.balanceWrites, b)
	return nil
}

func (f *fakeStore) MarkRejected(ctx context.Context, id, decidedBy, note string) (bool, error) {
	if f.req.Status != StatusPending {
		return false, nil
	}
	f.req.Status = StatusRejected
	return true, nil
}

type fakeDirectory struct {
	balance directory.LeaveBalance
}

func (f *fakeDirectory) GetUser(ctx context.Context, userID string) (directory.User, error) {
	return directory.User{ID: userID}, nil
}

func (f *fakeDirectory) LeaveBalances(ctx context.Context, userID string) (directory.LeaveBalance, error) {
	return f.balance, nil
}

func pendingRequest(days int) Request {
	approver := "mgr-1"
	start := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	return Request{
		ID:           "lv-1",
		UserID:       "emp-1",
		LeaveType:    TypeCasual,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, days-1),
		NumberOfDays: float64(days),
		Status:       StatusPending,
		ApproverID:   &approver,
	}
}

func workflowService(store *fakeStore, balance directory.LeaveBalance) *Service {
	logger := slog.New(slog.DiscardHandler)
	return NewService(store, &fakeDirectory{balance: balance}, attendance.NewService(nil, 11, 4, logger), logger)
}

func TestApproveDecidesOnce(t *testing.T) {
	store := &fakeStore{req: pendingRequest(3)}
	svc := workflowService(store, directory.LeaveBalance{CasualLeave: 10})
	admin := auth.UserContext{UserID: "boss-1", Role: rbac.RoleAdmin}

	req, err := svc.Approve(context.Background(), admin, "lv-1", "ok")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, req.Status)
	require.Len(t, store.balanceWrites, 1)
	assert.Equal(t, 7.0, store.balanceWrites[0].CasualLeave)
	assert.True(t, store.tx.committed)

	_, err = svc.Approve(context.Background(), admin, "lv-1", "again")
	assert.ErrorIs(t, err, ErrAlreadyDecided)
	assert.Len(t, store.balanceWrites, 1)
}

func TestApproveBackfillsEachLeaveDay(t *testing.T) {
	store := &fakeStore{req: pendingRequest(3)}
	svc := workflowService(store, directory.LeaveBalance{CasualLeave: 10})
	admin := auth.UserContext{UserID: "boss-1", Role: rbac.RoleAdmin}

	_, err := svc.Approve(context.Background(), admin, "lv-1", "")
	require.NoError(t, err)

	var backfills int
	for _, sql := range store.tx.execs {
		if strings.Contains(sql, "INSERT INTO attendance") {
			backfills++
		}
	}
	assert.Equal(t, 3, backfills)
}

func TestApproveInsufficientBalanceLeavesStateAlone(t *testing.T) {
	store := &fakeStore{req: pendingRequest(3)}
	svc := workflowService(store, directory.LeaveBalance{CasualLeave: 1})
	admin := auth.UserContext{UserID: "boss-1", Role: rbac.RoleAdmin}

	_, err := svc.Approve(context.Background(), admin, "lv-1", "")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, StatusPending, store.req.Status)
	assert.Empty(t, store.balanceWrites)
	assert.Nil(t, store.tx)
}

func TestDecideLimitedToDesignatedApprover(t *testing.T) {
	store := &fakeStore{req: pendingRequest(2)}
	svc := workflowService(store, directory.LeaveBalance{CasualLeave: 10})

	t.Run("other manager refused", func(t *testing.T) {
		other := auth.UserContext{UserID: "mgr-2", Role: "TEAM_LEAD"}
		_, err := svc.Approve(context.Background(), other, "lv-1", "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("named approver allowed", func(t *testing.T) {
		approver := auth.UserContext{UserID: "mgr-1", Role: "TEAM_LEAD"}
		req, err := svc.Reject(context.Background(), approver, "lv-1", "short staffed")
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, req.Status)
	})
}
