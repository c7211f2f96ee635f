package attendance

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

// fakeDB replays scripted rows for QueryRow calls in order and records every
// statement with its arguments.
type fakeDB struct {
	rows    []fakeRow
	queries []string
	args    [][]any
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	row := db.rows[len(db.queries)]
	db.queries = append(db.queries, sql)
	db.args = append(db.args, args)
	return row
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("query not scripted")
}

func testService(db *fakeDB, now time.Time) *Service {
	svc := NewService(db, 11, 4, slog.New(slog.DiscardHandler))
	svc.Now = func() time.Time { return now }
	return svc
}

func recordVals(id, userID string, day time.Time, checkIn *time.Time, status string, isLate bool, lateBy int) []any {
	return []any{
		id, userID, day, checkIn, "10.0.0.7", (*time.Time)(nil), "",
		status, isLate, lateBy, float64(0), "", day,
	}
}

func TestCheckIn(t *testing.T) {
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	t.Run("on time", func(t *testing.T) {
		now := day.Add(9*time.Hour + 30*time.Minute)
		db := &fakeDB{rows: []fakeRow{
			{vals: []any{"rec-1"}},
			{vals: recordVals("rec-1", "u-1", day, &now, StatusPresent, false, 0)},
		}}

		rec, err := testService(db, now).CheckIn(context.Background(), "u-1", "10.0.0.7")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.ID != "rec-1" || rec.Status != StatusPresent {
			t.Fatalf("got %q/%q; want rec-1/present", rec.ID, rec.Status)
		}
		// The upsert may only claim a day whose slot has no check-in, so a
		// back-filled on-leave row is reclaimed instead of rejected.
		if !strings.Contains(db.queries[0], "check_in_time IS NULL") {
			t.Fatalf("insert does not restrict the conflict update to open slots:\n%s", db.queries[0])
		}
	})

	t.Run("late past cutoff", func(t *testing.T) {
		now := day.Add(11*time.Hour + 45*time.Minute)
		db := &fakeDB{rows: []fakeRow{
			{vals: []any{"rec-2"}},
			{vals: recordVals("rec-2", "u-1", day, &now, StatusLate, true, 45)},
		}}

		rec, err := testService(db, now).CheckIn(context.Background(), "u-1", "10.0.0.7")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Status != StatusLate || rec.LateBy != 45 {
			t.Fatalf("got %q lateBy=%d; want late lateBy=45", rec.Status, rec.LateBy)
		}
		if db.args[0][4] != StatusLate || db.args[0][6] != 45 {
			t.Fatalf("insert args = %v; want status late, lateBy 45", db.args[0])
		}
	})

	t.Run("second check-in refused", func(t *testing.T) {
		now := day.Add(9 * time.Hour)
		db := &fakeDB{rows: []fakeRow{{err: pgx.ErrNoRows}}}

		_, err := testService(db, now).CheckIn(context.Background(), "u-1", "10.0.0.7")
		if !errors.Is(err, ErrAlreadyCheckedIn) {
			t.Fatalf("err = %v; want ErrAlreadyCheckedIn", err)
		}
	})
}

func TestTodayFor(t *testing.T) {
	now := time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC)

	t.Run("no record yet", func(t *testing.T) {
		db := &fakeDB{rows: []fakeRow{{err: pgx.ErrNoRows}}}
		rec, err := testService(db, now).TodayFor(context.Background(), "u-1")
		if err != nil || rec != nil {
			t.Fatalf("got %v, %v; want nil, nil", rec, err)
		}
	})

	t.Run("existing record", func(t *testing.T) {
		day := DayOf(now)
		db := &fakeDB{rows: []fakeRow{
			{vals: recordVals("rec-1", "u-1", day, &now, StatusPresent, false, 0)},
		}}
		rec, err := testService(db, now).TodayFor(context.Background(), "u-1")
		if err != nil || rec == nil || rec.ID != "rec-1" {
			t.Fatalf("got %v, %v; want rec-1", rec, err)
		}
	})
}
