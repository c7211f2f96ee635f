package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-04-15")
	if err != nil || !got.Equal(time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ParseDate = %v, %v", got, err)
	}

	got, err = ParseDate("2026-04-15T09:30:00Z")
	if err != nil || got.Hour() != 9 {
		t.Fatalf("ParseDate RFC3339 = %v, %v", got, err)
	}

	if _, err := ParseDate("15/04/2026"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestMonthQuery(t *testing.T) {
	now := time.Date(2026, 4, 18, 10, 0, 0, 0, time.UTC)

	r := httptest.NewRequest("GET", "/?month=2026-02", nil)
	from, to, err := MonthQuery(r, now)
	if err != nil {
		t.Fatalf("MonthQuery: %v", err)
	}
	if from.Day() != 1 || from.Month() != time.February || to.Day() != 28 {
		t.Fatalf("wrong window: %v .. %v", from, to)
	}

	r = httptest.NewRequest("GET", "/", nil)
	from, to, err = MonthQuery(r, now)
	if err != nil || from.Month() != time.April || to.Day() != 30 {
		t.Fatalf("default window = %v .. %v, %v", from, to, err)
	}

	r = httptest.NewRequest("GET", "/?month=Feb-2026", nil)
	if _, _, err := MonthQuery(r, now); err == nil {
		t.Fatal("expected error for bad month format")
	}
}

func TestPageQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3&limit=10", nil)
	limit, offset := PageQuery(r)
	if limit != 10 || offset != 20 {
		t.Fatalf("PageQuery = %d, %d", limit, offset)
	}

	r = httptest.NewRequest("GET", "/", nil)
	limit, offset = PageQuery(r)
	if limit != 20 || offset != 0 {
		t.Fatalf("defaults = %d, %d", limit, offset)
	}

	r = httptest.NewRequest("GET", "/?limit=5000&page=-2", nil)
	limit, offset = PageQuery(r)
	if limit != 100 || offset != 0 {
		t.Fatalf("clamped = %d, %d", limit, offset)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.9:4431"
	if got := ClientIP(r); got != "10.0.0.9" {
		t.Fatalf("ClientIP = %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Fatalf("ClientIP forwarded = %q", got)
	}
}
