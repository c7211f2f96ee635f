package directory

import "testing"

func TestDisplayName(t *testing.T) {
	u := User{Username: "asha.r", FirstName: "Asha", LastName: "Rao"}
	if got := u.DisplayName(); got != "Asha Rao" {
		t.Fatalf("expected full name, got %q", got)
	}

	u = User{Username: "asha.r", FirstName: "Asha"}
	if got := u.DisplayName(); got != "Asha" {
		t.Fatalf("expected first name, got %q", got)
	}

	u = User{Username: "asha.r"}
	if got := u.DisplayName(); got != "asha.r" {
		t.Fatalf("expected username fallback, got %q", got)
	}
}
