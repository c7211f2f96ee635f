package efiling

import (
	"errors"
	"testing"
	"time"
)

const maxBytes = 25 << 20

func TestValidateUpload(t *testing.T) {
	t.Run("pdf within limit", func(t *testing.T) {
		if err := ValidateUpload(1<<20, maxBytes, "application/pdf"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("exactly at limit", func(t *testing.T) {
		if err := ValidateUpload(maxBytes, maxBytes, "image/png"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		if err := ValidateUpload(maxBytes+1, maxBytes, "application/pdf"); !errors.Is(err, ErrFileTooLarge) {
			t.Fatalf("err = %v; want ErrFileTooLarge", err)
		}
	})

	t.Run("executable refused", func(t *testing.T) {
		if err := ValidateUpload(100, maxBytes, "application/x-msdownload"); !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("err = %v; want ErrUnsupportedType", err)
		}
	})
}

func TestCanTrack(t *testing.T) {
	trail := []Transfer{
		{SenderID: "alice", RecipientID: "bob"},
		{SenderID: "bob", RecipientID: "carol"},
	}

	t.Run("hop participant", func(t *testing.T) {
		if !CanTrack("carol", "STAFF", trail) {
			t.Fatal("participant in a later hop should see the trail")
		}
	})

	t.Run("admin without participation", func(t *testing.T) {
		if !CanTrack("dave", "ADMIN", trail) {
			t.Fatal("admin should see every trail")
		}
	})

	t.Run("ceo without participation", func(t *testing.T) {
		if CanTrack("dave", "CEO", trail) {
			t.Fatal("CEO gets no bypass on trails they are not part of")
		}
	})

	t.Run("outsider", func(t *testing.T) {
		if CanTrack("dave", "STAFF", trail) {
			t.Fatal("outsider should be refused")
		}
	})
}

func TestCanDelete(t *testing.T) {
	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	tr := Transfer{SenderID: "alice", RecipientID: "bob", CreatedAt: created}
	window := 24 * time.Hour

	t.Run("sender inside window", func(t *testing.T) {
		if err := CanDelete(tr, "alice", created.Add(23*time.Hour), window); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("recipient cannot delete", func(t *testing.T) {
		if err := CanDelete(tr, "bob", created.Add(time.Hour), window); !errors.Is(err, ErrNotSender) {
			t.Fatalf("err = %v; want ErrNotSender", err)
		}
	})

	t.Run("window expired", func(t *testing.T) {
		if err := CanDelete(tr, "alice", created.Add(25*time.Hour), window); !errors.Is(err, ErrDeleteWindowClosed) {
			t.Fatalf("err = %v; want ErrDeleteWindowClosed", err)
		}
	})
}

func TestIsParticipant(t *testing.T) {
	tr := Transfer{SenderID: "alice", RecipientID: "bob"}
	if !IsParticipant(tr, "alice") || !IsParticipant(tr, "bob") {
		t.Fatal("sender and recipient are participants")
	}
	if IsParticipant(tr, "carol") {
		t.Fatal("third party is not a participant")
	}
}
