package service

import (
	"errors"
	"strings"
	"testing"

	"commflock/internal/model"
	"commflock/internal/pkg"
)

func TestAnnouncements(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnnouncementService(db)
	owner := seedUser(t, db, "owner")
	outsider := seedUser(t, db, "outsider")
	seedCommunity(t, db, owner.ID, "devs", model.JoinPolicyAuto)

	if _, err := svc.Create(outsider.ID, "devs", "Hello", "First post"); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("outsider post: got %v, want ErrForbidden", err)
	}
	if _, err := svc.Create(owner.ID, "devs", strings.Repeat("x", 201), "body"); !errors.Is(err, pkg.ErrValidation) {
		t.Fatalf("long title: got %v, want ErrValidation", err)
	}
	if _, err := svc.Create(owner.ID, "devs", "Hello", ""); !errors.Is(err, pkg.ErrValidation) {
		t.Fatalf("empty body: got %v, want ErrValidation", err)
	}

	if _, err := svc.Create(owner.ID, "devs", "Hello", "First post"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(owner.ID, "devs", "Again", "Second post"); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List("devs", 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("announcements: %d", len(list))
	}
	if _, err = svc.List("no-such", 1, 10); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("missing community: got %v, want ErrNotFound", err)
	}
}
