package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"commflock/internal/model"
	"commflock/internal/pkg"
)

func eventInput(capacity int, status string) CreateEventInput {
	start := time.Now().Add(24 * time.Hour)
	return CreateEventInput{
		Title:    "Meetup",
		StartsAt: start.Format(time.RFC3339),
		EndsAt:   start.Add(2 * time.Hour).Format(time.RFC3339),
		Capacity: capacity,
		Status:   status,
	}
}

func TestCreateEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	owner := seedUser(t, db, "owner")
	outsider := seedUser(t, db, "outsider")
	seedCommunity(t, db, owner.ID, "runners", model.JoinPolicyAuto)

	if _, err := svc.Create(outsider.ID, "runners", eventInput(10, "")); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("outsider create: got %v, want ErrForbidden", err)
	}

	event, err := svc.Create(owner.ID, "runners", eventInput(10, ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if event.Status != model.EventDraft {
		t.Fatalf("default status: %s", event.Status)
	}

	bad := []CreateEventInput{
		func() CreateEventInput { in := eventInput(10, ""); in.Title = ""; return in }(),
		func() CreateEventInput { in := eventInput(10, ""); in.StartsAt = "tomorrow"; return in }(),
		func() CreateEventInput { in := eventInput(10, ""); in.EndsAt = in.StartsAt; return in }(),
		eventInput(0, ""),
		eventInput(10, model.EventCancelled),
		func() CreateEventInput { in := eventInput(10, ""); in.PriceSats = -1; return in }(),
	}
	for i, in := range bad {
		if _, err := svc.Create(owner.ID, "runners", in); !errors.Is(err, pkg.ErrValidation) {
			t.Fatalf("case %d: got %v, want ErrValidation", i, err)
		}
	}
}

func TestEventStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	owner := seedUser(t, db, "owner")
	seedCommunity(t, db, owner.ID, "runners", model.JoinPolicyAuto)

	event, err := svc.Create(owner.ID, "runners", eventInput(10, ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// DRAFT may only move to OPEN
	if _, err = svc.SetStatus(owner.ID, "runners", event.ID, model.EventConfirmed); !errors.Is(err, pkg.ErrValidation) {
		t.Fatalf("draft -> confirmed: got %v, want ErrValidation", err)
	}
	if _, err = svc.SetStatus(owner.ID, "runners", event.ID, model.EventOpen); err != nil {
		t.Fatalf("draft -> open: %v", err)
	}
	if _, err = svc.SetStatus(owner.ID, "runners", event.ID, model.EventConfirmed); err != nil {
		t.Fatalf("open -> confirmed: %v", err)
	}
	if _, err = svc.SetStatus(owner.ID, "runners", event.ID, model.EventCancelled); err != nil {
		t.Fatalf("confirmed -> cancelled: %v", err)
	}
	// CANCELLED is terminal
	if _, err = svc.SetStatus(owner.ID, "runners", event.ID, model.EventOpen); !errors.Is(err, pkg.ErrValidation) {
		t.Fatalf("cancelled -> open: got %v, want ErrValidation", err)
	}

	if _, err = svc.SetStatus(owner.ID, "runners", event.ID, "PARTY"); !errors.Is(err, pkg.ErrValidation) {
		t.Fatalf("unknown status: got %v, want ErrValidation", err)
	}
}

func TestEventGetSlugScoped(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	owner := seedUser(t, db, "owner")
	seedCommunity(t, db, owner.ID, "runners", model.JoinPolicyAuto)
	seedCommunity(t, db, owner.ID, "swimmers", model.JoinPolicyAuto)

	event, err := svc.Create(owner.ID, "runners", eventInput(10, ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, _, err = svc.Get("runners", event.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	// an event is only addressable through its own community
	if _, _, err = svc.Get("swimmers", event.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("cross-community get: got %v, want ErrNotFound", err)
	}
	if _, _, err = svc.Get("runners", 9999); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("missing event: got %v, want ErrNotFound", err)
	}
}

func TestRegisterChecks(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	memberSvc := NewMemberService(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	outsider := seedUser(t, db, "outsider")
	c := seedCommunity(t, db, owner.ID, "runners", model.JoinPolicyAuto)

	draft, err := svc.Create(owner.ID, "runners", eventInput(2, ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err = memberSvc.Join(member.ID, "runners"); err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err = svc.Register(ctx, member.ID, draft.ID); !errors.Is(err, pkg.ErrEventNotOpen) {
		t.Fatalf("register on draft: got %v, want ErrEventNotOpen", err)
	}
	if _, err = svc.SetStatus(owner.ID, "runners", draft.ID, model.EventOpen); err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err = svc.Register(ctx, outsider.ID, draft.ID); !errors.Is(err, pkg.ErrMembershipRequired) {
		t.Fatalf("outsider register: got %v, want ErrMembershipRequired", err)
	}
	if _, err = svc.Register(ctx, 9999, 8888); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("missing event: got %v, want ErrNotFound", err)
	}

	reg, err := svc.Register(ctx, member.ID, draft.ID)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.PaymentID == 0 {
		t.Fatal("registration has no payment")
	}
	if _, err = svc.Register(ctx, member.ID, draft.ID); !errors.Is(err, pkg.ErrAlreadyRegistered) {
		t.Fatalf("duplicate register: got %v, want ErrAlreadyRegistered", err)
	}

	if _, err = svc.Register(ctx, owner.ID, draft.ID); err != nil {
		t.Fatalf("owner register: %v", err)
	}
	// the capacity answer wins once the event is full, even for a repeat caller
	if _, err = svc.Register(ctx, member.ID, draft.ID); !errors.Is(err, pkg.ErrEventFull) {
		t.Fatalf("register when full: got %v, want ErrEventFull", err)
	}

	var outbox int64
	db.Model(&model.CommunityOutbox{}).
		Where("event_type = ? AND community_id = ?", model.ActivityEventRegistered, c.ID).
		Count(&outbox)
	if outbox != 2 {
		t.Fatalf("expected 2 event_registered activity rows, got %d", outbox)
	}
}

func TestRegisterCapacityUnderContention(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	memberSvc := NewMemberService(db)
	owner := seedUser(t, db, "owner")
	seedCommunity(t, db, owner.ID, "runners", model.JoinPolicyAuto)

	const capacity = 3
	const contenders = 8

	event, err := svc.Create(owner.ID, "runners", eventInput(capacity, model.EventOpen))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	users := make([]uint64, contenders)
	for i := range users {
		u := seedUser(t, db, fmt.Sprintf("runner-%d", i))
		if _, err = memberSvc.Join(u.ID, "runners"); err != nil {
			t.Fatalf("join: %v", err)
		}
		users[i] = u.ID
	}

	results := make(chan error, contenders)
	var wg sync.WaitGroup
	for _, id := range users {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			_, err := svc.Register(context.Background(), userID, event.ID)
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	var ok, full int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, pkg.ErrEventFull):
			full++
		default:
			t.Fatalf("unexpected registration error: %v", err)
		}
	}
	if ok != capacity || full != contenders-capacity {
		t.Fatalf("capacity not enforced: ok=%d full=%d", ok, full)
	}

	count, err := svc.repo.RegistrationCount(event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != capacity {
		t.Fatalf("stored registrations: %d", count)
	}
}

func TestEventListAndRegistrations(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	memberSvc := NewMemberService(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	seedCommunity(t, db, owner.ID, "runners", model.JoinPolicyAuto)
	if _, err := memberSvc.Join(member.ID, "runners"); err != nil {
		t.Fatalf("join: %v", err)
	}

	event, err := svc.Create(owner.ID, "runners", eventInput(5, model.EventOpen))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err = svc.Create(owner.ID, "runners", eventInput(5, "")); err != nil {
		t.Fatalf("create: %v", err)
	}

	events, err := svc.List("runners")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events: %d", len(events))
	}
	if _, err = svc.List("no-such"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("missing community: got %v, want ErrNotFound", err)
	}

	if _, err = svc.Register(ctx, member.ID, event.ID); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err = svc.Registrations(member.ID, "runners", event.ID); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("member attendee list: got %v, want ErrForbidden", err)
	}
	regs, err := svc.Registrations(owner.ID, "runners", event.ID)
	if err != nil {
		t.Fatalf("registrations: %v", err)
	}
	if len(regs) != 1 || regs[0].UserID != member.ID {
		t.Fatalf("attendees: %+v", regs)
	}
}
