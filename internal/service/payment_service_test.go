package service

import (
	"testing"

	"commflock/internal/model"
)

func TestSimulatePayment(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db)
	user := seedUser(t, db, "payer")

	p, err := svc.Simulate(user.ID, 0, "")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if p.Status != model.PaymentSimulated {
		t.Fatalf("status: %s", p.Status)
	}
	if p.AmountSats != 21 {
		t.Fatalf("default amount: %d", p.AmountSats)
	}
	if p.Reference == "" {
		t.Fatal("missing reference")
	}

	if _, err = svc.Simulate(user.ID, 500, "event"); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	history, err := svc.History(user.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history rows: %d", len(history))
	}
}
