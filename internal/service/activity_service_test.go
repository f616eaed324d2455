package service

import (
	"context"
	"errors"
	"testing"

	"commflock/internal/model"
)

func TestOutboxRelay(t *testing.T) {
	db := newTestDB(t)
	memberSvc := NewMemberService(db)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	seedCommunity(t, db, owner.ID, "devs", model.JoinPolicyAuto)
	if _, err := memberSvc.Join(member.ID, "devs"); err != nil {
		t.Fatalf("join: %v", err)
	}

	var sent []string
	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.CommunityOutbox) error {
		sent = append(sent, ob.EventType)
		return nil
	})
	relayer.drainOnce(context.Background())

	if len(sent) != 1 || sent[0] != model.ActivityMemberJoined {
		t.Fatalf("relayed: %v", sent)
	}

	var pending int64
	db.Model(&model.CommunityOutbox{}).Where("status = ?", 0).Count(&pending)
	if pending != 0 {
		t.Fatalf("pending rows after drain: %d", pending)
	}

	// a second pass finds nothing to do
	sent = nil
	relayer.drainOnce(context.Background())
	if len(sent) != 0 {
		t.Fatalf("re-sent rows: %v", sent)
	}
}

func TestOutboxRelayRetry(t *testing.T) {
	db := newTestDB(t)
	memberSvc := NewMemberService(db)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	seedCommunity(t, db, owner.ID, "devs", model.JoinPolicyAuto)
	if _, err := memberSvc.Join(member.ID, "devs"); err != nil {
		t.Fatalf("join: %v", err)
	}

	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.CommunityOutbox) error {
		return errors.New("broker down")
	})
	relayer.drainOnce(context.Background())

	var row model.CommunityOutbox
	if err := db.First(&row).Error; err != nil {
		t.Fatal(err)
	}
	if row.Retry != 1 {
		t.Fatalf("retry count: %d", row.Retry)
	}
}
