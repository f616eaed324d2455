package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"commflock/internal/model"
	"commflock/internal/pkg"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository struct {
	DB *gorm.DB
}

func (r *EventRepository) Create(event *model.Event) error {
	return r.DB.Create(event).Error
}

func (r *EventRepository) FindByID(id uint64) (*model.Event, error) {
	var event model.Event
	err := r.DB.First(&event, id).Error
	return &event, err
}

func (r *EventRepository) ListByCommunity(communityID uint64) ([]model.Event, error) {
	var list []model.Event
	err := r.DB.Where("community_id = ?", communityID).Order("starts_at ASC").Find(&list).Error
	return list, err
}

func (r *EventRepository) RegistrationCount(eventID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.EventRegistration{}).Where("event_id = ?", eventID).Count(&n).Error
	return n, err
}

func (r *EventRepository) ListRegistrations(eventID uint64) ([]model.EventRegistration, error) {
	var list []model.EventRegistration
	err := r.DB.Where("event_id = ?", eventID).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *EventRepository) UpdateStatus(eventID uint64, status string) error {
	return r.DB.Model(&model.Event{}).Where("id = ?", eventID).Update("status", status).Error
}

// Register performs the capacity-bounded registration as one transaction.
// The event row is locked first, so concurrent attempts for the same event
// serialize and the count-then-insert cannot oversell capacity; the
// (event_id, user_id) unique index backstops the duplicate check.
// Check order: missing event, not open, full, duplicate, membership.
func (r *EventRepository) Register(ctx context.Context, eventID, userID uint64) (*model.EventRegistration, error) {
	var reg model.EventRegistration
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev model.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ev, eventID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		if err != nil {
			return err
		}

		if ev.Status != model.EventOpen {
			return pkg.ErrEventNotOpen
		}

		var n int64
		if err = tx.Model(&model.EventRegistration{}).
			Where("event_id = ?", ev.ID).Count(&n).Error; err != nil {
			return err
		}
		if n >= int64(ev.Capacity) {
			return pkg.ErrEventFull
		}

		var dup int64
		if err = tx.Model(&model.EventRegistration{}).
			Where("event_id = ? AND user_id = ?", ev.ID, userID).Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return pkg.ErrAlreadyRegistered
		}

		var m model.CommunityMember
		err = tx.Where("community_id = ? AND user_id = ?", ev.CommunityID, userID).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && m.Status != model.StatusApproved) {
			return pkg.ErrMembershipRequired
		}
		if err != nil {
			return err
		}

		// simulated payment, recorded for audit only
		meta, _ := json.Marshal(map[string]any{
			"type":      "event_registration",
			"simulated": true,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		payment := &model.Payment{
			UserID:       userID,
			EventID:      &ev.ID,
			AmountSats:   ev.PriceSats,
			Status:       model.PaymentSimulated,
			Reference:    uuid.NewString(),
			ProviderMeta: string(meta),
		}
		if err = tx.Create(payment).Error; err != nil {
			return err
		}

		reg = model.EventRegistration{
			EventID:   ev.ID,
			UserID:    userID,
			Status:    "paid",
			PaymentID: payment.ID,
		}
		if err = tx.Create(&reg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkg.ErrAlreadyRegistered
			}
			return err
		}

		return insertOutbox(tx, model.ActivityEventRegistered, ev.CommunityID, userID,
			map[string]any{"event_id": ev.ID})
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
