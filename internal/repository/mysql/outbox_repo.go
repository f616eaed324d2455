package mysql

import (
	"context"
	"encoding/json"
	"time"

	"commflock/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// insertOutbox records an activity event in the same transaction as the row it
// describes. Payload keys are merged with the event envelope.
func insertOutbox(tx *gorm.DB, eventType string, communityID, actorID uint64, extra map[string]any) error {
	body := map[string]any{
		"event_time":   time.Now().UTC().Format(time.RFC3339Nano),
		"community_id": communityID,
		"actor_id":     actorID,
	}
	for k, v := range extra {
		body[k] = v
	}
	payload, _ := json.Marshal(body)
	ob := &model.CommunityOutbox{
		EventType:   eventType,
		CommunityID: communityID,
		ActorID:     actorID,
		Payload:     string(payload),
		Status:      0,
	}
	return tx.Create(ob).Error
}

// List returns pending rows oldest first.
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.CommunityOutbox, error) {
	var list []model.CommunityOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate marks a row failed and bumps its retry counter. Failed rows are
// parked, not retried: List only drains status 0, so a stuck row needs a manual
// requeue (status back to 0) once the broker is healthy again.
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.CommunityOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate marks a row sent.
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.CommunityOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
