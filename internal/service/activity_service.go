package service

import (
	"context"
	"time"

	"commflock/internal/metrics"
	"commflock/internal/model"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"

	"gorm.io/gorm"
)

// Sender delivers one outbox row downstream.
type Sender func(ctx context.Context, ob *model.CommunityOutbox) error

// OutboxRelayer drains pending activity rows to the configured sender on a
// fixed tick. Rows are written in the same transaction as the domain write,
// so the feed never claims something that did not happen.
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		pkg.Logger().Error().Err(err).Msg("outbox query failed")
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			pkg.Logger().Warn().Err(err).Uint64("id", ob.ID).Str("type", ob.EventType).Msg("outbox send failed")
			metrics.OutboxRelayedTotal.WithLabelValues("failed").Inc()
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		metrics.OutboxRelayedTotal.WithLabelValues("sent").Inc()
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// KafkaSender publishes rows to Kafka keyed by community, so per-community
// ordering is preserved.
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.CommunityOutbox) error {
		return p.Send(ctx, pkg.ActivityKey(ob.CommunityID), []byte(ob.Payload))
	}
}

// LogSender is the fallback when no broker is configured.
func LogSender() Sender {
	return func(ctx context.Context, ob *model.CommunityOutbox) error {
		pkg.Logger().Info().
			Str("type", ob.EventType).
			Uint64("community_id", ob.CommunityID).
			Uint64("actor_id", ob.ActorID).
			RawJSON("payload", []byte(ob.Payload)).
			Msg("activity")
		return nil
	}
}
