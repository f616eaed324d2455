package model

import "time"

// Activity event types written to the outbox.
const (
	ActivityMemberJoined    = "member_joined"
	ActivityMemberApproved  = "member_approved"
	ActivityEventRegistered = "event_registered"
	ActivityPollVoted       = "poll_voted"
)

// CommunityOutbox buffers activity events written in the same transaction as the
// row they describe; a relayer drains pending rows to Kafka.
type CommunityOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"`
	CommunityID uint64 `gorm:"not null;index"`
	ActorID     uint64 `gorm:"not null"`
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CommunityOutbox) TableName() string { return "community_outbox" }
