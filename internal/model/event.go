package model

import "time"

// Event statuses.
const (
	EventDraft     = "DRAFT"
	EventOpen      = "OPEN"
	EventConfirmed = "CONFIRMED"
	EventCancelled = "CANCELLED"
	EventExpired   = "EXPIRED"
)

type Event struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index"`
	CreatedByID uint64 `gorm:"not null;index"`
	Title       string `gorm:"size:200;not null"`
	StartsAt    time.Time
	EndsAt      time.Time
	Capacity    int    `gorm:"not null"`
	PriceSats   int64  `gorm:"not null;default:0"`
	MinQuorum   int    `gorm:"not null;default:0"`
	Status      string `gorm:"size:12;not null;default:DRAFT"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventRegistration is unique per (event, user); capacity is enforced in the
// registration transaction, the index closes the duplicate race.
type EventRegistration struct {
	ID        uint64 `gorm:"primaryKey"`
	EventID   uint64 `gorm:"not null;index;uniqueIndex:uk_event_user"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_event_user"`
	Status    string `gorm:"size:12;not null;default:paid"`
	PaymentID uint64 `gorm:"not null"`
	CreatedAt time.Time
}

func ValidEventStatus(s string) bool {
	switch s {
	case EventDraft, EventOpen, EventConfirmed, EventCancelled, EventExpired:
		return true
	}
	return false
}
