package model

import "time"

type User struct {
	ID       uint64  `gorm:"primaryKey"`
	Username string  `gorm:"uniqueIndex;size:32;not null"`
	Email    *string `gorm:"uniqueIndex;size:64"` // nullable, unique when present
	Password string  `gorm:"size:255"`            // bcrypt hash; empty for legacy accounts
	// Lightning/Nostr identity, both optional; communities may require them to join
	LightningAddress string `gorm:"size:128"`
	NostrPubkey      string `gorm:"size:128"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type PasswordResetToken struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index"`
	Token     string `gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt time.Time
	Used      bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}
