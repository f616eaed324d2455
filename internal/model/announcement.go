package model

import "time"

type Announcement struct {
	ID          uint64    `gorm:"primaryKey"`
	CommunityID uint64    `gorm:"not null;index"`
	CreatedByID uint64    `gorm:"not null;index"`
	Title       string    `gorm:"size:200;not null"`
	Body        string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

type Badge struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_badge"`
	Name        string `gorm:"size:100;not null;uniqueIndex:uk_community_badge"`
	Description string `gorm:"size:500"`
	Icon        string `gorm:"size:100"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
