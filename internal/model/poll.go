package model

import (
	"encoding/json"
	"time"
)

type PollOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type Poll struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index"`
	CreatedByID uint64 `gorm:"not null;index"`
	Question    string `gorm:"size:500;not null"`
	Options     string `gorm:"type:json;not null"` // JSON array of PollOption
	EndsAt      *time.Time
	ShowVotes   bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OptionList decodes the stored options.
func (p *Poll) OptionList() ([]PollOption, error) {
	var opts []PollOption
	if err := json.Unmarshal([]byte(p.Options), &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// HasOption reports whether key is one of the poll's declared option keys.
func (p *Poll) HasOption(key string) bool {
	opts, err := p.OptionList()
	if err != nil {
		return false
	}
	for _, o := range opts {
		if o.Key == key {
			return true
		}
	}
	return false
}

// Closed reports whether the poll has an end time in the past.
func (p *Poll) Closed(now time.Time) bool {
	return p.EndsAt != nil && p.EndsAt.Before(now)
}

type PollVote struct {
	ID        uint64 `gorm:"primaryKey"`
	PollID    uint64 `gorm:"not null;index;uniqueIndex:uk_poll_user"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_poll_user"`
	OptionKey string `gorm:"size:64;not null"`
	CreatedAt time.Time
}
