package mysql

import (
	"context"
	"errors"
	"time"

	"commflock/internal/model"
	"commflock/internal/pkg"

	"gorm.io/gorm"
)

type PollRepository struct {
	DB *gorm.DB
}

// OptionCount is one row of a tally aggregation.
type OptionCount struct {
	OptionKey string
	Count     int64
}

func (r *PollRepository) Create(poll *model.Poll) error {
	return r.DB.Create(poll).Error
}

func (r *PollRepository) FindByID(id uint64) (*model.Poll, error) {
	var poll model.Poll
	err := r.DB.First(&poll, id).Error
	return &poll, err
}

func (r *PollRepository) ListByCommunity(communityID uint64) ([]model.Poll, error) {
	var list []model.Poll
	err := r.DB.Where("community_id = ?", communityID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// Vote records a single vote per (poll, user) in one transaction.
// Check order: missing poll, closed, invalid option, duplicate, membership.
func (r *PollRepository) Vote(ctx context.Context, pollID, userID uint64, optionKey string, now time.Time) (*model.PollVote, error) {
	var vote model.PollVote
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var poll model.Poll
		err := tx.First(&poll, pollID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		if err != nil {
			return err
		}

		if poll.Closed(now) {
			return pkg.ErrPollClosed
		}
		if !poll.HasOption(optionKey) {
			return pkg.ErrInvalidOption
		}

		var dup int64
		if err = tx.Model(&model.PollVote{}).
			Where("poll_id = ? AND user_id = ?", poll.ID, userID).Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return pkg.ErrAlreadyVoted
		}

		var m model.CommunityMember
		err = tx.Where("community_id = ? AND user_id = ?", poll.CommunityID, userID).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && m.Status != model.StatusApproved) {
			return pkg.ErrMembershipRequired
		}
		if err != nil {
			return err
		}

		vote = model.PollVote{PollID: poll.ID, UserID: userID, OptionKey: optionKey}
		if err = tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkg.ErrAlreadyVoted
			}
			return err
		}

		return insertOutbox(tx, model.ActivityPollVoted, poll.CommunityID, userID,
			map[string]any{"poll_id": poll.ID, "option_key": optionKey})
	})
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// CountByOption aggregates the vote rows; tallies are always derived, never cached.
func (r *PollRepository) CountByOption(ctx context.Context, pollID uint64) ([]OptionCount, error) {
	var rows []OptionCount
	err := r.DB.WithContext(ctx).Model(&model.PollVote{}).
		Select("option_key, COUNT(*) AS count").
		Where("poll_id = ?", pollID).
		Group("option_key").
		Find(&rows).Error
	return rows, err
}
