package mysql

import (
	"context"
	"errors"

	"commflock/internal/model"
	"commflock/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityMemberRepository struct {
	DB *gorm.DB
}

// ModerateChanges carries the optional field updates of a moderation action.
type ModerateChanges struct {
	Status *string
	Points *int64
	Role   *string
}

// Create inserts a join-request row; the (community_id, user_id) unique index
// closes the race between the existence check and the insert.
func (r *CommunityMemberRepository) Create(member *model.CommunityMember) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.ActivityMemberJoined, member.CommunityID, member.UserID,
			map[string]any{"status": member.Status})
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkg.ErrAlreadyMember
	}
	return err
}

func (r *CommunityMemberRepository) Find(communityID, userID uint64) (*model.CommunityMember, error) {
	var m model.CommunityMember
	err := r.DB.Where("community_id = ? AND user_id = ?", communityID, userID).First(&m).Error
	return &m, err
}

func (r *CommunityMemberRepository) ListByCommunity(communityID uint64) ([]model.CommunityMember, error) {
	var list []model.CommunityMember
	err := r.DB.Where("community_id = ?", communityID).Order("created_at ASC").Find(&list).Error
	return list, err
}

// Moderate applies status/points/role updates to the target membership under a
// row lock, preserving the lifecycle invariants:
//   - PENDING -> APPROVED | REJECTED only; APPROVED and REJECTED are terminal
//   - points never negative
//   - a role change must not leave the community without an approved OWNER
func (r *CommunityMemberRepository) Moderate(ctx context.Context, communityID, targetUserID uint64, ch ModerateChanges) (*model.CommunityMember, error) {
	var out model.CommunityMember
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.CommunityMember
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("community_id = ? AND user_id = ?", communityID, targetUserID).
			First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		if err != nil {
			return err
		}

		updates := map[string]any{}
		approving := false

		if ch.Status != nil && *ch.Status != m.Status {
			if !model.ValidMemberStatus(*ch.Status) {
				return pkg.ErrValidation
			}
			// only PENDING rows may move, and never back to PENDING
			if m.Status != model.StatusPending || *ch.Status == model.StatusPending {
				return pkg.ErrValidation
			}
			updates["status"] = *ch.Status
			approving = *ch.Status == model.StatusApproved
		}

		if ch.Points != nil {
			if *ch.Points < 0 {
				return pkg.ErrValidation
			}
			updates["points"] = *ch.Points
		}

		if ch.Role != nil && *ch.Role != m.Role {
			if !model.ValidRole(*ch.Role) {
				return pkg.ErrValidation
			}
			if m.Role == model.RoleOwner {
				var others int64
				if err = tx.Model(&model.CommunityMember{}).
					Where("community_id = ? AND user_id <> ? AND role = ? AND status = ?",
						communityID, targetUserID, model.RoleOwner, model.StatusApproved).
					Count(&others).Error; err != nil {
					return err
				}
				if others == 0 {
					return pkg.ErrLastOwner
				}
			}
			updates["role"] = *ch.Role
		}

		if len(updates) > 0 {
			if err = tx.Model(&model.CommunityMember{}).Where("id = ?", m.ID).
				Updates(updates).Error; err != nil {
				return err
			}
			if approving {
				if err = insertOutbox(tx, model.ActivityMemberApproved, communityID, targetUserID, nil); err != nil {
					return err
				}
			}
		}
		return tx.Where("id = ?", m.ID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
