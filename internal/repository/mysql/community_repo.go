package mysql

import (
	"errors"

	"commflock/internal/model"
	"commflock/internal/pkg"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// CreateWithOwner creates the community and its OWNER membership in one
// transaction; a community never exists without exactly one owner row.
// IsPublic carries no column default: gorm would drop the zero value from the
// INSERT and private communities would be stored as public.
func (r *CommunityRepository) CreateWithOwner(c *model.Community) (*model.Community, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkg.ErrSlugTaken
			}
			return err
		}
		owner := &model.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.OwnerID,
			Role:        model.RoleOwner,
			Status:      model.StatusApproved,
		}
		return tx.Create(owner).Error
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) FindBySlug(slug string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("slug = ?", slug).First(&community).Error
	return &community, err
}

// List returns public communities newest first, optionally filtered by a
// case-insensitive search over name and slug, plus the total match count.
func (r *CommunityRepository) List(search string, offset, limit int) ([]model.Community, int64, error) {
	q := r.DB.Model(&model.Community{}).Where("is_public = ?", true)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Community
	err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *CommunityRepository) UpdateSettings(id uint64, updates map[string]any) error {
	return r.DB.Model(&model.Community{}).Where("id = ?", id).Updates(updates).Error
}

func (r *CommunityRepository) MemberCount(id uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.CommunityMember{}).Where("community_id = ?", id).Count(&n).Error
	return n, err
}
