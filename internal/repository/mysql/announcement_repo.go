package mysql

import (
	"errors"

	"commflock/internal/model"
	"commflock/internal/pkg"

	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	DB *gorm.DB
}

func (r *AnnouncementRepository) Create(a *model.Announcement) error {
	return r.DB.Create(a).Error
}

func (r *AnnouncementRepository) ListByCommunity(communityID uint64, offset, limit int) ([]model.Announcement, error) {
	var list []model.Announcement
	err := r.DB.Where("community_id = ?", communityID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

type BadgeRepository struct {
	DB *gorm.DB
}

func (r *BadgeRepository) Create(b *model.Badge) error {
	err := r.DB.Create(b).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// badge names are unique per community
		return pkg.ErrValidation
	}
	return err
}

func (r *BadgeRepository) ListByCommunity(communityID uint64) ([]model.Badge, error) {
	var list []model.Badge
	err := r.DB.Where("community_id = ?", communityID).Order("name ASC").Find(&list).Error
	return list, err
}
