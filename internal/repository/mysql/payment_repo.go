package mysql

import (
	"commflock/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func (r *PaymentRepository) Create(p *model.Payment) error {
	return r.DB.Create(p).Error
}

func (r *PaymentRepository) ListByUser(userID uint64) ([]model.Payment, error) {
	var list []model.Payment
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}
