package mysql

import (
	"errors"
	"time"

	"commflock/internal/model"
	"commflock/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PasswordResetRepository struct {
	DB *gorm.DB
}

func (r *PasswordResetRepository) Create(t *model.PasswordResetToken) error {
	return r.DB.Create(t).Error
}

// Consume validates the token and flips the password in one transaction:
// the token must exist, be unused and unexpired; it is marked used atomically
// with the password update so a reset link works at most once.
func (r *PasswordResetRepository) Consume(token, newHash string, now time.Time) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var t model.PasswordResetToken
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).First(&t).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrResetTokenInvalid
		}
		if err != nil {
			return err
		}
		if t.Used || t.ExpiresAt.Before(now) {
			return pkg.ErrResetTokenInvalid
		}
		if err = tx.Model(&model.User{}).Where("id = ?", t.UserID).
			Update("password", newHash).Error; err != nil {
			return err
		}
		return tx.Model(&model.PasswordResetToken{}).Where("id = ?", t.ID).
			Update("used", true).Error
	})
}
