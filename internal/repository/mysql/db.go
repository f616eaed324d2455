package mysql

import (
	"commflock/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB opens the MySQL connection. TranslateError is on so unique-index
// violations surface as gorm.ErrDuplicatedKey regardless of driver.
func InitDB(dsn string) error {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Migrate creates/updates the schema, including the composite unique indexes
// that back the uniqueness invariants.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.PasswordResetToken{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Event{},
		&model.EventRegistration{},
		&model.Poll{},
		&model.PollVote{},
		&model.Payment{},
		&model.Announcement{},
		&model.Badge{},
		&model.CommunityOutbox{},
	)
}
