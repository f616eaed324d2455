package service

import (
	"errors"

	"commflock/internal/model"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"

	"gorm.io/gorm"
)

// requireModerator is the shared authorization predicate for the admin surface:
// the acting user must hold an APPROVED membership with role OWNER or ADMIN.
func requireModerator(repo *mysql.CommunityMemberRepository, communityID, userID uint64) (*model.CommunityMember, error) {
	m, err := repo.Find(communityID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !m.IsModerator() {
		return nil, pkg.ErrForbidden
	}
	return m, nil
}
