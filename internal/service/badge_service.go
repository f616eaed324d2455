package service

import (
	"errors"
	"fmt"

	"commflock/internal/model"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"

	"gorm.io/gorm"
)

type BadgeService struct {
	repo        *mysql.BadgeRepository
	communities *mysql.CommunityRepository
	memberRepo  *mysql.CommunityMemberRepository
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{
		repo:        &mysql.BadgeRepository{DB: db},
		communities: &mysql.CommunityRepository{DB: db},
		memberRepo:  &mysql.CommunityMemberRepository{DB: db},
	}
}

// Create defines a badge for the community; moderator only.
func (s *BadgeService) Create(actorID uint64, slug, name, description, icon string) (*model.Badge, error) {
	community, err := s.communities.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err = requireModerator(s.memberRepo, community.ID, actorID); err != nil {
		return nil, err
	}

	if name == "" || len(name) > 100 {
		return nil, fmt.Errorf("%w: name is required", pkg.ErrValidation)
	}

	b := &model.Badge{
		CommunityID: community.ID,
		Name:        name,
		Description: description,
		Icon:        icon,
	}
	if err = s.repo.Create(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BadgeService) List(slug string) ([]model.Badge, error) {
	community, err := s.communities.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCommunity(community.ID)
}
