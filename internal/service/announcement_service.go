package service

import (
	"errors"
	"fmt"

	"commflock/internal/model"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"

	"gorm.io/gorm"
)

type AnnouncementService struct {
	repo        *mysql.AnnouncementRepository
	communities *mysql.CommunityRepository
	memberRepo  *mysql.CommunityMemberRepository
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{
		repo:        &mysql.AnnouncementRepository{DB: db},
		communities: &mysql.CommunityRepository{DB: db},
		memberRepo:  &mysql.CommunityMemberRepository{DB: db},
	}
}

// Create posts an announcement; moderator only.
func (s *AnnouncementService) Create(actorID uint64, slug, title, body string) (*model.Announcement, error) {
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

	if title == "" || len(title) > 200 {
		return nil, fmt.Errorf("%w: title is required", pkg.ErrValidation)
	}
	if body == "" || len(body) > 2000 {
		return nil, fmt.Errorf("%w: body is required", pkg.ErrValidation)
	}

	a := &model.Announcement{
		CommunityID: community.ID,
		CreatedByID: actorID,
		Title:       title,
		Body:        body,
	}
	if err = s.repo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnnouncementService) List(slug string, page, size int) ([]model.Announcement, error) {
	community, err := s.communities.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.repo.ListByCommunity(community.ID, (page-1)*size, size)
}
