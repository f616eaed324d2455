package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"commflock/internal/model"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Community creation charges a flat simulated fee.
const communityPriceSats = 21

type CommunityService struct {
	repo       *mysql.CommunityRepository
	memberRepo *mysql.CommunityMemberRepository
	payments   *mysql.PaymentRepository
}

type CreateCommunityInput struct {
	Name                     string
	Slug                     string
	Description              string
	IsPublic                 bool
	JoinPolicy               string
	RequiresLightningAddress bool
	RequiresNostrPubkey      bool
}

type UpdateCommunityInput struct {
	Name                     *string
	Description              *string
	IsPublic                 *bool
	JoinPolicy               *string
	RequiresLightningAddress *bool
	RequiresNostrPubkey      *bool
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{
		repo:       &mysql.CommunityRepository{DB: db},
		memberRepo: &mysql.CommunityMemberRepository{DB: db},
		payments:   &mysql.PaymentRepository{DB: db},
	}
}

// Create records the simulated creation fee, then creates the community and
// its OWNER membership in one transaction.
func (s *CommunityService) Create(userID uint64, in CreateCommunityInput) (*model.Community, error) {
	if in.Name == "" || len(in.Name) > 100 {
		return nil, fmt.Errorf("%w: name is required", pkg.ErrValidation)
	}
	slug := in.Slug
	if slug == "" {
		slug = pkg.GenerateSlug(in.Name)
	}
	if !pkg.ValidSlug(slug) {
		return nil, fmt.Errorf("%w: slug must contain only lowercase letters, numbers and hyphens", pkg.ErrValidation)
	}
	policy := in.JoinPolicy
	if policy == "" {
		policy = model.JoinPolicyAuto
	}
	if !model.ValidJoinPolicy(policy) {
		return nil, fmt.Errorf("%w: unknown join policy", pkg.ErrValidation)
	}

	if _, err := s.repo.FindBySlug(slug); err == nil {
		return nil, pkg.ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	meta, _ := json.Marshal(map[string]any{
		"type":      "community",
		"simulated": true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err := s.payments.Create(&model.Payment{
		UserID:       userID,
		AmountSats:   communityPriceSats,
		Status:       model.PaymentSimulated,
		Reference:    uuid.NewString(),
		ProviderMeta: string(meta),
	}); err != nil {
		return nil, err
	}

	community := &model.Community{
		Slug:                     slug,
		Name:                     in.Name,
		Description:              in.Description,
		IsPublic:                 in.IsPublic,
		JoinPolicy:               policy,
		RequiresLightningAddress: in.RequiresLightningAddress,
		RequiresNostrPubkey:      in.RequiresNostrPubkey,
		OwnerID:                  userID,
	}
	return s.repo.CreateWithOwner(community)
}

func (s *CommunityService) GetBySlug(slug string) (*model.Community, int64, error) {
	community, err := s.repo.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, pkg.ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.MemberCount(community.ID)
	if err != nil {
		return nil, 0, err
	}
	return community, count, nil
}

// Update applies moderator-gated settings changes.
func (s *CommunityService) Update(actorID uint64, slug string, in UpdateCommunityInput) (*model.Community, error) {
	community, err := s.repo.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err = requireModerator(s.memberRepo, community.ID, actorID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		if *in.Name == "" || len(*in.Name) > 100 {
			return nil, fmt.Errorf("%w: name is required", pkg.ErrValidation)
		}
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IsPublic != nil {
		updates["is_public"] = *in.IsPublic
	}
	if in.JoinPolicy != nil {
		if !model.ValidJoinPolicy(*in.JoinPolicy) {
			return nil, fmt.Errorf("%w: unknown join policy", pkg.ErrValidation)
		}
		updates["join_policy"] = *in.JoinPolicy
	}
	if in.RequiresLightningAddress != nil {
		updates["requires_lightning_address"] = *in.RequiresLightningAddress
	}
	if in.RequiresNostrPubkey != nil {
		updates["requires_nostr_pubkey"] = *in.RequiresNostrPubkey
	}
	if len(updates) > 0 {
		if err = s.repo.UpdateSettings(community.ID, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.FindBySlug(slug)
}

// List returns public communities matching search, newest first, plus the total.
func (s *CommunityService) List(search string, offset, limit int) ([]model.Community, int64, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(search, offset, limit)
}
