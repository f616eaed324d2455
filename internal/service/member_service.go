package service

import (
	"context"
	"errors"

	"commflock/internal/metrics"
	"commflock/internal/model"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"

	"gorm.io/gorm"
)

type MemberService struct {
	communities *mysql.CommunityRepository
	repo        *mysql.CommunityMemberRepository
	users       *mysql.UserRepository
}

type ModerateInput struct {
	Status *string
	Points *int64
	Role   *string
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{
		communities: &mysql.CommunityRepository{DB: db},
		repo:        &mysql.CommunityMemberRepository{DB: db},
		users:       &mysql.UserRepository{DB: db},
	}
}

// Join files a join request against the community's policy. AUTO_JOIN approves
// immediately, APPROVAL_REQUIRED leaves the row PENDING, CLOSED refuses.
func (s *MemberService) Join(userID uint64, slug string) (*model.CommunityMember, error) {
	community, err := s.communities.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// the membership check comes first: an existing member of a community that
	// later closed still reads as a duplicate, not as refused
	if _, err = s.repo.Find(community.ID, userID); err == nil {
		metrics.JoinsTotal.WithLabelValues("duplicate").Inc()
		return nil, pkg.ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if community.JoinPolicy == model.JoinPolicyClosed {
		metrics.JoinsTotal.WithLabelValues("rejected_policy").Inc()
		return nil, pkg.ErrJoinNotAllowed
	}

	if community.RequiresLightningAddress || community.RequiresNostrPubkey {
		user, err := s.users.FindByID(userID)
		if err != nil {
			return nil, err
		}
		if community.RequiresLightningAddress && user.LightningAddress == "" {
			metrics.JoinsTotal.WithLabelValues("rejected_requirement").Inc()
			return nil, pkg.ErrRequirementNotMet
		}
		if community.RequiresNostrPubkey && user.NostrPubkey == "" {
			metrics.JoinsTotal.WithLabelValues("rejected_requirement").Inc()
			return nil, pkg.ErrRequirementNotMet
		}
	}

	status := model.StatusPending
	if community.JoinPolicy == model.JoinPolicyAuto {
		status = model.StatusApproved
	}

	member := &model.CommunityMember{
		CommunityID: community.ID,
		UserID:      userID,
		Role:        model.RoleMember,
		Status:      status,
	}
	if err = s.repo.Create(member); err != nil {
		if errors.Is(err, pkg.ErrAlreadyMember) {
			metrics.JoinsTotal.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	if status == model.StatusApproved {
		metrics.JoinsTotal.WithLabelValues("approved").Inc()
	} else {
		metrics.JoinsTotal.WithLabelValues("pending").Inc()
	}
	return member, nil
}

// List returns the member roster; moderator only.
func (s *MemberService) List(actorID uint64, slug string) ([]model.CommunityMember, error) {
	community, err := s.communities.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err = requireModerator(s.repo, community.ID, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListByCommunity(community.ID)
}

// Moderate applies status/points/role updates to a member; moderator only.
func (s *MemberService) Moderate(ctx context.Context, actorID uint64, slug string, targetUserID uint64, in ModerateInput) (*model.CommunityMember, error) {
	community, err := s.communities.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err = requireModerator(s.repo, community.ID, actorID); err != nil {
		return nil, err
	}

	return s.repo.Moderate(ctx, community.ID, targetUserID, mysql.ModerateChanges{
		Status: in.Status,
		Points: in.Points,
		Role:   in.Role,
	})
}

// Membership returns the caller's own membership row, if any.
func (s *MemberService) Membership(userID uint64, slug string) (*model.CommunityMember, error) {
	community, err := s.communities.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m, err := s.repo.Find(community.ID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}
