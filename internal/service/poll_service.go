package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"commflock/internal/metrics"
	"commflock/internal/model"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"

	"gorm.io/gorm"
)

type PollService struct {
	repo        *mysql.PollRepository
	communities *mysql.CommunityRepository
	memberRepo  *mysql.CommunityMemberRepository
}

type CreatePollInput struct {
	Question  string
	Options   []model.PollOption
	EndsAt    string // RFC3339, optional
	ShowVotes bool
}

// OptionTally is one row of a derived tally.
type OptionTally struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

func NewPollService(db *gorm.DB) *PollService {
	return &PollService{
		repo:        &mysql.PollRepository{DB: db},
		communities: &mysql.CommunityRepository{DB: db},
		memberRepo:  &mysql.CommunityMemberRepository{DB: db},
	}
}

// Create adds a poll to the community; moderator only.
func (s *PollService) Create(actorID uint64, slug string, in CreatePollInput) (*model.Poll, error) {
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

	if in.Question == "" || len(in.Question) > 500 {
		return nil, fmt.Errorf("%w: question is required", pkg.ErrValidation)
	}
	if len(in.Options) < 2 {
		return nil, fmt.Errorf("%w: at least 2 options required", pkg.ErrValidation)
	}
	seen := map[string]bool{}
	for _, o := range in.Options {
		if o.Key == "" || seen[o.Key] {
			return nil, fmt.Errorf("%w: option keys must be unique and non-empty", pkg.ErrValidation)
		}
		seen[o.Key] = true
	}

	var endsAt *time.Time
	if in.EndsAt != "" {
		t, err := pkg.ParseTime(in.EndsAt)
		if err != nil {
			return nil, fmt.Errorf("%w: endsAt must be RFC3339", pkg.ErrValidation)
		}
		endsAt = &t
	}

	opts, _ := json.Marshal(in.Options)
	poll := &model.Poll{
		CommunityID: community.ID,
		CreatedByID: actorID,
		Question:    in.Question,
		Options:     string(opts),
		EndsAt:      endsAt,
		ShowVotes:   in.ShowVotes,
	}
	if err = s.repo.Create(poll); err != nil {
		return nil, err
	}
	return poll, nil
}

// Get resolves a poll inside a community; a slug mismatch reads as not found.
func (s *PollService) Get(slug string, pollID uint64) (*model.Poll, error) {
	poll, err := s.repo.FindByID(pollID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	community, err := s.communities.FindByID(poll.CommunityID)
	if err != nil {
		return nil, err
	}
	if community.Slug != slug {
		return nil, pkg.ErrNotFound
	}
	return poll, nil
}

// List returns the community's polls, newest first.
func (s *PollService) List(slug string) ([]model.Poll, error) {
	community, err := s.communities.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCommunity(community.ID)
}

// Vote records a single vote per user.
func (s *PollService) Vote(ctx context.Context, userID, pollID uint64, optionKey string) (*model.PollVote, error) {
	vote, err := s.repo.Vote(ctx, pollID, userID, optionKey, time.Now())
	switch {
	case err == nil:
		metrics.VotesTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, pkg.ErrPollClosed):
		metrics.VotesTotal.WithLabelValues("closed").Inc()
	case errors.Is(err, pkg.ErrAlreadyVoted):
		metrics.VotesTotal.WithLabelValues("duplicate").Inc()
	case errors.Is(err, pkg.ErrInvalidOption):
		metrics.VotesTotal.WithLabelValues("invalid_option").Inc()
	case errors.Is(err, pkg.ErrMembershipRequired):
		metrics.VotesTotal.WithLabelValues("not_member").Inc()
	}
	return vote, err
}

// Tally aggregates the vote rows into per-option counts and percentages.
// Always derived from the rows, so it cannot drift from the votes.
func (s *PollService) Tally(ctx context.Context, pollID uint64) ([]OptionTally, error) {
	poll, err := s.repo.FindByID(pollID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	opts, err := poll.OptionList()
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.CountByOption(ctx, pollID)
	if err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	var total int64
	for _, r := range rows {
		counts[r.OptionKey] = r.Count
		total += r.Count
	}

	tally := make([]OptionTally, 0, len(opts))
	for _, o := range opts {
		t := OptionTally{Key: o.Key, Label: o.Label, Count: counts[o.Key]}
		if total > 0 {
			t.Percent = float64(t.Count) * 100 / float64(total)
		}
		tally = append(tally, t)
	}
	return tally, nil
}
