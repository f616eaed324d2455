package service

import (
	"context"
	"errors"
	"fmt"

	"commflock/internal/metrics"
	"commflock/internal/model"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"

	"gorm.io/gorm"
)

type EventService struct {
	repo        *mysql.EventRepository
	communities *mysql.CommunityRepository
	memberRepo  *mysql.CommunityMemberRepository
}

type CreateEventInput struct {
	Title     string
	StartsAt  string // RFC3339
	EndsAt    string
	Capacity  int
	PriceSats int64
	MinQuorum int
	Status    string // DRAFT or OPEN; defaults to DRAFT
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		repo:        &mysql.EventRepository{DB: db},
		communities: &mysql.CommunityRepository{DB: db},
		memberRepo:  &mysql.CommunityMemberRepository{DB: db},
	}
}

// Create adds an event to the community; moderator only.
func (s *EventService) Create(actorID uint64, slug string, in CreateEventInput) (*model.Event, error) {
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

	if in.Title == "" || len(in.Title) > 200 {
		return nil, fmt.Errorf("%w: title is required", pkg.ErrValidation)
	}
	startsAt, err := pkg.ParseTime(in.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("%w: startsAt must be RFC3339", pkg.ErrValidation)
	}
	endsAt, err := pkg.ParseTime(in.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("%w: endsAt must be RFC3339", pkg.ErrValidation)
	}
	if !endsAt.After(startsAt) {
		return nil, fmt.Errorf("%w: end must be after start", pkg.ErrValidation)
	}
	if in.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", pkg.ErrValidation)
	}
	if in.PriceSats < 0 || in.MinQuorum < 0 {
		return nil, fmt.Errorf("%w: price and quorum must not be negative", pkg.ErrValidation)
	}
	status := in.Status
	if status == "" {
		status = model.EventDraft
	}
	if status != model.EventDraft && status != model.EventOpen {
		return nil, fmt.Errorf("%w: new events start as DRAFT or OPEN", pkg.ErrValidation)
	}

	event := &model.Event{
		CommunityID: community.ID,
		CreatedByID: actorID,
		Title:       in.Title,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Capacity:    in.Capacity,
		PriceSats:   in.PriceSats,
		MinQuorum:   in.MinQuorum,
		Status:      status,
	}
	if err = s.repo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

// Get resolves an event inside a community; a slug mismatch reads as not found.
func (s *EventService) Get(slug string, eventID uint64) (*model.Event, int64, error) {
	event, err := s.repo.FindByID(eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, pkg.ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	community, err := s.communities.FindByID(event.CommunityID)
	if err != nil {
		return nil, 0, err
	}
	if community.Slug != slug {
		return nil, 0, pkg.ErrNotFound
	}
	count, err := s.repo.RegistrationCount(event.ID)
	if err != nil {
		return nil, 0, err
	}
	return event, count, nil
}

// List returns the community's events ordered by start time.
func (s *EventService) List(slug string) ([]model.Event, error) {
	community, err := s.communities.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCommunity(community.ID)
}

// Registrations returns the attendee list; moderator only.
func (s *EventService) Registrations(actorID uint64, slug string, eventID uint64) ([]model.EventRegistration, error) {
	event, err := s.repo.FindByID(eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	community, err := s.communities.FindByID(event.CommunityID)
	if err != nil {
		return nil, err
	}
	if community.Slug != slug {
		return nil, pkg.ErrNotFound
	}
	if _, err = requireModerator(s.memberRepo, community.ID, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListRegistrations(event.ID)
}

// allowed status transitions; CANCELLED and EXPIRED are terminal
var eventTransitions = map[string][]string{
	model.EventDraft:     {model.EventOpen},
	model.EventOpen:      {model.EventConfirmed, model.EventCancelled, model.EventExpired},
	model.EventConfirmed: {model.EventCancelled, model.EventExpired},
}

// SetStatus moves an event through its lifecycle; moderator only.
func (s *EventService) SetStatus(actorID uint64, slug string, eventID uint64, status string) (*model.Event, error) {
	event, err := s.repo.FindByID(eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	community, err := s.communities.FindByID(event.CommunityID)
	if err != nil {
		return nil, err
	}
	if community.Slug != slug {
		return nil, pkg.ErrNotFound
	}
	if _, err = requireModerator(s.memberRepo, community.ID, actorID); err != nil {
		return nil, err
	}

	if !model.ValidEventStatus(status) {
		return nil, fmt.Errorf("%w: unknown event status", pkg.ErrValidation)
	}
	ok := false
	for _, next := range eventTransitions[event.Status] {
		if next == status {
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: cannot move event from %s to %s", pkg.ErrValidation, event.Status, status)
	}
	if err = s.repo.UpdateStatus(event.ID, status); err != nil {
		return nil, err
	}
	event.Status = status
	return event, nil
}

// Register runs the capacity-bounded registration transaction.
func (s *EventService) Register(ctx context.Context, userID, eventID uint64) (*model.EventRegistration, error) {
	reg, err := s.repo.Register(ctx, eventID, userID)
	switch {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, pkg.ErrEventFull):
		metrics.RegistrationsTotal.WithLabelValues("full").Inc()
	case errors.Is(err, pkg.ErrAlreadyRegistered):
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
	case errors.Is(err, pkg.ErrEventNotOpen):
		metrics.RegistrationsTotal.WithLabelValues("not_open").Inc()
	case errors.Is(err, pkg.ErrMembershipRequired):
		metrics.RegistrationsTotal.WithLabelValues("not_member").Inc()
	}
	return reg, err
}
