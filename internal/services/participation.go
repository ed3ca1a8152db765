package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skkevents/internal/domain"
)

type participationService struct {
	participationRepo domain.ParticipationRepository
	eventRepo         domain.EventRepository
	memberRepo        domain.MemberRepository
	contextTimeout    time.Duration
}

// NewParticipationService returns a ParticipationService.
func NewParticipationService(participationRepo domain.ParticipationRepository,
	eventRepo domain.EventRepository,
	memberRepo domain.MemberRepository,
	timeout time.Duration,
) domain.ParticipationService {
	return &participationService{
		participationRepo: participationRepo,
		eventRepo:         eventRepo,
		memberRepo:        memberRepo,
		contextTimeout:    timeout,
	}
}

func (s *participationService) Participate(ctx context.Context, eventID, memberID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get event: %w", err)
	}
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get member: %w", err)
	}
	p := &domain.Participation{EventID: eventID, MemberID: memberID, CreatedAt: time.Now()}
	if err := s.participationRepo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("create participation: %w", err)
	}
	return true, nil
}

func (s *participationService) Withdraw(ctx context.Context, eventID, memberID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.participationRepo.Delete(ctx, eventID, memberID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete participation: %w", err)
	}
	return nil
}

func (s *participationService) ListParticipants(ctx context.Context, eventID string) ([]*domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	members, err := s.participationRepo.ListMembersByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if members == nil {
		members = []*domain.Member{}
	}
	return members, nil
}
