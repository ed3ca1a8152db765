package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skkevents/internal/domain"
)

type memberService struct {
	memberRepo     domain.MemberRepository
	contextTimeout time.Duration
}

// NewMemberService returns a MemberService backed by memberRepo.
func NewMemberService(memberRepo domain.MemberRepository, timeout time.Duration) domain.MemberService {
	return &memberService{memberRepo: memberRepo, contextTimeout: timeout}
}

func (s *memberService) CreateMember(ctx context.Context, member *domain.Member) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	member.Normalize()
	if err := member.Validate(); err != nil {
		return err
	}
	member.DateAdded = time.Now()
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (s *memberService) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	m, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *memberService) ListMembers(ctx context.Context, params domain.PaginationParams) ([]*domain.Member, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	members, total, err := s.memberRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	if members == nil {
		members = []*domain.Member{}
	}
	return members, total, nil
}

// ListSimGroups returns every SIM group, in display order, with its members.
// Groups without members are included with a zero count.
func (s *memberService) ListSimGroups(ctx context.Context) ([]*domain.SimGroupSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	members, err := s.memberRepo.ListBySimGroups(ctx, domain.SimGroups)
	if err != nil {
		return nil, fmt.Errorf("list members by sim group: %w", err)
	}
	byGroup := make(map[domain.SimGroup]*domain.SimGroupSummary, len(domain.SimGroups))
	out := make([]*domain.SimGroupSummary, 0, len(domain.SimGroups))
	for _, g := range domain.SimGroups {
		sum := &domain.SimGroupSummary{Name: g, Members: []*domain.Member{}}
		byGroup[g] = sum
		out = append(out, sum)
	}
	for _, m := range members {
		sum, ok := byGroup[m.SimGroup]
		if !ok {
			continue
		}
		sum.Members = append(sum.Members, m)
		sum.Count++
	}
	return out, nil
}
