package services

import (
	"context"
	"fmt"
	"time"

	"skkevents/internal/domain"
)

type reportService struct {
	eventRepo         domain.EventRepository
	memberRepo        domain.MemberRepository
	participationRepo domain.ParticipationRepository
	contextTimeout    time.Duration
}

// NewReportService returns a ReportService.
func NewReportService(eventRepo domain.EventRepository, memberRepo domain.MemberRepository, participationRepo domain.ParticipationRepository, timeout time.Duration) domain.ReportService {
	return &reportService{
		eventRepo:         eventRepo,
		memberRepo:        memberRepo,
		participationRepo: participationRepo,
		contextTimeout:    timeout,
	}
}

// Summary counts events by their status as of now, members per group and participations.
func (s *reportService) Summary(ctx context.Context) (*domain.ReportSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	byStatus, err := s.eventRepo.CountByStatus(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	bySim, err := s.memberRepo.CountBySimGroup(ctx)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	participation, err := s.participationRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count participation: %w", err)
	}

	summary := &domain.ReportSummary{
		EventsByStatus:     map[domain.EventStatus]int{},
		MembersBySimGroup:  map[domain.SimGroup]int{},
		TotalParticipation: participation,
	}
	for _, st := range []domain.EventStatus{domain.EventStatusUpcoming, domain.EventStatusPrevious, domain.EventStatusCancelled} {
		summary.EventsByStatus[st] = byStatus[st]
	}
	for _, g := range domain.SimGroups {
		summary.MembersBySimGroup[g] = bySim[g]
	}
	for _, n := range bySim {
		summary.TotalMembers += n
	}
	return summary, nil
}
