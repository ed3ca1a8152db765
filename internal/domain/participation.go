package domain

import (
	"context"
	"time"
)

// Participation links a member to an event they attended or will attend.
// swagger:model Participation
type Participation struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ParticipationRepository defines storage for participations.
type ParticipationRepository interface {
	// Create inserts the row and returns ErrDuplicate if the member already participates.
	Create(ctx context.Context, p *Participation) error
	Delete(ctx context.Context, eventID, memberID string) error
	ListMembersByEventID(ctx context.Context, eventID string) ([]*Member, error)
	Count(ctx context.Context) (int, error)
}

// ParticipationService defines the business logic for event participation.
type ParticipationService interface {
	// Participate returns created=false when the member was already registered.
	Participate(ctx context.Context, eventID, memberID string) (created bool, err error)
	Withdraw(ctx context.Context, eventID, memberID string) error
	ListParticipants(ctx context.Context, eventID string) ([]*Member, error)
}
