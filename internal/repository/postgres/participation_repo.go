package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"skkevents/internal/domain"
)

type participationRepository struct {
	DB *sql.DB
}

func NewParticipationRepository(db *sql.DB) domain.ParticipationRepository {
	return &participationRepository{DB: db}
}

func (r *participationRepository) Create(ctx context.Context, p *domain.Participation) error {
	query := `
		INSERT INTO participations (member_id, event_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, p.MemberID, p.EventID, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *participationRepository) Delete(ctx context.Context, eventID, memberID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM participations WHERE event_id = $1 AND member_id = $2`, eventID, memberID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *participationRepository) ListMembersByEventID(ctx context.Context, eventID string) ([]*domain.Member, error) {
	query := `
		SELECT m.id, m.full_name, m.area_church, m.sim_group, m.contact_number, m.email_address, m.date_added
		FROM participations p
		JOIN members m ON m.id = p.member_id
		WHERE p.event_id = $1
		ORDER BY m.full_name
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]*domain.Member, 0)
	for rows.Next() {
		m := &domain.Member{}
		var group string
		if err := rows.Scan(&m.ID, &m.FullName, &m.AreaChurch, &group, &m.ContactNumber, &m.EmailAddress, &m.DateAdded); err != nil {
			return nil, err
		}
		m.SimGroup = domain.SimGroup(group)
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *participationRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM participations`).Scan(&n)
	return n, err
}
