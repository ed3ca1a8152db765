package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skkevents/internal/domain"
)

const eventColumns = `id, name, description, location, category, start_utc, end_utc, expected_attendees,
		created_by, status, minutes_link, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var createdBy sql.NullString
	var status string
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Location, &e.Category, &e.StartUTC, &e.EndUTC, &e.ExpectedAttendees,
		&createdBy, &status, &e.MinutesLink, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		e.CreatedBy = &createdBy.String
	}
	e.Status = domain.EventStatus(status)
	e.StartUTC = e.StartUTC.UTC()
	e.EndUTC = e.EndUTC.UTC()
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, location, category, start_utc, end_utc, expected_attendees,
			created_by, status, minutes_link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Location, e.Category, e.StartUTC.UTC(), e.EndUTC.UTC(), e.ExpectedAttendees,
		nullString(e.CreatedBy), string(e.Status), e.MinutesLink, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, location = $3, category = $4, start_utc = $5, end_utc = $6,
			expected_attendees = $7, status = $8, minutes_link = $9, updated_at = $10
		WHERE id = $11
	`
	res, err := r.DB.ExecContext(ctx, query,
		e.Name, e.Description, e.Location, e.Category, e.StartUTC.UTC(), e.EndUTC.UTC(),
		e.ExpectedAttendees, string(e.Status), e.MinutesLink, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *eventRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE start_utc <= $1 AND end_utc >= $2
		ORDER BY start_utc ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, to.UTC(), from.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountByStatus groups events by the status they read as at now, so upcoming events
// that have started count as previous.
func (r *eventRepository) CountByStatus(ctx context.Context, now time.Time) (map[domain.EventStatus]int, error) {
	query := `
		SELECT CASE WHEN status = 'upcoming' AND start_utc < $1 THEN 'previous' ELSE status END AS effective,
			COUNT(*)
		FROM events
		GROUP BY effective
	`
	rows, err := r.DB.QueryContext(ctx, query, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[domain.EventStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[domain.EventStatus(status)] = n
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
