package postgres

import (
	"context"
	"database/sql"

	"skkevents/internal/domain"
)

type errorLogRepository struct {
	DB *sql.DB
}

func NewErrorLogRepository(db *sql.DB) domain.ErrorLogRepository {
	return &errorLogRepository{DB: db}
}

func (r *errorLogRepository) Create(ctx context.Context, e *domain.ErrorLog) error {
	query := `
		INSERT INTO error_logs (message, detail, route, method, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, e.Message, e.Detail, e.Route, e.Method, e.CreatedAt).Scan(&e.ID)
}
