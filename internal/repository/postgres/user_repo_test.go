package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"skkevents/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users \(username, email, password_hash, role, created_at\)`).
					WithArgs("pastor", "pastor@skk.org", "hash", "admin", at).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
			},
		},
		{
			name: "duplicate email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			u := &domain.User{Username: "pastor", Email: "pastor@skk.org", PasswordHash: "hash", Role: domain.RoleAdmin, CreatedAt: at}
			err = NewUserRepository(db).Create(ctx, u)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", u.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Lookup(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "username", "email", "password_hash", "role", "created_at"}

	mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
		WithArgs("pastor@skk.org").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("user-1", "pastor", "pastor@skk.org", "hash", "admin", at))
	u, err := repo.GetByEmail(ctx, "pastor@skk.org")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{ID: "user-1", Username: "pastor", Email: "pastor@skk.org", PasswordHash: "hash", Role: "admin", CreatedAt: at}, u)

	mock.ExpectQuery(`FROM users\s+WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
