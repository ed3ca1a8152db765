package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"skkevents/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberRowColumns = []string{"id", "full_name", "area_church", "sim_group", "contact_number", "email_address", "date_added"}

func newMemberRepoMock(t *testing.T) (domain.MemberRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMemberRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestMemberRepository_Create(t *testing.T) {
	repo, mock := newMemberRepoMock(t)
	added := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	m := &domain.Member{FullName: "Ana", AreaChurch: "QC", SimGroup: domain.SimKids, EmailAddress: "ana@x.org", DateAdded: added}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO members (full_name,area_church,sim_group,contact_number,email_address,date_added) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`)).
		WithArgs("Ana", "QC", "Kids", "", "ana@x.org", added).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mem-1"))

	require.NoError(t, repo.Create(context.Background(), m))
	assert.Equal(t, "mem-1", m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_GetByID(t *testing.T) {
	repo, mock := newMemberRepoMock(t)
	added := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, full_name, area_church, sim_group, contact_number, email_address, date_added FROM members WHERE id = $1`)).
		WithArgs("mem-1").
		WillReturnRows(sqlmock.NewRows(memberRowColumns).AddRow("mem-1", "Ana", "QC", "Young Adults", "09171234567", "ana@x.org", added))
	mock.ExpectQuery(`FROM members WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	m, err := repo.GetByID(context.Background(), "mem-1")
	require.NoError(t, err)
	assert.Equal(t, &domain.Member{
		ID: "mem-1", FullName: "Ana", AreaChurch: "QC", SimGroup: domain.SimYoungAdults,
		ContactNumber: "09171234567", EmailAddress: "ana@x.org", DateAdded: added,
	}, m)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_List(t *testing.T) {
	repo, mock := newMemberRepoMock(t)
	added := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM members`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM members ORDER BY full_name ASC, id ASC LIMIT 5 OFFSET 5`)).
		WillReturnRows(sqlmock.NewRows(memberRowColumns).
			AddRow("mem-6", "Faith", "QC", "Seniors", "", "", added).
			AddRow("mem-7", "Gabe", "QC", "Youth", "", "gabe@x.org", added))

	members, total, err := repo.List(context.Background(), domain.PaginationParams{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, members, 2)
	assert.Equal(t, domain.SimSeniors, members[0].SimGroup)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_ListEmails(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.MemberEmailFilter
		query  string
		args   []driver.Value
	}{
		{
			name:   "all members",
			filter: domain.MemberEmailFilter{All: true, IDs: []string{"ignored"}},
			query:  `SELECT email_address FROM members WHERE email_address <> $1 AND email_address IS NOT NULL ORDER BY full_name ASC`,
			args:   []driver.Value{""},
		},
		{
			name:   "ids only",
			filter: domain.MemberEmailFilter{IDs: []string{"m1", "m2"}},
			query:  `WHERE email_address <> $1 AND email_address IS NOT NULL AND (id IN ($2,$3)) ORDER BY full_name ASC`,
			args:   []driver.Value{"", "m1", "m2"},
		},
		{
			name:   "ids or groups",
			filter: domain.MemberEmailFilter{IDs: []string{"m1"}, SimGroups: []domain.SimGroup{domain.SimKids, domain.SimYouth}},
			query:  `AND (id IN ($2) OR sim_group IN ($3,$4)) ORDER BY full_name ASC`,
			args:   []driver.Value{"", "m1", "Kids", "Youth"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMemberRepoMock(t)
			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows([]string{"email_address"}).AddRow("ana@x.org").AddRow("ben@x.org"))

			got, err := repo.ListEmails(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, []string{"ana@x.org", "ben@x.org"}, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMemberRepository_ListEmails_EmptyFilter(t *testing.T) {
	repo, mock := newMemberRepoMock(t)

	got, err := repo.ListEmails(context.Background(), domain.MemberEmailFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_ListBySimGroups(t *testing.T) {
	repo, mock := newMemberRepoMock(t)
	added := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM members WHERE sim_group IN ($1,$2) ORDER BY full_name ASC`)).
		WithArgs("Kids", "Adults").
		WillReturnRows(sqlmock.NewRows(memberRowColumns).AddRow("mem-1", "Ana", "QC", "Kids", "", "", added))

	members, err := repo.ListBySimGroups(context.Background(), []domain.SimGroup{domain.SimKids, domain.SimAdults})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Ana", members[0].FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_CountBySimGroup(t *testing.T) {
	repo, mock := newMemberRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT sim_group, COUNT(*) AS total FROM members GROUP BY sim_group`)).
		WillReturnRows(sqlmock.NewRows([]string{"sim_group", "total"}).AddRow("Kids", 4).AddRow("Youth", 2))

	got, err := repo.CountBySimGroup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[domain.SimGroup]int{domain.SimKids: 4, domain.SimYouth: 2}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
