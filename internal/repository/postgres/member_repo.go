package postgres

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"skkevents/internal/domain"
)

var memberColumns = []string{"id", "full_name", "area_church", "sim_group", "contact_number", "email_address", "date_added"}

type memberRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

// NewMemberRepository returns a MemberRepository that builds its queries with squirrel.
func NewMemberRepository(db *sqlx.DB) domain.MemberRepository {
	return &memberRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	query, args, err := r.psql.Insert("members").
		Columns("full_name", "area_church", "sim_group", "contact_number", "email_address", "date_added").
		Values(m.FullName, m.AreaChurch, string(m.SimGroup), m.ContactNumber, m.EmailAddress, m.DateAdded).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRowxContext(ctx, query, args...).Scan(&m.ID)
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query, args, err := r.psql.Select(memberColumns...).From("members").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var m domain.Member
	if err := r.db.GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Member, int, error) {
	countQuery, countArgs, err := r.psql.Select("COUNT(*)").From("members").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query, args, err := r.psql.Select(memberColumns...).From("members").
		OrderBy("full_name ASC", "id ASC").
		Limit(params.Limit()).
		Offset(uint64(params.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	members := make([]*domain.Member, 0)
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *memberRepository) ListBySimGroups(ctx context.Context, groups []domain.SimGroup) ([]*domain.Member, error) {
	members := make([]*domain.Member, 0)
	if len(groups) == 0 {
		return members, nil
	}
	query, args, err := r.psql.Select(memberColumns...).From("members").
		Where(sq.Eq{"sim_group": groupStrings(groups)}).
		OrderBy("full_name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, err
	}
	return members, nil
}

// ListEmails returns addresses of members matching any id or any group, or every member
// when filter.All is set. Members without an address are skipped.
func (r *memberRepository) ListEmails(ctx context.Context, filter domain.MemberEmailFilter) ([]string, error) {
	emails := make([]string, 0)
	if filter.Empty() {
		return emails, nil
	}
	builder := r.psql.Select("email_address").From("members").
		Where(sq.NotEq{"email_address": ""}).
		Where(sq.NotEq{"email_address": nil})
	if !filter.All {
		match := sq.Or{}
		if len(filter.IDs) > 0 {
			match = append(match, sq.Eq{"id": filter.IDs})
		}
		if len(filter.SimGroups) > 0 {
			match = append(match, sq.Eq{"sim_group": groupStrings(filter.SimGroups)})
		}
		builder = builder.Where(match)
	}
	query, args, err := builder.OrderBy("full_name ASC").ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &emails, query, args...); err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *memberRepository) CountBySimGroup(ctx context.Context) (map[domain.SimGroup]int, error) {
	query, args, err := r.psql.Select("sim_group", "COUNT(*) AS total").From("members").GroupBy("sim_group").ToSql()
	if err != nil {
		return nil, err
	}
	var rows []struct {
		SimGroup string `db:"sim_group"`
		Total    int    `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make(map[domain.SimGroup]int, len(rows))
	for _, row := range rows {
		out[domain.SimGroup(row.SimGroup)] = row.Total
	}
	return out, nil
}

func groupStrings(groups []domain.SimGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = string(g)
	}
	return out
}
