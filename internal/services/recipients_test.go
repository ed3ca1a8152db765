package services

import (
	"context"
	"errors"
	"slices"
	"sort"
	"testing"

	"skkevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMemberRepo is an in-memory MemberRepository for tests.
type fakeMemberRepo struct {
	members     []*domain.Member
	listErr     error
	createErr   error
	emailCalls  []domain.MemberEmailFilter
}

func (f *fakeMemberRepo) Create(ctx context.Context, m *domain.Member) error {
	if f.createErr != nil {
		return f.createErr
	}
	m.ID = "mem-new"
	f.members = append(f.members, m)
	return nil
}

func (f *fakeMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	for _, m := range f.members {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMemberRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Member, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	start := min(params.Offset(), len(f.members))
	end := min(start+params.PageSize, len(f.members))
	return f.members[start:end], len(f.members), nil
}

func (f *fakeMemberRepo) ListBySimGroups(ctx context.Context, groups []domain.SimGroup) ([]*domain.Member, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Member
	for _, m := range f.sorted() {
		if slices.Contains(groups, m.SimGroup) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) ListEmails(ctx context.Context, filter domain.MemberEmailFilter) ([]string, error) {
	f.emailCalls = append(f.emailCalls, filter)
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []string
	for _, m := range f.sorted() {
		if m.EmailAddress == "" {
			continue
		}
		if filter.All || slices.Contains(filter.IDs, m.ID) || slices.Contains(filter.SimGroups, m.SimGroup) {
			out = append(out, m.EmailAddress)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) CountBySimGroup(ctx context.Context) (map[domain.SimGroup]int, error) {
	out := map[domain.SimGroup]int{}
	for _, m := range f.members {
		out[m.SimGroup]++
	}
	return out, nil
}

func (f *fakeMemberRepo) sorted() []*domain.Member {
	out := slices.Clone(f.members)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}

const (
	idAna   = "0b8a4c52-3c2b-4b55-9c3e-1f9a6a1d0001"
	idBen   = "0b8a4c52-3c2b-4b55-9c3e-1f9a6a1d0002"
	idCara  = "0b8a4c52-3c2b-4b55-9c3e-1f9a6a1d0003"
	idDan   = "0b8a4c52-3c2b-4b55-9c3e-1f9a6a1d0004"
	idEve   = "0b8a4c52-3c2b-4b55-9c3e-1f9a6a1d0005"
	idFaith = "0b8a4c52-3c2b-4b55-9c3e-1f9a6a1d0006"
)

func rosterRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: []*domain.Member{
		{ID: idAna, FullName: "Ana", SimGroup: domain.SimKids, EmailAddress: "ana@x.org"},
		{ID: idBen, FullName: "Ben", SimGroup: domain.SimKids, EmailAddress: "ben@x.org"},
		{ID: idCara, FullName: "Cara", SimGroup: domain.SimKids, EmailAddress: "cara@x.org"},
		{ID: idDan, FullName: "Dan", SimGroup: domain.SimKids, EmailAddress: ""},
		{ID: idEve, FullName: "Eve", SimGroup: domain.SimYouth, EmailAddress: "eve@x.org"},
		// Faith shares Ana's household address in a different case.
		{ID: idFaith, FullName: "Faith", SimGroup: domain.SimSeniors, EmailAddress: " ANA@x.org "},
	}}
}

func TestRecipientResolver_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		scope     domain.RecipientScope
		want      []string
		wantQuery bool
	}{
		{
			name:      "all members with email, deduplicated",
			scope:     domain.RecipientScope{All: true},
			want:      []string{"ana@x.org", "ben@x.org", "cara@x.org", "eve@x.org"},
			wantQuery: true,
		},
		{
			name:      "all overrides ids",
			scope:     domain.RecipientScope{All: true, MemberIDs: []string{idEve}},
			want:      []string{"ana@x.org", "ben@x.org", "cara@x.org", "eve@x.org"},
			wantQuery: true,
		},
		{
			name:      "kids group skips member without email",
			scope:     domain.RecipientScope{SimGroups: []domain.SimGroup{domain.SimKids}},
			want:      []string{"ana@x.org", "ben@x.org", "cara@x.org"},
			wantQuery: true,
		},
		{
			name:      "explicit ids with unknown and malformed ids skipped",
			scope:     domain.RecipientScope{MemberIDs: []string{idEve, "0b8a4c52-3c2b-4b55-9c3e-000000000000", "not-a-uuid", idBen}},
			want:      []string{"ben@x.org", "eve@x.org"},
			wantQuery: true,
		},
		{
			name:      "member reachable by id and group appears once",
			scope:     domain.RecipientScope{MemberIDs: []string{idAna, idAna}, SimGroups: []domain.SimGroup{domain.SimKids, "kids"}},
			want:      []string{"ana@x.org", "ben@x.org", "cara@x.org"},
			wantQuery: true,
		},
		{
			name:      "same address on two members sent once",
			scope:     domain.RecipientScope{SimGroups: []domain.SimGroup{domain.SimSeniors, domain.SimKids}},
			want:      []string{"ana@x.org", "ben@x.org", "cara@x.org"},
			wantQuery: true,
		},
		{
			name:      "group alias accepted",
			scope:     domain.RecipientScope{SimGroups: []domain.SimGroup{"DIG"}},
			want:      []string{"ana@x.org"},
			wantQuery: true,
		},
		{
			name:      "no matches",
			scope:     domain.RecipientScope{SimGroups: []domain.SimGroup{domain.SimYoungAdults}},
			want:      []string{},
			wantQuery: true,
		},
		{
			name:  "empty scope",
			scope: domain.RecipientScope{},
			want:  []string{},
		},
		{
			name:  "only invalid ids and groups",
			scope: domain.RecipientScope{MemberIDs: []string{"nope"}, SimGroups: []domain.SimGroup{"Choir"}},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := rosterRepo()
			r := NewRecipientResolver(repo)

			got, err := r.Resolve(context.Background(), tt.scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantQuery, len(repo.emailCalls) == 1)

			seen := map[string]bool{}
			for _, e := range got {
				assert.False(t, seen[e], "duplicate %s", e)
				seen[e] = true
			}
		})
	}
}

func TestRecipientResolver_RepoError(t *testing.T) {
	repo := rosterRepo()
	repo.listErr = errors.New("connection refused")

	_, err := NewRecipientResolver(repo).Resolve(context.Background(), domain.RecipientScope{All: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRecipientResolver_NormalizesFilter(t *testing.T) {
	repo := rosterRepo()
	_, err := NewRecipientResolver(repo).Resolve(context.Background(), domain.RecipientScope{
		MemberIDs: []string{" " + idAna + " ", idAna},
		SimGroups: []domain.SimGroup{"wow", "Adults"},
	})
	require.NoError(t, err)
	require.Len(t, repo.emailCalls, 1)
	assert.Equal(t, []string{idAna}, repo.emailCalls[0].IDs)
	assert.Equal(t, []domain.SimGroup{domain.SimAdults}, repo.emailCalls[0].SimGroups)
	assert.False(t, repo.emailCalls[0].All)
}
