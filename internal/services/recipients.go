package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"skkevents/internal/domain"
)

type recipientResolver struct {
	memberRepo domain.MemberRepository
}

// NewRecipientResolver returns a RecipientResolver backed by the member store.
func NewRecipientResolver(memberRepo domain.MemberRepository) domain.RecipientResolver {
	return &recipientResolver{memberRepo: memberRepo}
}

// Resolve returns the unique, non-empty addresses selected by scope, in store order.
// Unknown or malformed member ids are skipped. An empty scope resolves to no addresses.
func (r *recipientResolver) Resolve(ctx context.Context, scope domain.RecipientScope) ([]string, error) {
	filter := domain.MemberEmailFilter{All: scope.All}
	if !scope.All {
		filter.IDs = validMemberIDs(scope.MemberIDs)
		filter.SimGroups = uniqueGroups(scope.SimGroups)
	}
	if filter.Empty() {
		return []string{}, nil
	}
	emails, err := r.memberRepo.ListEmails(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list member emails: %w", err)
	}
	return dedupeEmails(emails), nil
}

func validMemberIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(strings.TrimSpace(id))
		if err != nil {
			continue
		}
		key := parsed.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func uniqueGroups(groups []domain.SimGroup) []domain.SimGroup {
	seen := make(map[domain.SimGroup]struct{}, len(groups))
	out := make([]domain.SimGroup, 0, len(groups))
	for _, g := range groups {
		canonical, ok := domain.ParseSimGroup(string(g))
		if !ok {
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	return out
}

// dedupeEmails trims and lower-cases addresses, dropping empties and repeats while keeping order.
func dedupeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
