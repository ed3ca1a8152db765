package domain

import "context"

// ReportSummary is the dashboard overview.
// swagger:model ReportSummary
type ReportSummary struct {
	EventsByStatus     map[EventStatus]int `json:"events_by_status"`
	MembersBySimGroup  map[SimGroup]int    `json:"members_by_sim_group"`
	TotalMembers       int                 `json:"total_members"`
	TotalParticipation int                 `json:"total_participation"`
}

// ReportService builds reporting views.
type ReportService interface {
	Summary(ctx context.Context) (*ReportSummary, error)
}
