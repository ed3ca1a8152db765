package controllers

import (
	"log/slog"
	"net/http"

	h "skkevents/internal/delivery/http/helpers"
	"skkevents/internal/domain"
)

// CreateMemberRequest is the request body for POST /api/members.
// Field rules are enforced by the member service.
type CreateMemberRequest struct {
	FullName      string `json:"full_name"`
	AreaChurch    string `json:"area_church"`
	SimGroup      string `json:"sim_group"`
	ContactNumber string `json:"contact_number"`
	EmailAddress  string `json:"email_address"`
}

func (c CreateMemberRequest) member() *domain.Member {
	return &domain.Member{
		FullName:      c.FullName,
		AreaChurch:    c.AreaChurch,
		SimGroup:      domain.SimGroup(c.SimGroup),
		ContactNumber: c.ContactNumber,
		EmailAddress:  c.EmailAddress,
	}
}

// ListMembersResponse is the data of GET /api/members.
type ListMembersResponse struct {
	Items      []*domain.Member       `json:"items"`
	Pagination h.PaginationMeta `json:"pagination"`
}

type MemberController struct {
	Logger   *slog.Logger
	Service  domain.MemberService
	Reporter domain.ErrorReporter
}

func NewMemberController(logger *slog.Logger, svc domain.MemberService, reporter domain.ErrorReporter) *MemberController {
	return &MemberController{Logger: logger, Service: svc, Reporter: reporter}
}

// ListMembers godoc
// @Summary List members
// @Description Paginated roster ordered by full name.
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /api/members [get]
func (c *MemberController) ListMembers(w http.ResponseWriter, r *http.Request) {
	params := h.ParsePagination(r)
	members, total, err := c.Service.ListMembers(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ListMembersResponse{
		Items:      members,
		Pagination: h.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// CreateMember godoc
// @Summary Add a member
// @Description sim_group is one of Kids, Youth, Young Adults, Adults, Seniors. Aliases such as YoAds, WOW and DIG are accepted.
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateMemberRequest true "Member"
// @Success 201 {object} helpers.APIResponse "data contains Member"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /api/members [post]
func (c *MemberController) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	member := req.member()
	if err := c.Service.CreateMember(r.Context(), member); err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, member)
}

// GetMember godoc
// @Summary Get a member
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains Member"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/members/{id} [get]
func (c *MemberController) GetMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid member id")
		return
	}
	member, err := c.Service.GetMember(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "member not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, member)
}

// ListSimGroups godoc
// @Summary Members grouped by SIM group
// @Description Every group is present, in display order, with its member count.
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains []SimGroupSummary"
// @Router /api/sims [get]
func (c *MemberController) ListSimGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := c.Service.ListSimGroups(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, groups)
}
