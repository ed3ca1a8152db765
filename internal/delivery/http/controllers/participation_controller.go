package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	h "skkevents/internal/delivery/http/helpers"
	"skkevents/internal/domain"
)

// ParticipateRequest is the request body for POST /api/events/{id}/participate.
type ParticipateRequest struct {
	MemberID string `json:"memberId"`
}

// Validate implements Validator.
func (p ParticipateRequest) Validate() []string {
	id := strings.TrimSpace(p.MemberID)
	if id == "" {
		return []string{"memberId required"}
	}
	if _, err := uuid.Parse(id); err != nil {
		return []string{"memberId must be a UUID"}
	}
	return nil
}

// ParticipationResponse is the data of a participate call.
type ParticipationResponse struct {
	EventID  string `json:"event_id"`
	MemberID string `json:"member_id"`
	Message  string `json:"message"`
}

type ParticipationController struct {
	Logger   *slog.Logger
	Service  domain.ParticipationService
	Reporter domain.ErrorReporter
}

func NewParticipationController(logger *slog.Logger, svc domain.ParticipationService, reporter domain.ErrorReporter) *ParticipationController {
	return &ParticipationController{Logger: logger, Service: svc, Reporter: reporter}
}

// Participate godoc
// @Summary Register a member for an event
// @Description Returns 201 when the member is newly registered and 200 when they already were.
// @Tags participation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param body body ParticipateRequest true "Member"
// @Success 201 {object} helpers.APIResponse "data contains ParticipationResponse"
// @Success 200 {object} helpers.APIResponse "already participating"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{id}/participate [post]
func (c *ParticipationController) Participate(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(r, "id")
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid event id")
		return
	}
	var req ParticipateRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	memberID := strings.TrimSpace(req.MemberID)
	created, err := c.Service.Participate(r.Context(), eventID, memberID)
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "Member or event not found")
		return
	}
	resp := ParticipationResponse{EventID: eventID, MemberID: memberID}
	if !created {
		resp.Message = "Already participating"
		h.WriteJSONSuccess(w, http.StatusOK, resp)
		return
	}
	resp.Message = "Participating"
	h.WriteJSONSuccess(w, http.StatusCreated, resp)
}

// Withdraw godoc
// @Summary Remove a member from an event
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param memberId path string true "Member ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{id}/participate/{memberId} [delete]
func (c *ParticipationController) Withdraw(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(r, "id")
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid event id")
		return
	}
	memberID, ok := pathUUID(r, "memberId")
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid member id")
		return
	}
	if err := c.Service.Withdraw(r.Context(), eventID, memberID); err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "Participation not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ParticipationResponse{EventID: eventID, MemberID: memberID, Message: "Participation removed"})
}

// ListParticipants godoc
// @Summary List the members registered for an event
// @Tags participation
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains []Member"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{id}/participants [get]
func (c *ParticipationController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(r, "id")
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid event id")
		return
	}
	members, err := c.Service.ListParticipants(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "event not found")
		return
	}
	if members == nil {
		members = []*domain.Member{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, members)
}
