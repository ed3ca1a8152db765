package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	h "skkevents/internal/delivery/http/helpers"
)

// Pinger is satisfied by *sql.DB and *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the data of GET /healthz.
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Database    string `json:"database"`
}

type HealthController struct {
	Logger      *slog.Logger
	DB          Pinger
	Environment string
}

func NewHealthController(logger *slog.Logger, db Pinger, env string) *HealthController {
	return &HealthController{Logger: logger, DB: db, Environment: env}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains HealthResponse"
// @Failure 503 {object} helpers.APIResponse "error.code: internal_error"
// @Router /healthz [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := c.DB.PingContext(ctx); err != nil {
		c.Logger.WarnContext(r.Context(), "database ping failed", "err", err)
		h.WriteJSONError(w, http.StatusServiceUnavailable, h.ErrCodeInternalError, "database unavailable")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "available", Environment: c.Environment, Database: "ok"})
}
