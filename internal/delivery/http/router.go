package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"skkevents/internal/delivery/http/controllers"
	"skkevents/internal/delivery/http/middleware"
	"skkevents/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Event         *controllers.EventController
	Participation *controllers.ParticipationController
	Member        *controllers.MemberController
	Auth          *controllers.AuthController
	Report        *controllers.ReportController
	Health        *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	admin := middleware.RequireAdmin(verifier, logger)

	// Legacy admin form endpoints
	mux.HandleFunc("POST /createEvent", admin(c.Event.CreateEventForm))
	mux.HandleFunc("PUT /editEvent/{id}", admin(c.Event.EditEventForm))
	mux.HandleFunc("DELETE /editEvent/{id}", admin(c.Event.DeleteEventForm))

	// Events
	mux.HandleFunc("GET /api/events", c.Event.ListEvents)
	mux.HandleFunc("GET /api/events.ics", c.Event.Calendar)
	mux.HandleFunc("GET /api/events/{id}", c.Event.GetEvent)
	mux.HandleFunc("POST /api/events", admin(c.Event.CreateEvent))
	mux.HandleFunc("POST /api/events/previous", admin(c.Event.AddPreviousEvent))
	mux.HandleFunc("PUT /api/events/{id}", admin(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /api/events/{id}", admin(c.Event.DeleteEvent))

	// Participation
	mux.HandleFunc("GET /api/events/{id}/participants", c.Participation.ListParticipants)
	mux.HandleFunc("POST /api/events/{id}/participate", admin(c.Participation.Participate))
	mux.HandleFunc("DELETE /api/events/{id}/participate/{memberId}", admin(c.Participation.Withdraw))

	// Members
	mux.HandleFunc("GET /api/members", admin(c.Member.ListMembers))
	mux.HandleFunc("POST /api/members", admin(c.Member.CreateMember))
	mux.HandleFunc("GET /api/members/{id}", admin(c.Member.GetMember))
	mux.HandleFunc("GET /api/sims", admin(c.Member.ListSimGroups))

	// Reports
	mux.HandleFunc("GET /api/reports/summary", admin(c.Report.Summary))

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/logout", c.Auth.Logout)

	mux.HandleFunc("GET /healthz", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with panic recovery, request logging and CORS.
func NewHandler(mux http.Handler, logger *slog.Logger, reporter domain.ErrorReporter, allowedOrigins []string) http.Handler {
	return middleware.CORS(allowedOrigins, middleware.LoggingMiddleware(logger, middleware.Recover(logger, reporter, mux)))
}
