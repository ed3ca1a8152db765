// Command server runs the SKK events admin API.
//
// @title SKK Events API
// @version 1.0
// @description Event scheduling and member invitations for the SKK community. Event times are entered in Manila time and stored in UTC.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT. The auth_token cookie set by /auth/login is accepted as well.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"skkevents/config"
	_ "skkevents/docs"
	"skkevents/internal/adapters/auth"
	"skkevents/internal/adapters/email"
	"skkevents/internal/adapters/ical"
	delivery "skkevents/internal/delivery/http"
	"skkevents/internal/delivery/http/controllers"
	"skkevents/internal/domain"
	"skkevents/internal/repository/postgres"
	"skkevents/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlx.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := postgres.Migrate(ctx, db.DB); err != nil {
		return err
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db.DB)
	memberRepo := postgres.NewMemberRepository(db)
	participationRepo := postgres.NewParticipationRepository(db.DB)
	userRepo := postgres.NewUserRepository(db.DB)
	reporter := services.NewErrorLogService(postgres.NewErrorLogRepository(db.DB), logger)

	// Email
	mailer, err := email.NewMailer(mailerConfig(cfg.Mail), logger)
	if err != nil {
		if !errors.Is(err, domain.ErrTransportUnavailable) {
			return err
		}
		logger.Warn("email disabled; invitations will not be sent", "reason", err)
		mailer = nil
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	dispatcher := services.NewDispatcher(mailer, reporter, logger, services.DispatcherConfig{
		FromAddress:     cfg.Mail.From,
		BatchSize:       cfg.Mail.BatchSize,
		BatchDelay:      cfg.Mail.BatchDelay,
		RateLimitMax:    cfg.Mail.RateLimitMax,
		RateLimitWindow: cfg.Mail.RateLimitWindow,
		SendTimeout:     cfg.Mail.SendTimeout,
	})

	// Services
	timeout := cfg.RequestTimeout
	eventSvc := services.NewEventService(eventRepo,
		services.NewRecipientResolver(memberRepo),
		services.NewInvitationComposer(renderer),
		dispatcher,
		logger,
		timeout,
	)
	memberSvc := services.NewMemberService(memberRepo, timeout)
	participationSvc := services.NewParticipationService(participationRepo, eventRepo, memberRepo, timeout)
	reportSvc := services.NewReportService(eventRepo, memberRepo, participationRepo, timeout)
	authSvc := services.NewAuthService(userRepo, auth.NewBcryptHasher(bcrypt.DefaultCost), auth.NewJWTIssuer(cfg.JWTSecret), cfg.JWTExpiry, timeout)

	mux := delivery.NewRouter(delivery.Controllers{
		Event:         controllers.NewEventController(logger, eventSvc, ical.NewCalendarEncoder(cfg.PublicHost), reporter),
		Participation: controllers.NewParticipationController(logger, participationSvc, reporter),
		Member:        controllers.NewMemberController(logger, memberSvc, reporter),
		Auth:          controllers.NewAuthController(logger, authSvc, reporter, cfg.JWTExpiry, cfg.IsProduction()),
		Report:        controllers.NewReportController(logger, reportSvc, reporter),
		Health:        controllers.NewHealthController(logger, db, cfg.Environment),
	}, auth.NewJWTVerifier(cfg.JWTSecret), logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           delivery.NewHandler(mux, logger, reporter, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Invitation batches are sent inside the create request.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  time.Minute,
	}
	return serve(ctx, srv, logger)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func mailerConfig(m config.MailConfig) email.MailerConfig {
	return email.MailerConfig{
		Provider:    m.Provider,
		FromAddress: m.From,
		FromName:    m.FromName,
		SMTP: email.SMTPConfig{
			Host:     m.Host,
			Port:     m.Port,
			Secure:   m.Secure,
			Username: m.User,
			Password: m.Password,
		},
		SES: email.SESConfig{
			Region:          m.AWSRegion,
			AccessKeyID:     m.AWSAccessKeyID,
			SecretAccessKey: m.AWSSecretAccessKey,
		},
	}
}
