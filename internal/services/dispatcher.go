package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"skkevents/internal/domain"
)

// Dispatcher defaults.
const (
	DefaultBatchSize   = 50
	DefaultBatchDelay  = 400 * time.Millisecond
	DefaultSendTimeout = 30 * time.Second
)

// DispatcherConfig controls batching and pacing of outbound mail.
type DispatcherConfig struct {
	// FromAddress is used as the visible To address; recipients go in Bcc.
	FromAddress string
	BatchSize   int
	BatchDelay  time.Duration
	// RateLimitMax sends are allowed per RateLimitWindow. Zero disables the limiter.
	RateLimitMax    int
	RateLimitWindow time.Duration
	SendTimeout     time.Duration
}

type dispatcher struct {
	mailer   domain.Mailer
	reporter domain.ErrorReporter
	logger   *slog.Logger
	cfg      DispatcherConfig
	limiter  *rate.Limiter
	sleep    func(time.Duration)
}

// NewDispatcher returns a Dispatcher. A nil mailer means no transport is configured:
// Dispatch then only records the would-be recipient count. reporter may be nil.
func NewDispatcher(mailer domain.Mailer, reporter domain.ErrorReporter, logger *slog.Logger, cfg DispatcherConfig) domain.Dispatcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 0
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	d := &dispatcher{
		mailer:   mailer,
		reporter: reporter,
		logger:   logger,
		cfg:      cfg,
		sleep:    time.Sleep,
	}
	if cfg.RateLimitMax > 0 && cfg.RateLimitWindow > 0 {
		d.limiter = rate.NewLimiter(rate.Every(cfg.RateLimitWindow/time.Duration(cfg.RateLimitMax)), cfg.RateLimitMax)
	}
	return d
}

// Dispatch sends msg to recipients in sequential Bcc batches. A failed batch is recorded
// and the remaining batches are still sent. Cancellation of ctx does not stop a run
// that has started.
func (d *dispatcher) Dispatch(ctx context.Context, recipients []string, msg *domain.EmailMessage) *domain.DispatchReport {
	report := &domain.DispatchReport{
		TotalRecipients:    len(recipients),
		TransportAvailable: d.mailer != nil,
		Errors:             []domain.BatchError{},
	}
	if len(recipients) == 0 {
		return report
	}
	if d.mailer == nil {
		d.logger.WarnContext(ctx, "mail transport not configured, invitations not sent", "recipients", len(recipients))
		return report
	}

	ctx = context.WithoutCancel(ctx)
	batches := partition(recipients, d.cfg.BatchSize)
	for i, batch := range batches {
		if i > 0 && d.cfg.BatchDelay > 0 {
			d.sleep(d.cfg.BatchDelay)
		}
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				d.logger.WarnContext(ctx, "rate limiter wait failed", "err", err)
			}
		}
		report.BatchesAttempted++
		if err := d.send(ctx, batch, msg); err != nil {
			report.BatchesFailed++
			report.Errors = append(report.Errors, domain.BatchError{BatchIndex: i, Err: err})
			d.logger.ErrorContext(ctx, "invitation batch failed", "batch", i, "size", len(batch), "err", err)
			if d.reporter != nil {
				d.reporter.Report(ctx, fmt.Errorf("batch %d: %w", i, err), "dispatch", "SEND")
			}
			continue
		}
		report.BatchesSucceeded++
		d.logger.InfoContext(ctx, "invitation batch sent", "batch", i, "size", len(batch))
	}
	return report
}

func (d *dispatcher) send(ctx context.Context, batch []string, msg *domain.EmailMessage) error {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()
	out := &domain.EmailMessage{
		Bcc:     batch,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}
	if d.cfg.FromAddress != "" {
		out.To = []string{d.cfg.FromAddress}
	}
	return d.mailer.Send(ctx, out)
}

// partition splits items into consecutive chunks of at most size elements.
func partition(items []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	out := make([][]string, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
