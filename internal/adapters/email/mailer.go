package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/wneessen/go-mail"

	"skkevents/internal/domain"
)

// Providers accepted by NewMailer.
const (
	ProviderSMTP = "smtp"
	ProviderSES  = "ses"
	ProviderLog  = "log"
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// SMTPConfig holds configuration for an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SMTP        SMTPConfig
	SES         SESConfig
}

// NewMailer creates a mailer from config. An empty provider means smtp when a host is set.
// It returns domain.ErrTransportUnavailable when no transport is configured, so callers can
// run without email.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))
	if provider == "" && config.SMTP.Host != "" {
		provider = ProviderSMTP
	}
	switch provider {
	case ProviderSMTP:
		return newSMTPMailer(config, logger)
	case ProviderSES:
		return newSESMailer(config, logger)
	case ProviderLog:
		return &logMailer{logger: logger}, nil
	case "":
		return nil, fmt.Errorf("%w: no email provider configured", domain.ErrTransportUnavailable)
	default:
		return nil, fmt.Errorf("%w: unknown email provider %q", domain.ErrTransportUnavailable, config.Provider)
	}
}

type smtpMailer struct {
	client      *mail.Client
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

func newSMTPMailer(config MailerConfig, logger *slog.Logger) (*smtpMailer, error) {
	c := config.SMTP
	if c.Host == "" {
		return nil, fmt.Errorf("%w: smtp host is not set", domain.ErrTransportUnavailable)
	}
	opts := []mail.Option{mail.WithPort(c.Port)}
	if c.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if c.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.Username),
			mail.WithPassword(c.Password),
		)
	}
	client, err := mail.NewClient(c.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	from := config.FromAddress
	if from == "" {
		from = c.Username
	}
	return &smtpMailer{client: client, fromAddress: from, fromName: config.FromName, logger: logger}, nil
}

func (s *smtpMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	m, err := s.buildMsg(msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	s.logger.DebugContext(ctx, "email sent via smtp", "to", len(msg.To), "bcc", len(msg.Bcc))
	return nil
}

func (s *smtpMailer) buildMsg(msg *domain.EmailMessage) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(s.fromName, s.fromAddress); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if len(msg.To) > 0 {
		if err := m.To(msg.To...); err != nil {
			return nil, fmt.Errorf("invalid to address: %w", err)
		}
	}
	if len(msg.Bcc) > 0 {
		if err := m.Bcc(msg.Bcc...); err != nil {
			return nil, fmt.Errorf("invalid bcc address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}
	return m, nil
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

func newSESMailer(config MailerConfig, logger *slog.Logger) (*sesMailer, error) {
	sesConfig := config.SES
	if sesConfig.Region == "" {
		return nil, fmt.Errorf("%w: ses region is not set", domain.ErrTransportUnavailable)
	}
	if sesConfig.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled for SES. Use only in development.")
	}
	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: sesConfig.InsecureSkipVerify,
				MinVersion:         tls.VersionTLS12,
			},
		},
	}
	awsCfg := aws.Config{
		Region: sesConfig.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				sesConfig.AccessKeyID,
				sesConfig.SecretAccessKey,
				"",
			),
		),
		HTTPClient: httpClient,
	}
	return &sesMailer{
		client:      ses.NewFromConfig(awsCfg),
		fromAddress: config.FromAddress,
		fromName:    config.FromName,
		logger:      logger,
	}, nil
}

func (s *sesMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	result, err := s.client.SendEmail(ctx, s.buildInput(msg))
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.logger.DebugContext(ctx, "email sent via SES", "message_id", aws.ToString(result.MessageId))
	return nil
}

func (s *sesMailer) buildInput(msg *domain.EmailMessage) *ses.SendEmailInput {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}
	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses:  msg.To,
			BccAddresses: msg.Bcc,
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}
	if msg.HTML != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(msg.HTML),
			Charset: aws.String("UTF-8"),
		}
	}
	if msg.Text != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(msg.Text),
			Charset: aws.String("UTF-8"),
		}
	}
	return input
}

// logMailer writes messages to the log instead of sending them. Used in development.
type logMailer struct {
	logger *slog.Logger
}

func (l *logMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	l.logger.InfoContext(ctx, "email would be sent", "subject", msg.Subject, "to", msg.To, "bcc", len(msg.Bcc))
	return nil
}
