package domain

import "context"

// EmailMessage is one outbound message. Bcc recipients are hidden from each other.
type EmailMessage struct {
	To      []string
	Bcc     []string
	Subject string
	HTML    string
	Text    string
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EventInvitationEmailData holds data for the event invitation email.
type EventInvitationEmailData struct {
	EventName   string
	Description string
	Location    string
	Category    string
	Date        string
	StartTime   string
	EndTime     string
	EndDate     string
	MultiDay    bool
}
