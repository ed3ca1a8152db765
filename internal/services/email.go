package services

import (
	"fmt"

	"skkevents/internal/domain"
	"skkevents/internal/localtime"
)

const invitationTemplate = "invitation"

type invitationComposer struct {
	renderer domain.EmailTemplateRenderer
}

// NewInvitationComposer returns an InvitationComposer that renders the "invitation" template.
func NewInvitationComposer(renderer domain.EmailTemplateRenderer) domain.InvitationComposer {
	return &invitationComposer{renderer: renderer}
}

// Compose renders the invitation for event with its times shown in Manila.
func (c *invitationComposer) Compose(event *domain.Event) (*domain.EmailMessage, error) {
	if event == nil {
		return nil, fmt.Errorf("invitation event is nil")
	}
	loc := localtime.Manila()
	start := localtime.ToLocal(event.StartUTC, loc)
	end := localtime.ToLocal(event.EndUTC, loc)
	data := &domain.EventInvitationEmailData{
		EventName:   event.Name,
		Description: event.Description,
		Location:    event.Location,
		Category:    event.Category,
		Date:        start.Date,
		StartTime:   start.Time,
		EndTime:     end.Time,
		EndDate:     end.Date,
		MultiDay:    start.Date != end.Date,
	}
	subject, htmlBody, textBody, err := c.renderer.Render(invitationTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render invitation template: %w", err)
	}
	return &domain.EmailMessage{Subject: subject, HTML: htmlBody, Text: textBody}, nil
}
