package domain

import (
	"context"
	"encoding/json"
)

// RecipientScope selects who is invited to an event. All wins over the other fields;
// MemberIDs and SimGroups may be combined.
type RecipientScope struct {
	All       bool
	MemberIDs []string
	SimGroups []SimGroup
}

// Empty reports whether the scope selects nobody.
func (s RecipientScope) Empty() bool {
	return !s.All && len(s.MemberIDs) == 0 && len(s.SimGroups) == 0
}

// RecipientResolver turns a scope into a deduplicated list of email addresses.
type RecipientResolver interface {
	Resolve(ctx context.Context, scope RecipientScope) ([]string, error)
}

// BatchError records the failure of a single batch send.
type BatchError struct {
	BatchIndex int
	Err        error
}

// MarshalJSON renders the error as its message.
func (b BatchError) MarshalJSON() ([]byte, error) {
	msg := ""
	if b.Err != nil {
		msg = b.Err.Error()
	}
	return json.Marshal(struct {
		BatchIndex int    `json:"batch_index"`
		Error      string `json:"error"`
	}{b.BatchIndex, msg})
}

// DispatchReport summarizes a notification run.
// swagger:model DispatchReport
type DispatchReport struct {
	TotalRecipients    int          `json:"total_recipients"`
	TransportAvailable bool         `json:"transport_available"`
	BatchesAttempted   int          `json:"batches_attempted"`
	BatchesSucceeded   int          `json:"batches_succeeded"`
	BatchesFailed      int          `json:"batches_failed"`
	Errors             []BatchError `json:"errors"`
}

// Dispatcher sends a message to recipients in blind-copy batches.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipients []string, msg *EmailMessage) *DispatchReport
}

// InvitationComposer builds the invitation message for an event.
type InvitationComposer interface {
	Compose(event *Event) (*EmailMessage, error)
}
