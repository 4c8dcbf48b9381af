package events

import "time"

const TicketRaisedTopic = "hr.notification.email.v1"

// TicketRaisedEvent notifies the assignee (and anyone on cc) that a ticket
// was raised against them.
type TicketRaisedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	TicketID   string    `json:"ticket_id"`
	RaisedBy   string    `json:"raised_by"`
	AssignedTo string    `json:"assigned_to"`
	CC         []string  `json:"cc,omitempty"`
	Subject    string    `json:"subject"`
	Priority   string    `json:"priority"`
	OccurredAt time.Time `json:"occurred_at"`
}
