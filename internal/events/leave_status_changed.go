package events

import "time"

const LeaveStatusChangedTopic = "hr.leave.status.v1"

type LeaveStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	Level      int       `json:"level,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
