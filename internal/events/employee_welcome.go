package events

import "time"

const EmployeeWelcomeTopic = "hr.notification.email.v1"

// EmployeeWelcomeEvent asks the notification consumer to send the welcome
// mail for a freshly created account. Delivery is fire-and-forget; the HTTP
// path never waits on it.
type EmployeeWelcomeEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LoginURL   string    `json:"login_url"`
	OccurredAt time.Time `json:"occurred_at"`
}
