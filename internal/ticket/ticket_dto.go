package ticket

type RaiseTicketRequest struct {
	Subject  string   `json:"subject" binding:"required,max=200"`
	Message  string   `json:"message" binding:"required"`
	To       string   `json:"to" binding:"required,uuid"`
	CC       []string `json:"cc" binding:"omitempty,dive,uuid"`
	Priority string   `json:"priority" binding:"required,oneof=High Moderate Low"`
}

type UpdateTicketStatusRequest struct {
	Status     string  `json:"status" binding:"required,oneof=pending resolved cantResolve closed"`
	Resolution *string `json:"resolution"`
}

type PersonSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TicketResponse struct {
	ID         string         `json:"id"`
	Subject    string         `json:"subject"`
	Message    string         `json:"message"`
	Priority   string         `json:"priority"`
	Status     string         `json:"status"`
	RaisedBy   *PersonSummary `json:"raised_by,omitempty"`
	To         *PersonSummary `json:"to,omitempty"`
	CC         []string       `json:"cc,omitempty"`
	Resolution *string        `json:"resolution,omitempty"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
}
