package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=sickLeave casualLeave LWP"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type UpdateLeaveStatusRequest struct {
	Status          string  `json:"status" binding:"required,oneof=approved rejected"`
	RejectionReason *string `json:"rejection_reason"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	LeaveDays       int     `json:"leave_days"`
	Reason          string  `json:"reason,omitempty"`
	Status          string  `json:"status"`
	Level1Approval  string  `json:"level1_approval"`
	Level2Approval  string  `json:"level2_approval"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

// LeaveStatusResponse is the flattened projection served by the status
// endpoint: the request plus minimal employee and approver details.
type LeaveStatusResponse struct {
	ID              string            `json:"id"`
	LeaveType       string            `json:"leave_type"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	LeaveDays       int               `json:"leave_days"`
	Reason          string            `json:"reason,omitempty"`
	Status          string            `json:"status"`
	Level1Approval  string            `json:"level1_approval"`
	Level2Approval  string            `json:"level2_approval"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	Employee        *PersonSummary    `json:"employee,omitempty"`
	ApprovedBy      *PersonSummary    `json:"approved_by,omitempty"`
}

type PersonSummary struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name,omitempty"`
	Email          string `json:"email,omitempty"`
}
