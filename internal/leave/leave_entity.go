package leave

import (
	"time"

	"go-hrms/internal/employee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// MonthlyCapDays is the maximum cumulative leave-days an employee may take
// within one calendar month, counted across non-rejected requests.
const MonthlyCapDays = 4

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`
	LeaveType  string    `gorm:"type:varchar(20);not null"`
	StartDate  time.Time `gorm:"type:date;not null"`
	EndDate    time.Time `gorm:"type:date;not null"`
	LeaveDays  int       `gorm:"not null"`
	Reason     string    `gorm:"type:text"`

	Status         string `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`
	Level1Approval string `gorm:"type:varchar(20);not null;default:'pending'"`
	Level2Approval string `gorm:"type:varchar(20);not null;default:'pending'"`

	RejectionReason *string    `gorm:"type:text"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

// IsTerminal reports whether the request can no longer be reviewed.
func (l *LeaveRequest) IsTerminal() bool {
	return l.Status == StatusApproved || l.Status == StatusRejected
}

func IsValidLeaveType(leaveType string) bool {
	switch leaveType {
	case employee.LeaveTypeSick, employee.LeaveTypeCasual, employee.LeaveTypeLWP:
		return true
	default:
		return false
	}
}

func IsValidDecision(decision string) bool {
	return decision == DecisionApproved || decision == DecisionRejected
}
