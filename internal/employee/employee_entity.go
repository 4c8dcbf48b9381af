package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeaveTypeSick   = "sickLeave"
	LeaveTypeCasual = "casualLeave"
	LeaveTypeLWP    = "LWP"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number"`
	FirstName      string    `gorm:"type:varchar(100);not null"`
	LastName       string    `gorm:"type:varchar(100)"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	PasswordHash   string    `gorm:"type:varchar(255);not null"`
	Phone          string    `gorm:"type:varchar(30)"`
	Address        string    `gorm:"type:text"`
	Department     string    `gorm:"type:varchar(100);index"`
	Designation    string    `gorm:"type:varchar(100)"`
	DateOfJoining  *time.Time `gorm:"type:date"`
	Salary         float64

	SickLeave       int `gorm:"not null;default:4"`
	CasualLeave     int `gorm:"not null;default:8"`
	TotalLeaveTaken int `gorm:"not null;default:0"`

	Level1ReportingManager *uuid.UUID `gorm:"type:uuid"`
	Level2ReportingManager *uuid.UUID `gorm:"type:uuid"`

	Role   string `gorm:"type:varchar(20);not null;default:'employee'"`
	Status string `gorm:"type:varchar(20);not null;default:'active'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}

// BalanceFor returns the remaining balance for a deductible leave type. LWP
// has no balance and always reports zero.
func (e *Employee) BalanceFor(leaveType string) int {
	switch leaveType {
	case LeaveTypeSick:
		return e.SickLeave
	case LeaveTypeCasual:
		return e.CasualLeave
	default:
		return 0
	}
}

// HasSingleTierApproval reports whether both approval levels resolve to the
// same manager, in which case level-2 auto-approves with level-1.
func (e *Employee) HasSingleTierApproval() bool {
	if e.Level1ReportingManager == nil || e.Level2ReportingManager == nil {
		return false
	}
	return *e.Level1ReportingManager == *e.Level2ReportingManager
}

func IsDeductibleLeaveType(leaveType string) bool {
	return leaveType == LeaveTypeSick || leaveType == LeaveTypeCasual
}
