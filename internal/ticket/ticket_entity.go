package ticket

import (
	"time"

	"go-hrms/internal/employee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PriorityHigh     = "High"
	PriorityModerate = "Moderate"
	PriorityLow      = "Low"

	StatusPending     = "pending"
	StatusResolved    = "resolved"
	StatusCantResolve = "cantResolve"
	StatusClosed      = "closed"
)

type Ticket struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Subject  string    `gorm:"not null"`
	Message  string    `gorm:"not null"`
	Priority string    `gorm:"not null;default:'Moderate'"`
	Status   string    `gorm:"not null;default:'pending'"`

	RaisedByID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ToID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	CC         []uuid.UUID `gorm:"serializer:json"`

	RaisedBy *employee.Employee `gorm:"foreignKey:RaisedByID"`
	To       *employee.Employee `gorm:"foreignKey:ToID"`

	Resolution *string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Ticket) TableName() string { return "tickets" }

func IsValidPriority(p string) bool {
	return p == PriorityHigh || p == PriorityModerate || p == PriorityLow
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusResolved, StatusCantResolve, StatusClosed:
		return true
	}
	return false
}

// IsTerminal reports whether the ticket can no longer change state.
func (t *Ticket) IsTerminal() bool { return t.Status == StatusClosed }
