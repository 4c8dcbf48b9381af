package attendance

import (
	"time"

	"go-hrms/internal/employee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"

	SourceManual = "MANUAL"
	SourceGeo    = "GEO"
)

type Attendance struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_attendance_employee_date,priority:1"`
	AttendanceDate time.Time  `gorm:"type:date;not null;index;uniqueIndex:uq_attendance_employee_date,priority:2"`
	CheckIn        time.Time  `gorm:"type:timestamptz;not null"`
	CheckOut       *time.Time `gorm:"type:timestamptz"`
	Latitude       *float64
	Longitude      *float64
	Status         string  `gorm:"type:varchar(20);not null;default:PRESENT"`
	Source         string  `gorm:"type:varchar(30);not null;default:MANUAL"`
	Notes          *string `gorm:"type:text"`

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Attendance) TableName() string {
	return "attendances"
}
