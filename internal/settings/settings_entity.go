package settings

import (
	"time"

	"github.com/google/uuid"
)

// SettingsRowID pins the single company-wide settings row. Every read and
// write targets this id.
const SettingsRowID = 1

type Announcement struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

type WorkHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type LeavePolicy struct {
	SickLeavePerYear   int `json:"sick_leave_per_year"`
	CasualLeavePerYear int `json:"casual_leave_per_year"`
}

type Settings struct {
	ID int `gorm:"primaryKey"`

	WeekOffDays    []string `gorm:"serializer:json"`
	CustomWeekOffs []string `gorm:"serializer:json"`

	Announcements   []Announcement `gorm:"serializer:json"`
	CompanyHolidays []Holiday      `gorm:"serializer:json"`

	WorkHours   WorkHours   `gorm:"embedded;embeddedPrefix:work_"`
	LeavePolicy LeavePolicy `gorm:"embedded;embeddedPrefix:leave_"`

	LocationLat             float64
	LocationLong            float64
	LocationRange           int
	LocationBasedAttendance bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultSettings is the row created on first access.
func DefaultSettings() *Settings {
	return &Settings{
		ID:          SettingsRowID,
		WeekOffDays: []string{"Saturday", "Sunday"},
		WorkHours:   WorkHours{Start: "09:00", End: "18:00"},
		LeavePolicy: LeavePolicy{
			SickLeavePerYear:   4,
			CasualLeavePerYear: 8,
		},
		LocationRange: 200,
	}
}
