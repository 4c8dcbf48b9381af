package settings

type UpdateWeekOffsRequest struct {
	WeekOffDays    []string `json:"week_off_days" binding:"required"`
	CustomWeekOffs []string `json:"custom_week_offs"`
}

type AddAnnouncementRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type AddHolidayRequest struct {
	Date string `json:"date" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type UpdateWorkHoursRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type UpdateLeavePolicyRequest struct {
	SickLeavePerYear   int `json:"sick_leave_per_year" binding:"required,min=0"`
	CasualLeavePerYear int `json:"casual_leave_per_year" binding:"required,min=0"`
}

type UpdateGeofenceRequest struct {
	LocationLat             float64 `json:"location_lat"`
	LocationLong            float64 `json:"location_long"`
	LocationRange           int     `json:"location_range"`
	LocationBasedAttendance bool    `json:"location_based_attendance"`
}

type AnnouncementResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type HolidayResponse struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type SettingsResponse struct {
	WeekOffDays    []string `json:"week_off_days"`
	CustomWeekOffs []string `json:"custom_week_offs,omitempty"`

	Announcements   []AnnouncementResponse `json:"announcements,omitempty"`
	CompanyHolidays []HolidayResponse      `json:"company_holidays,omitempty"`

	WorkHours   WorkHours   `json:"work_hours"`
	LeavePolicy LeavePolicy `json:"leave_policy"`

	LocationLat             float64 `json:"location_lat"`
	LocationLong            float64 `json:"location_long"`
	LocationRange           int     `json:"location_range"`
	LocationBasedAttendance bool    `json:"location_based_attendance"`
}
