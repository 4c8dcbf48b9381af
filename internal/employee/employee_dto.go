package employee

type CreateEmployeeRequest struct {
	EmployeeNumber         string  `json:"employee_number"`
	FirstName              string  `json:"first_name" binding:"required"`
	LastName               string  `json:"last_name"`
	Email                  string  `json:"email" binding:"required,email"`
	Password               string  `json:"password" binding:"required,min=8"`
	Phone                  string  `json:"phone"`
	Address                string  `json:"address"`
	Department             string  `json:"department"`
	Designation            string  `json:"designation"`
	DateOfJoining          string  `json:"date_of_joining"`
	Salary                 float64 `json:"salary"`
	SickLeave              *int    `json:"sick_leave"`
	CasualLeave            *int    `json:"casual_leave"`
	Level1ReportingManager string  `json:"level1_reporting_manager"`
	Level2ReportingManager string  `json:"level2_reporting_manager"`
	Role                   string  `json:"role" binding:"omitempty,oneof=admin hr manager employee"`
}

type UpdateEmployeeRequest struct {
	FirstName              string  `json:"first_name" binding:"required"`
	LastName               string  `json:"last_name"`
	Phone                  string  `json:"phone"`
	Address                string  `json:"address"`
	Department             string  `json:"department"`
	Designation            string  `json:"designation"`
	DateOfJoining          string  `json:"date_of_joining"`
	Salary                 float64 `json:"salary"`
	SickLeave              *int    `json:"sick_leave"`
	CasualLeave            *int    `json:"casual_leave"`
	Level1ReportingManager string  `json:"level1_reporting_manager"`
	Level2ReportingManager string  `json:"level2_reporting_manager"`
	Role                   string  `json:"role" binding:"omitempty,oneof=admin hr manager employee"`
	Status                 string  `json:"status" binding:"omitempty,oneof=active inactive"`
}

type EmployeeResponse struct {
	ID                     string  `json:"id"`
	EmployeeNumber         string  `json:"employee_number"`
	FirstName              string  `json:"first_name"`
	LastName               string  `json:"last_name"`
	Email                  string  `json:"email"`
	Phone                  string  `json:"phone,omitempty"`
	Address                string  `json:"address,omitempty"`
	Department             string  `json:"department,omitempty"`
	Designation            string  `json:"designation,omitempty"`
	DateOfJoining          string  `json:"date_of_joining,omitempty"`
	Salary                 float64 `json:"salary,omitempty"`
	SickLeave              int     `json:"sick_leave"`
	CasualLeave            int     `json:"casual_leave"`
	TotalLeaveTaken        int     `json:"total_leave_taken"`
	Level1ReportingManager *string `json:"level1_reporting_manager,omitempty"`
	Level2ReportingManager *string `json:"level2_reporting_manager,omitempty"`
	Role                   string  `json:"role"`
	Status                 string  `json:"status"`
}

type BulkImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type BulkImportResult struct {
	InsertedCount int                  `json:"inserted_count"`
	Employees     []EmployeeResponse   `json:"employees"`
	SkippedRows   []BulkImportRowError `json:"skipped_rows,omitempty"`
}
