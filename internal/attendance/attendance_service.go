package attendance

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	attendanceerrors "go-hrms/internal/attendance/errors"
	"go-hrms/internal/settings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const earthRadiusMeters = 6371000

// SettingsProvider is the slice of the settings service the attendance rules
// need: the uncached read, so a geofence update is honored immediately.
type SettingsProvider interface {
	GetRaw(ctx context.Context) (*settings.Settings, error)
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, employeeID string, req CheckOutRequest) (AttendanceResponse, error)
	GetMine(ctx context.Context, employeeID string) ([]AttendanceResponse, error)
	GetToday(ctx context.Context) ([]AttendanceResponse, error)
	GetByDate(ctx context.Context, date string) ([]AttendanceResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]AttendanceResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	settings SettingsProvider
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, settingsProvider SettingsProvider, logger ...*zap.Logger) Service {
	return NewServiceWithClock(db, repo, settingsProvider, func() time.Time { return time.Now().UTC() }, logger...)
}

// NewServiceWithClock lets callers pin the clock. Attendance rules are all
// day-boundary sensitive.
func NewServiceWithClock(db *sql.DB, repo Repository, settingsProvider SettingsProvider, now func() time.Time, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		settings: settingsProvider,
		now:      now,
		logger:   l,
	}
}

// CheckIn records today's attendance for the employee. One row per employee
// per day; a second call conflicts. When location-based attendance is on, the
// caller's coordinates must fall inside the configured office radius.
func (s *service) CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	cfg, err := s.settings.GetRaw(ctx)
	if err != nil {
		s.logger.Error("check-in settings load failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	source := SourceManual
	if cfg.LocationBasedAttendance {
		if req.Latitude == nil || req.Longitude == nil {
			return AttendanceResponse{}, attendanceerrors.ErrLocationRequired
		}
		distance := haversineMeters(cfg.LocationLat, cfg.LocationLong, *req.Latitude, *req.Longitude)
		if distance > float64(cfg.LocationRange) {
			s.logger.Warn("check-in outside geofence",
				zap.String("employee_id", employeeID),
				zap.Float64("distance_m", distance),
				zap.Int("range_m", cfg.LocationRange),
			)
			return AttendanceResponse{}, attendanceerrors.ErrOutsideGeofence
		}
		source = SourceGeo
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	existing, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	row := &Attendance{
		ID:             uuid.New(),
		EmployeeID:     empID,
		AttendanceDate: today,
		CheckIn:        now,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Status:         checkInStatus(now, cfg.WorkHours.Start),
		Source:         source,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("check-in persist failed", zap.String("employee_id", employeeID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("checked in",
		zap.String("employee_id", employeeID),
		zap.String("status", row.Status),
	)
	return mapToResponse(*row), nil
}

func (s *service) CheckOut(ctx context.Context, employeeID string, req CheckOutRequest) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, attendanceerrors.ErrNotCheckedIn
	}
	if err != nil {
		return AttendanceResponse{}, err
	}
	if row.CheckOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	row.CheckOut = &now
	if req.Latitude != nil {
		row.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		row.Longitude = req.Longitude
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("check-out persist failed", zap.String("employee_id", employeeID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("checked out", zap.String("employee_id", employeeID))
	return mapToResponse(*row), nil
}

func (s *service) GetMine(ctx context.Context, employeeID string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidEmployeeID
	}
	rows, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapAll(rows), nil
}

func (s *service) GetToday(ctx context.Context) ([]AttendanceResponse, error) {
	today := s.now().Truncate(24 * time.Hour)
	rows, err := s.repo.FindAllByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	return mapAll(rows), nil
}

func (s *service) GetByDate(ctx context.Context, date string) ([]AttendanceResponse, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDate
	}
	rows, err := s.repo.FindAllByDate(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return mapAll(rows), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidEmployeeID
	}
	rows, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapAll(rows), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return attendanceerrors.ErrInvalidAttendanceID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete attendance failed", zap.String("attendance_id", id), zap.Error(err))
		return err
	}
	return nil
}

// checkInStatus marks the row LATE when the check-in lands after the
// configured work-day start.
func checkInStatus(now time.Time, workStart string) string {
	start, err := time.Parse("15:04", workStart)
	if err != nil {
		return StatusPresent
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), start.Hour(), start.Minute(), 0, 0, now.Location())
	if now.After(dayStart) {
		return StatusLate
	}
	return StatusPresent
}

// haversineMeters is the great-circle distance between two coordinates.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		CheckIn:        a.CheckIn.Format(time.RFC3339),
		Latitude:       a.Latitude,
		Longitude:      a.Longitude,
		Status:         a.Status,
		Source:         a.Source,
		Notes:          a.Notes,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FirstName + " " + a.Employee.LastName
	}
	if a.CheckOut != nil {
		v := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	return resp
}

func mapAll(rows []Attendance) []AttendanceResponse {
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
