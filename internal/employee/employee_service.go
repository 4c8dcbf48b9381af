package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/rbac"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DefaultSickLeave   = 4
	DefaultCasualLeave = 8
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetMyProfile(ctx context.Context, actorID string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
	BulkImport(ctx context.Context, filename string, file io.Reader) (BulkImportResult, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("department", req.Department),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dateOfJoining, err := parseDateOfJoining(req.DateOfJoining)
	if err != nil {
		s.logger.Warn("create employee invalid date_of_joining",
			zap.String("date_of_joining", req.DateOfJoining),
		)
		return EmployeeResponse{}, err
	}

	level1, level2, err := s.resolveManagerRefs(ctx, qtx, req.Level1ReportingManager, req.Level2ReportingManager)
	if err != nil {
		s.logger.Warn("create employee manager validation failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("create employee hash password failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if req.EmployeeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	empl := &Employee{
		ID:                     uuid.New(),
		EmployeeNumber:         req.EmployeeNumber,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		Email:                  strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:           string(hash),
		Phone:                  req.Phone,
		Address:                req.Address,
		Department:             req.Department,
		Designation:            req.Designation,
		DateOfJoining:          dateOfJoining,
		Salary:                 req.Salary,
		SickLeave:              DefaultSickLeave,
		CasualLeave:            DefaultCasualLeave,
		Level1ReportingManager: level1,
		Level2ReportingManager: level2,
		Role:                   rbac.RoleEmployee,
		Status:                 StatusActive,
	}
	if req.SickLeave != nil {
		empl.SickLeave = *req.SickLeave
	}
	if req.CasualLeave != nil {
		empl.CasualLeave = *req.CasualLeave
	}
	if req.Role != "" {
		empl.Role = req.Role
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.queueWelcomeEvent(ctx, tx, rid, empl); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_number", empl.EmployeeNumber),
	)
	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested")
	emps, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(emps), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*empl), nil
}

func (s *service) GetMyProfile(ctx context.Context, actorID string) (EmployeeResponse, error) {
	return s.GetByID(ctx, actorID)
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.String("employee_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dateOfJoining, err := parseDateOfJoining(req.DateOfJoining)
	if err != nil {
		return EmployeeResponse{}, err
	}

	level1, level2, err := s.resolveManagerRefs(ctx, qtx, req.Level1ReportingManager, req.Level2ReportingManager)
	if err != nil {
		return EmployeeResponse{}, err
	}

	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.FirstName = req.FirstName
	empl.LastName = req.LastName
	empl.Phone = req.Phone
	empl.Address = req.Address
	empl.Department = req.Department
	empl.Designation = req.Designation
	empl.DateOfJoining = dateOfJoining
	empl.Salary = req.Salary
	empl.Level1ReportingManager = level1
	empl.Level2ReportingManager = level2
	if req.SickLeave != nil {
		empl.SickLeave = *req.SickLeave
	}
	if req.CasualLeave != nil {
		empl.CasualLeave = *req.CasualLeave
	}
	if req.Role != "" {
		empl.Role = req.Role
	}
	if req.Status != "" {
		empl.Status = req.Status
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.String("employee_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) BulkImport(ctx context.Context, filename string, file io.Reader) (BulkImportResult, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("bulk import requested",
		zap.String("request_id", rid),
		zap.String("filename", filename),
	)

	rows, err := ParseImportFile(filename, file)
	if err != nil {
		s.logger.Warn("bulk import parse failed", zap.String("filename", filename), zap.Error(err))
		return BulkImportResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("bulk import begin tx failed", zap.Error(err))
		return BulkImportResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	var (
		emps    []*Employee
		skipped []BulkImportRowError
	)
	for i, row := range rows {
		// Data rows start below the header
		rowNum := i + 2
		empl, reason := s.employeeFromRow(ctx, row)
		if reason != "" {
			skipped = append(skipped, BulkImportRowError{Row: rowNum, Reason: reason})
			continue
		}
		emps = append(emps, empl)
	}

	if len(emps) == 0 {
		return BulkImportResult{SkippedRows: skipped}, employeeerrors.ErrEmptyImportFile
	}

	if err := qtx.CreateBatch(ctx, emps); err != nil {
		s.logger.Error("bulk import persist failed", zap.Error(err))
		return BulkImportResult{}, mapRepositoryError(err)
	}

	for _, empl := range emps {
		if err := s.queueWelcomeEvent(ctx, tx, rid, empl); err != nil {
			return BulkImportResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("bulk import commit failed", zap.Error(err))
		return BulkImportResult{}, err
	}

	s.logger.Info("bulk import success",
		zap.String("request_id", rid),
		zap.Int("inserted", len(emps)),
		zap.Int("skipped", len(skipped)),
	)
	return BulkImportResult{
		InsertedCount: len(emps),
		Employees:     mapPtrListToResponse(emps),
		SkippedRows:   skipped,
	}, nil
}

// employeeFromRow builds an Employee from one import row. A non-empty reason
// means the row is skipped rather than failing the whole import.
func (s *service) employeeFromRow(ctx context.Context, row importRow) (*Employee, string) {
	firstName := row.get("first_name")
	email := strings.ToLower(row.get("email"))
	if firstName == "" {
		return nil, "first_name is required"
	}
	if email == "" {
		return nil, "email is required"
	}

	dateOfJoining, err := parseDateOfJoining(row.get("date_of_joining"))
	if err != nil {
		return nil, "invalid date_of_joining, expected YYYY-MM-DD"
	}

	salary := 0.0
	if v := row.get("salary"); v != "" {
		salary, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, "invalid salary"
		}
	}

	sickLeave := DefaultSickLeave
	if v := row.get("sick_leave"); v != "" {
		sickLeave, err = strconv.Atoi(v)
		if err != nil || sickLeave < 0 {
			return nil, "invalid sick_leave"
		}
	}
	casualLeave := DefaultCasualLeave
	if v := row.get("casual_leave"); v != "" {
		casualLeave, err = strconv.Atoi(v)
		if err != nil || casualLeave < 0 {
			return nil, "invalid casual_leave"
		}
	}

	employeeNumber := row.get("employee_number")
	if employeeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
		if err != nil {
			return nil, "could not assign employee number"
		}
		employeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	// Imported accounts without a password column start with the employee
	// number as the initial credential.
	password := row.get("password")
	if password == "" {
		password = employeeNumber
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "could not hash password"
	}

	role := row.get("role")
	if role == "" {
		role = rbac.RoleEmployee
	}

	return &Employee{
		ID:             uuid.New(),
		EmployeeNumber: employeeNumber,
		FirstName:      firstName,
		LastName:       row.get("last_name"),
		Email:          email,
		PasswordHash:   string(hash),
		Phone:          row.get("phone"),
		Address:        row.get("address"),
		Department:     row.get("department"),
		Designation:    row.get("designation"),
		DateOfJoining:  dateOfJoining,
		Salary:         salary,
		SickLeave:      sickLeave,
		CasualLeave:    casualLeave,
		Role:           role,
		Status:         StatusActive,
	}, ""
}

func (s *service) queueWelcomeEvent(ctx context.Context, tx *sql.Tx, rid string, empl *Employee) error {
	if s.outbox == nil {
		return nil
	}

	event := events.EmployeeWelcomeEvent{
		EventType:  "employee_welcome",
		RequestID:  rid,
		EmployeeID: empl.ID.String(),
		Email:      empl.Email,
		FirstName:  empl.FirstName,
		LoginURL:   loginURL(),
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal welcome event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "employee",
		AggregateID:   empl.ID.String(),
		EventType:     event.EventType,
		Topic:         events.EmployeeWelcomeTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("welcome event outbox persist failed",
			zap.String("employee_id", empl.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// resolveManagerRefs validates the approval chain. A level-2 manager without
// a level-1 is rejected outright: such a chain could never clear level 1, so
// every leave request under it would be stuck pending forever.
func (s *service) resolveManagerRefs(ctx context.Context, qtx Repository, level1Raw, level2Raw string) (*uuid.UUID, *uuid.UUID, error) {
	if level1Raw == "" && level2Raw != "" {
		return nil, nil, employeeerrors.ErrOrphanLevel2Manager
	}
	level1, err := s.resolveManagerRef(ctx, qtx, level1Raw)
	if err != nil {
		return nil, nil, err
	}
	level2, err := s.resolveManagerRef(ctx, qtx, level2Raw)
	if err != nil {
		return nil, nil, err
	}
	return level1, level2, nil
}

func (s *service) resolveManagerRef(ctx context.Context, qtx Repository, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, employeeerrors.ErrInvalidManagerRef
	}
	exists, err := qtx.ExistsByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrInvalidManagerRef
		}
		return nil, err
	}
	if !exists {
		return nil, employeeerrors.ErrInvalidManagerRef
	}
	return &id, nil
}

func parseDateOfJoining(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, employeeerrors.ErrInvalidDateOfJoining
	}
	return &t, nil
}

func loginURL() string {
	if v := os.Getenv("APP_LOGIN_URL"); v != "" {
		return v
	}
	return "https://hr.example.com/login"
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:              e.ID.String(),
		EmployeeNumber:  e.EmployeeNumber,
		FirstName:       e.FirstName,
		LastName:        e.LastName,
		Email:           e.Email,
		Phone:           e.Phone,
		Address:         e.Address,
		Department:      e.Department,
		Designation:     e.Designation,
		Salary:          e.Salary,
		SickLeave:       e.SickLeave,
		CasualLeave:     e.CasualLeave,
		TotalLeaveTaken: e.TotalLeaveTaken,
		Role:            e.Role,
		Status:          e.Status,
	}
	if e.DateOfJoining != nil {
		resp.DateOfJoining = e.DateOfJoining.Format("2006-01-02")
	}
	if e.Level1ReportingManager != nil {
		v := e.Level1ReportingManager.String()
		resp.Level1ReportingManager = &v
	}
	if e.Level2ReportingManager != nil {
		v := e.Level2ReportingManager.String()
		resp.Level2ReportingManager = &v
	}
	return resp
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		resp[i] = mapToResponse(e)
	}
	return resp
}

func mapPtrListToResponse(emps []*Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		resp[i] = mapToResponse(*e)
	}
	return resp
}
