package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-hrms/internal/employee"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/events"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Request(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	UpdateStatus(ctx context.Context, leaveID, approverID string, req UpdateLeaveStatusRequest) (LeaveResponse, error)
	GetStatusByID(ctx context.Context, id string) (LeaveStatusResponse, error)
	GetAll(ctx context.Context) ([]LeaveResponse, error)
	GetMine(ctx context.Context, actorID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, employees, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outboxRepo,
		logger:    l,
	}
}

func (s *service) Request(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("leave request received",
		zap.String("request_id", rid),
		zap.String("employee_id", actorID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if !IsValidLeaveType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if endDate.Before(startDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	leaveDays := inclusiveDays(startDate, endDate)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave request begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qEmployees := s.employees.WithTx(tx)

	emp, err := qEmployees.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		s.logger.Error("leave request employee lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if employee.IsDeductibleLeaveType(req.LeaveType) && emp.BalanceFor(req.LeaveType) < leaveDays {
		s.logger.Warn("leave request insufficient balance",
			zap.String("employee_id", actorID),
			zap.String("leave_type", req.LeaveType),
			zap.Int("leave_days", leaveDays),
			zap.Int("balance", emp.BalanceFor(req.LeaveType)),
		)
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
	}

	monthStart, monthEnd := monthBounds(startDate)
	taken, err := qtx.DaysTakenInRange(ctx, actorID, monthStart, monthEnd, nil)
	if err != nil {
		s.logger.Error("leave request cap lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if taken+leaveDays > MonthlyCapDays {
		s.logger.Warn("leave request monthly cap exceeded",
			zap.String("employee_id", actorID),
			zap.Int("taken_days", taken),
			zap.Int("requested_days", leaveDays),
		)
		return LeaveResponse{}, leaveerrors.ErrMonthlyCapExceeded
	}

	l := &LeaveRequest{
		ID:             uuid.New(),
		EmployeeID:     employeeUUID,
		LeaveType:      req.LeaveType,
		StartDate:      startDate,
		EndDate:        endDate,
		LeaveDays:      leaveDays,
		Reason:         req.Reason,
		Status:         StatusPending,
		Level1Approval: StatusPending,
		Level2Approval: StatusPending,
	}
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("leave request persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave request commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request created",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actorID),
		zap.Int("leave_days", leaveDays),
	)
	return mapToResponse(*l), nil
}

func (s *service) UpdateStatus(ctx context.Context, leaveID, approverID string, req UpdateLeaveStatusRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("leave review requested",
		zap.String("request_id", rid),
		zap.String("leave_id", leaveID),
		zap.String("approver_id", approverID),
		zap.String("decision", req.Status),
	)

	if _, err := uuid.Parse(leaveID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrNotAnApprover
	}
	if !IsValidDecision(req.Status) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}
	if req.Status == DecisionRejected && (req.RejectionReason == nil || *req.RejectionReason == "") {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave review begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qEmployees := s.employees.WithTx(tx)

	l, err := qtx.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("leave review lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	emp, err := qEmployees.FindByID(ctx, l.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, err
	}

	level := approverLevel(emp, approverUUID)
	if level == 0 {
		s.logger.Warn("leave review by non-approver",
			zap.String("leave_id", leaveID),
			zap.String("approver_id", approverID),
		)
		return LeaveResponse{}, leaveerrors.ErrNotAnApprover
	}
	if l.IsTerminal() {
		return LeaveResponse{}, leaveerrors.ErrAlreadyReviewed
	}
	if level == 2 && l.Level1Approval != StatusApproved {
		return LeaveResponse{}, leaveerrors.ErrLevel1NotApproved
	}

	reviewed, err := qtx.SetLevelDecision(ctx, leaveID, level, req.Status)
	if err != nil {
		s.logger.Error("leave review level update failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !reviewed {
		s.logger.Warn("leave review lost the race",
			zap.String("leave_id", leaveID),
			zap.Int("level", level),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyReviewed
	}

	finalStatus := StatusPending
	switch {
	case req.Status == DecisionRejected:
		finalStatus = StatusRejected
		finalized, err := qtx.FinalizeStatus(ctx, leaveID, StatusRejected, nil, req.RejectionReason)
		if err != nil {
			s.logger.Error("leave review reject finalize failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if !finalized {
			return LeaveResponse{}, leaveerrors.ErrAlreadyReviewed
		}
		l.RejectionReason = req.RejectionReason

	case level == 1 && !singleTierChain(emp):
		// Two-tier chain: level-1 approved, level-2 still has to act.

	default:
		// Finalizing approval: level-2 approved, or level-1 in a
		// single-tier chain.
		finalStatus = StatusApproved
		if err := s.finalizeApproval(ctx, qtx, qEmployees, l, approverUUID); err != nil {
			return LeaveResponse{}, err
		}
		l.ApprovedBy = &approverUUID
		l.Level2Approval = StatusApproved
	}

	if level == 1 {
		l.Level1Approval = req.Status
	} else {
		l.Level2Approval = req.Status
	}
	l.Status = finalStatus

	if finalStatus != StatusPending {
		if err := s.queueStatusEvent(ctx, tx, rid, l, level); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave review commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave review applied",
		zap.String("request_id", rid),
		zap.String("leave_id", leaveID),
		zap.Int("level", level),
		zap.String("decision", req.Status),
		zap.String("status", finalStatus),
	)
	return mapToResponse(*l), nil
}

// finalizeApproval runs the cap recheck and balance deduction that gate the
// terminal approved status. Any failure rolls back the whole review, the
// level decision included.
func (s *service) finalizeApproval(
	ctx context.Context,
	qtx Repository,
	qEmployees employee.Repository,
	l *LeaveRequest,
	approver uuid.UUID,
) error {
	monthStart, monthEnd := monthBounds(l.StartDate)
	excludeID := l.ID.String()
	taken, err := qtx.DaysTakenInRange(ctx, l.EmployeeID.String(), monthStart, monthEnd, &excludeID)
	if err != nil {
		s.logger.Error("leave approval cap lookup failed", zap.Error(err))
		return err
	}
	if taken+l.LeaveDays > MonthlyCapDays {
		s.logger.Warn("leave approval monthly cap exceeded",
			zap.String("leave_id", l.ID.String()),
			zap.Int("taken_days", taken),
			zap.Int("leave_days", l.LeaveDays),
		)
		return leaveerrors.ErrMonthlyCapExceeded
	}

	deducted, err := qEmployees.ApplyLeaveDeduction(ctx, l.EmployeeID.String(), l.LeaveType, l.LeaveDays)
	if err != nil {
		s.logger.Error("leave approval balance deduction failed", zap.Error(err))
		return err
	}
	if !deducted {
		s.logger.Warn("leave approval insufficient balance",
			zap.String("leave_id", l.ID.String()),
			zap.String("leave_type", l.LeaveType),
			zap.Int("leave_days", l.LeaveDays),
		)
		return leaveerrors.ErrInsufficientBalance
	}

	finalized, err := qtx.FinalizeStatus(ctx, l.ID.String(), StatusApproved, &approver, nil)
	if err != nil {
		s.logger.Error("leave approval finalize failed", zap.Error(err))
		return err
	}
	if !finalized {
		return leaveerrors.ErrAlreadyReviewed
	}
	return nil
}

func (s *service) queueStatusEvent(ctx context.Context, tx *sql.Tx, rid string, l *LeaveRequest, level int) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveStatusChangedEvent{
		EventType:  "leave_status_changed",
		RequestID:  rid,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		Status:     l.Status,
		Level:      level,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave status event failed", zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveStatusChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("leave status event outbox persist failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) GetStatusByID(ctx context.Context, id string) (LeaveStatusResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveStatusResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveStatusResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveStatusResponse{}, err
	}

	resp := LeaveStatusResponse{
		ID:              l.ID.String(),
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		LeaveDays:       l.LeaveDays,
		Reason:          l.Reason,
		Status:          l.Status,
		Level1Approval:  l.Level1Approval,
		Level2Approval:  l.Level2Approval,
		RejectionReason: l.RejectionReason,
	}
	if l.Employee != nil {
		resp.Employee = personSummary(l.Employee)
	}
	if l.ApprovedBy != nil {
		approver, err := s.employees.FindByID(ctx, l.ApprovedBy.String())
		if err == nil {
			resp.ApprovedBy = personSummary(approver)
		}
	}
	return resp, nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetMine(ctx context.Context, actorID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	leaves, err := s.repo.FindAllByEmployee(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("leave request deleted", zap.String("leave_id", id))
	return nil
}

// approverLevel resolves which approval level the actor holds for the
// employee's chain, 0 when they hold none. A single-tier manager always
// resolves to level 1.
func approverLevel(emp *employee.Employee, approver uuid.UUID) int {
	if emp.Level1ReportingManager != nil && *emp.Level1ReportingManager == approver {
		return 1
	}
	if emp.Level2ReportingManager != nil && *emp.Level2ReportingManager == approver {
		return 2
	}
	return 0
}

// singleTierChain reports whether level-1 approval alone finalizes the
// request: either both levels point at the same manager, or no level-2
// manager is assigned.
func singleTierChain(emp *employee.Employee) bool {
	return emp.HasSingleTierApproval() || emp.Level2ReportingManager == nil
}

func inclusiveDays(startDate, endDate time.Time) int {
	return int(endDate.Sub(startDate).Hours()/24) + 1
}

func monthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-24 * time.Hour)
	return start, end
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func personSummary(e *employee.Employee) *PersonSummary {
	return &PersonSummary{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
	}
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		LeaveDays:       l.LeaveDays,
		Reason:          l.Reason,
		Status:          l.Status,
		Level1Approval:  l.Level1Approval,
		Level2Approval:  l.Level2Approval,
		RejectionReason: l.RejectionReason,
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FirstName + " " + l.Employee.LastName
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if !l.CreatedAt.IsZero() {
		resp.CreatedAt = l.CreatedAt.Format(time.RFC3339)
	}
	if !l.UpdatedAt.IsZero() {
		resp.UpdatedAt = l.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
