package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-hrms/internal/employee"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/leave"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn            func(tx *sql.Tx) leave.Repository
	createFn            func(ctx context.Context, l *leave.LeaveRequest) error
	findAllFn           func(ctx context.Context) ([]leave.LeaveRequest, error)
	findAllByEmployeeFn func(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error)
	findByIDFn          func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	daysTakenInRangeFn  func(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (int, error)
	setLevelDecisionFn  func(ctx context.Context, id string, level int, decision string) (bool, error)
	finalizeStatusFn    func(ctx context.Context, id, status string, approvedBy *uuid.UUID, rejectionReason *string) (bool, error)
	deleteFn            func(ctx context.Context, id string) error
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) DaysTakenInRange(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (int, error) {
	if f.daysTakenInRangeFn != nil {
		return f.daysTakenInRangeFn(ctx, employeeID, from, to, excludeID)
	}
	return 0, nil
}

func (f *fakeLeaveRepository) SetLevelDecision(ctx context.Context, id string, level int, decision string) (bool, error) {
	if f.setLevelDecisionFn != nil {
		return f.setLevelDecisionFn(ctx, id, level, decision)
	}
	return true, nil
}

func (f *fakeLeaveRepository) FinalizeStatus(ctx context.Context, id, status string, approvedBy *uuid.UUID, rejectionReason *string) (bool, error) {
	if f.finalizeStatusFn != nil {
		return f.finalizeStatusFn(ctx, id, status, approvedBy, rejectionReason)
	}
	return true, nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeEmployeeRepository struct {
	findByIDFn            func(ctx context.Context, id string) (*employee.Employee, error)
	applyLeaveDeductionFn func(ctx context.Context, employeeID, leaveType string, days int) (bool, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) CreateBatch(ctx context.Context, list []*employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return true, nil
}
func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error            { return nil }
func (f *fakeEmployeeRepository) ApplyLeaveDeduction(ctx context.Context, employeeID, leaveType string, days int) (bool, error) {
	if f.applyLeaveDeductionFn != nil {
		return f.applyLeaveDeductionFn(ctx, employeeID, leaveType, days)
	}
	return true, nil
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type leaveServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	repo      *fakeLeaveRepository
	employees *fakeEmployeeRepository
	outbox    *fakeOutbox
	service   leave.Service
}

func newLeaveServiceDeps(t *testing.T) leaveServiceDeps {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakeLeaveRepository{}
	employees := &fakeEmployeeRepository{}
	outbox := &fakeOutbox{}
	svc := leave.NewServiceWithOutbox(db, repo, employees, outbox)
	return leaveServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		repo:      repo,
		employees: employees,
		outbox:    outbox,
		service:   svc,
	}
}

func expectTx(m sqlmock.Sqlmock, commit bool) {
	m.ExpectBegin()
	if commit {
		m.ExpectCommit()
	} else {
		m.ExpectRollback()
	}
}

func testEmployee(level1, level2 *uuid.UUID) *employee.Employee {
	return &employee.Employee{
		ID:                     uuid.New(),
		EmployeeNumber:         "EMP-000042",
		FirstName:              "Priya",
		LastName:               "Sharma",
		Email:                  "priya@example.com",
		SickLeave:              4,
		CasualLeave:            8,
		Level1ReportingManager: level1,
		Level2ReportingManager: level2,
		Role:                   "employee",
		Status:                 employee.StatusActive,
	}
}

func TestLeaveService_Request(t *testing.T) {
	ctx := context.Background()

	t.Run("success computes inclusive days and starts pending", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, true)

		manager := uuid.New()
		emp := testEmployee(&manager, &manager)
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}

		var created *leave.LeaveRequest
		deps.repo.createFn = func(_ context.Context, l *leave.LeaveRequest) error {
			created = l
			return nil
		}

		resp, err := deps.service.Request(ctx, emp.ID.String(), leave.CreateLeaveRequest{
			LeaveType: employee.LeaveTypeCasual,
			StartDate: "2026-03-10",
			EndDate:   "2026-03-12",
			Reason:    "family function",
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, resp.LeaveDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, leave.StatusPending, resp.Level1Approval)
		assert.Equal(t, leave.StatusPending, resp.Level2Approval)
		assert.NotNil(t, created)
		assert.Equal(t, emp.ID, created.EmployeeID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end date before start date", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)

		_, err := deps.service.Request(ctx, uuid.New().String(), leave.CreateLeaveRequest{
			LeaveType: employee.LeaveTypeCasual,
			StartDate: "2026-03-12",
			EndDate:   "2026-03-10",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)

		_, err := deps.service.Request(ctx, uuid.New().String(), leave.CreateLeaveRequest{
			LeaveType: "paternity",
			StartDate: "2026-03-10",
			EndDate:   "2026-03-11",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})

	t.Run("negative malformed date", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)

		_, err := deps.service.Request(ctx, uuid.New().String(), leave.CreateLeaveRequest{
			LeaveType: employee.LeaveTypeSick,
			StartDate: "10-03-2026",
			EndDate:   "2026-03-11",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative employee not found", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, false)

		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Request(ctx, uuid.New().String(), leave.CreateLeaveRequest{
			LeaveType: employee.LeaveTypeSick,
			StartDate: "2026-03-10",
			EndDate:   "2026-03-11",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("negative insufficient balance rejected before any write", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, false)

		emp := testEmployee(nil, nil)
		emp.SickLeave = 0
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		deps.repo.createFn = func(_ context.Context, l *leave.LeaveRequest) error {
			t.Fatal("create must not run when the balance check fails")
			return nil
		}

		_, err := deps.service.Request(ctx, emp.ID.String(), leave.CreateLeaveRequest{
			LeaveType: employee.LeaveTypeSick,
			StartDate: "2026-03-10",
			EndDate:   "2026-03-10",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
	})

	t.Run("negative monthly cap", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, false)

		emp := testEmployee(nil, nil)
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		deps.repo.daysTakenInRangeFn = func(_ context.Context, _ string, from, to time.Time, _ *string) (int, error) {
			assert.Equal(t, time.March, from.Month())
			assert.Equal(t, 1, from.Day())
			assert.Equal(t, 31, to.Day())
			return 3, nil
		}

		_, err := deps.service.Request(ctx, emp.ID.String(), leave.CreateLeaveRequest{
			LeaveType: employee.LeaveTypeCasual,
			StartDate: "2026-03-10",
			EndDate:   "2026-03-11",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrMonthlyCapExceeded)
	})

	t.Run("LWP skips the balance check", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, true)

		emp := testEmployee(nil, nil)
		emp.SickLeave = 0
		emp.CasualLeave = 0
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}

		resp, err := deps.service.Request(ctx, emp.ID.String(), leave.CreateLeaveRequest{
			LeaveType: employee.LeaveTypeLWP,
			StartDate: "2026-03-10",
			EndDate:   "2026-03-11",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
	})
}

func TestLeaveService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	pendingLeave := func(emp *employee.Employee, leaveType string, days int) *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:             uuid.New(),
			EmployeeID:     emp.ID,
			LeaveType:      leaveType,
			StartDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2026, 3, 10+days-1, 0, 0, 0, 0, time.UTC),
			LeaveDays:      days,
			Status:         leave.StatusPending,
			Level1Approval: leave.StatusPending,
			Level2Approval: leave.StatusPending,
		}
	}

	t.Run("single-tier manager approval finalizes in one step", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, true)

		manager := uuid.New()
		emp := testEmployee(&manager, &manager)
		l := pendingLeave(emp, employee.LeaveTypeCasual, 2)

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}

		var deductedType string
		var deductedDays int
		deps.employees.applyLeaveDeductionFn = func(_ context.Context, _ string, leaveType string, days int) (bool, error) {
			deductedType = leaveType
			deductedDays = days
			return true, nil
		}

		resp, err := deps.service.UpdateStatus(ctx, l.ID.String(), manager.String(), leave.UpdateLeaveStatusRequest{
			Status: leave.DecisionApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, leave.StatusApproved, resp.Level1Approval)
		assert.Equal(t, leave.StatusApproved, resp.Level2Approval)
		assert.Equal(t, employee.LeaveTypeCasual, deductedType)
		assert.Equal(t, 2, deductedDays)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, manager.String(), *resp.ApprovedBy)

		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "leave_status_changed", deps.outbox.events[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("two-tier level-1 approval leaves the request pending", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, true)

		manager1 := uuid.New()
		manager2 := uuid.New()
		emp := testEmployee(&manager1, &manager2)
		l := pendingLeave(emp, employee.LeaveTypeSick, 1)

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		deps.employees.applyLeaveDeductionFn = func(_ context.Context, _, _ string, _ int) (bool, error) {
			t.Fatal("no deduction before the chain completes")
			return false, nil
		}

		resp, err := deps.service.UpdateStatus(ctx, l.ID.String(), manager1.String(), leave.UpdateLeaveStatusRequest{
			Status: leave.DecisionApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, leave.StatusApproved, resp.Level1Approval)
		assert.Equal(t, leave.StatusPending, resp.Level2Approval)
		assert.Empty(t, deps.outbox.events)
	})

	t.Run("level-2 approval after level-1 finalizes and deducts", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, true)

		manager1 := uuid.New()
		manager2 := uuid.New()
		emp := testEmployee(&manager1, &manager2)
		l := pendingLeave(emp, employee.LeaveTypeSick, 2)
		l.Level1Approval = leave.StatusApproved

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}

		deducted := false
		deps.employees.applyLeaveDeductionFn = func(_ context.Context, _, _ string, days int) (bool, error) {
			deducted = true
			assert.Equal(t, 2, days)
			return true, nil
		}

		resp, err := deps.service.UpdateStatus(ctx, l.ID.String(), manager2.String(), leave.UpdateLeaveStatusRequest{
			Status: leave.DecisionApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.True(t, deducted)
	})

	t.Run("level-2 rejection stores the reason and skips deduction", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, true)

		manager1 := uuid.New()
		manager2 := uuid.New()
		emp := testEmployee(&manager1, &manager2)
		l := pendingLeave(emp, employee.LeaveTypeCasual, 1)
		l.Level1Approval = leave.StatusApproved

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		deps.employees.applyLeaveDeductionFn = func(_ context.Context, _, _ string, _ int) (bool, error) {
			t.Fatal("rejection must not touch balances")
			return false, nil
		}

		reason := "scheduling conflict"
		resp, err := deps.service.UpdateStatus(ctx, l.ID.String(), manager2.String(), leave.UpdateLeaveStatusRequest{
			Status:          leave.DecisionRejected,
			RejectionReason: &reason,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Equal(t, leave.StatusRejected, resp.Level2Approval)
		assert.NotNil(t, resp.RejectionReason)
		assert.Equal(t, reason, *resp.RejectionReason)
		assert.Len(t, deps.outbox.events, 1)
	})

	t.Run("negative rejection without reason", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)

		_, err := deps.service.UpdateStatus(ctx, uuid.New().String(), uuid.New().String(), leave.UpdateLeaveStatusRequest{
			Status: leave.DecisionRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonRequired)
	})

	t.Run("negative level-2 cannot act before level-1", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, false)

		manager1 := uuid.New()
		manager2 := uuid.New()
		emp := testEmployee(&manager1, &manager2)
		l := pendingLeave(emp, employee.LeaveTypeCasual, 1)

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}

		_, err := deps.service.UpdateStatus(ctx, l.ID.String(), manager2.String(), leave.UpdateLeaveStatusRequest{
			Status: leave.DecisionApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLevel1NotApproved)
	})

	t.Run("negative reviewer outside the chain", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, false)

		manager := uuid.New()
		emp := testEmployee(&manager, &manager)
		l := pendingLeave(emp, employee.LeaveTypeCasual, 1)

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}

		_, err := deps.service.UpdateStatus(ctx, l.ID.String(), uuid.New().String(), leave.UpdateLeaveStatusRequest{
			Status: leave.DecisionApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrNotAnApprover)
	})

	t.Run("negative concurrent reviewer loses the conditional update", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, false)

		manager1 := uuid.New()
		manager2 := uuid.New()
		emp := testEmployee(&manager1, &manager2)
		l := pendingLeave(emp, employee.LeaveTypeCasual, 1)

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		deps.repo.setLevelDecisionFn = func(_ context.Context, _ string, _ int, _ string) (bool, error) {
			// another review committed between our read and write
			return false, nil
		}

		_, err := deps.service.UpdateStatus(ctx, l.ID.String(), manager1.String(), leave.UpdateLeaveStatusRequest{
			Status: leave.DecisionApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyReviewed)
	})

	t.Run("negative rejection loses the status race", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, false)

		manager1 := uuid.New()
		manager2 := uuid.New()
		emp := testEmployee(&manager1, &manager2)
		l := pendingLeave(emp, employee.LeaveTypeCasual, 1)
		l.Level1Approval = leave.StatusApproved

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		deps.repo.finalizeStatusFn = func(_ context.Context, _, status string, _ *uuid.UUID, _ *string) (bool, error) {
			assert.Equal(t, leave.StatusRejected, status)
			// a concurrent review finalized first
			return false, nil
		}

		reason := "duplicate request"
		_, err := deps.service.UpdateStatus(ctx, l.ID.String(), manager2.String(), leave.UpdateLeaveStatusRequest{
			Status:          leave.DecisionRejected,
			RejectionReason: &reason,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyReviewed)
		assert.Empty(t, deps.outbox.events)
	})

	t.Run("negative terminal request", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, false)

		manager := uuid.New()
		emp := testEmployee(&manager, &manager)
		l := pendingLeave(emp, employee.LeaveTypeCasual, 1)
		l.Status = leave.StatusApproved

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}

		_, err := deps.service.UpdateStatus(ctx, l.ID.String(), manager.String(), leave.UpdateLeaveStatusRequest{
			Status: leave.DecisionApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyReviewed)
	})

	t.Run("negative balance exhausted at approval time", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, false)

		manager := uuid.New()
		emp := testEmployee(&manager, &manager)
		l := pendingLeave(emp, employee.LeaveTypeSick, 3)

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		deps.employees.applyLeaveDeductionFn = func(_ context.Context, _, _ string, _ int) (bool, error) {
			// conditional update found sick_leave < 3
			return false, nil
		}

		_, err := deps.service.UpdateStatus(ctx, l.ID.String(), manager.String(), leave.UpdateLeaveStatusRequest{
			Status: leave.DecisionApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
		assert.Empty(t, deps.outbox.events)
	})

	t.Run("negative monthly cap at approval time", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, false)

		manager := uuid.New()
		emp := testEmployee(&manager, &manager)
		l := pendingLeave(emp, employee.LeaveTypeCasual, 2)

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		deps.repo.daysTakenInRangeFn = func(_ context.Context, _ string, _, _ time.Time, excludeID *string) (int, error) {
			assert.NotNil(t, excludeID)
			assert.Equal(t, l.ID.String(), *excludeID)
			return 3, nil
		}

		_, err := deps.service.UpdateStatus(ctx, l.ID.String(), manager.String(), leave.UpdateLeaveStatusRequest{
			Status: leave.DecisionApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrMonthlyCapExceeded)
	})

	t.Run("negative unknown leave id", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)
		expectTx(deps.sqlMock, false)

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.UpdateStatus(ctx, uuid.New().String(), uuid.New().String(), leave.UpdateLeaveStatusRequest{
			Status: leave.DecisionApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_GetStatusByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success flattens employee and approver", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)

		manager := uuid.New()
		emp := testEmployee(&manager, &manager)
		l := &leave.LeaveRequest{
			ID:             uuid.New(),
			EmployeeID:     emp.ID,
			LeaveType:      employee.LeaveTypeCasual,
			StartDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
			LeaveDays:      2,
			Status:         leave.StatusApproved,
			Level1Approval: leave.StatusApproved,
			Level2Approval: leave.StatusApproved,
			ApprovedBy:     &manager,
			Employee:       emp,
		}

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.employees.findByIDFn = func(_ context.Context, id string) (*employee.Employee, error) {
			assert.Equal(t, manager.String(), id)
			return &employee.Employee{
				ID:        manager,
				FirstName: "Meena",
				Email:     "meena@example.com",
			}, nil
		}

		resp, err := deps.service.GetStatusByID(ctx, l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NotNil(t, resp.Employee)
		assert.Equal(t, "Priya", resp.Employee.FirstName)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, "Meena", resp.ApprovedBy.FirstName)
	})

	t.Run("read is idempotent on an unmutated record", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)

		emp := testEmployee(nil, nil)
		l := &leave.LeaveRequest{
			ID:         uuid.New(),
			EmployeeID: emp.ID,
			LeaveType:  employee.LeaveTypeSick,
			StartDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			LeaveDays:  1,
			Status:     leave.StatusPending,
			Employee:   emp,
		}
		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		first, err1 := deps.service.GetStatusByID(ctx, l.ID.String())
		second, err2 := deps.service.GetStatusByID(ctx, l.ID.String())

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Equal(t, first, second)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)

		deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetStatusByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_GetMine(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)

		actor := uuid.New()
		deps.repo.findAllByEmployeeFn = func(_ context.Context, employeeID string) ([]leave.LeaveRequest, error) {
			assert.Equal(t, actor.String(), employeeID)
			return []leave.LeaveRequest{
				{ID: uuid.New(), EmployeeID: actor, LeaveType: employee.LeaveTypeSick, LeaveDays: 1, Status: leave.StatusPending},
			}, nil
		}

		resp, err := deps.service.GetMine(ctx, actor.String())

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("negative repository failure", func(t *testing.T) {
		deps := newLeaveServiceDeps(t)

		deps.repo.findAllByEmployeeFn = func(_ context.Context, employeeID string) ([]leave.LeaveRequest, error) {
			return nil, errors.New("db down")
		}

		_, err := deps.service.GetMine(ctx, uuid.New().String())

		assert.Error(t, err)
	})
}
