package ticket_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"go-hrms/internal/employee"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/ticket"
	ticketerrors "go-hrms/internal/ticket/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTicketRepository struct {
	createFn    func(ctx context.Context, t *ticket.Ticket) error
	findAllFn   func(ctx context.Context) ([]ticket.Ticket, error)
	byRaiserFn  func(ctx context.Context, raisedByID string) ([]ticket.Ticket, error)
	findByIDFn  func(ctx context.Context, id string) (*ticket.Ticket, error)
	setStatusFn func(ctx context.Context, id, status string, resolution *string) (bool, error)

	created []*ticket.Ticket
}

func (f *fakeTicketRepository) WithTx(tx *sql.Tx) ticket.Repository { return f }

func (f *fakeTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	f.created = append(f.created, t)
	if f.createFn != nil {
		return f.createFn(ctx, t)
	}
	return nil
}

func (f *fakeTicketRepository) FindAll(ctx context.Context) ([]ticket.Ticket, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeTicketRepository) FindAllByRaiser(ctx context.Context, raisedByID string) ([]ticket.Ticket, error) {
	if f.byRaiserFn != nil {
		return f.byRaiserFn(ctx, raisedByID)
	}
	return nil, nil
}

func (f *fakeTicketRepository) FindAllByAssignee(ctx context.Context, toID string) ([]ticket.Ticket, error) {
	return nil, nil
}

func (f *fakeTicketRepository) FindByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTicketRepository) SetStatus(ctx context.Context, id, status string, resolution *string) (bool, error) {
	if f.setStatusFn != nil {
		return f.setStatusFn(ctx, id, status, resolution)
	}
	return true, nil
}

func (f *fakeTicketRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeEmployeeRepository struct {
	existsByIDFn func(ctx context.Context, id string) (bool, error)
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
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if f.existsByIDFn != nil {
		return f.existsByIDFn(ctx, id)
	}
	return true, nil
}
func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error            { return nil }
func (f *fakeEmployeeRepository) ApplyLeaveDeduction(ctx context.Context, employeeID, leaveType string, days int) (bool, error) {
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

type ticketServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	repo      *fakeTicketRepository
	employees *fakeEmployeeRepository
	outbox    *fakeOutbox
	service   ticket.Service
}

func newTicketServiceDeps(t *testing.T) ticketServiceDeps {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakeTicketRepository{}
	employees := &fakeEmployeeRepository{}
	outbox := &fakeOutbox{}
	svc := ticket.NewService(db, repo, employees, outbox)
	return ticketServiceDeps{
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

func TestTicketService_Raise_Success(t *testing.T) {
	deps := newTicketServiceDeps(t)
	expectTx(deps.sqlMock, true)

	raisedBy := uuid.NewString()
	to := uuid.NewString()
	cc := uuid.NewString()

	resp, err := deps.service.Raise(context.Background(), raisedBy, ticket.RaiseTicketRequest{
		Subject:  "Laptop not booting",
		Message:  "Screen stays black after the last update.",
		To:       to,
		CC:       []string{cc},
		Priority: ticket.PriorityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, ticket.StatusPending, resp.Status)
	assert.Equal(t, ticket.PriorityHigh, resp.Priority)
	require.Len(t, deps.repo.created, 1)
	assert.Equal(t, to, deps.repo.created[0].ToID.String())

	require.Len(t, deps.outbox.events, 1)
	assert.Equal(t, "ticket_raised", deps.outbox.events[0].EventType)
	assert.Equal(t, events.TicketRaisedTopic, deps.outbox.events[0].Topic)

	var event events.TicketRaisedEvent
	require.NoError(t, json.Unmarshal(deps.outbox.events[0].Payload, &event))
	assert.Equal(t, to, event.AssignedTo)
	assert.Equal(t, []string{cc}, event.CC)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestTicketService_Raise_UnknownRecipient(t *testing.T) {
	deps := newTicketServiceDeps(t)
	expectTx(deps.sqlMock, false)

	deps.employees.existsByIDFn = func(context.Context, string) (bool, error) {
		return false, nil
	}

	_, err := deps.service.Raise(context.Background(), uuid.NewString(), ticket.RaiseTicketRequest{
		Subject:  "Access request",
		Message:  "Need VPN access.",
		To:       uuid.NewString(),
		Priority: ticket.PriorityLow,
	})

	assert.ErrorIs(t, err, ticketerrors.ErrRecipientNotFound)
	assert.Empty(t, deps.repo.created)
	assert.Empty(t, deps.outbox.events)
}

func TestTicketService_Raise_InvalidPriority(t *testing.T) {
	deps := newTicketServiceDeps(t)

	_, err := deps.service.Raise(context.Background(), uuid.NewString(), ticket.RaiseTicketRequest{
		Subject:  "x",
		Message:  "y",
		To:       uuid.NewString(),
		Priority: "urgent",
	})

	assert.ErrorIs(t, err, ticketerrors.ErrInvalidPriority)
}

func TestTicketService_Raise_MissingSession(t *testing.T) {
	deps := newTicketServiceDeps(t)

	_, err := deps.service.Raise(context.Background(), "", ticket.RaiseTicketRequest{
		Subject:  "x",
		Message:  "y",
		To:       uuid.NewString(),
		Priority: ticket.PriorityModerate,
	})

	assert.ErrorIs(t, err, ticketerrors.ErrInvalidRaiser)
}

func TestTicketService_UpdateStatus_Resolves(t *testing.T) {
	deps := newTicketServiceDeps(t)
	id := uuid.New()

	deps.repo.findByIDFn = func(context.Context, string) (*ticket.Ticket, error) {
		return &ticket.Ticket{ID: id, Status: ticket.StatusPending}, nil
	}

	resolution := "Replaced the battery."
	resp, err := deps.service.UpdateStatus(context.Background(), id.String(), ticket.UpdateTicketStatusRequest{
		Status:     ticket.StatusResolved,
		Resolution: &resolution,
	})
	require.NoError(t, err)

	assert.Equal(t, ticket.StatusResolved, resp.Status)
	require.NotNil(t, resp.Resolution)
	assert.Equal(t, resolution, *resp.Resolution)
}

func TestTicketService_UpdateStatus_ClosedIsImmutable(t *testing.T) {
	deps := newTicketServiceDeps(t)
	id := uuid.New()

	deps.repo.findByIDFn = func(context.Context, string) (*ticket.Ticket, error) {
		return &ticket.Ticket{ID: id, Status: ticket.StatusClosed}, nil
	}

	_, err := deps.service.UpdateStatus(context.Background(), id.String(), ticket.UpdateTicketStatusRequest{
		Status: ticket.StatusResolved,
	})

	assert.ErrorIs(t, err, ticketerrors.ErrTicketClosed)
}

func TestTicketService_UpdateStatus_LosesRaceAgainstClose(t *testing.T) {
	deps := newTicketServiceDeps(t)
	id := uuid.New()

	deps.repo.findByIDFn = func(context.Context, string) (*ticket.Ticket, error) {
		return &ticket.Ticket{ID: id, Status: ticket.StatusPending}, nil
	}
	deps.repo.setStatusFn = func(context.Context, string, string, *string) (bool, error) {
		return false, nil
	}

	_, err := deps.service.UpdateStatus(context.Background(), id.String(), ticket.UpdateTicketStatusRequest{
		Status: ticket.StatusResolved,
	})

	assert.ErrorIs(t, err, ticketerrors.ErrTicketClosed)
}

func TestTicketService_UpdateStatus_NotFound(t *testing.T) {
	deps := newTicketServiceDeps(t)

	_, err := deps.service.UpdateStatus(context.Background(), uuid.NewString(), ticket.UpdateTicketStatusRequest{
		Status: ticket.StatusResolved,
	})

	assert.ErrorIs(t, err, ticketerrors.ErrTicketNotFound)
}

func TestTicketService_GetMine(t *testing.T) {
	deps := newTicketServiceDeps(t)
	raisedBy := uuid.New()

	deps.repo.byRaiserFn = func(_ context.Context, id string) ([]ticket.Ticket, error) {
		assert.Equal(t, raisedBy.String(), id)
		return []ticket.Ticket{
			{ID: uuid.New(), Subject: "A", Status: ticket.StatusPending, RaisedByID: raisedBy},
			{ID: uuid.New(), Subject: "B", Status: ticket.StatusResolved, RaisedByID: raisedBy},
		}, nil
	}

	resp, err := deps.service.GetMine(context.Background(), raisedBy.String())
	require.NoError(t, err)

	require.Len(t, resp, 2)
	assert.Equal(t, "A", resp[0].Subject)
}
