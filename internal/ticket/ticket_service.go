package ticket

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-hrms/internal/employee"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/shared/contextutil"
	ticketerrors "go-hrms/internal/ticket/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=ticket_service.go -destination=mock/ticket_service_mock.go -package=mock
type Service interface {
	Raise(ctx context.Context, raisedBy string, req RaiseTicketRequest) (TicketResponse, error)
	GetAll(ctx context.Context) ([]TicketResponse, error)
	GetMine(ctx context.Context, raisedBy string) ([]TicketResponse, error)
	GetAssignedToMe(ctx context.Context, assignee string) ([]TicketResponse, error)
	GetByID(ctx context.Context, id string) (TicketResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateTicketStatusRequest) (TicketResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("ticket.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ticket.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outboxRepo,
		logger:    l,
	}
}

func (s *service) Raise(ctx context.Context, raisedBy string, req RaiseTicketRequest) (TicketResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("raise ticket requested",
		zap.String("request_id", rid),
		zap.String("raised_by", raisedBy),
		zap.String("to", req.To),
	)

	raiserID, err := uuid.Parse(raisedBy)
	if err != nil {
		return TicketResponse{}, ticketerrors.ErrInvalidRaiser
	}
	if !IsValidPriority(req.Priority) {
		return TicketResponse{}, ticketerrors.ErrInvalidPriority
	}
	toID, err := uuid.Parse(req.To)
	if err != nil {
		return TicketResponse{}, ticketerrors.ErrRecipientNotFound
	}
	ccIDs, err := parseCC(req.CC)
	if err != nil {
		return TicketResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("raise ticket begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return TicketResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	emps := s.employees.WithTx(tx)

	for _, id := range append([]uuid.UUID{toID}, ccIDs...) {
		exists, err := emps.ExistsByID(ctx, id.String())
		if err != nil {
			s.logger.Error("raise ticket recipient lookup failed",
				zap.String("recipient_id", id.String()),
				zap.Error(err),
			)
			return TicketResponse{}, err
		}
		if !exists {
			return TicketResponse{}, ticketerrors.ErrRecipientNotFound
		}
	}

	t := &Ticket{
		ID:         uuid.New(),
		Subject:    req.Subject,
		Message:    req.Message,
		Priority:   req.Priority,
		Status:     StatusPending,
		RaisedByID: raiserID,
		ToID:       toID,
		CC:         ccIDs,
	}
	if err := qtx.Create(ctx, t); err != nil {
		s.logger.Error("raise ticket persist failed", zap.Error(err))
		return TicketResponse{}, err
	}

	if err := s.queueRaisedEvent(ctx, tx, rid, t); err != nil {
		return TicketResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("raise ticket commit failed", zap.String("request_id", rid), zap.Error(err))
		return TicketResponse{}, err
	}

	s.logger.Info("ticket raised",
		zap.String("ticket_id", t.ID.String()),
		zap.String("priority", t.Priority),
	)
	return mapToResponse(t), nil
}

func (s *service) GetAll(ctx context.Context) ([]TicketResponse, error) {
	tickets, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list tickets failed", zap.Error(err))
		return nil, err
	}
	return mapAll(tickets), nil
}

func (s *service) GetMine(ctx context.Context, raisedBy string) ([]TicketResponse, error) {
	if _, err := uuid.Parse(raisedBy); err != nil {
		return nil, ticketerrors.ErrInvalidRaiser
	}
	tickets, err := s.repo.FindAllByRaiser(ctx, raisedBy)
	if err != nil {
		s.logger.Error("list own tickets failed", zap.String("raised_by", raisedBy), zap.Error(err))
		return nil, err
	}
	return mapAll(tickets), nil
}

func (s *service) GetAssignedToMe(ctx context.Context, assignee string) ([]TicketResponse, error) {
	if _, err := uuid.Parse(assignee); err != nil {
		return nil, ticketerrors.ErrInvalidRaiser
	}
	tickets, err := s.repo.FindAllByAssignee(ctx, assignee)
	if err != nil {
		s.logger.Error("list assigned tickets failed", zap.String("assignee", assignee), zap.Error(err))
		return nil, err
	}
	return mapAll(tickets), nil
}

func (s *service) GetByID(ctx context.Context, id string) (TicketResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TicketResponse{}, ticketerrors.ErrInvalidTicketID
	}

	t, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TicketResponse{}, ticketerrors.ErrTicketNotFound
	}
	if err != nil {
		s.logger.Error("get ticket failed", zap.String("ticket_id", id), zap.Error(err))
		return TicketResponse{}, err
	}
	return mapToResponse(t), nil
}

// UpdateStatus moves the ticket into a new lifecycle state. Closed tickets
// are immutable.
func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateTicketStatusRequest) (TicketResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TicketResponse{}, ticketerrors.ErrInvalidTicketID
	}
	if !IsValidStatus(req.Status) {
		return TicketResponse{}, ticketerrors.ErrInvalidStatus
	}

	t, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TicketResponse{}, ticketerrors.ErrTicketNotFound
	}
	if err != nil {
		return TicketResponse{}, err
	}
	if t.IsTerminal() {
		return TicketResponse{}, ticketerrors.ErrTicketClosed
	}

	updated, err := s.repo.SetStatus(ctx, id, req.Status, req.Resolution)
	if err != nil {
		s.logger.Error("update ticket status failed", zap.String("ticket_id", id), zap.Error(err))
		return TicketResponse{}, err
	}
	if !updated {
		// Lost the race against a close.
		return TicketResponse{}, ticketerrors.ErrTicketClosed
	}

	t.Status = req.Status
	if req.Resolution != nil {
		t.Resolution = req.Resolution
	}

	s.logger.Info("ticket status updated",
		zap.String("ticket_id", id),
		zap.String("status", req.Status),
	)
	return mapToResponse(t), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ticketerrors.ErrInvalidTicketID
	}

	if _, err := s.repo.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return ticketerrors.ErrTicketNotFound
	} else if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete ticket failed", zap.String("ticket_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) queueRaisedEvent(ctx context.Context, tx *sql.Tx, rid string, t *Ticket) error {
	if s.outbox == nil {
		return nil
	}

	cc := make([]string, 0, len(t.CC))
	for _, id := range t.CC {
		cc = append(cc, id.String())
	}

	event := events.TicketRaisedEvent{
		EventType:  "ticket_raised",
		RequestID:  rid,
		TicketID:   t.ID.String(),
		RaisedBy:   t.RaisedByID.String(),
		AssignedTo: t.ToID.String(),
		CC:         cc,
		Subject:    t.Subject,
		Priority:   t.Priority,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal ticket event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "ticket",
		AggregateID:   t.ID.String(),
		EventType:     event.EventType,
		Topic:         events.TicketRaisedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue ticket event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	return nil
}

func parseCC(cc []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(cc))
	for _, raw := range cc {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ticketerrors.ErrRecipientNotFound
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func personSummary(e *employee.Employee) *PersonSummary {
	if e == nil {
		return nil
	}
	return &PersonSummary{
		ID:    e.ID.String(),
		Name:  e.FirstName + " " + e.LastName,
		Email: e.Email,
	}
}

func mapToResponse(t *Ticket) TicketResponse {
	cc := make([]string, 0, len(t.CC))
	for _, id := range t.CC {
		cc = append(cc, id.String())
	}

	return TicketResponse{
		ID:         t.ID.String(),
		Subject:    t.Subject,
		Message:    t.Message,
		Priority:   t.Priority,
		Status:     t.Status,
		RaisedBy:   personSummary(t.RaisedBy),
		To:         personSummary(t.To),
		CC:         cc,
		Resolution: t.Resolution,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  t.UpdatedAt.Format(time.RFC3339),
	}
}

func mapAll(tickets []Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, mapToResponse(&tickets[i]))
	}
	return out
}
