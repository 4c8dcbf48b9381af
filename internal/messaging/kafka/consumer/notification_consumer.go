package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-hrms/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Notifier delivers a decoded event to whatever channel the deployment uses.
// The default implementation only logs; real mail delivery hangs off the same
// interface.
type Notifier interface {
	NotifyWelcome(ctx context.Context, event events.EmployeeWelcomeEvent) error
	NotifyTicketRaised(ctx context.Context, event events.TicketRaisedEvent) error
	NotifyLeaveStatus(ctx context.Context, event events.LeaveStatusChangedEvent) error
}

type envelope struct {
	EventType string `json:"event_type"`
}

// ConsumeNotifications reads one topic until the context is canceled. Messages
// that fail to decode or deliver are logged and committed anyway so a poison
// message cannot wedge the group.
func ConsumeNotifications(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier Notifier,
	logger *zap.Logger,
) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("fetch message failed", zap.Error(err))
			continue
		}

		if err := dispatch(ctx, notifier, msg.Value); err != nil {
			logger.Error("notification dispatch failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("commit failed", zap.Error(err))
		}
	}
}

func dispatch(ctx context.Context, notifier Notifier, payload []byte) error {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return err
	}

	switch env.EventType {
	case "employee_welcome":
		var event events.EmployeeWelcomeEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		return notifier.NotifyWelcome(ctx, event)
	case "ticket_raised":
		var event events.TicketRaisedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		return notifier.NotifyTicketRaised(ctx, event)
	case "leave_status_changed":
		var event events.LeaveStatusChangedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		return notifier.NotifyLeaveStatus(ctx, event)
	default:
		// Unknown event types are skipped, not failed.
		return nil
	}
}

// LogNotifier writes each notification to the log. It stands in for the mail
// sender in environments without SMTP access.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notifier")}
}

func (n *LogNotifier) NotifyWelcome(_ context.Context, event events.EmployeeWelcomeEvent) error {
	n.logger.Info("welcome notification",
		zap.String("employee_id", event.EmployeeID),
		zap.String("email", event.Email),
	)
	return nil
}

func (n *LogNotifier) NotifyTicketRaised(_ context.Context, event events.TicketRaisedEvent) error {
	n.logger.Info("ticket notification",
		zap.String("ticket_id", event.TicketID),
		zap.String("assigned_to", event.AssignedTo),
		zap.String("priority", event.Priority),
	)
	return nil
}

func (n *LogNotifier) NotifyLeaveStatus(_ context.Context, event events.LeaveStatusChangedEvent) error {
	n.logger.Info("leave status notification",
		zap.String("leave_id", event.LeaveID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("status", event.Status),
	)
	return nil
}
