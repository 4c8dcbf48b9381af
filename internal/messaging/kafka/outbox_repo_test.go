package kafka_test

import (
	"context"
	"testing"
	"time"

	"go-hrms/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func deliverableEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            "9f2a7c1e-0000-4000-8000-000000000001",
		RequestID:     "req-1",
		AggregateType: "leave_request",
		AggregateID:   "9f2a7c1e-0000-4000-8000-000000000002",
		EventType:     "leave_status_changed",
		Topic:         "hr.leave.status.v1",
		Payload:       []byte(`{"event_type":"leave_status_changed"}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts through the bound transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO outbox_events").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)

		assert.NoError(t, kafka.NewOutboxRepository(db).WithTx(tx).Create(ctx, deliverableEvent()))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative event without a type never reaches the table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := deliverableEvent()
		event.EventType = ""

		err = kafka.NewOutboxRepository(db).Create(ctx, event)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative empty payload", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := deliverableEvent()
		event.Payload = nil

		err = kafka.NewOutboxRepository(db).Create(ctx, event)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_ListPending(t *testing.T) {
	t.Run("polls only events with attempts left", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{
			"id", "aggregate_type", "aggregate_id", "event_type",
			"topic", "payload", "status", "retry_count", "coalesce",
		}).AddRow(
			"9f2a7c1e-0000-4000-8000-000000000001", "leave_request",
			"9f2a7c1e-0000-4000-8000-000000000002", "leave_status_changed",
			"hr.leave.status.v1", []byte(`{}`), kafka.OutboxStatusFailed, 3, time.Now(),
		)

		mock.ExpectQuery("FROM outbox_events").
			WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, kafka.MaxPublishAttempts, 50).
			WillReturnRows(rows)

		events, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 50)

		assert.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, 3, events[0].RetryCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
