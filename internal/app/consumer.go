package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer drains the notification topics and hands each event to the
// notifier. Welcome mails, ticket assignments and leave decisions all arrive
// here through the outbox.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	notifier := consumer.NewLogNotifier(logger)

	topics := []string{
		events.EmployeeWelcomeTopic,
		events.LeaveStatusChangedTopic,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readers := make([]*kafkago.Reader, 0, len(topics))
	for _, topic := range topics {
		reader := kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        []string{kafkaBroker},
			Topic:          topic,
			GroupID:        "go-hrms-notifications",
			CommitInterval: 0,
			StartOffset:    kafkago.FirstOffset,
		})
		readers = append(readers, reader)

		go consumer.ConsumeNotifications(ctx, reader, notifier, logger)
	}
	defer func() {
		for _, r := range readers {
			r.Close()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
