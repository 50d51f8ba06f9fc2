// Package notification consumes status-update messages from the
// notifications fanout and prints human-readable updates.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"pizzeria/internal/logger"
	"pizzeria/internal/messaging"
	"pizzeria/internal/models"
)

// Subscriber consumes status updates and renders them for the console.
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
	out      io.Writer
}

// NewSubscriber creates a subscriber writing notifications to stdout.
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{consumer: consumer, logger: log, out: os.Stdout}
}

// Start consumes until the context is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", requestID, "Notification subscriber started", nil)

	if err := s.consumer.StartConsuming(ctx, s.handleNotification); err != nil {
		s.logger.Error("consumer_failed", requestID, "Notification consumer failed", err, nil)
		return err
	}
	return nil
}

// Close shuts the consumer down.
func (s *Subscriber) Close() error {
	if s.consumer != nil {
		return s.consumer.Close()
	}
	return nil
}

func (s *Subscriber) handleNotification(_ context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var update models.StatusUpdateMessage
	if err := json.Unmarshal(body, &update); err != nil {
		s.logger.Error("message_parsing_failed", requestID, "Failed to parse notification message", err, nil)
		return fmt.Errorf("failed to parse notification: %w", err)
	}

	fmt.Fprintln(s.out, FormatNotification(&update))

	s.logger.Debug("notification_displayed", requestID, "Status update displayed",
		map[string]interface{}{
			"order_number": update.OrderNumber,
			"old_status":   string(update.OldStatus),
			"new_status":   string(update.NewStatus),
			"changed_by":   update.ChangedBy,
		})
	return nil
}

// FormatNotification renders one status update as a customer-facing
// line of text.
func FormatNotification(update *models.StatusUpdateMessage) string {
	timestamp := update.Timestamp.Format("2006-01-02 15:04:05")

	switch update.NewStatus {
	case models.StatusPreparing:
		if update.EstimatedMinutes != nil {
			return fmt.Sprintf("[%s] Order #%d is being prepared. Estimated time: %d minutes.",
				timestamp, update.OrderNumber, *update.EstimatedMinutes)
		}
		return fmt.Sprintf("[%s] Order #%d is being prepared.", timestamp, update.OrderNumber)
	case models.StatusReady:
		return fmt.Sprintf("[%s] Order #%d is ready!", timestamp, update.OrderNumber)
	case models.StatusDelivering:
		if update.EstimatedMinutes != nil {
			return fmt.Sprintf("[%s] Order #%d is out for delivery. Arriving in about %d minutes.",
				timestamp, update.OrderNumber, *update.EstimatedMinutes)
		}
		return fmt.Sprintf("[%s] Order #%d is out for delivery.", timestamp, update.OrderNumber)
	case models.StatusDelivered:
		return fmt.Sprintf("[%s] Order #%d has been delivered. Enjoy your meal!", timestamp, update.OrderNumber)
	case models.StatusCancelled:
		return fmt.Sprintf("[%s] Order #%d has been cancelled.", timestamp, update.OrderNumber)
	default:
		return fmt.Sprintf("[%s] Order #%d status changed from %q to %q by %s.",
			timestamp, update.OrderNumber, update.OldStatus, update.NewStatus, update.ChangedBy)
	}
}
