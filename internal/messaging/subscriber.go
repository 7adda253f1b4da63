package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tableside/internal/logger"
	"tableside/internal/models"
)

// Subscriber consumes the notifications fanout and logs each event in a
// human-readable form. It backs the notification-subscriber service mode.
type Subscriber struct {
	conn   *Connection
	logger *logger.Logger
}

// NewSubscriber creates a subscriber bound to the notifications queue.
func NewSubscriber(conn *Connection, log *logger.Logger) *Subscriber {
	return &Subscriber{
		conn:   conn,
		logger: log,
	}
}

// Run consumes notifications until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	deliveries, err := s.conn.Channel().Consume(
		NotificationsQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", NotificationsQueue, err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case delivery, ok := <-deliveries:
				if !ok {
					return fmt.Errorf("notifications channel closed")
				}
				s.handle(delivery.Body)
				if err := delivery.Ack(false); err != nil {
					s.logger.Error("message_ack_failed", "Failed to ack notification", "", err, nil)
				}
			}
		}
	})

	return g.Wait()
}

func (s *Subscriber) handle(body []byte) {
	var event models.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Error("notification_parse_failed", "Discarding unparseable notification", "", err, nil)
		return
	}

	switch event.EventType {
	case models.EventOrderCreated:
		s.logger.Info("order_notification",
			fmt.Sprintf("Order #%d created for %s (%s), total %s",
				event.OrderID, event.BuyerName, event.OrderType, event.OrderTotal.StringFixed(2)),
			"", nil)
	case models.EventOrderStatusChanged:
		s.logger.Info("order_notification",
			fmt.Sprintf("Order #%d moved %s -> %s", event.OrderID, event.OldStatus, event.NewStatus),
			"", nil)
	case models.EventTableCheckedOut:
		var checkout models.CheckoutEvent
		if err := json.Unmarshal(body, &checkout); err == nil {
			s.logger.Info("table_notification",
				fmt.Sprintf("Table %s checked out: %d orders settled, total %s",
					checkout.TableCode, checkout.OrdersCount, checkout.Total.StringFixed(2)),
				"", nil)
		}
	default:
		s.logger.Debug("notification_skipped", "Unknown event type", "", map[string]any{
			"event_type": event.EventType,
		})
	}
}
