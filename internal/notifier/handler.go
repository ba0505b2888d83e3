// Package notifier turns order events into customer emails.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joao-fontenele/commerce-api/internal/domain"
	"github.com/joao-fontenele/commerce-api/internal/messaging"
)

type OrderNotifier struct {
	mailer Mailer
	logger *slog.Logger
}

func NewOrderNotifier(mailer Mailer, logger *slog.Logger) *OrderNotifier {
	return &OrderNotifier{
		mailer: mailer,
		logger: logger,
	}
}

// Handle emails a confirmation for an order placed event. The consumer feeding
// it filters event types. Payloads that can never be processed are logged and
// acknowledged; only a failed send is returned so the message is retried.
func (n *OrderNotifier) Handle(ctx context.Context, d messaging.Delivery) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(d.Value, &event); err != nil {
		n.logger.Error("skipping malformed order event", "error", err, "event_id", d.EventID, "offset", d.Offset)
		return nil
	}
	if event.BuyerEmail == "" {
		n.logger.Warn("skipping order event without recipient", "order_id", event.OrderID)
		return nil
	}

	n.logger.Info("processing order placed event", "order_id", event.OrderID, "event_id", d.EventID)

	if err := n.mailer.Send(ctx, confirmationEmail(event)); err != nil {
		n.logger.Error("failed to send confirmation email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	n.logger.Info("order confirmation sent", "order_id", event.OrderID)
	return nil
}

func confirmationEmail(event domain.OrderPlacedEvent) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Gracias por tu compra. Tu pedido #%d fue registrado el %s.\n\n",
		event.OrderID, event.PlacedAt.Format("02/01/2006 15:04"))
	for _, l := range event.Lines {
		fmt.Fprintf(&b, "- %s x%d a %.2f\n", l.ProductName, l.Quantity, l.UnitPrice)
	}
	fmt.Fprintf(&b, "\nTotal: %.2f\n", event.Total)

	return Email{
		To:      event.BuyerEmail,
		Subject: fmt.Sprintf("Confirmacion de pedido #%d", event.OrderID),
		Body:    b.String(),
	}
}
