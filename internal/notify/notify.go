// Package notify is the outbound side channel for order events. Delivery is
// best effort: callers fire notifications asynchronously and a failure never
// rolls back the order that triggered it.
package notify

import (
	"context"
	"log"
)

type OrderLine struct {
	Name      string
	Qty       int
	UnitPrice float64
}

type OrderNotification struct {
	OrderID          string
	CustomerName     string
	CustomerWhatsApp string
	Total            float64
	Items            []OrderLine
}

type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, n OrderNotification) error
}

// LogNotifier stands in when no webhook is configured: the order event is
// still visible in the logs.
type LogNotifier struct{}

func (LogNotifier) NotifyOrderPlaced(_ context.Context, n OrderNotification) error {
	log.Printf("[notify] order %s placed by %s (total %.2f, %d items), webhook not configured",
		n.OrderID, n.CustomerName, n.Total, len(n.Items))
	return nil
}
