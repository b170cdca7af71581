package sales

import (
	"context"

	"go.uber.org/zap"
)

// EventType tags a lifecycle announcement.
type EventType string

const (
	EventSaleCreated        EventType = "SaleCreated"
	EventSaleDeleted        EventType = "SaleDeleted"
	EventSaleStatusChanged  EventType = "SaleStatusChanged"
	EventProductSalePatched EventType = "ProductSalePatched"
)

// Event is the payload announced after a successful persisted mutation.
type Event struct {
	Type        EventType  `json:"type"`
	SaleID      string     `json:"sale_id"`
	Status      SaleStatus `json:"status,omitempty"`
	TotalAmount float64    `json:"total_amount,omitempty"`
	ProductIDs  []string   `json:"product_ids,omitempty"`
}

// Notifier is a fire-and-forget announcement channel. Delivery guarantees
// are the channel's concern; the service logs and moves on when Notify
// fails.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier announces events to the log only. It is the default channel
// when no broker is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a Notifier backed by the given logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event Event) error {
	n.logger.Info("sale event",
		zap.String("type", string(event.Type)),
		zap.String("sale_id", event.SaleID),
		zap.String("status", string(event.Status)),
	)
	return nil
}
