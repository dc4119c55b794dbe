package events

import (
	"context"

	"github.com/dhima/catalog-service/internal/storage"
	"github.com/dhima/catalog-service/pkg/clock"
	"go.uber.org/zap"
)

// ChangePublisher abstracts the Kafka publisher for testability.
type ChangePublisher interface {
	Publish(ctx context.Context, e ChangeEvent) error
}

// Notifier forwards committed store changes to the change feed. A failed
// publish is logged and never affects the committed write.
type Notifier struct {
	publisher ChangePublisher
	clock     clock.Clock
	logger    *zap.Logger
}

func NewNotifier(publisher ChangePublisher, clk clock.Clock, logger *zap.Logger) *Notifier {
	return &Notifier{publisher: publisher, clock: clk, logger: logger}
}

// Notify implements storage.ChangeNotifier.
func (n *Notifier) Notify(ctx context.Context, change storage.Change) {
	event := ChangeEvent{
		Collection: change.Collection,
		Action:     string(change.Action),
		ID:         change.ID,
		At:         n.clock.Now(),
	}
	if err := n.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		n.logger.Error("failed to publish change event",
			zap.String("collection", change.Collection),
			zap.String("action", string(change.Action)),
			zap.String("id", change.ID),
			zap.Error(err),
		)
	}
}

var _ storage.ChangeNotifier = (*Notifier)(nil)
