package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ems-service/internal/events"
)

// NotificationService logs directory events as they are dispatched. Nothing
// is persisted; this is an outbound notification stub, not an audit trail.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEmployeeCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventEmployeeDeleted, n.handleEvent)
	n.dispatcher.Subscribe(events.EventDepartmentCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventDepartmentDeleted, n.handleEvent)
	n.dispatcher.Subscribe(events.EventUserCreated, n.handleEvent)
}

func (n *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	n.logger.Info("directory event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.Any("payload", event.Payload),
	)
	return nil
}
