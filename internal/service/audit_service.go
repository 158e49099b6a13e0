package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/storefront/catalog-service/internal/events"
)

// AuditService writes an audit log line for every catalog event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventProductCreated, a.handleProductChanged)
	a.dispatcher.Subscribe(events.EventProductUpdated, a.handleProductChanged)
	a.dispatcher.Subscribe(events.EventProductDeleted, a.handleProductDeleted)
	a.dispatcher.Subscribe(events.EventCategoryDeleted, a.handleCategoryDeleted)
}

func (a *AuditService) handleProductChanged(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.ProductChangedPayload)
	a.logger.Info(string(event.Type),
		eventFields(event,
			zap.String("title", payload.Title),
			zap.String("category_id", payload.CategoryID),
			zap.Int("images", payload.ImageCount),
			zap.Bool("images_replaced", payload.ImagesReplaced))...)
	return nil
}

func (a *AuditService) handleProductDeleted(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.ProductDeletedPayload)
	a.logger.Info(string(event.Type),
		eventFields(event,
			zap.String("category_id", payload.CategoryID),
			zap.Int("images", len(payload.Images)))...)
	return nil
}

func (a *AuditService) handleCategoryDeleted(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.CategoryDeletedPayload)
	a.logger.Info(string(event.Type),
		eventFields(event,
			zap.String("name", payload.Name),
			zap.Int64("orphaned_products", payload.OrphanedProducts))...)
	return nil
}

func eventFields(event events.Event, extra ...zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("resource_id", event.ResourceID),
		zap.Time("at", event.Timestamp),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	return append(fields, extra...)
}
