package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/catalog-service/internal/events"
	"github.com/storefront/catalog-service/internal/repository"
	apperrors "github.com/storefront/catalog-service/pkg/util"
)

type actorKey struct{}

// WithActor attaches the authenticated user id to ctx so emitted events can
// name who caused them.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func actorFrom(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}

// storeError maps repository failures onto the error taxonomy. Lookups that
// miss become NOT_FOUND for resource; anything unexpected is an upstream failure.
func storeError(err error, resource string, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	default:
		return apperrors.NewUpstreamFailure("document store request failed", err)
	}
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.ActorID == "" {
		event.ActorID = actorFrom(ctx)
	}
	_ = dispatcher.Publish(ctx, event)
}
