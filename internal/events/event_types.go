package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProductCreated  EventType = "product_created"
	EventProductUpdated  EventType = "product_updated"
	EventProductDeleted  EventType = "product_deleted"
	EventCategoryDeleted EventType = "category_deleted"
)

// Event represents a catalog change emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	ActorID    string      `json:"actor_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// ProductChangedPayload accompanies product create and update events.
type ProductChangedPayload struct {
	Title          string `json:"title"`
	CategoryID     string `json:"category_id"`
	ImageCount     int    `json:"image_count"`
	ImagesReplaced bool   `json:"images_replaced,omitempty"`
}

// ProductDeletedPayload payload.
type ProductDeletedPayload struct {
	CategoryID string   `json:"category_id"`
	Images     []string `json:"images"`
}

// CategoryDeletedPayload records how many products were left pointing at
// the removed category.
type CategoryDeletedPayload struct {
	Name             string `json:"name"`
	OrphanedProducts int64  `json:"orphaned_products"`
}
