package domain

import "time"

type EventType string

const (
	EventProductAdded   EventType = "product.added"
	EventProductUpdated EventType = "product.updated"
	EventProductRemoved EventType = "product.removed"
)

// Event carries the product state right after a committed mutation. For
// removals it is the state the product had before it was deleted.
type Event struct {
	Type       EventType `json:"type"`
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	Price      float64   `json:"price"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType EventType, p Product) Event {
	return Event{
		Type:       eventType,
		ProductID:  p.ID(),
		Name:       p.Name(),
		Quantity:   p.Quantity(),
		Price:      p.Price(),
		OccurredAt: time.Now().UTC(),
	}
}
