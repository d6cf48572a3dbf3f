package calendar

import (
	"context"
	"time"
)

// Event is the calendar view of a task.
type Event struct {
	// ID is the existing event id; empty creates a new event.
	ID string
	// TaskID links the event back to its task.
	TaskID      string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// Adapter is the calendar capability used by the task service.
type Adapter interface {
	// UpsertEvent creates the event, or updates it when ev.ID is set,
	// and returns the event id.
	UpsertEvent(ctx context.Context, calendarRef string, ev Event) (string, error)
	// DeleteEvent removes an event. Deleting an event that no longer exists succeeds.
	DeleteEvent(ctx context.Context, calendarRef, eventID string) error
}

// Nop is the adapter used when calendar sync is disabled.
type Nop struct{}

func (Nop) UpsertEvent(ctx context.Context, calendarRef string, ev Event) (string, error) {
	return ev.ID, nil
}

func (Nop) DeleteEvent(ctx context.Context, calendarRef, eventID string) error {
	return nil
}
