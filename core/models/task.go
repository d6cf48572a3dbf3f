package models

import (
	"fmt"
	"strings"
	"time"
)

// Category is the kind of a task.
type Category string

const (
	CategoryHomework Category = "homework"
	CategoryProject  Category = "project"
	CategoryExam     Category = "exam"
	CategoryOther    Category = "other"
)

// ParseCategory converts a string to a Category, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryHomework, CategoryProject, CategoryExam, CategoryOther:
		return c, nil
	default:
		return "", fmt.Errorf("unknown task category %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ParseStatus converts a string to a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("unknown task status %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Task is a single assignment or to-do.
// CompletedAt is set if and only if Status is StatusCompleted.
type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    Category   `json:"category"`
	DueDate     time.Time  `json:"dueDate"`
	ReminderAt  *time.Time `json:"reminderAt,omitempty"`
	Status      Status     `json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	GroupID     *string    `json:"groupId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	// NotificationID is the scheduler handle of the pending reminder, if any.
	NotificationID string `json:"notificationId,omitempty"`
	// CalendarEventID is the id of the mirrored calendar event, if any.
	CalendarEventID string `json:"calendarEventId,omitempty"`
}

// NewTask builds a pending task, enforcing the required fields.
func NewTask(id, ownerID, title string, category Category, due, now time.Time) (Task, error) {
	if id == "" || ownerID == "" {
		return Task{}, fmt.Errorf("task requires id and owner")
	}
	if strings.TrimSpace(title) == "" {
		return Task{}, fmt.Errorf("task title is required")
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return Task{}, err
	}
	return Task{
		ID:        id,
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(title),
		Category:  category,
		DueDate:   due,
		Status:    StatusPending,
		CreatedAt: now,
	}, nil
}

// Complete marks the task completed at the given time.
func (t *Task) Complete(at time.Time) {
	t.Status = StatusCompleted
	t.CompletedAt = &at
}

// Reopen marks the task pending again.
func (t *Task) Reopen() {
	t.Status = StatusPending
	t.CompletedAt = nil
}

// IsConsistent reports whether CompletedAt agrees with Status.
func (t Task) IsConsistent() bool {
	return (t.Status == StatusCompleted) == (t.CompletedAt != nil)
}
