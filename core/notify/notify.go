package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPastTime is returned when a reminder is scheduled for a time that has passed.
var ErrPastTime = errors.New("reminder time is in the past")

// Payload is what the user sees when a reminder fires.
type Payload struct {
	TaskID string
	Title  string
	Body   string
}

// Scheduler is the reminder capability used by the task service.
type Scheduler interface {
	// ScheduleAt arranges for p to be delivered at the given time and returns
	// a handle for Cancel.
	ScheduleAt(ctx context.Context, id string, at time.Time, p Payload) (string, error)
	// Cancel drops a pending reminder. Unknown or already-fired handles are ignored.
	Cancel(notificationID string) error
}

// DeliverFunc receives due reminders.
type DeliverFunc func(p Payload)

// Local is an in-process Scheduler backed by timers. Pending reminders are lost
// on restart; the task service reschedules them at startup.
type Local struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	deliver DeliverFunc
	logger  *zap.Logger
	now     func() time.Time
}

var _ Scheduler = (*Local)(nil)

// NewLocal creates a scheduler that hands due reminders to deliver.
// A nil deliver logs them instead.
func NewLocal(logger *zap.Logger, deliver DeliverFunc) *Local {
	l := &Local{
		timers: make(map[string]*time.Timer),
		logger: logger,
		now:    time.Now,
	}
	if deliver == nil {
		deliver = func(p Payload) {
			logger.Info("Reminder due", zap.String("task_id", p.TaskID), zap.String("title", p.Title))
		}
	}
	l.deliver = deliver
	return l
}

// ScheduleAt implements Scheduler. The id names the reminder in logs.
func (l *Local) ScheduleAt(ctx context.Context, id string, at time.Time, p Payload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	delay := at.Sub(l.now())
	if delay < 0 {
		return "", ErrPastTime
	}

	notificationID := uuid.NewString()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.timers[notificationID] = time.AfterFunc(delay, func() {
		l.mu.Lock()
		_, pending := l.timers[notificationID]
		delete(l.timers, notificationID)
		l.mu.Unlock()

		if pending {
			l.deliver(p)
		}
	})

	l.logger.Debug("Reminder scheduled",
		zap.String("id", id),
		zap.String("notification_id", notificationID),
		zap.Time("at", at),
	)
	return notificationID, nil
}

// Cancel implements Scheduler.
func (l *Local) Cancel(notificationID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[notificationID]; ok {
		t.Stop()
		delete(l.timers, notificationID)
	}
	return nil
}

// Pending returns the number of reminders that have not fired yet.
func (l *Local) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Stop cancels every pending reminder.
func (l *Local) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}
}
