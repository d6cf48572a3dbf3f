package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"studyhub/core/calendar"
	"studyhub/core/models"
	"studyhub/core/notify"
	"studyhub/core/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// eventLength is the duration of the calendar block created for a task.
const eventLength = time.Hour

// CreateInput describes a new task.
type CreateInput struct {
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	DueDate     time.Time  `json:"dueDate"`
	ReminderAt  *time.Time `json:"reminderAt"`
	GroupID     *string    `json:"groupId"`
}

// Service manages tasks and keeps reminders and calendar events in step.
type Service struct {
	repo       store.Repository
	scheduler  notify.Scheduler
	calendar   calendar.Adapter
	calendarID string
	lead       time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a new tasks service. A zero lead disables default reminders.
func NewService(repo store.Repository, scheduler notify.Scheduler, cal calendar.Adapter, calendarID string, lead time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		scheduler:  scheduler,
		calendar:   cal,
		calendarID: calendarID,
		lead:       lead,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create adds a pending task, schedules its reminder and mirrors it into the
// calendar. Reminder and calendar failures are logged, not returned.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.Task, error) {
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return models.Task{}, ErrInvalidTask.WithDetail("%v", err)
	}

	state, err := s.repo.LoadState(ctx)
	if err != nil {
		return models.Task{}, err
	}
	owner := in.OwnerID
	if owner == "" && state.User != nil {
		owner = state.User.ID
	}
	task, err := models.NewTask(uuid.NewString(), owner, in.Title, category, in.DueDate, s.now())
	if err != nil {
		return models.Task{}, ErrInvalidTask.WithDetail("%v", err)
	}
	task.Description = in.Description
	if in.GroupID != nil && *in.GroupID != "" {
		if !slices.ContainsFunc(state.Groups, func(g models.Group) bool { return g.ID == *in.GroupID }) {
			return models.Task{}, ErrGroupNotFound
		}
		gid := *in.GroupID
		task.GroupID = &gid
	}
	task.ReminderAt = s.reminderTime(in.ReminderAt, in.DueDate)

	s.schedule(ctx, &task)
	s.syncEvent(ctx, &task)

	err = s.repo.Update(ctx, func(state *models.State) error {
		if task.GroupID != nil && !slices.ContainsFunc(state.Groups, func(g models.Group) bool { return g.ID == *task.GroupID }) {
			return ErrGroupNotFound
		}
		state.Tasks = append(state.Tasks, task)
		return nil
	})
	if err != nil {
		s.release(ctx, task)
		return models.Task{}, err
	}

	s.logger.Info("Task created", zap.String("task_id", task.ID), zap.String("category", string(task.Category)))
	return task, nil
}

// Get returns a single task.
func (s *Service) Get(ctx context.Context, id string) (models.Task, error) {
	state, err := s.repo.LoadState(ctx)
	if err != nil {
		return models.Task{}, err
	}
	i := indexOf(state.Tasks, id)
	if i < 0 {
		return models.Task{}, ErrTaskNotFound
	}
	return state.Tasks[i], nil
}

// List returns all tasks, or only those assigned to groupID when it is set.
func (s *Service) List(ctx context.Context, groupID string) ([]models.Task, error) {
	state, err := s.repo.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	if groupID == "" {
		return slices.Clone(state.Tasks), nil
	}
	out := make([]models.Task, 0)
	for _, t := range state.Tasks {
		if t.GroupID != nil && *t.GroupID == groupID {
			out = append(out, t)
		}
	}
	return out, nil
}

// Complete marks a task completed, cancels its reminder and counts it in stats.
func (s *Service) Complete(ctx context.Context, id, userID string) (models.Task, error) {
	var notificationID string
	task, err := s.mutate(ctx, id, userID, func(state *models.State, t *models.Task) error {
		if t.Status == models.StatusCompleted {
			return ErrAlreadyCompleted
		}
		t.Complete(s.now())
		notificationID, t.NotificationID = t.NotificationID, ""

		if state.Stats == nil {
			state.Stats = &models.Stats{Achievements: []models.Achievement{}}
		}
		state.Stats.TotalTasksCompleted++
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}

	s.cancel(notificationID)
	s.logger.Info("Task completed", zap.String("task_id", task.ID))
	return task, nil
}

// Reopen marks a completed task pending again and re-arms a future reminder.
// Stats are not decremented.
func (s *Service) Reopen(ctx context.Context, id, userID string) (models.Task, error) {
	var armed string
	task, err := s.mutate(ctx, id, userID, func(_ *models.State, t *models.Task) error {
		if t.Status != models.StatusCompleted {
			return ErrNotCompleted
		}
		t.Reopen()
		if t.ReminderAt != nil && t.ReminderAt.After(s.now()) {
			s.schedule(ctx, t)
			armed = t.NotificationID
		}
		return nil
	})
	if err != nil {
		s.cancel(armed)
		return models.Task{}, err
	}
	return task, nil
}

// Delete removes a task with its reminder and calendar event.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	var removed models.Task
	err := s.repo.Update(ctx, func(state *models.State) error {
		i := indexOf(state.Tasks, id)
		if i < 0 {
			return ErrTaskNotFound
		}
		if userID != "" && state.Tasks[i].OwnerID != userID {
			return ErrPermissionDenied
		}
		removed = state.Tasks[i]
		state.Tasks = slices.Delete(state.Tasks, i, i+1)
		return nil
	})
	if err != nil {
		return err
	}

	s.release(ctx, removed)
	s.logger.Info("Task deleted", zap.String("task_id", id))
	return nil
}

// RescheduleAll re-arms reminders for pending tasks, for use at startup when
// the in-process scheduler has lost its timers. It returns the number armed.
func (s *Service) RescheduleAll(ctx context.Context) (int, error) {
	armed := 0
	err := s.repo.Update(ctx, func(state *models.State) error {
		now := s.now()
		for i := range state.Tasks {
			t := &state.Tasks[i]
			// handles from a previous process or an imported snapshot are never live here
			t.NotificationID = ""
			if t.Status != models.StatusPending || t.ReminderAt == nil || !t.ReminderAt.After(now) {
				continue
			}
			s.schedule(ctx, t)
			if t.NotificationID != "" {
				armed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to reschedule reminders: %w", err)
	}
	return armed, nil
}

// SyncReminders brings the scheduler in line with the stored tasks after they
// were swapped out underneath the service, such as by a snapshot import.
// Every reminder armed for the previous tasks is cancelled before the stored
// ones are re-armed.
func (s *Service) SyncReminders(ctx context.Context, previous []models.Task) (int, error) {
	for _, t := range previous {
		s.cancel(t.NotificationID)
	}
	return s.RescheduleAll(ctx)
}

// mutate loads the task, checks ownership and applies fn in one transaction.
// An empty userID skips the ownership check (the local profile acting).
func (s *Service) mutate(ctx context.Context, id, userID string, fn func(state *models.State, t *models.Task) error) (models.Task, error) {
	var out models.Task
	err := s.repo.Update(ctx, func(state *models.State) error {
		i := indexOf(state.Tasks, id)
		if i < 0 {
			return ErrTaskNotFound
		}
		t := &state.Tasks[i]
		if userID != "" && t.OwnerID != userID {
			return ErrPermissionDenied
		}
		if err := fn(state, t); err != nil {
			return err
		}
		out = *t
		return nil
	})
	return out, err
}

func (s *Service) reminderTime(explicit *time.Time, due time.Time) *time.Time {
	if explicit != nil {
		at := explicit.UTC()
		return &at
	}
	if s.lead <= 0 || due.IsZero() {
		return nil
	}
	at := due.Add(-s.lead).UTC()
	if !at.After(s.now()) {
		return nil
	}
	return &at
}

func (s *Service) schedule(ctx context.Context, t *models.Task) {
	if t.ReminderAt == nil {
		return
	}
	id, err := s.scheduler.ScheduleAt(ctx, t.ID, *t.ReminderAt, notify.Payload{
		TaskID: t.ID,
		Title:  t.Title,
		Body:   fmt.Sprintf("Due %s", t.DueDate.Format(time.RFC1123)),
	})
	if err != nil {
		if errors.Is(err, notify.ErrPastTime) {
			s.logger.Debug("Reminder time already passed", zap.String("task_id", t.ID))
		} else {
			s.logger.Warn("Failed to schedule reminder", zap.String("task_id", t.ID), zap.Error(err))
		}
		return
	}
	t.NotificationID = id
}

func (s *Service) syncEvent(ctx context.Context, t *models.Task) {
	id, err := s.calendar.UpsertEvent(ctx, s.calendarID, calendar.Event{
		ID:          t.CalendarEventID,
		TaskID:      t.ID,
		Title:       t.Title,
		Description: t.Description,
		Start:       t.DueDate,
		End:         t.DueDate.Add(eventLength),
	})
	if err != nil {
		s.logger.Warn("Failed to sync calendar event", zap.String("task_id", t.ID), zap.Error(err))
		return
	}
	t.CalendarEventID = id
}

func (s *Service) cancel(notificationID string) {
	if notificationID == "" {
		return
	}
	if err := s.scheduler.Cancel(notificationID); err != nil {
		s.logger.Warn("Failed to cancel reminder", zap.String("notification_id", notificationID), zap.Error(err))
	}
}

// release drops the reminder and calendar event of a task that is gone.
func (s *Service) release(ctx context.Context, t models.Task) {
	s.cancel(t.NotificationID)
	if t.CalendarEventID == "" {
		return
	}
	if err := s.calendar.DeleteEvent(ctx, s.calendarID, t.CalendarEventID); err != nil {
		s.logger.Warn("Failed to delete calendar event", zap.String("task_id", t.ID), zap.Error(err))
	}
}

func indexOf(tasks []models.Task, id string) int {
	return slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
}
