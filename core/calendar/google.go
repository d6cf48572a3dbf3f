package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// TaskIDProperty is the private extended property linking an event to its task.
const TaskIDProperty = "studyhub_task_id"

// Google writes events through the Google Calendar API.
type Google struct {
	srv *gcal.Service
}

var _ Adapter = (*Google)(nil)

// NewGoogle builds an adapter from the OAuth client secrets and a stored token.
// The token is refreshed transparently by the oauth2 client.
func NewGoogle(ctx context.Context, cfg Config) (*Google, error) {
	secrets, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", cfg.CredentialsFile, err)
	}

	oauthCfg, err := google.ConfigFromJSON(secrets, gcal.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}

	tok, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	srv, err := gcal.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar service: %w", err)
	}
	return NewGoogleWithService(srv), nil
}

// NewGoogleWithService wraps an existing calendar service.
func NewGoogleWithService(srv *gcal.Service) *Google {
	return &Google{srv: srv}
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open token file %s: %w", path, err)
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("unable to decode token file %s: %w", path, err)
	}
	return tok, nil
}

// UpsertEvent patches the event when ev.ID is set and still exists, otherwise inserts it.
func (g *Google) UpsertEvent(ctx context.Context, calendarRef string, ev Event) (string, error) {
	event := toGoogleEvent(ev)

	if ev.ID != "" {
		updated, err := g.srv.Events.Patch(calendarRef, ev.ID, event).Context(ctx).Do()
		if err == nil {
			return updated.Id, nil
		}
		if !isGone(err) {
			return "", fmt.Errorf("failed to patch event %s: %w", ev.ID, err)
		}
		// Removed in the calendar app; recreate below
	}

	created, err := g.srv.Events.Insert(calendarRef, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert event for task %s: %w", ev.TaskID, err)
	}
	return created.Id, nil
}

// DeleteEvent deletes an event, ignoring events that are already gone.
func (g *Google) DeleteEvent(ctx context.Context, calendarRef, eventID string) error {
	err := g.srv.Events.Delete(calendarRef, eventID).Context(ctx).Do()
	if err != nil && !isGone(err) {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}

func toGoogleEvent(ev Event) *gcal.Event {
	return &gcal.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Start:       &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: ev.TaskID},
		},
	}
}

func isGone(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone
	}
	return false
}
