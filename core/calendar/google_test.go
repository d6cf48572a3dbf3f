package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type recordedCall struct {
	Method string
	Path   string
	Event  gcal.Event
}

// fakeCalendar serves the subset of the Calendar API the adapter uses.
func fakeCalendar(t *testing.T, patchStatus, deleteStatus int) (*Google, *[]recordedCall) {
	var calls []recordedCall

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{Method: r.Method, Path: r.URL.Path}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&call.Event)
		}
		calls = append(calls, call)

		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			_, _ = w.Write([]byte(`{"id":"evt-new"}`))
		case http.MethodPatch:
			if patchStatus != http.StatusOK {
				w.WriteHeader(patchStatus)
				_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Not Found"}}`))
				return
			}
			id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
			_, _ = w.Write([]byte(`{"id":"` + id + `"}`))
		case http.MethodDelete:
			w.WriteHeader(deleteStatus)
		}
	}))
	t.Cleanup(ts.Close)

	srv, err := gcal.NewService(context.Background(),
		option.WithEndpoint(ts.URL+"/"),
		option.WithHTTPClient(ts.Client()),
	)
	require.NoError(t, err)

	return NewGoogleWithService(srv), &calls
}

func sampleEvent() Event {
	due := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	return Event{TaskID: "t1", Title: "Essay", Start: due.Add(-30 * time.Minute), End: due}
}

func TestGoogle_UpsertInsert(t *testing.T) {
	g, calls := fakeCalendar(t, http.StatusOK, http.StatusNoContent)

	id, err := g.UpsertEvent(context.Background(), "primary", sampleEvent())
	require.NoError(t, err)
	assert.Equal(t, "evt-new", id)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Contains(t, call.Path, "calendars/primary/events")
	assert.Equal(t, "Essay", call.Event.Summary)
	assert.Equal(t, "t1", call.Event.ExtendedProperties.Private[TaskIDProperty])
}

func TestGoogle_UpsertPatch(t *testing.T) {
	g, calls := fakeCalendar(t, http.StatusOK, http.StatusNoContent)

	ev := sampleEvent()
	ev.ID = "evt-1"
	id, err := g.UpsertEvent(context.Background(), "primary", ev)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", id)
	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodPatch, (*calls)[0].Method)
}

func TestGoogle_UpsertRecreatesDeletedEvent(t *testing.T) {
	g, calls := fakeCalendar(t, http.StatusNotFound, http.StatusNoContent)

	ev := sampleEvent()
	ev.ID = "evt-gone"
	id, err := g.UpsertEvent(context.Background(), "primary", ev)
	require.NoError(t, err)
	assert.Equal(t, "evt-new", id)
	require.Len(t, *calls, 2)
	assert.Equal(t, http.MethodPost, (*calls)[1].Method)
}

func TestGoogle_DeleteIgnoresMissing(t *testing.T) {
	g, _ := fakeCalendar(t, http.StatusOK, http.StatusGone)
	assert.NoError(t, g.DeleteEvent(context.Background(), "primary", "evt-1"))
}

func TestGoogle_DeleteFailure(t *testing.T) {
	g, _ := fakeCalendar(t, http.StatusOK, http.StatusForbidden)
	assert.Error(t, g.DeleteEvent(context.Background(), "primary", "evt-1"))
}

func TestNewGoogle_MissingFiles(t *testing.T) {
	_, err := NewGoogle(context.Background(), Config{CredentialsFile: filepath.Join(t.TempDir(), "nope.json")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "client secret")
}

func TestNewGoogle_MissingToken(t *testing.T) {
	dir := t.TempDir()
	secrets := filepath.Join(dir, "credentials.json")
	err := os.WriteFile(secrets, []byte(`{"installed":{"client_id":"id","client_secret":"s","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`), 0o600)
	require.NoError(t, err)

	_, err = NewGoogle(context.Background(), Config{CredentialsFile: secrets, TokenFile: filepath.Join(dir, "token.json")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "token file")
}

func TestNop(t *testing.T) {
	var a Adapter = Nop{}
	id, err := a.UpsertEvent(context.Background(), "primary", Event{ID: "keep"})
	assert.NoError(t, err)
	assert.Equal(t, "keep", id)
	assert.NoError(t, a.DeleteEvent(context.Background(), "primary", "x"))
}
