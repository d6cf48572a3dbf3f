package integrity

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"studyhub/core/models"
	"studyhub/core/server"
	"studyhub/core/storage/mocks"
	"studyhub/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func get(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func newTestApp(t *testing.T, state models.State, client *mocks.Client) *fiber.App {
	t.Helper()
	st := newTestStore(t, state)
	svc := NewService(st, st.DB(), nil, bucketCfg, "exports", zap.NewNop())
	if client != nil {
		svc = NewService(st, st.DB(), client, bucketCfg, "exports", zap.NewNop())
	}
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func TestHandler_IntegrityCheck(t *testing.T) {
	app := newTestApp(t, cleanState(), nil)

	status, body := get(t, app, "/integrity")

	require.Equal(t, fiber.StatusOK, status, string(body))
	var report Report
	require.NoError(t, json.Unmarshal(body, &report))
	require.NotNil(t, report.Data)
	assert.Equal(t, "ok", report.Data.Status)
	assert.Equal(t, "ok", report.Schema.Status)
}

func TestHandler_DataCheck(t *testing.T) {
	state := cleanState()
	state.Groups[0].MemberIDs = []string{"me", "u2"}
	app := newTestApp(t, state, nil)

	status, body := get(t, app, "/integrity/data")
	require.Equal(t, fiber.StatusOK, status)
	var report checks.DataReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "issues", report.Status)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, checks.IssueOwnerIsMember, report.Issues[0].Check)

	status, body = get(t, app, "/integrity/data?fix=true")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "fixed", report.Status)

	_, body = get(t, app, "/integrity/data")
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "ok", report.Status)
}

func TestHandler_SchemaCheck(t *testing.T) {
	app := newTestApp(t, cleanState(), nil)

	status, body := get(t, app, "/integrity/schema")

	require.Equal(t, fiber.StatusOK, status)
	var report checks.SchemaReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.True(t, report.Matched)
}

func TestHandler_BucketCheck(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		app := newTestApp(t, cleanState(), nil)

		status, body := get(t, app, "/integrity/bucket")

		assert.Equal(t, fiber.StatusNotFound, status)
		var errBody server.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &errBody))
		assert.Equal(t, "bucket_disabled", errBody.Code)
	})

	t.Run("Fix", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(false, nil).Twice()
		m.On("MakeBucket", mock.Anything, "backups", mock.Anything).Return(nil)
		m.On("PutObject", mock.Anything, "backups", "exports/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
		m.On("BucketExists", mock.Anything, "backups").Return(true, nil)
		m.On("ListObjects", mock.Anything, "backups", mock.Anything).Return(objectsOf("exports/"))
		app := newTestApp(t, cleanState(), m)

		status, body := get(t, app, "/integrity/bucket?fix=true")

		require.Equal(t, fiber.StatusOK, status, string(body))
		var report checks.BucketReport
		require.NoError(t, json.Unmarshal(body, &report))
		assert.Equal(t, "ok", report.Status)
		m.AssertCalled(t, "MakeBucket", mock.Anything, "backups", mock.Anything)
	})
}

func objectsOf(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}
