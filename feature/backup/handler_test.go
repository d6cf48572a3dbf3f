package backup

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"studyhub/core/reconcile"
	"studyhub/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExportAndImport(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/backup/export", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "studyhub-backup-2025-03-01T09-30-15-250Z.json")
	downloaded, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	resp, err = app.Test(httptest.NewRequest("POST", "/backup/export", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var exported ExportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&exported))

	resp, err = app.Test(httptest.NewRequest("GET", "/backup", nil))
	require.NoError(t, err)
	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.Equal(t, []string{exported.Name}, names)

	req := httptest.NewRequest("POST", "/backup/import/merge", bytes.NewReader(downloaded))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result reconcile.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, reconcile.StrategyMerge, result.Strategy)
	assert.NotNil(t, result.Warnings)

	resp, err = app.Test(httptest.NewRequest("POST", "/backup/import/replace?name="+exported.Name, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 2, result.TasksImported)
}

func TestHandler_ImportErrors(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("POST", "/backup/import/merge", bytes.NewReader([]byte(`{"version":""}`))))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body server.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "malformed_snapshot", body.Code)

	resp, err = app.Test(httptest.NewRequest("POST", "/backup/import/replace?name=nope.json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/backup/import/replace?name=..%2Fsecret.json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
