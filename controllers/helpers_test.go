package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskflow/config"
	"taskflow/models"
	"taskflow/routes"
	"taskflow/utils"
)

// newTestApp builds the full app against an in-memory sqlite database so
// handler tests exercise the real middleware, policy and store paths.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a single connection keeps the in-memory database alive and shared
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	issuer := utils.NewTokenIssuer(cfg.JWT)

	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler(logger),
	})
	routes.SetupRoutes(app, db, issuer, cfg, logger)

	return app, db
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func dataOf(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", body)
	return data
}

func idOf(t *testing.T, obj map[string]interface{}) uint {
	t.Helper()
	id, ok := obj["id"].(float64)
	require.True(t, ok, "object has no numeric id: %v", obj)
	return uint(id)
}

// registerUser creates an account and returns its access token, refresh
// token and user id.
func registerUser(t *testing.T, app *fiber.App, name, email string) (string, string, uint) {
	t.Helper()

	resp, body := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register failed: %v", body)

	data := dataOf(t, body)
	user := data["user"].(map[string]interface{})
	return data["accessToken"].(string), data["refreshToken"].(string), idOf(t, user)
}

func createTeam(t *testing.T, app *fiber.App, token, name string) uint {
	t.Helper()

	resp, body := doRequest(t, app, http.MethodPost, "/api/v1/teams", token, fiber.Map{
		"name": name,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create team failed: %v", body)
	return idOf(t, dataOf(t, body))
}

func addMember(t *testing.T, app *fiber.App, token string, teamID, userID uint, role string) {
	t.Helper()

	payload := fiber.Map{"userId": userID}
	if role != "" {
		payload["role"] = role
	}
	resp, body := doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/v1/teams/%d/members", teamID), token, payload)
	require.Equal(t, http.StatusOK, resp.StatusCode, "add member failed: %v", body)
}

func createTask(t *testing.T, app *fiber.App, token string, teamID uint, title string, assignedTo *uint) uint {
	t.Helper()

	payload := fiber.Map{"title": title, "team": teamID}
	if assignedTo != nil {
		payload["assignedTo"] = *assignedTo
	}
	resp, body := doRequest(t, app, http.MethodPost, "/api/v1/tasks", token, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create task failed: %v", body)
	return idOf(t, dataOf(t, body))
}
