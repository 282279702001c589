package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"timetrack-service/internal/server"
	"timetrack-service/pkg/config"
	"timetrack-service/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testServer struct {
	e  *echo.Echo
	db *gorm.DB
}

// setupTestServer wires the full echo server against a fresh in-memory
// SQLite database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A second connection to :memory: would open a second, empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		CORS: config.CORSConfig{AllowOrigins: []string{"*"}},
	}
	return &testServer{
		e:  server.New(cfg, db, zap.NewNop()),
		db: db,
	}
}

// request performs an in-process HTTP request, optionally authenticated.
func (ts *testServer) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()
	var body []any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

type account struct {
	token     string
	uid       string
	companyID string
}

// registerAccount registers a user, optionally with a company, and
// returns the session credentials.
func (ts *testServer) registerAccount(t *testing.T, email, companyName string) account {
	t.Helper()

	payload := map[string]string{
		"email":       email,
		"password":    "secretpassword",
		"displayName": "Test User",
	}
	if companyName != "" {
		payload["companyName"] = companyName
	}

	rec := ts.request(t, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusOK, rec.Code, "register failed: %s", rec.Body.String())

	body := decodeMap(t, rec)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok, "expected user object in response")

	acc := account{
		token: body["token"].(string),
		uid:   user["uid"].(string),
	}
	if companyID, ok := user["companyId"].(string); ok {
		acc.companyID = companyID
	}
	return acc
}

// createProject creates a project and returns its id.
func (ts *testServer) createProject(t *testing.T, token, name string) string {
	t.Helper()

	rec := ts.request(t, http.MethodPost, "/api/projects", token, map[string]string{"name": name})
	require.Equal(t, http.StatusOK, rec.Code, "create project failed: %s", rec.Body.String())
	return decodeMap(t, rec)["projectId"].(string)
}

// createEntry logs a time entry and returns its id.
func (ts *testServer) createEntry(t *testing.T, token, projectID, entryType string, duration int) string {
	t.Helper()

	rec := ts.request(t, http.MethodPost, "/api/time-entries", token, map[string]any{
		"projectId": projectID,
		"duration":  duration,
		"type":      entryType,
	})
	require.Equal(t, http.StatusOK, rec.Code, "create time entry failed: %s", rec.Body.String())
	return decodeMap(t, rec)["entryId"].(string)
}

// uniqueEmail avoids collisions between subtests sharing a server.
var emailSeq int

func uniqueEmail(prefix string) string {
	emailSeq++
	return fmt.Sprintf("%s-%d@example.com", prefix, emailSeq)
}
