package server_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_TodayEmptyTenant(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("stats"), "Acme")

	rec := ts.request(t, http.MethodGet, "/api/stats/today", acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, float64(0), body["pomodorosCompleted"])
	assert.Equal(t, float64(0), body["totalWorkTime"])
	assert.Equal(t, float64(0), body["totalBreakTime"])
	assert.Equal(t, float64(0), body["entriesCount"])
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), body["date"])
}

// The end-to-end property: register, create a project, log one pomodoro,
// see it in today's stats.
func TestStats_TodayEndToEnd(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, "a@x.com", "Acme")
	projectID := ts.createProject(t, acc.token, "P1")
	ts.createEntry(t, acc.token, projectID, "pomodoro", 1500)

	rec := ts.request(t, http.MethodGet, "/api/stats/today", acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, float64(1), body["pomodorosCompleted"])
	assert.Equal(t, float64(1500), body["totalWorkTime"])
	assert.Equal(t, float64(1), body["entriesCount"])
}

func TestStats_TodaySeparatesBreaks(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("stats"), "Acme")
	projectID := ts.createProject(t, acc.token, "P1")

	ts.createEntry(t, acc.token, projectID, "pomodoro", 1500)
	ts.createEntry(t, acc.token, projectID, "manual", 600)
	ts.createEntry(t, acc.token, projectID, "break", 300)

	rec := ts.request(t, http.MethodGet, "/api/stats/today", acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, float64(1), body["pomodorosCompleted"])
	assert.Equal(t, float64(2100), body["totalWorkTime"])
	assert.Equal(t, float64(300), body["totalBreakTime"])
	assert.Equal(t, float64(3), body["entriesCount"])
}

func TestStats_WeekAlwaysSevenBuckets(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("stats"), "Acme")
	projectID := ts.createProject(t, acc.token, "P1")
	ts.createEntry(t, acc.token, projectID, "pomodoro", 1500)
	ts.createEntry(t, acc.token, projectID, "break", 300)

	rec := ts.request(t, http.MethodGet, "/api/stats/week", acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	daily, ok := body["dailyStats"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, daily, 7)

	// Sum of per-day totals equals the top-level totals.
	sumPomodoros := 0.0
	sumTime := 0.0
	for date, v := range daily {
		day := v.(map[string]any)
		sumPomodoros += day["pomodoros"].(float64)
		sumTime += day["totalTime"].(float64)
		require.GreaterOrEqual(t, date, body["weekStart"].(string))
		require.LessOrEqual(t, date, body["weekEnd"].(string))
	}
	assert.Equal(t, body["totalPomodoros"].(float64), sumPomodoros)
	assert.Equal(t, body["totalTime"].(float64), sumTime)

	// Breaks never count toward work time.
	assert.Equal(t, float64(1500), body["totalTime"])
	assert.Equal(t, float64(1), body["totalPomodoros"])

	today := time.Now().UTC().Format("2006-01-02")
	day := daily[today].(map[string]any)
	assert.Equal(t, float64(1), day["pomodoros"])
	assert.Equal(t, float64(1500), day["totalTime"])
}

func TestStats_WeekEmpty(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("stats"), "Acme")

	rec := ts.request(t, http.MethodGet, "/api/stats/week", acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.Len(t, body["dailyStats"].(map[string]any), 7)
	assert.Equal(t, float64(0), body["totalPomodoros"])
	assert.Equal(t, float64(0), body["totalTime"])
}

func TestStats_ByProject(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("stats"), "Acme")
	p1 := ts.createProject(t, acc.token, "First")
	p2 := ts.createProject(t, acc.token, "Second")

	ts.createEntry(t, acc.token, p1, "pomodoro", 1500)
	ts.createEntry(t, acc.token, p2, "manual", 600)
	ts.createEntry(t, acc.token, p1, "pomodoro", 1500)
	ts.createEntry(t, acc.token, p1, "break", 300) // ignored

	rec := ts.request(t, http.MethodGet, "/api/stats/by-project", acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rows := decodeList(t, rec)
	require.Len(t, rows, 2)

	byID := map[string]map[string]any{}
	for _, r := range rows {
		row := r.(map[string]any)
		byID[row["projectId"].(string)] = row
	}

	require.Contains(t, byID, p1)
	assert.Equal(t, "First", byID[p1]["projectName"])
	assert.Equal(t, float64(3000), byID[p1]["totalTime"])
	assert.Equal(t, float64(2), byID[p1]["pomodoros"])

	require.Contains(t, byID, p2)
	assert.Equal(t, float64(600), byID[p2]["totalTime"])
	assert.Equal(t, float64(0), byID[p2]["pomodoros"])
}

// Entries survive their project's deletion; the summary falls back to a
// placeholder row instead of dropping the time.
func TestStats_ByProjectDeletedProjectPlaceholder(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("stats"), "Acme")
	projectID := ts.createProject(t, acc.token, "Ephemeral")
	ts.createEntry(t, acc.token, projectID, "pomodoro", 1500)

	rec := ts.request(t, http.MethodDelete, "/api/projects/"+projectID, acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/stats/by-project", acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rows := decodeList(t, rec)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, projectID, row["projectId"])
	assert.Equal(t, "Desconocido", row["projectName"])
	assert.Equal(t, "#E91E63", row["color"])
	assert.Equal(t, float64(1500), row["totalTime"])
}

func TestStats_ByProjectEmpty(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("stats"), "Acme")

	rec := ts.request(t, http.MethodGet, "/api/stats/by-project", acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeList(t, rec))
}

func TestStats_ScopedToCaller(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerAccount(t, uniqueEmail("alice"), "TenantA")
	bob := ts.registerAccount(t, uniqueEmail("bob"), "TenantB")

	projectID := ts.createProject(t, alice.token, "P1")
	ts.createEntry(t, alice.token, projectID, "pomodoro", 1500)

	rec := ts.request(t, http.MethodGet, "/api/stats/today", bob.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeMap(t, rec)["entriesCount"])
}
