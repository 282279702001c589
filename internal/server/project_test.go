package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_CreateAndGet(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("proj"), "Acme")

	rec := ts.request(t, http.MethodPost, "/api/projects", acc.token, map[string]any{
		"name":        "Website",
		"description": "Marketing site",
		"color":       "#00FF00",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	project := decodeMap(t, rec)
	assert.Equal(t, "Website", project["name"])
	assert.Equal(t, "#00FF00", project["color"])
	assert.Equal(t, true, project["isActive"])
	assert.Equal(t, acc.companyID, project["companyId"])

	rec = ts.request(t, http.MethodGet, "/api/projects/"+project["projectId"].(string), acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Website", decodeMap(t, rec)["name"])
}

func TestProject_DefaultColor(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("proj"), "Acme")

	rec := ts.request(t, http.MethodPost, "/api/projects", acc.token, map[string]string{"name": "Plain"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#E91E63", decodeMap(t, rec)["color"])
}

func TestProject_CreateRequiresName(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("proj"), "Acme")

	rec := ts.request(t, http.MethodPost, "/api/projects", acc.token, map[string]string{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProject_List(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("proj"), "Acme")

	ts.createProject(t, acc.token, "One")
	ts.createProject(t, acc.token, "Two")

	rec := ts.request(t, http.MethodGet, "/api/projects", acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 2)
}

func TestProject_PartialUpdate(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("proj"), "Acme")
	projectID := ts.createProject(t, acc.token, "Before")

	rec := ts.request(t, http.MethodPut, "/api/projects/"+projectID, acc.token, map[string]any{
		"name":     "After",
		"isActive": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/projects/"+projectID, acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	project := decodeMap(t, rec)
	assert.Equal(t, "After", project["name"])
	assert.Equal(t, false, project["isActive"])
	// Absent fields stay untouched.
	assert.Equal(t, "#E91E63", project["color"])
}

func TestProject_Delete(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("proj"), "Acme")
	projectID := ts.createProject(t, acc.token, "Doomed")

	rec := ts.request(t, http.MethodDelete, "/api/projects/"+projectID, acc.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/projects/"+projectID, acc.token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.request(t, http.MethodDelete, "/api/projects/"+projectID, acc.token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProject_CrossTenantIsolation(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerAccount(t, uniqueEmail("alice"), "TenantA")
	bob := ts.registerAccount(t, uniqueEmail("bob"), "TenantB")

	projectID := ts.createProject(t, alice.token, "Secret")

	// B cannot see, update or delete A's project even with the exact id.
	rec := ts.request(t, http.MethodGet, "/api/projects/"+projectID, bob.token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.request(t, http.MethodPut, "/api/projects/"+projectID, bob.token, map[string]string{"name": "Hijack"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.request(t, http.MethodDelete, "/api/projects/"+projectID, bob.token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// And B's listing never contains it.
	rec = ts.request(t, http.MethodGet, "/api/projects", bob.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeList(t, rec))

	// The project survived untouched.
	rec = ts.request(t, http.MethodGet, "/api/projects/"+projectID, alice.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Secret", decodeMap(t, rec)["name"])
}

func TestProject_RequiresCompany(t *testing.T) {
	ts := setupTestServer(t)
	acc := ts.registerAccount(t, uniqueEmail("nocompany"), "")

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/projects"},
		{http.MethodGet, "/api/projects"},
		{http.MethodGet, "/api/stats/today"},
		{http.MethodGet, "/api/time-entries"},
		{http.MethodGet, "/api/activities"},
	} {
		rec := ts.request(t, route.method, route.path, acc.token, map[string]string{"name": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", route.method, route.path)
		assert.Equal(t, "Necesitas pertenecer a una empresa", decodeMap(t, rec)["detail"])
	}
}
