package web

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDashboardShowsPartialMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.json("GET /clubs", http.StatusOK, `{"result":[],"totalClubs":12}`)
	env.json("GET /user/view", http.StatusOK, `{"result":[],"total":1040,"totalPages":1040}`)
	env.json("GET /posts", http.StatusInternalServerError, `{"message":"posts are down"}`)
	sessionID := env.login("admin")

	rr := env.get("/dashboard", sessionID)
	assert.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, ">12<")
	assert.Contains(t, body, "1,040")
	assert.Contains(t, body, "posts are down")
	assert.Contains(t, body, "ada@example.com")
}

func TestIndexRedirectsToDashboard(t *testing.T) {
	env := newTestEnv(t)
	sessionID := env.login("admin")

	rr := env.get("/", sessionID)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)
	sessionID := env.login("admin")

	rr := env.get("/nope", sessionID)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Page not found")
}
