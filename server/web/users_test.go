package web

import (
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersSearch(t *testing.T) {
	env := newTestEnv(t)
	env.fail("GET /user/view")
	env.api.HandleFunc("GET /user/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ada", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "4", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"result":[{"_id":"u1","name":"Ada","email":"ada@example.com","role":"user","verified":true},{"_id":"u2","name":"","email":"anon@example.com","role":"user"}],"total":2,"totalPages":1}`)
	})
	sessionID := env.login("admin")

	rr := env.get("/users?q=ada", sessionID)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `href="/users/u1"`)
	assert.Contains(t, body, "anon@example.com")
	assert.Contains(t, body, "Unknown user")
	assert.Contains(t, body, `name="rd" value="/users?q=ada"`)
	assert.Contains(t, body, "Unverify")
	assert.Contains(t, body, `/users/u2/delete?from=list&amp;items=2&amp;page=0&amp;q=ada`)
}

func TestUsersRedirectsPastLastPage(t *testing.T) {
	env := newTestEnv(t)
	env.json("GET /user/view", http.StatusOK, `{"result":[],"total":9,"totalPages":9}`)
	sessionID := env.login("admin")

	rr := env.get("/users?page=7", sessionID)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/users?page=2", rr.Header().Get("Location"))
}

func TestVerifyUser(t *testing.T) {
	env := newTestEnv(t)
	env.api.HandleFunc("PUT /user/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u1", r.PathValue("id"))
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"isVerified":false}`, string(data))
		_, _ = io.WriteString(w, `{}`)
	})
	sessionID := env.login("admin")

	rr := env.post("/users/u1/verify", url.Values{"verified": {"false"}, "rd": {"/users?page=1"}}, sessionID)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/users?page=1", rr.Header().Get("Location"))
}

func TestVerifyUserRejectsForeignRedirect(t *testing.T) {
	env := newTestEnv(t)
	env.json("PUT /user/{id}", http.StatusOK, `{}`)
	sessionID := env.login("admin")

	rr := env.post("/users/u1/verify", url.Values{"verified": {"true"}, "rd": {"https://evil.com"}}, sessionID)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestUserDetail(t *testing.T) {
	env := newTestEnv(t)
	env.json("GET /user/view/{id}", http.StatusOK, `{"result":{"_id":"u1","name":"Ada","email":"ada@example.com","role":"user",
		"friends":[{"_id":"u2","name":"Bob","email":"bob@example.com"}],
		"followingClubs":[{"_id":"c1","name":"Chess"}]}}`)
	sessionID := env.login("admin")

	rr := env.get("/users/u1", sessionID)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `href="/users/u2"`)
	assert.Contains(t, body, `href="/clubs/c1"`)
	assert.Contains(t, body, `/users/u1/delete?from=detail`)
}

func TestDeleteUserFailureShowsMessage(t *testing.T) {
	env := newTestEnv(t)
	env.json("DELETE /user/{id}", http.StatusInternalServerError, `{"message":"User is owner of a club"}`)
	sessionID := env.login("admin")

	rr := env.post("/users/u1/delete", url.Values{"page": {"1"}, "items": {"1"}}, sessionID)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "User is owner of a club")
	assert.Contains(t, rr.Body.String(), "Try again")
}

func TestDeleteUserStepsBack(t *testing.T) {
	env := newTestEnv(t)
	env.json("DELETE /user/{id}", http.StatusOK, `{}`)
	sessionID := env.login("admin")

	rr := env.post("/users/u1/delete", url.Values{"page": {"1"}, "items": {"1"}}, sessionID)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/users", rr.Header().Get("Location"))
}
