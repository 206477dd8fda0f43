package web

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clubadmin/clubadmin/server"
)

func proxyImages(cfg *server.Config) {
	cfg.Backend.ProxyImages = true
}

func TestMediaProxy(t *testing.T) {
	env := newTestEnv(t, proxyImages)
	env.api.HandleFunc("GET /files/uploads/{name}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("name") != "a.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngHeader)
	})
	sessionID := env.login("admin")

	rr := env.get("/media/uploads/a.png", sessionID)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	body, _ := io.ReadAll(rr.Body)
	assert.Equal(t, pngHeader, body)

	rr = env.get("/media/uploads/missing.png", sessionID)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMediaProxyRequiresSession(t *testing.T) {
	env := newTestEnv(t, proxyImages)

	rr := env.get("/media/uploads/a.png", "")
	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestMediaProxyRewritesImageURLs(t *testing.T) {
	env, sessionID := newClubEnv(t)
	rr := env.get("/clubs/c1/posts/p1/media", sessionID)
	assert.Contains(t, rr.Body.String(), "/api/files/uploads/a.png")

	env = newTestEnv(t, proxyImages)
	env.json("GET /clubs/{id}/posts", http.StatusOK, clubPostsJSON)
	sessionID = env.login("admin")

	rr = env.get("/clubs/c1/posts/p1/media", sessionID)
	assert.Contains(t, rr.Body.String(), `src="/media/uploads/a.png"`)
}
