package web

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/clubadmin/clubadmin/internal/middlewares"
	"github.com/clubadmin/clubadmin/server"
)

type handler struct {
	*server.Server
}

func Routes(srv *server.Server) http.Handler {
	h := &handler{
		Server: srv,
	}

	fs := http.FileServer(h.StaticFS)
	if !srv.Cfg.Dev {
		fs = middlewares.Cache(time.Hour)(fs)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)

	mux.HandleFunc("GET  /login", h.Login)
	mux.HandleFunc("POST /login", h.DoLogin)
	mux.HandleFunc("POST /logout", h.Logout)

	mux.HandleFunc("GET /dashboard", h.Dashboard)

	mux.HandleFunc("GET  /clubs", h.Clubs)
	mux.HandleFunc("POST /clubs", h.CreateClub)
	mux.HandleFunc("GET  /clubs/{club_id}", h.Club)
	mux.HandleFunc("POST /clubs/{club_id}", h.UpdateClub)
	mux.HandleFunc("GET  /clubs/{club_id}/delete", h.ConfirmDeleteClub)
	mux.HandleFunc("POST /clubs/{club_id}/delete", h.DeleteClub)
	mux.Handle("GET /clubs/{club_id}/qr.png", middlewares.Cache(time.Hour)(http.HandlerFunc(h.ClubQR)))

	mux.HandleFunc("POST /clubs/{club_id}/posts", h.CreatePost)
	mux.HandleFunc("POST /clubs/{club_id}/events", h.CreateEvent)
	mux.HandleFunc("GET  /clubs/{club_id}/posts/{post_id}/delete", h.ConfirmDeletePost)
	mux.HandleFunc("POST /clubs/{club_id}/posts/{post_id}/delete", h.DeletePost)
	mux.HandleFunc("GET  /clubs/{club_id}/posts/{post_id}/media", h.PostMedia)
	mux.HandleFunc("GET  /clubs/{club_id}/posts/{post_id}/people/{kind}", h.People)
	mux.Handle("GET  /clubs/{club_id}/posts/{post_id}/people/{kind}/export", middlewares.NoStore(http.HandlerFunc(h.ExportPeople)))

	mux.HandleFunc("GET  /users", h.Users)
	mux.HandleFunc("GET  /users/{user_id}", h.User)
	mux.HandleFunc("POST /users/{user_id}/verify", h.VerifyUser)
	mux.HandleFunc("GET  /users/{user_id}/delete", h.ConfirmDeleteUser)
	mux.HandleFunc("POST /users/{user_id}/delete", h.DeleteUser)

	mux.HandleFunc("GET  /settings", h.Settings)
	mux.HandleFunc("POST /settings/password", h.ChangePassword)
	mux.HandleFunc("POST /settings/profile-image", h.UpdateProfileImage)

	if srv.Cfg.Backend.ProxyImages {
		mux.HandleFunc("GET /media/{path...}", h.MediaProxy)
	}

	mux.Handle("GET  /static/", fs)
	mux.Handle("HEAD /static/", fs)

	if srv.Cfg.Dev {
		mux.HandleFunc(server.ReloadRoute, h.DevReload)
	}

	mux.HandleFunc("/", h.NotFound)

	return h.logRequests(h.csrf(h.auth(mux)))
}

func (h *handler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "not_found.gohtml", NotFoundVars{
		Page: h.page(r, "Not found", ""),
	})
}

type NotFoundVars struct {
	Page
}

// csrf protects every form post. An empty key disables the protection.
func (h *handler) csrf(next http.Handler) http.Handler {
	if h.Cfg.Auth.CSRFKey == "" {
		return next
	}

	protect := csrf.Protect(csrfKey(h.Cfg.Auth.CSRFKey),
		csrf.Secure(h.Cfg.Auth.SecureCookie),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(h.csrfFailed)),
	)(next)

	if h.Cfg.Auth.SecureCookie {
		return protect
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protect.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func (h *handler) csrfFailed(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "Rejected request with invalid csrf token", slog.Any("err", csrf.FailureReason(r)))
	h.renderError(w, r, http.StatusForbidden, "Your form expired, please go back, reload the page and try again.")
}

// csrfKey accepts a 32 byte hex key. Other values are hashed to 32 bytes.
func csrfKey(key string) []byte {
	if decoded, err := hex.DecodeString(key); err == nil && len(decoded) == 32 {
		return decoded
	}
	sum := sha256.Sum256([]byte(key))
	return sum[:]
}

// DevReload streams server-sent events that tell the browser to reload after
// templates or static files changed on disk.
func (h *handler) DevReload(w http.ResponseWriter, r *http.Request) {
	if h.ReloadNotifier == nil {
		http.NotFound(w, r)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	cancel, ch := h.ReloadNotifier.Subscribe()
	defer cancel()
	if ch == nil {
		w.WriteHeader(http.StatusGone)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			if _, err := fmt.Fprint(w, "data: reload\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
