package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clubadmin/clubadmin/internal/xpgtype"
	"github.com/clubadmin/clubadmin/server/auth"
	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/database"
	"github.com/clubadmin/clubadmin/server/form"
)

const (
	accessDeniedMessage = "Access denied. Only admins and superusers can log in."
	loginFailedMessage  = "Login failed"
)

var publicPaths = []string{"/login", "/static/", "/dev/reload"}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if path == p || (strings.HasSuffix(p, "/") && strings.HasPrefix(path, p)) {
			return true
		}
	}
	return false
}

// auth lets only requests with a live session of a privileged user through
// to everything but the public paths.
func (h *handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(auth.SessionCookieName)
		if err != nil || cookie.Value == "" {
			h.forceLogin(w, r)
			return
		}

		session, err := h.Sessions.GetSession(ctx, cookie.Value)
		if err != nil {
			if errors.Is(err, database.ErrSessionNotFound) || errors.Is(err, database.ErrSessionExpired) {
				h.Auth.RemoveSessionCookie(w)
				h.forceLogin(w, r)
				return
			}
			slog.ErrorContext(ctx, "Failed to get session", slog.Any("err", err))
			h.renderError(w, r, http.StatusInternalServerError, "Failed to load your session, please try again.")
			return
		}

		if !h.Auth.Privileged(session.User.V.Role) {
			slog.WarnContext(ctx, "Rejected session of unprivileged user", slog.String("user_id", session.User.V.ID), slog.String("role", session.User.V.Role))
			h.endSession(w, r, session.ID)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.SetSession(ctx, *session)))
	})
}

// forceLogin redirects to the login page, which returns to the current page
// after logging in.
func (h *handler) forceLogin(w http.ResponseWriter, r *http.Request) {
	u := url.URL{Path: "/login"}
	if r.Method == http.MethodGet {
		u.RawQuery = url.Values{"rd": {r.URL.RequestURI()}}.Encode()
	}
	http.Redirect(w, r, u.String(), http.StatusFound)
}

func (h *handler) endSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if sessionID != "" {
		if err := h.Sessions.DeleteSession(r.Context(), sessionID); err != nil {
			slog.ErrorContext(r.Context(), "Failed to delete session", slog.Any("err", err))
		}
	}
	h.Auth.RemoveSessionCookie(w)
}

// unauthorized ends the session and redirects to the login page when the
// backend rejected the token. It reports whether it did so.
func (h *handler) unauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}

	slog.InfoContext(r.Context(), "Backend rejected session token", slog.Any("err", err))
	h.endSession(w, r, auth.GetSession(r).ID)
	h.forceLogin(w, r)
	return true
}

type LoginVars struct {
	Page
	Email    string
	Redirect string
	Errors   form.Errors
}

func (h *handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	redirect := safeRedirect(r.URL.Query().Get("rd"))

	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		if session, err := h.Sessions.GetSession(ctx, cookie.Value); err == nil && h.Auth.Privileged(session.User.V.Role) {
			http.Redirect(w, r, redirect, http.StatusFound)
			return
		}
	}

	h.render(w, r, http.StatusOK, "login.gohtml", LoginVars{
		Page:     h.page(r, "Login", ""),
		Redirect: redirect,
	})
}

func (h *handler) DoLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	login := form.ParseLogin(r)
	redirect := safeRedirect(r.PostFormValue("rd"))
	vars := LoginVars{
		Page:     h.page(r, "Login", ""),
		Email:    login.Email,
		Redirect: redirect,
	}

	if errs := h.Validator.Struct(login); errs != nil {
		vars.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, "login.gohtml", vars)
		return
	}

	rs, err := h.Backend.Login(ctx, login.Email, login.Password)
	if err != nil {
		slog.InfoContext(ctx, "Login failed", slog.String("email", login.Email), slog.Any("err", err))
		vars.Errors = form.Errors{"": backend.Message(err, loginFailedMessage)}
		h.render(w, r, http.StatusUnauthorized, "login.gohtml", vars)
		return
	}

	if !h.Auth.Privileged(rs.Result.Role) {
		slog.WarnContext(ctx, "Rejected login of unprivileged user", slog.String("email", login.Email), slog.String("role", rs.Result.Role))
		vars.Errors = form.Errors{"": accessDeniedMessage}
		h.render(w, r, http.StatusForbidden, "login.gohtml", vars)
		return
	}

	now := time.Now()
	session := database.Session{
		ID:        auth.RandomStr(32),
		Token:     rs.Token,
		User:      xpgtype.NewJSON(rs.Result),
		CreatedAt: now,
		ExpiresAt: h.Auth.SessionExpiry(rs.Token, now),
	}
	if err = h.Sessions.CreateSession(ctx, session); err != nil {
		slog.ErrorContext(ctx, "Failed to create session", slog.Any("err", err))
		vars.Errors = form.Errors{"": loginFailedMessage}
		h.render(w, r, http.StatusInternalServerError, "login.gohtml", vars)
		return
	}

	h.Auth.SetSessionCookie(w, session.ID, session.ExpiresAt)
	http.Redirect(w, r, redirect, http.StatusFound)
}

func (h *handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r, auth.GetSession(r).ID)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// safeRedirect only allows paths on this server and falls back to the
// dashboard.
func safeRedirect(rd string) string {
	if rd == "" || !strings.HasPrefix(rd, "/") || strings.HasPrefix(rd, "//") || strings.HasPrefix(rd, `/\`) {
		return "/dashboard"
	}
	u, err := url.Parse(rd)
	if err != nil || u.Scheme != "" || u.Host != "" || strings.HasPrefix(u.Path, "/login") {
		return "/dashboard"
	}
	return rd
}
