package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/clubadmin/clubadmin/internal/xquery"
	"github.com/clubadmin/clubadmin/server/auth"
	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/form"
)

type SettingsVars struct {
	Page
	Saved         string
	PasswordForm  PasswordForm
	ImageErrors   form.Errors
	MaxImageBytes int64
}

type PasswordForm struct {
	Errors form.Errors
}

func (h *handler) Settings(w http.ResponseWriter, r *http.Request) {
	h.renderSettings(w, r, http.StatusOK, SettingsVars{
		Saved: xquery.ParseOneOf(r.URL.Query(), "saved", "", "password", "image"),
	})
}

func (h *handler) renderSettings(w http.ResponseWriter, r *http.Request, status int, vars SettingsVars) {
	vars.Page = h.page(r, "Settings", "settings")
	vars.MaxImageBytes = form.MaxImageSize
	h.render(w, r, status, "settings.gohtml", vars)
}

func (h *handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	values := form.ParsePassword(r)
	if errs := h.Validator.Struct(values); errs != nil {
		h.renderSettings(w, r, http.StatusUnprocessableEntity, SettingsVars{
			PasswordForm: PasswordForm{Errors: errs},
		})
		return
	}

	if err := h.Backend.ChangePassword(ctx, session.Token, values.CurrentPassword, values.NewPassword); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to change password", slog.Any("err", err))
		h.renderSettings(w, r, http.StatusUnprocessableEntity, SettingsVars{
			PasswordForm: PasswordForm{Errors: form.Errors{"": backend.Message(err, "Failed to change password")}},
		})
		return
	}

	http.Redirect(w, r, "/settings?saved=password", http.StatusSeeOther)
}

func (h *handler) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)

	parseErr := parseForm(w, r)
	if parseErr != nil && !errors.Is(parseErr, errUploadTooLarge) {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	errs := form.Errors{}
	image := readImage(r, parseErr, "profileImage", errs)
	if image == nil {
		errs.Add("profileImage", "Please choose an image")
	}
	if len(errs) > 0 {
		h.renderSettings(w, r, http.StatusUnprocessableEntity, SettingsVars{ImageErrors: errs})
		return
	}

	if err := h.Backend.UpdateProfileImage(ctx, session.Token, backend.File(*image)); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to update profile image", slog.Any("err", err))
		h.renderSettings(w, r, http.StatusUnprocessableEntity, SettingsVars{
			ImageErrors: form.Errors{"": backend.Message(err, "Failed to update profile image")},
		})
		return
	}

	h.refreshSessionUser(r)
	http.Redirect(w, r, "/settings?saved=image", http.StatusSeeOther)
}

// refreshSessionUser reloads the cached profile of the logged-in admin.
func (h *handler) refreshSessionUser(r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)

	user, err := h.Backend.GetProfile(ctx, session.Token)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to refresh profile", slog.Any("err", err))
		return
	}

	if err = h.Sessions.UpdateSessionUser(ctx, session.ID, *user); err != nil {
		slog.ErrorContext(ctx, "Failed to update session user", slog.Any("err", err))
	}
}
