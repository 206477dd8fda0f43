package web

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/csrf"

	"github.com/clubadmin/clubadmin/server/auth"
	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/web/models"
)

// Page holds what the layout of every page needs.
type Page struct {
	Title string
	// Nav is the active sidebar entry.
	Nav       string
	Admin     *models.User
	CSRFField template.HTML
	Dev       bool
	// SearchDebounce is the idle time in milliseconds before a search box
	// submits.
	SearchDebounce int64
}

func (h *handler) page(r *http.Request, title string, nav string) Page {
	p := Page{
		Title:          title,
		Nav:            nav,
		CSRFField:      csrf.TemplateField(r),
		Dev:            h.Cfg.Dev,
		SearchDebounce: h.Cfg.Views.SearchDebounce.Std().Milliseconds(),
	}
	if session := auth.GetSession(r); session.ID != "" {
		admin := models.NewUser(session.User.V, h.Media)
		p.Admin = &admin
	}
	return p
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, name string, vars any) {
	ctx := r.Context()

	buf := &bytes.Buffer{}
	if err := h.Templates().ExecuteTemplate(buf, name, vars); err != nil {
		slog.ErrorContext(ctx, "Failed to render template", slog.String("template", name), slog.Any("err", err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type ErrorVars struct {
	Page
	Status  int
	Message string
}

func (h *handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "error.gohtml", ErrorVars{
		Page:    h.page(r, http.StatusText(status), ""),
		Status:  status,
		Message: message,
	})
}

// backendFailure answers a failed backend call of a page that cannot render
// without its data.
func (h *handler) backendFailure(w http.ResponseWriter, r *http.Request, err error, message string) {
	if h.unauthorized(w, r, err) {
		return
	}
	if errors.Is(err, backend.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	slog.ErrorContext(r.Context(), message, slog.Any("err", err))
	h.renderError(w, r, http.StatusBadGateway, backend.Message(err, message))
}

type HiddenField struct {
	Name  string
	Value string
}

type ConfirmVars struct {
	Page
	Heading   string
	Message   string
	Action    string
	Submit    string
	CancelURL string
	Hidden    []HiddenField
	Error     string
}

// listQuery keeps the page and search of a list view, e.g. for form actions
// and redirects back to the list.
func listQuery(page int, search string) string {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if search != "" {
		q.Set("q", search)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// withModal returns u with the modal query parameter set to modal.
func withModal(u *url.URL, modal string) string {
	q := u.Query()
	q.Del("expand")
	if modal == "" {
		q.Del("modal")
	} else {
		q.Set("modal", modal)
	}
	if len(q) == 0 {
		return u.Path
	}
	return u.Path + "?" + q.Encode()
}
