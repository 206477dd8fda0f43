package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/clubadmin/clubadmin/internal/xquery"
	"github.com/clubadmin/clubadmin/server/auth"
	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/web/models"
)

type UsersVars struct {
	Page
	Users       []UserRow
	Pagination  models.Pagination
	Search      string
	CurrentPage int
	Total       int
	Error       string
	// ReturnURL brings the verify toggle back to this list page.
	ReturnURL string
}

type UserRow struct {
	models.User
	DeleteURL string
}

func (h *handler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	query := r.URL.Query()

	page := xquery.ParsePage(query, "page")
	search := xquery.ParseString(query, "q", "")
	pageSize := h.Cfg.Views.UsersPageSize

	vars := UsersVars{
		Page:        h.page(r, "Users", "users"),
		Search:      search,
		CurrentPage: page,
		ReturnURL:   "/users" + listQuery(page, search),
	}

	rs, err := h.Backend.GetUsers(ctx, session.Token, backend.PageRequest{
		Page:  page,
		Limit: pageSize,
		Query: search,
	})
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to fetch users", slog.Int("page", page), slog.String("search", search), slog.Any("err", err))
		vars.Error = backend.Message(err, "Failed to fetch users")
		h.render(w, r, http.StatusOK, "users.gohtml", vars)
		return
	}

	pages := models.PageCount(rs.Total, pageSize)
	if last := models.ClampPage(page, pages); last != page {
		http.Redirect(w, r, "/users"+listQuery(last, search), http.StatusFound)
		return
	}

	target := deleteTarget{page: page, search: search, items: len(rs.Items), from: "list"}
	vars.Total = rs.Total
	vars.Users = make([]UserRow, len(rs.Items))
	for i, user := range rs.Items {
		u := models.NewUser(user, h.Media)
		vars.Users[i] = UserRow{
			User:      u,
			DeleteURL: u.URL + "/delete?" + target.query(),
		}
	}
	vars.Pagination = models.NewPagination("/users", query, page, pages)

	h.render(w, r, http.StatusOK, "users.gohtml", vars)
}

type UserVars struct {
	Page
	User      models.User
	DeleteURL string
	ReturnURL string
}

func (h *handler) User(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	userID := r.PathValue("user_id")

	user, err := h.Backend.GetUser(ctx, session.Token, userID)
	if err != nil {
		h.backendFailure(w, r, err, "Failed to fetch user")
		return
	}

	u := models.NewUser(*user, h.Media)
	h.render(w, r, http.StatusOK, "user.gohtml", UserVars{
		Page:      h.page(r, u.Name, "users"),
		User:      u,
		DeleteURL: u.URL + "/delete?from=detail",
		ReturnURL: u.URL,
	})
}

func (h *handler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	userID := r.PathValue("user_id")

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	verified := xquery.ParseBool(r.PostForm, "verified", false)
	returnURL := safeRedirect(r.PostFormValue("rd"))

	if err := h.Backend.SetUserVerified(ctx, session.Token, userID, verified); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to update user verification", slog.String("user_id", userID), slog.Any("err", err))
		h.renderError(w, r, http.StatusBadGateway, backend.Message(err, "Failed to update user"))
		return
	}

	action := "unverified"
	if verified {
		action = "verified"
	}
	h.SendNotification(session.User.V.Email, "%s user `%s`", action, userID)
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

func (h *handler) ConfirmDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	userID := r.PathValue("user_id")
	target := parseDeleteTarget(r.URL.Query())

	user, err := h.Backend.GetUser(ctx, session.Token, userID)
	if err != nil {
		h.backendFailure(w, r, err, "Failed to fetch user")
		return
	}

	h.render(w, r, http.StatusOK, "confirm.gohtml", h.deleteUserConfirm(r, userID, user.Name, target))
}

func (h *handler) deleteUserConfirm(r *http.Request, userID string, name string, target deleteTarget) ConfirmVars {
	cancelURL := "/users" + listQuery(target.page, target.search)
	if target.from == "detail" {
		cancelURL = "/users/" + url.PathEscape(userID)
	}

	message := "Are you sure you want to delete this user? This cannot be undone."
	if name != "" {
		message = "Are you sure you want to delete the user " + strconv.Quote(name) + "? This cannot be undone."
	}

	return ConfirmVars{
		Page:      h.page(r, "Delete user", "users"),
		Heading:   "Delete user",
		Message:   message,
		Action:    "/users/" + url.PathEscape(userID) + "/delete",
		Submit:    "Delete",
		CancelURL: cancelURL,
		Hidden:    target.hidden(),
	}
}

func (h *handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	userID := r.PathValue("user_id")

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	target := parseDeleteTarget(r.PostForm)

	if err := h.Backend.DeleteUser(ctx, session.Token, userID); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to delete user", slog.String("user_id", userID), slog.Any("err", err))
		vars := h.deleteUserConfirm(r, userID, "", target)
		vars.Submit = "Try again"
		vars.Error = backend.Message(err, "Failed to delete user")
		h.render(w, r, http.StatusBadGateway, "confirm.gohtml", vars)
		return
	}

	h.SendNotification(session.User.V.Email, "deleted user `%s`", userID)

	if target.from == "detail" {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target.listURL("/users"), http.StatusSeeOther)
}
