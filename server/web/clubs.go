package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/clubadmin/clubadmin/internal/xquery"
	"github.com/clubadmin/clubadmin/server/auth"
	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/form"
	"github.com/clubadmin/clubadmin/server/web/models"
)

type ClubsVars struct {
	Page
	Clubs       []ClubRow
	Pagination  models.Pagination
	Search      string
	CurrentPage int
	Total       int
	Error       string
	// ListQuery keeps page and search in links leaving the list.
	ListQuery string
	Modal     string
	CreateURL string
	CloseURL  string
	Form      ClubForm
}

type ClubRow struct {
	models.Club
	DeleteURL string
}

func (h *handler) Clubs(w http.ResponseWriter, r *http.Request) {
	h.renderClubs(w, r, http.StatusOK, ClubForm{})
}

func (h *handler) renderClubs(w http.ResponseWriter, r *http.Request, status int, clubForm ClubForm) {
	ctx := r.Context()
	session := auth.GetSession(r)
	query := r.URL.Query()

	page := xquery.ParsePage(query, "page")
	search := xquery.ParseString(query, "q", "")
	pageSize := h.Cfg.Views.ClubsPageSize

	vars := ClubsVars{
		Page:        h.page(r, "Clubs", "clubs"),
		Search:      search,
		CurrentPage: page,
		ListQuery:   listQuery(page, search),
		Modal:       xquery.ParseOneOf(query, "modal", "", "create"),
		CreateURL:   withModal(r.URL, "create"),
		CloseURL:    withModal(r.URL, ""),
		Form:        clubForm,
	}
	vars.Form.Action = "/clubs" + vars.ListQuery
	if clubForm.Errors != nil {
		vars.Modal = "create"
	}

	rs, err := h.Backend.GetClubs(ctx, session.Token, backend.PageRequest{
		Page:  page,
		Limit: pageSize,
		Query: search,
	})
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to fetch clubs", slog.Int("page", page), slog.String("search", search), slog.Any("err", err))
		vars.Error = backend.Message(err, "Failed to fetch clubs")
		h.render(w, r, status, "clubs.gohtml", vars)
		return
	}

	pages := models.PageCount(rs.Total, pageSize)
	if last := models.ClampPage(page, pages); last != page && r.Method == http.MethodGet {
		http.Redirect(w, r, "/clubs"+listQuery(last, search), http.StatusFound)
		return
	}

	vars.Total = rs.Total
	vars.Clubs = make([]ClubRow, len(rs.Items))
	for i, club := range rs.Items {
		c := models.NewClub(club, h.Media)
		vars.Clubs[i] = ClubRow{
			Club:      c,
			DeleteURL: c.URL + "/delete?" + deleteTarget{page: page, search: search, items: len(rs.Items), from: "list"}.query(),
		}
	}
	vars.Pagination = models.NewPagination("/clubs", query, models.ClampPage(page, pages), pages)

	h.render(w, r, status, "clubs.gohtml", vars)
}

func (h *handler) CreateClub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)

	parseErr := parseForm(w, r)
	if parseErr != nil && !errors.Is(parseErr, errUploadTooLarge) {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	values := form.ParseClub(r)
	errs := h.Validator.Struct(values)
	if errs == nil {
		errs = form.Errors{}
	}
	image := readImage(r, parseErr, "clubImage", errs)
	if len(errs) > 0 {
		h.renderClubs(w, r, http.StatusUnprocessableEntity, ClubForm{Values: values, Errors: errs})
		return
	}

	club, err := h.Backend.CreateClub(ctx, session.Token, backend.ClubInput{
		Name:        values.Name,
		Description: values.Description,
		Image:       toFile(image),
	})
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to create club", slog.String("name", values.Name), slog.Any("err", err))
		h.renderClubs(w, r, http.StatusUnprocessableEntity, ClubForm{
			Values: values,
			Errors: apiFormError(nil, err, "name", "Failed to create club"),
		})
		return
	}

	h.SendNotification(session.User.V.Email, "created club `%s` (%s)", values.Name, club.ID)
	http.Redirect(w, r, withModal(r.URL, ""), http.StatusSeeOther)
}

// deleteTarget reads where to return to after a delete from a list.
type deleteTarget struct {
	page   int
	search string
	items  int
	from   string
}

func parseDeleteTarget(values url.Values) deleteTarget {
	return deleteTarget{
		page:   xquery.ParsePage(values, "page"),
		search: xquery.ParseString(values, "q", ""),
		items:  xquery.ParseInt(values, "items", 0),
		from:   xquery.ParseOneOf(values, "from", "list", "list", "detail"),
	}
}

func (t deleteTarget) hidden() []HiddenField {
	return []HiddenField{
		{Name: "page", Value: strconv.Itoa(t.page)},
		{Name: "q", Value: t.search},
		{Name: "items", Value: strconv.Itoa(t.items)},
		{Name: "from", Value: t.from},
	}
}

func (t deleteTarget) query() string {
	q := url.Values{}
	for _, f := range t.hidden() {
		q.Set(f.Name, f.Value)
	}
	return q.Encode()
}

// listURL is the list page to show after the item was deleted.
func (t deleteTarget) listURL(path string) string {
	return path + listQuery(models.PageAfterDelete(t.page, t.items), t.search)
}

func (h *handler) ConfirmDeleteClub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	clubID := r.PathValue("club_id")
	target := parseDeleteTarget(r.URL.Query())

	club, err := h.Backend.GetClub(ctx, session.Token, clubID)
	if err != nil {
		h.backendFailure(w, r, err, "Failed to fetch club")
		return
	}

	h.render(w, r, http.StatusOK, "confirm.gohtml", ConfirmVars{
		Page:      h.page(r, "Delete club", "clubs"),
		Heading:   "Delete club",
		Message:   "Are you sure you want to delete the club \"" + club.Name + "\"? This cannot be undone.",
		Action:    "/clubs/" + url.PathEscape(clubID) + "/delete",
		Submit:    "Delete",
		CancelURL: target.clubCancelURL(clubID),
		Hidden:    target.hidden(),
	})
}

// clubCancelURL leads back to where the delete of clubID was started.
func (t deleteTarget) clubCancelURL(clubID string) string {
	if t.from == "detail" {
		return "/clubs/" + url.PathEscape(clubID)
	}
	return "/clubs" + listQuery(t.page, t.search)
}

func (h *handler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	clubID := r.PathValue("club_id")

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	target := parseDeleteTarget(r.PostForm)

	if err := h.Backend.DeleteClub(ctx, session.Token, clubID); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to delete club", slog.String("club_id", clubID), slog.Any("err", err))
		h.render(w, r, http.StatusBadGateway, "confirm.gohtml", ConfirmVars{
			Page:      h.page(r, "Delete club", "clubs"),
			Heading:   "Delete club",
			Message:   "Are you sure you want to delete this club? This cannot be undone.",
			Action:    "/clubs/" + url.PathEscape(clubID) + "/delete",
			Submit:    "Try again",
			CancelURL: target.clubCancelURL(clubID),
			Hidden:    target.hidden(),
			Error:     backend.Message(err, "Failed to delete club"),
		})
		return
	}

	h.SendNotification(session.User.V.Email, "deleted club `%s`", clubID)

	if target.from == "detail" {
		http.Redirect(w, r, "/clubs", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target.listURL("/clubs"), http.StatusSeeOther)
}
