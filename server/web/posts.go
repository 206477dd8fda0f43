package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/clubadmin/clubadmin/internal/xquery"
	"github.com/clubadmin/clubadmin/server/auth"
	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/form"
	"github.com/clubadmin/clubadmin/server/web/models"
)

func clubURL(clubID string) string {
	return "/clubs/" + url.PathEscape(clubID)
}

func postURL(clubID string, postID string) string {
	return clubURL(clubID) + "/posts/" + url.PathEscape(postID)
}

func (h *handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	clubID := r.PathValue("club_id")

	parseErr := parseForm(w, r)
	if parseErr != nil && !errors.Is(parseErr, errUploadTooLarge) {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	values := form.ParsePost(r)
	errs := h.Validator.Struct(values)
	if errs == nil {
		errs = form.Errors{}
	}
	image := readImage(r, parseErr, "media", errs)
	if len(errs) > 0 {
		h.renderClub(w, r, http.StatusUnprocessableEntity, clubForms{
			modal: "post",
			post:  PostForm{Values: values, Errors: errs},
		})
		return
	}

	if err := h.Backend.CreatePost(ctx, session.Token, clubID, backend.PostInput{
		Content: values.Content,
		Media:   toFile(image),
	}); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to create post", slog.String("club_id", clubID), slog.Any("err", err))
		h.renderClub(w, r, http.StatusUnprocessableEntity, clubForms{
			modal: "post",
			post: PostForm{
				Values: values,
				Errors: apiFormError(nil, err, "content", "Failed to create post"),
			},
		})
		return
	}

	http.Redirect(w, r, clubURL(clubID), http.StatusSeeOther)
}

func (h *handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	clubID := r.PathValue("club_id")

	parseErr := parseForm(w, r)
	if parseErr != nil && !errors.Is(parseErr, errUploadTooLarge) {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	values := form.ParseEvent(r)
	errs := h.Validator.Struct(values)
	if errs == nil {
		errs = form.Errors{}
	}
	image := readImage(r, parseErr, "media", errs)
	if len(errs) > 0 {
		h.renderClub(w, r, http.StatusUnprocessableEntity, clubForms{
			modal: "event",
			event: EventForm{Values: values, Errors: errs},
		})
		return
	}

	if err := h.Backend.CreateEvent(ctx, session.Token, clubID, backend.EventInput{
		PostInput: backend.PostInput{
			Content: values.Content,
			Media:   toFile(image),
		},
		EventName: values.EventName,
		EventDate: values.EventDate,
		Location:  values.Location,
	}); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to create event", slog.String("club_id", clubID), slog.Any("err", err))
		h.renderClub(w, r, http.StatusUnprocessableEntity, clubForms{
			modal: "event",
			event: EventForm{
				Values: values,
				Errors: apiFormError(nil, err, "eventName", "Failed to create event"),
			},
		})
		return
	}

	http.Redirect(w, r, clubURL(clubID), http.StatusSeeOther)
}

func (h *handler) ConfirmDeletePost(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("club_id")
	postID := r.PathValue("post_id")

	h.render(w, r, http.StatusOK, "confirm.gohtml", ConfirmVars{
		Page:      h.page(r, "Delete post", "clubs"),
		Heading:   "Delete post",
		Message:   "Are you sure you want to delete this post? This cannot be undone.",
		Action:    postURL(clubID, postID) + "/delete",
		Submit:    "Delete",
		CancelURL: clubURL(clubID),
	})
}

func (h *handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	clubID := r.PathValue("club_id")
	postID := r.PathValue("post_id")

	if err := h.Backend.DeletePost(ctx, session.Token, postID); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to delete post", slog.String("post_id", postID), slog.Any("err", err))
		h.render(w, r, http.StatusBadGateway, "confirm.gohtml", ConfirmVars{
			Page:      h.page(r, "Delete post", "clubs"),
			Heading:   "Delete post",
			Message:   "Are you sure you want to delete this post? This cannot be undone.",
			Action:    postURL(clubID, postID) + "/delete",
			Submit:    "Try again",
			CancelURL: clubURL(clubID),
			Error:     backend.Message(err, "Failed to delete post"),
		})
		return
	}

	h.SendNotification(session.User.V.Email, "deleted post `%s` of club `%s`", postID, clubID)
	http.Redirect(w, r, clubURL(clubID), http.StatusSeeOther)
}

type GalleryVars struct {
	Page
	BackURL string
	Images  []GalleryImage
	Current GalleryImage
	Index   int
	PrevURL string
	NextURL string
}

type GalleryImage struct {
	URL     string
	Link    string
	Current bool
}

func (h *handler) PostMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	clubID := r.PathValue("club_id")
	postID := r.PathValue("post_id")

	post, err := h.Backend.GetClubPost(ctx, session.Token, clubID, postID)
	if err != nil {
		h.backendFailure(w, r, err, "Failed to fetch post")
		return
	}

	urls := h.Media.URLs(post.Media)
	if len(urls) == 0 {
		h.NotFound(w, r)
		return
	}

	index := xquery.ParseInt(r.URL.Query(), "i", 0)
	index = max(0, min(index, len(urls)-1))

	base := postURL(clubID, postID) + "/media?i="
	vars := GalleryVars{
		Page:    h.page(r, "Media", "clubs"),
		BackURL: clubURL(clubID) + "#post-" + url.PathEscape(postID),
		Images:  make([]GalleryImage, len(urls)),
		Index:   index,
	}
	for i, u := range urls {
		vars.Images[i] = GalleryImage{
			URL:     u,
			Link:    base + strconv.Itoa(i),
			Current: i == index,
		}
	}
	vars.Current = vars.Images[index]
	if index > 0 {
		vars.PrevURL = base + strconv.Itoa(index-1)
	}
	if index < len(urls)-1 {
		vars.NextURL = base + strconv.Itoa(index+1)
	}

	h.render(w, r, http.StatusOK, "gallery.gohtml", vars)
}

type PeopleVars struct {
	Page
	Event     models.Event
	Kind      string
	People    []models.Person
	BackURL   string
	ExportURL string
}

// eventPeople loads the attendance list kind ("interested" or "going") of an
// event post.
func (h *handler) eventPeople(w http.ResponseWriter, r *http.Request) (*backend.EventDetails, string, []backend.Person, bool) {
	ctx := r.Context()
	session := auth.GetSession(r)
	clubID := r.PathValue("club_id")
	postID := r.PathValue("post_id")

	kind := r.PathValue("kind")
	if kind != "interested" && kind != "going" {
		h.NotFound(w, r)
		return nil, "", nil, false
	}

	post, err := h.Backend.GetClubPost(ctx, session.Token, clubID, postID)
	if err != nil {
		h.backendFailure(w, r, err, "Failed to fetch event")
		return nil, "", nil, false
	}
	if !post.IsEvent || post.EventDetails == nil {
		h.NotFound(w, r)
		return nil, "", nil, false
	}

	people := post.EventDetails.Interested
	if kind == "going" {
		people = post.EventDetails.Going
	}
	return post.EventDetails, kind, people, true
}

func (h *handler) People(w http.ResponseWriter, r *http.Request) {
	details, kind, people, ok := h.eventPeople(w, r)
	if !ok {
		return
	}

	clubID := r.PathValue("club_id")
	postID := r.PathValue("post_id")
	u := postURL(clubID, postID)

	vars := PeopleVars{
		Page:      h.page(r, details.EventName, "clubs"),
		Event:     models.NewEvent(*details, u),
		Kind:      kind,
		People:    make([]models.Person, len(people)),
		BackURL:   clubURL(clubID) + "#post-" + url.PathEscape(postID),
		ExportURL: u + "/people/" + kind + "/export",
	}
	for i, person := range people {
		vars.People[i] = models.NewPerson(person, h.Media)
	}

	h.render(w, r, http.StatusOK, "people.gohtml", vars)
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func (h *handler) ExportPeople(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	details, kind, people, ok := h.eventPeople(w, r)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.ErrorContext(ctx, "Failed to close people export", slog.Any("err", err))
		}
	}()

	if err := writePeopleSheet(f, peopleSheetName(kind), people); err != nil {
		slog.ErrorContext(ctx, "Failed to build people export", slog.Any("err", err))
		h.renderError(w, r, http.StatusInternalServerError, "Failed to export people.")
		return
	}

	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(details.EventName, "-"), "-")
	if name == "" {
		name = "event"
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s.xlsx", name, kind))
	if err := f.Write(w); err != nil {
		slog.ErrorContext(ctx, "Failed to write people export", slog.Any("err", err))
	}
}

func peopleSheetName(kind string) string {
	if kind == "going" {
		return "Going"
	}
	return "Interested"
}

// writePeopleSheet fills sheet with a Name and Email row per person. Cells are
// written as plain strings so names are never evaluated as formulas.
func writePeopleSheet(f *excelize.File, sheet string, people []backend.Person) error {
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "B", 32); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	rows := make([][2]string, 0, len(people)+1)
	rows = append(rows, [2]string{"Name", "Email"})
	for _, person := range people {
		rows = append(rows, [2]string{person.Name, person.Email})
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return err
			}
			if err = f.SetCellStr(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}
	return nil
}
