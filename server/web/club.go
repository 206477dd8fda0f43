package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/clubadmin/clubadmin/internal/xquery"
	"github.com/clubadmin/clubadmin/server/auth"
	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/form"
	"github.com/clubadmin/clubadmin/server/web/models"
)

const followersPreview = 3

type ClubVars struct {
	Page
	Club             models.Club
	Followers        []models.Person
	FollowerCount    int
	ShowAllFollowers bool
	FollowersURL     string
	Posts            []PostRow
	PostCount        int
	EventCount       int
	PostsError       string
	DeleteURL        string
	QRURL            string

	Modal     string
	UpdateURL string
	PostURL   string
	EventURL  string
	CloseURL  string
	ClubForm  ClubForm
	PostForm  PostForm
	EventForm EventForm
}

type PostRow struct {
	models.Post
	ToggleURL string
	DeleteURL string
}

// clubForms carries a failed submission back into the club page.
type clubForms struct {
	modal string
	club  ClubForm
	post  PostForm
	event EventForm
}

func (h *handler) Club(w http.ResponseWriter, r *http.Request) {
	h.renderClub(w, r, http.StatusOK, clubForms{})
}

func (h *handler) renderClub(w http.ResponseWriter, r *http.Request, status int, forms clubForms) {
	ctx := r.Context()
	session := auth.GetSession(r)
	query := r.URL.Query()
	clubID := r.PathValue("club_id")

	club, err := h.Backend.GetClub(ctx, session.Token, clubID)
	if err != nil {
		h.backendFailure(w, r, err, "Failed to fetch club")
		return
	}

	c := models.NewClub(*club, h.Media)
	showAll := query.Get("followers") == "all"

	vars := ClubVars{
		Page:             h.page(r, c.Name, "clubs"),
		Club:             c,
		Followers:        c.Followers,
		FollowerCount:    len(c.Followers),
		ShowAllFollowers: showAll,
		DeleteURL:        c.URL + "/delete?from=detail",
		QRURL:            c.URL + "/qr.png",
		Modal:            xquery.ParseOneOf(query, "modal", "", "update", "post", "event"),
		UpdateURL:        withModal(r.URL, "update"),
		PostURL:          withModal(r.URL, "post"),
		EventURL:         withModal(r.URL, "event"),
		CloseURL:         withModal(r.URL, ""),
		ClubForm:         forms.club,
		PostForm:         forms.post,
		EventForm:        forms.event,
	}
	if forms.modal != "" {
		vars.Modal = forms.modal
	}
	if !showAll && len(c.Followers) > followersPreview {
		vars.Followers = c.Followers[:followersPreview]
	}
	followersQuery := url.Values{}
	if !showAll {
		followersQuery.Set("followers", "all")
	}
	vars.FollowersURL = c.URL
	if len(followersQuery) > 0 {
		vars.FollowersURL += "?" + followersQuery.Encode()
	}

	vars.ClubForm.Action = c.URL
	if vars.ClubForm.Errors == nil {
		vars.ClubForm.Values = form.Club{Name: club.Name, Description: club.Description}
	}
	vars.PostForm.Action = c.URL + "/posts"
	vars.EventForm.Action = c.URL + "/events"

	posts, err := h.Backend.GetClubPosts(ctx, session.Token, clubID)
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to fetch club posts", slog.String("club_id", clubID), slog.Any("err", err))
		vars.PostsError = backend.Message(err, "Failed to fetch posts")
	}

	expand := query.Get("expand")
	vars.Posts = make([]PostRow, len(posts))
	for i, post := range posts {
		p := models.NewPost(post, clubID, post.ID == expand, h.Media)

		toggle := url.Values{}
		if showAll {
			toggle.Set("followers", "all")
		}
		if !p.Expanded {
			toggle.Set("expand", p.ID)
		}
		toggleURL := c.URL
		if len(toggle) > 0 {
			toggleURL += "?" + toggle.Encode()
		}

		vars.Posts[i] = PostRow{
			Post:      p,
			ToggleURL: toggleURL + "#post-" + url.PathEscape(p.ID),
			DeleteURL: p.URL + "/delete",
		}
		if p.IsEvent {
			vars.EventCount++
		} else {
			vars.PostCount++
		}
	}

	h.render(w, r, status, "club.gohtml", vars)
}

func (h *handler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	clubID := r.PathValue("club_id")

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
		h.renderClub(w, r, http.StatusUnprocessableEntity, clubForms{
			modal: "update",
			club:  ClubForm{Values: values, Errors: errs},
		})
		return
	}

	if err := h.Backend.UpdateClub(ctx, session.Token, clubID, backend.ClubInput{
		Name:        values.Name,
		Description: values.Description,
		Image:       toFile(image),
	}); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to update club", slog.String("club_id", clubID), slog.Any("err", err))
		h.renderClub(w, r, http.StatusUnprocessableEntity, clubForms{
			modal: "update",
			club: ClubForm{
				Values: values,
				Errors: apiFormError(nil, err, "name", "Failed to update club"),
			},
		})
		return
	}

	h.SendNotification(session.User.V.Email, "updated club `%s` (%s)", values.Name, clubID)
	http.Redirect(w, r, "/clubs/"+url.PathEscape(clubID), http.StatusSeeOther)
}
