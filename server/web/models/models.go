package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/media"
)

const (
	DefaultAvatarURL = "/static/avatar.svg"
	DefaultClubURL   = "/static/club.svg"
	UnknownName      = "Unknown user"

	// posts longer than this are collapsed to their first line
	collapseContentLength = 150
	mediaPreviewSize      = 4
)

func NewUser(user backend.User, m media.Resolver) User {
	friends := make([]Person, len(user.Friends))
	for i, friend := range user.Friends {
		friends[i] = NewPerson(friend, m)
	}

	clubs := make([]Club, len(user.FollowingClubs))
	for i, club := range user.FollowingClubs {
		clubs[i] = NewClub(club, m)
	}

	return User{
		ID:             user.ID,
		Name:           displayName(user.Name),
		Email:          user.Email,
		Role:           user.Role,
		Verified:       user.Verified,
		ImageURL:       m.URL(user.ProfileImage),
		Initial:        initial(user.Name, user.Email),
		JoinedAt:       user.CreatedAt.Time,
		URL:            "/users/" + url.PathEscape(user.ID),
		Friends:        friends,
		FollowingClubs: clubs,
	}
}

type User struct {
	ID       string
	Name     string
	Email    string
	Role     string
	Verified bool
	// ImageURL is empty when the user has no profile image, templates show
	// Initial instead.
	ImageURL       string
	Initial        string
	JoinedAt       time.Time
	URL            string
	Friends        []Person
	FollowingClubs []Club
}

func NewPerson(person backend.Person, m media.Resolver) Person {
	imageURL := m.URL(person.ProfileImage)
	if imageURL == "" {
		imageURL = DefaultAvatarURL
	}
	return Person{
		ID:       person.ID,
		Name:     displayName(person.Name),
		Email:    person.Email,
		ImageURL: imageURL,
		URL:      "/users/" + url.PathEscape(person.ID),
	}
}

type Person struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
	URL      string
}

func NewClub(club backend.Club, m media.Resolver) Club {
	followers := make([]Person, len(club.Followers))
	for i, follower := range club.Followers {
		followers[i] = NewPerson(follower, m)
	}

	imageURL := m.URL(club.ClubImage)
	if imageURL == "" {
		imageURL = DefaultClubURL
	}

	name := club.Name
	if name == "" {
		name = "Unnamed club"
	}

	return Club{
		ID:          club.ID,
		Name:        name,
		Description: club.Description,
		ImageURL:    imageURL,
		URL:         "/clubs/" + url.PathEscape(club.ID),
		Followers:   followers,
	}
}

type Club struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	URL         string
	Followers   []Person
}

func NewPost(post backend.Post, clubID string, expanded bool, m media.Resolver) Post {
	postURL := fmt.Sprintf("/clubs/%s/posts/%s", url.PathEscape(clubID), url.PathEscape(post.ID))

	mediaURLs := m.URLs(post.Media)
	preview := make([]MediaItem, 0, min(len(mediaURLs), mediaPreviewSize))
	for i, u := range mediaURLs {
		if i == mediaPreviewSize {
			preview[i-1].More = len(mediaURLs) - mediaPreviewSize
			break
		}
		preview = append(preview, MediaItem{
			URL:        u,
			GalleryURL: postURL + "/media?i=" + strconv.Itoa(i),
		})
	}

	collapsible := utf8.RuneCountInString(post.Content) > collapseContentLength
	body := post.Content
	if collapsible && !expanded {
		body, _, _ = strings.Cut(post.Content, "\n")
	}

	p := Post{
		ID:          post.ID,
		ClubID:      clubID,
		URL:         postURL,
		Body:        body,
		Collapsible: collapsible,
		Expanded:    collapsible && expanded,
		Media:       preview,
		MediaCount:  len(mediaURLs),
		IsEvent:     post.IsEvent,
		Likes:       len(post.Likes),
		Shares:      len(post.Shares),
		Comments:    len(post.Comments),
		CreatedAt:   post.CreatedAt.Time,
	}
	if post.IsEvent && post.EventDetails != nil {
		event := NewEvent(*post.EventDetails, postURL)
		p.Event = &event
	}
	return p
}

type Post struct {
	ID     string
	ClubID string
	URL    string
	// Body is the part of the content to render, the first line only for
	// collapsed long posts.
	Body        string
	Collapsible bool
	Expanded    bool
	Media       []MediaItem
	MediaCount  int
	IsEvent     bool
	Event       *Event
	Likes       int
	Shares      int
	Comments    int
	CreatedAt   time.Time
}

type MediaItem struct {
	URL        string
	GalleryURL string
	// More counts the images hidden behind this, the last preview tile.
	More int
}

func NewEvent(details backend.EventDetails, postURL string) Event {
	return Event{
		Name:          details.EventName,
		Date:          details.EventDate.Time,
		Location:      details.Location,
		Interested:    len(details.Interested),
		Going:         len(details.Going),
		InterestedURL: postURL + "/people/interested",
		GoingURL:      postURL + "/people/going",
	}
}

type Event struct {
	Name          string
	Date          time.Time
	Location      string
	Interested    int
	Going         int
	InterestedURL string
	GoingURL      string
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return UnknownName
	}
	return name
}

func initial(name string, email string) string {
	for _, s := range []string{name, email} {
		s = strings.TrimSpace(s)
		if r, _ := utf8.DecodeRuneInString(s); r != utf8.RuneError {
			return string(unicode.ToUpper(r))
		}
	}
	return "?"
}
