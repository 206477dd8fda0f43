package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	RoleAdmin     = "admin"
	RoleSuperuser = "superuser"
)

// User is both the logged-in admin cached in the session and a user managed
// through the admin screens.
type User struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	ProfileImage   string   `json:"profileImage"`
	Verified       bool     `json:"verified"`
	Friends        []Person `json:"friends,omitempty"`
	FollowingClubs []Club   `json:"followingClubs,omitempty"`
	CreatedAt      Time     `json:"createdAt"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	type user User
	var v struct {
		user
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*u = User(v.user)
	if u.ID == "" {
		u.ID = v.MongoID
	}
	return nil
}

// Person is the short form of a user embedded in followers, friends and
// event attendance lists.
type Person struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

func (p *Person) UnmarshalJSON(data []byte) error {
	// attendance lists may contain bare user ids
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*p = Person{ID: id}
		return nil
	}

	type person Person
	var v struct {
		person
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Person(v.person)
	if p.ID == "" {
		p.ID = v.MongoID
	}
	return nil
}

type Club struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ClubImage   string   `json:"clubImage"`
	Followers   []Person `json:"followers,omitempty"`
}

func (c *Club) UnmarshalJSON(data []byte) error {
	// posts reference their club either by id or populated
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*c = Club{ID: id}
		return nil
	}

	type club Club
	var v struct {
		club
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Club(v.club)
	if c.ID == "" {
		c.ID = v.MongoID
	}
	return nil
}

type Post struct {
	ID           string            `json:"id"`
	Club         Club              `json:"clubId"`
	Content      string            `json:"content"`
	Media        []string          `json:"media"`
	IsEvent      bool              `json:"isEvent"`
	EventDetails *EventDetails     `json:"eventDetails,omitempty"`
	Likes        []json.RawMessage `json:"likes"`
	Shares       []json.RawMessage `json:"shares"`
	Comments     []json.RawMessage `json:"comments"`
	CreatedAt    Time              `json:"createdAt"`
}

func (p *Post) UnmarshalJSON(data []byte) error {
	type post Post
	var v struct {
		post
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Post(v.post)
	if p.ID == "" {
		p.ID = v.MongoID
	}
	return nil
}

type EventDetails struct {
	EventName  string   `json:"eventName"`
	EventDate  Time     `json:"eventDate"`
	Location   string   `json:"location"`
	Interested []Person `json:"interested"`
	Going      []Person `json:"going"`
}

// Time decodes the date formats the backend and HTML date inputs produce.
// Missing, null or unparsable values decode to the zero time instead of
// failing the whole response.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// PageRequest addresses one page of a collection. Page is zero-based; the
// backend expects it one-based.
type PageRequest struct {
	Page  int
	Limit int
	Query string
}

// Page is one page of a paginated collection. The backend names its total
// field per resource, all known spellings are accepted.
type Page[T any] struct {
	Items      []T
	Total      int
	TotalPages int
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var v struct {
		Result     []T  `json:"result"`
		Total      *int `json:"total"`
		TotalClubs *int `json:"totalClubs"`
		TotalUsers *int `json:"totalUsers"`
		TotalPosts *int `json:"totalPosts"`
		TotalPages int  `json:"totalPages"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to decode page: %w", err)
	}

	p.Items = v.Result
	p.TotalPages = v.TotalPages
	switch {
	case v.Total != nil:
		p.Total = *v.Total
	case v.TotalClubs != nil:
		p.Total = *v.TotalClubs
	case v.TotalUsers != nil:
		p.Total = *v.TotalUsers
	case v.TotalPosts != nil:
		p.Total = *v.TotalPosts
	default:
		p.Total = len(v.Result)
	}
	return nil
}

type result[T any] struct {
	Result T `json:"result"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	Result User   `json:"result"`
}
