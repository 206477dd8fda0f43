package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
)

func (c *Client) GetClubPosts(ctx context.Context, token string, clubID string) ([]Post, error) {
	var rs struct {
		Posts []Post `json:"posts"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "clubs", url.PathEscape(clubID), "posts"), token, nil, &rs); err != nil {
		return nil, fmt.Errorf("failed to get club posts: %w", err)
	}
	return rs.Posts, nil
}

// GetClubPost finds a single post of a club. The API has no single post
// endpoint, so the club's posts are searched.
func (c *Client) GetClubPost(ctx context.Context, token string, clubID string, postID string) (*Post, error) {
	posts, err := c.GetClubPosts(ctx, token, clubID)
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(posts, func(p Post) bool {
		return p.ID == postID
	})
	if i == -1 {
		return nil, fmt.Errorf("failed to get club post %s: %w", postID, ErrNotFound)
	}
	return &posts[i], nil
}

func (c *Client) GetPosts(ctx context.Context, token string, rq PageRequest) (*Page[Post], error) {
	var page Page[Post]
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(pageQuery(rq), "posts"), token, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	return &page, nil
}

type PostInput struct {
	Content string
	Media   *File
}

// EventInput is a post with schedule and location. EventDate is passed
// through in the datetime-local format the form submitted.
type EventInput struct {
	PostInput
	EventName string
	EventDate string
	Location  string
}

func (c *Client) CreatePost(ctx context.Context, token string, clubID string, in PostInput) error {
	fields := []field{
		{name: "content", value: in.Content},
	}
	if err := c.doMultipart(ctx, http.MethodPost, c.endpoint(nil, "clubs", url.PathEscape(clubID), "posts"), token, fields, "media", in.Media, nil); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (c *Client) CreateEvent(ctx context.Context, token string, clubID string, in EventInput) error {
	fields := []field{
		{name: "content", value: in.Content},
		{name: "eventName", value: in.EventName},
		{name: "eventDate", value: in.EventDate},
		{name: "location", value: in.Location},
	}
	if err := c.doMultipart(ctx, http.MethodPost, c.endpoint(nil, "clubs", url.PathEscape(clubID), "event"), token, fields, "media", in.Media, nil); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (c *Client) DeletePost(ctx context.Context, token string, postID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.endpoint(nil, "posts", url.PathEscape(postID)), token, nil, nil); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
