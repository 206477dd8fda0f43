package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func (c *Client) GetClubs(ctx context.Context, token string, rq PageRequest) (*Page[Club], error) {
	query := pageQuery(rq)
	if rq.Query != "" {
		query.Set("search", rq.Query)
	}

	var page Page[Club]
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(query, "clubs"), token, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get clubs: %w", err)
	}
	return &page, nil
}

func (c *Client) GetClub(ctx context.Context, token string, clubID string) (*Club, error) {
	var rs result[Club]
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "clubs", url.PathEscape(clubID)), token, nil, &rs); err != nil {
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	return &rs.Result, nil
}

// ClubInput is the multipart payload for creating and updating clubs. A nil
// Image keeps the current image on update.
type ClubInput struct {
	Name        string
	Description string
	Image       *File
}

func (in ClubInput) fields() []field {
	return []field{
		{name: "name", value: in.Name},
		{name: "description", value: in.Description},
	}
}

func (c *Client) CreateClub(ctx context.Context, token string, in ClubInput) (*Club, error) {
	var rs result[Club]
	if err := c.doMultipart(ctx, http.MethodPost, c.endpoint(nil, "clubs"), token, in.fields(), "clubImage", in.Image, &rs); err != nil {
		return nil, fmt.Errorf("failed to create club: %w", err)
	}
	return &rs.Result, nil
}

func (c *Client) UpdateClub(ctx context.Context, token string, clubID string, in ClubInput) error {
	if err := c.doMultipart(ctx, http.MethodPost, c.endpoint(nil, "update-club", url.PathEscape(clubID)), token, in.fields(), "clubImage", in.Image, nil); err != nil {
		return fmt.Errorf("failed to update club: %w", err)
	}
	return nil
}

func (c *Client) DeleteClub(ctx context.Context, token string, clubID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.endpoint(nil, "clubs", url.PathEscape(clubID)), token, nil, nil); err != nil {
		return fmt.Errorf("failed to delete club: %w", err)
	}
	return nil
}
