package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/clubadmin/clubadmin/internal/omit"
)

// GetUsers lists users. A non-empty rq.Query switches to the search endpoint.
func (c *Client) GetUsers(ctx context.Context, token string, rq PageRequest) (*Page[User], error) {
	query := pageQuery(rq)
	endpoint := c.endpoint(query, "user", "view")
	if rq.Query != "" {
		query.Set("query", rq.Query)
		endpoint = c.endpoint(query, "user", "search")
	}

	var page Page[User]
	if err := c.doJSON(ctx, http.MethodGet, endpoint, token, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return &page, nil
}

func (c *Client) GetUser(ctx context.Context, token string, userID string) (*User, error) {
	var rs result[User]
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "user", "view", url.PathEscape(userID)), token, nil, &rs); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &rs.Result, nil
}

// UserUpdate only sends the fields that are set.
type UserUpdate struct {
	Verified omit.Omit[bool] `json:"isVerified,omitzero"`
}

func (c *Client) UpdateUser(ctx context.Context, token string, userID string, update UserUpdate) error {
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(nil, "user", url.PathEscape(userID)), token, update, nil); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (c *Client) SetUserVerified(ctx context.Context, token string, userID string, verified bool) error {
	return c.UpdateUser(ctx, token, userID, UserUpdate{
		Verified: omit.New(verified),
	})
}

func (c *Client) DeleteUser(ctx context.Context, token string, userID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.endpoint(nil, "user", url.PathEscape(userID)), token, nil, nil); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
