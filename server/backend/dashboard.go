package backend

import (
	"context"
	"fmt"

	"github.com/clubadmin/clubadmin/internal/tsync"
)

// Metric is a single dashboard number. Err is set when it could not be fetched.
type Metric struct {
	Value int
	Err   error
}

type Stats struct {
	Clubs Metric
	Users Metric
	Posts Metric
}

// GetStats fetches all dashboard totals concurrently. A failing metric does
// not stop the others; the joined error of all failures is returned alongside
// the partially filled Stats.
func (c *Client) GetStats(ctx context.Context, token string) (Stats, error) {
	eg, ctx := tsync.ErrorGroupWithContext(ctx)

	first := PageRequest{Page: 0, Limit: 1}

	var stats Stats
	eg.Go(func() error {
		page, err := c.GetClubs(ctx, token, first)
		if err != nil {
			stats.Clubs.Err = err
			return fmt.Errorf("clubs: %w", err)
		}
		stats.Clubs.Value = page.Total
		return nil
	})
	eg.Go(func() error {
		page, err := c.GetUsers(ctx, token, first)
		if err != nil {
			stats.Users.Err = err
			return fmt.Errorf("users: %w", err)
		}
		stats.Users.Value = page.Total
		return nil
	})
	eg.Go(func() error {
		page, err := c.GetPosts(ctx, token, first)
		if err != nil {
			stats.Posts.Err = err
			return fmt.Errorf("posts: %w", err)
		}
		stats.Posts.Value = page.Total
		return nil
	})

	err := eg.Wait()
	return stats, err
}
