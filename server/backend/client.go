package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

func New(cfg Config, httpClient *http.Client) (*Client, error) {
	baseURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse backend url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("backend url must be absolute: %q", cfg.URL)
	}

	limit := rate.Inf
	if cfg.Every > 0 {
		limit = rate.Every(time.Duration(cfg.Every))
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(limit, burst),
	}, nil
}

// Client talks to the club platform REST API. Every method takes the bearer
// token of the acting admin; an empty token sends an anonymous request.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	limiter    *rate.Limiter
}

func (c *Client) endpoint(query url.Values, elem ...string) string {
	u := c.baseURL.JoinPath(elem...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) doJSON(ctx context.Context, method string, endpoint string, token string, body any, v any) error {
	var r io.Reader
	contentType := ""
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		r = buf
		contentType = "application/json"
	}
	return c.do(ctx, method, endpoint, token, r, contentType, v)
}

func (c *Client) do(ctx context.Context, method string, endpoint string, token string, body io.Reader, contentType string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	rq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	rq.Header.Set("Accept", "application/json")
	if contentType != "" {
		rq.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		(&oauth2.Token{AccessToken: token}).SetAuthHeader(rq)
	}

	rs, err := c.httpClient.Do(rq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer rs.Body.Close()

	if rs.StatusCode < 200 || rs.StatusCode >= 300 {
		return newError(rs)
	}

	if v == nil {
		_, _ = io.Copy(io.Discard, rs.Body)
		return nil
	}

	logBuf := &bytes.Buffer{}
	bodyReader := io.TeeReader(rs.Body, logBuf)

	if err = json.NewDecoder(bodyReader).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %q: %w", logBuf.String(), err)
	}

	return nil
}

func pageQuery(rq PageRequest) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(rq.Page+1))
	query.Set("limit", strconv.Itoa(rq.Limit))
	return query
}
