// Package directory is the client for the internship portal's company directory.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/internship-checker/internal/cache"
	"github.com/jonathan/internship-checker/internal/fetch"
	"github.com/jonathan/internship-checker/internal/types"
)

const (
	listPath   = "/home/company/all"
	detailPath = "/home/company/id/"

	// cacheBustParam defeats intermediate caches on the portal side.
	cacheBustParam = "nocache"
)

// Error describes a failed directory request.
type Error struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("directory %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("directory %s: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

type listResponse struct {
	Items []types.Posting `json:"items"`
}

type detailResponse struct {
	Item *types.PostingDetail `json:"item"`
}

// Client talks to the directory endpoints.
type Client struct {
	baseURL  string
	opts     *fetch.Options
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
	bust     func() string
}

// Option configures a Client.
type Option func(*Client)

// WithCache read-through caches listing and detail bodies for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithLogger sets the logger used by the degrading calls.
func WithLogger(logger *zap.Logger) Option {
	return func(cl *Client) {
		if logger != nil {
			cl.logger = logger
		}
	}
}

// WithFetchOptions overrides HTTP options such as the timeout.
func WithFetchOptions(opts *fetch.Options) Option {
	return func(cl *Client) {
		if opts != nil {
			cl.opts = opts
		}
	}
}

// NewClient creates a directory client for the portal at baseURL.
func NewClient(baseURL string, options ...Option) *Client {
	if baseURL == "" {
		baseURL = fetch.DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    fetch.DefaultOptions(),
		logger:  zap.NewNop(),
		bust: func() string {
			return strconv.FormatFloat(rand.Float64(), 'f', -1, 64)
		},
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// FetchPostings returns every posting in listing order.
func (c *Client) FetchPostings(ctx context.Context) ([]types.Posting, error) {
	const key = "directory:all"
	body, cached, err := c.get(ctx, listPath, key)
	if err != nil {
		return nil, err
	}
	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Endpoint: listPath, Message: "failed to decode listing", Cause: err}
	}
	if !cached {
		c.store(ctx, key, body)
	}
	return resp.Items, nil
}

// FetchDetail returns the detail item for a posting, or nil when the
// directory answers without one.
func (c *Client) FetchDetail(ctx context.Context, id string) (*types.PostingDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &Error{Endpoint: detailPath, Message: "empty posting id"}
	}
	endpoint := detailPath + url.PathEscape(id)
	key := "directory:id:" + id
	body, cached, err := c.get(ctx, endpoint, key)
	if err != nil {
		return nil, err
	}
	var resp detailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to decode detail", Cause: err}
	}
	if !cached {
		c.store(ctx, key, body)
	}
	return resp.Item, nil
}

// ListPostings is FetchPostings that logs failures and returns an empty list.
func (c *Client) ListPostings(ctx context.Context) []types.Posting {
	postings, err := c.FetchPostings(ctx)
	if err != nil {
		c.logger.Error("error fetching posting list", zap.Error(err))
		return []types.Posting{}
	}
	if postings == nil {
		return []types.Posting{}
	}
	return postings
}

// GetDetail is FetchDetail that logs failures and returns the empty detail.
func (c *Client) GetDetail(ctx context.Context, id string) types.PostingDetail {
	detail, err := c.FetchDetail(ctx, id)
	if err != nil {
		c.logger.Error("error fetching posting detail", zap.String("posting_id", id), zap.Error(err))
		return types.PostingDetail{}
	}
	if detail == nil {
		return types.PostingDetail{}
	}
	return *detail
}

// get returns the body for endpoint and whether it came from the cache.
func (c *Client) get(ctx context.Context, endpoint, cacheKey string) ([]byte, bool, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			return cached, true, nil
		case !errors.Is(err, cache.ErrNotFound):
			c.logger.Warn("directory cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, false, &Error{Endpoint: endpoint, Message: "invalid directory URL", Cause: err}
	}
	q := u.Query()
	q.Set(cacheBustParam, c.bust())
	u.RawQuery = q.Encode()

	result, err := fetch.Get(ctx, u.String(), c.opts)
	if err != nil {
		return nil, false, &Error{Endpoint: endpoint, Message: "request failed", Cause: err}
	}
	return result.Body, false, nil
}

func (c *Client) store(ctx context.Context, key string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
		c.logger.Warn("directory cache write failed", zap.String("key", key), zap.Error(err))
	}
}
