package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxBodySize caps page downloads; spec pages are tiny.
const maxBodySize = 2 << 20

// Client fetches pages, consulting the cache before the network.
type Client struct {
	http      *http.Client
	cache     *Cache
	userAgent string
	log       *zap.Logger
}

// NewClient builds a Client. A nil logger disables logging.
func NewClient(cache *Cache, userAgent string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		cache:     cache,
		userAgent: userAgent,
		log:       log,
	}
}

// Fetch returns the body of uri, from cache when fresh.
func (c *Client) Fetch(ctx context.Context, uri string) (string, error) {
	if body, ok := c.cache.Get(uri); ok {
		c.log.Debug("cache hit", zap.String("uri", uri))
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.log.Debug("downloading", zap.String("uri", uri))
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: HTTP %d", uri, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}

	if err := c.cache.Put(uri, string(body)); err != nil {
		c.log.Warn("cannot write cache entry", zap.String("uri", uri), zap.Error(err))
	}
	return string(body), nil
}
