package countries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hightemp/countrypick/internal/logging"
)

const (
	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// MaxRetries for failed requests.
	MaxRetries = 3

	// BaseBackoff for exponential backoff.
	BaseBackoff = 1 * time.Second

	// MaxBackoff for exponential backoff.
	MaxBackoff = 30 * time.Second

	userAgent = "countrypick/1.0"
)

// Client downloads a JSON country list over HTTP.
type Client struct {
	httpClient  *http.Client
	url         string
	baseBackoff time.Duration
}

// NewClient creates a client for the list served at url.
func NewClient(url string) *Client {
	return NewClientWithTimeout(url, DefaultTimeout)
}

// NewClientWithTimeout creates a client with a custom request timeout.
func NewClientWithTimeout(url string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:         url,
		baseBackoff: BaseBackoff,
	}
}

// Fetch downloads and decodes the list, retrying transient failures.
func (c *Client) Fetch(ctx context.Context) ([]Country, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			logging.Debug("retrying country list download",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		list, err := c.doRequest(ctx)
		if err == nil {
			return list, nil
		}
		lastErr = err

		// Don't retry on context cancellation
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRetryable(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("after %d retries: %w", MaxRetries, lastErr)
}

// statusError is returned for non-200 responses.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.code, e.body)
}

func isRetryable(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return true
	}
	return se.code == http.StatusTooManyRequests || se.code >= 500
}

func (c *Client) doRequest(ctx context.Context) ([]Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	list, err := ParseList(body, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return list, nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.baseBackoff * time.Duration(1<<uint(attempt-1))
	if backoff > MaxBackoff {
		backoff = MaxBackoff
	}
	// Add jitter (0-25% of backoff)
	if q := int64(backoff / 4); q > 0 {
		backoff += time.Duration(rand.Int63n(q))
	}
	return backoff
}

// RemoteSource downloads the list, serving it from the on-disk cache while
// fresh. A stale cache is used when the download fails.
type RemoteSource struct {
	client  *Client
	cache   *ListCache
	offline bool
}

// NewRemoteSource creates a remote source. cache may be nil. In offline mode
// only the cache is consulted, regardless of age.
func NewRemoteSource(client *Client, cache *ListCache, offline bool) *RemoteSource {
	return &RemoteSource{client: client, cache: cache, offline: offline}
}

// Fetch resolves the list synchronously.
func (s *RemoteSource) Fetch(ctx context.Context) ([]Country, error) {
	if s.cache != nil {
		if err := s.cache.Load(); err != nil {
			logging.Warn("ignoring unreadable country cache", zap.Error(err))
		}
		if list, ok := s.cache.Get(); ok {
			return list, nil
		}
		if s.offline {
			if list, ok := s.cache.GetStale(); ok {
				return list, nil
			}
			return nil, errors.New("offline and no cached country list")
		}
	} else if s.offline {
		return nil, errors.New("offline and no cache configured")
	}

	list, err := s.client.Fetch(ctx)
	if err != nil {
		if s.cache != nil && ctx.Err() == nil {
			if stale, ok := s.cache.GetStale(); ok {
				logging.Warn("using stale country list", zap.Error(err))
				return stale, nil
			}
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(list)
		if err := s.cache.Save(); err != nil {
			logging.Warn("could not save country cache", zap.Error(err))
		}
	}
	return list, nil
}

// Load delivers the resolved list.
func (s *RemoteSource) Load(ctx context.Context) <-chan []Country {
	return deliver(ctx, "remote", s.Fetch)
}
