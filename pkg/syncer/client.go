package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
)

// Client pushes and pulls event snapshots against a companion sync
// daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client for the daemon at baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// PushDay uploads a day's events; the daemon merges them last-writer-
// wins with its own copy.
func (c *Client) PushDay(ctx context.Context, day time.Time, events []event.Event) error {
	body, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}
	url := fmt.Sprintf("%s/v1/events/%s", c.baseURL, event.DayKey(day))
	_, err = c.do(ctx, http.MethodPost, url, body)
	return err
}

// FetchDay downloads a day's events from the daemon.
func (c *Client) FetchDay(ctx context.Context, day time.Time) ([]event.Event, error) {
	url := fmt.Sprintf("%s/v1/events/%s", c.baseURL, event.DayKey(day))
	data, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	var events []event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}
	return events, nil
}

// FetchStatus downloads the daemon's current status payload.
func (c *Client) FetchStatus(ctx context.Context) (Snapshot, error) {
	data, err := c.do(ctx, http.MethodGet, c.baseURL+"/v1/status", nil)
	if err != nil {
		return Snapshot{}, err
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Snapshot{}, fmt.Errorf("decoding status payload: %w", err)
	}
	return DecodeStatus(p)
}

// errPermanent marks failures that retrying cannot fix, like 4xx
// responses.
var errPermanent = errors.New("permanent sync failure")

// do performs an HTTP request with exponential backoff and jitter,
// retrying network errors, rate limits and server errors. Client
// errors fail immediately.
func (c *Client) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var data []byte
	var lastErr error

	err := retry.Do(
		func() error {
			var reader io.Reader
			if body != nil {
				reader = bytes.NewReader(body)
			}
			req, err := http.NewRequestWithContext(ctx, method, url, reader)
			if err != nil {
				lastErr = err
				return fmt.Errorf("%w: %w", errPermanent, err)
			}
			if body != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				lastErr = err
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
				return lastErr
			}
			if resp.StatusCode >= 400 {
				lastErr = fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
				return fmt.Errorf("%w: %w", errPermanent, lastErr)
			}
			data, err = io.ReadAll(resp.Body)
			if err != nil {
				lastErr = err
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying sync request",
				"attempt", n+1, "url", url, "error", err)
		}),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, errPermanent)
		}),
	)
	if err != nil {
		if lastErr != nil {
			return nil, fmt.Errorf("sync request failed: %w", lastErr)
		}
		return nil, fmt.Errorf("sync request failed: %w", err)
	}
	return data, nil
}
