// Package batch retrieves results of Anthropic Message Batches.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/writerkit/internal/stats"
)

const apiVersion = "2023-06-01"

var (
	// ErrNotEnded is returned when results are requested before the batch
	// has finished processing.
	ErrNotEnded = errors.New("batch has not ended")

	// ErrNotFound means the batch ID is unknown or its results have expired.
	ErrNotFound = errors.New("batch not found")
)

// Client calls the Message Batches API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// Stats receives the latency of every API call when set.
	Stats *stats.Latency

	backoff func(attempt int) time.Duration
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		backoff: Backoff,
	}
}

// Batch is the subset of the message batch object this package uses.
type Batch struct {
	ID               string        `json:"id"`
	ProcessingStatus string        `json:"processing_status"`
	RequestCounts    RequestCounts `json:"request_counts"`
	ResultsURL       string        `json:"results_url"`
	CreatedAt        time.Time     `json:"created_at"`
	EndedAt          *time.Time    `json:"ended_at"`
}

type RequestCounts struct {
	Processing int `json:"processing"`
	Succeeded  int `json:"succeeded"`
	Errored    int `json:"errored"`
	Canceled   int `json:"canceled"`
	Expired    int `json:"expired"`
}

// Ended reports whether results can be fetched.
func (b *Batch) Ended() bool {
	return b.ProcessingStatus == "ended"
}

// Get fetches batch metadata, retrying transient failures.
func (c *Client) Get(ctx context.Context, batchID string) (*Batch, error) {
	var lastErr error
	for attempt := range MaxRetries {
		b, err := c.get(ctx, batchID)
		if err == nil {
			return b, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == MaxRetries-1 {
			break
		}
		select {
		case <-time.After(c.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, batchID string) (*Batch, error) {
	resp, err := c.do(ctx, c.baseURL+"/v1/messages/batches/"+url.PathEscape(batchID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var b Batch
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	return &b, nil
}

// Wait polls the batch every interval until it has ended. onPoll, when not
// nil, sees every intermediate state.
func (c *Client) Wait(ctx context.Context, batchID string, interval time.Duration, onPoll func(*Batch)) (*Batch, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		b, err := c.Get(ctx, batchID)
		if err != nil {
			return nil, err
		}
		if onPoll != nil {
			onPoll(b)
		}
		if b.Ended() {
			return b, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Results streams every result of an ended batch to fn, one at a time.
// Returning an error from fn stops the stream.
func (c *Client) Results(ctx context.Context, batchID string, fn func(Result) error) error {
	b, err := c.Get(ctx, batchID)
	if err != nil {
		return err
	}
	if !b.Ended() {
		return fmt.Errorf("%w: %s is %s", ErrNotEnded, batchID, b.ProcessingStatus)
	}

	resultsURL := b.ResultsURL
	if resultsURL == "" {
		resultsURL = c.baseURL + "/v1/messages/batches/" + url.PathEscape(batchID) + "/results"
	}
	resp, err := c.do(ctx, resultsURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	for {
		var r Result
		if err := dec.Decode(&r); err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
}

// do issues an authenticated GET and maps error statuses. The caller owns the
// returned body.
func (c *Client) do(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.Stats.Since(start)
	if err != nil {
		return nil, fmt.Errorf("batches api: %w", err)
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, truncate(string(body), 200))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(body)}
	default:
		return nil, fmt.Errorf("batches api status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
