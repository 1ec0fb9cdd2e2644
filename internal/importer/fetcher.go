package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	maxRetries        = 3
	defaultTimeout    = 30 * time.Second
	retryWaitDuration = 2 * time.Second
	maxBodyBytes      = 5 << 20
)

// Fetcher downloads pages with retry logic
type Fetcher struct {
	Client    *http.Client
	Logger    *zap.Logger
	Headers   map[string]string
	RetryWait time.Duration
}

// NewFetcher creates a fetcher with default settings
func NewFetcher(log *zap.Logger) *Fetcher {
	return &Fetcher{
		Client: &http.Client{
			Timeout: defaultTimeout,
		},
		Logger:    log.Named("fetcher"),
		Headers:   defaultHeaders(),
		RetryWait: retryWaitDuration,
	}
}

// FetchURL retrieves the content of a URL, retrying transport errors and non-OK statuses
func (f *Fetcher) FetchURL(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		content, err := f.fetchOnce(ctx, url)
		if err == nil {
			f.Logger.Debug("Successfully fetched URL",
				zap.String("url", url),
				zap.Int("content_length", len(content)))
			return content, nil
		}

		lastErr = err
		f.Logger.Warn("Fetch attempt failed",
			zap.Error(err),
			zap.String("url", url),
			zap.Int("attempt", attempt))

		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.RetryWait):
		}
	}

	return nil, fmt.Errorf("failed to fetch URL after %d attempts: %w", maxRetries, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range f.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code %d", resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return content, nil
}

// defaultHeaders returns common headers for HTTP requests
func defaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (compatible; mealroulette-importer/1.0)",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"Cache-Control":   "no-cache",
	}
}
