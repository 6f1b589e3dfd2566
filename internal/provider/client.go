package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/wonny/qualis/pkg/config"
	"github.com/wonny/qualis/pkg/httputil"
	"github.com/wonny/qualis/pkg/logger"
)

// Client fetches published financial statements from a screener-style site.
// ⭐ SSOT: 재무제표 수집은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a new statement provider client. Requests are throttled
// client-side so a batch refresh cannot hammer the source.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.Provider.BaseURL,
		limiter:    rate.NewLimiter(rate.Limit(cfg.Provider.RequestsPerSec), 1),
	}
}

// fetchHTML fetches one page, honoring the rate limit.
func (c *Client) fetchHTML(ctx context.Context, path string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}

	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}
