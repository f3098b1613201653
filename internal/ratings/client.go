// Package ratings calls the external review-counts service. The book
// page never fails because of this service: every error path yields
// the "N/A" sentinel summary instead.
package ratings

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Vika-svg/project1/pkg/domain"
)

// Client queries the review-counts API over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a ratings client. baseURL points at the API
// root, e.g. https://www.goodreads.com.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type reviewCountsResponse struct {
	Books []struct {
		AverageRating string `json:"average_rating"`
		ReviewsCount  int64  `json:"reviews_count"`
	} `json:"books"`
}

// ReviewCounts fetches the aggregate rating for one ISBN. On any
// transport error, non-200 status, or unusable body it returns the
// sentinel summary and logs the reason at debug level.
func (c *Client) ReviewCounts(ctx context.Context, isbn string) domain.RatingSummary {
	if c == nil || c.baseURL == "" {
		return domain.NotAvailable()
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("isbns", isbn)
	endpoint := c.baseURL + "/book/review_counts.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.NotAvailable()
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("ratings lookup failed", "isbn", isbn, "err", err)
		return domain.NotAvailable()
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Debug("ratings lookup non-200", "isbn", isbn, "status", resp.StatusCode)
		return domain.NotAvailable()
	}
	var payload reviewCountsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		slog.Debug("ratings response undecodable", "isbn", isbn, "err", err)
		return domain.NotAvailable()
	}
	if len(payload.Books) == 0 {
		return domain.NotAvailable()
	}
	first := payload.Books[0]
	return domain.RatingSummary{
		AverageRating: first.AverageRating,
		ReviewsCount:  first.ReviewsCount,
		Available:     true,
	}
}
