package ratings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReviewCountsSuccess(t *testing.T) {
	var gotKey, gotISBNs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/book/review_counts.json" {
			http.NotFound(w, r)
			return
		}
		gotKey = r.URL.Query().Get("key")
		gotISBNs = r.URL.Query().Get("isbns")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"books":[{"average_rating":"4.25","reviews_count":2716437}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	summary := c.ReviewCounts(context.Background(), "0743273567")
	if !summary.Available {
		t.Fatalf("summary not available: %+v", summary)
	}
	if summary.AverageRating != "4.25" {
		t.Fatalf("averageRating = %q, want 4.25", summary.AverageRating)
	}
	if summary.ReviewsCount != 2716437 {
		t.Fatalf("reviewsCount = %d, want 2716437", summary.ReviewsCount)
	}
	if gotKey != "test-key" || gotISBNs != "0743273567" {
		t.Fatalf("query params = (%q, %q), want (test-key, 0743273567)", gotKey, gotISBNs)
	}
}

func TestReviewCountsNon200YieldsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	summary := c.ReviewCounts(context.Background(), "missing")
	if summary.Available {
		t.Fatalf("expected sentinel for 404, got %+v", summary)
	}
	if summary.AverageRating != "N/A" {
		t.Fatalf("averageRating = %q, want N/A", summary.AverageRating)
	}
}

func TestReviewCountsUnreachableYieldsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "test-key")
	if summary := c.ReviewCounts(context.Background(), "0743273567"); summary.Available {
		t.Fatalf("expected sentinel for unreachable service, got %+v", summary)
	}
}

func TestReviewCountsBadBodyYieldsSentinel(t *testing.T) {
	cases := map[string]string{
		"garbage":     `not json at all`,
		"empty books": `{"books":[]}`,
		"no books":    `{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "test-key")
			if summary := c.ReviewCounts(context.Background(), "0743273567"); summary.Available {
				t.Fatalf("expected sentinel, got %+v", summary)
			}
		})
	}
}
