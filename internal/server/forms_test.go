package server

import (
	"errors"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestParseReviewForm(t *testing.T) {
	s := &Server{validate: newValidator()}

	req := httptest.NewRequest("POST", "/review", strings.NewReader(url.Values{
		"isbn":   {"0743273567"},
		"review": {"fine"},
		"rating": {"4"},
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	form, err := s.parseReviewForm(req)
	if err != nil {
		t.Fatalf("parse valid form: %v", err)
	}
	if form.ISBN != "0743273567" || form.Rating == nil || *form.Rating != 4 {
		t.Fatalf("form mismatch: %+v", form)
	}

	// Rating is optional.
	req = httptest.NewRequest("POST", "/review", strings.NewReader(url.Values{
		"isbn": {"0743273567"},
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	form, err = s.parseReviewForm(req)
	if err != nil {
		t.Fatalf("parse form without rating: %v", err)
	}
	if form.Rating != nil {
		t.Fatalf("rating = %v, want nil", form.Rating)
	}

	// Non-numeric rating is a typed error.
	req = httptest.NewRequest("POST", "/review", strings.NewReader(url.Values{
		"isbn":   {"0743273567"},
		"rating": {"five"},
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if _, err := s.parseReviewForm(req); !errors.Is(err, errBadRating) {
		t.Fatalf("err = %v, want errBadRating", err)
	}

	// Missing isbn fails the declared schema.
	req = httptest.NewRequest("POST", "/review", strings.NewReader(url.Values{
		"review": {"orphan"},
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if _, err := s.parseReviewForm(req); err == nil {
		t.Fatalf("expected validation error for missing isbn")
	}
}

func TestParseRegistrationFormBounds(t *testing.T) {
	s := &Server{validate: newValidator()}

	req := httptest.NewRequest("POST", "/register_user", strings.NewReader(url.Values{
		"name":     {"Alice"},
		"username": {strings.Repeat("x", 65)},
		"password": {"pw"},
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if _, err := s.parseRegistrationForm(req); err == nil {
		t.Fatalf("expected length-bound violation for 65-char username")
	}

	req = httptest.NewRequest("POST", "/register_user", strings.NewReader(url.Values{
		"name":     {"  Alice  "},
		"username": {" alice "},
		"password": {"pw"},
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	form, err := s.parseRegistrationForm(req)
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}
	if form.Name != "Alice" || form.Username != "alice" {
		t.Fatalf("fields not trimmed: %+v", form)
	}
}
