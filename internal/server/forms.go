package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Each endpoint declares its form fields up front: which are
// required, their types, and their length bounds. Handlers never
// reach into the raw form beyond these structs.

type loginForm struct {
	Username string `validate:"required,max=64"`
	Password string `validate:"required,max=128"`
}

type registrationForm struct {
	Name     string `validate:"required,max=128"`
	Username string `validate:"required,max=64"`
	Password string `validate:"required,max=128"`
}

type searchForm struct {
	// Empty query is legal and matches every book.
	Query string `validate:"max=256"`
}

type reviewForm struct {
	ISBN   string `validate:"required,max=32"`
	Review string `validate:"max=10000"`
	Rating *int
}

var errBadRating = errors.New("rating must be an integer")

func (s *Server) parseLoginForm(r *http.Request) (loginForm, error) {
	if err := r.ParseForm(); err != nil {
		return loginForm{}, err
	}
	f := loginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	return f, s.validate.Struct(f)
}

func (s *Server) parseRegistrationForm(r *http.Request) (registrationForm, error) {
	if err := r.ParseForm(); err != nil {
		return registrationForm{}, err
	}
	f := registrationForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	return f, s.validate.Struct(f)
}

func (s *Server) parseSearchForm(r *http.Request) (searchForm, error) {
	if err := r.ParseForm(); err != nil {
		return searchForm{}, err
	}
	f := searchForm{Query: r.PostFormValue("query")}
	return f, s.validate.Struct(f)
}

func (s *Server) parseReviewForm(r *http.Request) (reviewForm, error) {
	if err := r.ParseForm(); err != nil {
		return reviewForm{}, err
	}
	f := reviewForm{
		ISBN:   strings.TrimSpace(r.PostFormValue("isbn")),
		Review: r.PostFormValue("review"),
	}
	if raw := strings.TrimSpace(r.PostFormValue("rating")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, errBadRating
		}
		f.Rating = &n
	}
	return f, s.validate.Struct(f)
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
