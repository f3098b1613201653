package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Vika-svg/project1/internal/store"
	"github.com/Vika-svg/project1/internal/util"
	"github.com/Vika-svg/project1/pkg/domain"
)

const sessionCookie = "session"

const (
	msgUserNotFound     = "Whoops, user not found. Please, try again."
	msgWrongPassword    = "Whoops, password not correct. Please, try again."
	msgUsernameTaken    = "That username is already taken. Please, pick another."
	msgMissingFields    = "All fields are required."
	msgMissingLoginData = "Username and password are required."
)

// RatingsClient looks up the external aggregate rating for an ISBN.
type RatingsClient interface {
	ReviewCounts(ctx context.Context, isbn string) domain.RatingSummary
}

// Config wires required dependencies for the HTTP server.
type Config struct {
	Store    store.Store
	Sessions store.SessionStore
	Ratings  RatingsClient
}

// Server exposes the book-review HTTP surface.
type Server struct {
	store    store.Store
	sessions store.SessionStore
	ratings  RatingsClient
	mux      *http.ServeMux
	views    *template.Template
	validate *validator.Validate
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		store:    cfg.Store,
		sessions: cfg.Sessions,
		ratings:  cfg.Ratings,
		mux:      http.NewServeMux(),
		views:    parseTemplates(),
		validate: newValidator(),
	}
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(s.mux)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/login", s.handleLoginPage)
	s.mux.HandleFunc("/do_login", s.handleDoLogin)
	s.mux.HandleFunc("/do_logout", s.handleDoLogout)
	s.mux.HandleFunc("/registration", s.handleRegistrationPage)
	s.mux.HandleFunc("/register_user", s.handleRegisterUser)

	// catalog & reviews (session required)
	s.mux.Handle("/", s.authenticated(s.handleIndex))
	s.mux.Handle("/search", s.authenticated(s.handleSearch))
	s.mux.Handle("/books/", s.authenticated(s.handleBook))
	s.mux.Handle("/review", s.authenticated(s.handleReview))

	// diagnostic, deliberately unauthenticated
	s.mux.HandleFunc("/list_users", s.handleListUsers)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// session gate
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.sessionUser(r)
		if !ok {
			s.audit(r, "session.authorize", "fail")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r, user)
	})
}

// sessionUser resolves the session cookie to a user. Both the token
// mapping and the user row must exist.
func (s *Server) sessionUser(r *http.Request) (domain.User, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return domain.User{}, false
	}
	uid, ok, err := s.sessions.GetUserIDByToken(cookie.Value)
	if err != nil || !ok {
		return domain.User{}, false
	}
	user, found, err := s.store.GetUserByID(uid)
	if err != nil || !found {
		return domain.User{}, false
	}
	return user, true
}

func (s *Server) startSession(w http.ResponseWriter, userID int64) error {
	token, err := s.sessions.NewSession(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// pages

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.renderView(w, http.StatusOK, "index.html", indexData{UserName: user.Name})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.renderView(w, http.StatusOK, "login.html", loginData{})
}

func (s *Server) handleDoLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	form, err := s.parseLoginForm(r)
	if err != nil {
		s.audit(r, "login", "fail", "reason", "invalid_form")
		s.renderView(w, http.StatusBadRequest, "login.html", loginData{Message: msgMissingLoginData})
		return
	}
	user, found, err := s.store.GetUserByUsername(form.Username)
	if err != nil {
		slog.Error("login lookup", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !found {
		s.audit(r, "login", "fail", "reason", "unknown_user")
		s.renderView(w, http.StatusOK, "login.html", loginData{Message: msgUserNotFound})
		return
	}
	// Plain equality against the stored cleartext password, preserved
	// from the legacy data model. Known deficiency: nothing is hashed.
	if user.Password != form.Password {
		s.audit(r, "login", "fail", "reason", "wrong_password", "user_id", user.ID)
		s.renderView(w, http.StatusOK, "login.html", loginData{Message: msgWrongPassword})
		return
	}
	if err := s.startSession(w, user.ID); err != nil {
		slog.Error("start session", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.audit(r, "login", "success", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleDoLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if err := s.sessions.DeleteSession(cookie.Value); err != nil {
			slog.Warn("delete session", "err", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.audit(r, "logout", "success")
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleRegistrationPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.renderView(w, http.StatusOK, "registration.html", registrationData{})
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	form, err := s.parseRegistrationForm(r)
	if err != nil {
		s.audit(r, "register", "fail", "reason", "invalid_form")
		s.renderView(w, http.StatusBadRequest, "registration.html", registrationData{Message: msgMissingFields})
		return
	}
	user := domain.User{
		Name:     form.Name,
		Username: form.Username,
		Password: form.Password,
	}
	if err := s.store.CreateUser(&user); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			s.audit(r, "register", "fail", "reason", "duplicate_username")
			s.renderView(w, http.StatusOK, "registration.html", registrationData{Message: msgUsernameTaken})
			return
		}
		slog.Error("create user", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := s.startSession(w, user.ID); err != nil {
		slog.Error("start session", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.audit(r, "register", "success", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	form, err := s.parseSearchForm(r)
	if err != nil {
		http.Error(w, "invalid search query", http.StatusBadRequest)
		return
	}
	results, err := s.store.SearchBooks(form.Query)
	if err != nil {
		slog.Error("search books", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.renderView(w, http.StatusOK, "search_results.html", searchData{
		Query:   form.Query,
		Results: results,
	})
}

// handleBook renders the detail page for /books/{isbn}. A missing
// book still renders; the external rating degrades to the sentinel.
func (s *Server) handleBook(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	isbn := strings.TrimPrefix(r.URL.Path, "/books/")
	if isbn == "" || strings.Contains(isbn, "/") {
		http.NotFound(w, r)
		return
	}

	data := bookData{Rating: domain.NotAvailable()}
	book, found, err := s.store.GetBook(isbn)
	if err != nil {
		slog.Error("get book", "isbn", isbn, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if found {
		data.Book = &book
	}

	reviews, err := s.store.ListReviewsByISBN(isbn)
	if err != nil {
		slog.Error("list reviews", "isbn", isbn, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	data.Reviews = s.reviewViews(reviews)

	if s.ratings != nil {
		data.Rating = s.ratings.ReviewCounts(r.Context(), isbn)
	}
	s.renderView(w, http.StatusOK, "book.html", data)
}

// reviewViews resolves reviewer usernames for display. A review whose
// user row is gone still renders, with an empty username.
func (s *Server) reviewViews(reviews []domain.Review) []reviewView {
	names := make(map[int64]string, len(reviews))
	out := make([]reviewView, 0, len(reviews))
	for _, rev := range reviews {
		name, cached := names[rev.UserID]
		if !cached {
			if u, ok, err := s.store.GetUserByID(rev.UserID); err == nil && ok {
				name = u.Username
			}
			names[rev.UserID] = name
		}
		out = append(out, reviewView{Username: name, Review: rev})
	}
	return out
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	form, err := s.parseReviewForm(r)
	if err != nil {
		if errors.Is(err, errBadRating) {
			http.Error(w, "rating must be an integer", http.StatusBadRequest)
			return
		}
		http.Error(w, "isbn is required", http.StatusBadRequest)
		return
	}
	// The reviewer identity comes from the session, never the form.
	review := domain.Review{
		UserID:   user.ID,
		BookISBN: form.ISBN,
		Review:   form.Review,
		Rating:   form.Rating,
	}
	if err := s.store.CreateReview(&review); err != nil {
		if errors.Is(err, store.ErrDuplicateReview) {
			s.audit(r, "review.create", "fail", "reason", "duplicate", "user_id", user.ID, "isbn", form.ISBN)
			s.renderView(w, http.StatusOK, "review_error.html", nil)
			return
		}
		if errors.Is(err, store.ErrUnknownBook) {
			s.audit(r, "review.create", "fail", "reason", "unknown_book", "user_id", user.ID, "isbn", form.ISBN)
			http.Error(w, "unknown book", http.StatusBadRequest)
			return
		}
		slog.Error("create review", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.audit(r, "review.create", "success", "user_id", user.ID, "isbn", form.ISBN)
	http.Redirect(w, r, "/books/"+form.ISBN, http.StatusFound)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	usernames, err := s.store.ListUsernames()
	if err != nil {
		slog.Error("list usernames", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if usernames == nil {
		usernames = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": usernames})
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", util.ClientIP(r),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}
