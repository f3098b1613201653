package store

import (
	"errors"

	"github.com/Vika-svg/project1/pkg/domain"
)

// ErrDuplicateReview is returned when a user already reviewed a book.
// The GORM store enforces this atomically with a unique index on
// (user_id, book_isbn); there is no check-then-insert window.
var ErrDuplicateReview = errors.New("store: review already exists for this user and book")

// ErrDuplicateUsername is returned when a registration collides with
// an existing username.
var ErrDuplicateUsername = errors.New("store: username already taken")

// ErrUnknownBook is returned when a review references an ISBN with no
// catalog row.
var ErrUnknownBook = errors.New("store: book does not exist")

// ErrUnknownUser is returned when a review references a user row that
// does not exist.
var ErrUnknownUser = errors.New("store: user does not exist")

// Store defines persistence operations for users, books, and reviews.
type Store interface {
	// users
	CreateUser(u *domain.User) error
	GetUserByUsername(username string) (domain.User, bool, error)
	GetUserByID(id int64) (domain.User, bool, error)
	ListUsernames() ([]string, error)

	// books
	GetBook(isbn string) (domain.Book, bool, error)
	SearchBooks(query string) ([]domain.Book, error)

	// reviews
	CreateReview(r *domain.Review) error
	ListReviewsByISBN(isbn string) ([]domain.Review, error)
}

// SessionStore persists session tokens.
type SessionStore interface {
	NewSession(userID int64) (string, error)
	GetUserIDByToken(token string) (int64, bool, error)
	DeleteSession(token string) error
}
