package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Vika-svg/project1/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &BookModel{}, &ReviewModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateUser inserts a user and fills in the assigned ID. A username
// collision maps to ErrDuplicateUsername.
func (s *GormStore) CreateUser(u *domain.User) error {
	model := userToModel(*u)
	if err := s.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return err
	}
	u.ID = model.ID
	return nil
}

// GetUserByUsername looks up a user by exact username.
func (s *GormStore) GetUserByUsername(username string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id int64) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// ListUsernames returns every username in insertion (id) order.
func (s *GormStore) ListUsernames() ([]string, error) {
	var names []string
	if err := s.db.Model(&UserModel{}).Order("id ASC").Pluck("username", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// GetBook retrieves a book by ISBN.
func (s *GormStore) GetBook(isbn string) (domain.Book, bool, error) {
	var model BookModel
	if err := s.db.First(&model, "isbn = ?", isbn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

// SearchBooks matches query case-insensitively against title, author,
// and isbn. An empty query yields the %% pattern and matches all rows.
func (s *GormStore) SearchBooks(query string) ([]domain.Book, error) {
	pattern := "%" + query + "%"
	var models []BookModel
	err := s.db.
		Where("title ILIKE ? OR author ILIKE ? OR isbn ILIKE ?", pattern, pattern, pattern).
		Order("isbn ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Book, 0, len(models))
	for _, m := range models {
		res = append(res, bookFromModel(m))
	}
	return res, nil
}

// CreateReview inserts a review with ON CONFLICT DO NOTHING against
// the (user_id, book_isbn) unique index. Zero rows affected means a
// review already existed, reported as ErrDuplicateReview. A foreign
// key failure surfaces as ErrUnknownBook: the user id comes from a
// live session, so the dangling reference is the ISBN.
func (s *GormStore) CreateReview(r *domain.Review) error {
	model := reviewToModel(*r)
	tx := s.db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_isbn"}},
		DoNothing: true,
	}).Create(&model)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrForeignKeyViolated) {
			return ErrUnknownBook
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrDuplicateReview
	}
	r.ID = model.ID
	return nil
}

// ListReviewsByISBN returns all reviews for a book in insertion order.
func (s *GormStore) ListReviewsByISBN(isbn string) ([]domain.Review, error) {
	var models []ReviewModel
	if err := s.db.Where("book_isbn = ?", isbn).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Review, 0, len(models))
	for _, m := range models {
		res = append(res, reviewFromModel(m))
	}
	return res, nil
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Password: u.Password,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:       m.ID,
		Name:     m.Name,
		Username: m.Username,
		Password: m.Password,
	}
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ISBN:   m.ISBN,
		Title:  m.Title,
		Author: m.Author,
		Year:   m.Year,
	}
}

func reviewToModel(r domain.Review) ReviewModel {
	return ReviewModel{
		ID:       r.ID,
		UserID:   r.UserID,
		BookISBN: r.BookISBN,
		Review:   r.Review,
		Rating:   r.Rating,
	}
}

func reviewFromModel(m ReviewModel) domain.Review {
	return domain.Review{
		ID:       m.ID,
		UserID:   m.UserID,
		BookISBN: m.BookISBN,
		Review:   m.Review,
		Rating:   m.Rating,
	}
}
