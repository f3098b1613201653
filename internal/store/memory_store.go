package store

import (
	"strconv"
	"strings"
	"sync"

	"github.com/Vika-svg/project1/pkg/domain"
)

// MemoryStore keeps all rows in-process. Handler tests use it in
// place of Postgres; it upholds the same uniqueness guarantees.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[int64]domain.User
	usernames map[string]int64 // username -> user ID
	userOrder []int64
	nextUser  int64
	books     map[string]domain.Book
	bookOrder []string
	reviews   []domain.Review
	reviewKey map[string]struct{} // userID|isbn
	nextRev   int64
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[int64]domain.User),
		usernames: make(map[string]int64),
		books:     make(map[string]domain.Book),
		reviewKey: make(map[string]struct{}),
	}
}

// CreateUser assigns the next ID and stores the user.
func (m *MemoryStore) CreateUser(u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.usernames[u.Username]; taken {
		return ErrDuplicateUsername
	}
	m.nextUser++
	u.ID = m.nextUser
	m.users[u.ID] = *u
	m.usernames[u.Username] = u.ID
	m.userOrder = append(m.userOrder, u.ID)
	return nil
}

// GetUserByUsername looks up a user by exact username.
func (m *MemoryStore) GetUserByUsername(username string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.usernames[username]
	if !ok {
		return domain.User{}, false, nil
	}
	u, exists := m.users[id]
	return u, exists, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id int64) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// ListUsernames returns usernames in insertion order.
func (m *MemoryStore) ListUsernames() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]string, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		if u, ok := m.users[id]; ok {
			res = append(res, u.Username)
		}
	}
	return res, nil
}

// AddBook seeds a catalog entry. Test helper; no handler writes books.
func (m *MemoryStore) AddBook(b domain.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.books[b.ISBN]; !exists {
		m.bookOrder = append(m.bookOrder, b.ISBN)
	}
	m.books[b.ISBN] = b
}

// GetBook retrieves a book by ISBN.
func (m *MemoryStore) GetBook(isbn string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[isbn]
	return b, ok, nil
}

// SearchBooks matches query case-insensitively against title, author,
// and isbn. An empty query matches every book.
func (m *MemoryStore) SearchBooks(query string) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(query)
	res := make([]domain.Book, 0)
	for _, isbn := range m.bookOrder {
		b := m.books[isbn]
		if strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle) ||
			strings.Contains(strings.ToLower(b.ISBN), needle) {
			res = append(res, b)
		}
	}
	return res, nil
}

// CreateReview stores a review, rejecting a second review for the
// same (user, book) pair under the lock. Both referenced rows must
// exist, matching the foreign keys the Postgres store enforces.
func (m *MemoryStore) CreateReview(r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[r.UserID]; !ok {
		return ErrUnknownUser
	}
	if _, ok := m.books[r.BookISBN]; !ok {
		return ErrUnknownBook
	}
	key := reviewPairKey(r.UserID, r.BookISBN)
	if _, exists := m.reviewKey[key]; exists {
		return ErrDuplicateReview
	}
	m.nextRev++
	r.ID = m.nextRev
	m.reviews = append(m.reviews, *r)
	m.reviewKey[key] = struct{}{}
	return nil
}

// ListReviewsByISBN returns reviews for a book in insertion order.
func (m *MemoryStore) ListReviewsByISBN(isbn string) ([]domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Review, 0)
	for _, r := range m.reviews {
		if r.BookISBN == isbn {
			res = append(res, r)
		}
	}
	return res, nil
}

func reviewPairKey(userID int64, isbn string) string {
	return strconv.FormatInt(userID, 10) + "|" + isbn
}
