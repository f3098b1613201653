package store

import (
	"errors"
	"testing"

	"github.com/Vika-svg/project1/pkg/domain"
)

func seedCatalog(s *MemoryStore) {
	s.AddBook(domain.Book{ISBN: "0743273567", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Year: 1925})
	s.AddBook(domain.Book{ISBN: "0061120081", Title: "To Kill a Mockingbird", Author: "Harper Lee", Year: 1960})
	s.AddBook(domain.Book{ISBN: "0451524934", Title: "1984", Author: "George Orwell", Year: 1949})
}

func TestCreateUserAssignsSequentialIDs(t *testing.T) {
	s := NewMemoryStore()
	alice := domain.User{Name: "Alice", Username: "alice", Password: "pw"}
	bob := domain.User{Name: "Bob", Username: "bob", Password: "pw"}
	if err := s.CreateUser(&alice); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if err := s.CreateUser(&bob); err != nil {
		t.Fatalf("create bob: %v", err)
	}
	if alice.ID != 1 || bob.ID != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", alice.ID, bob.ID)
	}

	dup := domain.User{Name: "Other", Username: "alice", Password: "pw"}
	if err := s.CreateUser(&dup); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("duplicate username err = %v, want ErrDuplicateUsername", err)
	}

	names, err := s.ListUsernames()
	if err != nil {
		t.Fatalf("list usernames: %v", err)
	}
	if len(names) != 2 || names[0] != "alice" || names[1] != "bob" {
		t.Fatalf("usernames = %v, want [alice bob]", names)
	}
}

func TestSearchBooksCaseInsensitiveSubstring(t *testing.T) {
	s := NewMemoryStore()
	seedCatalog(s)

	results, err := s.SearchBooks("gatsby")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ISBN != "0743273567" {
		t.Fatalf("results = %v, want the Gatsby row", results)
	}

	// Author match.
	results, err = s.SearchBooks("ORWELL")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "1984" {
		t.Fatalf("results = %v, want 1984", results)
	}

	// ISBN substring match.
	results, err = s.SearchBooks("06112")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ISBN != "0061120081" {
		t.Fatalf("results = %v, want the Mockingbird row", results)
	}
}

func TestSearchBooksEmptyQueryMatchesAll(t *testing.T) {
	s := NewMemoryStore()
	seedCatalog(s)

	results, err := s.SearchBooks("")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("empty query returned %d rows, want 3", len(results))
	}
}

func seedReaders(t *testing.T, s *MemoryStore) {
	t.Helper()
	for _, u := range []domain.User{
		{Name: "Alice", Username: "alice", Password: "pw"},
		{Name: "Bob", Username: "bob", Password: "pw"},
	} {
		user := u
		if err := s.CreateUser(&user); err != nil {
			t.Fatalf("seed user %s: %v", u.Username, err)
		}
	}
}

func TestCreateReviewRejectsSecondReviewForSamePair(t *testing.T) {
	s := NewMemoryStore()
	seedCatalog(s)
	seedReaders(t, s)
	rating := 5
	first := domain.Review{UserID: 1, BookISBN: "0743273567", Review: "great", Rating: &rating}
	if err := s.CreateReview(&first); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("review ID not assigned")
	}

	second := domain.Review{UserID: 1, BookISBN: "0743273567", Review: "changed my mind"}
	if err := s.CreateReview(&second); !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("second review err = %v, want ErrDuplicateReview", err)
	}

	// Same user, different book is fine.
	other := domain.Review{UserID: 1, BookISBN: "0451524934"}
	if err := s.CreateReview(&other); err != nil {
		t.Fatalf("other book review: %v", err)
	}
	// Different user, same book is fine.
	bob := domain.Review{UserID: 2, BookISBN: "0743273567"}
	if err := s.CreateReview(&bob); err != nil {
		t.Fatalf("other user review: %v", err)
	}

	reviews, err := s.ListReviewsByISBN("0743273567")
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("reviews for gatsby = %d, want 2", len(reviews))
	}
}

func TestCreateReviewRequiresExistingRows(t *testing.T) {
	s := NewMemoryStore()
	seedCatalog(s)
	seedReaders(t, s)

	// ISBN not in the catalog: the write is rejected and nothing is
	// stored.
	orphan := domain.Review{UserID: 1, BookISBN: "no-such-isbn", Review: "ghost"}
	if err := s.CreateReview(&orphan); !errors.Is(err, ErrUnknownBook) {
		t.Fatalf("unknown book err = %v, want ErrUnknownBook", err)
	}
	reviews, err := s.ListReviewsByISBN("no-such-isbn")
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 0 {
		t.Fatalf("stored orphan reviews: %d, want 0", len(reviews))
	}

	// User row missing.
	ghost := domain.Review{UserID: 999, BookISBN: "0743273567"}
	if err := s.CreateReview(&ghost); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("unknown user err = %v, want ErrUnknownUser", err)
	}
}
