package domain

// User is a registered reader. Passwords are stored and compared in
// cleartext; this mirrors the legacy data and is a known deficiency.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Book is one catalog entry, keyed by ISBN. The catalog is
// pre-populated; no handler writes books.
type Book struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

// Review is one user's review of one book. At most one review exists
// per (user, book) pair.
type Review struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	BookISBN string `json:"bookIsbn"`
	Review   string `json:"review,omitempty"`
	Rating   *int   `json:"rating,omitempty"`
}

// RatingSummary is the aggregate returned by the external review
// counts service. Available is false when the service could not be
// reached or answered with anything unusable; callers render "N/A".
type RatingSummary struct {
	AverageRating string `json:"averageRating"`
	ReviewsCount  int64  `json:"reviewsCount"`
	Available     bool   `json:"available"`
}

// NotAvailable is the sentinel summary substituted when the external
// rating service fails.
func NotAvailable() RatingSummary {
	return RatingSummary{AverageRating: "N/A", Available: false}
}
