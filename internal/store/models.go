package store

// GORM models used for persistence. The books table is assumed
// pre-populated; AutoMigrate only ensures it exists.
type UserModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"not null"`
	Username string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type BookModel struct {
	ISBN   string `gorm:"primaryKey;column:isbn"`
	Title  string `gorm:"not null"`
	Author string `gorm:"not null"`
	Year   int    `gorm:"not null"`
}

func (BookModel) TableName() string { return "books" }

// ReviewModel carries a composite unique index so the one-review-per
// (user, book) invariant holds under concurrent submissions. The
// belongs-to associations make AutoMigrate emit foreign keys, so a
// review can only reference existing user and book rows.
type ReviewModel struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	UserID   int64     `gorm:"not null;uniqueIndex:idx_reviews_user_book"`
	User     UserModel `gorm:"foreignKey:UserID;references:ID"`
	BookISBN string    `gorm:"not null;uniqueIndex:idx_reviews_user_book;index"`
	Book     BookModel `gorm:"foreignKey:BookISBN;references:ISBN"`
	Review   string
	Rating   *int
}

func (ReviewModel) TableName() string { return "reviews" }
