package catalog

import (
	"time"

	"github.com/google/uuid"
)

// BookRating holds one user's rating of one book. The composite primary key
// enforces at-most-one rating per (book, user); a re-rating mutates the row
// in place rather than creating a second one.
type BookRating struct {
	BookID uuid.UUID `gorm:"type:uuid;primaryKey" json:"book_id"`
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Value  int       `gorm:"column:value;not null;check:value >= 1 AND value <= 10" json:"value"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Book Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
}

func (BookRating) TableName() string { return "book_rating" }
