package catalog

import (
	"github.com/google/uuid"
)

// BookAuthor and BookCategory are pure join rows: identity is the full pair
// and they must never outlive either endpoint.

type BookAuthor struct {
	BookID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"book_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;primaryKey" json:"author_id"`

	Book   Book   `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Author Author `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (BookAuthor) TableName() string { return "book_author" }

type BookCategory struct {
	BookID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"book_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey" json:"category_id"`

	Book     Book     `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (BookCategory) TableName() string { return "book_category" }
