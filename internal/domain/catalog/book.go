package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book carries the derived rating aggregate (AvgRating, RateCount) on the row
// itself. Both fields are written exclusively by the rating aggregator inside
// a row-locking transaction; nothing else may touch them.
type Book struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title           string     `gorm:"column:title;size:255;not null;index" json:"title"`
	Description     string     `gorm:"column:description;type:text" json:"description"`
	CoverURL        string     `gorm:"column:cover_url;size:255" json:"cover_url"`
	PublicationDate *time.Time `gorm:"column:publication_date;index" json:"publication_date,omitempty"`
	CopiesOwned     int        `gorm:"column:copies_owned;not null;default:0" json:"copies_owned"`

	AvgRating float64 `gorm:"column:avg_rating;not null;default:0" json:"avg_rating"`
	RateCount int     `gorm:"column:rate_count;not null;default:0" json:"rate_count"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Book) TableName() string { return "book" }
