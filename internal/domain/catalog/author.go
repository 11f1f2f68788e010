package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Author struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FirstName string    `gorm:"column:first_name;size:255;not null;index" json:"first_name"`
	LastName  string    `gorm:"column:last_name;size:255;not null;index" json:"last_name"`
	ImageURL  string    `gorm:"column:image_url;size:255" json:"image_url"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Author) TableName() string { return "author" }
