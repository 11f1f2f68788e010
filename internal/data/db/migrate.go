package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/bookshelf-backend/internal/domain/catalog"
	"github.com/yungbote/bookshelf-backend/internal/domain/user"
)

// AutoMigrateAll creates/extends the schema. Parents migrate before the join
// and rating tables so their foreign keys resolve.
func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&user.User{},
		&user.UserToken{},

		&catalog.Book{},
		&catalog.Author{},
		&catalog.Category{},
		&catalog.BookAuthor{},
		&catalog.BookCategory{},
		&catalog.BookRating{},
	)
}

func (s *Service) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}
