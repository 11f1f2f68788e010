package app

import (
	"gorm.io/gorm"

	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	userrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/user"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type Repos struct {
	User      userrepo.UserRepo
	UserToken userrepo.UserTokenRepo

	Book     catalogrepo.BookRepo
	Author   catalogrepo.AuthorRepo
	Category catalogrepo.CategoryRepo
	Rating   catalogrepo.BookRatingRepo

	BookAuthor   catalogrepo.RelationRepo
	BookCategory catalogrepo.RelationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      userrepo.NewUserRepo(db, log),
		UserToken: userrepo.NewUserTokenRepo(db, log),

		Book:     catalogrepo.NewBookRepo(db, log),
		Author:   catalogrepo.NewAuthorRepo(db, log),
		Category: catalogrepo.NewCategoryRepo(db, log),
		Rating:   catalogrepo.NewBookRatingRepo(db, log),

		BookAuthor:   catalogrepo.NewBookAuthorRepo(db, log),
		BookCategory: catalogrepo.NewBookCategoryRepo(db, log),
	}
}
