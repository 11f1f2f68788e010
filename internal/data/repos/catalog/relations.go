package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/bookshelf-backend/internal/domain/catalog"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

// RelationRepo is the common surface over the two many-to-many join tables.
// "Right" is the non-book endpoint: the author for book_author, the category
// for book_category.
type RelationRepo interface {
	Insert(dbc dbctx.Context, bookID, rightID uuid.UUID) error
	InsertMany(dbc dbctx.Context, bookID uuid.UUID, rightIDs []uuid.UUID) error
	Delete(dbc dbctx.Context, bookID, rightID uuid.UUID) (int64, error)
	DeleteByBookID(dbc dbctx.Context, bookID uuid.UUID) (int64, error)
	DeleteByRightID(dbc dbctx.Context, rightID uuid.UUID) (int64, error)
	ListRightIDs(dbc dbctx.Context, bookID uuid.UUID) ([]uuid.UUID, error)
}

type bookAuthorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookAuthorRepo(db *gorm.DB, baseLog *logger.Logger) RelationRepo {
	return &bookAuthorRepo{db: db, log: baseLog.With("repo", "BookAuthorRepo")}
}

func (r *bookAuthorRepo) base(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *bookAuthorRepo) Insert(dbc dbctx.Context, bookID, rightID uuid.UUID) error {
	if bookID == uuid.Nil || rightID == uuid.Nil {
		return fmt.Errorf("missing book or author id")
	}
	return r.base(dbc).Create(&types.BookAuthor{BookID: bookID, AuthorID: rightID}).Error
}

func (r *bookAuthorRepo) InsertMany(dbc dbctx.Context, bookID uuid.UUID, rightIDs []uuid.UUID) error {
	if bookID == uuid.Nil || len(rightIDs) == 0 {
		return nil
	}
	rows := make([]*types.BookAuthor, 0, len(rightIDs))
	for _, id := range rightIDs {
		rows = append(rows, &types.BookAuthor{BookID: bookID, AuthorID: id})
	}
	return r.base(dbc).Create(&rows).Error
}

func (r *bookAuthorRepo) Delete(dbc dbctx.Context, bookID, rightID uuid.UUID) (int64, error) {
	if bookID == uuid.Nil || rightID == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).
		Where("book_id = ? AND author_id = ?", bookID, rightID).
		Delete(&types.BookAuthor{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *bookAuthorRepo) DeleteByBookID(dbc dbctx.Context, bookID uuid.UUID) (int64, error) {
	if bookID == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).Where("book_id = ?", bookID).Delete(&types.BookAuthor{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *bookAuthorRepo) DeleteByRightID(dbc dbctx.Context, rightID uuid.UUID) (int64, error) {
	if rightID == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).Where("author_id = ?", rightID).Delete(&types.BookAuthor{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *bookAuthorRepo) ListRightIDs(dbc dbctx.Context, bookID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if bookID == uuid.Nil {
		return out, nil
	}
	err := r.base(dbc).
		Model(&types.BookAuthor{}).
		Where("book_id = ?", bookID).
		Order("author_id ASC").
		Pluck("author_id", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

type bookCategoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookCategoryRepo(db *gorm.DB, baseLog *logger.Logger) RelationRepo {
	return &bookCategoryRepo{db: db, log: baseLog.With("repo", "BookCategoryRepo")}
}

func (r *bookCategoryRepo) base(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *bookCategoryRepo) Insert(dbc dbctx.Context, bookID, rightID uuid.UUID) error {
	if bookID == uuid.Nil || rightID == uuid.Nil {
		return fmt.Errorf("missing book or category id")
	}
	return r.base(dbc).Create(&types.BookCategory{BookID: bookID, CategoryID: rightID}).Error
}

func (r *bookCategoryRepo) InsertMany(dbc dbctx.Context, bookID uuid.UUID, rightIDs []uuid.UUID) error {
	if bookID == uuid.Nil || len(rightIDs) == 0 {
		return nil
	}
	rows := make([]*types.BookCategory, 0, len(rightIDs))
	for _, id := range rightIDs {
		rows = append(rows, &types.BookCategory{BookID: bookID, CategoryID: id})
	}
	return r.base(dbc).Create(&rows).Error
}

func (r *bookCategoryRepo) Delete(dbc dbctx.Context, bookID, rightID uuid.UUID) (int64, error) {
	if bookID == uuid.Nil || rightID == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).
		Where("book_id = ? AND category_id = ?", bookID, rightID).
		Delete(&types.BookCategory{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *bookCategoryRepo) DeleteByBookID(dbc dbctx.Context, bookID uuid.UUID) (int64, error) {
	if bookID == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).Where("book_id = ?", bookID).Delete(&types.BookCategory{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *bookCategoryRepo) DeleteByRightID(dbc dbctx.Context, rightID uuid.UUID) (int64, error) {
	if rightID == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).Where("category_id = ?", rightID).Delete(&types.BookCategory{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *bookCategoryRepo) ListRightIDs(dbc dbctx.Context, bookID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if bookID == uuid.Nil {
		return out, nil
	}
	err := r.base(dbc).
		Model(&types.BookCategory{}).
		Where("book_id = ?", bookID).
		Order("category_id ASC").
		Pluck("category_id", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
