package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/bookshelf-backend/internal/domain/catalog"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type BookRatingRepo interface {
	// GetByBookAndUser returns nil (no error) when the user has not rated the book.
	GetByBookAndUser(dbc dbctx.Context, bookID, userID uuid.UUID) (*types.BookRating, error)
	Create(dbc dbctx.Context, row *types.BookRating) error
	UpdateValue(dbc dbctx.Context, bookID, userID uuid.UUID, value int) error
	ListByBookID(dbc dbctx.Context, bookID uuid.UUID) ([]*types.BookRating, error)
	DeleteByBookID(dbc dbctx.Context, bookID uuid.UUID) (int64, error)
	// DeleteByBookAndUser removes a single rating row. Kept as the extension
	// point for explicit rating removal; no endpoint drives it yet.
	DeleteByBookAndUser(dbc dbctx.Context, bookID, userID uuid.UUID) (int64, error)
}

type bookRatingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookRatingRepo(db *gorm.DB, baseLog *logger.Logger) BookRatingRepo {
	return &bookRatingRepo{db: db, log: baseLog.With("repo", "BookRatingRepo")}
}

func (r *bookRatingRepo) base(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *bookRatingRepo) GetByBookAndUser(dbc dbctx.Context, bookID, userID uuid.UUID) (*types.BookRating, error) {
	if bookID == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("missing book or user id")
	}
	var out types.BookRating
	err := r.base(dbc).
		Where("book_id = ? AND user_id = ?", bookID, userID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *bookRatingRepo) Create(dbc dbctx.Context, row *types.BookRating) error {
	if row == nil {
		return fmt.Errorf("missing rating row")
	}
	return r.base(dbc).Create(row).Error
}

func (r *bookRatingRepo) UpdateValue(dbc dbctx.Context, bookID, userID uuid.UUID, value int) error {
	if bookID == uuid.Nil || userID == uuid.Nil {
		return fmt.Errorf("missing book or user id")
	}
	return r.base(dbc).
		Model(&types.BookRating{}).
		Where("book_id = ? AND user_id = ?", bookID, userID).
		Updates(map[string]interface{}{
			"value":      value,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *bookRatingRepo) ListByBookID(dbc dbctx.Context, bookID uuid.UUID) ([]*types.BookRating, error) {
	var out []*types.BookRating
	if bookID == uuid.Nil {
		return out, nil
	}
	if err := r.base(dbc).Where("book_id = ?", bookID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookRatingRepo) DeleteByBookID(dbc dbctx.Context, bookID uuid.UUID) (int64, error) {
	if bookID == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).Where("book_id = ?", bookID).Delete(&types.BookRating{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *bookRatingRepo) DeleteByBookAndUser(dbc dbctx.Context, bookID, userID uuid.UUID) (int64, error) {
	if bookID == uuid.Nil || userID == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).
		Where("book_id = ? AND user_id = ?", bookID, userID).
		Delete(&types.BookRating{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
