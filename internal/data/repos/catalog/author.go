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

type AuthorFilter struct {
	Name       string // matches first or last name
	OrderBy    string // "first_name", "last_name", "created_at"
	Descending bool
	Limit      int
	Offset     int
}

type AuthorRepo interface {
	Create(dbc dbctx.Context, rows []*types.Author) ([]*types.Author, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Author, error)
	GetByBookID(dbc dbctx.Context, bookID uuid.UUID) ([]*types.Author, error)
	List(dbc dbctx.Context, filter AuthorFilter) ([]*types.Author, error)
	Count(dbc dbctx.Context, filter AuthorFilter) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (int64, error)
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type authorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuthorRepo(db *gorm.DB, baseLog *logger.Logger) AuthorRepo {
	return &authorRepo{db: db, log: baseLog.With("repo", "AuthorRepo")}
}

func (r *authorRepo) base(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *authorRepo) Create(dbc dbctx.Context, rows []*types.Author) ([]*types.Author, error) {
	if len(rows) == 0 {
		return []*types.Author{}, nil
	}
	if err := r.base(dbc).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *authorRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Author, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Author
	err := r.base(dbc).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *authorRepo) GetByBookID(dbc dbctx.Context, bookID uuid.UUID) ([]*types.Author, error) {
	var out []*types.Author
	if bookID == uuid.Nil {
		return out, nil
	}
	err := r.base(dbc).
		Joins("INNER JOIN book_author ba ON ba.author_id = author.id").
		Where("ba.book_id = ?", bookID).
		Order("author.first_name ASC, author.last_name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyAuthorFilter(q *gorm.DB, filter AuthorFilter) *gorm.DB {
	if filter.Name != "" {
		pattern := "%" + filter.Name + "%"
		q = q.Where("LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)", pattern, pattern)
	}
	return q
}

func (r *authorRepo) List(dbc dbctx.Context, filter AuthorFilter) ([]*types.Author, error) {
	var out []*types.Author
	q := applyAuthorFilter(r.base(dbc).Model(&types.Author{}), filter)

	order := "first_name"
	switch filter.OrderBy {
	case "first_name", "last_name", "created_at":
		order = filter.OrderBy
	}
	dir := "ASC"
	if filter.Descending {
		dir = "DESC"
	}
	q = q.Order(fmt.Sprintf("%s %s", order, dir))

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *authorRepo) Count(dbc dbctx.Context, filter AuthorFilter) (int64, error) {
	var n int64
	if err := applyAuthorFilter(r.base(dbc).Model(&types.Author{}), filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *authorRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	res := r.base(dbc).Model(&types.Author{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *authorRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).Unscoped().Where("id = ?", id).Delete(&types.Author{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
