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

type CategoryFilter struct {
	Name       string
	Descending bool
	Limit      int
	Offset     int
}

type CategoryRepo interface {
	Create(dbc dbctx.Context, rows []*types.Category) ([]*types.Category, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Category, error)
	GetByBookID(dbc dbctx.Context, bookID uuid.UUID) ([]*types.Category, error)
	List(dbc dbctx.Context, filter CategoryFilter) ([]*types.Category, error)
	Count(dbc dbctx.Context, filter CategoryFilter) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (int64, error)
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) base(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *categoryRepo) Create(dbc dbctx.Context, rows []*types.Category) ([]*types.Category, error) {
	if len(rows) == 0 {
		return []*types.Category{}, nil
	}
	if err := r.base(dbc).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *categoryRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Category, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Category
	err := r.base(dbc).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *categoryRepo) GetByBookID(dbc dbctx.Context, bookID uuid.UUID) ([]*types.Category, error) {
	var out []*types.Category
	if bookID == uuid.Nil {
		return out, nil
	}
	err := r.base(dbc).
		Joins("INNER JOIN book_category bc ON bc.category_id = category.id").
		Where("bc.book_id = ?", bookID).
		Order("category.name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) List(dbc dbctx.Context, filter CategoryFilter) ([]*types.Category, error) {
	var out []*types.Category
	q := r.base(dbc).Model(&types.Category{})
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	dir := "ASC"
	if filter.Descending {
		dir = "DESC"
	}
	q = q.Order("name " + dir)
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

func (r *categoryRepo) Count(dbc dbctx.Context, filter CategoryFilter) (int64, error) {
	var n int64
	q := r.base(dbc).Model(&types.Category{})
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *categoryRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	res := r.base(dbc).Model(&types.Category{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *categoryRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).Unscoped().Where("id = ?", id).Delete(&types.Category{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
