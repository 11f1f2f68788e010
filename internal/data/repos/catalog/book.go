package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/bookshelf-backend/internal/domain/catalog"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

// BookFilter narrows and pages List/Count queries.
type BookFilter struct {
	Title           string
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
	OrderBy         string // "title", "publication_date", "avg_rating", "created_at"
	Descending      bool
	Limit           int
	Offset          int
}

type BookRepo interface {
	Create(dbc dbctx.Context, rows []*types.Book) ([]*types.Book, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Book, error)
	List(dbc dbctx.Context, filter BookFilter) ([]*types.Book, error)
	Count(dbc dbctx.Context, filter BookFilter) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (int64, error)

	// LockByID reads the book row FOR UPDATE; it requires a transaction and
	// is the serialization point for every aggregate write against the book.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Book, error)
	// UpdateAggregate rewrites the derived rating pair. Callers must hold the
	// row lock from LockByID in the same transaction.
	UpdateAggregate(dbc dbctx.Context, id uuid.UUID, avgRating float64, rateCount int) error

	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type bookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	return &bookRepo{db: db, log: baseLog.With("repo", "BookRepo")}
}

func (r *bookRepo) base(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *bookRepo) Create(dbc dbctx.Context, rows []*types.Book) ([]*types.Book, error) {
	if len(rows) == 0 {
		return []*types.Book{}, nil
	}
	if err := r.base(dbc).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *bookRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Book, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Book
	err := r.base(dbc).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func applyBookFilter(q *gorm.DB, filter BookFilter) *gorm.DB {
	if filter.Title != "" {
		// LOWER/LIKE instead of ILIKE so the sqlite fallback driver works too.
		q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Title+"%")
	}
	if filter.PublishedAfter != nil {
		q = q.Where("publication_date > ?", *filter.PublishedAfter)
	}
	if filter.PublishedBefore != nil {
		q = q.Where("publication_date < ?", *filter.PublishedBefore)
	}
	return q
}

func (r *bookRepo) List(dbc dbctx.Context, filter BookFilter) ([]*types.Book, error) {
	var out []*types.Book
	q := applyBookFilter(r.base(dbc).Model(&types.Book{}), filter)

	order := "created_at"
	switch filter.OrderBy {
	case "title", "publication_date", "avg_rating", "created_at":
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

func (r *bookRepo) Count(dbc dbctx.Context, filter BookFilter) (int64, error) {
	var n int64
	q := applyBookFilter(r.base(dbc).Model(&types.Book{}), filter)
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *bookRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	res := r.base(dbc).Model(&types.Book{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *bookRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Book, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.Book
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *bookRepo) UpdateAggregate(dbc dbctx.Context, id uuid.UUID, avgRating float64, rateCount int) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return fmt.Errorf("UpdateAggregate requires dbc.Tx")
	}
	return dbc.Tx.WithContext(dbc.Ctx).
		Model(&types.Book{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"avg_rating": avgRating,
			"rate_count": rateCount,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *bookRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, nil
	}
	res := r.base(dbc).Unscoped().Where("id = ?", id).Delete(&types.Book{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
