package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/bookshelf-backend/internal/clients/redis"
	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	domainagg "github.com/yungbote/bookshelf-backend/internal/domain/aggregates"
	types "github.com/yungbote/bookshelf-backend/internal/domain/catalog"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type BookInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CoverURL        string     `json:"cover_url"`
	PublicationDate *time.Time `json:"publication_date"`
	CopiesOwned     int        `json:"copies_owned"`
}

type AuthorInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`
}

type CategoryInput struct {
	Name string `json:"name"`
}

// BookDetail is the assembled read model for a single book: the row plus its
// related authors and categories. This is the payload the book cache stores.
type BookDetail struct {
	Book       *types.Book       `json:"book"`
	Authors    []*types.Author   `json:"authors"`
	Categories []*types.Category `json:"categories"`
}

type CatalogService interface {
	CreateBook(ctx context.Context, in BookInput) (*types.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*BookDetail, error)
	ListBooks(ctx context.Context, filter catalogrepo.BookFilter) ([]*types.Book, int64, error)
	UpdateBook(ctx context.Context, id uuid.UUID, in BookInput) (*types.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) (domainagg.DeleteEntityResult, error)

	CreateAuthor(ctx context.Context, in AuthorInput) (*types.Author, error)
	GetAuthor(ctx context.Context, id uuid.UUID) (*types.Author, error)
	ListAuthors(ctx context.Context, filter catalogrepo.AuthorFilter) ([]*types.Author, int64, error)
	UpdateAuthor(ctx context.Context, id uuid.UUID, in AuthorInput) (*types.Author, error)
	DeleteAuthor(ctx context.Context, id uuid.UUID) (domainagg.DeleteEntityResult, error)

	CreateCategory(ctx context.Context, in CategoryInput) (*types.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*types.Category, error)
	ListCategories(ctx context.Context, filter catalogrepo.CategoryFilter) ([]*types.Category, int64, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*types.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (domainagg.DeleteEntityResult, error)

	SubmitRating(ctx context.Context, bookID, userID uuid.UUID, value int) (domainagg.SubmitRatingResult, error)
	ListRatings(ctx context.Context, bookID uuid.UUID) ([]*types.BookRating, error)

	AddRelation(ctx context.Context, kind domainagg.RelationKind, bookID, rightID uuid.UUID) error
	RemoveRelation(ctx context.Context, kind domainagg.RelationKind, bookID, rightID uuid.UUID) (domainagg.RemovePairResult, error)
	ReplaceRelations(ctx context.Context, kind domainagg.RelationKind, bookID uuid.UUID, rightIDs []uuid.UUID) error
}

type catalogService struct {
	db  *gorm.DB
	log *logger.Logger

	books      catalogrepo.BookRepo
	authors    catalogrepo.AuthorRepo
	categories catalogrepo.CategoryRepo
	ratingRows catalogrepo.BookRatingRepo

	ratings   domainagg.RatingAggregator
	relations domainagg.RelationSynchronizer
	deleter   domainagg.CascadeDeleter

	cache redisclient.BookCache
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	books catalogrepo.BookRepo,
	authors catalogrepo.AuthorRepo,
	categories catalogrepo.CategoryRepo,
	ratingRows catalogrepo.BookRatingRepo,
	ratings domainagg.RatingAggregator,
	relations domainagg.RelationSynchronizer,
	deleter domainagg.CascadeDeleter,
	cache redisclient.BookCache,
) CatalogService {
	return &catalogService{
		db:         db,
		log:        log.With("service", "CatalogService"),
		books:      books,
		authors:    authors,
		categories: categories,
		ratingRows: ratingRows,
		ratings:    ratings,
		relations:  relations,
		deleter:    deleter,
		cache:      cache,
	}
}

func (s *catalogService) invalidateBook(ctx context.Context, bookID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, bookID); err != nil {
		s.log.Warn("book cache invalidation failed", "book_id", bookID, "error", err)
	}
}

// ---- books ----

func (s *catalogService) CreateBook(ctx context.Context, in BookInput) (*types.Book, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, "Catalog.Book.Create", "title is required", nil)
	}
	if in.CopiesOwned < 0 {
		return nil, domainagg.NewError(domainagg.CodeValidation, "Catalog.Book.Create", "copies_owned must not be negative", nil)
	}
	row := &types.Book{
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		CoverURL:        strings.TrimSpace(in.CoverURL),
		PublicationDate: in.PublicationDate,
		CopiesOwned:     in.CopiesOwned,
	}
	if _, err := s.books.Create(dbctx.Context{Ctx: ctx}, []*types.Book{row}); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return row, nil
}

func (s *catalogService) GetBook(ctx context.Context, id uuid.UUID) (*BookDetail, error) {
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, "Catalog.Book.Get", "missing book id", nil)
	}
	if s.cache != nil {
		var cached BookDetail
		if ok, err := s.cache.Get(ctx, id, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	book, err := s.books.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load book: %w", err)
	}
	if book == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, "Catalog.Book.Get", "book not found", nil)
	}

	var (
		authors    []*types.Author
		categories []*types.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = s.authors.GetByBookID(dbctx.Context{Ctx: gctx}, id)
		if err != nil {
			return fmt.Errorf("load book authors: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.GetByBookID(dbctx.Context{Ctx: gctx}, id)
		if err != nil {
			return fmt.Errorf("load book categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	detail := &BookDetail{Book: book, Authors: authors, Categories: categories}

	if s.cache != nil {
		if err := s.cache.Set(ctx, id, detail); err != nil {
			s.log.Warn("book cache write failed", "book_id", id, "error", err)
		}
	}
	return detail, nil
}

func (s *catalogService) ListBooks(ctx context.Context, filter catalogrepo.BookFilter) ([]*types.Book, int64, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.books.List(dbc, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	total, err := s.books.Count(dbc, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	return rows, total, nil
}

func (s *catalogService) UpdateBook(ctx context.Context, id uuid.UUID, in BookInput) (*types.Book, error) {
	const op = "Catalog.Book.Update"
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing book id", nil)
	}
	updates := map[string]interface{}{}
	if title := strings.TrimSpace(in.Title); title != "" {
		updates["title"] = title
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		updates["description"] = desc
	}
	if cover := strings.TrimSpace(in.CoverURL); cover != "" {
		updates["cover_url"] = cover
	}
	if in.PublicationDate != nil {
		updates["publication_date"] = *in.PublicationDate
	}
	if in.CopiesOwned > 0 {
		updates["copies_owned"] = in.CopiesOwned
	}
	// avg_rating and rate_count are never writable here; only the rating
	// aggregator maintains them.

	dbc := dbctx.Context{Ctx: ctx}
	affected, err := s.books.UpdateFields(dbc, id, updates)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	if affected == 0 {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "book not found", nil)
	}
	s.invalidateBook(ctx, id)
	return s.books.GetByID(dbc, id)
}

func (s *catalogService) DeleteBook(ctx context.Context, id uuid.UUID) (domainagg.DeleteEntityResult, error) {
	out, err := s.deleter.DeleteEntity(ctx, domainagg.EntityBook, id)
	if err != nil {
		return out, err
	}
	s.invalidateBook(ctx, id)
	return out, nil
}

// ---- authors ----

func (s *catalogService) CreateAuthor(ctx context.Context, in AuthorInput) (*types.Author, error) {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" && last == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, "Catalog.Author.Create", "author name is required", nil)
	}
	row := &types.Author{FirstName: first, LastName: last, ImageURL: strings.TrimSpace(in.ImageURL)}
	if _, err := s.authors.Create(dbctx.Context{Ctx: ctx}, []*types.Author{row}); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	return row, nil
}

func (s *catalogService) GetAuthor(ctx context.Context, id uuid.UUID) (*types.Author, error) {
	row, err := s.authors.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}
	if row == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, "Catalog.Author.Get", "author not found", nil)
	}
	return row, nil
}

func (s *catalogService) ListAuthors(ctx context.Context, filter catalogrepo.AuthorFilter) ([]*types.Author, int64, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.authors.List(dbc, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}
	total, err := s.authors.Count(dbc, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}
	return rows, total, nil
}

func (s *catalogService) UpdateAuthor(ctx context.Context, id uuid.UUID, in AuthorInput) (*types.Author, error) {
	const op = "Catalog.Author.Update"
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing author id", nil)
	}
	updates := map[string]interface{}{}
	if v := strings.TrimSpace(in.FirstName); v != "" {
		updates["first_name"] = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		updates["last_name"] = v
	}
	if v := strings.TrimSpace(in.ImageURL); v != "" {
		updates["image_url"] = v
	}
	dbc := dbctx.Context{Ctx: ctx}
	affected, err := s.authors.UpdateFields(dbc, id, updates)
	if err != nil {
		return nil, fmt.Errorf("update author: %w", err)
	}
	if affected == 0 {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "author not found", nil)
	}
	return s.authors.GetByID(dbc, id)
}

func (s *catalogService) DeleteAuthor(ctx context.Context, id uuid.UUID) (domainagg.DeleteEntityResult, error) {
	return s.deleter.DeleteEntity(ctx, domainagg.EntityAuthor, id)
}

// ---- categories ----

func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*types.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, "Catalog.Category.Create", "name is required", nil)
	}
	row := &types.Category{Name: name}
	if _, err := s.categories.Create(dbctx.Context{Ctx: ctx}, []*types.Category{row}); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return row, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*types.Category, error) {
	row, err := s.categories.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if row == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, "Catalog.Category.Get", "category not found", nil)
	}
	return row, nil
}

func (s *catalogService) ListCategories(ctx context.Context, filter catalogrepo.CategoryFilter) ([]*types.Category, int64, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.categories.List(dbc, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	total, err := s.categories.Count(dbc, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}
	return rows, total, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*types.Category, error) {
	const op = "Catalog.Category.Update"
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing category id", nil)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "name is required", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	affected, err := s.categories.UpdateFields(dbc, id, map[string]interface{}{"name": name})
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if affected == 0 {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "category not found", nil)
	}
	return s.categories.GetByID(dbc, id)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) (domainagg.DeleteEntityResult, error) {
	return s.deleter.DeleteEntity(ctx, domainagg.EntityCategory, id)
}

// ---- ratings and relations ----

func (s *catalogService) SubmitRating(ctx context.Context, bookID, userID uuid.UUID, value int) (domainagg.SubmitRatingResult, error) {
	out, err := s.ratings.SubmitRating(ctx, domainagg.SubmitRatingInput{BookID: bookID, UserID: userID, Value: value})
	if err != nil {
		return out, err
	}
	if out.Changed {
		s.invalidateBook(ctx, bookID)
	}
	return out, nil
}

func (s *catalogService) ListRatings(ctx context.Context, bookID uuid.UUID) ([]*types.BookRating, error) {
	const op = "Catalog.Rating.List"
	if bookID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing book id", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	book, err := s.books.GetByID(dbc, bookID)
	if err != nil {
		return nil, fmt.Errorf("load book: %w", err)
	}
	if book == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "book not found", nil)
	}
	rows, err := s.ratingRows.ListByBookID(dbc, bookID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return rows, nil
}

func (s *catalogService) AddRelation(ctx context.Context, kind domainagg.RelationKind, bookID, rightID uuid.UUID) error {
	if err := s.relations.AddPair(ctx, kind, bookID, rightID); err != nil {
		return err
	}
	s.invalidateBook(ctx, bookID)
	return nil
}

func (s *catalogService) RemoveRelation(ctx context.Context, kind domainagg.RelationKind, bookID, rightID uuid.UUID) (domainagg.RemovePairResult, error) {
	out, err := s.relations.RemovePair(ctx, kind, bookID, rightID)
	if err != nil {
		return out, err
	}
	if out.Removed {
		s.invalidateBook(ctx, bookID)
	}
	return out, nil
}

func (s *catalogService) ReplaceRelations(ctx context.Context, kind domainagg.RelationKind, bookID uuid.UUID, rightIDs []uuid.UUID) error {
	if err := s.relations.ReplaceAll(ctx, kind, bookID, rightIDs); err != nil {
		return err
	}
	s.invalidateBook(ctx, bookID)
	return nil
}
