package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	domainagg "github.com/yungbote/bookshelf-backend/internal/domain/aggregates"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
)

type CascadeDeleterDeps struct {
	Base BaseDeps

	Books      catalogrepo.BookRepo
	Authors    catalogrepo.AuthorRepo
	Categories catalogrepo.CategoryRepo
	Ratings    catalogrepo.BookRatingRepo

	BookAuthors    catalogrepo.RelationRepo
	BookCategories catalogrepo.RelationRepo
}

type cascadeDeleter struct {
	deps CascadeDeleterDeps
}

func NewCascadeDeleter(deps CascadeDeleterDeps) domainagg.CascadeDeleter {
	deps.Base = deps.Base.withDefaults()
	return &cascadeDeleter{deps: deps}
}

// DeleteEntity removes an entity and everything that references it inside one
// transaction. Dependents go first, always in the same order, then the parent
// row. Hard deletes throughout; nothing is soft-deleted and nothing survives
// a partial failure.
func (d *cascadeDeleter) DeleteEntity(ctx context.Context, kind domainagg.EntityKind, id uuid.UUID) (domainagg.DeleteEntityResult, error) {
	op := fmt.Sprintf("Catalog.Cascade.Delete.%s", kind)
	var out domainagg.DeleteEntityResult

	if id == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing entity id", nil)
	}

	var fn func(dbc dbctx.Context) error
	switch kind {
	case domainagg.EntityBook:
		if d.deps.Books == nil || d.deps.Ratings == nil || d.deps.BookAuthors == nil || d.deps.BookCategories == nil {
			return out, domainagg.NewError(domainagg.CodeInternal, op, "cascade deleter repos not configured", nil)
		}
		fn = func(dbc dbctx.Context) error { return d.deleteBook(dbc, id) }
	case domainagg.EntityAuthor:
		if d.deps.Authors == nil || d.deps.BookAuthors == nil {
			return out, domainagg.NewError(domainagg.CodeInternal, op, "cascade deleter repos not configured", nil)
		}
		fn = func(dbc dbctx.Context) error { return d.deleteSide(dbc, d.deps.BookAuthors, id, d.deps.Authors.FullDeleteByID) }
	case domainagg.EntityCategory:
		if d.deps.Categories == nil || d.deps.BookCategories == nil {
			return out, domainagg.NewError(domainagg.CodeInternal, op, "cascade deleter repos not configured", nil)
		}
		fn = func(dbc dbctx.Context) error { return d.deleteSide(dbc, d.deps.BookCategories, id, d.deps.Categories.FullDeleteByID) }
	default:
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown entity kind %q", kind), nil)
	}

	err := executeWrite(ctx, d.deps.Base, op, fn)
	if err != nil {
		// A missing parent rolls back the dependent deletes and reports
		// Existed=false instead of failing the call.
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			return domainagg.DeleteEntityResult{Existed: false}, nil
		}
		return domainagg.DeleteEntityResult{}, err
	}
	return domainagg.DeleteEntityResult{Existed: true}, nil
}

// Book order is fixed: ratings, then both relation tables, then the book
// row itself.
func (d *cascadeDeleter) deleteBook(dbc dbctx.Context, id uuid.UUID) error {
	if _, err := d.deps.Ratings.DeleteByBookID(dbc, id); err != nil {
		return err
	}
	if _, err := d.deps.BookAuthors.DeleteByBookID(dbc, id); err != nil {
		return err
	}
	if _, err := d.deps.BookCategories.DeleteByBookID(dbc, id); err != nil {
		return err
	}
	affected, err := d.deps.Books.FullDeleteByID(dbc, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return NotFoundError("book not found")
	}
	return nil
}

// Authors and categories cascade symmetrically: clear the join rows that
// reference the entity, then delete the entity row.
func (d *cascadeDeleter) deleteSide(dbc dbctx.Context, relations catalogrepo.RelationRepo, id uuid.UUID, deleteParent func(dbctx.Context, uuid.UUID) (int64, error)) error {
	if _, err := relations.DeleteByRightID(dbc, id); err != nil {
		return err
	}
	affected, err := deleteParent(dbc, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return NotFoundError("entity not found")
	}
	return nil
}
