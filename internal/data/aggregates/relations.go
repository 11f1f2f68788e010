package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	domainagg "github.com/yungbote/bookshelf-backend/internal/domain/aggregates"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
)

type RelationSynchronizerDeps struct {
	Base BaseDeps

	Books          catalogrepo.BookRepo
	BookAuthors    catalogrepo.RelationRepo
	BookCategories catalogrepo.RelationRepo
}

type relationSynchronizer struct {
	deps RelationSynchronizerDeps
}

func NewRelationSynchronizer(deps RelationSynchronizerDeps) domainagg.RelationSynchronizer {
	deps.Base = deps.Base.withDefaults()
	return &relationSynchronizer{deps: deps}
}

func (s *relationSynchronizer) repoFor(kind domainagg.RelationKind) (catalogrepo.RelationRepo, error) {
	switch kind {
	case domainagg.RelationBookAuthor:
		if s.deps.BookAuthors == nil {
			return nil, fmt.Errorf("book_author relation repo not configured")
		}
		return s.deps.BookAuthors, nil
	case domainagg.RelationBookCategory:
		if s.deps.BookCategories == nil {
			return nil, fmt.Errorf("book_category relation repo not configured")
		}
		return s.deps.BookCategories, nil
	default:
		return nil, ValidationError(fmt.Sprintf("unknown relation kind %q", kind))
	}
}

// Every mutation locks the book row first. That lock is what keeps a
// concurrent ReplaceAll from interleaving its delete/insert halves with a
// single-pair AddPair/RemovePair on the same book; mutations for different
// books proceed independently.
func (s *relationSynchronizer) AddPair(ctx context.Context, kind domainagg.RelationKind, bookID, rightID uuid.UUID) error {
	op := fmt.Sprintf("Catalog.Relation.AddPair.%s", kind)
	if bookID == uuid.Nil || rightID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing book or relation id", nil)
	}
	repo, err := s.repoFor(kind)
	if err != nil {
		return MapError(op, err)
	}
	if s.deps.Books == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "book repo not configured", nil)
	}

	return executeWrite(ctx, s.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := s.deps.Books.LockByID(dbc, bookID); err != nil {
			return err
		}
		return repo.Insert(dbc, bookID, rightID)
	})
}

func (s *relationSynchronizer) RemovePair(ctx context.Context, kind domainagg.RelationKind, bookID, rightID uuid.UUID) (domainagg.RemovePairResult, error) {
	op := fmt.Sprintf("Catalog.Relation.RemovePair.%s", kind)
	var out domainagg.RemovePairResult
	if bookID == uuid.Nil || rightID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing book or relation id", nil)
	}
	repo, err := s.repoFor(kind)
	if err != nil {
		return out, MapError(op, err)
	}
	if s.deps.Books == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "book repo not configured", nil)
	}

	err = executeWrite(ctx, s.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := s.deps.Books.LockByID(dbc, bookID); err != nil {
			return err
		}
		affected, err := repo.Delete(dbc, bookID, rightID)
		if err != nil {
			return err
		}
		// Nothing to delete is a signal, not an error.
		out.Removed = affected > 0
		return nil
	})
	if err != nil {
		return domainagg.RemovePairResult{}, err
	}
	return out, nil
}

// ReplaceAll is a full replace, not a diff: the old set is discarded and the
// deduplicated new set inserted, both inside one transaction. An empty set
// only clears; no insert statement is issued with zero rows. Any id that
// does not reference an existing row fails the whole call and leaves the
// previous relation set intact.
func (s *relationSynchronizer) ReplaceAll(ctx context.Context, kind domainagg.RelationKind, bookID uuid.UUID, rightIDs []uuid.UUID) error {
	op := fmt.Sprintf("Catalog.Relation.ReplaceAll.%s", kind)
	if bookID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing book id", nil)
	}
	repo, err := s.repoFor(kind)
	if err != nil {
		return MapError(op, err)
	}
	if s.deps.Books == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "book repo not configured", nil)
	}

	deduped := dedupeIDs(rightIDs)
	for _, id := range deduped {
		if id == uuid.Nil {
			return domainagg.NewError(domainagg.CodeValidation, op, "relation id must not be nil", nil)
		}
	}

	return executeWrite(ctx, s.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := s.deps.Books.LockByID(dbc, bookID); err != nil {
			return err
		}
		if _, err := repo.DeleteByBookID(dbc, bookID); err != nil {
			return err
		}
		if len(deduped) == 0 {
			return nil
		}
		return repo.InsertMany(dbc, bookID, deduped)
	})
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
