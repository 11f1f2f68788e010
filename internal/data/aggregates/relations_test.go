package aggregates

import (
	"context"
	"testing"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/bookshelf-backend/internal/domain/aggregates"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
)

func newRelationFixture() (*fakeStore, domainagg.RelationSynchronizer) {
	store := newFakeStore()
	sync := NewRelationSynchronizer(RelationSynchronizerDeps{
		Base:           baseDepsForStore(store),
		Books:          &fakeBooks{store: store},
		BookAuthors:    newFakeBookAuthors(store),
		BookCategories: newFakeBookCategories(store),
	})
	return store, sync
}

func TestAddPair_InsertsRow(t *testing.T) {
	store, sync := newRelationFixture()
	bookID := store.addBook(0, 0)
	authorID := store.addAuthor()

	if err := sync.AddPair(context.Background(), domainagg.RelationBookAuthor, bookID, authorID); err != nil {
		t.Fatalf("add pair: %v", err)
	}
	if _, ok := store.bookAuthors[pairKey{bookID, authorID}]; !ok {
		t.Fatalf("pair not inserted")
	}
}

func TestAddPair_DuplicateFails(t *testing.T) {
	store, sync := newRelationFixture()
	bookID := store.addBook(0, 0)
	categoryID := store.addCategory()

	if err := sync.AddPair(context.Background(), domainagg.RelationBookCategory, bookID, categoryID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := sync.AddPair(context.Background(), domainagg.RelationBookCategory, bookID, categoryID)
	if !domainagg.IsCode(err, domainagg.CodeDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestAddPair_MissingEndpoint(t *testing.T) {
	store, sync := newRelationFixture()
	bookID := store.addBook(0, 0)

	err := sync.AddPair(context.Background(), domainagg.RelationBookAuthor, bookID, uuid.New())
	if !domainagg.IsCode(err, domainagg.CodeReferentialIntegrity) {
		t.Fatalf("expected referential_integrity for unknown author, got %v", err)
	}

	err = sync.AddPair(context.Background(), domainagg.RelationBookAuthor, uuid.New(), store.addAuthor())
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found for unknown book, got %v", err)
	}
}

func TestRemovePair_ReportsRemoved(t *testing.T) {
	store, sync := newRelationFixture()
	bookID := store.addBook(0, 0)
	authorID := store.addAuthor()
	if err := sync.AddPair(context.Background(), domainagg.RelationBookAuthor, bookID, authorID); err != nil {
		t.Fatalf("add pair: %v", err)
	}

	out, err := sync.RemovePair(context.Background(), domainagg.RelationBookAuthor, bookID, authorID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !out.Removed {
		t.Fatalf("expected Removed=true")
	}

	out, err = sync.RemovePair(context.Background(), domainagg.RelationBookAuthor, bookID, authorID)
	if err != nil {
		t.Fatalf("second remove must not error: %v", err)
	}
	if out.Removed {
		t.Fatalf("expected Removed=false on second remove")
	}
}

func TestReplaceAll_DeduplicatesInput(t *testing.T) {
	store, sync := newRelationFixture()
	bookID := store.addBook(0, 0)
	a := store.addAuthor()
	b := store.addAuthor()
	c := store.addAuthor()

	err := sync.ReplaceAll(context.Background(), domainagg.RelationBookAuthor, bookID, []uuid.UUID{a, b, b, c, a})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	ids, _ := newFakeBookAuthors(store).ListRightIDs(dbctx.Context{Ctx: context.Background()}, bookID)
	if len(ids) != 3 {
		t.Fatalf("expected 3 distinct rows, got %d", len(ids))
	}
}

func TestReplaceAll_EmptySetClears(t *testing.T) {
	store, sync := newRelationFixture()
	bookID := store.addBook(0, 0)
	if err := sync.AddPair(context.Background(), domainagg.RelationBookCategory, bookID, store.addCategory()); err != nil {
		t.Fatalf("add pair: %v", err)
	}

	if err := sync.ReplaceAll(context.Background(), domainagg.RelationBookCategory, bookID, nil); err != nil {
		t.Fatalf("replace with empty set: %v", err)
	}
	if len(store.bookCategories) != 0 {
		t.Fatalf("expected cleared set, got %d rows", len(store.bookCategories))
	}
}

func TestReplaceAll_UnknownIDRollsBack(t *testing.T) {
	store, sync := newRelationFixture()
	bookID := store.addBook(0, 0)
	keep := store.addAuthor()
	if err := sync.AddPair(context.Background(), domainagg.RelationBookAuthor, bookID, keep); err != nil {
		t.Fatalf("seed pair: %v", err)
	}

	err := sync.ReplaceAll(context.Background(), domainagg.RelationBookAuthor, bookID, []uuid.UUID{store.addAuthor(), uuid.New()})
	if !domainagg.IsCode(err, domainagg.CodeReferentialIntegrity) {
		t.Fatalf("expected referential_integrity, got %v", err)
	}
	// Previous set must survive the failed replace.
	if _, ok := store.bookAuthors[pairKey{bookID, keep}]; !ok {
		t.Fatalf("failed replace must leave the previous set intact")
	}
	if len(store.bookAuthors) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(store.bookAuthors))
	}
}

func TestAddPair_AfterRolledBackReplace(t *testing.T) {
	store, sync := newRelationFixture()
	bookID := store.addBook(0, 0)
	keep := store.addAuthor()
	if err := sync.AddPair(context.Background(), domainagg.RelationBookAuthor, bookID, keep); err != nil {
		t.Fatalf("seed pair: %v", err)
	}

	err := sync.ReplaceAll(context.Background(), domainagg.RelationBookAuthor, bookID, []uuid.UUID{uuid.New()})
	if !domainagg.IsCode(err, domainagg.CodeReferentialIntegrity) {
		t.Fatalf("expected referential_integrity, got %v", err)
	}

	// Mutations after a rollback must land in the restored set, not a stale one.
	added := store.addAuthor()
	if err := sync.AddPair(context.Background(), domainagg.RelationBookAuthor, bookID, added); err != nil {
		t.Fatalf("add after rollback: %v", err)
	}
	if _, ok := store.bookAuthors[pairKey{bookID, keep}]; !ok {
		t.Fatalf("pre-rollback pair missing")
	}
	if _, ok := store.bookAuthors[pairKey{bookID, added}]; !ok {
		t.Fatalf("post-rollback insert not visible in the store")
	}
	if len(store.bookAuthors) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(store.bookAuthors))
	}
}

func TestReplaceAll_Idempotent(t *testing.T) {
	store, sync := newRelationFixture()
	bookID := store.addBook(0, 0)
	ids := []uuid.UUID{store.addCategory(), store.addCategory()}

	for i := 0; i < 2; i++ {
		if err := sync.ReplaceAll(context.Background(), domainagg.RelationBookCategory, bookID, ids); err != nil {
			t.Fatalf("replace round %d: %v", i+1, err)
		}
	}
	if len(store.bookCategories) != 2 {
		t.Fatalf("expected 2 rows after repeated replace, got %d", len(store.bookCategories))
	}
}

func TestRelationOps_UnknownKind(t *testing.T) {
	store, sync := newRelationFixture()
	bookID := store.addBook(0, 0)

	err := sync.AddPair(context.Background(), domainagg.RelationKind("book_publisher"), bookID, uuid.New())
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation for unknown kind, got %v", err)
	}
}

func TestDedupeIDs_PreservesOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	out := dedupeIDs([]uuid.UUID{a, b, a, c, b})
	if len(out) != 3 || out[0] != a || out[1] != b || out[2] != c {
		t.Fatalf("unexpected dedupe result: %v", out)
	}
	if dedupeIDs(nil) != nil {
		t.Fatalf("nil input must stay nil")
	}
}
