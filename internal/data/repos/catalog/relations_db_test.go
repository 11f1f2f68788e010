package catalog_test

import (
	"context"
	"testing"

	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	"github.com/yungbote/bookshelf-backend/internal/data/repos/testutil"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
)

func TestBookAuthorRepo_RoundTrip(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := catalogrepo.NewBookAuthorRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	book := testutil.SeedBook(t, tx, "")
	a1 := testutil.SeedAuthor(t, tx, "", "")
	a2 := testutil.SeedAuthor(t, tx, "", "")

	if err := repo.Insert(dbc, book.ID, a1.ID); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.InsertMany(dbc, book.ID, nil); err != nil {
		t.Fatalf("insert many empty: %v", err)
	}
	if err := repo.Insert(dbc, book.ID, a2.ID); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	ids, err := repo.ListRightIDs(dbc, book.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(ids))
	}

	affected, err := repo.Delete(dbc, book.ID, a1.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row deleted, got %d", affected)
	}
	affected, err = repo.Delete(dbc, book.ID, a1.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows on second delete, got %d", affected)
	}
}

func TestBookAuthorRepo_DuplicateInsertFails(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := catalogrepo.NewBookAuthorRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	book := testutil.SeedBook(t, tx, "")
	author := testutil.SeedAuthor(t, tx, "", "")

	if err := repo.Insert(dbc, book.ID, author.ID); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(dbc, book.ID, author.ID); err == nil {
		t.Fatalf("expected duplicate pair to fail")
	}
}

func TestBookCategoryRepo_DeleteByEndpoint(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := catalogrepo.NewBookCategoryRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	b1 := testutil.SeedBook(t, tx, "")
	b2 := testutil.SeedBook(t, tx, "")
	cat := testutil.SeedCategory(t, tx, "")

	if err := repo.Insert(dbc, b1.ID, cat.ID); err != nil {
		t.Fatalf("insert b1: %v", err)
	}
	if err := repo.Insert(dbc, b2.ID, cat.ID); err != nil {
		t.Fatalf("insert b2: %v", err)
	}

	affected, err := repo.DeleteByBookID(dbc, b1.ID)
	if err != nil {
		t.Fatalf("delete by book: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row, got %d", affected)
	}

	affected, err = repo.DeleteByRightID(dbc, cat.ID)
	if err != nil {
		t.Fatalf("delete by category: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 remaining row, got %d", affected)
	}

	ids, err := repo.ListRightIDs(dbc, b2.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no rows left, got %d", len(ids))
	}
}
