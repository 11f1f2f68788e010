package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	"github.com/yungbote/bookshelf-backend/internal/data/repos/testutil"
	types "github.com/yungbote/bookshelf-backend/internal/domain/catalog"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
)

func TestBookRepo_CreateAndGet(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := catalogrepo.NewBookRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	pub := time.Date(1999, 4, 15, 0, 0, 0, 0, time.UTC)
	rows, err := repo.Create(dbc, []*types.Book{{Title: "The Left Hand of Darkness", PublicationDate: &pub, CopiesOwned: 3}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rows[0].ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}

	got, err := repo.GetByID(dbc, rows[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Title != "The Left Hand of Darkness" {
		t.Fatalf("unexpected row: %+v", got)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing book")
	}
}

func TestBookRepo_ListFiltersByTitle(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := catalogrepo.NewBookRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	marker := uuid.NewString()[:8]
	testutil.SeedBook(t, tx, "Dune "+marker)
	testutil.SeedBook(t, tx, "dune messiah "+marker)
	testutil.SeedBook(t, tx, "Hyperion "+marker)

	rows, err := repo.List(dbc, catalogrepo.BookFilter{Title: "dune " + marker})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 match, got %d", len(rows))
	}

	n, err := repo.Count(dbc, catalogrepo.BookFilter{Title: marker})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 seeded books, got %d", n)
	}
}

func TestBookRepo_UpdateAggregateRequiresTx(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := catalogrepo.NewBookRepo(gdb, testutil.Logger(t))
	book := testutil.SeedBook(t, tx, "")

	if err := repo.UpdateAggregate(dbctx.Context{Ctx: context.Background()}, book.ID, 5, 1); err == nil {
		t.Fatalf("expected error without a transaction")
	}
	if _, err := repo.LockByID(dbctx.Context{Ctx: context.Background()}, book.ID); err == nil {
		t.Fatalf("expected error without a transaction")
	}

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	if _, err := repo.LockByID(dbc, book.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := repo.UpdateAggregate(dbc, book.ID, 7.5, 2); err != nil {
		t.Fatalf("update aggregate: %v", err)
	}
	got, err := repo.GetByID(dbc, book.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AvgRating != 7.5 || got.RateCount != 2 {
		t.Fatalf("aggregate not persisted: avg=%v count=%d", got.AvgRating, got.RateCount)
	}
}

func TestBookRepo_FullDeleteByID(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := catalogrepo.NewBookRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	book := testutil.SeedBook(t, tx, "")

	affected, err := repo.FullDeleteByID(dbc, book.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row deleted, got %d", affected)
	}
	affected, err = repo.FullDeleteByID(dbc, book.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows on second delete, got %d", affected)
	}
}
