package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	"github.com/yungbote/bookshelf-backend/internal/data/repos/testutil"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
)

// Name filters must match case-insensitively on every supported driver, so
// they are written with LOWER/LIKE rather than the Postgres-only ILIKE.

func TestAuthorRepo_ListFiltersByNameCaseInsensitive(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := catalogrepo.NewAuthorRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	marker := uuid.NewString()[:8]
	testutil.SeedAuthor(t, tx, "URSULA-"+marker, "Le Guin")
	testutil.SeedAuthor(t, tx, "Frank", "herbert-"+marker)
	testutil.SeedAuthor(t, tx, "Dan", "Simmons-"+marker)

	rows, err := repo.List(dbc, catalogrepo.AuthorFilter{Name: "ursula-" + marker})
	if err != nil {
		t.Fatalf("list by first name: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 first-name match, got %d", len(rows))
	}

	rows, err = repo.List(dbc, catalogrepo.AuthorFilter{Name: "HERBERT-" + marker})
	if err != nil {
		t.Fatalf("list by last name: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 last-name match, got %d", len(rows))
	}
}

func TestCategoryRepo_ListFiltersByNameCaseInsensitive(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := catalogrepo.NewCategoryRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	marker := uuid.NewString()[:8]
	testutil.SeedCategory(t, tx, "Science Fiction "+marker)
	testutil.SeedCategory(t, tx, "HISTORY "+marker)

	rows, err := repo.List(dbc, catalogrepo.CategoryFilter{Name: "science fiction " + marker})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 match, got %d", len(rows))
	}

	n, err := repo.Count(dbc, catalogrepo.CategoryFilter{Name: "history " + marker})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 counted match, got %d", n)
	}
}
