package aggregates

import (
	"context"
	"testing"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/bookshelf-backend/internal/domain/aggregates"
)

func newCascadeFixture() (*fakeStore, domainagg.CascadeDeleter) {
	store := newFakeStore()
	del := NewCascadeDeleter(CascadeDeleterDeps{
		Base:           baseDepsForStore(store),
		Books:          &fakeBooks{store: store},
		Authors:        &fakeAuthors{store: store},
		Categories:     &fakeCategories{store: store},
		Ratings:        &fakeRatings{store: store},
		BookAuthors:    newFakeBookAuthors(store),
		BookCategories: newFakeBookCategories(store),
	})
	return store, del
}

func TestDeleteEntity_BookCascades(t *testing.T) {
	store, del := newCascadeFixture()
	bookID := store.addBook(7.5, 2)
	authorID := store.addAuthor()
	categoryID := store.addCategory()
	store.ratings[ratingKey{bookID, uuid.New()}] = 8
	store.ratings[ratingKey{bookID, uuid.New()}] = 7
	store.bookAuthors[pairKey{bookID, authorID}] = struct{}{}
	store.bookCategories[pairKey{bookID, categoryID}] = struct{}{}

	out, err := del.DeleteEntity(context.Background(), domainagg.EntityBook, bookID)
	if err != nil {
		t.Fatalf("delete book: %v", err)
	}
	if !out.Existed {
		t.Fatalf("expected Existed=true")
	}
	if len(store.ratings) != 0 || len(store.bookAuthors) != 0 || len(store.bookCategories) != 0 {
		t.Fatalf("dependents survived: ratings=%d authors=%d categories=%d",
			len(store.ratings), len(store.bookAuthors), len(store.bookCategories))
	}
	if _, ok := store.books[bookID]; ok {
		t.Fatalf("book row survived")
	}
	// The author and category themselves are not children of the book.
	if _, ok := store.authors[authorID]; !ok {
		t.Fatalf("author must survive a book delete")
	}
	if _, ok := store.categories[categoryID]; !ok {
		t.Fatalf("category must survive a book delete")
	}
}

func TestDeleteEntity_MissingIsNotAnError(t *testing.T) {
	_, del := newCascadeFixture()
	for _, kind := range []domainagg.EntityKind{domainagg.EntityBook, domainagg.EntityAuthor, domainagg.EntityCategory} {
		out, err := del.DeleteEntity(context.Background(), kind, uuid.New())
		if err != nil {
			t.Fatalf("%s: deleting a missing entity must not error: %v", kind, err)
		}
		if out.Existed {
			t.Fatalf("%s: expected Existed=false", kind)
		}
	}
}

func TestDeleteEntity_SecondDeleteReportsMissing(t *testing.T) {
	store, del := newCascadeFixture()
	bookID := store.addBook(0, 0)

	out, err := del.DeleteEntity(context.Background(), domainagg.EntityBook, bookID)
	if err != nil || !out.Existed {
		t.Fatalf("first delete: out=%+v err=%v", out, err)
	}
	out, err = del.DeleteEntity(context.Background(), domainagg.EntityBook, bookID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if out.Existed {
		t.Fatalf("second delete must report Existed=false")
	}
}

func TestDeleteEntity_AuthorClearsJoinRowsOnly(t *testing.T) {
	store, del := newCascadeFixture()
	bookID := store.addBook(0, 0)
	authorID := store.addAuthor()
	store.bookAuthors[pairKey{bookID, authorID}] = struct{}{}

	out, err := del.DeleteEntity(context.Background(), domainagg.EntityAuthor, authorID)
	if err != nil {
		t.Fatalf("delete author: %v", err)
	}
	if !out.Existed {
		t.Fatalf("expected Existed=true")
	}
	if len(store.bookAuthors) != 0 {
		t.Fatalf("join rows survived")
	}
	if _, ok := store.books[bookID]; !ok {
		t.Fatalf("book must survive an author delete")
	}
}

func TestDeleteEntity_CategoryClearsJoinRowsOnly(t *testing.T) {
	store, del := newCascadeFixture()
	bookID := store.addBook(0, 0)
	categoryID := store.addCategory()
	store.bookCategories[pairKey{bookID, categoryID}] = struct{}{}

	out, err := del.DeleteEntity(context.Background(), domainagg.EntityCategory, categoryID)
	if err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if !out.Existed {
		t.Fatalf("expected Existed=true")
	}
	if len(store.bookCategories) != 0 {
		t.Fatalf("join rows survived")
	}
	if _, ok := store.books[bookID]; !ok {
		t.Fatalf("book must survive a category delete")
	}
}

func TestDeleteEntity_UnknownKind(t *testing.T) {
	_, del := newCascadeFixture()
	_, err := del.DeleteEntity(context.Background(), domainagg.EntityKind("publisher"), uuid.New())
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
}
